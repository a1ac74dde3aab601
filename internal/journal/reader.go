package journal

import (
	"bufio"
	"encoding/json"
	"os"

	"github.com/actlog-project/actlog/pkg/model"
)

// Lines larger than the scanner default; content capture can push a
// record past a megabyte.
const maxLineSize = 4 << 20

// ScanLines calls fn for every line of the log file. A missing file
// scans zero lines.
func ScanLines(path string, fn func(line []byte) error) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		if err := fn(scanner.Bytes()); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// ReadRecords reads all event records from the log file, skipping
// malformed lines. It returns the records and the malformed count.
func ReadRecords(path string) ([]model.Record, int, error) {
	var (
		records   []model.Record
		malformed int
	)
	err := ScanLines(path, func(line []byte) error {
		var r model.Record
		if err := json.Unmarshal(line, &r); err != nil || r.Event == "" {
			malformed++
			return nil
		}
		records = append(records, r)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return records, malformed, nil
}

// ReadAnalysisRecords reads all analysis records from the log file,
// skipping malformed lines.
func ReadAnalysisRecords(path string) ([]model.AnalysisRecord, int, error) {
	var (
		records   []model.AnalysisRecord
		malformed int
	)
	err := ScanLines(path, func(line []byte) error {
		var r model.AnalysisRecord
		if err := json.Unmarshal(line, &r); err != nil || r.EventID == "" {
			malformed++
			return nil
		}
		records = append(records, r)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return records, malformed, nil
}

// Tail returns the last n records of the log file.
func Tail(path string, n int) ([]model.Record, error) {
	records, _, err := ReadRecords(path)
	if err != nil {
		return nil, err
	}
	if n > 0 && len(records) > n {
		records = records[len(records)-n:]
	}
	return records, nil
}
