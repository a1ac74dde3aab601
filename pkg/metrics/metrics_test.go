package metrics_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/actlog-project/actlog/pkg/metrics"
)

func TestRegistry_Counters(t *testing.T) {
	r := metrics.NewRegistry()

	r.RecordFileEvent()
	r.RecordFileEvent()
	r.RecordFileSkipped()
	r.RecordAppSwitch()
	r.RecordWrite(nil)
	r.RecordWrite(errors.New("disk full"))
	r.RecordAnalysis(nil)
	r.RecordAnalysis(errors.New("timeout"))

	s := r.Read()
	assert.EqualValues(t, 2, s.FileEvents)
	assert.EqualValues(t, 1, s.FileSkipped)
	assert.EqualValues(t, 1, s.AppSwitches)
	assert.EqualValues(t, 1, s.RecordsWritten)
	assert.EqualValues(t, 1, s.WriteErrors)
	assert.EqualValues(t, 1, s.Analyses)
	assert.EqualValues(t, 1, s.AnalysisErrors)
}

func TestRegistry_Concurrent(t *testing.T) {
	r := metrics.NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.RecordFileEvent()
			r.RecordWrite(nil)
		}()
	}
	wg.Wait()

	s := r.Read()
	assert.EqualValues(t, 50, s.FileEvents)
	assert.EqualValues(t, 50, s.RecordsWritten)
}
