// Package export ships journaled records to a remote collector. It
// runs outside the live watch path: an export reads a journal from the
// last shipped offset and forwards the new lines in batches.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/actlog-project/actlog/internal/journal"
	"github.com/actlog-project/actlog/pkg/errclass"
)

// Batch is one shipment of journal lines.
type Batch struct {
	ID       string            `json:"batch_id"`
	Category journal.Category  `json:"category"`
	Count    int               `json:"count"`
	Records  []json.RawMessage `json:"records"`
}

// Sender delivers a batch to a collector.
type Sender interface {
	Name() string
	Send(ctx context.Context, batch Batch) error
	Close() error
}

// HTTPSender posts batches as JSON to a collector endpoint.
type HTTPSender struct {
	endpoint string
	client   *http.Client
}

// NewHTTPSender creates a sender posting to endpoint.
func NewHTTPSender(endpoint string) *HTTPSender {
	return &HTTPSender{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *HTTPSender) Name() string { return "http" }

func (s *HTTPSender) Send(ctx context.Context, batch Batch) error {
	body, err := json.Marshal(batch)
	if err != nil {
		return errclass.ErrExportFailed.WithMessagef("encode batch: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return errclass.ErrExportFailed.WithMessagef("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return errclass.ErrExportFailed.WithMessagef("post batch: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errclass.ErrExportFailed.WithMessagef("collector returned %s", resp.Status)
	}
	return nil
}

func (s *HTTPSender) Close() error { return nil }

// KafkaSender publishes batches to a topic, one message per batch,
// keyed by batch ID.
type KafkaSender struct {
	writer *kafka.Writer
}

// NewKafkaSender creates a sender publishing to topic on brokers.
func NewKafkaSender(brokers []string, topic string) *KafkaSender {
	return &KafkaSender{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			RequiredAcks: kafka.RequireAll,
			Balancer:     &kafka.LeastBytes{},
		},
	}
}

func (s *KafkaSender) Name() string { return "kafka" }

func (s *KafkaSender) Send(ctx context.Context, batch Batch) error {
	value, err := json.Marshal(batch)
	if err != nil {
		return errclass.ErrExportFailed.WithMessagef("encode batch: %v", err)
	}
	msg := kafka.Message{
		Key:   []byte(batch.ID),
		Value: value,
		Time:  time.Now().UTC(),
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return errclass.ErrExportFailed.WithMessagef("publish batch: %v", err)
	}
	return nil
}

func (s *KafkaSender) Close() error { return s.writer.Close() }
