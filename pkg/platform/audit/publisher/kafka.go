// Package publisher ships audit events to Kafka for downstream retention
// pipelines (compliance archival, SIEM). Persistence for queries stays in the
// audit store; the broker is a fan-out, not the source of local reads.
package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	audit "genescreen/pkg/platform/audit"
)

// Kafka publishes audit events to a single topic, keyed by business id so
// one record's history lands in one partition.
type Kafka struct {
	client *kgo.Client
	topic  string
}

// NewKafka connects to the brokers and ensures the topic exists.
func NewKafka(ctx context.Context, brokers []string, topic string) (*Kafka, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("connect kafka: %w", err)
	}

	adm := kadm.NewClient(client)
	resp, err := adm.CreateTopics(ctx, 3, 1, nil, topic)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("create audit topic: %w", err)
	}
	for _, r := range resp {
		if r.Err != nil && !errors.Is(r.Err, kerr.TopicAlreadyExists) {
			client.Close()
			return nil, fmt.Errorf("create audit topic %q: %w", r.Topic, r.Err)
		}
	}

	return &Kafka{client: client, topic: topic}, nil
}

type wireEvent struct {
	ID         string `json:"id"`
	Category   string `json:"category"`
	Timestamp  string `json:"timestamp"`
	Account    string `json:"account,omitempty"`
	BusinessID string `json:"business_id,omitempty"`
	Action     string `json:"action"`
	Decision   string `json:"decision,omitempty"`
	Reason     string `json:"reason,omitempty"`
	TxHash     string `json:"tx_hash,omitempty"`
	RequestID  string `json:"request_id,omitempty"`
}

// Emit publishes one event synchronously. Audit delivery failures are the
// caller's to decide on; coordinators log and continue rather than failing
// the user-visible operation.
func (k *Kafka) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Category == "" {
		event.Category = audit.AuditEvent(event.Action).Category()
	}

	payload, err := json.Marshal(wireEvent{
		ID:         uuid.NewString(),
		Category:   string(event.Category),
		Timestamp:  event.Timestamp.Format(time.RFC3339Nano),
		Account:    event.Account,
		BusinessID: event.BusinessID,
		Action:     event.Action,
		Decision:   event.Decision,
		Reason:     event.Reason,
		TxHash:     event.TxHash,
		RequestID:  event.RequestID,
	})
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	record := &kgo.Record{
		Topic: k.topic,
		Key:   []byte(event.BusinessID),
		Value: payload,
	}
	if err := k.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}

func (k *Kafka) Close() {
	k.client.Close()
}
