/*
Copyright 2025 Spendtrail Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package events publishes ledger lifecycle events to Kafka for downstream
// consumers. Publishing is best effort; the write path never fails because
// an event could not be delivered.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

// TransactionCreated is emitted after a transaction and its balance
// adjustment have been committed.
type TransactionCreated struct {
	TransactionID string    `json:"transaction_id"`
	UserID        string    `json:"user_id"`
	Total         int64     `json:"total"`
	Date          time.Time `json:"date"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type Publisher interface {
	PublishTransactionCreated(ctx context.Context, event TransactionCreated) error
	Close() error
}

// KafkaPublisher writes events to a Kafka topic.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (p *KafkaPublisher) PublishTransactionCreated(ctx context.Context, event TransactionCreated) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.TransactionID),
		Value: data,
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher is used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishTransactionCreated(context.Context, TransactionCreated) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }
