package events

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/segmentio/kafka-go"
)

// KafkaBus is the durable bus backend. The same type serves as Publisher on
// the ingestion side and Source on the workflow-starter side; construct it
// once per process with the half you need.
type KafkaBus struct {
	writer *kafka.Writer
	reader *kafka.Reader
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaBus {
	return &KafkaBus{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func NewKafkaSource(brokers []string, topic string, groupID string) *KafkaBus {
	return &KafkaBus{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: brokers,
			Topic:   topic,
			GroupID: groupID,
		}),
	}
}

func (b *KafkaBus) Publish(ctx context.Context, event ReviewEvent) error {
	payload, err := EncodeEvent(event)
	if err != nil {
		return err
	}
	if err := b.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.DetailType),
		Value: payload,
	}); err != nil {
		return fmt.Errorf("publish %s event: %w", event.DetailType, err)
	}
	return nil
}

func (b *KafkaBus) Run(ctx context.Context, handler func(context.Context, ReviewEvent) error) error {
	for {
		msg, err := b.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read event bus message: %w", err)
		}

		event, err := DecodeEvent(msg.Value)
		if err != nil {
			log.Printf("skipping undecodable event at offset %d: %v", msg.Offset, err)
			continue
		}
		if event.DetailType != PutReviewDetailType {
			continue
		}
		if err := handler(ctx, event); err != nil {
			return err
		}
	}
}

func (b *KafkaBus) Close() error {
	var errs []error
	if b.writer != nil {
		errs = append(errs, b.writer.Close())
	}
	if b.reader != nil {
		errs = append(errs, b.reader.Close())
	}
	return errors.Join(errs...)
}
