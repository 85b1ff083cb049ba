package dispatch

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"newsroom_backend/internal/logger"
)

// KafkaDispatcher publishes approval events to a Kafka topic consumed
// by the email worker.
type KafkaDispatcher struct {
	writer *kafka.Writer
}

func NewKafkaDispatcher(brokers []string, topic string) *KafkaDispatcher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}

	return &KafkaDispatcher{writer: writer}
}

func (d *KafkaDispatcher) Dispatch(ctx context.Context, event ApprovalEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		// Keyed by article so retries for one article stay ordered.
		Key:   []byte(event.ArticleID),
		Value: payload,
	}

	if err := d.writer.WriteMessages(ctx, msg); err != nil {
		logger.CtxWithError(ctx, "failed to publish approval event", err, "article_id", event.ArticleID)
		return err
	}

	return nil
}

func (d *KafkaDispatcher) Close() error {
	return d.writer.Close()
}

// ApprovalConsumer reads approval events from Kafka and runs the
// fan-out for each. Used by the email worker process.
type ApprovalConsumer struct {
	reader *kafka.Reader
	fanout FanoutFunc
}

func NewApprovalConsumer(brokers []string, topic, groupID string, fanout FanoutFunc) *ApprovalConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: groupID,
	})

	return &ApprovalConsumer{reader: reader, fanout: fanout}
}

// Run consumes until the context is cancelled. A fan-out failure is
// logged and the message is still committed: notifications are
// best-effort and a poison event must not wedge the partition.
func (c *ApprovalConsumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		var event ApprovalEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Error("malformed approval event", "error", err.Error())
			continue
		}

		if err := c.fanout(ctx, event); err != nil {
			logger.Error("notification fan-out failed", "article_id", event.ArticleID, "error", err.Error())
		}
	}
}

func (c *ApprovalConsumer) Close() error {
	return c.reader.Close()
}
