package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/segmentio/kafka-go"
)

type Producer interface {
	SendMessage(ctx context.Context, topic string, key, value []byte) error
	Close() error
}

type kafkaProducer struct {
	writer *kafka.Writer
}

func NewKafkaProducer(broker string) (Producer, error) {
	// Fail fast when the broker is unreachable.
	conn, err := kafka.Dial("tcp", broker)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Kafka: %w", err)
	}
	defer conn.Close()

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(broker),
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           50 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	return &kafkaProducer{writer: writer}, nil
}

func (k *kafkaProducer) SendMessage(ctx context.Context, topic string, key, value []byte) error {
	return k.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   key,
		Value: value,
	})
}

func (k *kafkaProducer) Close() error {
	return k.writer.Close()
}

// KafkaRelay publishes notifications as JSON events, keyed by record id, in
// the background. Close waits for in-flight sends.
type KafkaRelay struct {
	producer Producer
	topic    string
	timeout  time.Duration
	wg       sync.WaitGroup
}

func NewKafkaRelay(producer Producer, topic string) *KafkaRelay {
	return &KafkaRelay{producer: producer, topic: topic, timeout: 5 * time.Second}
}

func (k *KafkaRelay) Publish(_ context.Context, n Notification) {
	value, err := json.Marshal(n)
	if err != nil {
		log.Errorf("failed to marshal notification: %v", err)
		return
	}

	k.wg.Add(1)
	go func() {
		defer k.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), k.timeout)
		defer cancel()

		if err := k.producer.SendMessage(ctx, k.topic, []byte(n.RecordID), value); err != nil {
			log.Errorf("failed to send %s %s event to Kafka: %v", n.Entity, n.Action, err)
		}
	}()
}

func (k *KafkaRelay) Close() error {
	k.wg.Wait()
	return k.producer.Close()
}
