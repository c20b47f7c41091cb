package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bus-booking-backend/pkg/logger"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

// 通知事件類型
const (
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
	EventSupportResponse  = "support.response"
)

// Event 發給客戶的通知事件，由下游通知服務消費後寄送 email/簡訊
type Event struct {
	Type       string    `json:"type"`
	Recipient  string    `json:"recipient"`
	BookingRef string    `json:"booking_ref,omitempty"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

type Producer interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}

type KafkaProducer struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaProducer 建立 Kafka 通知 producer
func NewKafkaProducer(brokers []string, topic string) (Producer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	// 同一收件人的事件落在同一 partition，保持順序
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	return &KafkaProducer{
		producer: producer,
		topic:    topic,
	}, nil
}

func (p *KafkaProducer) Publish(ctx context.Context, event *Event) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal notification event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.Recipient),
		Value: sarama.ByteEncoder(payload),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}

	logger.WithComponent("notification").Info("notification published",
		zap.String("type", event.Type),
		zap.String("recipient", event.Recipient),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset),
	)
	return nil
}

func (p *KafkaProducer) Close() error {
	return p.producer.Close()
}

// NoopProducer 未設定 broker 時使用：只記 log，不影響主流程
type NoopProducer struct{}

func NewNoopProducer() Producer {
	return &NoopProducer{}
}

func (p *NoopProducer) Publish(ctx context.Context, event *Event) error {
	logger.WithComponent("notification").Debug("notification dropped (no brokers configured)",
		zap.String("type", event.Type),
		zap.String("recipient", event.Recipient),
	)
	return nil
}

func (p *NoopProducer) Close() error {
	return nil
}
