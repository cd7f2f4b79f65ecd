package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"
)

// Producer publishes behavioral events to Kafka. Publishing is
// fire-and-forget: delivery failures are logged, never returned to callers.
type Producer struct {
	producer sarama.AsyncProducer
	topic    string
	logger   *log.Entry
}

// NewProducer creates an async Kafka producer for the given topic.
func NewProducer(brokers []string, topic string) (*Producer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForLocal
	config.Producer.Retry.Max = 3
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Return.Errors = true

	producer, err := sarama.NewAsyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	p := &Producer{
		producer: producer,
		topic:    topic,
		logger:   log.WithField("component", "event-producer"),
	}
	go p.drainErrors()
	return p, nil
}

func (p *Producer) drainErrors() {
	for err := range p.producer.Errors() {
		p.logger.WithError(err.Err).WithField("topic", err.Msg.Topic).
			Warn("failed to deliver event")
	}
}

// Publish enqueues an event keyed by key for partition affinity.
func (p *Producer) Publish(key string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	p.producer.Input() <- &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(key),
		Value:     sarama.ByteEncoder(data),
		Timestamp: time.Now(),
	}
	return nil
}

// Close flushes and closes the producer.
func (p *Producer) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka producer: %w", err)
	}
	return nil
}
