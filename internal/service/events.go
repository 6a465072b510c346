package service

import (
	"encoding/json"
	"time"

	"github.com/IBM/sarama"

	"github.com/libtrack/lending-service/internal/model"
	"github.com/libtrack/lending-service/pkg/circuit_breaker"
)

// Events publishes lending events for downstream consumers (stats, audit).
// The producer sits behind a circuit breaker so a dead broker does not stall
// the lending path with full producer timeouts on every transition.
type Events struct {
	producer sarama.SyncProducer
	cb       circuit_breaker.CircuitBreaker
	topic    string
}

func NewEvents(producer sarama.SyncProducer, topic string) *Events {
	return &Events{
		producer: producer,
		cb:       circuit_breaker.New(20, 30*time.Second, 0.5, 3),
		topic:    topic,
	}
}

func (e *Events) Publish(ev model.LendingEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return e.cb.Call(func() error {
		msg := &sarama.ProducerMessage{Topic: e.topic, Value: sarama.StringEncoder(data)}
		_, _, err := e.producer.SendMessage(msg)
		return err
	})
}

func (e *Events) Close() error {
	return e.producer.Close()
}
