// Package alerting delivers stock anomaly notifications to an external
// sink. The sink is an injected collaborator: the core never reaches into
// process-wide state to notify.
package alerting

import (
	"github.com/grocery-saga/order-service/internal/events"
	"github.com/grocery-saga/order-service/internal/messaging"
)

type Sink interface {
	Publish(alert events.StockAlert) error
}

// AMQPSink forwards alerts to a RabbitMQ topic exchange.
type AMQPSink struct {
	publisher *messaging.Publisher
}

func NewAMQPSink(publisher *messaging.Publisher) *AMQPSink {
	return &AMQPSink{publisher: publisher}
}

func (s *AMQPSink) Publish(alert events.StockAlert) error {
	return s.publisher.PublishStockAlert(alert)
}

// NopSink drops alerts. Used when no broker is configured.
type NopSink struct{}

func (NopSink) Publish(events.StockAlert) error { return nil }
