package messaging

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"

	"github.com/grocery-saga/order-service/internal/events"
)

type Publisher struct {
	client *RabbitMQClient
}

func NewPublisher(client *RabbitMQClient) *Publisher {
	return &Publisher{
		client: client,
	}
}

// PublishStockAlert sends one alert to the topic exchange. Delivery is
// fire-and-forget: there is no confirm wait and no retry.
func (p *Publisher) PublishStockAlert(alert events.StockAlert) error {
	if !p.client.IsConnected() {
		return fmt.Errorf("no connection to RabbitMQ")
	}

	if alert.ID == uuid.Nil {
		alert.ID = uuid.New()
	}
	if alert.Timestamp.IsZero() {
		alert.Timestamp = time.Now()
	}

	body, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("alert serialization error: %v", err)
	}

	routingKey := fmt.Sprintf("alerts.%s.%s", alert.Service, string(alert.Type))

	channel := p.client.Channel()
	err = channel.Publish(
		p.client.config.Exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			MessageId:    alert.ID.String(),
			Timestamp:    alert.Timestamp,
			Headers: amqp.Table{
				"item_id":        alert.ItemID.String(),
				"order_id":       alert.OrderID.String(),
				"correlation_id": alert.CorrelationID.String(),
				"service":        alert.Service,
				"alert_type":     string(alert.Type),
			},
		},
	)
	if err != nil {
		return fmt.Errorf("alert publish error: %v", err)
	}

	return nil
}
