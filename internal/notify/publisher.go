// Package notify fans vehicle lifecycle events out to RabbitMQ for the
// downstream notification consumers (chat bots, mail). Delivery is
// at-most-once; consumers must tolerate missed events.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/dkazarov/fleet-reports/internal/service"
)

const routingKey = "vehicle_events"

func Dial(url string) (*amqp.Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	return conn, nil
}

// VehicleEventPublisher holds its own channel on an externally owned
// connection. Construct once at process start and Close at shutdown; the
// connection lifecycle stays with the caller.
type VehicleEventPublisher struct {
	ch       *amqp.Channel
	exchange string
}

func NewVehicleEventPublisher(conn *amqp.Connection, exchange string) (*VehicleEventPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &VehicleEventPublisher{ch: ch, exchange: exchange}, nil
}

func (p *VehicleEventPublisher) PublishVehicleEvent(ctx context.Context, event service.VehicleEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}

func (p *VehicleEventPublisher) Close() error {
	return p.ch.Close()
}
