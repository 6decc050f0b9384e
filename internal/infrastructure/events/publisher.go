package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/ninzkie1/buildAble-sub000/internal/domain/repository"
)

// RoutingKeyOrderPlaced routing key de los eventos de orden creada.
const RoutingKeyOrderPlaced = "order.placed"

// AMQPPublisher publica eventos de órdenes en un exchange topic durable.
// Mejor esfuerzo: el orquestador registra el fallo y sigue.
type AMQPPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

// NewAMQPPublisher conecta al broker y declara el exchange.
func NewAMQPPublisher(uri, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, fmt.Errorf("amqp: conectar: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp: abrir canal: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("amqp: declarar exchange %s: %w", exchange, err)
	}
	return &AMQPPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

// OrderPlaced publica el evento como JSON persistente.
func (p *AMQPPublisher) OrderPlaced(ctx context.Context, evt repository.OrderPlacedEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("amqp: serializar evento: %w", err)
	}
	err = p.ch.PublishWithContext(ctx, p.exchange, RoutingKeyOrderPlaced, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("amqp: publicar %s: %w", RoutingKeyOrderPlaced, err)
	}
	return nil
}

// Close cierra canal y conexión.
func (p *AMQPPublisher) Close() error {
	if err := p.ch.Close(); err != nil {
		p.conn.Close()
		return fmt.Errorf("amqp: cerrar canal: %w", err)
	}
	if err := p.conn.Close(); err != nil {
		return fmt.Errorf("amqp: cerrar conexión: %w", err)
	}
	return nil
}
