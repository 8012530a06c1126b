// Package events publishes domain events for downstream consumers such as
// kitchen displays or replenishment jobs.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"restaurante/models"
	"restaurante/pkg/logger"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

const TypeOrderCompleted = "pedido.completado"

// OrderCompleted is emitted once a checked-out order is committed.
type OrderCompleted struct {
	Type       string              `json:"tipo"`
	OrderID    int64               `json:"pedido_id"`
	CustomerID int64               `json:"cliente_id"`
	Total      decimal.Decimal     `json:"total"`
	Items      []models.OrderItem  `json:"items"`
	Stock      []models.Ingredient `json:"stock"` // levels after the order consumed them
	OccurredAt time.Time           `json:"fecha"`
}

func NewOrderCompleted(order models.Order, stock []models.Ingredient) OrderCompleted {
	return OrderCompleted{
		Type:       TypeOrderCompleted,
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Total:      order.Total,
		Items:      order.Items,
		Stock:      stock,
		OccurredAt: order.Date,
	}
}

type Publisher interface {
	PublishOrderCompleted(ctx context.Context, ev OrderCompleted) error
	Close() error
}

// MessageWriter is the part of *kafka.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer MessageWriter
	logger *logger.Logger
}

type KafkaConfig struct {
	Brokers      []string
	Topic        string
	BatchTimeout time.Duration
}

func NewKafkaPublisher(cfg KafkaConfig, log *logger.Logger) *KafkaPublisher {
	if cfg.BatchTimeout <= 0 {
		cfg.BatchTimeout = 10 * time.Millisecond
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: cfg.BatchTimeout,
		RequiredAcks: kafka.RequireOne,
	}
	return NewKafkaPublisherWithWriter(w, log)
}

func NewKafkaPublisherWithWriter(w MessageWriter, log *logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: w, logger: log.WithComponent("event_publisher")}
}

// PublishOrderCompleted writes ev keyed by order id so events of one order
// stay on one partition.
func (p *KafkaPublisher) PublishOrderCompleted(ctx context.Context, ev OrderCompleted) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", ev.Type, err)
	}
	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(ev.OrderID, 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "tipo", Value: []byte(ev.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s event: %w", ev.Type, err)
	}
	p.logger.Debug("Event published", "type", ev.Type, "order_id", ev.OrderID)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Noop drops every event. It is used when no broker is configured.
type Noop struct{}

func (Noop) PublishOrderCompleted(context.Context, OrderCompleted) error { return nil }
func (Noop) Close() error                                                { return nil }
