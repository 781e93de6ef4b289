package updater

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// ReconciledEvent is published after a run that changed the store.
type ReconciledEvent struct {
	MenusCreated    int       `json:"menus_created"`
	MenusUpdated    int       `json:"menus_updated"`
	MenusDeleted    int       `json:"menus_deleted"`
	SubmenusCreated int       `json:"submenus_created"`
	SubmenusUpdated int       `json:"submenus_updated"`
	SubmenusDeleted int       `json:"submenus_deleted"`
	DishesCreated   int       `json:"dishes_created"`
	DishesUpdated   int       `json:"dishes_updated"`
	DishesDeleted   int       `json:"dishes_deleted"`
	Discounts       int       `json:"discounts"`
	ReconciledAt    time.Time `json:"reconciled_at"`
}

func newReconciledEvent(plan *Plan, at time.Time) ReconciledEvent {
	return ReconciledEvent{
		MenusCreated:    len(plan.MenuCreates),
		MenusUpdated:    len(plan.MenuUpdates),
		MenusDeleted:    len(plan.MenuDeletes),
		SubmenusCreated: len(plan.SubmenuCreates),
		SubmenusUpdated: len(plan.SubmenuUpdates),
		SubmenusDeleted: len(plan.SubmenuDeletes),
		DishesCreated:   len(plan.DishCreates),
		DishesUpdated:   len(plan.DishUpdates),
		DishesDeleted:   len(plan.DishDeletes),
		Discounts:       len(plan.Discounts),
		ReconciledAt:    at,
	}
}

type Publisher interface {
	Publish(ctx context.Context, event ReconciledEvent) error
}

// MessageWriter is the part of *kafka.Writer used by KafkaPublisher.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaPublisher writes reconciliation events to a kafka topic.
type KafkaPublisher struct {
	writer MessageWriter
}

func NewKafkaPublisher(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event ReconciledEvent) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("catalog.reconciled.%d", event.ReconciledAt.Unix())),
		Value: eventJSON,
	}
	return p.writer.WriteMessages(ctx, msg)
}
