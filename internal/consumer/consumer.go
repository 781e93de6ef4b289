package consumer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"menu-service/internal/entity"
	"menu-service/internal/updater"
)

// MessageReader is the part of *kafka.Reader used by the consumer.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

type Consumer struct {
	reader MessageReader
	runner *updater.Runner
}

func NewConsumer(reader MessageReader, runner *updater.Runner) *Consumer {
	return &Consumer{reader: reader, runner: runner}
}

// Start consumes catalog snapshots until ctx ends. An offset is committed
// only once its snapshot has been applied.
func (c *Consumer) Start(ctx context.Context) error {
	for {
		// Read message from snapshot topic
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Error().Msgf("Error reading message: %v", err)
			if err := wait(ctx, c.runner.RetryDelay()); err != nil {
				return err
			}
			continue
		}

		// Process message
		if err := c.processMessage(ctx, msg); err != nil {
			return err
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			log.Error().Msgf("Error committing offset %d: %v", msg.Offset, err)
		}
	}
}

func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// processMessage applies the snapshot carried by msg. Undecodable messages
// are logged and skipped.
func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message) error {
	var snapshot entity.Snapshot
	if err := json.Unmarshal(msg.Value, &snapshot); err != nil {
		log.Error().Msgf("Error unmarshalling snapshot at offset %d: %v", msg.Offset, err)
		return nil
	}

	log.Info().Msgf("Applying snapshot %s with %d menus", string(msg.Key), len(snapshot))
	return c.runner.Sync(ctx, updater.StaticSource(snapshot))
}
