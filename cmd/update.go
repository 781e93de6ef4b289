package main

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"menu-service/internal/config"
	"menu-service/internal/consumer"
	"menu-service/internal/repository"
	"menu-service/internal/updater"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Reconcile the catalog with the menu snapshot",
	Long: `Reconcile the catalog with the menu snapshot. Snapshots are read from
SNAPSHOT_FILE every UPDATE_INTERVAL, or consumed from SNAPSHOT_TOPIC when
KAFKA_BROKERS is set. Failed runs are retried after RETRY_DELAY.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if file, _ := cmd.Flags().GetString("file"); file != "" {
			cfg.Snapshot.File = file
		}
		once, _ := cmd.Flags().GetBool("once")

		ctx, stop := signalContext()
		defer stop()
		err = update(ctx, cfg, once)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	updateCmd.Flags().Bool("once", false, "Apply the snapshot file once and exit")
	updateCmd.Flags().String("file", "", "Snapshot file, overrides SNAPSHOT_FILE")
}

func update(ctx context.Context, cfg *config.Config, once bool) error {
	db, err := connectDB(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	c, closeCache, err := newCache(cfg.Cache)
	if err != nil {
		return err
	}
	defer closeCache()

	u := updater.NewUpdater(repository.NewRepository(db), c)
	if len(cfg.Kafka.Brokers) > 0 && cfg.Kafka.EventsTopic != "" {
		writer := config.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.EventsTopic)
		defer writer.Close()
		u.WithPublisher(updater.NewKafkaPublisher(writer))
	}
	runner := updater.NewRunner(u, cfg.Snapshot.RetryDelay)

	if len(cfg.Kafka.Brokers) > 0 && !once {
		reader := config.NewKafkaReader(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID)
		defer reader.Close()

		log.Info().Msgf("Consuming snapshots from topic %s", cfg.Kafka.Topic)
		return consumer.NewConsumer(reader, runner).Start(ctx)
	}

	src := updater.FileSource{Path: cfg.Snapshot.File}
	if once {
		return runner.Sync(ctx, src)
	}
	log.Info().Msgf("Syncing %s every %s", src.Path, cfg.Snapshot.Interval)
	return runner.Loop(ctx, src, cfg.Snapshot.Interval)
}
