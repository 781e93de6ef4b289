package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"menu-service/internal/cache"
	"menu-service/internal/config"
	"menu-service/migrations"
)

var rootCmd = &cobra.Command{
	Use:          "menu-service",
	Short:        "Restaurant menu catalog",
	Long:         `Serve the menu catalog over HTTP and keep it in sync with the menu spreadsheet export.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, updateCmd, migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func connectDB(ctx context.Context, cfg config.DBConfig) (*sql.DB, error) {
	var db *sql.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sql.Open("mysql", cfg.DSN)
		if err == nil {
			err = db.PingContext(ctx)
			if err == nil {
				log.Info().Msg("Connected to DB")
				break
			}
			db.Close()
		}
		log.Warn().Err(err).Msgf("Retry %d: failed to connect to DB", i+1)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		time.Sleep(3 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB after retries: %w", err)
	}

	if cfg.AutoMigrate {
		if err := migrations.AutoMigrateCatalog(ctx, db, 3); err != nil {
			db.Close()
			return nil, err
		}
	}
	return db, nil
}

// newCache returns the configured cache and a function releasing it.
func newCache(cfg config.CacheConfig) (cache.Cache, func(), error) {
	switch cfg.Backend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
		})
		return cache.NewRedisCache(rdb), func() { rdb.Close() }, nil
	case "memory":
		return cache.NewMemoryCache(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
