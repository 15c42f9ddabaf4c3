// Package bootstrap wires the process-level dependencies shared by the
// server and seeder binaries.
package bootstrap

import (
	"context"
	"fmt"
	"log"

	"bookshelf/internal/cache"
	"bookshelf/internal/config"
	"bookshelf/internal/database"
	"bookshelf/internal/observability"
	"bookshelf/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedDemo populates an empty development database with the Minimal
	// seed preset so the app is usable right after first boot.
	SeedDemo bool
}

// Runtime bundles the initialized process dependencies.
type Runtime struct {
	DB    *gorm.DB
	Redis *redis.Client

	// ShutdownTracing flushes and stops the tracer provider.
	ShutdownTracing func(context.Context) error
}

// InitRuntime connects to the database and Redis, initializes tracing and
// optionally seeds demo data.
func InitRuntime(cfg *config.Config, opts Options) (*Runtime, error) {
	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:  "bookshelf-api",
		Environment:  cfg.Env,
		Enabled:      cfg.TracingEnabled,
		Exporter:     cfg.TracingExporter,
		OTLPEndpoint: cfg.OTLPEndpoint,
		SamplerRatio: cfg.TracingSampler,
	})
	if err != nil {
		return nil, fmt.Errorf("tracing initialization failed: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// May leave a nil client when Redis is unreachable; the app then runs
	// without caching and rate limits.
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.SeedDemo {
		if err := seedIfEmpty(db); err != nil {
			return nil, fmt.Errorf("demo seeding failed: %w", err)
		}
	}

	return &Runtime{DB: db, Redis: r, ShutdownTracing: shutdownTracing}, nil
}

func seedIfEmpty(db *gorm.DB) error {
	var users int64
	if err := db.Table("users").Count(&users).Error; err != nil {
		return err
	}
	if users > 0 {
		return nil
	}

	seeder, err := seed.NewSeeder(db, seed.Options{}, nil)
	if err != nil {
		return err
	}
	if err := seeder.ApplyPreset("Minimal"); err != nil {
		return err
	}
	log.Println("seeded demo data into empty development database")
	return nil
}
