package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dejobratic/restoadmin/internal/backend"
	"github.com/dejobratic/restoadmin/internal/config"
	"github.com/dejobratic/restoadmin/internal/database"
	idemmemory "github.com/dejobratic/restoadmin/internal/idempotency/memory"
	idempostgres "github.com/dejobratic/restoadmin/internal/idempotency/postgres"
	idemsqlite "github.com/dejobratic/restoadmin/internal/idempotency/sqlite"
	"github.com/dejobratic/restoadmin/internal/kafka"
	"github.com/dejobratic/restoadmin/internal/orders/adapters"
	ordersmemory "github.com/dejobratic/restoadmin/internal/orders/adapters/memory"
	orderspostgres "github.com/dejobratic/restoadmin/internal/orders/adapters/postgres"
	orderssqlite "github.com/dejobratic/restoadmin/internal/orders/adapters/sqlite"
	"github.com/dejobratic/restoadmin/internal/orders/ports"
	"github.com/dejobratic/restoadmin/internal/session"
)

type storage struct {
	snapshots   *adapters.ObservableSnapshotStore
	idempotency ports.IdempotencyStore
	close       func()
}

// openStorage builds the snapshot and idempotency stores selected by
// SNAPSHOT_STORE. Both share one connection.
func openStorage(ctx context.Context, cfg *config.Config, m *database.Metrics, logger *slog.Logger) (*storage, error) {
	switch cfg.Orders.Store {
	case config.StorePostgres:
		if cfg.Database.AutoMigrate {
			logger.Info("running database migrations", "dialect", database.Postgres)
			if err := database.MigrateURL(database.Postgres, cfg.Database.URL); err != nil {
				return nil, err
			}
		}
		pool, err := database.NewPool(ctx, cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("create database pool: %w", err)
		}
		return &storage{
			snapshots:   adapters.NewObservableSnapshotStore(orderspostgres.NewSnapshotStore(pool), string(database.Postgres), m),
			idempotency: idempostgres.NewStore(pool),
			close:       pool.Close,
		}, nil

	case config.StoreSQLite:
		db, err := database.Open(database.SQLite, cfg.Database.SQLitePath)
		if err != nil {
			return nil, err
		}
		if cfg.Database.AutoMigrate {
			logger.Info("running database migrations", "dialect", database.SQLite, "path", cfg.Database.SQLitePath)
			if err := database.RunMigrations(db, database.SQLite); err != nil {
				_ = db.Close()
				return nil, err
			}
		}
		return &storage{
			snapshots:   adapters.NewObservableSnapshotStore(orderssqlite.NewSnapshotStore(db), string(database.SQLite), m),
			idempotency: idemsqlite.NewStore(db),
			close:       func() { _ = db.Close() },
		}, nil

	default:
		return &storage{
			snapshots:   adapters.NewObservableSnapshotStore(ordersmemory.NewSnapshotStore(), config.StoreMemory, m),
			idempotency: idemmemory.NewStore(),
			close:       func() {},
		}, nil
	}
}

// newEventBus publishes to Kafka when brokers are configured and only logs
// otherwise.
func newEventBus(cfg *config.Config, m *kafka.Metrics, logger *slog.Logger) (ports.EventBus, func() error) {
	if len(cfg.Kafka.Brokers) == 0 {
		bus := kafka.NewNoopEventBus(logger)
		return adapters.NewObservableEventBus(bus, m), bus.Close
	}
	logger.Info("publishing order events", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	bus := kafka.NewEventBus(kafka.WriterConfig{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.Topic})
	return adapters.NewObservableEventBus(bus, m), bus.Close
}

// newBackendClient authenticates with BACKEND_TOKEN, or logs in once with the
// configured phone and password and keeps the token in memory.
func newBackendClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*backend.Client, error) {
	client, err := backend.NewClient(cfg.Backend.URL,
		backend.WithLogger(logger),
		backend.WithTimeout(cfg.Backend.Timeout()),
	)
	if err != nil {
		return nil, err
	}

	if cfg.Backend.Token != "" {
		return client.WithToken(backend.StaticToken(cfg.Backend.Token)), nil
	}
	if cfg.Backend.Phone == "" {
		logger.Warn("no backend credentials configured, requests are sent without a token")
		return client, nil
	}

	res, err := client.Login(ctx, backend.Credentials{Phone: cfg.Backend.Phone, Password: cfg.Backend.Password})
	if err != nil {
		return nil, fmt.Errorf("backend login: %w", err)
	}
	store := session.NewMemoryStore()
	if err := store.Save(ctx, session.Session{Token: res.Token, User: res.User}); err != nil {
		return nil, err
	}
	logger.Info("logged in to backend", "user", res.User.Name, "admin", res.User.IsAdmin)
	return client.WithToken(session.TokenSource(store)), nil
}
