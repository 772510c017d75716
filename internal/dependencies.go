package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phturb/domain-randomizer/storage"
	"github.com/robfig/cron/v3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type dependencies struct {
	docs   storage.DocumentStore
	c      *cron.Cron
	closer func() error
}

type Dependencies interface {
	Documents() storage.DocumentStore
	Cron() *cron.Cron
	Close() error
}

func NewDependencies(ctx context.Context, cfg *config) (Dependencies, error) {
	slog.Info("creating dependencies")
	docs, closer, err := newDocumentStore(cfg)
	if err != nil {
		return nil, err
	}
	return &dependencies{
		docs:   docs,
		c:      cron.New(),
		closer: closer,
	}, nil
}

func newDocumentStore(cfg *config) (storage.DocumentStore, func() error, error) {
	noop := func() error { return nil }
	slog.Info(fmt.Sprintf("initializing '%s' storage backend", cfg.Storage.Backend))
	switch cfg.Storage.Backend {
	case "file":
		s, err := storage.NewFileStore(cfg.Storage.DataDir)
		return s, noop, err
	case "sqlite":
		return newGormStore(sqlite.Open(cfg.Storage.SQLitePath))
	case "postgres":
		if cfg.Storage.PostgresDSN == "" {
			return nil, nil, errors.New("POSTGRES_DSN is required for the postgres backend")
		}
		return newGormStore(postgres.Open(cfg.Storage.PostgresDSN))
	case "redis":
		client, err := storage.NewRedisClient(cfg.Storage.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		s, err := storage.NewRedisStore(client, cfg.Storage.RedisKeyPrefix)
		if err != nil {
			return nil, nil, err
		}
		return s, client.Close, nil
	}
	return nil, nil, fmt.Errorf("unsupported storage backend '%s'", cfg.Storage.Backend)
}

func newGormStore(dialector gorm.Dialector) (storage.DocumentStore, func() error, error) {
	slog.Info("initializing database connection")
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, nil, err
	}
	closer := func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	s, err := storage.NewGormStore(db)
	if err != nil {
		return nil, nil, errors.Join(err, closer())
	}
	return s, closer, nil
}

func (d *dependencies) Documents() storage.DocumentStore {
	return d.docs
}

func (d *dependencies) Cron() *cron.Cron {
	return d.c
}

func (d *dependencies) Close() error {
	ctx := d.c.Stop()
	<-ctx.Done()
	return d.closer()
}
