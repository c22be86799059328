// Package persistence opens the transcript store selected by configuration.
package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/velorie/ticketarchive/internal/domain/transcript"
	"github.com/velorie/ticketarchive/internal/infrastructure/config"
	"github.com/velorie/ticketarchive/internal/infrastructure/database"
	"github.com/velorie/ticketarchive/internal/infrastructure/migration"
	"github.com/velorie/ticketarchive/internal/infrastructure/repository"
	"github.com/velorie/ticketarchive/internal/infrastructure/storage"
	"github.com/velorie/ticketarchive/internal/shared/logger"
)

const (
	DriverFile   = "file"
	DriverSQL    = "sql"
	DriverObject = "object"
)

type StoreOptions struct {
	// AutoMigrate applies pending schema migrations for the sql driver.
	AutoMigrate bool
}

// TranscriptStore is an opened backend plus what is needed to release it.
type TranscriptStore struct {
	Driver     string
	Repository transcript.Repository
	Health     transcript.HealthChecker
	closeFn    func() error
}

func (s *TranscriptStore) Close() error {
	if s.closeFn == nil {
		return nil
	}
	return s.closeFn()
}

// OpenTranscriptStore builds the backend named by storage.driver.
func OpenTranscriptStore(ctx context.Context, cfg *config.Config, opts StoreOptions, log logger.Interface) (*TranscriptStore, error) {
	policy, err := transcript.ParseConflictPolicy(cfg.Storage.ConflictPolicy)
	if err != nil {
		return nil, err
	}

	switch cfg.Storage.Driver {
	case DriverFile:
		store, err := storage.NewFileStore(cfg.Storage.DataDir, policy, log.Named("filestore"))
		if err != nil {
			return nil, err
		}
		log.Infow("transcript store ready", "driver", DriverFile, "data_dir", cfg.Storage.DataDir, "conflict_policy", policy)
		return &TranscriptStore{Driver: DriverFile, Repository: store, Health: store}, nil

	case DriverSQL:
		db, err := database.Open(&cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := prepareSchema(db, opts, log); err != nil {
			_ = closeDB(db)
			return nil, err
		}
		repo := repository.NewTranscriptRepository(db, policy)
		log.Infow("transcript store ready", "driver", DriverSQL, "database", cfg.Database.Driver, "conflict_policy", policy)
		return &TranscriptStore{
			Driver:     DriverSQL,
			Repository: repo,
			Health:     repo,
			closeFn:    func() error { return closeDB(db) },
		}, nil

	case DriverObject:
		client, err := storage.NewMinioClient(cfg.Storage.Object)
		if err != nil {
			return nil, err
		}
		if err := storage.EnsureBucket(ctx, client, cfg.Storage.Object, log); err != nil {
			return nil, err
		}
		store, err := storage.NewObjectStore(client, cfg.Storage.Object, policy, log.Named("objectstore"))
		if err != nil {
			return nil, err
		}
		log.Infow("transcript store ready", "driver", DriverObject, "bucket", cfg.Storage.Object.Bucket, "conflict_policy", policy)
		return &TranscriptStore{Driver: DriverObject, Repository: store, Health: store}, nil

	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}

func prepareSchema(db *gorm.DB, opts StoreOptions, log logger.Interface) error {
	strategy := migration.NewGooseStrategy(log.Named("migration"))

	if opts.AutoMigrate {
		log.Infow("running schema migrations")
		if err := strategy.Migrate(db); err != nil {
			return fmt.Errorf("auto-migration failed: %w", err)
		}
		return nil
	}

	version, err := strategy.GetVersion(db)
	if err != nil {
		log.Warnw("failed to check migration status", "error", err)
		return nil
	}
	if version == 0 {
		log.Warnw("database schema is not initialized; run `ticketarchive migrate up` or start with --auto-migrate")
	} else {
		log.Infow("current migration version", "version", version)
	}
	return nil
}

func closeDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	return nil
}
