package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonatjano/HostMyDocs/internal/config"
	"github.com/jonatjano/HostMyDocs/internal/domain/repositories"
	docsysRepo "github.com/jonatjano/HostMyDocs/internal/domain/repositories/docsystem"
	"github.com/jonatjano/HostMyDocs/internal/repository/postgres"
	postgresDocsys "github.com/jonatjano/HostMyDocs/internal/repository/postgres/docsystem"
	"github.com/jonatjano/HostMyDocs/internal/repository/sqlite"
	sqliteDocsys "github.com/jonatjano/HostMyDocs/internal/repository/sqlite/docsystem"
)

// stores groups the repositories of the configured backend
type stores struct {
	projects  docsysRepo.ProjectRepository
	versions  docsysRepo.VersionRepository
	languages docsysRepo.LanguageRepository
	txManager repositories.TransactionManager
	ping      func(ctx context.Context) error
	close     func()
}

// openStores migrates and connects to the configured database
func openStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*stores, error) {
	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg, logger)
	case config.DriverSQLite:
		return openSQLite(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*stores, error) {
	if err := postgres.RunMigrations(cfg.DatabaseURL, logger); err != nil {
		return nil, err
	}

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL, postgres.PoolConfig{})
	if err != nil {
		return nil, err
	}

	logger.Info("database connected",
		"driver", config.DriverPostgres,
		"max_conns", pool.Config().MaxConns,
		"min_conns", pool.Config().MinConns,
	)

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Logger: logger,
	}
	return &stores{
		projects:  postgresDocsys.NewProjectRepository(repoConfig),
		versions:  postgresDocsys.NewVersionRepository(repoConfig),
		languages: postgresDocsys.NewLanguageRepository(repoConfig),
		txManager: postgres.NewTransactionManager(pool, logger),
		ping:      pool.Ping,
		close:     pool.Close,
	}, nil
}

func openSQLite(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*stores, error) {
	if err := sqlite.RunMigrations(cfg.SQLitePath, logger); err != nil {
		return nil, err
	}

	db, err := sqlite.Open(ctx, cfg.SQLitePath, cfg.SQLiteBusyTimeout)
	if err != nil {
		return nil, err
	}

	logger.Info("database connected",
		"driver", config.DriverSQLite,
		"path", cfg.SQLitePath,
	)

	repoConfig := &sqlite.RepositoryConfig{
		DB:     db,
		Logger: logger,
	}
	return &stores{
		projects:  sqliteDocsys.NewProjectRepository(repoConfig),
		versions:  sqliteDocsys.NewVersionRepository(repoConfig),
		languages: sqliteDocsys.NewLanguageRepository(repoConfig),
		txManager: sqlite.NewTransactionManager(db, logger),
		ping:      db.PingContext,
		close:     func() { db.Close() },
	}, nil
}
