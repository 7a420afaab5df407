// Package backend opens the EntryStore selected by configuration.
package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/agenthands/jai/internal/config"
	"github.com/agenthands/jai/internal/logging"
	"github.com/agenthands/jai/internal/store"
	"github.com/agenthands/jai/internal/store/memgraph"
	"github.com/agenthands/jai/internal/store/memory"
	"github.com/agenthands/jai/internal/store/sqlstore"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemgraph = "memgraph"
)

// Open connects the configured backend and, when AutoMigrate is set, brings
// its schema or indices up to date.
func Open(ctx context.Context, cfg *config.Config, log logging.Logger) (store.EntryStore, error) {
	driver := strings.ToLower(cfg.Store.Driver)
	log = log.With("store", driver)

	switch driver {
	case DriverMemory:
		log.Warn(ctx, "using in-memory store; entries are lost on restart")
		return memory.New(), nil

	case DriverPostgres, DriverSQLite:
		d, err := sqlstore.ParseDialect(driver)
		if err != nil {
			return nil, err
		}
		db, err := sqlstore.Open(ctx, d, cfg.Store.DSN)
		if err != nil {
			return nil, err
		}
		if cfg.Store.AutoMigrate {
			if err := sqlstore.Migrate(ctx, db, d, log); err != nil {
				_ = db.Close()
				return nil, err
			}
		}
		log.Info(ctx, "sql store ready")
		return sqlstore.New(db, d), nil

	case DriverMemgraph:
		drv, err := memgraph.NewMemgraphDriver(ctx, cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password, log)
		if err != nil {
			return nil, err
		}
		if cfg.Store.AutoMigrate {
			if err := drv.BuildIndices(ctx); err != nil {
				_ = drv.Close(ctx)
				return nil, err
			}
		}
		return memgraph.New(drv), nil

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}
