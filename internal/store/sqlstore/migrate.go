package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"

	"github.com/agenthands/jai/internal/logging"
	"github.com/agenthands/jai/internal/store/sqlstore/migrations"
)

// goose keeps its base FS, dialect and logger in package globals.
var gooseMu sync.Mutex

// gooseLogger forwards goose output to the application logger.
type gooseLogger struct {
	log logging.Logger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.log.Info(context.Background(), "migrate", "msg", strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.log.Error(context.Background(), "migrate failed", "msg", strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Migrate applies every pending migration for the dialect.
func Migrate(ctx context.Context, db *sql.DB, d Dialect, log logging.Logger) error {
	return withGoose(d, log, func() error {
		return goose.UpContext(ctx, db, string(d))
	})
}

// MigrateDown rolls back the most recent migration.
func MigrateDown(ctx context.Context, db *sql.DB, d Dialect, log logging.Logger) error {
	return withGoose(d, log, func() error {
		return goose.DownContext(ctx, db, string(d))
	})
}

// MigrationVersion reports the current schema version.
func MigrationVersion(ctx context.Context, db *sql.DB, d Dialect, log logging.Logger) (int64, error) {
	var version int64
	err := withGoose(d, log, func() error {
		var err error
		version, err = goose.GetDBVersionContext(ctx, db)
		return err
	})
	return version, err
}

func withGoose(d Dialect, log logging.Logger, fn func() error) error {
	if log == nil {
		log = logging.Nop()
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(gooseLogger{log: log})
	if err := goose.SetDialect(d.gooseDialect()); err != nil {
		return errors.Wrap(err, "failed to set migration dialect")
	}
	if err := fn(); err != nil {
		return errors.Wrapf(err, "failed to migrate %s schema", d)
	}
	return nil
}
