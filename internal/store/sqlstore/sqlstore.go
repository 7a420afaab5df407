// Package sqlstore is the database/sql EntryStore for PostgreSQL (pgx) and
// SQLite (modernc). Timestamps are stored as unix nanoseconds and tags as a
// JSON array.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/agenthands/jai/internal/core/model"
	"github.com/agenthands/jai/internal/store"
)

const entryColumns = `id, owner_id, title, content, mood, tags, summary, has_summary, created_ts, updated_ts`

type Store struct {
	db      *sql.DB
	dialect Dialect

	newID store.IDFunc
	now   func() time.Time
}

type Option func(*Store)

func WithIDFunc(f store.IDFunc) Option {
	return func(s *Store) { s.newID = f }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open connects to dsn and verifies the connection. Migrations are not run.
func Open(ctx context.Context, d Dialect, dsn string) (*sql.DB, error) {
	db, err := sql.Open(d.DriverName(), dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s database", d)
	}
	if d == SQLite {
		// One writer; also keeps a :memory: database alive.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "failed to ping %s database", d)
	}
	return db, nil
}

// New wraps an open database. The store owns db and closes it on Close.
func New(db *sql.DB, d Dialect, opts ...Option) *Store {
	s := &Store{
		db:      db,
		dialect: d,
		newID:   store.NewID,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Create(ctx context.Context, ownerID string, fields model.Fields) (*model.Entry, error) {
	e := model.NewEntry(s.newID(), ownerID, fields, s.now())

	tags, err := encodeTags(e.Tags)
	if err != nil {
		return nil, err
	}

	b := newBuilder(s.dialect)
	stmt := `INSERT INTO journal_entries (id, owner_id, title, content, mood, tags, summary, has_summary, created_ts)
		VALUES (` + b.arg(e.ID) + `, ` + b.arg(e.OwnerID) + `, ` + b.arg(e.Title) + `, ` + b.arg(e.Content) + `, ` +
		b.arg(string(e.Mood)) + `, ` + b.arg(tags) + `, ` + b.arg(e.Summary) + `, ` + b.arg(e.HasSummary) + `, ` +
		b.arg(e.CreatedAt.UnixNano()) + `)`

	if _, err := s.db.ExecContext(ctx, stmt, b.args...); err != nil {
		return nil, errors.Wrap(err, "failed to insert journal entry")
	}
	return e, nil
}

func (s *Store) Get(ctx context.Context, id, ownerID string) (*model.Entry, error) {
	return s.get(ctx, s.db, id, ownerID, false)
}

func (s *Store) get(ctx context.Context, q DBTX, id, ownerID string, forUpdate bool) (*model.Entry, error) {
	b := newBuilder(s.dialect)
	b.and("id = " + b.arg(id))
	b.and("owner_id = " + b.arg(ownerID))

	query := `SELECT ` + entryColumns + ` FROM journal_entries` + b.clause()
	if forUpdate && s.dialect == Postgres {
		query += " FOR UPDATE"
	}

	e, err := scanEntry(q.QueryRowContext(ctx, query, b.args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get journal entry")
	}
	return e, nil
}

func (s *Store) Update(ctx context.Context, id, ownerID string, patch model.Patch) (*model.Entry, error) {
	var updated *model.Entry
	err := s.withTx(ctx, false, func(ctx context.Context, tx DBTX) error {
		e, err := s.get(ctx, tx, id, ownerID, true)
		if err != nil {
			return err
		}
		patch.Apply(e, s.now())

		tags, err := encodeTags(e.Tags)
		if err != nil {
			return err
		}

		b := newBuilder(s.dialect)
		set := `title = ` + b.arg(e.Title) +
			`, content = ` + b.arg(e.Content) +
			`, mood = ` + b.arg(string(e.Mood)) +
			`, tags = ` + b.arg(tags) +
			`, summary = ` + b.arg(e.Summary) +
			`, has_summary = ` + b.arg(e.HasSummary) +
			`, updated_ts = ` + b.arg(e.UpdatedAt.UnixNano())
		b.and("id = " + b.arg(id))
		b.and("owner_id = " + b.arg(ownerID))

		res, err := tx.ExecContext(ctx, `UPDATE journal_entries SET `+set+b.clause(), b.args...)
		if err != nil {
			return errors.Wrap(err, "failed to update journal entry")
		}
		n, err := res.RowsAffected()
		if err != nil {
			return errors.Wrap(err, "failed to read affected rows")
		}
		if n == 0 {
			return store.ErrNotFound
		}
		updated = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Store) Delete(ctx context.Context, id, ownerID string) error {
	b := newBuilder(s.dialect)
	b.and("id = " + b.arg(id))
	b.and("owner_id = " + b.arg(ownerID))

	res, err := s.db.ExecContext(ctx, `DELETE FROM journal_entries`+b.clause(), b.args...)
	if err != nil {
		return errors.Wrap(err, "failed to delete journal entry")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read affected rows")
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Query counts and pages in one read-only transaction; on PostgreSQL it is
// REPEATABLE READ so both statements see the same snapshot.
func (s *Store) Query(ctx context.Context, ownerID string, pred model.Predicate, _ model.Order, offset, limit int) ([]*model.Entry, int, error) {
	pred, ok := pred.Bounded()
	if !ok {
		return []*model.Entry{}, 0, nil
	}

	b := newBuilder(s.dialect)
	b.filter(ownerID, pred)
	where := b.clause()

	entries := []*model.Entry{}
	var total int
	err := s.withTx(ctx, true, func(ctx context.Context, tx DBTX) error {
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM journal_entries`+where, b.args...).Scan(&total); err != nil {
			return errors.Wrap(err, "failed to count journal entries")
		}
		if offset >= total || limit <= 0 {
			return nil
		}

		args := append([]any{}, b.args...)
		page := newBuilder(s.dialect)
		page.args = args
		query := `SELECT ` + entryColumns + ` FROM journal_entries` + where +
			` ORDER BY created_ts DESC, id DESC LIMIT ` + page.arg(limit) + ` OFFSET ` + page.arg(offset)

		rows, err := tx.QueryContext(ctx, query, page.args...)
		if err != nil {
			return errors.Wrap(err, "failed to list journal entries")
		}
		defer rows.Close()

		for rows.Next() {
			e, err := scanEntry(rows)
			if err != nil {
				return errors.Wrap(err, "failed to scan journal entry")
			}
			entries = append(entries, e)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (*model.Entry, error) {
	var (
		e         model.Entry
		mood      string
		tags      string
		createdTs int64
		updatedTs sql.NullInt64
	)
	if err := sc.Scan(&e.ID, &e.OwnerID, &e.Title, &e.Content, &mood, &tags, &e.Summary, &e.HasSummary, &createdTs, &updatedTs); err != nil {
		return nil, err
	}
	e.Mood = model.Mood(mood)
	e.CreatedAt = time.Unix(0, createdTs).UTC()
	if updatedTs.Valid {
		t := time.Unix(0, updatedTs.Int64).UTC()
		e.UpdatedAt = &t
	}
	e.Tags = []string{}
	if err := json.Unmarshal([]byte(tags), &e.Tags); err != nil {
		return nil, errors.Wrap(err, "failed to decode tags")
	}
	if e.Tags == nil {
		e.Tags = []string{}
	}
	return &e, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode tags")
	}
	return string(b), nil
}
