package sqlstore

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agenthands/jai/internal/core/model"
)

type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

func ParseDialect(s string) (Dialect, error) {
	switch Dialect(strings.ToLower(s)) {
	case Postgres:
		return Postgres, nil
	case SQLite:
		return SQLite, nil
	}
	return "", fmt.Errorf("unsupported sql dialect %q", s)
}

// DriverName is the database/sql driver registered for the dialect.
func (d Dialect) DriverName() string {
	if d == Postgres {
		return "pgx"
	}
	return "sqlite"
}

func (d Dialect) gooseDialect() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite3"
}

// builder accumulates WHERE conditions and their positional arguments.
type builder struct {
	dialect Dialect
	where   []string
	args    []any
}

func newBuilder(d Dialect) *builder {
	return &builder{dialect: d}
}

// arg records v and returns its placeholder.
func (b *builder) arg(v any) string {
	b.args = append(b.args, v)
	if b.dialect == Postgres {
		return "$" + strconv.Itoa(len(b.args))
	}
	return "?"
}

func (b *builder) and(cond string) {
	b.where = append(b.where, cond)
}

func (b *builder) clause() string {
	if len(b.where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.where, " AND ")
}

// filter adds the owner scope and every predicate criterion.
func (b *builder) filter(ownerID string, p model.Predicate) {
	b.and("owner_id = " + b.arg(ownerID))

	if p.Mood != "" {
		b.and("mood = " + b.arg(string(p.Mood)))
	}
	if p.Tag != "" {
		if b.dialect == Postgres {
			b.and("tags::jsonb @> jsonb_build_array(CAST(" + b.arg(p.Tag) + " AS TEXT))")
		} else {
			b.and("EXISTS (SELECT 1 FROM json_each(journal_entries.tags) WHERE json_each.value = " + b.arg(p.Tag) + ")")
		}
	}
	if p.From != nil {
		b.and("created_ts >= " + b.arg(p.From.UnixNano()))
	}
	if p.To != nil {
		b.and("created_ts <= " + b.arg(p.To.UnixNano()))
	}
	if p.Text != "" {
		if b.dialect == Postgres {
			b.and("(POSITION(" + b.arg(p.Text) + " IN LOWER(title)) > 0 OR POSITION(" + b.arg(p.Text) + " IN LOWER(content)) > 0)")
		} else {
			b.and("(instr(" + foldFunc + "(title), " + b.arg(p.Text) + ") > 0 OR instr(" + foldFunc + "(content), " + b.arg(p.Text) + ") > 0)")
		}
	}
}
