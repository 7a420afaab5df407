package model

import (
	"math"
	"sort"
	"strings"
	"time"
)

// Criteria is a listing request. Zero or negative Page/Limit are treated as
// 1; use NewCriteria for the listing defaults.
type Criteria struct {
	Mood     Mood
	Tag      string
	FreeText string
	From     *time.Time
	To       *time.Time
	Page     int
	Limit    int
}

const (
	DefaultPage  = 1
	DefaultLimit = 20
)

func NewCriteria() Criteria {
	return Criteria{Page: DefaultPage, Limit: DefaultLimit}
}

// Predicate is the normalized, pagination-free part of Criteria. Owner
// scoping is not part of it; stores always AND the owner in.
type Predicate struct {
	Mood Mood
	Tag  string
	// Text is trimmed and lower-cased.
	Text string
	From *time.Time
	To   *time.Time
}

// Match reports whether e satisfies every provided criterion.
func (p Predicate) Match(e *Entry) bool {
	if p.Mood != "" && e.Mood != p.Mood {
		return false
	}
	if p.Tag != "" && !containsTag(e.Tags, p.Tag) {
		return false
	}
	if p.From != nil && e.CreatedAt.Before(*p.From) {
		return false
	}
	if p.To != nil && e.CreatedAt.After(*p.To) {
		return false
	}
	if p.Text != "" &&
		!strings.Contains(strings.ToLower(e.Title), p.Text) &&
		!strings.Contains(strings.ToLower(e.Content), p.Text) {
		return false
	}
	return true
}

// Stored timestamps are unix nanoseconds, so they all fall in this range.
var (
	MinStoredTime = time.Unix(0, math.MinInt64).UTC()
	MaxStoredTime = time.Unix(0, math.MaxInt64).UTC()
)

// Bounded drops date bounds that every stored timestamp satisfies, so the
// rest can be encoded as unix nanoseconds. ok is false when a bound rules
// out every stored timestamp.
func (p Predicate) Bounded() (Predicate, bool) {
	if p.From != nil {
		if p.From.After(MaxStoredTime) {
			return p, false
		}
		if p.From.Before(MinStoredTime) {
			p.From = nil
		}
	}
	if p.To != nil {
		if p.To.Before(MinStoredTime) {
			return p, false
		}
		if p.To.After(MaxStoredTime) {
			p.To = nil
		}
	}
	return p, true
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

type Order int

// OrderNewestFirst sorts by CreatedAt descending, then ID descending.
const OrderNewestFirst Order = iota

// Before reports whether a sorts ahead of b under OrderNewestFirst.
func Before(a, b *Entry) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

func SortEntries(entries []*Entry, order Order) {
	sort.SliceStable(entries, func(i, j int) bool {
		return Before(entries[i], entries[j])
	})
}

// EntryPage is one page of a listing plus the size of the whole filtered set.
type EntryPage struct {
	Entries []*Entry
	Page    int
	Limit   int
	Total   int
}
