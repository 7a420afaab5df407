package model

import (
	"slices"
	"strings"
	"time"
)

const DefaultTitle = "Untitled Entry"

type Entry struct {
	ID         string     `json:"id"`
	OwnerID    string     `json:"-"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	Mood       Mood       `json:"mood"`
	Tags       []string   `json:"tags"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
	Summary    string     `json:"summary,omitempty"`
	HasSummary bool       `json:"hasSummary"`
}

// NewEntry builds a fresh entry from normalized create fields.
func NewEntry(id, ownerID string, f Fields, now time.Time) *Entry {
	f = f.Normalize()
	return &Entry{
		ID:        id,
		OwnerID:   ownerID,
		Title:     f.Title,
		Content:   f.Content,
		Mood:      f.Mood,
		Tags:      f.Tags,
		CreatedAt: now.UTC(),
	}
}

// SetSummary is the only writer of Summary and HasSummary.
func (e *Entry) SetSummary(s string) {
	e.Summary = s
	e.HasSummary = s != ""
}

func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	c := *e
	c.Tags = slices.Clone(e.Tags)
	if c.Tags == nil {
		c.Tags = []string{}
	}
	if e.UpdatedAt != nil {
		t := *e.UpdatedAt
		c.UpdatedAt = &t
	}
	return &c
}

// NormalizeTitle applies the default title to blank input.
func NormalizeTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return DefaultTitle
	}
	return title
}

// NormalizeTags trims tags, drops blanks and duplicates, and keeps the
// first-seen order. It never returns nil.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
