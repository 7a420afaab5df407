package model

import "time"

// Fields is the input of entry creation.
type Fields struct {
	Title   string   `json:"title"`
	Content string   `json:"content" validate:"notblank"`
	Mood    Mood     `json:"mood" validate:"omitempty,mood"`
	Tags    []string `json:"tags"`
}

// Normalize applies creation defaults: blank title, empty mood, nil tags.
func (f Fields) Normalize() Fields {
	f.Title = NormalizeTitle(f.Title)
	if f.Mood == "" {
		f.Mood = MoodNeutral
	}
	f.Tags = NormalizeTags(f.Tags)
	return f
}

// Patch is a partial update; nil fields are left unchanged.
//
// Summary is not reachable from the API; the summary orchestrator sets it
// when persisting a generated summary.
type Patch struct {
	Title   *string   `json:"title"`
	Content *string   `json:"content" validate:"omitnil,notblank"`
	Mood    *Mood     `json:"mood" validate:"omitnil,mood"`
	Tags    *[]string `json:"tags"`
	Summary *string   `json:"-"`
}

// Apply mutates e and stamps UpdatedAt.
func (p Patch) Apply(e *Entry, now time.Time) {
	if p.Title != nil {
		e.Title = NormalizeTitle(*p.Title)
	}
	if p.Content != nil {
		e.Content = *p.Content
	}
	if p.Mood != nil {
		e.Mood = *p.Mood
	}
	if p.Tags != nil {
		e.Tags = NormalizeTags(*p.Tags)
	}
	if p.Summary != nil {
		e.SetSummary(*p.Summary)
	}
	t := now.UTC()
	e.UpdatedAt = &t
}

// SummaryRequest asks for a summary of Text. With EntryID set the request is
// tied to that entry for the ownership check and persistence.
type SummaryRequest struct {
	Text    string `json:"text" validate:"notblank"`
	EntryID string `json:"entryId,omitempty"`
}
