package core

import (
	"context"
	"strings"

	"github.com/agenthands/jai/internal/apperr"
	"github.com/agenthands/jai/internal/core/filter"
	"github.com/agenthands/jai/internal/core/model"
	"github.com/agenthands/jai/internal/core/summary"
	"github.com/agenthands/jai/internal/logging"
	"github.com/agenthands/jai/internal/store"
	"github.com/agenthands/jai/internal/validation"
)

// Journal is the set of owner-scoped operations the API surface calls. The
// owner is always an already-resolved identity.
type Journal struct {
	Store     store.EntryStore
	Filter    *filter.Engine
	Summaries *summary.Orchestrator
	Validator *validation.Validator
	Log       logging.Logger
}

func NewJournal(s store.EntryStore, orchestrator *summary.Orchestrator, v *validation.Validator, log logging.Logger) *Journal {
	if log == nil {
		log = logging.Nop()
	}
	return &Journal{
		Store:     s,
		Filter:    filter.NewEngine(s),
		Summaries: orchestrator,
		Validator: v,
		Log:       log,
	}
}

func (j *Journal) ListEntries(ctx context.Context, ownerID string, c model.Criteria) (*model.EntryPage, error) {
	return j.Filter.List(ctx, ownerID, c)
}

func (j *Journal) GetEntry(ctx context.Context, ownerID, id string) (*model.Entry, error) {
	e, err := j.Store.Get(ctx, id, ownerID)
	if err != nil {
		return nil, apperr.Internalize(err, "failed to get entry")
	}
	return e, nil
}

func (j *Journal) CreateEntry(ctx context.Context, ownerID string, f model.Fields) (*model.Entry, error) {
	if err := j.Validator.Validate(f); err != nil {
		return nil, err
	}
	e, err := j.Store.Create(ctx, ownerID, f)
	if err != nil {
		return nil, apperr.Internalize(err, "failed to create entry")
	}
	j.Log.Info(ctx, "entry created", "owner_id", ownerID, "entry_id", e.ID)
	return e, nil
}

// UpdateEntry applies a partial update. The summary can only be written by
// the summary orchestrator, so any Summary in p is ignored.
func (j *Journal) UpdateEntry(ctx context.Context, ownerID, id string, p model.Patch) (*model.Entry, error) {
	p.Summary = nil
	if err := j.Validator.Validate(p); err != nil {
		return nil, err
	}
	e, err := j.Store.Update(ctx, id, ownerID, p)
	if err != nil {
		return nil, apperr.Internalize(err, "failed to update entry")
	}
	return e, nil
}

func (j *Journal) DeleteEntry(ctx context.Context, ownerID, id string) error {
	if err := j.Store.Delete(ctx, id, ownerID); err != nil {
		return apperr.Internalize(err, "failed to delete entry")
	}
	j.Log.Info(ctx, "entry deleted", "owner_id", ownerID, "entry_id", id)
	return nil
}

func (j *Journal) Summarize(ctx context.Context, ownerID string, req model.SummaryRequest) (*summary.Result, error) {
	return j.Summaries.Summarize(ctx, ownerID, req)
}

func (j *Journal) GetSummary(ctx context.Context, ownerID, id string) (string, error) {
	return j.Summaries.GetSummary(ctx, ownerID, strings.TrimSpace(id))
}
