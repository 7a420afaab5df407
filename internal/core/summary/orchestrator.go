package summary

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/agenthands/jai/internal/apperr"
	"github.com/agenthands/jai/internal/core/model"
	"github.com/agenthands/jai/internal/logging"
	"github.com/agenthands/jai/internal/store"
)

const (
	DefaultTimeout        = 30 * time.Second
	DefaultPersistTimeout = 5 * time.Second
)

// Outcome labels a finished summarize request.
type Outcome string

const (
	OutcomeOK            Outcome = "ok"
	OutcomePersistFailed Outcome = "persist_failed"
	OutcomeInvalid       Outcome = "invalid"
	OutcomeNotFound      Outcome = "not_found"
	OutcomeUpstreamError Outcome = "upstream_error"
	OutcomeInternalError Outcome = "internal_error"
)

// Recorder observes summarize requests. Implementations must be safe for
// concurrent use.
type Recorder interface {
	SummaryRequested(outcome Outcome)
	GenerateObserved(d time.Duration)
	PersistFailed()
}

type nopRecorder struct{}

func (nopRecorder) SummaryRequested(Outcome)       {}
func (nopRecorder) GenerateObserved(time.Duration) {}
func (nopRecorder) PersistFailed()                 {}

type Validator interface {
	Validate(s any) error
}

// Result is what a summarize request returns. Persisted is false when no
// entry was given or the best-effort write failed.
type Result struct {
	Summary   string
	EntryID   string
	Persisted bool
}

// Orchestrator runs ownership check, generation and persistence for a
// summarize request.
type Orchestrator struct {
	store     store.EntryStore
	generator Generator
	validator Validator
	log       logging.Logger
	recorder  Recorder

	timeout        time.Duration
	persistTimeout time.Duration
}

type Option func(*Orchestrator)

func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

func WithPersistTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.persistTimeout = d
		}
	}
}

func WithRecorder(r Recorder) Option {
	return func(o *Orchestrator) {
		if r != nil {
			o.recorder = r
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.log = l
		}
	}
}

func NewOrchestrator(s store.EntryStore, g Generator, v Validator, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:          s,
		generator:      g,
		validator:      v,
		log:            logging.Nop(),
		recorder:       nopRecorder{},
		timeout:        DefaultTimeout,
		persistTimeout: DefaultPersistTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Summarize generates a summary of req.Text. With req.EntryID set, the
// entry must belong to ownerID before the generator is called, and the
// summary is then written to it on a best-effort basis.
func (o *Orchestrator) Summarize(ctx context.Context, ownerID string, req model.SummaryRequest) (*Result, error) {
	req.EntryID = strings.TrimSpace(req.EntryID)

	if err := o.validator.Validate(req); err != nil {
		o.recorder.SummaryRequested(OutcomeInvalid)
		return nil, err
	}

	if req.EntryID != "" {
		if _, err := o.store.Get(ctx, req.EntryID, ownerID); err != nil {
			return nil, o.fail(err, "failed to load entry for summary")
		}
	}

	text, err := o.generate(ctx, req.Text)
	if err != nil {
		o.log.Warn(ctx, "summary generation failed", "owner_id", ownerID, "entry_id", req.EntryID, "error", err)
		o.recorder.SummaryRequested(OutcomeUpstreamError)
		return nil, apperr.Upstream("summary service unavailable", err)
	}

	res := &Result{Summary: text, EntryID: req.EntryID}
	if req.EntryID == "" {
		o.recorder.SummaryRequested(OutcomeOK)
		return res, nil
	}

	if err := o.persist(ctx, ownerID, req.EntryID, text); err != nil {
		o.log.Error(ctx, "failed to persist summary", "owner_id", ownerID, "entry_id", req.EntryID, "error", err)
		o.recorder.PersistFailed()
		o.recorder.SummaryRequested(OutcomePersistFailed)
		return res, nil
	}

	res.Persisted = true
	o.recorder.SummaryRequested(OutcomeOK)
	return res, nil
}

// generate calls the generator detached from caller cancellation and bounded
// only by the timeout.
func (o *Orchestrator) generate(ctx context.Context, text string) (string, error) {
	genCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.timeout)
	defer cancel()

	type reply struct {
		text string
		err  error
	}
	done := make(chan reply, 1)

	start := time.Now()
	go func() {
		s, err := o.generator.Summarize(genCtx, text)
		done <- reply{text: s, err: err}
	}()

	var r reply
	select {
	case r = <-done:
	case <-genCtx.Done():
		r = reply{err: genCtx.Err()}
	}
	o.recorder.GenerateObserved(time.Since(start))

	if r.err != nil {
		return "", r.err
	}
	s := strings.TrimSpace(r.text)
	if s == "" {
		return "", errors.New("generator returned empty summary")
	}
	return s, nil
}

func (o *Orchestrator) persist(ctx context.Context, ownerID, entryID, text string) error {
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.persistTimeout)
	defer cancel()

	_, err := o.store.Update(pctx, entryID, ownerID, model.Patch{Summary: &text})
	return err
}

// GetSummary returns the stored summary of an owned entry.
func (o *Orchestrator) GetSummary(ctx context.Context, ownerID, entryID string) (string, error) {
	e, err := o.store.Get(ctx, entryID, ownerID)
	if err != nil {
		return "", apperr.Internalize(err, "failed to load entry")
	}
	if !e.HasSummary {
		return "", apperr.NotFound("no summary available for this entry")
	}
	return e.Summary, nil
}

func (o *Orchestrator) fail(err error, msg string) error {
	err = apperr.Internalize(err, msg)
	if errors.Is(err, apperr.ErrNotFound) {
		o.recorder.SummaryRequested(OutcomeNotFound)
	} else {
		o.recorder.SummaryRequested(OutcomeInternalError)
	}
	return err
}
