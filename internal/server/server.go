// Package server is the gin HTTP surface of the journal. Handlers resolve
// the owner, decode the request and translate core errors to statuses.
package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agenthands/jai/internal/auth"
	"github.com/agenthands/jai/internal/core/model"
	"github.com/agenthands/jai/internal/core/summary"
	"github.com/agenthands/jai/internal/logging"
	"github.com/agenthands/jai/internal/metrics"
)

// JournalService is the owner-scoped core the handlers call.
type JournalService interface {
	ListEntries(ctx context.Context, ownerID string, c model.Criteria) (*model.EntryPage, error)
	GetEntry(ctx context.Context, ownerID, id string) (*model.Entry, error)
	CreateEntry(ctx context.Context, ownerID string, f model.Fields) (*model.Entry, error)
	UpdateEntry(ctx context.Context, ownerID, id string, p model.Patch) (*model.Entry, error)
	DeleteEntry(ctx context.Context, ownerID, id string) error
	Summarize(ctx context.Context, ownerID string, req model.SummaryRequest) (*summary.Result, error)
	GetSummary(ctx context.Context, ownerID, id string) (string, error)
}

type Server struct {
	journal JournalService
	auth    auth.Resolver
	metrics *metrics.Metrics
	log     logging.Logger
	limiter *KeyedRateLimiter
}

type Option func(*Server)

func WithLogger(l logging.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithSummarizeLimit caps summarize calls per owner. A non-positive rate
// disables the limiter.
func WithSummarizeLimit(perMinute float64, burst int) Option {
	return func(s *Server) {
		if perMinute <= 0 {
			s.limiter = nil
			return
		}
		s.limiter = NewKeyedRateLimiter(perMinute, burst)
	}
}

func NewServer(journal JournalService, resolver auth.Resolver, opts ...Option) *Server {
	s := &Server{
		journal: journal,
		auth:    resolver,
		log:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.observe())

	r.GET("/healthz", s.Health)
	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	api := r.Group("/api", s.requireOwner())

	journal := api.Group("/journal")
	journal.POST("", s.CreateEntry)
	journal.GET("", s.ListEntries)
	journal.GET("/:id", s.GetEntry)
	journal.PUT("/:id", s.UpdateEntry)
	journal.DELETE("/:id", s.DeleteEntry)

	ai := api.Group("/ai")
	ai.POST("/summarize", s.limitSummaries(), s.Summarize)
	ai.GET("/summary/:id", s.GetSummary)

	return r
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
