package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/agenthands/jai/internal/auth"
	"github.com/agenthands/jai/internal/core"
	"github.com/agenthands/jai/internal/core/summary"
	"github.com/agenthands/jai/internal/llm"
	"github.com/agenthands/jai/internal/logging"
	"github.com/agenthands/jai/internal/metrics"
	"github.com/agenthands/jai/internal/server"
	"github.com/agenthands/jai/internal/store/backend"
	"github.com/agenthands/jai/internal/validation"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	log := newLogger(cfg)
	logging.SetDefault(log)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := backend.Open(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	client, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to initialize LLM client: %w", err)
	}
	if c, ok := client.(io.Closer); ok {
		defer c.Close()
	}

	m := metrics.New()
	v := validation.New()
	orch := summary.NewOrchestrator(st, summary.NewSummarizer(client, cfg.Summary.Entry), v,
		summary.WithTimeout(cfg.SummaryTimeout()),
		summary.WithPersistTimeout(cfg.PersistTimeout()),
		summary.WithRecorder(m),
		summary.WithLogger(log),
	)
	journal := core.NewJournal(st, orch, v, log)
	resolver := auth.NewJWT(cfg.Auth.JWTSecret, auth.WithIssuer(cfg.Auth.Issuer))

	gin.SetMode(ginMode(cfg.Server.Mode))
	srv := server.NewServer(journal, resolver,
		server.WithLogger(log),
		server.WithMetrics(m),
		server.WithSummarizeLimit(cfg.Server.SummarizePerMinute, cfg.Server.SummarizeBurst),
	)

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.SetupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info(gctx, "starting server", "addr", cfg.Server.Addr, "store", cfg.Store.Driver, "llm", cfg.LLM.Provider)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()
		log.Info(shutdownCtx, "shutting down server")
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func ginMode(mode string) string {
	switch mode {
	case gin.DebugMode, gin.TestMode:
		return mode
	default:
		return gin.ReleaseMode
	}
}
