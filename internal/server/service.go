// Package server provides the read-only JSON HTTP API over the fundraising
// metrics. The dataset is reloaded on a ticker since "now" moves.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/theirongolddev/fundburn/internal/config"
	"github.com/theirongolddev/fundburn/internal/metrics"
	"github.com/theirongolddev/fundburn/internal/pipeline"
)

// LoadFunc produces a fresh dataset.
type LoadFunc func(ctx context.Context) (*pipeline.LoadResult, error)

// Config controls the server runtime behavior.
type Config struct {
	Addr     string
	Refresh  time.Duration
	Load     LoadFunc
	Settings config.Config // targets and exclusions for the metrics engine
	Now      func() time.Time
}

// Status is served at /v1/status.
type Status struct {
	StartedAt          time.Time `json:"started_at"`
	LastRefreshAt      time.Time `json:"last_refresh_at"`
	RefreshIntervalSec int       `json:"refresh_interval_sec"`
	RefreshCount       int64     `json:"refresh_count"`
	Payments           int       `json:"payments"`
	Pledges            int       `json:"pledges"`
	Stale              bool      `json:"stale"`
	LastError          string    `json:"last_error,omitempty"`
}

// Service holds the current dataset and serves it over HTTP.
type Service struct {
	cfg Config

	mu            sync.RWMutex
	startedAt     time.Time
	lastRefreshAt time.Time
	refreshCount  int64
	lastError     string
	data          *pipeline.LoadResult
	engine        *metrics.Engine
}

// New returns a service with the provided config.
func New(cfg Config) *Service {
	if cfg.Refresh < time.Minute {
		cfg.Refresh = time.Hour
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8790"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Service{cfg: cfg, startedAt: cfg.Now()}
}

// Run serves the API and refreshes the dataset until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Seed the dataset so the API is useful immediately.
	s.refreshLogged(ctx)

	ticker := time.NewTicker(s.cfg.Refresh)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.refreshLogged(ctx)
		case err := <-errCh:
			return fmt.Errorf("http server: %w", err)
		}
	}
}

func (s *Service) refreshLogged(ctx context.Context) {
	if err := s.Refresh(ctx); err != nil {
		log.Printf("fundburn serve refresh error: %v", err)
	}
}

// Refresh reloads the dataset and rebuilds the engine at the current time.
// A failed reload keeps the previous dataset.
func (s *Service) Refresh(ctx context.Context) error {
	if s.cfg.Load == nil {
		return errors.New("no loader configured")
	}
	result, err := s.cfg.Load(ctx)
	now := s.cfg.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRefreshAt = now
	s.refreshCount++
	if err != nil {
		s.lastError = err.Error()
		return err
	}
	s.lastError = ""
	s.data = result
	s.engine = metrics.NewEngine(s.cfg.Settings, now)
	return nil
}

// current returns the loaded dataset, or false before the first success.
func (s *Service) current() (*pipeline.LoadResult, *metrics.Engine, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data, s.engine, s.data != nil
}

func (s *Service) status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{
		StartedAt:          s.startedAt,
		LastRefreshAt:      s.lastRefreshAt,
		RefreshIntervalSec: int(s.cfg.Refresh.Seconds()),
		RefreshCount:       s.refreshCount,
		LastError:          s.lastError,
	}
	if s.data != nil {
		st.Payments = len(s.data.Payments)
		st.Pledges = len(s.data.Pledges)
		st.Stale = s.data.PaymentStats.Stale || s.data.PledgeStats.Stale
	}
	return st
}

// Handler returns the API routes.
func (s *Service) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok\n") })

	v1 := r.Group("/v1")
	v1.GET("/status", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": s.status()}) })
	v1.GET("/kpis", s.withData(s.handleKPIs))
	v1.GET("/money-moved", s.withData(s.handleMoneyMoved))
	v1.GET("/arr", s.withData(s.handleARR))
	v1.GET("/monthly/:series", s.withData(s.handleMonthly))
	v1.GET("/chapter-types", s.withData(s.handleChapterTypes))
	return r
}
