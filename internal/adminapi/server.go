/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package adminapi is the operator-facing HTTP surface bound to a running
// scheduler: job submission, listing, status and control, optimizing-job
// submission and polling, job-class discovery, and a Prometheus scrape
// endpoint. It is the only place gin-gonic/gin appears in the daemon.
package adminapi

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nabbar/slamd/internal/endpoint"
	"github.com/nabbar/slamd/internal/errs"
	"github.com/nabbar/slamd/internal/job"
	"github.com/nabbar/slamd/internal/logging"
	"github.com/nabbar/slamd/internal/metrics"
	"github.com/nabbar/slamd/internal/optimizer"
	"github.com/nabbar/slamd/internal/scheduler"
)

// Config tunes the admin API's HTTP listener.
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 5 * time.Second
	}
	return c
}

// Server is the admin API's gin engine bound to a scheduler, an optional
// optimizing-job driver, and an optional metrics collector.
type Server struct {
	cfg    Config
	log    logging.Logger
	engine *gin.Engine
	http   *http.Server

	sched *scheduler.Scheduler
	drv   *optimizer.Driver

	mu         sync.Mutex
	optimizing map[string]*job.OptimizingJob
	submitted  map[string]bool
}

// New builds a Server. validate, when non-nil, gates every route behind HTTP
// Basic auth checked through the same AuthValidator the TCP handshake uses.
// drv and coll may be nil, disabling /optimize and /metrics respectively.
func New(log logging.Logger, sched *scheduler.Scheduler, drv *optimizer.Driver, coll *metrics.Collector, validate endpoint.AuthValidator, cfg Config) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		cfg:        cfg.withDefaults(),
		log:        log,
		engine:     engine,
		sched:      sched,
		drv:        drv,
		optimizing: map[string]*job.OptimizingJob{},
		submitted:  map[string]bool{},
	}

	admin := engine.Group("/")
	if validate != nil {
		admin.Use(BasicAuth(log, validate))
	}
	admin.GET("/healthz", s.handleHealth)
	admin.GET("/classes", s.handleListClasses)
	admin.POST("/jobs", s.handleSubmitJob)
	admin.GET("/jobs", s.handleListJobs)
	admin.GET("/jobs/:id", s.handleGetJob)
	admin.POST("/jobs/:id/stop", s.handleControlJob("stop"))
	admin.POST("/jobs/:id/abort", s.handleControlJob("abort"))
	admin.POST("/jobs/:id/disable", s.handleControlJob("disable"))
	admin.POST("/jobs/:id/cancel", s.handleCancelJob)

	if drv != nil {
		admin.POST("/optimize", s.handleSubmitOptimizing)
		admin.GET("/optimize/:id", s.handleGetOptimizing)
		drv.OnCompletion(s.recordOptimizing)
	}

	if coll != nil {
		engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	return s
}

// Engine exposes the underlying gin engine, e.g. for httptest in callers'
// own integration tests.
func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) recordOptimizing(o *job.OptimizingJob) {
	s.mu.Lock()
	s.optimizing[o.ID()] = o
	s.mu.Unlock()
}

// Run serves the admin API until ctx is cancelled, then shuts down within
// cfg.ShutdownTimeout.
func (s *Server) Run(ctx context.Context) errs.Error {
	s.http = &http.Server{Addr: s.cfg.Addr, Handler: s.engine}

	errCh := make(chan error, 1)
	go func() { errCh <- s.http.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			return errs.CodeTransportIO.Error(err)
		}
		return nil
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return errs.CodeTransportIO.Error(err)
		}
		return nil
	}
}
