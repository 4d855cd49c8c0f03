// Package api provides the HTTP/WebSocket surface for the job-application
// agent orchestration layer: chat, CV ingestion, job
// search and applications, observability and settings, plus one
// per-subscriber WebSocket for real-time events. Grounded on the teacher's
// pkg/api/server.go — Server struct, Set*-then-ValidateWiring() wiring
// discipline, route-group ordering — generalised from tarsy's alert/session
// domain to this one's chat/CV/job/application domain.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	echo "github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"

	"github.com/bowjob/jobagent/pkg/config"
	"github.com/bowjob/jobagent/pkg/cvtailor"
	"github.com/bowjob/jobagent/pkg/emailcomposer"
	"github.com/bowjob/jobagent/pkg/eventbus"
	"github.com/bowjob/jobagent/pkg/hrresolver"
	"github.com/bowjob/jobagent/pkg/jobsearch"
	"github.com/bowjob/jobagent/pkg/llmrouter"
	"github.com/bowjob/jobagent/pkg/pipeline"
	"github.com/bowjob/jobagent/pkg/quota"
	"github.com/bowjob/jobagent/pkg/replywatcher"
	"github.com/bowjob/jobagent/pkg/sessionstore"
	"github.com/bowjob/jobagent/pkg/supervisor"
)

// Server is the HTTP API server. Every field except Watcher is required
// before Start; Watcher is optional, since the mailer adapter it depends on
// may be unconfigured like any other credentialed adapter.
type Server struct {
	echo       *echo.Echo
	httpServer *http.Server

	Cfg        *config.Config
	Bus        *eventbus.Bus
	Sessions   *sessionstore.Store
	Router     *llmrouter.Router
	Ledger     *quota.Ledger
	Aggregator *jobsearch.Aggregator
	Resolver   *hrresolver.Resolver
	Tailor     *cvtailor.Tailor
	Composer   *emailcomposer.Composer
	Pipeline   *pipeline.Controller
	Supervisor *supervisor.Supervisor
	Watcher    *replywatcher.Watcher // nil if mailer adapter unconfigured

	Apps *AppStore
	Jobs *JobStore
	CVs  *CVStore
}

// NewServer wires every required component and registers routes. Optional
// components (currently just the reply watcher) are attached afterward via
// SetReplyWatcher.
func NewServer(
	cfg *config.Config,
	bus *eventbus.Bus,
	sessions *sessionstore.Store,
	router *llmrouter.Router,
	ledger *quota.Ledger,
	aggregator *jobsearch.Aggregator,
	resolver *hrresolver.Resolver,
	tailor *cvtailor.Tailor,
	composer *emailcomposer.Composer,
	ctrl *pipeline.Controller,
	sup *supervisor.Supervisor,
	apps *AppStore,
	jobs *JobStore,
	cvs *CVStore,
) *Server {
	s := &Server{
		echo:       echo.New(),
		Cfg:        cfg,
		Bus:        bus,
		Sessions:   sessions,
		Router:     router,
		Ledger:     ledger,
		Aggregator: aggregator,
		Resolver:   resolver,
		Tailor:     tailor,
		Composer:   composer,
		Pipeline:   ctrl,
		Supervisor: sup,
		Apps:       apps,
		Jobs:       jobs,
		CVs:        cvs,
	}
	s.setupRoutes()
	return s
}

// SetReplyWatcher attaches the reply watcher (C8) for the observability
// gmail-watcher endpoints. Safe to leave unset when the mailer adapter has
// no credential configured.
func (s *Server) SetReplyWatcher(w *replywatcher.Watcher) {
	s.Watcher = w
}

// ValidateWiring checks every required dependency is set, so a missing
// wire-up fails at startup instead of as a request-time nil pointer panic.
func (s *Server) ValidateWiring() error {
	var errs []error
	if s.Cfg == nil {
		errs = append(errs, fmt.Errorf("config not set"))
	}
	if s.Bus == nil {
		errs = append(errs, fmt.Errorf("event bus not set"))
	}
	if s.Sessions == nil {
		errs = append(errs, fmt.Errorf("session store not set"))
	}
	if s.Router == nil {
		errs = append(errs, fmt.Errorf("llm router not set"))
	}
	if s.Ledger == nil {
		errs = append(errs, fmt.Errorf("quota ledger not set"))
	}
	if s.Aggregator == nil {
		errs = append(errs, fmt.Errorf("job aggregator not set"))
	}
	if s.Resolver == nil {
		errs = append(errs, fmt.Errorf("hr resolver not set"))
	}
	if s.Tailor == nil {
		errs = append(errs, fmt.Errorf("cv tailor not set"))
	}
	if s.Composer == nil {
		errs = append(errs, fmt.Errorf("email composer not set"))
	}
	if s.Pipeline == nil {
		errs = append(errs, fmt.Errorf("pipeline controller not set"))
	}
	if s.Supervisor == nil {
		errs = append(errs, fmt.Errorf("supervisor not set"))
	}
	if s.Apps == nil || s.Jobs == nil || s.CVs == nil {
		errs = append(errs, fmt.Errorf("application/job/cv stores not set"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("server wiring incomplete: %w", errors.Join(errs...))
	}
	return nil
}

// setupRoutes registers the full HTTP/WebSocket route set.
func (s *Server) setupRoutes() {
	s.echo.Use(middleware.BodyLimit(16 * 1024 * 1024)) // 10 MiB CV upload cap + JSON overhead
	s.echo.Use(securityHeaders())

	s.echo.GET("/health", s.healthHandler)

	s.echo.POST("/chat", s.chatHandler)
	s.echo.GET("/chat/history/:session_id", s.chatHistoryHandler)

	s.echo.POST("/cv/upload", s.cvUploadHandler)
	s.echo.GET("/cv/list", s.cvListHandler)
	s.echo.GET("/cv/:id", s.cvGetHandler)
	s.echo.DELETE("/cv/:id", s.cvDeleteHandler)
	s.echo.PATCH("/cv/tailored/:id", s.cvTailoredEditHandler)
	s.echo.GET("/cv/tailored/:id/download", s.cvTailoredDownloadHandler)

	s.echo.POST("/jobs/search", s.jobSearchHandler)
	s.echo.GET("/jobs/list", s.jobListHandler)
	s.echo.GET("/jobs/:id", s.jobGetHandler)
	s.echo.GET("/applications", s.applicationsListHandler)
	s.echo.POST("/applications/:id/approve", s.applicationApproveHandler)

	s.echo.GET("/observability/quota", s.observabilityQuotaHandler)
	s.echo.GET("/observability/executions", s.observabilityExecutionsHandler)
	s.echo.GET("/observability/api-usage", s.observabilityAPIUsageHandler)
	s.echo.GET("/observability/gmail-watcher", s.observabilityGmailWatcherHandler)
	s.echo.POST("/observability/gmail-watcher/toggle", s.observabilityGmailWatcherToggleHandler)

	s.echo.GET("/settings/model", s.settingsModelGetHandler)
	s.echo.POST("/settings/model", s.settingsModelSetHandler)
	s.echo.GET("/settings/profile", s.settingsProfileGetHandler)
	s.echo.PATCH("/settings/profile", s.settingsProfilePatchHandler)

	s.echo.GET("/ws", s.wsHandler)
}

// Start starts the HTTP server on addr (blocking).
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{Addr: addr, Handler: s.echo}
	return s.httpServer.ListenAndServe()
}

// StartWithListener starts the HTTP server on a pre-created listener, used
// by tests that need a random OS-assigned port.
func (s *Server) StartWithListener(ln net.Listener) error {
	s.httpServer = &http.Server{Handler: s.echo}
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// healthHandler handles GET /health.
func (s *Server) healthHandler(c *echo.Context) error {
	return c.JSON(http.StatusOK, &HealthResponse{
		Status:  "healthy",
		Version: "dev",
	})
}
