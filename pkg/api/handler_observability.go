package api

import (
	"net/http"

	echo "github.com/labstack/echo/v5"

	"github.com/bowjob/jobagent/pkg/config"
	"github.com/bowjob/jobagent/pkg/pipeline"
	"github.com/bowjob/jobagent/pkg/quota"
)

// observabilityQuotaHandler handles GET /observability/quota: one rpd
// counter status per configured model (C3).
func (s *Server) observabilityQuotaHandler(c *echo.Context) error {
	ctx := c.Request().Context()
	counters := make([]QuotaCounterItem, 0, len(s.Cfg.Providers))
	for _, p := range s.Cfg.Providers {
		key := quota.CounterKey{Provider: p.Provider, Model: p.ModelID, Period: quota.PeriodRPD}
		status, err := s.Ledger.StatusOf(ctx, key)
		if err != nil {
			return mapDomainError(err)
		}
		counters = append(counters, QuotaCounterItem{
			Provider:  p.Provider,
			Model:     p.ModelID,
			Used:      status.Used,
			Limit:     status.Limit,
			Pct:       status.Pct,
			Available: status.Available,
		})
	}
	return c.JSON(http.StatusOK, &QuotaStatusResponse{Counters: counters})
}

// observabilityExecutionsHandler handles GET /observability/executions — a
// coarse view of every user's in-flight pipeline steps, read from session
// snapshots since the pipeline controller itself holds no state of its own.
func (s *Server) observabilityExecutionsHandler(c *echo.Context) error {
	userID := c.Request().Header.Get("X-User-ID")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "X-User-ID header is required")
	}

	out := []ExecutionItem{}
	for _, session := range s.Sessions.List(userID) {
		for appID, raw := range session.PipelineState {
			if state, ok := raw.(pipeline.State); ok {
				out = append(out, ExecutionItem{ApplicationID: appID, Step: string(state.Step)})
			}
		}
	}
	return c.JSON(http.StatusOK, &ExecutionsResponse{Executions: out})
}

// observabilityAPIUsageHandler handles GET /observability/api-usage —
// per-adapter credential status (C1/C4/C5/C7), never the credential values
// themselves.
func (s *Server) observabilityAPIUsageHandler(c *echo.Context) error {
	resp := &APIUsageResponse{
		Providers: credentialItems(s.Cfg.ProviderStatus()),
		JobBoards: credentialItems(s.Cfg.JobBoardStatus()),
		HRLookups: credentialItems(s.Cfg.HRProviderStatus()),
	}
	mailer := s.Cfg.MailerStatus()
	resp.Mailer = CredentialItem{Configured: mailer.Configured, Reason: mailer.Reason}
	return c.JSON(http.StatusOK, resp)
}

func credentialItems(in map[string]config.CredentialStatus) map[string]CredentialItem {
	out := make(map[string]CredentialItem, len(in))
	for k, v := range in {
		out[k] = CredentialItem{Configured: v.Configured, Reason: v.Reason}
	}
	return out
}

// observabilityGmailWatcherHandler handles GET /observability/gmail-watcher.
func (s *Server) observabilityGmailWatcherHandler(c *echo.Context) error {
	running := s.Watcher != nil && s.Watcher.Running()
	return c.JSON(http.StatusOK, &GmailWatcherResponse{Running: running})
}

// observabilityGmailWatcherToggleHandler handles
// POST /observability/gmail-watcher/toggle.
func (s *Server) observabilityGmailWatcherToggleHandler(c *echo.Context) error {
	if s.Watcher == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "mailer adapter is not configured")
	}

	var req GmailWatcherToggleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.Enabled {
		s.Watcher.Start(c.Request().Context())
	} else {
		s.Watcher.Stop()
	}
	return c.JSON(http.StatusOK, &GmailWatcherResponse{Running: s.Watcher.Running()})
}
