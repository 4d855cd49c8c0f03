package api

import (
	"net/http"

	echo "github.com/labstack/echo/v5"

	"github.com/bowjob/jobagent/pkg/jobsearch"
	"github.com/bowjob/jobagent/pkg/models"
)

// jobSearchHandler handles POST /jobs/search: parses the free-text query,
// fans out across job-board adapters (C4), persists the merged results,
// and returns them.
func (s *Server) jobSearchHandler(c *echo.Context) error {
	userID := c.Request().Header.Get("X-User-ID")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "X-User-ID header is required")
	}

	var req JobSearchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}
	limit := req.Limit
	if limit <= 0 {
		limit = 25
	}

	query := jobsearch.ParseQuery(c.Request().Context(), s.Router, "", req.Query)
	query.Limit = limit

	var cv *models.ParsedCV
	if req.CVID != "" {
		if parsed, ok := s.CVs.Get(c.Request().Context(), req.CVID); ok {
			cv = &parsed
		}
	}

	postings, err := s.Aggregator.Search(c.Request().Context(), userID, query, cv, limit)
	if err != nil {
		return mapDomainError(err)
	}
	saved := s.Jobs.SaveAll(postings)

	return c.JSON(http.StatusOK, &JobSearchResponse{Jobs: toJobItems(saved)})
}

// jobListHandler handles GET /jobs/list.
func (s *Server) jobListHandler(c *echo.Context) error {
	return c.JSON(http.StatusOK, &JobListResponse{Jobs: toJobItems(s.Jobs.List())})
}

// jobGetHandler handles GET /jobs/:id.
func (s *Server) jobGetHandler(c *echo.Context) error {
	job, ok := s.Jobs.Get(c.Request().Context(), c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "job not found")
	}
	items := toJobItems([]models.JobPosting{job})
	return c.JSON(http.StatusOK, items[0])
}

// applicationsListHandler handles GET /applications.
func (s *Server) applicationsListHandler(c *echo.Context) error {
	userID := c.Request().Header.Get("X-User-ID")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "X-User-ID header is required")
	}
	apps := s.Apps.List(c.Request().Context(), userID)
	out := make([]ApplicationItem, 0, len(apps))
	for _, a := range apps {
		out = append(out, ApplicationItem{
			ID:             a.ID,
			JobID:          a.JobID,
			Status:         string(a.Status),
			RecipientEmail: a.RecipientEmail,
			LastError:      a.LastError,
		})
	}
	return c.JSON(http.StatusOK, &ApplicationListResponse{Applications: out})
}

// applicationApproveHandler handles POST /applications/:id/approve — the
// HTTP-surface equivalent of the __APPROVE_CV__/__SEND_EMAIL__ action
// prefixes, for a UI that approves from the applications list rather than
// from chat.
func (s *Server) applicationApproveHandler(c *echo.Context) error {
	id := c.Param("id")
	isCV := c.QueryParam("stage") != "email"

	reply, app, err := s.Supervisor.ApproveApplication(c.Request().Context(), id, isCV)
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(http.StatusOK, &ApplicationApproveResponse{ReplyText: reply, Status: string(app.Status)})
}

func toJobItems(postings []models.JobPosting) []JobItem {
	out := make([]JobItem, 0, len(postings))
	for _, j := range postings {
		out = append(out, JobItem{
			ID:           j.ID,
			Title:        j.Title,
			Company:      j.Company,
			Location:     j.Location,
			MatchScore:   j.MatchScore,
			Requirements: j.Requirements,
		})
	}
	return out
}
