package api

import (
	"net/http"

	echo "github.com/labstack/echo/v5"
)

// settingsModelGetHandler handles GET /settings/model — the process-wide
// preferred model fallback used when a chat turn doesn't name one.
func (s *Server) settingsModelGetHandler(c *echo.Context) error {
	return c.JSON(http.StatusOK, &SettingsModelResponse{Model: s.Cfg.PreferredModel})
}

// settingsModelSetHandler handles POST /settings/model.
func (s *Server) settingsModelSetHandler(c *echo.Context) error {
	var req SettingsModelRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Model == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "model is required")
	}
	known := false
	for _, p := range s.Cfg.Providers {
		if p.ModelID == req.Model {
			known = true
			break
		}
	}
	if !known {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown model id")
	}
	s.Cfg.PreferredModel = req.Model
	return c.JSON(http.StatusOK, &SettingsModelResponse{Model: s.Cfg.PreferredModel})
}

// settingsProfileGetHandler handles GET /settings/profile. Persisted user
// profiles are out of scope; real accounts aren't modeled here, so this
// only echoes the caller's X-User-ID.
func (s *Server) settingsProfileGetHandler(c *echo.Context) error {
	userID := c.Request().Header.Get("X-User-ID")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "X-User-ID header is required")
	}
	return c.JSON(http.StatusOK, &SettingsProfileResponse{UserID: userID})
}

// settingsProfilePatchHandler handles PATCH /settings/profile.
func (s *Server) settingsProfilePatchHandler(c *echo.Context) error {
	userID := c.Request().Header.Get("X-User-ID")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "X-User-ID header is required")
	}
	var req SettingsProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, &SettingsProfileResponse{UserID: userID, DisplayName: req.DisplayName})
}
