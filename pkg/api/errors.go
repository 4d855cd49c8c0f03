package api

import (
	"log/slog"
	"net/http"

	echo "github.com/labstack/echo/v5"

	"github.com/bowjob/jobagent/pkg/apperr"
)

// mapDomainError maps an *apperr.Error's Kind to an HTTP response, matching
// the teacher's pkg/api/errors.go mapServiceError style of translating a
// closed set of internal failure kinds into status codes — generalised to
// apperr.Kind since this domain has more failure categories than the
// teacher's fixed sentinel list.
func mapDomainError(err error) *echo.HTTPError {
	switch {
	case apperr.Is(err, apperr.KindValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case apperr.Is(err, apperr.KindInvariant):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case apperr.Is(err, apperr.KindQuotaExhausted):
		return echo.NewHTTPError(http.StatusTooManyRequests, err.Error())
	case apperr.Is(err, apperr.KindAuthRevoked):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case apperr.Is(err, apperr.KindPermanentConfig):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	case apperr.Is(err, apperr.KindTransient):
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	default:
		slog.Error("unmapped internal error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
