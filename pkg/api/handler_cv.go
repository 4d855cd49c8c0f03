package api

import (
	"io"
	"net/http"

	echo "github.com/labstack/echo/v5"
)

const maxCVUploadBytes = 10 << 20 // 10 MiB

// cvUploadHandler handles POST /cv/upload (multipart/form-data, field "file").
// Parsing a PDF/DOCX into a ParsedCV is out of scope; the upload is
// registered unparsed and GET /cv/:id reports "not ready" until something
// (a future parser, or a test) calls CVStore.SetParsed.
func (s *Server) cvUploadHandler(c *echo.Context) error {
	fh, err := c.Request().FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file field is required")
	}
	defer fh.Close()

	if _, err := io.CopyN(io.Discard, fh, maxCVUploadBytes+1); err == nil {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "file exceeds 10MiB limit")
	}

	id := s.CVs.Create(c.Request().MultipartForm.File["file"][0].Filename)
	return c.JSON(http.StatusAccepted, &CVUploadResponse{CVID: id})
}

// cvGetHandler handles GET /cv/:id — polled until parsing completes.
func (s *Server) cvGetHandler(c *echo.Context) error {
	id := c.Param("id")
	rec, ok := s.CVs.Record(id)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "cv not found")
	}
	resp := &CVResponse{CVID: rec.ID, Ready: rec.Parsed != nil}
	if rec.Parsed != nil {
		resp.Parsed = rec.Parsed
	}
	return c.JSON(http.StatusOK, resp)
}

// cvListHandler handles GET /cv/list.
func (s *Server) cvListHandler(c *echo.Context) error {
	recs := s.CVs.List()
	out := make([]CVResponse, 0, len(recs))
	for _, rec := range recs {
		item := CVResponse{CVID: rec.ID, Ready: rec.Parsed != nil}
		if rec.Parsed != nil {
			item.Parsed = rec.Parsed
		}
		out = append(out, item)
	}
	return c.JSON(http.StatusOK, &CVListResponse{CVs: out})
}

// cvDeleteHandler handles DELETE /cv/:id.
func (s *Server) cvDeleteHandler(c *echo.Context) error {
	id := c.Param("id")
	if !s.CVs.Delete(id) {
		return echo.NewHTTPError(http.StatusNotFound, "cv not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// cvTailoredEditHandler handles PATCH /cv/tailored/:id — a human editing a
// tailored CV's summary or skills list before approval. Supplied fields
// overwrite the stored summary and technical-skills list directly; the
// tailor's fuzzy-match merge path is not involved.
func (s *Server) cvTailoredEditHandler(c *echo.Context) error {
	id := c.Param("id")
	tailored, ok := s.CVs.FindTailored(id)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "tailored cv not found")
	}

	var req TailoredCVEditRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Summary != nil {
		tailored.Tailored.Summary = *req.Summary
	}
	if req.Skills != nil {
		tailored.Tailored.Skills.Technical = req.Skills
	}
	s.CVs.SaveTailored(tailored)

	return c.JSON(http.StatusOK, tailored)
}

// cvTailoredDownloadHandler handles GET /cv/tailored/:id/download, rendering
// the tailored CV to PDF via the pipeline controller's renderer (C6's
// downstream consumer).
func (s *Server) cvTailoredDownloadHandler(c *echo.Context) error {
	id := c.Param("id")
	tailored, ok := s.CVs.FindTailored(id)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "tailored cv not found")
	}
	if s.Pipeline.PDFRenderer == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "pdf rendering is not configured")
	}

	data, err := s.Pipeline.PDFRenderer.Render(c.Request().Context(), tailored)
	if err != nil {
		return mapDomainError(err)
	}
	return c.Blob(http.StatusOK, "application/pdf", data)
}
