// internal/server/handlers.go
package server

import (
	"fmt"
	"net/http"
	"strings"

	"docgen-service/internal/analysis"
	apperrors "docgen-service/internal/common/errors"
	"docgen-service/internal/render"

	"github.com/go-chi/chi/v5"
)

// handleListTemplates returns the catalog listing. POST because the auth
// token travels in the body.
func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := s.catalog.List()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"templates": templates,
		"count":     len(templates),
	})
}

// handleTemplateDetail returns the template source together with the
// structure analysis of its sample payload.
func (s *Server) handleTemplateDetail(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "templateName")

	if !s.catalog.Exists(name) {
		s.writeError(w, r, apperrors.NewTemplateNotFoundError(name))
		return
	}

	source, err := s.catalog.LoadSource(name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sample := s.catalog.LoadSample(name)
	report := s.analyzer.Analyze(sample)
	tier := analysis.Classify(report)

	s.writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"template": map[string]interface{}{
			"name":                 name,
			"content":              source,
			"normalVariables":      report.NormalVariables,
			"conditionalVariables": report.ConditionalVariables,
			"arrayInfo":            report.ArrayInfo,
			"loops":                report.Loops,
			"allVariables":         report.AllVariables,
			"complexity":           tier,
			"sampleData":           sample,
		},
	})
}

// handlePreview merges the template with its sample data and returns raw
// HTML for in-browser inspection. No PDF, no identity, no persistence.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "templateName")

	if !s.catalog.Exists(name) {
		s.writeError(w, r, apperrors.NewTemplateNotFoundError(name))
		return
	}

	html, err := s.pipeline.RenderHTML(r.Context(), name, s.catalog.LoadSample(name))
	if err != nil {
		std := apperrors.AsStandard(err)
		s.logger.Error("preview failed", map[string]interface{}{
			"requestId": RequestID(r.Context()),
			"template":  name,
			"error":     std.Error(),
		})
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(apperrors.HTTPStatus(std.Code))
		fmt.Fprintf(w, "<html><body><h2>Preview failed</h2><p>Template: %s</p><p>%s</p><p>Request ID: %s</p></body></html>",
			name, std.Message, RequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, html)
}

// handleGeneratePDF renders a document from the posted payload. The
// template name comes from the query string; preview=true skips identity
// and persistence.
func (s *Server) handleGeneratePDF(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("template"))
	mode := render.ModeFinal
	if r.URL.Query().Get("preview") == "true" {
		mode = render.ModePreview
	}

	payload := payloadFromContext(r.Context())

	result, err := s.pipeline.Render(r.Context(), name, payload, mode)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if result.DocumentID != "" {
		w.Header().Set("X-Document-ID", result.DocumentID)
	}
	s.writePDF(w, result.Bytes)
}

// handleVerify serves a previously persisted document by its id. Public:
// possession of the id is the credential.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "documentId")

	data, err := s.store.Retrieve(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writePDF(w, data)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	payload := payloadFromContext(r.Context())

	name, _ := payload["templateName"].(string)
	data, _ := payload["data"].(map[string]interface{})

	id, err := s.sessions.Create(r.Context(), name, data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"sessionId": id,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionId")

	sess, err := s.sessions.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"session": sess,
	})
}
