// internal/render/pipeline.go
package render

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "docgen-service/internal/common/errors"
	"docgen-service/internal/common/logger"
	"docgen-service/internal/common/metrics"
	"docgen-service/internal/document"
	"docgen-service/internal/template"
	"docgen-service/internal/validation"

	"github.com/aymerick/raymond"
)

// Mode selects between an ephemeral preview and a persisted document.
type Mode string

const (
	ModePreview Mode = "preview"
	ModeFinal   Mode = "final"
)

// Reserved payload keys injected in final mode. Verification fields always
// take precedence over caller-supplied keys of the same name.
const (
	keyDocumentID = "documentId"
	keyVerifyURL  = "verifyUrl"
	keyQRCode     = "qrCode"
)

// Result carries the rendered document. DocumentID is empty in preview mode.
type Result struct {
	Bytes      []byte
	DocumentID string
}

// Pipeline renders a named template against a payload: existence check,
// optional schema validation, final-mode identity and verification
// artifacts, Handlebars merge, PDF conversion, final-mode persistence.
type Pipeline struct {
	catalog  *template.Catalog
	renderer Renderer
	store    document.Store
	baseURL  string
	logger   logger.Logger
}

func NewPipeline(catalog *template.Catalog, renderer Renderer, store document.Store, baseURL string, log logger.Logger) *Pipeline {
	return &Pipeline{
		catalog:  catalog,
		renderer: renderer,
		store:    store,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		logger:   log,
	}
}

func (p *Pipeline) Render(ctx context.Context, templateName string, payload map[string]interface{}, mode Mode) (*Result, error) {
	start := time.Now()

	if strings.TrimSpace(templateName) == "" {
		return nil, apperrors.NewInvalidRequestError("the template parameter is required")
	}
	if !p.catalog.Exists(templateName) {
		return nil, apperrors.NewTemplateNotFoundError(templateName)
	}

	if payload == nil {
		payload = map[string]interface{}{}
	}

	if schemaJSON, ok := p.catalog.LoadSchema(templateName); ok {
		if err := validation.ValidatePayload(schemaJSON, payload); err != nil {
			return nil, err
		}
	}

	merged := make(map[string]interface{}, len(payload)+3)
	for k, v := range payload {
		merged[k] = v
	}

	result := &Result{}
	if mode == ModeFinal {
		// Identity is derived from the caller-supplied payload before any
		// augmentation, so identical inputs address the same document.
		id, err := document.Derive(payload)
		if err != nil {
			return nil, apperrors.NewInvalidRequestError(fmt.Sprintf("payload is not serializable: %v", err))
		}

		verifyURL := fmt.Sprintf("%s/api/verify/%s", p.baseURL, id)
		qr, err := qrDataURL(verifyURL)
		if err != nil {
			return nil, apperrors.NewRenderError(err)
		}

		merged[keyDocumentID] = id
		merged[keyVerifyURL] = verifyURL
		merged[keyQRCode] = qr
		result.DocumentID = id
	}

	html, err := p.merge(templateName, merged)
	if err != nil {
		metrics.RenderFailures.WithLabelValues(templateName, string(apperrors.AsStandard(err).Code)).Inc()
		return nil, err
	}

	metrics.RendersActive.Inc()
	pdf, err := p.renderer.Render(ctx, html)
	metrics.RendersActive.Dec()
	if err != nil {
		metrics.RenderFailures.WithLabelValues(templateName, string(apperrors.AsStandard(err).Code)).Inc()
		return nil, err
	}
	result.Bytes = pdf

	if mode == ModeFinal {
		if err := p.store.Save(ctx, result.DocumentID, pdf); err != nil {
			return nil, apperrors.NewStoreWriteFailedError(err)
		}
	}

	duration := time.Since(start)
	metrics.DocumentsGenerated.WithLabelValues(templateName, string(mode)).Inc()
	metrics.RenderDuration.WithLabelValues(templateName).Observe(duration.Seconds())

	p.logger.Info("document generated", map[string]interface{}{
		"template":   templateName,
		"mode":       string(mode),
		"documentId": result.DocumentID,
		"durationMs": duration.Milliseconds(),
		"bytes":      len(pdf),
	})

	return result, nil
}

// RenderHTML merges the template with the payload and returns markup
// without PDF conversion, identity, or persistence. Serves the preview
// endpoint.
func (p *Pipeline) RenderHTML(ctx context.Context, templateName string, payload map[string]interface{}) (string, error) {
	if strings.TrimSpace(templateName) == "" {
		return "", apperrors.NewInvalidRequestError("the template parameter is required")
	}
	if !p.catalog.Exists(templateName) {
		return "", apperrors.NewTemplateNotFoundError(templateName)
	}
	if payload == nil {
		payload = map[string]interface{}{}
	}
	return p.merge(templateName, payload)
}

// merge loads the current template source on every call, so edits take
// effect without a restart, and resolves it against the data.
func (p *Pipeline) merge(templateName string, data map[string]interface{}) (string, error) {
	src, err := p.catalog.LoadSource(templateName)
	if err != nil {
		return "", err
	}

	tpl, err := raymond.Parse(src)
	if err != nil {
		return "", apperrors.NewRenderError(fmt.Errorf("template parse failed: %w", err))
	}

	html, err := tpl.Exec(data)
	if err != nil {
		return "", apperrors.NewRenderError(fmt.Errorf("template merge failed: %w", err))
	}

	return html, nil
}
