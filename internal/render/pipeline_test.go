// internal/render/pipeline_test.go
package render

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	apperrors "docgen-service/internal/common/errors"
	"docgen-service/internal/common/logger"
	"docgen-service/internal/document"
	"docgen-service/internal/template"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRenderer avoids a real browser: it echoes the merged markup into the
// produced bytes and can simulate latency or failure.
type stubRenderer struct {
	delay  time.Duration
	err    error
	output []byte
}

func (s *stubRenderer) Render(ctx context.Context, html string) ([]byte, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, apperrors.NewRenderError(ctx.Err())
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	if s.output != nil {
		return s.output, nil
	}
	return []byte("%PDF " + html), nil
}

// memStore counts writes so tests can assert the store stays untouched in
// preview mode.
type memStore struct {
	mu    sync.Mutex
	docs  map[string][]byte
	saves int
}

func newMemStore() *memStore {
	return &memStore{docs: map[string][]byte{}}
}

func (m *memStore) Save(ctx context.Context, id string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[id] = append([]byte(nil), data...)
	m.saves++
	return nil
}

func (m *memStore) Retrieve(ctx context.Context, id string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.docs[id]
	if !ok {
		return nil, apperrors.NewDocumentNotFoundError(id)
	}
	return data, nil
}

func setupPipeline(t *testing.T, renderer Renderer) (*Pipeline, *memStore, string) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "invoice.hbs"),
		[]byte("<h1>{{customer}}</h1><p>{{documentId}}</p>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "letter.hbs"),
		[]byte("<p>Dear {{name}}</p>"), 0o644))

	catalog := template.NewCatalog(dir, logger.NewTestLogger(t))
	store := newMemStore()
	pipeline := NewPipeline(catalog, renderer, store, "http://localhost:3000", logger.NewTestLogger(t))
	return pipeline, store, dir
}

func TestRender_EmptyTemplateName(t *testing.T) {
	pipeline, _, _ := setupPipeline(t, &stubRenderer{})

	_, err := pipeline.Render(context.Background(), "  ", map[string]interface{}{}, ModeFinal)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidRequest))
}

func TestRender_UnknownTemplate(t *testing.T) {
	pipeline, _, _ := setupPipeline(t, &stubRenderer{})

	_, err := pipeline.Render(context.Background(), "missing", map[string]interface{}{}, ModeFinal)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeTemplateNotFound))
}

func TestRender_PreviewSkipsIdentityAndPersistence(t *testing.T) {
	pipeline, store, _ := setupPipeline(t, &stubRenderer{})

	result, err := pipeline.Render(context.Background(), "invoice",
		map[string]interface{}{"customer": "ACME"}, ModePreview)
	require.NoError(t, err)

	assert.Empty(t, result.DocumentID)
	assert.NotEmpty(t, result.Bytes)
	assert.Zero(t, store.saves)
}

func TestRender_FinalRoundTrip(t *testing.T) {
	pipeline, store, _ := setupPipeline(t, &stubRenderer{})
	ctx := context.Background()

	result, err := pipeline.Render(ctx, "invoice",
		map[string]interface{}{"customer": "ACME"}, ModeFinal)
	require.NoError(t, err)
	require.NotEmpty(t, result.DocumentID)
	assert.Len(t, result.DocumentID, 12)

	stored, err := store.Retrieve(ctx, result.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, result.Bytes, stored)
}

func TestRender_FinalInjectsVerificationFields(t *testing.T) {
	pipeline, _, _ := setupPipeline(t, &stubRenderer{})

	result, err := pipeline.Render(context.Background(), "invoice",
		map[string]interface{}{"customer": "ACME"}, ModeFinal)
	require.NoError(t, err)

	// The template prints {{documentId}}; the stub echoes markup into the
	// output bytes, so the injected id must appear there.
	assert.Contains(t, string(result.Bytes), result.DocumentID)
}

func TestRender_IdentityIsStableAcrossReRenders(t *testing.T) {
	pipeline, store, dir := setupPipeline(t, &stubRenderer{})
	ctx := context.Background()
	payload := map[string]interface{}{"customer": "ACME"}

	first, err := pipeline.Render(ctx, "invoice", payload, ModeFinal)
	require.NoError(t, err)

	// Edit the template: same payload, same id, new bytes at that id.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "invoice.hbs"),
		[]byte("<h2>{{customer}}</h2>"), 0o644))

	second, err := pipeline.Render(ctx, "invoice", payload, ModeFinal)
	require.NoError(t, err)

	assert.Equal(t, first.DocumentID, second.DocumentID)
	assert.NotEqual(t, first.Bytes, second.Bytes)

	stored, err := store.Retrieve(ctx, first.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, second.Bytes, stored)
}

func TestRender_SchemaValidation(t *testing.T) {
	pipeline, _, dir := setupPipeline(t, &stubRenderer{})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "invoice.schema.json"),
		[]byte(`{"type":"object","required":["customer"]}`), 0o644))

	_, err := pipeline.Render(context.Background(), "invoice",
		map[string]interface{}{"other": 1}, ModeFinal)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodePayloadValidationFailed))

	_, err = pipeline.Render(context.Background(), "invoice",
		map[string]interface{}{"customer": "ACME"}, ModeFinal)
	assert.NoError(t, err)
}

func TestRender_MergeFailurePropagatesAsRenderError(t *testing.T) {
	pipeline, _, dir := setupPipeline(t, &stubRenderer{})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "invoice.hbs"),
		[]byte("{{#each items}}{{name}}"), 0o644))

	_, err := pipeline.Render(context.Background(), "invoice",
		map[string]interface{}{"items": []interface{}{}}, ModePreview)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeRenderFailed))
}

func TestRender_RendererUnavailablePassesThrough(t *testing.T) {
	pipeline, _, _ := setupPipeline(t, &stubRenderer{
		err: apperrors.NewRendererUnavailableError(assert.AnError),
	})

	_, err := pipeline.Render(context.Background(), "invoice",
		map[string]interface{}{}, ModePreview)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeRendererUnavailable))
	assert.False(t, apperrors.IsCode(err, apperrors.ErrCodeTemplateNotFound))
}

func TestRender_ConcurrentRendersAreIndependent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fast.hbs"), []byte("fast {{v}}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "slow.hbs"), []byte("slow {{v}}"), 0o644))

	catalog := template.NewCatalog(dir, logger.NewNoOpLogger())
	store := newMemStore()

	fast := NewPipeline(catalog, &stubRenderer{}, store, "http://localhost:3000", logger.NewNoOpLogger())
	slow := NewPipeline(catalog, &stubRenderer{delay: time.Hour}, store, "http://localhost:3000", logger.NewNoOpLogger())

	var wg sync.WaitGroup
	var fastResult *Result
	var fastErr, slowErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		fastResult, fastErr = fast.Render(context.Background(), "fast",
			map[string]interface{}{"v": "ok"}, ModeFinal)
	}()
	go func() {
		defer wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		_, slowErr = slow.Render(ctx, "slow", map[string]interface{}{"v": "nope"}, ModeFinal)
	}()
	wg.Wait()

	require.NoError(t, fastErr)
	assert.Contains(t, string(fastResult.Bytes), "fast ok")

	require.Error(t, slowErr)
	assert.True(t, apperrors.IsCode(slowErr, apperrors.ErrCodeRenderFailed))
	assert.Len(t, store.docs, 1) // only the fast render persisted
}

func TestRenderHTML_NoPersistence(t *testing.T) {
	pipeline, store, _ := setupPipeline(t, &stubRenderer{})

	html, err := pipeline.RenderHTML(context.Background(), "letter",
		map[string]interface{}{"name": "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "<p>Dear Ada</p>", html)
	assert.Zero(t, store.saves)
}

func TestRenderHTML_UnknownTemplate(t *testing.T) {
	pipeline, _, _ := setupPipeline(t, &stubRenderer{})

	_, err := pipeline.RenderHTML(context.Background(), "missing", nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeTemplateNotFound))
}

func TestRetrieve_UsesStoreDirectly(t *testing.T) {
	store := document.NewFSStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "abc", []byte("bytes")))
	got, err := store.Retrieve(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("bytes"), got)
}
