package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tubeten/playlist-trivia-go/internal/cache"
	"github.com/tubeten/playlist-trivia-go/internal/models"
	"github.com/tubeten/playlist-trivia-go/internal/service"
	"github.com/tubeten/playlist-trivia-go/internal/youtube"
	"github.com/tubeten/playlist-trivia-go/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	// Initialize logger to prevent nil pointer errors
	_ = logger.Init("error", "")
}

// fakeCatalog serves a fixed playlist for handler tests.
type fakeCatalog struct {
	items     []models.RawItem
	details   map[string]models.VideoDetail
	listErr   error
	listCalls int
}

func (f *fakeCatalog) FetchPlaylistItems(_ context.Context, _ string) ([]models.RawItem, int, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	return f.items, 1, nil
}

func (f *fakeCatalog) FetchVideoDetails(_ context.Context, videoIDs []string) (map[string]models.VideoDetail, int, error) {
	result := make(map[string]models.VideoDetail, len(videoIDs))
	for _, id := range videoIDs {
		if detail, ok := f.details[id]; ok {
			result[id] = detail
		}
	}
	return result, 1, nil
}

func playableCatalog(ids ...string) *fakeCatalog {
	catalog := &fakeCatalog{details: make(map[string]models.VideoDetail, len(ids))}
	for _, id := range ids {
		catalog.items = append(catalog.items, models.RawItem{VideoID: id, Title: "Title " + id})
		catalog.details[id] = models.VideoDetail{
			DurationSec:   120,
			Embeddable:    true,
			PrivacyStatus: "public",
			UploadStatus:  "processed",
		}
	}
	return catalog
}

func newImportContext(t *testing.T, body string, query string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/import"+query, bytes.NewReader([]byte(body)))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal error response: %v", err)
	}
	return resp
}

func TestNewImportHandler(t *testing.T) {
	if NewImportHandler(nil) == nil {
		t.Fatal("NewImportHandler() returned nil")
	}
}

func TestImportHandler_InvalidJSON(t *testing.T) {
	handler := NewImportHandler(service.NewPoolService(nil, cache.NewMemoryStore(), service.Options{}))

	c, w := newImportContext(t, `{invalid json}`, "")
	handler.HandleImport(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if resp := decodeError(t, w); resp.Error != models.ErrCodeInvalidPlaylist {
		t.Errorf("error code = %q, want %q", resp.Error, models.ErrCodeInvalidPlaylist)
	}
}

func TestImportHandler_UnresolvableReference(t *testing.T) {
	handler := NewImportHandler(service.NewPoolService(nil, cache.NewMemoryStore(), service.Options{}))

	c, w := newImportContext(t, `{"url":"https://www.youtube.com/watch?v=dQw4w9WgXcQ"}`, "")
	handler.HandleImport(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if resp := decodeError(t, w); resp.Error != models.ErrCodeInvalidPlaylist {
		t.Errorf("error code = %q, want %q", resp.Error, models.ErrCodeInvalidPlaylist)
	}
}

func TestImportHandler_MissingAPIKey(t *testing.T) {
	handler := NewImportHandler(service.NewPoolService(nil, cache.NewMemoryStore(), service.Options{}))

	c, w := newImportContext(t, `{"url":"PLdU2XZFKGE8yDtbCb6PdXL"}`, "")
	handler.HandleImport(c)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	if resp := decodeError(t, w); resp.Error != models.ErrCodeMissingAPIKey {
		t.Errorf("error code = %q, want %q", resp.Error, models.ErrCodeMissingAPIKey)
	}
}

func TestImportHandler_Success(t *testing.T) {
	catalog := playableCatalog("vid-a", "vid-b", "vid-c", "vid-d", "vid-e", "vid-f", "vid-g", "vid-h")
	pools := service.NewPoolService(catalog, cache.NewMemoryStore(), service.Options{})
	handler := NewImportHandler(pools)

	c, w := newImportContext(t, `{"url":"https://www.youtube.com/playlist?list=PLdU2XZFKGE8y"}`, "")
	handler.HandleImport(c)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp models.ImportResponseDTO
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if resp.PlaylistID != "PLdU2XZFKGE8y" {
		t.Errorf("playlistId = %q, want PLdU2XZFKGE8y", resp.PlaylistID)
	}
	if resp.Count != 8 {
		t.Errorf("count = %d, want 8", resp.Count)
	}
	if len(resp.Sample) != 6 {
		t.Errorf("sample size = %d, want the first 6 entries", len(resp.Sample))
	}
	if resp.Cached {
		t.Error("cached = true on first import, want false")
	}
}

func TestImportHandler_SecondCallServedFromCache(t *testing.T) {
	catalog := playableCatalog("vid-a", "vid-b")
	pools := service.NewPoolService(catalog, cache.NewMemoryStore(), service.Options{})
	handler := NewImportHandler(pools)

	c, _ := newImportContext(t, `{"url":"PLdU2XZFKGE8y"}`, "")
	handler.HandleImport(c)

	c, w := newImportContext(t, `{"url":"PLdU2XZFKGE8y"}`, "")
	handler.HandleImport(c)

	var resp models.ImportResponseDTO
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if !resp.Cached {
		t.Error("cached = false on repeat import, want true")
	}
	if catalog.listCalls != 1 {
		t.Errorf("upstream called %d times, want 1", catalog.listCalls)
	}
}

func TestImportHandler_ForceQueryBypassesCache(t *testing.T) {
	catalog := playableCatalog("vid-a")
	pools := service.NewPoolService(catalog, cache.NewMemoryStore(), service.Options{})
	handler := NewImportHandler(pools)

	c, _ := newImportContext(t, `{"url":"PLdU2XZFKGE8y"}`, "")
	handler.HandleImport(c)

	c, w := newImportContext(t, `{"url":"PLdU2XZFKGE8y"}`, "?force=1")
	handler.HandleImport(c)

	var resp models.ImportResponseDTO
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Cached {
		t.Error("cached = true on forced import, want false")
	}
	if catalog.listCalls != 2 {
		t.Errorf("upstream called %d times, want 2", catalog.listCalls)
	}
}

func TestImportHandler_EmptyPlaylist(t *testing.T) {
	pools := service.NewPoolService(&fakeCatalog{}, cache.NewMemoryStore(), service.Options{})
	handler := NewImportHandler(pools)

	c, w := newImportContext(t, `{"url":"PLdU2XZFKGE8y"}`, "")
	handler.HandleImport(c)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
	if resp := decodeError(t, w); resp.Error != models.ErrCodeEmptyPlaylist {
		t.Errorf("error code = %q, want %q", resp.Error, models.ErrCodeEmptyPlaylist)
	}
}

func TestImportHandler_UpstreamError(t *testing.T) {
	catalog := &fakeCatalog{
		listErr: &youtube.UpstreamError{Stage: youtube.StagePlaylistItems, StatusCode: http.StatusForbidden},
	}
	pools := service.NewPoolService(catalog, cache.NewMemoryStore(), service.Options{})
	handler := NewImportHandler(pools)

	c, w := newImportContext(t, `{"url":"PLdU2XZFKGE8y"}`, "")
	handler.HandleImport(c)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadGateway)
	}
	if resp := decodeError(t, w); resp.Error != models.ErrCodeUpstream {
		t.Errorf("error code = %q, want %q", resp.Error, models.ErrCodeUpstream)
	}
}
