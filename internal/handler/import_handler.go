// Package handler provides HTTP request handlers for the playlist trivia service.
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tubeten/playlist-trivia-go/internal/models"
	"github.com/tubeten/playlist-trivia-go/internal/service"
	"github.com/tubeten/playlist-trivia-go/internal/validation"
	"github.com/tubeten/playlist-trivia-go/internal/youtube"
	"github.com/tubeten/playlist-trivia-go/pkg/logger"
)

// importSampleSize is how many entries the import response previews.
const importSampleSize = 6

// ImportHandler handles playlist import requests.
type ImportHandler struct {
	pools *service.PoolService
}

// NewImportHandler creates a new ImportHandler instance.
func NewImportHandler(pools *service.PoolService) *ImportHandler {
	return &ImportHandler{pools: pools}
}

// HandleImport resolves a playlist reference, imports its playable videos into
// the pool cache (or serves the cached pool), and returns a summary with a
// small preview sample.
func (h *ImportHandler) HandleImport(c *gin.Context) {
	var req models.ImportRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.Warn("invalid import payload",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
		)
		writeError(c, http.StatusBadRequest, models.ErrCodeInvalidPlaylist, "invalid request payload: "+err.Error())
		return
	}

	playlistID, ok := validation.ResolvePlaylistID(req.URL)
	if !ok {
		logger.Log.Warn("unresolvable playlist reference", zap.String("reference", req.URL))
		writeError(c, http.StatusBadRequest, models.ErrCodeInvalidPlaylist,
			"reference is neither a playlist ID nor a URL with a list parameter")
		return
	}

	force := req.Force || c.Query("force") == "1"

	result, err := h.pools.GetOrImport(c.Request.Context(), playlistID, force)
	if err != nil {
		h.handleImportError(c, playlistID, err)
		return
	}

	sample := result.Pool
	if len(sample) > importSampleSize {
		sample = sample[:importSampleSize]
	}

	c.JSON(http.StatusOK, models.ImportResponseDTO{
		PlaylistID: playlistID,
		Count:      len(result.Pool),
		Sample:     sample,
		Cached:     result.Cached,
	})
}

func (h *ImportHandler) handleImportError(c *gin.Context, playlistID string, err error) {
	var upstream *youtube.UpstreamError
	switch {
	case errors.Is(err, service.ErrMissingAPIKey):
		logger.Log.Error("import rejected, API key not configured", zap.String("playlistId", playlistID))
		writeError(c, http.StatusInternalServerError, models.ErrCodeMissingAPIKey, "")
	case errors.Is(err, service.ErrEmptyPlaylist):
		writeError(c, http.StatusNotFound, models.ErrCodeEmptyPlaylist, "")
	case errors.As(err, &upstream):
		logger.Log.Error("upstream fetch failed",
			zap.String("playlistId", playlistID),
			zap.String("stage", upstream.Stage),
			zap.Int("upstreamStatus", upstream.StatusCode),
			zap.Error(err),
		)
		writeError(c, http.StatusBadGateway, models.ErrCodeUpstream, upstream.Error())
	default:
		logger.Log.Error("import failed",
			zap.String("playlistId", playlistID),
			zap.Error(err),
		)
		writeError(c, http.StatusInternalServerError, models.ErrCodeServerError, "")
	}
}

func writeError(c *gin.Context, status int, code, message string) {
	c.JSON(status, models.ErrorResponse{
		Status:    status,
		Error:     code,
		Message:   message,
		Timestamp: time.Now(),
		Path:      c.Request.URL.Path,
	})
}
