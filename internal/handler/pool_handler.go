package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tubeten/playlist-trivia-go/internal/models"
	"github.com/tubeten/playlist-trivia-go/internal/service"
	"github.com/tubeten/playlist-trivia-go/pkg/logger"
)

// PoolHandler serves stored pools and randomized play samples.
type PoolHandler struct {
	pools        *service.PoolService
	defaultCount int
	maxCount     int
}

// NewPoolHandler creates a new PoolHandler instance.
func NewPoolHandler(pools *service.PoolService, defaultCount, maxCount int) *PoolHandler {
	if defaultCount <= 0 {
		defaultCount = 10
	}
	if maxCount <= 0 {
		maxCount = service.DefaultMaxSampleCount
	}
	return &PoolHandler{
		pools:        pools,
		defaultCount: defaultCount,
		maxCount:     maxCount,
	}
}

// HandleGetPool returns the entire stored pool for a playlist.
func (h *PoolHandler) HandleGetPool(c *gin.Context) {
	playlistID := c.Param("playlistId")

	pool, err := h.pools.GetFull(c.Request.Context(), playlistID)
	if err != nil {
		h.handleReadError(c, playlistID, err)
		return
	}

	c.JSON(http.StatusOK, models.PoolResponseDTO{
		PlaylistID: playlistID,
		Count:      len(pool),
		Items:      pool,
	})
}

// HandlePlay returns a random sample of the stored pool for one gameplay
// session. A pool that exists but is empty yields an empty item list, not a
// 404.
func (h *PoolHandler) HandlePlay(c *gin.Context) {
	playlistID := c.Param("playlistId")

	pool, err := h.pools.GetFull(c.Request.Context(), playlistID)
	if err != nil {
		h.handleReadError(c, playlistID, err)
		return
	}

	items := h.pools.Sample(pool, h.parseCount(c.Query("count")))

	c.JSON(http.StatusOK, models.PoolResponseDTO{
		PlaylistID: playlistID,
		Count:      len(items),
		Items:      items,
	})
}

func (h *PoolHandler) handleReadError(c *gin.Context, playlistID string, err error) {
	if errors.Is(err, service.ErrPoolNotFound) {
		writeError(c, http.StatusNotFound, models.ErrCodeNotFound, "")
		return
	}
	logger.Log.Error("pool read failed",
		zap.String("playlistId", playlistID),
		zap.Error(err),
	)
	writeError(c, http.StatusInternalServerError, models.ErrCodeServerError, "")
}

// parseCount clamps the requested sample size to [1, maxCount]; a missing or
// malformed value falls back to the default.
func (h *PoolHandler) parseCount(raw string) int {
	if raw == "" {
		return h.defaultCount
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return h.defaultCount
	}
	if n < 1 {
		return 1
	}
	if n > h.maxCount {
		return h.maxCount
	}
	return n
}
