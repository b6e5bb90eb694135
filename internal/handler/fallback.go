package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tubeten/playlist-trivia-go/internal/models"
)

// NotFound is the router fallback for unknown paths.
func NotFound(c *gin.Context) {
	writeError(c, http.StatusNotFound, models.ErrCodeNotFound, "")
}

// MethodNotAllowed is the router fallback for known paths with the wrong verb.
func MethodNotAllowed(c *gin.Context) {
	writeError(c, http.StatusMethodNotAllowed, models.ErrCodeMethodNotAllowed, "")
}
