package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(_ context.Context) error {
	return f.err
}

func newHealthContext(path string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", path, nil)
	return c, w
}

func TestHealthHandler_Liveness(t *testing.T) {
	handler := NewHealthHandler(nil)

	c, w := newHealthContext("/health")
	handler.LivenessProbe(c)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestHealthHandler_Readiness(t *testing.T) {
	tests := []struct {
		name       string
		store      Pinger
		wantStatus int
	}{
		{"no store configured", nil, http.StatusOK},
		{"store reachable", &fakePinger{}, http.StatusOK},
		{"store unreachable", &fakePinger{err: errors.New("connection refused")}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(tt.store)

			c, w := newHealthContext("/health/ready")
			handler.ReadinessProbe(c)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}
