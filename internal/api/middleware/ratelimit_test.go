package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/reserve", RateLimit(1, 2), func(ctx *gin.Context) {
		ctx.Status(http.StatusOK)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/reserve", nil)
		req.RemoteAddr = "203.0.113.10:1234"
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	// Burst of 2, so the third immediate request is throttled.
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// Another client has its own bucket.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/reserve", nil)
	req.RemoteAddr = "203.0.113.99:1234"
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
