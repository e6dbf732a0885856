package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareCountsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c := New()

	router := gin.New()
	router.Use(c.Middleware())
	router.GET("/ping", func(ctx *gin.Context) { ctx.String(http.StatusOK, "pong") })
	router.GET("/metrics", gin.WrapH(c.Handler()))

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(c.httpRequestsTotal.WithLabelValues("GET", "/ping", "200")))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "http_requests_total"))
}

func TestDomainCounters(t *testing.T) {
	c := New()

	c.ObserveAI("recipe", time.Millisecond, nil)
	c.ObserveAI("recipe", time.Millisecond, errors.New("boom"))
	c.Fallback("recipe")
	c.SessionStarted()
	c.SessionEnded("completed")
	c.SetActiveSessions(4)
	c.Deductions("fixed", 2, 1)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.aiRequestsTotal.WithLabelValues("recipe", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.aiRequestsTotal.WithLabelValues("recipe", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.aiFallbacksTotal.WithLabelValues("recipe")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.sessionsStarted))
	assert.Equal(t, 4.0, testutil.ToFloat64(c.sessionsActive))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.deductionsApplied.WithLabelValues("fixed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.itemsExhausted))
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveAI("x", time.Second, nil)
		c.Fallback("x")
		c.SessionStarted()
		c.SessionEnded("x")
		c.SetActiveSessions(1)
		c.Deductions("x", 1, 1)
	})
}
