package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"wallspace/internal/pkg/metrics"
)

func TestRateLimiter_PerClient(t *testing.T) {
	rl := NewRateLimiter(60, 2)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if c.GetHeader("X-User") == "1" {
			c.Set("user_id", int64(1))
		}
		c.Next()
	})
	router.Use(rl.Middleware())
	router.POST("/reservations", func(c *gin.Context) { c.Status(http.StatusCreated) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/reservations", nil)
		req.Header.Set("X-User", "1")
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests}, codes)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/reservations", nil))
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRateLimiter_EvictsIdleVisitors(t *testing.T) {
	rl := NewRateLimiter(60, 1)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	rl.clockNow = func() time.Time { return now }

	rl.limiterFor("ip:1")
	assert.Len(t, rl.visitors, 1)

	now = now.Add(2 * visitorIdleTTL)
	rl.limiterFor("ip:2")
	assert.Len(t, rl.visitors, 1)
	assert.Contains(t, rl.visitors, "ip:2")
}

func TestErrorLogger_RecoversPanic(t *testing.T) {
	router := gin.New()
	router.Use(RequestID(), ErrorLogger())
	router.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestMetrics_UsesRouteTemplate(t *testing.T) {
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	router := gin.New()
	router.Use(Metrics(m), RequestLogger())
	router.GET("/spaces/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, p := range []string{"/spaces/1", "/spaces/2"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/spaces/:id", "200")))
}

func corsRouter(allowed ...string) *gin.Engine {
	r := gin.New()
	r.Use(CORS(allowed))
	r.GET("/api/v1/locations", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestCORS_AllowedOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := corsRouter("https://wallspace.example/", "")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/locations", nil)
	req.Header.Set("Origin", "https://wallspace.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://wallspace.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/locations", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_PreflightStopsChain(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := corsRouter("*")

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/locations", nil)
	req.Header.Set("Origin", "https://any.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://any.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")
}
