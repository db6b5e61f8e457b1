package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallspace/internal/domain"
)

func setupRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := NewService(setupRepo(t), nil, nil)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if id := c.GetHeader("X-Test-User-ID"); id != "" {
			v, _ := strconv.ParseInt(id, 10, 64)
			c.Set("user_id", v)
		}
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r, svc
}

func TestHandler_ListAndMarkRead(t *testing.T) {
	r, svc := setupRouter(t)
	require.NoError(t, svc.Notify(context.Background(), 42, domain.NotifReservationConfirmed, map[string]any{"reservation_id": 3}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications", nil)
	req.Header.Set("X-Test-User-ID", "42")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Notifications []domain.Notification `json:"notifications"`
			UnreadCount   int64                 `json:"unread_count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.Len(t, body.Data.Notifications, 1)
	assert.Equal(t, int64(1), body.Data.UnreadCount)

	id := strconv.FormatInt(body.Data.Notifications[0].ID, 10)
	req = httptest.NewRequest(http.MethodPatch, "/api/v1/notifications/"+id+"/read", nil)
	req.Header.Set("X-Test-User-ID", "42")
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	req = httptest.NewRequest(http.MethodPatch, "/api/v1/notifications/"+id+"/read", nil)
	req.Header.Set("X-Test-User-ID", "7")
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandler_Unauthorized(t *testing.T) {
	r, _ := setupRouter(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/notifications"},
		{http.MethodPatch, "/api/v1/notifications/1/read"},
		{http.MethodPatch, "/api/v1/notifications/read-all"},
	} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code, tc.path)
	}
}
