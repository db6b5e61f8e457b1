package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
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
	svc, _ := setupService(t)

	r := gin.New()
	v1 := r.Group("/api/v1")
	protected := v1.Group("")
	protected.Use(func(c *gin.Context) {
		if id := c.GetHeader("X-Test-User-ID"); id != "" {
			v, _ := strconv.ParseInt(id, 10, 64)
			c.Set("user_id", v)
			c.Set("role", c.GetHeader("X-Test-Role"))
		}
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(v1, protected)
	return r, svc
}

func send(r *gin.Engine, method, path, body string, actor domain.Actor) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if actor.UserID != 0 {
		req.Header.Set("X-Test-User-ID", strconv.FormatInt(actor.UserID, 10))
		req.Header.Set("X-Test-Role", string(actor.Role))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_ClosureFlow(t *testing.T) {
	r, svc := setupRouter(t)
	sp := seedSpace(t, svc)
	path := fmt.Sprintf("/api/v1/spaces/%d/closure", sp.ID)

	w := send(r, http.MethodPatch, path, `{}`, manager)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(r, http.MethodPatch, path, `{"closed":true}`, artist)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = send(r, http.MethodPatch, path, `{"closed":true}`, stranger)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = send(r, http.MethodPatch, path, `{"closed":true}`, manager)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = send(r, http.MethodGet, fmt.Sprintf("/api/v1/spaces/%d", sp.ID), "", domain.Actor{})
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data struct {
			Space domain.Space `json:"space"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Data.Space.ManuallyClosed)
}

func TestHandler_CreateSpaceValidation(t *testing.T) {
	r, svc := setupRouter(t)
	sp := seedSpace(t, svc)
	path := fmt.Sprintf("/api/v1/locations/%d/spaces", sp.LocationID)

	w := send(r, http.MethodPost, path, `{"name":"Stairs","max_capacity":0}`, manager)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(r, http.MethodPost, path, `{"name":"Stairs","max_capacity":3,"price_per_day":5000}`, manager)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = send(r, http.MethodGet, path, "", domain.Actor{})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Stairs")
}
