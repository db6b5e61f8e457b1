package availability

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"wallspace/internal/domain"
)

func setupRouter(store Reader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(newTestService(store)).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHandler_CheckAvailability(t *testing.T) {
	store := new(MockReader)
	sp := openSpace(1)
	sp.ManuallyClosed = true
	store.On("GetSpace", mock.Anything, int64(1), false).Return(&sp, nil)
	store.On("ListActiveReservationsForSpace", mock.Anything, int64(1), mock.Anything).Return([]domain.Reservation{}, nil)
	r := setupRouter(store)

	w := get(r, "/api/v1/spaces/1/availability?start_date=2025-03-01&end_date=2025-03-02")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Success bool   `json:"success"`
		Data    Result `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.False(t, body.Data.Available)
	assert.Equal(t, domain.ReasonManuallyClosed, body.Data.Reason)
}

func TestHandler_BadInput(t *testing.T) {
	r := setupRouter(new(MockReader))

	cases := map[string]struct {
		path string
		code string
	}{
		"bad id":        {"/api/v1/spaces/x/availability?start_date=2025-03-01&end_date=2025-03-02", "INVALID_ID"},
		"missing dates": {"/api/v1/spaces/1/availability", "VALIDATION_ERROR"},
		"bad date":      {"/api/v1/spaces/1/calendar?start_date=2025-13-01&end_date=2025-03-02", "INVALID_RANGE"},
		"reversed":      {"/api/v1/locations/1/availability?start_date=2025-03-05&end_date=2025-03-02", "INVALID_RANGE"},
	}
	for name, tc := range cases {
		w := get(r, tc.path)
		assert.Equal(t, http.StatusBadRequest, w.Code, name)
		assert.Contains(t, w.Body.String(), fmt.Sprintf("%q", tc.code), name)
	}
}

func TestHandler_LocationNotFound(t *testing.T) {
	store := new(MockReader)
	store.On("GetLocation", mock.Anything, int64(3)).Return(nil, fmt.Errorf("location 3: %w", domain.ErrNotFound))
	r := setupRouter(store)

	w := get(r, "/api/v1/locations/3/availability?start_date=2025-03-01&end_date=2025-03-02")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
