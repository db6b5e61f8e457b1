package availability

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"wallspace/internal/domain"
	"wallspace/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(public *gin.RouterGroup) {
	public.GET("/spaces/:id/availability", h.CheckAvailability)
	public.GET("/spaces/:id/calendar", h.Calendar)
	public.GET("/locations/:id/availability", h.LocationAvailability)
}

func (h *Handler) CheckAvailability(c *gin.Context) {
	id, rng, ok := parseQuery(c)
	if !ok {
		return
	}
	res, err := h.service.CheckAvailability(c.Request.Context(), id, rng)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) Calendar(c *gin.Context) {
	id, rng, ok := parseQuery(c)
	if !ok {
		return
	}
	days, err := h.service.Calendar(c.Request.Context(), id, rng)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"space_id": id, "days": days})
}

func (h *Handler) LocationAvailability(c *gin.Context) {
	id, rng, ok := parseQuery(c)
	if !ok {
		return
	}
	spaces, err := h.service.LocationAvailability(c.Request.Context(), id, rng)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"location_id": id, "spaces": spaces})
}

func parseQuery(c *gin.Context) (int64, domain.DateRange, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid ID")
		return 0, domain.DateRange{}, false
	}
	start, end := c.Query("start_date"), c.Query("end_date")
	if start == "" || end == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "start_date and end_date are required")
		return 0, domain.DateRange{}, false
	}
	rng, err := domain.ParseDateRange(start, end)
	if err != nil {
		response.FromError(c, err)
		return 0, domain.DateRange{}, false
	}
	return id, rng, true
}
