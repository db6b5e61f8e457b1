package reservation

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"wallspace/internal/domain"
	"wallspace/internal/middleware"
	"wallspace/internal/pkg/response"
	"wallspace/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the reservation endpoints on an authenticated group.
// bookingLimit guards the create endpoint; pass nil to skip it.
func (h *Handler) RegisterRoutes(protected *gin.RouterGroup, bookingLimit gin.HandlerFunc) {
	create := []gin.HandlerFunc{middleware.RequireRole(domain.RoleArtist)}
	if bookingLimit != nil {
		create = append(create, bookingLimit)
	}
	protected.POST("/reservations", append(create, h.CreateReservation)...)

	protected.GET("/reservations/:id", h.GetReservation)
	protected.GET("/users/me/reservations", h.ListMine)
	protected.GET("/spaces/:id/reservations", middleware.RequireRole(domain.RoleManager), h.ListForSpace)

	protected.PATCH("/reservations/:id/confirm", middleware.RequireRole(domain.RoleManager), h.Confirm)
	protected.PATCH("/reservations/:id/reject", middleware.RequireRole(domain.RoleManager), h.Reject)
	protected.PATCH("/reservations/:id/cancel", h.Cancel)

	protected.POST("/internal/reservations/sweep", middleware.AdminOnly(), h.Sweep)
}

func (h *Handler) CreateReservation(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", errs)
		return
	}

	rng, err := domain.ParseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		response.FromError(c, err)
		return
	}

	r, err := h.service.CreateReservation(c.Request.Context(), CreateReservationInput{
		SpaceID:  req.SpaceID,
		ArtistID: actor.UserID,
		Range:    rng,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"reservation": r})
}

func (h *Handler) GetReservation(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}

	r, err := h.service.GetReservation(c.Request.Context(), id, actor)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reservation": r})
}

func (h *Handler) ListMine(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}
	limit, offset := paging(c)

	list, err := h.service.ListMine(c.Request.Context(), actor, limit, offset)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reservations": list})
}

func (h *Handler) ListForSpace(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}
	spaceID, ok := paramID(c)
	if !ok {
		return
	}
	limit, offset := paging(c)

	list, err := h.service.ListForSpace(c.Request.Context(), spaceID, actor, limit, offset)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reservations": list})
}

func (h *Handler) Confirm(c *gin.Context) {
	h.transition(c, Confirm())
}

func (h *Handler) Reject(c *gin.Context) {
	var req RejectRequest
	// an empty body is a missing reason, not a malformed request
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Rejection reason is too long", errs)
		return
	}
	h.transition(c, Reject(req.Reason))
}

func (h *Handler) Cancel(c *gin.Context) {
	h.transition(c, Cancel())
}

func (h *Handler) transition(c *gin.Context, action Action) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}

	r, err := h.service.TransitionReservation(c.Request.Context(), id, action, actor)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reservation": r})
}

func (h *Handler) Sweep(c *gin.Context) {
	n, err := h.service.CompleteElapsed(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"completed": n})
}

func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid ID")
		return 0, false
	}
	return id, true
}

func paging(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	return limit, offset
}
