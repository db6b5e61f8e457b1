package catalog

import (
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

func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.GET("/locations", h.GetLocations)
	public.GET("/locations/:id/spaces", h.GetSpaces)
	public.GET("/spaces/:id", h.GetSpaceByID)

	manager := protected.Group("", middleware.RequireRole(domain.RoleManager))
	{
		manager.POST("/locations", h.CreateLocation)
		manager.POST("/locations/:id/spaces", h.CreateSpace)
		manager.PATCH("/spaces/:id/closure", h.SetClosure)
		manager.PATCH("/spaces/:id/activation", h.SetActivation)
	}
}

/* ---------- LOCATION HANDLERS ---------- */

func (h *Handler) GetLocations(c *gin.Context) {
	list, err := h.service.ListLocations(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"locations": list})
}

func (h *Handler) CreateLocation(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	var req CreateLocationRequest
	if !bind(c, &req) {
		return
	}

	loc, err := h.service.CreateLocation(c.Request.Context(), actor, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"location": loc})
}

/* ---------- SPACE HANDLERS ---------- */

func (h *Handler) GetSpaces(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	list, err := h.service.ListSpaces(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"spaces": list})
}

func (h *Handler) GetSpaceByID(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	sp, err := h.service.GetSpace(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"space": sp})
}

func (h *Handler) CreateSpace(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}
	locationID, ok := paramID(c)
	if !ok {
		return
	}

	var req CreateSpaceRequest
	if !bind(c, &req) {
		return
	}

	sp, err := h.service.CreateSpace(c.Request.Context(), actor, locationID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"space": sp})
}

func (h *Handler) SetClosure(c *gin.Context) {
	var req ClosureRequest
	h.override(c, &req, func(actor domain.Actor, id int64) (*domain.Space, error) {
		return h.service.SetManuallyClosed(c.Request.Context(), actor, id, *req.Closed)
	})
}

func (h *Handler) SetActivation(c *gin.Context) {
	var req ActivationRequest
	h.override(c, &req, func(actor domain.Actor, id int64) (*domain.Space, error) {
		return h.service.SetActive(c.Request.Context(), actor, id, *req.Active)
	})
}

func (h *Handler) override(c *gin.Context, req any, apply func(domain.Actor, int64) (*domain.Space, error)) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}
	if !bind(c, req) {
		return
	}

	sp, err := apply(actor, id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"space": sp})
}

func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return false
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", errs)
		return false
	}
	return true
}

func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid ID")
		return 0, false
	}
	return id, true
}
