package feedback

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"courier/internal/domain"
	"courier/internal/middleware"
	"courier/internal/pkg/response"
)

const defaultPageSize = 10

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/feedback", h.Create)
}

// RegisterOfficerRoutes expects rg to be guarded by OfficerOnly.
func (h *Handler) RegisterOfficerRoutes(rg *gin.RouterGroup) {
	rg.GET("/feedback", h.List)
}

// Create godoc
// @Summary      Leave feedback for a booking
// @Description  A customer can rate each of their bookings once.
// @Tags         Feedback
// @Security     BearerAuth
// @Param        request body CreateFeedbackRequest true "Rating and description"
// @Success      201 {object} map[string]interface{}
// @Failure      400 {object} map[string]interface{}
// @Failure      403 {object} map[string]interface{}
// @Failure      409 {object} map[string]interface{}
// @Router       /feedback [post]
func (h *Handler) Create(c *gin.Context) {
	actor, ok := middleware.RequireActor(c)
	if !ok {
		return
	}

	var req CreateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	fb, err := h.svc.AddFeedback(c.Request.Context(), actor, req)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Created(c, gin.H{"feedback": fb})
}

// List godoc
// @Summary      List customer feedback
// @Tags         Feedback
// @Security     BearerAuth
// @Param        page     query int false "0-based page"
// @Param        pageSize query int false "Page size (default 10)"
// @Success      200 {object} map[string]interface{}
// @Router       /officer/feedback [get]
func (h *Handler) List(c *gin.Context) {
	actor, ok := middleware.RequireActor(c)
	if !ok {
		return
	}

	q := domain.PageRequest{PageSize: defaultPageSize}
	var err error
	if v := c.Query("page"); v != "" {
		if q.Page, err = strconv.Atoi(v); err != nil {
			response.DomainError(c, domain.NewValidationError("page", "page must be an integer"))
			return
		}
	}
	if v := c.Query("pageSize"); v != "" {
		if q.PageSize, err = strconv.Atoi(v); err != nil {
			response.DomainError(c, domain.NewValidationError("pageSize", "pageSize must be an integer"))
			return
		}
	}

	page, err := h.svc.ListFeedback(c.Request.Context(), actor, q)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.OK(c, page)
}
