package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"courier/internal/domain"
	"courier/internal/middleware"
	"courier/internal/pkg/response"
)

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/officer/login", h.OfficerLogin)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	authGroup := protected.Group("/auth")
	{
		authGroup.GET("/me", h.GetMe)
		authGroup.PATCH("/me", h.UpdateContact)
		authGroup.POST("/me/password", h.ChangePassword)
	}
}

// Register godoc
// @Summary      Register a customer
// @Description  Creates a customer account and returns a JWT. The response carries the generated uniqueId used for login.
// @Tags         Auth
// @Param        request body RegisterRequest true "Customer details"
// @Success      201 {object} AuthResult
// @Failure      400 {object} map[string]interface{}
// @Failure      409 {object} map[string]interface{}
// @Router       /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	res, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			response.Error(c, http.StatusConflict, "EMAIL_EXISTS", "This email is already registered")
			return
		}
		response.DomainError(c, err)
		return
	}
	response.Created(c, res)
}

// Login godoc
// @Summary      Customer login
// @Tags         Auth
// @Param        request body LoginRequest true "uniqueId or email, and password"
// @Success      200 {object} AuthResult
// @Failure      401 {object} map[string]interface{}
// @Failure      403 {object} map[string]interface{}
// @Router       /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	h.login(c, domain.RoleCustomer)
}

// OfficerLogin godoc
// @Summary      Officer login
// @Tags         Auth
// @Param        request body LoginRequest true "uniqueId or email, and password"
// @Success      200 {object} AuthResult
// @Failure      401 {object} map[string]interface{}
// @Failure      403 {object} map[string]interface{}
// @Router       /auth/officer/login [post]
func (h *Handler) OfficerLogin(c *gin.Context) {
	h.login(c, domain.RoleOfficer)
}

func (h *Handler) login(c *gin.Context, role domain.Role) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	res, err := h.service.Login(c.Request.Context(), req, role)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Login or password is incorrect")
		case errors.Is(err, ErrRoleMismatch):
			if role == domain.RoleOfficer {
				response.Error(c, http.StatusForbidden, "FORBIDDEN", "Officer login required; use the customer login")
			} else {
				response.Error(c, http.StatusForbidden, "FORBIDDEN", "Customer login required; use the officer login")
			}
		default:
			response.DomainError(c, err)
		}
		return
	}
	response.OK(c, res)
}

// GetMe godoc
// @Summary      Current account
// @Tags         Auth
// @Security     BearerAuth
// @Success      200 {object} map[string]interface{}
// @Router       /auth/me [get]
func (h *Handler) GetMe(c *gin.Context) {
	actor, ok := middleware.RequireActor(c)
	if !ok {
		return
	}

	customer, err := h.service.Me(c.Request.Context(), actor)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.OK(c, gin.H{"customer": customer})
}

// UpdateContact godoc
// @Summary      Update contact details
// @Description  Only countryCode, mobileNumber, address and getUpdatesVia can be changed.
// @Tags         Auth
// @Security     BearerAuth
// @Param        request body UpdateContactRequest true "Fields to change"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} map[string]interface{}
// @Router       /auth/me [patch]
func (h *Handler) UpdateContact(c *gin.Context) {
	actor, ok := middleware.RequireActor(c)
	if !ok {
		return
	}

	var req UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	customer, err := h.service.UpdateContact(c.Request.Context(), actor, req)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.OK(c, gin.H{"customer": customer})
}

// ChangePassword godoc
// @Summary      Change password
// @Tags         Auth
// @Security     BearerAuth
// @Param        request body ChangePasswordRequest true "Current and new password"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} map[string]interface{}
// @Router       /auth/me/password [post]
func (h *Handler) ChangePassword(c *gin.Context) {
	actor, ok := middleware.RequireActor(c)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), actor, req); err != nil {
		if errors.Is(err, ErrWrongPassword) {
			response.Error(c, http.StatusBadRequest, "WRONG_PASSWORD", "Current password is incorrect")
			return
		}
		response.DomainError(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Password changed"})
}
