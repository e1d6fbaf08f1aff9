package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/organic-api/internal/models"
	"github.com/noah-isme/organic-api/pkg/response"
)

type currentUserService interface {
	Get(ctx context.Context, claims *models.JWTClaims) (*models.CurrentUser, error)
	Emails(ctx context.Context, claims *models.JWTClaims) ([]models.UserEmail, error)
	UpdateLastOnline(ctx context.Context, claims *models.JWTClaims) (*models.LastOnline, error)
}

// CurrentUserHandler serves the authenticated principal's own profile.
type CurrentUserHandler struct {
	service currentUserService
}

// NewCurrentUserHandler builds a new handler.
func NewCurrentUserHandler(service currentUserService) *CurrentUserHandler {
	return &CurrentUserHandler{service: service}
}

// Get godoc
// @Summary Current user
// @Tags CurrentUser
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.CurrentUser
// @Failure 403 {object} errors.Error
// @Router /currentUser [get]
func (h *CurrentUserHandler) Get(c *gin.Context) {
	current, err := h.service.Get(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, current)
}

// Emails godoc
// @Summary Current user's email addresses
// @Tags CurrentUser
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.UserEmail
// @Router /currentUser/emails [get]
func (h *CurrentUserHandler) Emails(c *gin.Context) {
	emails, err := h.service.Emails(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, emails)
}

// UpdateLastOnline godoc
// @Summary Mark the current user as online
// @Tags CurrentUser
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.LastOnline
// @Router /currentUser/last-online [post]
func (h *CurrentUserHandler) UpdateLastOnline(c *gin.Context) {
	result, err := h.service.UpdateLastOnline(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}
