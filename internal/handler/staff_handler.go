package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/organic-api/internal/models"
	appErrors "github.com/noah-isme/organic-api/pkg/errors"
	"github.com/noah-isme/organic-api/pkg/response"
)

type staffService interface {
	List(ctx context.Context, filter models.StaffFilter) ([]models.Staff, error)
	Get(ctx context.Context, id int64) (*models.Staff, error)
	Create(ctx context.Context, req models.CreateStaffRequest, meta models.RequestMeta) (*models.Staff, error)
	Update(ctx context.Context, req models.UpdateStaffRequest, meta models.RequestMeta) (*models.Staff, error)
	Delete(ctx context.Context, id int64, meta models.RequestMeta) (*models.Staff, error)
}

// StaffHandler exposes staff administration endpoints. Routes are admin-only.
type StaffHandler struct {
	service staffService
}

// NewStaffHandler builds a new handler.
func NewStaffHandler(service staffService) *StaffHandler {
	return &StaffHandler{service: service}
}

// List godoc
// @Summary List staff
// @Tags Staff
// @Produce json
// @Security BearerAuth
// @Param githubId query int false "Only staff rows of this GitHub user"
// @Success 200 {array} models.Staff
// @Failure 403 {object} errors.Error
// @Router /staff/all [get]
func (h *StaffHandler) List(c *gin.Context) {
	var filter models.StaffFilter
	if raw := c.Query("githubId"); raw != "" {
		githubID, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Type, http.StatusBadRequest, "githubId must be an integer"))
			return
		}
		filter.GithubID = &githubID
	}

	staff, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, staff)
}

// Get godoc
// @Summary Get staff
// @Tags Staff
// @Produce json
// @Security BearerAuth
// @Param id query int true "Staff ID"
// @Success 200 {object} models.Staff
// @Failure 404 {object} errors.Error
// @Router /staff/get [get]
func (h *StaffHandler) Get(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}

	staff, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, staff)
}

// Create godoc
// @Summary Create staff
// @Tags Staff
// @Produce json
// @Security BearerAuth
// @Param courseId query int true "Course ID"
// @Param githubId query int true "GitHub user ID"
// @Success 200 {object} models.Staff
// @Failure 400 {object} errors.Error
// @Failure 404 {object} errors.Error
// @Router /staff/post [post]
func (h *StaffHandler) Create(c *gin.Context) {
	var req models.CreateStaffRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Type, http.StatusBadRequest, "courseId and githubId must be integers"))
		return
	}

	staff, err := h.service.Create(c.Request.Context(), req, requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, staff)
}

// Update godoc
// @Summary Update staff
// @Tags Staff
// @Produce json
// @Security BearerAuth
// @Param id query int true "Staff ID"
// @Param courseId query int true "Course ID"
// @Param githubId query int true "GitHub user ID"
// @Success 200 {object} models.Staff
// @Failure 404 {object} errors.Error
// @Router /staff/update [put]
func (h *StaffHandler) Update(c *gin.Context) {
	if _, ok := queryID(c); !ok {
		return
	}

	var req models.UpdateStaffRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Type, http.StatusBadRequest, "id, courseId and githubId must be integers"))
		return
	}

	staff, err := h.service.Update(c.Request.Context(), req, requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, staff)
}

// Delete godoc
// @Summary Delete staff
// @Description Returns the row as it was before deletion.
// @Tags Staff
// @Produce json
// @Security BearerAuth
// @Param id query int true "Staff ID"
// @Success 200 {object} models.Staff
// @Failure 404 {object} errors.Error
// @Router /staff/delete [delete]
func (h *StaffHandler) Delete(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}

	staff, err := h.service.Delete(c.Request.Context(), id, requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, staff)
}

func queryID(c *gin.Context) (int64, bool) {
	raw := c.Query("id")
	if raw == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "id is required"))
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Type, http.StatusBadRequest, "id must be an integer"))
		return 0, false
	}
	return id, true
}
