package department

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"helpdesk/internal/application/department/dto"
	"helpdesk/internal/domain/access"
	"helpdesk/internal/interfaces/http/middleware"
	"helpdesk/internal/shared/logger"
	"helpdesk/internal/shared/utils"
)

type listDepartmentsUseCase interface {
	Execute(ctx context.Context, actor *access.Actor, withCounts bool) ([]*dto.DepartmentResponse, error)
}

type getDepartmentUseCase interface {
	Execute(ctx context.Context, actor *access.Actor, id uint) (*dto.DepartmentResponse, error)
}

type createDepartmentUseCase interface {
	Execute(ctx context.Context, actor *access.Actor, name string) (*dto.DepartmentResponse, error)
}

type updateDepartmentUseCase interface {
	Execute(ctx context.Context, actor *access.Actor, id uint, name string) (*dto.DepartmentResponse, error)
}

type deleteDepartmentUseCase interface {
	Execute(ctx context.Context, actor *access.Actor, id uint) error
}

type Handler struct {
	listUC   listDepartmentsUseCase
	getUC    getDepartmentUseCase
	createUC createDepartmentUseCase
	updateUC updateDepartmentUseCase
	deleteUC deleteDepartmentUseCase
	logger   logger.Interface
}

func NewHandler(
	listUC listDepartmentsUseCase,
	getUC getDepartmentUseCase,
	createUC createDepartmentUseCase,
	updateUC updateDepartmentUseCase,
	deleteUC deleteDepartmentUseCase,
	log logger.Interface,
) *Handler {
	return &Handler{
		listUC:   listUC,
		getUC:    getUC,
		createUC: createUC,
		updateUC: updateUC,
		deleteUC: deleteUC,
		logger:   log,
	}
}

// List handles GET /departments
// @Summary List departments
// @Tags departments
// @Produce json
// @Security Bearer
// @Param with_counts query bool false "Include ticket_count"
// @Success 200 {object} utils.APIResponse
// @Router /departments [get]
func (h *Handler) List(c *gin.Context) {
	withCounts, _ := strconv.ParseBool(c.Query("with_counts"))

	departments, err := h.listUC.Execute(c.Request.Context(), middleware.CurrentActor(c), withCounts)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", departments)
}

// Get handles GET /departments/:id
// @Summary Get department with its ticket count
// @Tags departments
// @Produce json
// @Security Bearer
// @Param id path int true "Department ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /departments/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := utils.ParseUintParam(c, "id", "department")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	d, err := h.getUC.Execute(c.Request.Context(), middleware.CurrentActor(c), id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", d)
}

// Create handles POST /departments
// @Summary Create department
// @Tags departments
// @Accept json
// @Produce json
// @Security Bearer
// @Param body body dto.DepartmentRequest true "Department"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /departments [post]
func (h *Handler) Create(c *gin.Context) {
	var req dto.DepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}

	d, err := h.createUC.Execute(c.Request.Context(), middleware.CurrentActor(c), req.Name)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, d, "Department created successfully")
}

// Update handles PUT /departments/:id
// @Summary Rename department
// @Tags departments
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "Department ID"
// @Param body body dto.DepartmentRequest true "Department"
// @Success 200 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /departments/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, err := utils.ParseUintParam(c, "id", "department")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.DepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}

	d, err := h.updateUC.Execute(c.Request.Context(), middleware.CurrentActor(c), id, req.Name)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Department updated successfully", d)
}

// Delete handles DELETE /departments/:id
// @Summary Delete department
// @Description Refused while any ticket references the department.
// @Tags departments
// @Security Bearer
// @Param id path int true "Department ID"
// @Success 204
// @Failure 409 {object} utils.APIResponse
// @Router /departments/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, err := utils.ParseUintParam(c, "id", "department")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.deleteUC.Execute(c.Request.Context(), middleware.CurrentActor(c), id); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}
