package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"helpdesk/internal/application/user/dto"
	"helpdesk/internal/application/user/usecases"
	"helpdesk/internal/interfaces/http/middleware"
	"helpdesk/internal/shared/logger"
	"helpdesk/internal/shared/utils"
)

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	listUsersUC  listUsersUseCase
	listAgentsUC listAgentsUseCase
	getUserUC    getUserUseCase
	createUserUC createUserUseCase
	updateUserUC updateUserUseCase
	deleteUserUC deleteUserUseCase
	logger       logger.Interface
}

func NewUserHandler(
	listUsersUC listUsersUseCase,
	listAgentsUC listAgentsUseCase,
	getUserUC getUserUseCase,
	createUserUC createUserUseCase,
	updateUserUC updateUserUseCase,
	deleteUserUC deleteUserUseCase,
	log logger.Interface,
) *UserHandler {
	return &UserHandler{
		listUsersUC:  listUsersUC,
		listAgentsUC: listAgentsUC,
		getUserUC:    getUserUC,
		createUserUC: createUserUC,
		updateUserUC: updateUserUC,
		deleteUserUC: deleteUserUC,
		logger:       log,
	}
}

// ListUsers handles GET /users
// @Summary List users
// @Tags users
// @Produce json
// @Security Bearer
// @Param role query string false "Role filter" Enums(user, agent, admin)
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	h.listUsers(c, c.Query("role"))
}

// ListUsersByRole handles GET /users/role/:role
func (h *UserHandler) ListUsersByRole(c *gin.Context) {
	h.listUsers(c, c.Param("role"))
}

func (h *UserHandler) listUsers(c *gin.Context, role string) {
	p := utils.ParsePagination(c)
	result, err := h.listUsersUC.Execute(c.Request.Context(), usecases.ListUsersQuery{
		Actor:    middleware.CurrentActor(c),
		Role:     role,
		Page:     p.Page,
		PageSize: p.PageSize,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Users, result.Total, result.Page, result.PageSize)
}

// ListAgents handles GET /users/agents
// @Summary Staff members tickets can be assigned to
// @Tags users
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.APIResponse
// @Router /users/agents [get]
func (h *UserHandler) ListAgents(c *gin.Context) {
	agents, err := h.listAgentsUC.Execute(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", agents)
}

// GetUser handles GET /users/:id
// @Summary Get user by ID
// @Tags users
// @Produce json
// @Security Bearer
// @Param id path int true "User ID"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, err := utils.ParseUintParam(c, "id", "user")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	u, err := h.getUserUC.Execute(c.Request.Context(), middleware.CurrentActor(c), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", u)
}

// CreateUser handles POST /users
// @Summary Create a user with any role
// @Tags users
// @Accept json
// @Produce json
// @Security Bearer
// @Param body body dto.CreateUserRequest true "User data"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create user", "error", err)
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}

	u, err := h.createUserUC.Execute(c.Request.Context(), usecases.CreateUserCommand{
		Actor:    middleware.CurrentActor(c),
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, u, "User created successfully")
}

// UpdateUser handles PUT /users/:id
// @Summary Update a user
// @Description Users may edit themselves; only admins may change roles.
// @Tags users
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "User ID"
// @Param body body dto.UpdateUserRequest true "Fields to change"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, err := utils.ParseUintParam(c, "id", "user")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}

	u, err := h.updateUserUC.Execute(c.Request.Context(), usecases.UpdateUserCommand{
		Actor:    middleware.CurrentActor(c),
		UserID:   userID,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "User updated successfully", u)
}

// DeleteUser handles DELETE /users/:id
// @Summary Delete a user
// @Tags users
// @Security Bearer
// @Param id path int true "User ID"
// @Success 204
// @Failure 400 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID, err := utils.ParseUintParam(c, "id", "user")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.deleteUserUC.Execute(c.Request.Context(), middleware.CurrentActor(c), userID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}
