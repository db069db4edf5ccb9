package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authUsecases "helpdesk/internal/application/auth/usecases"
	"helpdesk/internal/application/user/dto"
	"helpdesk/internal/infrastructure/auth"
	"helpdesk/internal/interfaces/http/middleware"
	"helpdesk/internal/shared/logger"
	"helpdesk/internal/shared/utils"
)

// AuthHandler serves registration, login and the current session. The
// credential itself is issued by the configured auth provider.
type AuthHandler struct {
	registerUseCase registerUseCase
	loginUseCase    loginUseCase
	profileUseCase  getProfileUseCase
	provider        auth.Provider
	logger          logger.Interface
}

func NewAuthHandler(
	registerUC registerUseCase,
	loginUC loginUseCase,
	profileUC getProfileUseCase,
	provider auth.Provider,
	logger logger.Interface,
) *AuthHandler {
	return &AuthHandler{
		registerUseCase: registerUC,
		loginUseCase:    loginUC,
		profileUseCase:  profileUC,
		provider:        provider,
		logger:          logger,
	}
}

// Register handles POST /auth/register
// @Summary Register a new account
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RegisterRequest true "Account data"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}

	u, err := h.registerUseCase.Execute(c.Request.Context(), authUsecases.RegisterCommand{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	token, err := h.provider.Login(c.Request.Context(), c.Writer, u.ID)
	if err != nil {
		h.logger.Errorw("failed to issue credential after registration", "user_id", u.ID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, dto.AuthResponse{User: u, Token: token}, "Registration successful")
}

// Login handles POST /auth/login
// @Summary Log in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credentials"
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 429 {object} utils.APIResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}

	u, err := h.loginUseCase.Execute(c.Request.Context(), authUsecases.LoginCommand{
		Email:    req.Email,
		Password: req.Password,
		ClientIP: c.ClientIP(),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	token, err := h.provider.Login(c.Request.Context(), c.Writer, u.ID)
	if err != nil {
		h.logger.Errorw("failed to issue credential", "user_id", u.ID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Login successful", dto.AuthResponse{User: u, Token: token})
}

// Logout handles POST /auth/logout
// @Summary Revoke the current credential
// @Tags auth
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.APIResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.provider.Logout(c.Request.Context(), c.Writer, c.Request); err != nil {
		h.logger.Errorw("logout failed", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Logged out successfully", nil)
}

// Profile handles GET /auth/profile
// @Summary Current user
// @Tags auth
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /auth/profile [get]
func (h *AuthHandler) Profile(c *gin.Context) {
	var userID uint
	if actor := middleware.CurrentActor(c); actor != nil {
		userID = actor.ID
	}

	u, err := h.profileUseCase.Execute(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", u)
}
