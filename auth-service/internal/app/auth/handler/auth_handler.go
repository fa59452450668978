package handler

import (
	"context"
	"errors"
	"net/http"

	"eduhub/auth-service/internal/app/auth/entity"
	"eduhub/auth-service/internal/app/auth/service"
	"eduhub/pkg/access"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type AuthServiceInterface interface {
	Register(ctx context.Context, req *entity.RegisterRequest) (*entity.AuthResponse, error)
	Login(ctx context.Context, req *entity.LoginRequest) (*entity.AuthResponse, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*entity.TokenPair, error)
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.UserWithRole, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req *entity.ChangePasswordRequest) error
	Logout(ctx context.Context, userID uuid.UUID, accessToken string) error
}

type AuthHandler struct {
	authService AuthServiceInterface
	validator   *validator.Validate
}

func NewAuthHandler(authService AuthServiceInterface) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   validator.New(),
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req entity.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: formatValidationError(err)})
		return
	}

	response, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			c.JSON(http.StatusConflict, entity.ErrorResponse{
				Error:   "Conflict",
				Message: "Пользователь с таким email уже зарегистрирован.",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to register user"})
		return
	}

	c.JSON(http.StatusCreated, response)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req entity.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: formatValidationError(err)})
		return
	}

	response, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, entity.ErrorResponse{
				Error:   "Unauthorized",
				Message: "Невозможно аутентифицироваться с указанными логином и паролем.",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to login"})
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req entity.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request body"})
		return
	}

	tokens, err := h.authService.RefreshTokens(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefreshToken) {
			c.JSON(http.StatusUnauthorized, entity.ErrorResponse{Error: "Invalid refresh token"})
			return
		}
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to refresh tokens"})
		return
	}

	c.JSON(http.StatusOK, tokens)
}

func (h *AuthHandler) GetMe(c *gin.Context) {
	identity := access.IdentityFromContext(c)
	if identity == nil {
		AbortUnauthenticated(c)
		return
	}

	user, err := h.authService.GetCurrentUser(c.Request.Context(), identity.ID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to get user"})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	identity := access.IdentityFromContext(c)
	if identity == nil {
		AbortUnauthenticated(c)
		return
	}

	var req entity.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: formatValidationError(err)})
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), identity.ID, &req); err != nil {
		if errors.Is(err, service.ErrWrongOldPassword) {
			c.JSON(http.StatusBadRequest, entity.ErrorResponse{
				Error:   "Bad Request",
				Message: "Старый пароль введён неверно.",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to change password"})
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Пароль успешно изменен"})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	identity := access.IdentityFromContext(c)
	if identity == nil {
		AbortUnauthenticated(c)
		return
	}

	token, _ := bearerToken(c)

	if err := h.authService.Logout(c.Request.Context(), identity.ID, token); err != nil {
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to logout"})
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Выход выполнен успешно!"})
}

func formatValidationError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			return fieldError.Field() + " is " + fieldError.Tag()
		}
	}
	return "Validation failed"
}
