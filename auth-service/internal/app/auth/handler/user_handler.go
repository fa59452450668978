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

type UserServiceInterface interface {
	ListUsers(ctx context.Context) ([]entity.UserWithRole, error)
	GetUser(ctx context.Context, id uuid.UUID) (*entity.UserWithRole, error)
	UpdateUser(ctx context.Context, id uuid.UUID, req *entity.UpdateUserRequest) (*entity.UserWithRole, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// UserHandler обслуживает управление учётными записями.
// Правила самопринадлежности проверяются здесь, на границе HTTP,
// сопоставлением решения pkg/access со статусом ответа.
type UserHandler struct {
	userService UserServiceInterface
	validator   *validator.Validate
}

func NewUserHandler(userService UserServiceInterface) *UserHandler {
	return &UserHandler{
		userService: userService,
		validator:   validator.New(),
	}
}

// ListUsers возвращает всех пользователей (только администратор)
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to list users"})
		return
	}

	c.JSON(http.StatusOK, entity.UserListResponse{Users: users, Total: len(users)})
}

// GetUser возвращает пользователя: администратор - любого, остальные - только себя
func (h *UserHandler) GetUser(c *gin.Context) {
	targetID, ok := h.targetUserID(c)
	if !ok {
		return
	}

	identity := access.IdentityFromContext(c)
	switch access.CheckUserAccess(identity, targetID) {
	case access.DenyUnauthenticated:
		AbortUnauthenticated(c)
		return
	case access.DenyForbidden:
		AbortForbidden(c)
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), targetID)
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

// UpdateUser обновляет пользователя с учётом самопринадлежности.
// Смена роли доступна только администратору.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	targetID, ok := h.targetUserID(c)
	if !ok {
		return
	}

	identity := access.IdentityFromContext(c)
	switch access.CheckUserAccess(identity, targetID) {
	case access.DenyUnauthenticated:
		AbortUnauthenticated(c)
		return
	case access.DenyForbidden:
		AbortForbidden(c)
		return
	}

	var req entity.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: formatValidationError(err)})
		return
	}

	if req.RoleID != 0 && !identity.IsAdmin() {
		AbortForbidden(c)
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), targetID, &req)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "User not found"})
			return
		}
		if errors.Is(err, service.ErrRoleNotFound) {
			c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Role not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to update user"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteUser удаляет учётную запись.
// Администратор не может удалить свою собственную учётную запись.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	targetID, ok := h.targetUserID(c)
	if !ok {
		return
	}

	identity := access.IdentityFromContext(c)
	switch access.CheckUserDelete(identity, targetID) {
	case access.DenyUnauthenticated:
		AbortUnauthenticated(c)
		return
	case access.DenyForbidden:
		if identity.IsAdmin() && identity.ID == targetID {
			c.JSON(http.StatusForbidden, entity.ErrorResponse{
				Error:    "Forbidden",
				Message:  "Нельзя удалить свою собственную учётную запись.",
				Redirect: "/",
			})
			c.Abort()
			return
		}
		AbortForbidden(c)
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), targetID); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to delete user"})
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Пользователь успешно удален."})
}

func (h *UserHandler) targetUserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid user ID"})
		return uuid.Nil, false
	}
	return id, true
}
