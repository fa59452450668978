package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"eduhub/auth-service/internal/app/auth/entity"
	"eduhub/pkg/access"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) ListUsers(ctx context.Context) ([]entity.UserWithRole, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.UserWithRole), args.Error(1)
}

func (m *mockUserService) GetUser(ctx context.Context, id uuid.UUID) (*entity.UserWithRole, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.UserWithRole), args.Error(1)
}

func (m *mockUserService) UpdateUser(ctx context.Context, id uuid.UUID, req *entity.UpdateUserRequest) (*entity.UserWithRole, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.UserWithRole), args.Error(1)
}

func (m *mockUserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// setupUserRouter поднимает маршруты управления пользователями,
// подставляя заданную идентичность вместо полной JWT-аутентификации
func setupUserRouter(svc *mockUserService, identity *access.Identity) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewUserHandler(svc)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if identity != nil {
			access.SetIdentity(c, identity)
		}
		c.Next()
	})
	router.GET("/users/:user_id", h.GetUser)
	router.PUT("/users/:user_id", h.UpdateUser)
	router.DELETE("/users/:user_id", h.DeleteUser)

	return router
}

func adminIdentity() *access.Identity {
	return &access.Identity{
		ID:       uuid.New(),
		Email:    "admin@example.com",
		Name:     "Админов Админ",
		RoleID:   access.RoleAdminID,
		RoleName: access.RoleAdmin,
	}
}

func userIdentity() *access.Identity {
	return &access.Identity{
		ID:       uuid.New(),
		Email:    "ivanov@example.com",
		Name:     "Иванов Иван",
		RoleID:   access.RoleUserID,
		RoleName: access.RoleUser,
	}
}

func TestUserHandler_GetUser_SelfAllowed(t *testing.T) {
	svc := new(mockUserService)
	identity := userIdentity()

	svc.On("GetUser", mock.Anything, identity.ID).Return(&entity.UserWithRole{
		User: entity.User{ID: identity.ID, Email: identity.Email},
		Role: entity.Role{ID: access.RoleUserID, Name: access.RoleUser},
	}, nil)

	router := setupUserRouter(svc, identity)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/"+identity.ID.String(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestUserHandler_GetUser_CrossUserForbidden(t *testing.T) {
	svc := new(mockUserService)
	router := setupUserRouter(svc, userIdentity())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/"+uuid.NewString(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)

	var resp entity.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, MsgInsufficientRole, resp.Message)
	assert.Equal(t, "/", resp.Redirect)
	svc.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
}

func TestUserHandler_GetUser_AdminCanReadAnyone(t *testing.T) {
	svc := new(mockUserService)
	targetID := uuid.New()

	svc.On("GetUser", mock.Anything, targetID).Return(&entity.UserWithRole{
		User: entity.User{ID: targetID},
		Role: entity.Role{ID: access.RoleUserID, Name: access.RoleUser},
	}, nil)

	router := setupUserRouter(svc, adminIdentity())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/"+targetID.String(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUserHandler_GetUser_Unauthenticated(t *testing.T) {
	svc := new(mockUserService)
	router := setupUserRouter(svc, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/"+uuid.NewString(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var resp entity.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, MsgLoginRequired, resp.Message)
	assert.Contains(t, resp.Redirect, "/auth/login?next=")
}

func TestUserHandler_UpdateUser_RoleChangeDeniedForUser(t *testing.T) {
	svc := new(mockUserService)
	identity := userIdentity()
	router := setupUserRouter(svc, identity)

	body := strings.NewReader(`{"role_id": 1}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/users/"+identity.ID.String(), body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	svc.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserHandler_DeleteUser_AdminCannotDeleteSelf(t *testing.T) {
	svc := new(mockUserService)
	identity := adminIdentity()
	router := setupUserRouter(svc, identity)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/users/"+identity.ID.String(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)

	var resp entity.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Нельзя удалить свою собственную учётную запись.", resp.Message)
	svc.AssertNotCalled(t, "DeleteUser", mock.Anything, mock.Anything)
}

func TestUserHandler_DeleteUser_UserForbidden(t *testing.T) {
	svc := new(mockUserService)
	identity := userIdentity()
	router := setupUserRouter(svc, identity)

	// Даже свою учётную запись обычный пользователь удалить не может
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/users/"+identity.ID.String(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	svc.AssertNotCalled(t, "DeleteUser", mock.Anything, mock.Anything)
}

func TestUserHandler_DeleteUser_AdminDeletesOther(t *testing.T) {
	svc := new(mockUserService)
	targetID := uuid.New()
	svc.On("DeleteUser", mock.Anything, targetID).Return(nil)

	router := setupUserRouter(svc, adminIdentity())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/users/"+targetID.String(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}
