package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"eduhub/auth-service/internal/app/auth/entity"
	"eduhub/auth-service/internal/app/auth/service"
	"eduhub/auth-service/internal/app/auth/util"
	"eduhub/pkg/access"
)

// Сообщения отказа в доступе, показываемые пользователю
const (
	MsgLoginRequired    = "Авторизуйтесь для доступа к этой странице."
	MsgInsufficientRole = "У вас недостаточно прав для доступа к данной странице."
)

// AuthMiddleware проверяет JWT токен и кладёт идентичность в контекст
type AuthMiddleware struct {
	authService *service.AuthService
}

func NewAuthMiddleware(authService *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
	}
}

// Authenticate требует валидный access токен
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			AbortUnauthenticated(c)
			return
		}

		claims, err := m.authService.ValidateToken(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, util.ErrExpiredToken) || errors.Is(err, util.ErrInvalidToken) {
				AbortUnauthenticated(c)
				return
			}
			c.JSON(http.StatusInternalServerError, entity.ErrorResponse{
				Error:   "Internal Server Error",
				Message: "Failed to validate token",
			})
			c.Abort()
			return
		}

		access.SetIdentity(c, identityFromClaims(claims))
		c.Next()
	}
}

// RequireRole сопоставляет решение проверки доступа со статусом ответа.
// Применяется после Authenticate либо самостоятельно на публичных группах.
func (m *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := access.IdentityFromContext(c)

		switch access.CheckAccess(identity, roles...) {
		case access.Allow:
			c.Next()
		case access.DenyUnauthenticated:
			AbortUnauthenticated(c)
		case access.DenyForbidden:
			AbortForbidden(c)
		}
	}
}

// AbortUnauthenticated завершает запрос с редиректом на вход,
// сохраняя исходную цель в параметре next
func AbortUnauthenticated(c *gin.Context) {
	next := url.QueryEscape(c.Request.URL.RequestURI())
	c.JSON(http.StatusUnauthorized, entity.ErrorResponse{
		Error:    "Unauthorized",
		Message:  MsgLoginRequired,
		Redirect: fmt.Sprintf("/auth/login?next=%s", next),
	})
	c.Abort()
}

// AbortForbidden завершает запрос с редиректом на безопасную страницу
func AbortForbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, entity.ErrorResponse{
		Error:    "Forbidden",
		Message:  MsgInsufficientRole,
		Redirect: "/",
	})
	c.Abort()
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}

	return parts[1], true
}

func identityFromClaims(claims *util.JWTClaims) *access.Identity {
	return &access.Identity{
		ID:       claims.UserID,
		Email:    claims.Email,
		Name:     claims.Name,
		RoleID:   claims.RoleID,
		RoleName: claims.RoleName,
	}
}
