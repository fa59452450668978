package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"eduhub/pkg/access"
	"eduhub/visitlog-service/internal/app/visitlog/entity"
)

// Сообщения отказа в доступе, показываемые пользователю
const (
	MsgLoginRequired    = "Авторизуйтесь для доступа к этой странице."
	MsgInsufficientRole = "У вас недостаточно прав для доступа к данной странице."
)

// JWTClaims - полезная нагрузка access токена auth-service
type JWTClaims struct {
	UserID   uuid.UUID `json:"user_id"`
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	RoleID   int       `json:"role_id"`
	RoleName string    `json:"role_name"`
	jwt.RegisteredClaims
}

// AuthMiddleware проверяет JWT токен локально по общему секрету,
// без обращения к auth-service на каждый запрос
type AuthMiddleware struct {
	jwtSecret string
}

func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{jwtSecret: jwtSecret}
}

// Authenticate требует валидный access токен
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := m.identityFromRequest(c)
		if err != nil || identity == nil {
			AbortUnauthenticated(c)
			return
		}

		access.SetIdentity(c, identity)
		c.Next()
	}
}

// RequireRole сопоставляет решение проверки доступа со статусом ответа
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

func (m *AuthMiddleware) identityFromRequest(c *gin.Context) (*access.Identity, error) {
	token, ok := bearerToken(c)
	if !ok {
		return nil, nil
	}

	parsed, err := jwt.ParseWithClaims(token, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.jwtSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	return &access.Identity{
		ID:       claims.UserID,
		Email:    claims.Email,
		Name:     claims.Name,
		RoleID:   claims.RoleID,
		RoleName: claims.RoleName,
	}, nil
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
