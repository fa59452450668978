package access

import (
	"github.com/google/uuid"
)

// Роли платформы. RoleAdmin может управлять любыми записями,
// RoleUser - только своими собственными.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"

	RoleAdminID = 1
	RoleUserID  = 2
)

// Identity описывает аутентифицированного пользователя запроса.
// nil Identity означает анонимный запрос.
type Identity struct {
	ID       uuid.UUID
	Email    string
	Name     string
	RoleID   int
	RoleName string
}

// IsAdmin сообщает, является ли пользователь администратором
func (i *Identity) IsAdmin() bool {
	return i != nil && i.RoleName == RoleAdmin
}

// Decision - результат проверки прав доступа.
// Обработчики сопоставляют его со статусами HTTP:
// DenyUnauthenticated - 401 с редиректом на вход,
// DenyForbidden - 403 с редиректом на безопасную страницу.
type Decision int

const (
	Allow Decision = iota
	DenyUnauthenticated
	DenyForbidden
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case DenyUnauthenticated:
		return "deny_unauthenticated"
	case DenyForbidden:
		return "deny_forbidden"
	default:
		return "unknown"
	}
}

// CheckAccess проверяет, что у идентичности есть одна из разрешённых ролей.
// Пустой список allowedRoles означает "любой аутентифицированный пользователь".
func CheckAccess(identity *Identity, allowedRoles ...string) Decision {
	if identity == nil {
		return DenyUnauthenticated
	}

	if len(allowedRoles) == 0 {
		return Allow
	}

	for _, role := range allowedRoles {
		if identity.RoleName == role {
			return Allow
		}
	}

	return DenyForbidden
}

// CheckUserAccess проверяет доступ к записи конкретного пользователя:
// администратор видит любые записи, остальные - только свою собственную
func CheckUserAccess(identity *Identity, targetUserID uuid.UUID) Decision {
	if identity == nil {
		return DenyUnauthenticated
	}

	if identity.IsAdmin() || identity.ID == targetUserID {
		return Allow
	}

	return DenyForbidden
}

// CheckUserDelete проверяет право на удаление учётной записи.
// Администратор может удалить любую учётную запись, кроме своей собственной.
func CheckUserDelete(identity *Identity, targetUserID uuid.UUID) Decision {
	if identity == nil {
		return DenyUnauthenticated
	}

	if !identity.IsAdmin() {
		return DenyForbidden
	}

	// Защита от удаления собственной учётной записи
	if identity.ID == targetUserID {
		return DenyForbidden
	}

	return Allow
}

// VisitLogFilterUserID возвращает фильтр по пользователю для журнала посещений:
// администратор видит весь журнал (nil), остальные - только свои записи
func VisitLogFilterUserID(identity *Identity) *uuid.UUID {
	if identity == nil {
		return nil
	}
	if identity.IsAdmin() {
		return nil
	}
	id := identity.ID
	return &id
}
