package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User представляет пользователя платформы
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // не возвращаем в JSON
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	MiddleName   string    `json:"middle_name,omitempty" db:"middle_name"`
	RoleID       int       `json:"role_id" db:"role_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// DisplayName возвращает ФИО в формате "Фамилия Имя Отчество"
func (u *User) DisplayName() string {
	parts := []string{u.LastName, u.FirstName}
	if u.MiddleName != "" {
		parts = append(parts, u.MiddleName)
	}
	return strings.Join(parts, " ")
}

// Role представляет роль пользователя (admin, user)
type Role struct {
	ID          int    `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description,omitempty" db:"description"`
}

// RefreshToken хранит refresh токен для обновления JWT
type RefreshToken struct {
	UserID    uuid.UUID `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TokenPair содержит access и refresh токены
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // время жизни access token в секундах
}

// UserWithRole содержит информацию о пользователе с его ролью
type UserWithRole struct {
	User
	Role Role `json:"role"`
}
