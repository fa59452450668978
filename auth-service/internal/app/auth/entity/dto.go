package entity

// RegisterRequest - запрос на регистрацию
type RegisterRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	FirstName  string `json:"first_name" validate:"required,min=2"`
	LastName   string `json:"last_name" validate:"required,min=2"`
	MiddleName string `json:"middle_name"`
}

// LoginRequest - запрос на вход
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest - запрос на обновление токена
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse - ответ с пользователем и токенами
type AuthResponse struct {
	User   UserWithRole `json:"user"`
	Tokens TokenPair    `json:"tokens"`
}

// ChangePasswordRequest - запрос на смену пароля
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// UpdateUserRequest - запрос на обновление пользователя.
// Роль может менять только администратор.
type UpdateUserRequest struct {
	Email      string `json:"email,omitempty" validate:"omitempty,email"`
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	MiddleName string `json:"middle_name,omitempty"`
	RoleID     int    `json:"role_id,omitempty"`
}

// UserListResponse - ответ со списком пользователей
type UserListResponse struct {
	Users []UserWithRole `json:"users"`
	Total int            `json:"total"`
}

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	// Куда отправить пользователя после отказа в доступе:
	// страница входа (с сохранением исходной цели) или безопасная страница
	Redirect string `json:"redirect,omitempty"`
}

// SuccessResponse - стандартный ответ об успехе
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
