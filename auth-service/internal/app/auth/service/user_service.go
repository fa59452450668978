package service

import (
	"context"
	"errors"
	"fmt"

	"eduhub/auth-service/internal/app/auth/entity"
	"eduhub/auth-service/internal/app/auth/repository"

	"github.com/google/uuid"
)

// UserService обрабатывает управление учётными записями.
// Проверка прав доступа (самопринадлежность, роли) выполняется
// на границе HTTP через pkg/access, здесь только CRUD.
type UserService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
}

// NewUserService создает новый сервис пользователей
func NewUserService(userRepo repository.UserRepository, roleRepo repository.RoleRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
		roleRepo: roleRepo,
	}
}

// ListUsers возвращает всех пользователей с ролями
func (s *UserService) ListUsers(ctx context.Context) ([]entity.UserWithRole, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	// Ролей две, кешируем их на время запроса
	roles := make(map[int]entity.Role)

	result := make([]entity.UserWithRole, 0, len(users))
	for _, user := range users {
		role, ok := roles[user.RoleID]
		if !ok {
			fetched, err := s.roleRepo.GetByID(ctx, user.RoleID)
			if err != nil {
				return nil, fmt.Errorf("failed to get role: %w", err)
			}
			role = *fetched
			roles[user.RoleID] = role
		}
		result = append(result, entity.UserWithRole{User: user, Role: role})
	}

	return result, nil
}

// GetUser возвращает пользователя с ролью по ID
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*entity.UserWithRole, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	role, err := s.roleRepo.GetByID(ctx, user.RoleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get role: %w", err)
	}

	return &entity.UserWithRole{User: *user, Role: *role}, nil
}

// UpdateUser обновляет пользователя; пустые поля запроса не трогаются
func (s *UserService) UpdateUser(ctx context.Context, id uuid.UUID, req *entity.UpdateUserRequest) (*entity.UserWithRole, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if req.Email != "" {
		user.Email = req.Email
	}
	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.MiddleName != "" {
		user.MiddleName = req.MiddleName
	}
	if req.RoleID != 0 {
		// Проверяем, что роль существует
		if _, err := s.roleRepo.GetByID(ctx, req.RoleID); err != nil {
			if errors.Is(err, repository.ErrRoleNotFound) {
				return nil, ErrRoleNotFound
			}
			return nil, fmt.Errorf("failed to get role: %w", err)
		}
		user.RoleID = req.RoleID
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	role, err := s.roleRepo.GetByID(ctx, user.RoleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get role: %w", err)
	}

	return &entity.UserWithRole{User: *user, Role: *role}, nil
}

// DeleteUser удаляет учётную запись
func (s *UserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
