package service

import (
	"context"
	"testing"
	"time"

	"eduhub/pkg/access"
	"eduhub/pkg/visitlog"
	"eduhub/visitlog-service/internal/app/visitlog/entity"
	"eduhub/visitlog-service/internal/app/visitlog/repository"
	"eduhub/visitlog-service/internal/app/visitlog/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

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

func TestVisitLogService_RecordEvent_PersistsAllFields(t *testing.T) {
	visitRepo := new(mocks.MockVisitLogRepository)
	svc := NewVisitLogService(visitRepo)

	userID := uuid.New()
	occurredAt := time.Now().Add(-time.Minute)

	visitRepo.On("Insert", mock.Anything, mock.MatchedBy(func(l *entity.VisitLog) bool {
		return l.Path == "/courses" &&
			l.UserID == userID.String() &&
			l.UserName == "Иванов Иван" &&
			l.CreatedAt.Equal(occurredAt)
	})).Return(nil)

	err := svc.RecordEvent(context.Background(), &visitlog.VisitEvent{
		EventType:  visitlog.EventTypePageVisited,
		Path:       "/courses",
		UserID:     userID.String(),
		UserName:   "Иванов Иван",
		OccurredAt: occurredAt,
	})

	require.NoError(t, err)
	visitRepo.AssertExpectations(t)
}

func TestVisitLogService_RecordEvent_AnonymousVisit(t *testing.T) {
	visitRepo := new(mocks.MockVisitLogRepository)
	svc := NewVisitLogService(visitRepo)

	visitRepo.On("Insert", mock.Anything, mock.MatchedBy(func(l *entity.VisitLog) bool {
		return l.Path == "/courses" && l.UserID == "" && l.UserName == ""
	})).Return(nil)

	err := svc.RecordEvent(context.Background(), &visitlog.VisitEvent{
		EventType:  visitlog.EventTypePageVisited,
		Path:       "/courses",
		OccurredAt: time.Now(),
	})

	require.NoError(t, err)
	visitRepo.AssertExpectations(t)
}

func TestVisitLogService_List_AdminSeesWholeJournal(t *testing.T) {
	visitRepo := new(mocks.MockVisitLogRepository)
	svc := NewVisitLogService(visitRepo)

	// Администратор получает журнал без фильтра по пользователю
	visitRepo.On("List", mock.Anything, repository.VisitFilter{UserID: nil, Page: 1, PerPage: 10}).
		Return([]entity.VisitLog{{Path: "/courses"}}, int64(1), nil)

	resp, err := svc.List(context.Background(), adminIdentity(), 1, 10)

	require.NoError(t, err)
	assert.Len(t, resp.Logs, 1)
	visitRepo.AssertExpectations(t)
}

func TestVisitLogService_List_UserScopedToOwnRows(t *testing.T) {
	visitRepo := new(mocks.MockVisitLogRepository)
	svc := NewVisitLogService(visitRepo)

	identity := userIdentity()

	visitRepo.On("List", mock.Anything, mock.MatchedBy(func(f repository.VisitFilter) bool {
		return f.UserID != nil && *f.UserID == identity.ID
	})).Return([]entity.VisitLog{}, int64(0), nil)

	_, err := svc.List(context.Background(), identity, 1, 10)

	require.NoError(t, err)
	visitRepo.AssertExpectations(t)
}

func TestVisitLogService_List_ClampsPaging(t *testing.T) {
	visitRepo := new(mocks.MockVisitLogRepository)
	svc := NewVisitLogService(visitRepo)

	// Некорректные параметры пагинации заменяются значениями по умолчанию
	visitRepo.On("List", mock.Anything, mock.MatchedBy(func(f repository.VisitFilter) bool {
		return f.Page == 1 && f.PerPage == 10
	})).Return([]entity.VisitLog{}, int64(0), nil)

	_, err := svc.List(context.Background(), adminIdentity(), -3, 1000)

	require.NoError(t, err)
	visitRepo.AssertExpectations(t)
}

func TestVisitLogService_List_Meta(t *testing.T) {
	visitRepo := new(mocks.MockVisitLogRepository)
	svc := NewVisitLogService(visitRepo)

	visitRepo.On("List", mock.Anything, mock.Anything).
		Return([]entity.VisitLog{{}, {}}, int64(5), nil)

	resp, err := svc.List(context.Background(), adminIdentity(), 1, 2)

	require.NoError(t, err)
	assert.Equal(t, int64(5), resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.TotalPages)
	assert.True(t, resp.Meta.HasNext)
	assert.False(t, resp.Meta.HasPrev)
}
