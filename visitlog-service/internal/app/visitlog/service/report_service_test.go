package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"eduhub/visitlog-service/internal/app/visitlog/entity"
	"eduhub/visitlog-service/internal/app/visitlog/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportService_UsersReport_LabelsAnonymousVisits(t *testing.T) {
	visitRepo := new(mocks.MockVisitLogRepository)
	svc := NewReportService(visitRepo)

	userID := uuid.New().String()
	visitRepo.On("CountByUser", context.Background()).Return([]entity.UserVisits{
		{UserID: userID, UserName: "Иванов Иван", VisitCount: 7},
		{UserID: "", UserName: "", VisitCount: 3},
	}, nil)

	rows, err := svc.UsersReport(context.Background())

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Иванов Иван", rows[0].UserName)
	assert.Equal(t, entity.AnonymousUserLabel, rows[1].UserName)
}

func TestReportService_WritePagesCSV(t *testing.T) {
	visitRepo := new(mocks.MockVisitLogRepository)
	svc := NewReportService(visitRepo)

	visitRepo.On("CountByPage", context.Background()).Return([]entity.PageVisits{
		{Path: "/courses", VisitCount: 12},
		{Path: "/auth/login", VisitCount: 4},
	}, nil)

	var buf bytes.Buffer
	err := svc.WritePagesCSV(context.Background(), &buf)
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"№", "Страница", "Количество посещений"}, records[0])
	assert.Equal(t, []string{"1", "/courses", "12"}, records[1])
	assert.Equal(t, []string{"2", "/auth/login", "4"}, records[2])
}

func TestReportService_WriteUsersCSV_AnonymousRow(t *testing.T) {
	visitRepo := new(mocks.MockVisitLogRepository)
	svc := NewReportService(visitRepo)

	visitRepo.On("CountByUser", context.Background()).Return([]entity.UserVisits{
		{UserID: uuid.New().String(), UserName: "Иванов Иван", VisitCount: 7},
		{UserID: "", UserName: "", VisitCount: 3},
	}, nil)

	var buf bytes.Buffer
	err := svc.WriteUsersCSV(context.Background(), &buf)
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"№", "Пользователь", "Количество посещений"}, records[0])
	assert.Equal(t, []string{"1", "Иванов Иван", "7"}, records[1])
	assert.Equal(t, []string{"2", entity.AnonymousUserLabel, "3"}, records[2])
}

func TestReportService_WritePagesCSV_EmptyJournal(t *testing.T) {
	visitRepo := new(mocks.MockVisitLogRepository)
	svc := NewReportService(visitRepo)

	visitRepo.On("CountByPage", context.Background()).Return([]entity.PageVisits{}, nil)

	var buf bytes.Buffer
	err := svc.WritePagesCSV(context.Background(), &buf)
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	// Только заголовок
	require.Len(t, records, 1)
}
