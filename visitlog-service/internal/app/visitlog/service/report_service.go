package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"eduhub/visitlog-service/internal/app/visitlog/entity"
	"eduhub/visitlog-service/internal/app/visitlog/repository"
)

// Заголовки CSV-отчётов
var (
	pagesCSVHeader = []string{"№", "Страница", "Количество посещений"}
	usersCSVHeader = []string{"№", "Пользователь", "Количество посещений"}
)

// ReportService строит отчёты посещаемости по журналу
type ReportService struct {
	visitRepo repository.VisitLogRepository
}

func NewReportService(visitRepo repository.VisitLogRepository) *ReportService {
	return &ReportService{visitRepo: visitRepo}
}

// PagesReport возвращает посещаемость по страницам, по убыванию
func (s *ReportService) PagesReport(ctx context.Context) ([]entity.PageVisits, error) {
	return s.visitRepo.CountByPage(ctx)
}

// UsersReport возвращает посещаемость по пользователям, по убыванию.
// Анонимные посещения получают общую подпись.
func (s *ReportService) UsersReport(ctx context.Context) ([]entity.UserVisits, error) {
	rows, err := s.visitRepo.CountByUser(ctx)
	if err != nil {
		return nil, err
	}

	for i := range rows {
		if rows[i].UserID == "" || rows[i].UserName == "" {
			rows[i].UserName = entity.AnonymousUserLabel
		}
	}

	return rows, nil
}

// WritePagesCSV выгружает отчёт по страницам в формате CSV
func (s *ReportService) WritePagesCSV(ctx context.Context, w io.Writer) error {
	rows, err := s.PagesReport(ctx)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(pagesCSVHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for i, row := range rows {
		record := []string{
			strconv.Itoa(i + 1),
			row.Path,
			strconv.FormatInt(row.VisitCount, 10),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteUsersCSV выгружает отчёт по пользователям в формате CSV
func (s *ReportService) WriteUsersCSV(ctx context.Context, w io.Writer) error {
	rows, err := s.UsersReport(ctx)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(usersCSVHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for i, row := range rows {
		record := []string{
			strconv.Itoa(i + 1),
			row.UserName,
			strconv.FormatInt(row.VisitCount, 10),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
