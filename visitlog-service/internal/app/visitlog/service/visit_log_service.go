package service

import (
	"context"
	"time"

	"eduhub/pkg/access"
	"eduhub/pkg/metrics"
	"eduhub/pkg/visitlog"
	"eduhub/visitlog-service/internal/app/visitlog/entity"
	"eduhub/visitlog-service/internal/app/visitlog/repository"
)

const (
	defaultPerPage = 10
	maxPerPage     = 100

	// Источники записей журнала: события из Kafka от других сервисов
	// и собственные запросы, записываемые напрямую
	SourceKafka  = "kafka"
	SourceDirect = "direct"
)

// VisitLogService - запись и выборка журнала посещений
type VisitLogService struct {
	visitRepo repository.VisitLogRepository
}

func NewVisitLogService(visitRepo repository.VisitLogRepository) *VisitLogService {
	return &VisitLogService{visitRepo: visitRepo}
}

// RecordEvent сохраняет событие посещения, полученное из Kafka
func (s *VisitLogService) RecordEvent(ctx context.Context, event *visitlog.VisitEvent) error {
	log := &entity.VisitLog{
		Path:      event.Path,
		UserID:    event.UserID,
		UserName:  event.UserName,
		CreatedAt: event.OccurredAt,
	}
	return s.record(ctx, log, SourceKafka)
}

// RecordDirect сохраняет посещение собственного endpoint-а сервиса
func (s *VisitLogService) RecordDirect(ctx context.Context, log *entity.VisitLog) error {
	return s.record(ctx, log, SourceDirect)
}

func (s *VisitLogService) record(ctx context.Context, log *entity.VisitLog, source string) error {
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}

	if err := s.visitRepo.Insert(ctx, log); err != nil {
		return err
	}

	metrics.VisitsLogged.WithLabelValues(source).Inc()
	return nil
}

// List возвращает страницу журнала для данной идентичности:
// администратор видит весь журнал, остальные - только свои записи
func (s *VisitLogService) List(ctx context.Context, identity *access.Identity, page, perPage int) (*entity.VisitLogListResponse, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > maxPerPage {
		perPage = defaultPerPage
	}

	filter := repository.VisitFilter{
		UserID:  access.VisitLogFilterUserID(identity),
		Page:    page,
		PerPage: perPage,
	}

	logs, total, err := s.visitRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))

	return &entity.VisitLogListResponse{
		Logs: logs,
		Meta: entity.PageMeta{
			Page:       page,
			PerPage:    perPage,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
			HasPrev:    page > 1,
		},
	}, nil
}
