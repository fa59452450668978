package service

import (
	"context"

	"eduhub/inspector-service/internal/app/inspector/repository"
)

// CounterService считает посещения страницы счётчика по сессиям
type CounterService struct {
	counterRepo repository.CounterRepository
}

func NewCounterService(counterRepo repository.CounterRepository) *CounterService {
	return &CounterService{counterRepo: counterRepo}
}

// Visit регистрирует посещение и возвращает счётчик текущей сессии
func (s *CounterService) Visit(ctx context.Context, sessionID string) (int64, error) {
	return s.counterRepo.Increment(ctx, sessionID)
}
