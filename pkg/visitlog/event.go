package visitlog

import (
	"context"
	"time"
)

// EventTypePageVisited - единственный тип события журнала посещений
const EventTypePageVisited = "PAGE_VISITED"

// VisitEvent - событие посещения страницы, отправляемое в топик visit_events.
// Одно входящее HTTP-обращение порождает ровно одно событие.
// Имя пользователя дублируется в событии, чтобы отчёты не ходили в чужую БД.
type VisitEvent struct {
	EventType  string    `json:"event_type"`
	Path       string    `json:"path"`
	UserID     string    `json:"user_id,omitempty"`
	UserName   string    `json:"user_name,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher отправляет сериализованное событие с ключом партиционирования
type Publisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
}
