package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AnonymousUserLabel - подпись анонимных посещений в отчёте по пользователям
const AnonymousUserLabel = "Неаутентифицированный пользователь"

// VisitLog - одна запись журнала посещений.
// Записи неизменяемы: журнал только пополняется.
type VisitLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Path      string             `bson:"path" json:"path"`
	UserID    string             `bson:"user_id,omitempty" json:"user_id,omitempty"`
	UserName  string             `bson:"user_name,omitempty" json:"user_name,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// PageVisits - строка отчёта посещаемости по страницам
type PageVisits struct {
	Path       string `bson:"_id" json:"path"`
	VisitCount int64  `bson:"visit_count" json:"visit_count"`
}

// UserVisits - строка отчёта посещаемости по пользователям.
// Пустой UserID означает анонимные посещения.
type UserVisits struct {
	UserID     string `bson:"_id" json:"user_id,omitempty"`
	UserName   string `bson:"user_name" json:"user_name"`
	VisitCount int64  `bson:"visit_count" json:"visit_count"`
}
