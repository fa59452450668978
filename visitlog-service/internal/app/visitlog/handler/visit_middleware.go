package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"eduhub/pkg/access"
	"eduhub/pkg/logger"
	"eduhub/pkg/visitlog"
	"eduhub/visitlog-service/internal/app/visitlog/entity"
)

// DirectVisitRecorder записывает посещение напрямую в журнал
type DirectVisitRecorder interface {
	RecordDirect(ctx context.Context, log *entity.VisitLog) error
}

// DirectVisitMiddleware журналирует запросы к самому visitlog-service.
// Остальные сервисы публикуют события в Kafka, но гонять собственные
// посещения через брокер незачем - пишем сразу в хранилище.
// Запись best-effort и не блокирует ответ.
func DirectVisitMiddleware(recorder DirectVisitRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if visitlog.Excluded(path) {
			c.Next()
			return
		}

		// Сначала даем отработать middleware аутентификации
		c.Next()

		log := &entity.VisitLog{
			Path:      path,
			CreatedAt: time.Now(),
		}
		if identity := access.IdentityFromContext(c); identity != nil {
			log.UserID = identity.ID.String()
			log.UserName = identity.Name
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := recorder.RecordDirect(ctx, log); err != nil {
				logger.Warn().Err(err).Str("path", log.Path).Msg("Failed to record own visit")
			}
		}()
	}
}
