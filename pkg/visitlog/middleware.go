package visitlog

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"eduhub/pkg/access"
	"eduhub/pkg/logger"
)

// Пути, посещения которых не попадают в журнал:
// статика, favicon, выход из системы и служебные endpoints
var excludedPrefixes = []string{"/static/"}

var excludedPaths = map[string]struct{}{
	"/favicon.ico": {},
	"/health":      {},
	"/metrics":     {},
	"/auth/logout": {},
}

// Excluded сообщает, исключён ли путь из журналирования посещений
func Excluded(path string) bool {
	if _, ok := excludedPaths[path]; ok {
		return true
	}
	for _, prefix := range excludedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// GinVisitMiddleware публикует одно событие посещения на каждый входящий запрос.
// Отправка выполняется в отдельной горутине: сбой журналирования
// никогда не блокирует и не роняет основной ответ.
func GinVisitMiddleware(publisher Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if Excluded(path) {
			c.Next()
			return
		}

		// Даем обработчику отработать, чтобы middleware аутентификации
		// успело положить идентичность в контекст
		c.Next()

		event := VisitEvent{
			EventType:  EventTypePageVisited,
			Path:       path,
			OccurredAt: time.Now(),
		}

		if identity := access.IdentityFromContext(c); identity != nil {
			event.UserID = identity.ID.String()
			event.UserName = identity.Name
		}

		go publish(publisher, event)
	}
}

func publish(publisher Publisher, event VisitEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to marshal visit event")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := publisher.PublishMessage(ctx, event.Path, data); err != nil {
		// Журналирование посещений - best-effort
		logger.Warn().Err(err).Str("path", event.Path).Msg("Failed to publish visit event")
	}
}
