package visitlog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eduhub/pkg/access"
)

// channelPublisher отдаёт опубликованные события в канал,
// чтобы тест мог дождаться асинхронной публикации
type channelPublisher struct {
	events chan VisitEvent
}

func newChannelPublisher() *channelPublisher {
	return &channelPublisher{events: make(chan VisitEvent, 10)}
}

func (p *channelPublisher) PublishMessage(_ context.Context, _ string, value []byte) error {
	var event VisitEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return err
	}
	p.events <- event
	return nil
}

func (p *channelPublisher) wait(t *testing.T) VisitEvent {
	t.Helper()
	select {
	case event := <-p.events:
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("visit event was not published")
		return VisitEvent{}
	}
}

func (p *channelPublisher) assertNone(t *testing.T) {
	t.Helper()
	select {
	case event := <-p.events:
		t.Fatalf("unexpected visit event for path %s", event.Path)
	case <-time.After(100 * time.Millisecond):
	}
}

func setupVisitRouter(publisher Publisher, identity *access.Identity) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(GinVisitMiddleware(publisher))
	handler := func(c *gin.Context) {
		if identity != nil {
			access.SetIdentity(c, identity)
		}
		c.Status(http.StatusOK)
	}
	router.GET("/courses", handler)
	router.GET("/health", handler)
	router.GET("/favicon.ico", handler)
	router.GET("/static/app.css", handler)
	router.GET("/auth/logout", handler)
	return router
}

func TestVisitMiddleware_PublishesOneEvent(t *testing.T) {
	publisher := newChannelPublisher()
	router := setupVisitRouter(publisher, nil)

	req, _ := http.NewRequest(http.MethodGet, "/courses", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	event := publisher.wait(t)
	assert.Equal(t, EventTypePageVisited, event.EventType)
	assert.Equal(t, "/courses", event.Path)
	assert.Empty(t, event.UserID)
	publisher.assertNone(t)
}

func TestVisitMiddleware_CarriesIdentity(t *testing.T) {
	publisher := newChannelPublisher()
	identity := &access.Identity{
		ID:       uuid.New(),
		Name:     "Иванов Иван",
		RoleID:   access.RoleUserID,
		RoleName: access.RoleUser,
	}
	router := setupVisitRouter(publisher, identity)

	req, _ := http.NewRequest(http.MethodGet, "/courses", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	event := publisher.wait(t)
	require.Equal(t, identity.ID.String(), event.UserID)
	assert.Equal(t, "Иванов Иван", event.UserName)
}

func TestVisitMiddleware_ExcludedPaths(t *testing.T) {
	publisher := newChannelPublisher()
	router := setupVisitRouter(publisher, nil)

	for _, path := range []string{"/health", "/favicon.ico", "/static/app.css", "/auth/logout"} {
		req, _ := http.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	publisher.assertNone(t)
}

func TestExcluded(t *testing.T) {
	assert.True(t, Excluded("/favicon.ico"))
	assert.True(t, Excluded("/static/css/main.css"))
	assert.True(t, Excluded("/auth/logout"))
	assert.False(t, Excluded("/courses"))
	assert.False(t, Excluded("/visit_logs"))
}
