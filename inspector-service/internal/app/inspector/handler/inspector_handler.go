package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"eduhub/inspector-service/internal/app/inspector/entity"
	"eduhub/inspector-service/internal/app/inspector/util"
	"eduhub/pkg/logger"
)

// Сообщения проверки номера телефона, показываемые пользователю
const (
	MsgPhoneInvalidChars    = "Недопустимый ввод. В номере телефона встречаются недопустимые символы."
	MsgPhoneWrongDigitCount = "Недопустимый ввод. Неверное количество цифр."
)

const (
	cookieName        = "my_cookie"
	sessionCookieName = "session_id"
	sessionCookieAge  = 30 * 24 * 60 * 60
)

// CounterServiceInterface - счётчик посещений по сессиям
type CounterServiceInterface interface {
	Visit(ctx context.Context, sessionID string) (int64, error)
}

// InspectorHandler обрабатывает запросы инспекции HTTP-запросов
type InspectorHandler struct {
	counterService CounterServiceInterface
}

func NewInspectorHandler(counterService CounterServiceInterface) *InspectorHandler {
	return &InspectorHandler{counterService: counterService}
}

// Headers возвращает заголовки входящего запроса
// GET /headers
func (h *InspectorHandler) Headers(c *gin.Context) {
	c.JSON(http.StatusOK, entity.HeadersResponse{
		Headers: c.Request.Header,
	})
}

// URLParams возвращает параметры строки запроса
// GET /url
func (h *InspectorHandler) URLParams(c *gin.Context) {
	c.JSON(http.StatusOK, entity.URLParamsResponse{
		Params: c.Request.URL.Query(),
	})
}

// FormParams возвращает параметры отправленной формы.
// На GET без тела возвращается пустой набор.
// GET|POST /form
func (h *InspectorHandler) FormParams(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Error:   "Bad Request",
			Message: "Failed to parse form",
		})
		return
	}

	c.JSON(http.StatusOK, entity.FormParamsResponse{
		Params: c.Request.PostForm,
	})
}

// Cookies переключает cookie: существующая удаляется,
// отсутствующая устанавливается из параметра cookie
// GET /cookies?cookie=value
func (h *InspectorHandler) Cookies(c *gin.Context) {
	if _, err := c.Cookie(cookieName); err == nil {
		c.SetCookie(cookieName, "", -1, "/", "", false, true)
		c.JSON(http.StatusOK, entity.CookieResponse{CookieExists: false})
		return
	}

	value := c.Query("cookie")
	if value == "" {
		c.JSON(http.StatusOK, entity.CookieResponse{CookieExists: false})
		return
	}

	c.SetCookie(cookieName, value, 3600, "/", "", false, true)
	c.JSON(http.StatusOK, entity.CookieResponse{
		CookieExists: true,
		Name:         cookieName,
		Value:        value,
	})
}

// Phone проверяет номер телефона и приводит его к виду 8-XXX-XXX-XX-XX
// POST /phone
func (h *InspectorHandler) Phone(c *gin.Context) {
	var req entity.PhoneRequest
	if err := c.ShouldBind(&req); err != nil || req.Phone == "" {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Error:   "Bad Request",
			Message: "Phone number is required",
		})
		return
	}

	formatted, err := util.NormalizePhone(req.Phone)
	if err != nil {
		message := MsgPhoneInvalidChars
		if errors.Is(err, util.ErrPhoneWrongDigitCount) {
			message = MsgPhoneWrongDigitCount
		}
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Error:   "Validation Error",
			Message: message,
		})
		return
	}

	c.JSON(http.StatusOK, entity.PhoneResponse{
		Phone:     req.Phone,
		Formatted: formatted,
	})
}

// Counter считает посещения страницы в рамках сессии.
// Сессия привязывается к uuid-cookie, счётчик живёт в Redis.
// GET /counter
func (h *InspectorHandler) Counter(c *gin.Context) {
	sessionID, err := c.Cookie(sessionCookieName)
	if err != nil || sessionID == "" {
		sessionID = uuid.NewString()
		c.SetCookie(sessionCookieName, sessionID, sessionCookieAge, "/", "", false, true)
	}

	count, err := h.counterService.Visit(c.Request.Context(), sessionID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to increment visit counter")
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to increment visit counter",
		})
		return
	}

	c.JSON(http.StatusOK, entity.CounterResponse{
		SessionID:  sessionID,
		VisitCount: count,
	})
}
