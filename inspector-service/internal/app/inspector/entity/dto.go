package entity

// HeadersResponse - заголовки входящего запроса
type HeadersResponse struct {
	Headers map[string][]string `json:"headers"`
}

// URLParamsResponse - параметры строки запроса
type URLParamsResponse struct {
	Params map[string][]string `json:"params"`
}

// FormParamsResponse - параметры отправленной формы
type FormParamsResponse struct {
	Params map[string][]string `json:"params"`
}

// CookieResponse - состояние cookie после переключения
type CookieResponse struct {
	CookieExists bool   `json:"cookie_exists"`
	Name         string `json:"name,omitempty"`
	Value        string `json:"value,omitempty"`
}

// PhoneRequest - номер телефона для проверки
type PhoneRequest struct {
	Phone string `json:"phone" form:"phone"`
}

// PhoneResponse - нормализованный номер телефона
type PhoneResponse struct {
	Phone     string `json:"phone"`
	Formatted string `json:"formatted"`
}

// CounterResponse - счётчик посещений текущей сессии
type CounterResponse struct {
	SessionID  string `json:"session_id"`
	VisitCount int64  `json:"visit_count"`
}

// ErrorResponse - стандартный ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
