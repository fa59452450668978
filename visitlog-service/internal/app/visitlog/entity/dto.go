package entity

// PageMeta - метаданные пагинации списочных ответов
type PageMeta struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// VisitLogListResponse - страница журнала посещений
type VisitLogListResponse struct {
	Logs []VisitLog `json:"logs"`
	Meta PageMeta   `json:"meta"`
}

// PagesReportResponse - отчёт посещаемости по страницам
type PagesReportResponse struct {
	Rows []PageVisits `json:"rows"`
}

// UsersReportResponse - отчёт посещаемости по пользователям
type UsersReportResponse struct {
	Rows []UserVisits `json:"rows"`
}

// ErrorResponse - стандартный ответ с ошибкой.
// Redirect подсказывает клиенту, куда уйти после отказа в доступе.
type ErrorResponse struct {
	Error    string `json:"error"`
	Message  string `json:"message,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}
