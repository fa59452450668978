package handler

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"eduhub/pkg/access"
	"eduhub/pkg/logger"
	"eduhub/visitlog-service/internal/app/visitlog/entity"
)

// VisitLogServiceInterface - выборка журнала посещений
type VisitLogServiceInterface interface {
	List(ctx context.Context, identity *access.Identity, page, perPage int) (*entity.VisitLogListResponse, error)
}

// ReportServiceInterface - отчёты посещаемости
type ReportServiceInterface interface {
	PagesReport(ctx context.Context) ([]entity.PageVisits, error)
	UsersReport(ctx context.Context) ([]entity.UserVisits, error)
	WritePagesCSV(ctx context.Context, w io.Writer) error
	WriteUsersCSV(ctx context.Context, w io.Writer) error
}

// VisitLogHandler обрабатывает запросы журнала посещений и отчётов
type VisitLogHandler struct {
	visitService  VisitLogServiceInterface
	reportService ReportServiceInterface
}

func NewVisitLogHandler(visitService VisitLogServiceInterface, reportService ReportServiceInterface) *VisitLogHandler {
	return &VisitLogHandler{
		visitService:  visitService,
		reportService: reportService,
	}
}

// ListVisitLogs возвращает страницу журнала.
// Администратор видит весь журнал, остальные - только свои записи.
// GET /visit_logs?page=1&per_page=10
func (h *VisitLogHandler) ListVisitLogs(c *gin.Context) {
	identity := access.IdentityFromContext(c)
	if identity == nil {
		AbortUnauthenticated(c)
		return
	}

	page := intQuery(c, "page", 1)
	perPage := intQuery(c, "per_page", 10)

	resp, err := h.visitService.List(c.Request.Context(), identity, page, perPage)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list visit logs")
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to list visit logs",
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// PagesReport возвращает посещаемость по страницам
// GET /visit_logs/pages_report
func (h *VisitLogHandler) PagesReport(c *gin.Context) {
	rows, err := h.reportService.PagesReport(c.Request.Context())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to build pages report")
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to build pages report",
		})
		return
	}

	c.JSON(http.StatusOK, entity.PagesReportResponse{Rows: rows})
}

// UsersReport возвращает посещаемость по пользователям
// GET /visit_logs/users_report
func (h *VisitLogHandler) UsersReport(c *gin.Context) {
	rows, err := h.reportService.UsersReport(c.Request.Context())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to build users report")
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to build users report",
		})
		return
	}

	c.JSON(http.StatusOK, entity.UsersReportResponse{Rows: rows})
}

// PagesReportCSV выгружает отчёт по страницам файлом
// GET /visit_logs/pages_report/export
func (h *VisitLogHandler) PagesReportCSV(c *gin.Context) {
	writeCSVHeaders(c, "pages_report.csv")

	if err := h.reportService.WritePagesCSV(c.Request.Context(), c.Writer); err != nil {
		logger.Error().Err(err).Msg("Failed to export pages report")
	}
}

// UsersReportCSV выгружает отчёт по пользователям файлом
// GET /visit_logs/users_report/export
func (h *VisitLogHandler) UsersReportCSV(c *gin.Context) {
	writeCSVHeaders(c, "users_report.csv")

	if err := h.reportService.WriteUsersCSV(c.Request.Context(), c.Writer); err != nil {
		logger.Error().Err(err).Msg("Failed to export users report")
	}
}

func writeCSVHeaders(c *gin.Context, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Status(http.StatusOK)
}

func intQuery(c *gin.Context, name string, defaultValue int) int {
	raw := c.Query(name)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return value
}
