package report

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	reportsvc "github.com/Ramsey-B/clover/internal/services/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handler handles report API requests
type Handler struct {
	service *reportsvc.Service
	logger  ectologger.Logger
}

// NewHandler creates a new report handler
func NewHandler(service *reportsvc.Service, logger ectologger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers report routes on the group
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/export-all-users", h.ExportAllUsers)
}

// ExportAllUsers streams the two-sheet all-users workbook as a download
// GET /reports/export-all-users
func (h *Handler) ExportAllUsers(c echo.Context) error {
	ctx := c.Request().Context()

	data, err := h.service.ExportAllUsers(ctx)
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("all_users_contacts_%s.xlsx", time.Now().Format("20060102_150405"))

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Blob(http.StatusOK, xlsxContentType, data)
}
