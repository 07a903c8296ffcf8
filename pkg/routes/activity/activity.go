package activity

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	activitysvc "github.com/Ramsey-B/clover/internal/services/activity"
	"github.com/Ramsey-B/clover/pkg/models"
)

// Handler handles activity log API requests
type Handler struct {
	service *activitysvc.Service
	logger  ectologger.Logger
}

// NewHandler creates a new activity handler
func NewHandler(service *activitysvc.Service, logger ectologger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers activity routes on the group
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/user/:user_id", h.ByUser)
	g.POST("/search", h.Search)
	g.GET("/contact-with-history/:user_id", h.ContactWithHistory)
}

// ByUser returns a user's activity log entries, newest first
// GET /activities/user/:user_id
func (h *Handler) ByUser(c echo.Context) error {
	ctx := c.Request().Context()

	activities, err := h.service.ByUser(ctx, c.Param("user_id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.ActivityListResponse{Activities: activities})
}

// Search returns entries matching the posted filters
// POST /activities/search
func (h *Handler) Search(c echo.Context) error {
	ctx := c.Request().Context()

	var query models.ActivityQuery
	if err := c.Bind(&query); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	activities, err := h.service.Search(ctx, query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.ActivityListResponse{Activities: activities})
}

// ContactWithHistory joins a live contact with its log history
// GET /activities/contact-with-history/:user_id
func (h *Handler) ContactWithHistory(c echo.Context) error {
	ctx := c.Request().Context()

	result, err := h.service.ContactWithHistory(ctx, c.Param("user_id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}
