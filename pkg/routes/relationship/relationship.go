package relationship

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	relationshipsvc "github.com/Ramsey-B/clover/internal/services/relationship"
	reportsvc "github.com/Ramsey-B/clover/internal/services/report"
	"github.com/Ramsey-B/clover/pkg/models"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handler handles relationship API requests
type Handler struct {
	service  *relationshipsvc.Service
	reports  *reportsvc.Service
	validate *validator.Validate
	logger   ectologger.Logger
}

// NewHandler creates a new relationship handler
func NewHandler(service *relationshipsvc.Service, reports *reportsvc.Service, logger ectologger.Logger) *Handler {
	return &Handler{
		service:  service,
		reports:  reports,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes registers relationship routes on the group
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/link", h.Link)
	g.POST("/link-bulk", h.LinkBulk)
	g.DELETE("/unlink", h.Unlink)
	g.GET("/linked/:owner_email", h.ListLinked)
	g.GET("/export-excel/:owner_email", h.ExportExcel)
}

// Link links a contact to an owner email
// POST /contacts/relationships/link
func (h *Handler) Link(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.LinkRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	id, err := h.service.Link(ctx, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.LinkResponse{
		Message:        "Contact linked successfully",
		RelationshipID: id,
	})
}

// LinkBulk links multiple contacts to one owner; failures are reported per id
// and never abort the batch
// POST /contacts/relationships/link-bulk
func (h *Handler) LinkBulk(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.BulkLinkRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.LinkBulk(ctx, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

// Unlink removes a relationship identified by owner_email and linked_user_id
// query parameters
// DELETE /contacts/relationships/unlink
func (h *Handler) Unlink(c echo.Context) error {
	ctx := c.Request().Context()

	ownerEmail := c.QueryParam("owner_email")
	linkedUserID := c.QueryParam("linked_user_id")
	if ownerEmail == "" || linkedUserID == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "owner_email and linked_user_id query parameters are required")
	}

	if err := h.service.Unlink(ctx, ownerEmail, linkedUserID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Contact unlinked successfully"})
}

// ListLinked returns the owner's linked contacts with relationship types
// GET /contacts/relationships/linked/:owner_email
func (h *Handler) ListLinked(c echo.Context) error {
	ctx := c.Request().Context()
	ownerEmail := c.Param("owner_email")

	linked, err := h.service.ListLinked(ctx, ownerEmail)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.LinkedContactsResponse{
		LinkedContacts: linked,
		Count:          len(linked),
	})
}

// ExportExcel streams the owner's linked contacts as a spreadsheet download
// GET /contacts/relationships/export-excel/:owner_email
func (h *Handler) ExportExcel(c echo.Context) error {
	ctx := c.Request().Context()
	ownerEmail := c.Param("owner_email")

	data, err := h.reports.ExportOwnerContacts(ctx, ownerEmail)
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("contacts_%s_%s.xlsx",
		strings.ReplaceAll(ownerEmail, "@", "_at_"),
		time.Now().Format("20060102_150405"))

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Blob(http.StatusOK, xlsxContentType, data)
}
