package contact

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	contactsvc "github.com/Ramsey-B/clover/internal/services/contact"
	"github.com/Ramsey-B/clover/pkg/models"
)

// Handler handles contact API requests
type Handler struct {
	service  *contactsvc.Service
	validate *validator.Validate
	logger   ectologger.Logger
}

// NewHandler creates a new contact handler
func NewHandler(service *contactsvc.Service, logger ectologger.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes registers contact routes on the group
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:user_id", h.Get)
	g.PUT("/:user_id", h.Update)
	g.DELETE("/:user_id", h.Delete)
}

// Create adds a new contact and returns its generated user id
// POST /contacts
func (h *Handler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.CreateContactRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	userID, err := h.service.Add(ctx, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, models.CreateContactResponse{
		Message: "Contact created successfully",
		UserID:  userID,
	})
}

// List returns every contact
// GET /contacts
func (h *Handler) List(c echo.Context) error {
	ctx := c.Request().Context()

	contacts, err := h.service.All(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.ContactListResponse{Contacts: contacts})
}

// Get returns a single contact by user id
// GET /contacts/:user_id
func (h *Handler) Get(c echo.Context) error {
	ctx := c.Request().Context()

	contact, err := h.service.Get(ctx, c.Param("user_id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, contact)
}

// Update patches the supplied fields on a contact
// PUT /contacts/:user_id
func (h *Handler) Update(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.UpdateContactRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.service.Update(ctx, c.Param("user_id"), req); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Contact updated successfully"})
}

// Delete removes a contact; its audit trail entries survive
// DELETE /contacts/:user_id
func (h *Handler) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.service.Delete(ctx, c.Param("user_id")); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Contact deleted successfully"})
}
