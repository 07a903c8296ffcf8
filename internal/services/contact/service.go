package contact

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	"github.com/Ramsey-B/clover/internal/repositories/activitylog"
	"github.com/Ramsey-B/clover/pkg/directory"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// Service manages contact documents in the directory and records each
// mutation on the audit trail.
type Service struct {
	logger    ectologger.Logger
	directory directory.ContactDirectory
	activity  activitylog.ActivityLogRepository
}

// NewService creates a new contact service
func NewService(dir directory.ContactDirectory, activity activitylog.ActivityLogRepository, logger ectologger.Logger) *Service {
	return &Service{
		logger:    logger,
		directory: dir,
		activity:  activity,
	}
}

// Add stores a new contact under a freshly generated user id and returns it.
// Ids are never reused, even after the contact is deleted.
func (s *Service) Add(ctx context.Context, req models.CreateContactRequest) (string, error) {
	ctx, span := tracing.StartSpan(ctx, "contact.Service.Add")
	defer span.End()

	contact := models.Contact{
		UserID: uuid.New().String(),
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
	}

	if err := s.directory.Insert(ctx, contact); err != nil {
		return "", err
	}

	s.logActivity(ctx, models.NewActivityLog(contact.UserID, models.ActivityContactCreated,
		fmt.Sprintf("New contact created for %s", contact.Name)))

	s.logger.WithContext(ctx).WithField("user_id", contact.UserID).Info("Contact created")

	return contact.UserID, nil
}

// Get returns the contact for a user id, or NotFound.
func (s *Service) Get(ctx context.Context, userID string) (*models.Contact, error) {
	ctx, span := tracing.StartSpan(ctx, "contact.Service.Get")
	defer span.End()

	contact, err := s.directory.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, httperror.NewHTTPError(http.StatusNotFound, "contact not found")
	}

	return contact, nil
}

// All returns every contact in the directory.
func (s *Service) All(ctx context.Context) ([]models.Contact, error) {
	ctx, span := tracing.StartSpan(ctx, "contact.Service.All")
	defer span.End()

	return s.directory.FindAll(ctx)
}

// Update patches the supplied fields on an existing contact. Fails with
// BadRequest when the request carries nothing to change and NotFound when the
// contact does not exist.
func (s *Service) Update(ctx context.Context, userID string, req models.UpdateContactRequest) error {
	ctx, span := tracing.StartSpan(ctx, "contact.Service.Update")
	defer span.End()

	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if len(fields) == 0 {
		return httperror.NewHTTPError(http.StatusBadRequest, "no valid fields to update")
	}

	contact, err := s.directory.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if contact == nil {
		return httperror.NewHTTPError(http.StatusNotFound, "contact not found")
	}

	if err := s.directory.UpdateFields(ctx, userID, fields); err != nil {
		return err
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	s.logActivity(ctx, models.NewActivityLog(userID, models.ActivityContactUpdated,
		fmt.Sprintf("Updated contact fields: %s", strings.Join(names, ", "))))

	return nil
}

// Delete removes a contact document. Relationship rows pointing at the
// deleted contact are left in place; readers drop them when the contact no
// longer resolves.
func (s *Service) Delete(ctx context.Context, userID string) error {
	ctx, span := tracing.StartSpan(ctx, "contact.Service.Delete")
	defer span.End()

	contact, err := s.directory.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if contact == nil {
		return httperror.NewHTTPError(http.StatusNotFound, "contact not found")
	}

	if err := s.directory.Delete(ctx, userID); err != nil {
		return err
	}

	s.logActivity(ctx, models.NewActivityLog(userID, models.ActivityContactDeleted,
		fmt.Sprintf("Contact deleted: %s", contact.Name)))

	return nil
}

// logActivity appends to the audit trail best-effort: a log-write fault must
// not abort an otherwise-successful business operation.
func (s *Service) logActivity(ctx context.Context, entry models.ActivityLog) {
	if _, err := s.activity.Append(ctx, entry); err != nil {
		s.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"user_id":       entry.UserID,
			"activity_type": entry.ActivityType,
		}).Warn("Failed to append activity log entry")
	}
}
