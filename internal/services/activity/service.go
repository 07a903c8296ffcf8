package activity

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/internal/repositories/activitylog"
	"github.com/Ramsey-B/clover/pkg/directory"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// Service is the read surface over the audit trail.
type Service struct {
	logger    ectologger.Logger
	activity  activitylog.ActivityLogRepository
	directory directory.ContactDirectory
}

// NewService creates a new activity service
func NewService(activity activitylog.ActivityLogRepository, dir directory.ContactDirectory, logger ectologger.Logger) *Service {
	return &Service{
		logger:    logger,
		activity:  activity,
		directory: dir,
	}
}

// ByUser returns a user's log entries, newest first. A user with no entries
// yields an empty slice; the user id need not reference a live contact.
func (s *Service) ByUser(ctx context.Context, userID string) ([]models.ActivityLog, error) {
	ctx, span := tracing.StartSpan(ctx, "activity.Service.ByUser")
	defer span.End()

	return s.activity.Query(ctx, models.ActivityQuery{UserID: &userID})
}

// Search returns entries matching all supplied filters, newest first.
func (s *Service) Search(ctx context.Context, query models.ActivityQuery) ([]models.ActivityLog, error) {
	ctx, span := tracing.StartSpan(ctx, "activity.Service.Search")
	defer span.End()

	return s.activity.Query(ctx, query)
}

// ContactWithHistory joins a live contact with its full log history. Fails
// with NotFound when the contact does not exist, even if log entries for the
// id survive.
func (s *Service) ContactWithHistory(ctx context.Context, userID string) (*models.ContactWithActivities, error) {
	ctx, span := tracing.StartSpan(ctx, "activity.Service.ContactWithHistory")
	defer span.End()

	contact, err := s.directory.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, httperror.NewHTTPError(http.StatusNotFound, "contact not found")
	}

	activities, err := s.activity.Query(ctx, models.ActivityQuery{UserID: &userID})
	if err != nil {
		return nil, err
	}

	return &models.ContactWithActivities{
		Contact:    *contact,
		Activities: activities,
	}, nil
}
