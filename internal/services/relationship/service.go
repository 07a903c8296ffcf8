package relationship

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/internal/repositories/activitylog"
	relationshiprepo "github.com/Ramsey-B/clover/internal/repositories/relationship"
	"github.com/Ramsey-B/clover/pkg/directory"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// Service orchestrates the relationship store, the contact directory and the
// activity log. The two stores share no transaction: a crash between the
// directory check and the relationship write can leave them momentarily
// inconsistent, and the log is diagnostic, not authoritative.
type Service struct {
	logger    ectologger.Logger
	repo      relationshiprepo.RelationshipRepository
	directory directory.ContactDirectory
	activity  activitylog.ActivityLogRepository
}

// NewService creates a new relationship service
func NewService(
	repo relationshiprepo.RelationshipRepository,
	dir directory.ContactDirectory,
	activity activitylog.ActivityLogRepository,
	logger ectologger.Logger,
) *Service {
	return &Service{
		logger:    logger,
		repo:      repo,
		directory: dir,
		activity:  activity,
	}
}

// Link links a contact to an owner email. The linked contact must exist in
// the directory; a repeat link for the same pair overwrites the stored
// relationship type instead of creating a second row. Returns the row id.
func (s *Service) Link(ctx context.Context, req models.LinkRequest) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, "relationship.Service.Link")
	defer span.End()

	contact, err := s.directory.FindByID(ctx, req.LinkedUserID)
	if err != nil {
		return 0, err
	}
	if contact == nil {
		return 0, httperror.NewHTTPError(http.StatusNotFound, "linked contact not found")
	}

	id, inserted, err := s.repo.Upsert(ctx, req.OwnerEmail, req.LinkedUserID, req.RelationshipType)
	if err != nil {
		return 0, err
	}

	activityType := models.ActivityRelationshipUpdated
	description := fmt.Sprintf("Contact relationship with %s updated", req.OwnerEmail)
	if inserted {
		activityType = models.ActivityRelationshipAdded
		description = fmt.Sprintf("Contact linked to %s", req.OwnerEmail)
	}
	s.logActivity(ctx, models.NewActivityLog(req.LinkedUserID, activityType, description))

	return id, nil
}

// LinkBulk links each id sequentially. An id that fails is collected rather
// than aborting the batch; partial success is the designed behavior and the
// call itself never fails.
func (s *Service) LinkBulk(ctx context.Context, req models.BulkLinkRequest) (models.BulkLinkResult, error) {
	ctx, span := tracing.StartSpan(ctx, "relationship.Service.LinkBulk")
	defer span.End()

	result := models.BulkLinkResult{
		FailedIDs: []string{},
	}

	for _, userID := range req.LinkedUserIDs {
		_, err := s.Link(ctx, models.LinkRequest{
			OwnerEmail:       req.OwnerEmail,
			LinkedUserID:     userID,
			RelationshipType: req.RelationshipType,
		})
		if err != nil {
			result.FailedIDs = append(result.FailedIDs, userID)
			result.Failures = append(result.Failures, models.BulkLinkFailure{
				UserID: userID,
				Reason: err.Error(),
			})
			continue
		}
		result.AddedCount++
	}

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"owner_email": req.OwnerEmail,
		"added_count": result.AddedCount,
		"failed":      len(result.FailedIDs),
	}).Info("Bulk link completed")

	return result, nil
}

// Unlink deletes the unique matching relationship row. Returns NotFound when
// no row matches; it never silently succeeds on absence.
func (s *Service) Unlink(ctx context.Context, ownerEmail, linkedUserID string) error {
	ctx, span := tracing.StartSpan(ctx, "relationship.Service.Unlink")
	defer span.End()

	if err := s.repo.Delete(ctx, ownerEmail, linkedUserID); err != nil {
		return err
	}

	s.logActivity(ctx, models.NewActivityLog(linkedUserID, models.ActivityRelationshipRemoved,
		fmt.Sprintf("Contact unlinked from %s", ownerEmail)))

	return nil
}

// ListLinked returns the owner's linked contacts annotated with their stored
// relationship type. An owner with no links yields an empty slice, not an
// error. Relationship rows whose contact cannot be resolved in the directory
// are dropped from the result; the drop count is logged.
func (s *Service) ListLinked(ctx context.Context, ownerEmail string) ([]models.LinkedContact, error) {
	ctx, span := tracing.StartSpan(ctx, "relationship.Service.ListLinked")
	defer span.End()

	rels, err := s.repo.ListByOwner(ctx, ownerEmail)
	if err != nil {
		return nil, err
	}

	linked := make([]models.LinkedContact, 0, len(rels))
	dropped := 0
	for _, rel := range rels {
		contact, err := s.directory.FindByID(ctx, rel.LinkedUserID)
		if err != nil {
			s.logger.WithContext(ctx).WithError(err).WithField("linked_user_id", rel.LinkedUserID).
				Warn("Failed to resolve linked contact, dropping from result")
			dropped++
			continue
		}
		if contact == nil {
			dropped++
			continue
		}
		linked = append(linked, models.LinkedContact{
			Contact:          *contact,
			RelationshipType: rel.RelationshipType,
		})
	}

	if dropped > 0 {
		s.logger.WithContext(ctx).WithFields(map[string]any{
			"owner_email": ownerEmail,
			"dropped":     dropped,
		}).Warn("Dropped relationship rows with unresolved contacts")
	}

	return linked, nil
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
