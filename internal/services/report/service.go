package report

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/xuri/excelize/v2"

	"github.com/Ramsey-B/clover/internal/repositories/activitylog"
	relationshiprepo "github.com/Ramsey-B/clover/internal/repositories/relationship"
	"github.com/Ramsey-B/clover/pkg/directory"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

const (
	ownerSheetName   = "Linked Contacts"
	summarySheetName = "Users Summary"
	detailsSheetName = "Contact Details"

	// workbook layout: title row 1, timestamp row 2, blank row 3,
	// header row 4, data from row 5 (1-based)
	titleRow     = 1
	timestampRow = 2
	headerRow    = 4
	firstDataRow = 5

	notSpecified = "Not specified"

	timestampLayout = "2006-01-02 15:04:05"
)

var (
	ownerHeaders   = []any{"User ID", "Name", "Email", "Phone", "Relationship Type"}
	summaryHeaders = []any{"User ID", "Name", "Email", "Phone", "Linked Contacts"}
	detailsHeaders = []any{"Owner Email", "User ID", "Name", "Email", "Phone", "Relationship Type"}
)

// LinkedContactLister resolves an owner's linked contacts
type LinkedContactLister interface {
	ListLinked(ctx context.Context, ownerEmail string) ([]models.LinkedContact, error)
}

// ExportNotifier publishes a status message after an export run
type ExportNotifier interface {
	NotifyExportGenerated(ctx context.Context, message string) error
}

// Service builds spreadsheet exports. It only reads the two stores; exports
// hold no locks and may reflect a snapshot that is stale by the time the
// workbook reaches the caller.
type Service struct {
	logger    ectologger.Logger
	directory directory.ContactDirectory
	relRepo   relationshiprepo.RelationshipRepository
	linked    LinkedContactLister
	activity  activitylog.ActivityLogRepository
	notifier  ExportNotifier
}

// NewService creates a new report service
func NewService(
	dir directory.ContactDirectory,
	relRepo relationshiprepo.RelationshipRepository,
	linked LinkedContactLister,
	activity activitylog.ActivityLogRepository,
	notifier ExportNotifier,
	logger ectologger.Logger,
) *Service {
	return &Service{
		logger:    logger,
		directory: dir,
		relRepo:   relRepo,
		linked:    linked,
		activity:  activity,
		notifier:  notifier,
	}
}

// ExportOwnerContacts renders one owner's linked contacts as a single-sheet
// workbook. Fails with NotFound when the owner has no linked contacts.
func (s *Service) ExportOwnerContacts(ctx context.Context, ownerEmail string) ([]byte, error) {
	ctx, span := tracing.StartSpan(ctx, "report.Service.ExportOwnerContacts")
	defer span.End()

	linked, err := s.linked.ListLinked(ctx, ownerEmail)
	if err != nil {
		return nil, err
	}
	if len(linked) == 0 {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "no linked contacts found for %s", ownerEmail)
	}

	s.logActivity(ctx, models.NewActivityLog(models.SystemUserID, models.ActivityExportExcel,
		fmt.Sprintf("Excel export generated for %s", ownerEmail)))

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ownerSheetName); err != nil {
		return nil, s.buildError(ctx, err)
	}

	if err := s.writeSheetHeader(f, ownerSheetName, "Contact Management System - Linked Contacts", ownerHeaders); err != nil {
		return nil, s.buildError(ctx, err)
	}

	for i, contact := range linked {
		relationshipType := notSpecified
		if contact.RelationshipType != nil {
			relationshipType = *contact.RelationshipType
		}
		row := []any{
			contact.UserID,
			contact.Name,
			contact.Email,
			strconv.FormatInt(contact.Phone, 10),
			relationshipType,
		}
		if err := writeRow(f, ownerSheetName, firstDataRow+i, row); err != nil {
			return nil, s.buildError(ctx, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, s.buildError(ctx, err)
	}

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"owner_email": ownerEmail,
		"contacts":    len(linked),
	}).Info("Generated owner contacts export")

	return buf.Bytes(), nil
}

// ExportAllUsers renders every contact plus its linked-contact count, and a
// second sheet listing each relationship row with its resolved contact.
// Per-contact count failures degrade that data point to zero rather than
// failing the export; relationship rows whose contact cannot be resolved are
// skipped. Fails with NotFound when the directory is empty.
func (s *Service) ExportAllUsers(ctx context.Context) ([]byte, error) {
	ctx, span := tracing.StartSpan(ctx, "report.Service.ExportAllUsers")
	defer span.End()

	users, err := s.directory.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, httperror.NewHTTPError(http.StatusNotFound, "no users found in the directory")
	}

	s.logActivity(ctx, models.NewActivityLog(models.SystemUserID, models.ActivityExportAllUsers,
		"Excel export generated for all users and their relationships"))

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheetName); err != nil {
		return nil, s.buildError(ctx, err)
	}
	if _, err := f.NewSheet(detailsSheetName); err != nil {
		return nil, s.buildError(ctx, err)
	}

	if err := s.writeSummarySheet(ctx, f, users); err != nil {
		return nil, err
	}
	if err := s.writeDetailsSheet(ctx, f, users); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, s.buildError(ctx, err)
	}

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"users": len(users),
	}).Info("Generated all users export")

	// fire-and-forget: a failed publish never surfaces to the caller
	if err := s.notifier.NotifyExportGenerated(ctx, "All users export generated"); err != nil {
		s.logger.WithContext(ctx).WithError(err).Warn("Failed to publish export notification")
	}

	return buf.Bytes(), nil
}

func (s *Service) writeSummarySheet(ctx context.Context, f *excelize.File, users []models.Contact) error {
	if err := s.writeSheetHeader(f, summarySheetName, "Contact Management System - Users Summary", summaryHeaders); err != nil {
		return s.buildError(ctx, err)
	}

	for i, user := range users {
		count := 0
		if user.Email != "" {
			c, err := s.relRepo.CountByOwner(ctx, user.Email)
			if err != nil {
				// degrade the data point, not the export
				s.logger.WithContext(ctx).WithError(err).WithField("owner_email", user.Email).
					Warn("Failed to count relationships, defaulting to 0")
			} else {
				count = c
			}
		}

		row := []any{
			user.UserID,
			user.Name,
			user.Email,
			strconv.FormatInt(user.Phone, 10),
			count,
		}
		if err := writeRow(f, summarySheetName, firstDataRow+i, row); err != nil {
			return s.buildError(ctx, err)
		}
	}

	totalRow := firstDataRow + len(users) + 1
	if err := writeRow(f, summarySheetName, totalRow, []any{fmt.Sprintf("Total Users: %d", len(users))}); err != nil {
		return s.buildError(ctx, err)
	}

	return nil
}

func (s *Service) writeDetailsSheet(ctx context.Context, f *excelize.File, users []models.Contact) error {
	if err := s.writeSheetHeader(f, detailsSheetName, "Contact Management System - Detailed Relationships", detailsHeaders); err != nil {
		return s.buildError(ctx, err)
	}

	userByID := make(map[string]models.Contact, len(users))
	for _, user := range users {
		if user.UserID != "" {
			userByID[user.UserID] = user
		}
	}

	rels, err := s.relRepo.ListAll(ctx)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Warn("Failed to list relationships for details sheet")
		rels = nil
	}

	row := firstDataRow
	for _, rel := range rels {
		contact, ok := userByID[rel.LinkedUserID]
		if !ok {
			// orphan row referencing a deleted contact, skip
			continue
		}

		relationshipType := notSpecified
		if rel.RelationshipType != nil {
			relationshipType = *rel.RelationshipType
		}

		values := []any{
			rel.OwnerEmail,
			rel.LinkedUserID,
			contact.Name,
			contact.Email,
			strconv.FormatInt(contact.Phone, 10),
			relationshipType,
		}
		if err := writeRow(f, detailsSheetName, row, values); err != nil {
			return s.buildError(ctx, err)
		}
		row++
	}

	notice := "No relationships found"
	if len(rels) > 0 {
		notice = fmt.Sprintf("Total Relationships: %d", len(rels))
	}
	if err := writeRow(f, detailsSheetName, row+1, []any{notice}); err != nil {
		return s.buildError(ctx, err)
	}

	return nil
}

func (s *Service) writeSheetHeader(f *excelize.File, sheet, title string, headers []any) error {
	if err := writeRow(f, sheet, titleRow, []any{title}); err != nil {
		return err
	}
	generatedOn := fmt.Sprintf("Generated on: %s", time.Now().Format(timestampLayout))
	if err := writeRow(f, sheet, timestampRow, []any{generatedOn}); err != nil {
		return err
	}
	return writeRow(f, sheet, headerRow, headers)
}

func (s *Service) buildError(ctx context.Context, err error) error {
	s.logger.WithContext(ctx).WithError(err).Error("Excel generation failed")
	return httperror.NewHTTPErrorf(http.StatusInternalServerError, "Excel generation failed: %s", err.Error())
}

// logActivity appends to the audit trail best-effort; exports never fail on
// a log-write fault.
func (s *Service) logActivity(ctx context.Context, entry models.ActivityLog) {
	if _, err := s.activity.Append(ctx, entry); err != nil {
		s.logger.WithContext(ctx).WithError(err).WithField("activity_type", entry.ActivityType).
			Warn("Failed to append activity log entry")
	}
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	for i, value := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return err
		}
	}
	return nil
}
