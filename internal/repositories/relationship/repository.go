package relationship

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/pkg/database"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// RelationshipRepository defines the interface for relationship link access.
// The (owner_email, linked_user_id) pair is unique at the store level.
type RelationshipRepository interface {
	Upsert(ctx context.Context, ownerEmail, linkedUserID string, relationshipType *string) (int64, bool, error)
	Delete(ctx context.Context, ownerEmail, linkedUserID string) error
	ListByOwner(ctx context.Context, ownerEmail string) ([]models.ContactRelationship, error)
	CountByOwner(ctx context.Context, ownerEmail string) (int, error)
	ListAll(ctx context.Context) ([]models.ContactRelationship, error)
}

// Repository implements RelationshipRepository
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new relationship repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Upsert inserts a relationship row, or overwrites relationship_type when the
// (owner_email, linked_user_id) pair already exists. A single atomic
// statement, so concurrent writers cannot race between insert and update.
// Returns the row id and whether a new row was inserted.
func (r *Repository) Upsert(ctx context.Context, ownerEmail, linkedUserID string, relationshipType *string) (int64, bool, error) {
	ctx, span := tracing.StartSpan(ctx, "relationship.Repository.Upsert")
	defer span.End()

	query := `
		INSERT INTO contact_relationships (owner_email, linked_user_id, relationship_type, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (owner_email, linked_user_id)
		DO UPDATE SET relationship_type = EXCLUDED.relationship_type
		RETURNING id, (xmax = 0) AS inserted
	`

	var result struct {
		ID       int64 `db:"id"`
		Inserted bool  `db:"inserted"`
	}
	if err := r.db.GetContext(ctx, &result, query, ownerEmail, linkedUserID, relationshipType, time.Now().UTC()); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"owner_email":    ownerEmail,
			"linked_user_id": linkedUserID,
		}).Error("Failed to upsert relationship")
		return 0, false, httperror.NewHTTPError(http.StatusInternalServerError, "failed to upsert relationship")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id":             result.ID,
		"owner_email":    ownerEmail,
		"linked_user_id": linkedUserID,
		"inserted":       result.Inserted,
	}).Debug("Upserted relationship")

	return result.ID, result.Inserted, nil
}

// Delete removes the unique matching row. Returns NotFound when no row
// matches.
func (r *Repository) Delete(ctx context.Context, ownerEmail, linkedUserID string) error {
	ctx, span := tracing.StartSpan(ctx, "relationship.Repository.Delete")
	defer span.End()

	db := relationshipStruct.DeleteFrom(relationshipsTable)
	db.Where(
		db.Equal("owner_email", ownerEmail),
		db.Equal("linked_user_id", linkedUserID),
	)

	sql, args := db.Build()

	result, err := r.db.ExecContext(ctx, sql, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to delete relationship")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete relationship")
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return httperror.NewHTTPError(http.StatusNotFound, "relationship not found")
	}

	return nil
}

// ListByOwner returns all relationship rows for an owner, oldest first.
func (r *Repository) ListByOwner(ctx context.Context, ownerEmail string) ([]models.ContactRelationship, error) {
	ctx, span := tracing.StartSpan(ctx, "relationship.Repository.ListByOwner")
	defer span.End()

	sb := relationshipStruct.SelectFrom(relationshipsTable)
	sb.Where(sb.Equal("owner_email", ownerEmail))
	sb.OrderBy("created_at").Asc()

	sql, args := sb.Build()

	var rows []RelationshipRow
	if err := r.db.SelectContext(ctx, &rows, sql, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("owner_email", ownerEmail).Error("Failed to list relationships")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list relationships")
	}

	return ToRelationships(rows), nil
}

// CountByOwner returns the number of relationship rows for an owner.
func (r *Repository) CountByOwner(ctx context.Context, ownerEmail string) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "relationship.Repository.CountByOwner")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select("COUNT(*)").From(relationshipsTable)
	sb.Where(sb.Equal("owner_email", ownerEmail))

	sql, args := sb.Build()

	var count int
	if err := r.db.GetContext(ctx, &count, sql, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("owner_email", ownerEmail).Error("Failed to count relationships")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to count relationships")
	}

	return count, nil
}

// ListAll returns every relationship row, grouped by owner for reporting.
func (r *Repository) ListAll(ctx context.Context) ([]models.ContactRelationship, error) {
	ctx, span := tracing.StartSpan(ctx, "relationship.Repository.ListAll")
	defer span.End()

	sb := relationshipStruct.SelectFrom(relationshipsTable)
	sb.OrderBy("owner_email").Asc()

	sql, args := sb.Build()

	var rows []RelationshipRow
	if err := r.db.SelectContext(ctx, &rows, sql, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list all relationships")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list all relationships")
	}

	return ToRelationships(rows), nil
}
