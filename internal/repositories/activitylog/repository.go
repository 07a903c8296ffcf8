package activitylog

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

// ActivityLogRepository defines the interface for audit trail access. The
// log is append-only; entries are never updated or deleted.
type ActivityLogRepository interface {
	Append(ctx context.Context, entry models.ActivityLog) (int64, error)
	Query(ctx context.Context, query models.ActivityQuery) ([]models.ActivityLog, error)
}

// Repository implements ActivityLogRepository
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new activity log repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Append inserts a new log entry and returns the generated id. The timestamp
// defaults to write time when the entry does not supply one.
func (r *Repository) Append(ctx context.Context, entry models.ActivityLog) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, "activitylog.Repository.Append")
	defer span.End()

	timestamp := entry.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}

	query := `
		INSERT INTO activity_logs (user_id, activity_type, description, timestamp)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	if err := r.db.GetContext(ctx, &id, query, entry.UserID, entry.ActivityType, entry.Description, timestamp); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"user_id":       entry.UserID,
			"activity_type": entry.ActivityType,
		}).Error("Failed to append activity log entry")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to append activity log entry")
	}

	return id, nil
}

// Query returns entries matching all supplied filters, newest first.
func (r *Repository) Query(ctx context.Context, query models.ActivityQuery) ([]models.ActivityLog, error) {
	ctx, span := tracing.StartSpan(ctx, "activitylog.Repository.Query")
	defer span.End()

	sql, args := buildQuery(query)

	var rows []ActivityLogRow
	if err := r.db.SelectContext(ctx, &rows, sql, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to query activity log")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to query activity log")
	}

	return ToActivityLogs(rows), nil
}

// buildQuery AND-combines the supplied filters; an absent filter field adds
// no constraint.
func buildQuery(query models.ActivityQuery) (string, []any) {
	sb := activityLogStruct.SelectFrom(activityLogsTable)

	conditions := []string{}
	if query.UserID != nil {
		conditions = append(conditions, sb.Equal("user_id", *query.UserID))
	}
	if query.ActivityType != nil {
		conditions = append(conditions, sb.Equal("activity_type", *query.ActivityType))
	}
	if query.StartDate != nil {
		conditions = append(conditions, sb.GreaterEqualThan("timestamp", *query.StartDate))
	}
	if query.EndDate != nil {
		conditions = append(conditions, sb.LessEqualThan("timestamp", *query.EndDate))
	}

	if len(conditions) > 0 {
		sb.Where(conditions...)
	}
	sb.OrderBy("timestamp").Desc()

	return sb.Build()
}
