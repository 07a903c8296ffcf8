package activitylog

import (
	"database/sql"

	"github.com/Ramsey-B/clover/pkg/database"
	"github.com/Ramsey-B/clover/pkg/models"
)

const activityLogsTable = "activity_logs"

// ActivityLogRow represents the database row for an activity log entry
type ActivityLogRow struct {
	ID           sql.NullInt64  `db:"id"`
	UserID       sql.NullString `db:"user_id"`
	ActivityType sql.NullString `db:"activity_type"`
	Description  sql.NullString `db:"description"`
	Timestamp    sql.NullTime   `db:"timestamp"`
}

var activityLogStruct = database.NewStruct(new(ActivityLogRow))

// ToActivityLog converts a database row to a domain model
func ToActivityLog(row *ActivityLogRow) models.ActivityLog {
	entry := models.ActivityLog{
		ID:           row.ID.Int64,
		UserID:       row.UserID.String,
		ActivityType: row.ActivityType.String,
		Timestamp:    row.Timestamp.Time,
	}
	if row.Description.Valid {
		description := row.Description.String
		entry.Description = &description
	}
	return entry
}

// ToActivityLogs converts a slice of database rows to domain models
func ToActivityLogs(rows []ActivityLogRow) []models.ActivityLog {
	entries := make([]models.ActivityLog, len(rows))
	for i, row := range rows {
		entries[i] = ToActivityLog(&row)
	}
	return entries
}
