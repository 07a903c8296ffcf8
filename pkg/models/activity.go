package models

import "time"

// Activity type labels written by the core. The log is append-only and
// diagnostic; entries survive contact deletion.
const (
	ActivityContactCreated      = "CONTACT_CREATED"
	ActivityContactUpdated      = "CONTACT_UPDATED"
	ActivityContactDeleted      = "CONTACT_DELETED"
	ActivityRelationshipAdded   = "RELATIONSHIP_ADDED"
	ActivityRelationshipUpdated = "RELATIONSHIP_UPDATED"
	ActivityRelationshipRemoved = "RELATIONSHIP_REMOVED"
	ActivityExportExcel         = "EXPORT_EXCEL"
	ActivityExportAllUsers      = "EXPORT_ALL_USERS"
)

// SystemUserID is the sentinel user id for events not scoped to a contact,
// such as exports.
const SystemUserID = "system"

// ActivityLog is a single audit trail entry. UserID need not reference an
// existing contact.
type ActivityLog struct {
	ID           int64     `json:"id"`
	UserID       string    `json:"user_id"`
	ActivityType string    `json:"activity_type"`
	Description  *string   `json:"description,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewActivityLog builds an entry with a description; the store stamps the
// timestamp at write time.
func NewActivityLog(userID, activityType, description string) ActivityLog {
	return ActivityLog{
		UserID:       userID,
		ActivityType: activityType,
		Description:  &description,
	}
}

// ActivityQuery filters the activity log. Absent fields mean no constraint.
type ActivityQuery struct {
	UserID       *string    `json:"user_id,omitempty"`
	ActivityType *string    `json:"activity_type,omitempty"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
}

// ActivityListResponse wraps a list of activity log entries
type ActivityListResponse struct {
	Activities []ActivityLog `json:"activities"`
}

// ContactWithActivities joins a directory document with its log history
type ContactWithActivities struct {
	Contact    Contact       `json:"contact"`
	Activities []ActivityLog `json:"activities"`
}
