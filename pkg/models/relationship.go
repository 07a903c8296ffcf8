package models

import "time"

// ContactRelationship is a directed link "owner_email -> linked_user_id".
// At most one row exists per (owner_email, linked_user_id) pair; the pair is
// enforced unique at the store level.
type ContactRelationship struct {
	ID               int64     `json:"id"`
	OwnerEmail       string    `json:"owner_email"`
	LinkedUserID     string    `json:"linked_user_id"`
	RelationshipType *string   `json:"relationship_type"`
	CreatedAt        time.Time `json:"created_at"`
}

// LinkRequest is the request body for linking a contact to an owner email
type LinkRequest struct {
	OwnerEmail       string  `json:"owner_email" validate:"required,email"`
	LinkedUserID     string  `json:"linked_user_id" validate:"required"`
	RelationshipType *string `json:"relationship_type,omitempty"`
}

// BulkLinkRequest links multiple contacts to one owner in a single call
type BulkLinkRequest struct {
	OwnerEmail       string   `json:"owner_email" validate:"required,email"`
	LinkedUserIDs    []string `json:"linked_user_ids" validate:"required,min=1"`
	RelationshipType *string  `json:"relationship_type,omitempty"`
}

// BulkLinkFailure records a single failed link in a bulk operation
type BulkLinkFailure struct {
	UserID string `json:"user_id"`
	Reason string `json:"reason"`
}

// BulkLinkResult reports partial success of a bulk link. FailedIDs preserves
// the input order of the failing ids.
type BulkLinkResult struct {
	AddedCount int               `json:"added_count"`
	FailedIDs  []string          `json:"failed_ids"`
	Failures   []BulkLinkFailure `json:"failures,omitempty"`
}

// LinkResponse is returned after a successful link
type LinkResponse struct {
	Message        string `json:"message"`
	RelationshipID int64  `json:"relationship_id"`
}

// LinkedContactsResponse wraps an owner's linked contacts
type LinkedContactsResponse struct {
	LinkedContacts []LinkedContact `json:"linked_contacts"`
	Count          int             `json:"count"`
}
