package models

// Contact is a document in the contact directory. UserID is generated once at
// creation and never reused after deletion.
type Contact struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  int64  `json:"phone"`
}

// LinkedContact is a contact annotated with the relationship type stored on
// the link row.
type LinkedContact struct {
	Contact
	RelationshipType *string `json:"relationship_type"`
}

// CreateContactRequest is the request body for creating a contact
type CreateContactRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone int64  `json:"phone" validate:"required"`
}

// UpdateContactRequest carries the fields to patch on a contact. Nil fields
// are left untouched.
type UpdateContactRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone *int64  `json:"phone,omitempty"`
}

// CreateContactResponse is returned after a contact is created
type CreateContactResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

// ContactListResponse wraps a list of contacts
type ContactListResponse struct {
	Contacts []Contact `json:"contacts"`
}
