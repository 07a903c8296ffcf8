package directory

import (
	"context"

	"github.com/Ramsey-B/clover/pkg/models"
)

// ContactDirectory is the document store capability holding contacts, keyed
// by server-generated user_id. FindByID returns (nil, nil) when no document
// matches.
type ContactDirectory interface {
	FindByID(ctx context.Context, userID string) (*models.Contact, error)
	FindAll(ctx context.Context) ([]models.Contact, error)
	Insert(ctx context.Context, contact models.Contact) error
	UpdateFields(ctx context.Context, userID string, fields map[string]any) error
	Delete(ctx context.Context, userID string) error
}
