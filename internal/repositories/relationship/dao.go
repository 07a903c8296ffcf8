package relationship

import (
	"database/sql"

	"github.com/Ramsey-B/clover/pkg/database"
	"github.com/Ramsey-B/clover/pkg/models"
)

const relationshipsTable = "contact_relationships"

// RelationshipRow represents the database row for a contact relationship
type RelationshipRow struct {
	ID               sql.NullInt64  `db:"id"`
	OwnerEmail       sql.NullString `db:"owner_email"`
	LinkedUserID     sql.NullString `db:"linked_user_id"`
	RelationshipType sql.NullString `db:"relationship_type"`
	CreatedAt        sql.NullTime   `db:"created_at"`
}

var relationshipStruct = database.NewStruct(new(RelationshipRow))

// ToRelationship converts a database row to a domain model
func ToRelationship(row *RelationshipRow) models.ContactRelationship {
	rel := models.ContactRelationship{
		ID:           row.ID.Int64,
		OwnerEmail:   row.OwnerEmail.String,
		LinkedUserID: row.LinkedUserID.String,
		CreatedAt:    row.CreatedAt.Time,
	}
	if row.RelationshipType.Valid {
		relationshipType := row.RelationshipType.String
		rel.RelationshipType = &relationshipType
	}
	return rel
}

// ToRelationships converts a slice of database rows to domain models
func ToRelationships(rows []RelationshipRow) []models.ContactRelationship {
	rels := make([]models.ContactRelationship, len(rows))
	for i, row := range rows {
		rels[i] = ToRelationship(&row)
	}
	return rels
}
