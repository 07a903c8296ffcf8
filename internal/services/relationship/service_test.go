package relationship

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/clover/pkg/models"
)

func getTestLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

type fakeDirectory struct {
	contacts map[string]models.Contact
	findErr  error
}

func (f *fakeDirectory) FindByID(ctx context.Context, userID string) (*models.Contact, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	contact, ok := f.contacts[userID]
	if !ok {
		return nil, nil
	}
	return &contact, nil
}

func (f *fakeDirectory) FindAll(ctx context.Context) ([]models.Contact, error) {
	contacts := make([]models.Contact, 0, len(f.contacts))
	for _, contact := range f.contacts {
		contacts = append(contacts, contact)
	}
	return contacts, nil
}

func (f *fakeDirectory) Insert(ctx context.Context, contact models.Contact) error {
	f.contacts[contact.UserID] = contact
	return nil
}

func (f *fakeDirectory) UpdateFields(ctx context.Context, userID string, fields map[string]any) error {
	return nil
}

func (f *fakeDirectory) Delete(ctx context.Context, userID string) error {
	delete(f.contacts, userID)
	return nil
}

type fakeRelationshipRepo struct {
	rows   map[string]models.ContactRelationship
	nextID int64
}

func newFakeRelationshipRepo() *fakeRelationshipRepo {
	return &fakeRelationshipRepo{rows: map[string]models.ContactRelationship{}}
}

func pairKey(ownerEmail, linkedUserID string) string {
	return ownerEmail + "|" + linkedUserID
}

func (f *fakeRelationshipRepo) Upsert(ctx context.Context, ownerEmail, linkedUserID string, relationshipType *string) (int64, bool, error) {
	key := pairKey(ownerEmail, linkedUserID)
	if existing, ok := f.rows[key]; ok {
		existing.RelationshipType = relationshipType
		f.rows[key] = existing
		return existing.ID, false, nil
	}
	f.nextID++
	f.rows[key] = models.ContactRelationship{
		ID:               f.nextID,
		OwnerEmail:       ownerEmail,
		LinkedUserID:     linkedUserID,
		RelationshipType: relationshipType,
	}
	return f.nextID, true, nil
}

func (f *fakeRelationshipRepo) Delete(ctx context.Context, ownerEmail, linkedUserID string) error {
	key := pairKey(ownerEmail, linkedUserID)
	if _, ok := f.rows[key]; !ok {
		return httperror.NewHTTPError(http.StatusNotFound, "relationship not found")
	}
	delete(f.rows, key)
	return nil
}

func (f *fakeRelationshipRepo) ListByOwner(ctx context.Context, ownerEmail string) ([]models.ContactRelationship, error) {
	var rels []models.ContactRelationship
	for _, rel := range f.rows {
		if rel.OwnerEmail == ownerEmail {
			rels = append(rels, rel)
		}
	}
	return rels, nil
}

func (f *fakeRelationshipRepo) CountByOwner(ctx context.Context, ownerEmail string) (int, error) {
	rels, _ := f.ListByOwner(ctx, ownerEmail)
	return len(rels), nil
}

func (f *fakeRelationshipRepo) ListAll(ctx context.Context) ([]models.ContactRelationship, error) {
	var rels []models.ContactRelationship
	for _, rel := range f.rows {
		rels = append(rels, rel)
	}
	return rels, nil
}

type recordingActivityRepo struct {
	entries   []models.ActivityLog
	appendErr error
}

func (r *recordingActivityRepo) Append(ctx context.Context, entry models.ActivityLog) (int64, error) {
	if r.appendErr != nil {
		return 0, r.appendErr
	}
	r.entries = append(r.entries, entry)
	return int64(len(r.entries)), nil
}

func (r *recordingActivityRepo) Query(ctx context.Context, query models.ActivityQuery) ([]models.ActivityLog, error) {
	return r.entries, nil
}

func newTestService(dir *fakeDirectory, repo *fakeRelationshipRepo, activity *recordingActivityRepo) *Service {
	return NewService(repo, dir, activity, getTestLogger())
}

func TestLink_CreatesRelationship(t *testing.T) {
	dir := &fakeDirectory{contacts: map[string]models.Contact{
		"user-1": {UserID: "user-1", Name: "Alice", Email: "alice@example.com", Phone: 15551234},
	}}
	repo := newFakeRelationshipRepo()
	activity := &recordingActivityRepo{}
	svc := newTestService(dir, repo, activity)

	friend := "friend"
	id, err := svc.Link(context.Background(), models.LinkRequest{
		OwnerEmail:       "owner@example.com",
		LinkedUserID:     "user-1",
		RelationshipType: &friend,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.Len(t, repo.rows, 1)
	require.Len(t, activity.entries, 1)
	assert.Equal(t, models.ActivityRelationshipAdded, activity.entries[0].ActivityType)
	assert.Equal(t, "user-1", activity.entries[0].UserID)
}

func TestLink_RepeatOverwritesType(t *testing.T) {
	dir := &fakeDirectory{contacts: map[string]models.Contact{
		"user-1": {UserID: "user-1", Name: "Alice"},
	}}
	repo := newFakeRelationshipRepo()
	activity := &recordingActivityRepo{}
	svc := newTestService(dir, repo, activity)

	friend := "friend"
	firstID, err := svc.Link(context.Background(), models.LinkRequest{
		OwnerEmail:       "owner@example.com",
		LinkedUserID:     "user-1",
		RelationshipType: &friend,
	})
	require.NoError(t, err)

	colleague := "colleague"
	secondID, err := svc.Link(context.Background(), models.LinkRequest{
		OwnerEmail:       "owner@example.com",
		LinkedUserID:     "user-1",
		RelationshipType: &colleague,
	})
	require.NoError(t, err)

	assert.Equal(t, firstID, secondID)
	assert.Len(t, repo.rows, 1, "repeat link must not create a second row")

	stored := repo.rows[pairKey("owner@example.com", "user-1")]
	require.NotNil(t, stored.RelationshipType)
	assert.Equal(t, "colleague", *stored.RelationshipType)

	require.Len(t, activity.entries, 2)
	assert.Equal(t, models.ActivityRelationshipAdded, activity.entries[0].ActivityType)
	assert.Equal(t, models.ActivityRelationshipUpdated, activity.entries[1].ActivityType)
}

func TestLink_MissingContactHasNoSideEffects(t *testing.T) {
	dir := &fakeDirectory{contacts: map[string]models.Contact{}}
	repo := newFakeRelationshipRepo()
	activity := &recordingActivityRepo{}
	svc := newTestService(dir, repo, activity)

	_, err := svc.Link(context.Background(), models.LinkRequest{
		OwnerEmail:   "owner@example.com",
		LinkedUserID: "ghost",
	})

	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))
	assert.Empty(t, repo.rows)
	assert.Empty(t, activity.entries)
}

func TestLink_ActivityFailureDoesNotFailLink(t *testing.T) {
	dir := &fakeDirectory{contacts: map[string]models.Contact{
		"user-1": {UserID: "user-1", Name: "Alice"},
	}}
	repo := newFakeRelationshipRepo()
	activity := &recordingActivityRepo{appendErr: fmt.Errorf("log store down")}
	svc := newTestService(dir, repo, activity)

	_, err := svc.Link(context.Background(), models.LinkRequest{
		OwnerEmail:   "owner@example.com",
		LinkedUserID: "user-1",
	})

	require.NoError(t, err)
	assert.Len(t, repo.rows, 1)
}

func TestLinkBulk_PartialSuccess(t *testing.T) {
	dir := &fakeDirectory{contacts: map[string]models.Contact{
		"user-a": {UserID: "user-a", Name: "Alice"},
		"user-c": {UserID: "user-c", Name: "Carol"},
	}}
	repo := newFakeRelationshipRepo()
	activity := &recordingActivityRepo{}
	svc := newTestService(dir, repo, activity)

	result, err := svc.LinkBulk(context.Background(), models.BulkLinkRequest{
		OwnerEmail:    "owner@example.com",
		LinkedUserIDs: []string{"user-a", "user-b", "user-c"},
	})

	require.NoError(t, err, "bulk link never fails as a whole")
	assert.Equal(t, 2, result.AddedCount)
	assert.Equal(t, []string{"user-b"}, result.FailedIDs)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "user-b", result.Failures[0].UserID)
	assert.NotEmpty(t, result.Failures[0].Reason)
	assert.Len(t, repo.rows, 2)
}

func TestLinkBulk_AllFailStillSucceeds(t *testing.T) {
	dir := &fakeDirectory{contacts: map[string]models.Contact{}}
	repo := newFakeRelationshipRepo()
	activity := &recordingActivityRepo{}
	svc := newTestService(dir, repo, activity)

	result, err := svc.LinkBulk(context.Background(), models.BulkLinkRequest{
		OwnerEmail:    "owner@example.com",
		LinkedUserIDs: []string{"x", "y"},
	})

	require.NoError(t, err)
	assert.Equal(t, 0, result.AddedCount)
	assert.Equal(t, []string{"x", "y"}, result.FailedIDs)
}

func TestUnlink_RemovesRow(t *testing.T) {
	dir := &fakeDirectory{contacts: map[string]models.Contact{
		"user-1": {UserID: "user-1", Name: "Alice"},
	}}
	repo := newFakeRelationshipRepo()
	activity := &recordingActivityRepo{}
	svc := newTestService(dir, repo, activity)

	_, err := svc.Link(context.Background(), models.LinkRequest{
		OwnerEmail:   "owner@example.com",
		LinkedUserID: "user-1",
	})
	require.NoError(t, err)

	err = svc.Unlink(context.Background(), "owner@example.com", "user-1")
	require.NoError(t, err)
	assert.Empty(t, repo.rows)

	require.Len(t, activity.entries, 2)
	assert.Equal(t, models.ActivityRelationshipRemoved, activity.entries[1].ActivityType)
}

func TestUnlink_AbsentIsNotFound(t *testing.T) {
	dir := &fakeDirectory{contacts: map[string]models.Contact{}}
	repo := newFakeRelationshipRepo()
	activity := &recordingActivityRepo{}
	svc := newTestService(dir, repo, activity)

	err := svc.Unlink(context.Background(), "owner@example.com", "user-1")

	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))
	assert.Empty(t, activity.entries, "no activity is logged for a failed unlink")
}

func TestListLinked_EmptyOwnerYieldsEmptySlice(t *testing.T) {
	dir := &fakeDirectory{contacts: map[string]models.Contact{}}
	repo := newFakeRelationshipRepo()
	svc := newTestService(dir, repo, &recordingActivityRepo{})

	linked, err := svc.ListLinked(context.Background(), "owner@example.com")

	require.NoError(t, err)
	assert.NotNil(t, linked)
	assert.Empty(t, linked)
}

func TestListLinked_DropsUnresolvedContacts(t *testing.T) {
	dir := &fakeDirectory{contacts: map[string]models.Contact{
		"user-1": {UserID: "user-1", Name: "Alice", Email: "alice@example.com"},
	}}
	repo := newFakeRelationshipRepo()
	activity := &recordingActivityRepo{}
	svc := newTestService(dir, repo, activity)

	friend := "friend"
	_, _, err := repo.Upsert(context.Background(), "owner@example.com", "user-1", &friend)
	require.NoError(t, err)
	// row pointing at a contact that was deleted from the directory
	_, _, err = repo.Upsert(context.Background(), "owner@example.com", "ghost", nil)
	require.NoError(t, err)

	linked, err := svc.ListLinked(context.Background(), "owner@example.com")

	require.NoError(t, err)
	require.Len(t, linked, 1)
	assert.Equal(t, "user-1", linked[0].UserID)
	assert.Equal(t, "Alice", linked[0].Name)
	require.NotNil(t, linked[0].RelationshipType)
	assert.Equal(t, "friend", *linked[0].RelationshipType)
}
