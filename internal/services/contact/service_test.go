package contact

import (
	"context"
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
	patched  map[string]map[string]any
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		contacts: map[string]models.Contact{},
		patched:  map[string]map[string]any{},
	}
}

func (f *fakeDirectory) FindByID(ctx context.Context, userID string) (*models.Contact, error) {
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
	f.patched[userID] = fields
	return nil
}

func (f *fakeDirectory) Delete(ctx context.Context, userID string) error {
	delete(f.contacts, userID)
	return nil
}

type recordingActivityRepo struct {
	entries []models.ActivityLog
}

func (r *recordingActivityRepo) Append(ctx context.Context, entry models.ActivityLog) (int64, error) {
	r.entries = append(r.entries, entry)
	return int64(len(r.entries)), nil
}

func (r *recordingActivityRepo) Query(ctx context.Context, query models.ActivityQuery) ([]models.ActivityLog, error) {
	return r.entries, nil
}

func TestAdd_GeneratesUniqueIDs(t *testing.T) {
	dir := newFakeDirectory()
	activity := &recordingActivityRepo{}
	svc := NewService(dir, activity, getTestLogger())

	first, err := svc.Add(context.Background(), models.CreateContactRequest{
		Name: "Alice", Email: "alice@example.com", Phone: 15551234,
	})
	require.NoError(t, err)
	second, err := svc.Add(context.Background(), models.CreateContactRequest{
		Name: "Bob", Email: "bob@example.com", Phone: 15555678,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
	assert.Len(t, dir.contacts, 2)

	require.Len(t, activity.entries, 2)
	assert.Equal(t, models.ActivityContactCreated, activity.entries[0].ActivityType)
	assert.Equal(t, first, activity.entries[0].UserID)
}

func TestUpdate_NoFieldsIsBadRequest(t *testing.T) {
	dir := newFakeDirectory()
	dir.contacts["user-1"] = models.Contact{UserID: "user-1", Name: "Alice"}
	svc := NewService(dir, &recordingActivityRepo{}, getTestLogger())

	err := svc.Update(context.Background(), "user-1", models.UpdateContactRequest{})

	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
}

func TestUpdate_MissingContactIsNotFound(t *testing.T) {
	svc := NewService(newFakeDirectory(), &recordingActivityRepo{}, getTestLogger())

	name := "Alice"
	err := svc.Update(context.Background(), "ghost", models.UpdateContactRequest{Name: &name})

	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))
}

func TestUpdate_PatchesOnlySuppliedFields(t *testing.T) {
	dir := newFakeDirectory()
	dir.contacts["user-1"] = models.Contact{UserID: "user-1", Name: "Alice", Email: "alice@example.com"}
	activity := &recordingActivityRepo{}
	svc := NewService(dir, activity, getTestLogger())

	email := "alice@corp.example.com"
	err := svc.Update(context.Background(), "user-1", models.UpdateContactRequest{Email: &email})

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"email": "alice@corp.example.com"}, dir.patched["user-1"])

	require.Len(t, activity.entries, 1)
	assert.Equal(t, models.ActivityContactUpdated, activity.entries[0].ActivityType)
	require.NotNil(t, activity.entries[0].Description)
	assert.Contains(t, *activity.entries[0].Description, "email")
}

func TestDelete_MissingContactIsNotFound(t *testing.T) {
	svc := NewService(newFakeDirectory(), &recordingActivityRepo{}, getTestLogger())

	err := svc.Delete(context.Background(), "ghost")

	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))
}

func TestDelete_RemovesContactAndLogs(t *testing.T) {
	dir := newFakeDirectory()
	dir.contacts["user-1"] = models.Contact{UserID: "user-1", Name: "Alice"}
	activity := &recordingActivityRepo{}
	svc := NewService(dir, activity, getTestLogger())

	err := svc.Delete(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Empty(t, dir.contacts)
	require.Len(t, activity.entries, 1)
	assert.Equal(t, models.ActivityContactDeleted, activity.entries[0].ActivityType)
	require.NotNil(t, activity.entries[0].Description)
	assert.Contains(t, *activity.entries[0].Description, "Alice")
}
