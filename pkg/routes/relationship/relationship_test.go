package relationship

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	relationshipsvc "github.com/Ramsey-B/clover/internal/services/relationship"
	"github.com/Ramsey-B/clover/pkg/models"
)

func getTestLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

type fakeDirectory struct {
	contacts map[string]models.Contact
}

func (f *fakeDirectory) FindByID(ctx context.Context, userID string) (*models.Contact, error) {
	contact, ok := f.contacts[userID]
	if !ok {
		return nil, nil
	}
	return &contact, nil
}

func (f *fakeDirectory) FindAll(ctx context.Context) ([]models.Contact, error) {
	return nil, nil
}

func (f *fakeDirectory) Insert(ctx context.Context, contact models.Contact) error {
	return nil
}

func (f *fakeDirectory) UpdateFields(ctx context.Context, userID string, fields map[string]any) error {
	return nil
}

func (f *fakeDirectory) Delete(ctx context.Context, userID string) error {
	return nil
}

type fakeRelationshipRepo struct {
	rows map[string]models.ContactRelationship
}

func (f *fakeRelationshipRepo) Upsert(ctx context.Context, ownerEmail, linkedUserID string, relationshipType *string) (int64, bool, error) {
	key := ownerEmail + "|" + linkedUserID
	if existing, ok := f.rows[key]; ok {
		return existing.ID, false, nil
	}
	id := int64(len(f.rows) + 1)
	f.rows[key] = models.ContactRelationship{ID: id, OwnerEmail: ownerEmail, LinkedUserID: linkedUserID}
	return id, true, nil
}

func (f *fakeRelationshipRepo) Delete(ctx context.Context, ownerEmail, linkedUserID string) error {
	key := ownerEmail + "|" + linkedUserID
	if _, ok := f.rows[key]; !ok {
		return httperror.NewHTTPError(http.StatusNotFound, "relationship not found")
	}
	delete(f.rows, key)
	return nil
}

func (f *fakeRelationshipRepo) ListByOwner(ctx context.Context, ownerEmail string) ([]models.ContactRelationship, error) {
	return nil, nil
}

func (f *fakeRelationshipRepo) CountByOwner(ctx context.Context, ownerEmail string) (int, error) {
	return 0, nil
}

func (f *fakeRelationshipRepo) ListAll(ctx context.Context) ([]models.ContactRelationship, error) {
	return nil, nil
}

type noopActivityRepo struct{}

func (n *noopActivityRepo) Append(ctx context.Context, entry models.ActivityLog) (int64, error) {
	return 1, nil
}

func (n *noopActivityRepo) Query(ctx context.Context, query models.ActivityQuery) ([]models.ActivityLog, error) {
	return nil, nil
}

func newTestHandler() *Handler {
	dir := &fakeDirectory{contacts: map[string]models.Contact{
		"user-1": {UserID: "user-1", Name: "Alice", Email: "alice@example.com"},
	}}
	repo := &fakeRelationshipRepo{rows: map[string]models.ContactRelationship{}}
	svc := relationshipsvc.NewService(repo, dir, &noopActivityRepo{}, getTestLogger())
	return NewHandler(svc, nil, getTestLogger())
}

func doRequest(t *testing.T, handler echo.HandlerFunc, req *http.Request) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return rec, handler(c)
}

func TestLink_ReturnsRelationshipID(t *testing.T) {
	h := newTestHandler()

	body := `{"owner_email": "owner@example.com", "linked_user_id": "user-1", "relationship_type": "friend"}`
	req := httptest.NewRequest(http.MethodPost, "/contacts/relationships/link", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec, err := doRequest(t, h.Link, req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp models.LinkResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Contact linked successfully", resp.Message)
	assert.Equal(t, int64(1), resp.RelationshipID)
}

func TestLink_InvalidOwnerEmailIsBadRequest(t *testing.T) {
	h := newTestHandler()

	body := `{"owner_email": "not-an-email", "linked_user_id": "user-1"}`
	req := httptest.NewRequest(http.MethodPost, "/contacts/relationships/link", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	_, err := doRequest(t, h.Link, req)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
}

func TestLink_UnknownContactIsNotFound(t *testing.T) {
	h := newTestHandler()

	body := `{"owner_email": "owner@example.com", "linked_user_id": "ghost"}`
	req := httptest.NewRequest(http.MethodPost, "/contacts/relationships/link", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	_, err := doRequest(t, h.Link, req)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))
}

func TestLinkBulk_ReportsPartialFailure(t *testing.T) {
	h := newTestHandler()

	body := `{"owner_email": "owner@example.com", "linked_user_ids": ["user-1", "ghost"]}`
	req := httptest.NewRequest(http.MethodPost, "/contacts/relationships/link-bulk", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec, err := doRequest(t, h.LinkBulk, req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var result models.BulkLinkResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 1, result.AddedCount)
	assert.Equal(t, []string{"ghost"}, result.FailedIDs)
}

func TestUnlink_RequiresQueryParams(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodDelete, "/contacts/relationships/unlink", nil)

	_, err := doRequest(t, h.Unlink, req)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
}
