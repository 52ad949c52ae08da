package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"campdir/internal/access"
	"campdir/internal/models"
	"campdir/internal/query"
	"campdir/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReviewStore struct {
	reviews     map[string]*models.Review
	byBootcamp  []models.Review
	createErr   error
	created     *models.Review
	createdFor  string
	deletedIDs  []string
	listResult  *services.ListResult[models.Review]
}

func (f *fakeReviewStore) List(ctx context.Context, opts *query.Options) (*services.ListResult[models.Review], error) {
	return f.listResult, nil
}

func (f *fakeReviewStore) ListByBootcamp(ctx context.Context, bootcampID string) ([]models.Review, error) {
	return f.byBootcamp, nil
}

func (f *fakeReviewStore) Get(ctx context.Context, id string) (*models.Review, error) {
	if r, ok := f.reviews[id]; ok {
		return r, nil
	}
	return nil, errors.New("record not found")
}

func (f *fakeReviewStore) Create(ctx context.Context, identity access.Identity, bootcampID string, review *models.Review) error {
	if f.createErr != nil {
		return f.createErr
	}
	review.UserID = identity.ID
	review.BootcampID = bootcampID
	f.created = review
	f.createdFor = bootcampID
	return nil
}

func (f *fakeReviewStore) Update(ctx context.Context, id string, updates *models.Review) (*models.Review, error) {
	return f.reviews[id], nil
}

func (f *fakeReviewStore) Delete(ctx context.Context, review *models.Review) error {
	f.deletedIDs = append(f.deletedIDs, review.ID)
	return nil
}

func TestReviewCreateScopedToBootcamp(t *testing.T) {
	store := &fakeReviewStore{}
	ctrl := NewReviewController(store)

	body := `{"title":"Great","text":"Learned a lot","rating":9}`
	c, rec := newTestContext(t, http.MethodPost, "/api/v1/bootcamps/b1/reviews", body)
	c.SetParamNames("bootcampId")
	c.SetParamValues("b1")
	asIdentity(c, "u1", access.RoleUser)

	require.NoError(t, ctrl.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "b1", store.createdFor)
	assert.Equal(t, "u1", store.created.UserID)
}

func TestReviewCreateDuplicatePropagates(t *testing.T) {
	store := &fakeReviewStore{createErr: services.ErrAlreadyReviewed}
	ctrl := NewReviewController(store)

	body := `{"title":"Again","text":"Second try","rating":5}`
	c, _ := newTestContext(t, http.MethodPost, "/api/v1/bootcamps/b1/reviews", body)
	c.SetParamNames("bootcampId")
	c.SetParamValues("b1")
	asIdentity(c, "u1", access.RoleUser)

	err := ctrl.Create(c)
	assert.ErrorIs(t, err, services.ErrAlreadyReviewed)
}

func TestReviewCreateRejectsOutOfRangeRating(t *testing.T) {
	ctrl := NewReviewController(&fakeReviewStore{})

	body := `{"title":"Bad","text":"rating too high","rating":11}`
	c, _ := newTestContext(t, http.MethodPost, "/api/v1/bootcamps/b1/reviews", body)
	c.SetParamNames("bootcampId")
	c.SetParamValues("b1")
	asIdentity(c, "u1", access.RoleUser)

	err := ctrl.Create(c)
	require.Error(t, err)
}

func TestReviewListScopedReturnsAllWithoutPagination(t *testing.T) {
	store := &fakeReviewStore{
		byBootcamp: []models.Review{{Title: "A"}, {Title: "B"}, {Title: "C"}},
	}
	ctrl := NewReviewController(store)

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/bootcamps/b1/reviews", "")
	c.SetParamNames("bootcampId")
	c.SetParamValues("b1")

	require.NoError(t, ctrl.List(c))

	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	require.NotNil(t, env.Count)
	assert.Equal(t, 3, *env.Count)
	assert.Nil(t, env.Pagination)
}

func TestReviewUpdateRejectsNonOwner(t *testing.T) {
	store := &fakeReviewStore{
		reviews: map[string]*models.Review{
			"r1": {Base: models.Base{ID: "r1"}, UserID: "author"},
		},
	}
	ctrl := NewReviewController(store)

	c, _ := newTestContext(t, http.MethodPut, "/api/v1/reviews/r1", `{"title":"Edit","text":"t","rating":3}`)
	c.SetParamNames("id")
	c.SetParamValues("r1")
	asIdentity(c, "someone-else", access.RoleUser)

	err := ctrl.Update(c)
	var denied *access.DeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, access.ReasonNotOwner, denied.Reason)
}

func TestReviewEnvelopeShape(t *testing.T) {
	store := &fakeReviewStore{
		listResult: &services.ListResult[models.Review]{
			Items:      []models.Review{{Title: "Solid"}},
			Total:      1,
			Pagination: query.Page{Number: 1, Size: 10}.Paginate(1),
		},
	}
	ctrl := NewReviewController(store)

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/reviews", "")
	require.NoError(t, ctrl.List(c))

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.Contains(t, raw, "success")
	assert.Contains(t, raw, "count")
	assert.Contains(t, raw, "data")
}
