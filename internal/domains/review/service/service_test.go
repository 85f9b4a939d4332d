package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewdb-backend/internal/domains/review/model"
	titlemodel "reviewdb-backend/internal/domains/title/model"
	"reviewdb-backend/internal/shared/permission"
)

// ========================================
// FAKES
// ========================================

type fakeReviewRepo struct {
	reviews map[uuid.UUID]*model.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[uuid.UUID]*model.Review)}
}

func (f *fakeReviewRepo) Create(ctx context.Context, rv *model.Review) error {
	for _, existing := range f.reviews {
		if existing.AuthorID == rv.AuthorID && existing.TitleID == rv.TitleID {
			return model.ErrDuplicateReview
		}
	}
	cp := *rv
	f.reviews[rv.ID] = &cp
	return nil
}

func (f *fakeReviewRepo) GetByID(ctx context.Context, titleID, reviewID uuid.UUID) (*model.Review, error) {
	if rv, ok := f.reviews[reviewID]; ok && rv.TitleID == titleID {
		cp := *rv
		return &cp, nil
	}
	return nil, model.ErrReviewNotFound
}

func (f *fakeReviewRepo) GetByAuthorAndTitle(ctx context.Context, authorID, titleID uuid.UUID) (*model.Review, error) {
	for _, rv := range f.reviews {
		if rv.AuthorID == authorID && rv.TitleID == titleID {
			cp := *rv
			return &cp, nil
		}
	}
	return nil, model.ErrReviewNotFound
}

func (f *fakeReviewRepo) ListByTitle(ctx context.Context, titleID uuid.UUID, page, limit int) ([]*model.Review, int, error) {
	var out []*model.Review
	for _, rv := range f.reviews {
		if rv.TitleID == titleID {
			cp := *rv
			out = append(out, &cp)
		}
	}
	return out, len(out), nil
}

func (f *fakeReviewRepo) Update(ctx context.Context, rv *model.Review) error {
	if _, ok := f.reviews[rv.ID]; !ok {
		return model.ErrReviewNotFound
	}
	cp := *rv
	f.reviews[rv.ID] = &cp
	return nil
}

func (f *fakeReviewRepo) Delete(ctx context.Context, titleID, reviewID uuid.UUID) error {
	if rv, ok := f.reviews[reviewID]; ok && rv.TitleID == titleID {
		delete(f.reviews, reviewID)
		return nil
	}
	return model.ErrReviewNotFound
}

func (f *fakeReviewRepo) Exists(ctx context.Context, titleID, reviewID uuid.UUID) (bool, error) {
	rv, ok := f.reviews[reviewID]
	return ok && rv.TitleID == titleID, nil
}

type fakeTitleRepo struct {
	ids map[uuid.UUID]bool
}

func (f *fakeTitleRepo) Create(ctx context.Context, t *titlemodel.Title, genreIDs []uuid.UUID, categoryID *uuid.UUID) error {
	return nil
}
func (f *fakeTitleRepo) GetByID(ctx context.Context, id uuid.UUID) (*titlemodel.Title, error) {
	return nil, titlemodel.ErrTitleNotFound
}
func (f *fakeTitleRepo) List(ctx context.Context, req titlemodel.ListTitlesRequest) ([]*titlemodel.Title, int, error) {
	return nil, 0, nil
}
func (f *fakeTitleRepo) Update(ctx context.Context, t *titlemodel.Title, genreIDs *[]uuid.UUID, categoryID *uuid.UUID, clearCategory bool) error {
	return nil
}
func (f *fakeTitleRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }
func (f *fakeTitleRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return f.ids[id], nil
}

type fakeCache struct {
	deleted []string
}

func (f *fakeCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	return false, nil
}
func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}
func (f *fakeCache) Delete(ctx context.Context, keys ...string) error {
	f.deleted = append(f.deleted, keys...)
	return nil
}
func (f *fakeCache) Ping(ctx context.Context) error { return nil }

// ========================================
// TEST SETUP
// ========================================

func subject(role permission.Role) permission.Subject {
	return permission.Subject{
		UserID:   uuid.New(),
		Username: string(role) + "-" + uuid.NewString()[:8],
		Role:     role,
	}
}

func newTestService(t *testing.T) (ReviewService, *fakeReviewRepo, *fakeCache, uuid.UUID) {
	t.Helper()

	reviews := newFakeReviewRepo()
	titleID := uuid.New()
	titles := &fakeTitleRepo{ids: map[uuid.UUID]bool{titleID: true}}
	cache := &fakeCache{}

	return NewReviewService(reviews, titles, cache), reviews, cache, titleID
}

func mustCreate(t *testing.T, svc ReviewService, author permission.Subject, titleID uuid.UUID) *model.Review {
	t.Helper()

	rv, err := svc.Create(context.Background(), author, titleID, model.CreateReviewRequest{
		Text:  "solid entry",
		Score: 7,
	})
	require.NoError(t, err)
	return rv
}

// ========================================
// CREATE
// ========================================

func TestCreateReview(t *testing.T) {
	svc, _, cache, titleID := newTestService(t)
	author := subject(permission.RoleUser)

	rv := mustCreate(t, svc, author, titleID)

	assert.Equal(t, author.UserID, rv.AuthorID)
	assert.Equal(t, author.Username, rv.AuthorUsername)
	assert.Equal(t, 7, rv.Score)
	assert.Contains(t, cache.deleted, titlemodel.DetailCacheKey(titleID),
		"rating embedded in the cached title detail is stale now")
}

func TestCreateReview_ScoreBounds(t *testing.T) {
	svc, _, _, titleID := newTestService(t)
	author := subject(permission.RoleUser)

	for _, score := range []int{-1, 0, 11, 100} {
		_, err := svc.Create(context.Background(), author, titleID, model.CreateReviewRequest{
			Text:  "x",
			Score: score,
		})
		assert.Error(t, err, "score %d must be rejected", score)
	}

	for _, score := range []int{1, 10} {
		_, err := svc.Create(context.Background(), subject(permission.RoleUser), titleID, model.CreateReviewRequest{
			Text:  "x",
			Score: score,
		})
		assert.NoError(t, err, "score %d is within bounds", score)
	}
}

func TestCreateReview_SecondReviewRejected(t *testing.T) {
	svc, _, _, titleID := newTestService(t)
	author := subject(permission.RoleUser)

	mustCreate(t, svc, author, titleID)

	_, err := svc.Create(context.Background(), author, titleID, model.CreateReviewRequest{
		Text:  "changed my mind",
		Score: 2,
	})
	assert.ErrorIs(t, err, model.ErrDuplicateReview)
}

func TestCreateReview_UnknownTitle(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), subject(permission.RoleUser), uuid.New(), model.CreateReviewRequest{
		Text:  "x",
		Score: 5,
	})
	assert.ErrorIs(t, err, titlemodel.ErrTitleNotFound)
}

// ========================================
// OWNERSHIP
// ========================================

func TestUpdateReview_Ownership(t *testing.T) {
	newScore := 3

	cases := []struct {
		name    string
		caller  func(author permission.Subject) permission.Subject
		allowed bool
	}{
		{"author", func(a permission.Subject) permission.Subject { return a }, true},
		{"other user", func(permission.Subject) permission.Subject { return subject(permission.RoleUser) }, false},
		{"moderator", func(permission.Subject) permission.Subject { return subject(permission.RoleModerator) }, true},
		{"admin", func(permission.Subject) permission.Subject { return subject(permission.RoleAdmin) }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _, _, titleID := newTestService(t)
			author := subject(permission.RoleUser)
			rv := mustCreate(t, svc, author, titleID)

			updated, err := svc.Update(context.Background(), tc.caller(author), titleID, rv.ID, model.UpdateReviewRequest{
				Score: &newScore,
			})
			if tc.allowed {
				require.NoError(t, err)
				assert.Equal(t, newScore, updated.Score)
				assert.Equal(t, author.UserID, updated.AuthorID, "authorship never changes")
			} else {
				assert.ErrorIs(t, err, model.ErrNotPermitted)
			}
		})
	}
}

func TestDeleteReview_Ownership(t *testing.T) {
	cases := []struct {
		name    string
		caller  func(author permission.Subject) permission.Subject
		allowed bool
	}{
		{"author", func(a permission.Subject) permission.Subject { return a }, true},
		{"other user", func(permission.Subject) permission.Subject { return subject(permission.RoleUser) }, false},
		{"moderator", func(permission.Subject) permission.Subject { return subject(permission.RoleModerator) }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo, _, titleID := newTestService(t)
			author := subject(permission.RoleUser)
			rv := mustCreate(t, svc, author, titleID)

			err := svc.Delete(context.Background(), tc.caller(author), titleID, rv.ID)
			if tc.allowed {
				require.NoError(t, err)
				assert.Empty(t, repo.reviews)
			} else {
				assert.ErrorIs(t, err, model.ErrNotPermitted)
				assert.Len(t, repo.reviews, 1)
			}
		})
	}
}

func TestUpdateReview_ScoreRevalidated(t *testing.T) {
	svc, _, _, titleID := newTestService(t)
	author := subject(permission.RoleUser)
	rv := mustCreate(t, svc, author, titleID)

	bad := 42
	_, err := svc.Update(context.Background(), author, titleID, rv.ID, model.UpdateReviewRequest{
		Score: &bad,
	})
	assert.Error(t, err)
}
