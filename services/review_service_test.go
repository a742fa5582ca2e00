package services

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/models"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/repository"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeReviews struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]*models.Review
}

func newFakeReviews() *fakeReviews {
	return &fakeReviews{byID: map[primitive.ObjectID]*models.Review{}}
}

func (f *fakeReviews) Create(_ context.Context, r *models.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r.ID = primitive.NewObjectID()
	r.CreatedAt = time.Now()
	cp := *r
	f.byID[r.ID] = &cp
	return nil
}

func (f *fakeReviews) FindByProduct(_ context.Context, productID primitive.ObjectID) ([]models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Review{}
	for _, r := range f.byID {
		if r.Product == productID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeReviews) UpdateOwned(_ context.Context, id, userID primitive.ObjectID, updates bson.M) (*models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byID[id]
	if !ok || r.User != userID {
		return nil, repository.ErrNotFound
	}
	if v, ok := updates["stars"].(int); ok {
		r.Stars = v
	}
	if v, ok := updates["review"].(string); ok {
		r.Review = v
	}
	if v, ok := updates["recommended"].(bool); ok {
		r.Recommended = v
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReviews) DeleteOwned(_ context.Context, id, userID primitive.ObjectID) (*models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byID[id]
	if !ok || r.User != userID {
		return nil, repository.ErrNotFound
	}
	delete(f.byID, id)
	return r, nil
}

func (f *fakeReviews) EnsureIndexes(context.Context) error { return nil }

func TestReview_AddAndList(t *testing.T) {
	ctx := context.Background()
	author := &models.User{UserName: "alice", Email: "alice@example.com"}
	p := &models.Product{ProductName: "Lamp"}
	products := newFakeProducts(p)
	svc := NewReviewService(newFakeReviews(), products, newFakeUsers(author), nil)
	yes := true

	view, err := svc.Add(ctx, author.ID, ReviewRequest{ProductID: p.ID.Hex(), Stars: 4, ReviewTitle: " Nice ", Review: "Bright", Recommended: &yes})
	require.NoError(t, err)
	assert.Equal(t, "Nice", view.ReviewTitle)
	assert.True(t, view.Recommended)
	require.NotNil(t, view.User)
	assert.Equal(t, "alice", view.User.UserName)
	assert.Contains(t, products.byID[p.ID].Reviews, view.ID)

	list, err := svc.ProductReviews(ctx, p.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 1, list.TotalReviews)

	_, err = svc.ProductReviews(ctx, primitive.NewObjectID().Hex())
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestReview_StarsBounds(t *testing.T) {
	ctx := context.Background()
	p := &models.Product{ProductName: "Lamp"}
	svc := NewReviewService(newFakeReviews(), newFakeProducts(p), newFakeUsers(), nil)
	userID := primitive.NewObjectID()

	for _, stars := range []int{0, 6, -1} {
		_, err := svc.Add(ctx, userID, ReviewRequest{ProductID: p.ID.Hex(), Stars: stars})
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err), "stars=%d", stars)
	}
}

func TestReview_EditAndDeleteOwnedOnly(t *testing.T) {
	ctx := context.Background()
	author := &models.User{UserName: "alice"}
	p := &models.Product{ProductName: "Lamp"}
	products := newFakeProducts(p)
	svc := NewReviewService(newFakeReviews(), products, newFakeUsers(author), nil)

	view, err := svc.Add(ctx, author.ID, ReviewRequest{ProductID: p.ID.Hex(), Stars: 2, Review: "meh"})
	require.NoError(t, err)
	stranger := primitive.NewObjectID()

	_, err = svc.Edit(ctx, stranger, view.ID.Hex(), ReviewRequest{Stars: 5})
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))

	_, err = svc.Edit(ctx, author.ID, view.ID.Hex(), ReviewRequest{})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	edited, err := svc.Edit(ctx, author.ID, view.ID.Hex(), ReviewRequest{Stars: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, edited.Stars)
	assert.Equal(t, "meh", edited.Review)

	err = svc.Delete(ctx, stranger, view.ID.Hex())
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))

	require.NoError(t, svc.Delete(ctx, author.ID, view.ID.Hex()))
	assert.NotContains(t, products.byID[p.ID].Reviews, view.ID)
}

func TestReview_InvalidatesProductList(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	cm := NewCacheManager(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute)
	author := &models.User{UserName: "alice"}
	p := &models.Product{ProductName: "Lamp"}
	products := newFakeProducts(p)
	catalog := NewProductService(products, nil, cm, nil)
	svc := NewReviewService(newFakeReviews(), products, newFakeUsers(author), cm)

	warm := func() {
		t.Helper()
		_, err := catalog.List(ctx, 1, 10)
		require.NoError(t, err)
		require.Eventually(t, func() bool {
			var cached []models.Product
			_, hit := cm.GetProductList(ctx, 1, 10, &cached)
			return hit
		}, time.Second, 10*time.Millisecond)
	}

	warm()
	view, err := svc.Add(ctx, author.ID, ReviewRequest{ProductID: p.ID.Hex(), Stars: 5})
	require.NoError(t, err)
	list, err := catalog.List(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, []primitive.ObjectID{view.ID}, list[0].Reviews)

	warm()
	require.NoError(t, svc.Delete(ctx, author.ID, view.ID.Hex()))
	list, err = catalog.List(ctx, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, list[0].Reviews)
}

type unlinkableProducts struct {
	*fakeProducts
}

func (unlinkableProducts) AddReview(context.Context, primitive.ObjectID, primitive.ObjectID) error {
	return errors.New("write conflict")
}

func TestReview_AddRollsBackWhenLinkFails(t *testing.T) {
	ctx := context.Background()
	p := &models.Product{ProductName: "Lamp"}
	reviews := newFakeReviews()
	svc := NewReviewService(reviews, unlinkableProducts{newFakeProducts(p)}, newFakeUsers(), nil)

	_, err := svc.Add(ctx, primitive.NewObjectID(), ReviewRequest{ProductID: p.ID.Hex(), Stars: 3})
	assert.Equal(t, http.StatusInternalServerError, statusOf(t, err))

	list, err := svc.ProductReviews(ctx, p.ID.Hex())
	require.NoError(t, err)
	assert.Zero(t, list.TotalReviews, "orphan review removed")
}
