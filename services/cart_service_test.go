package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCart_AddSumsQuantitiesAndPrices(t *testing.T) {
	ctx := context.Background()
	shirt := &models.Product{ProductName: "Shirt", Price: 19.99, Stock: 10}
	socks := &models.Product{ProductName: "Socks", Price: 0.1, Stock: 10}
	products := newFakeProducts(shirt, socks)
	svc := NewCartService(newFakeCarts(), products)
	userID := primitive.NewObjectID()

	_, err := svc.Add(ctx, userID, shirt.ID.Hex(), 1)
	require.NoError(t, err)
	_, err = svc.Add(ctx, userID, shirt.ID.Hex(), 2)
	require.NoError(t, err)
	view, err := svc.Add(ctx, userID, socks.ID.Hex(), 3)
	require.NoError(t, err)

	require.Len(t, view.Items, 2)
	assert.Equal(t, 3, view.Items[0].Quantity)
	// 3 x 19.99 + 3 x 0.10 without float drift
	assert.Equal(t, 60.27, view.TotalPrice)
}

func TestCart_AddValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewCartService(newFakeCarts(), newFakeProducts())
	userID := primitive.NewObjectID()

	_, err := svc.Add(ctx, userID, "not-an-id", 1)
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	_, err = svc.Add(ctx, userID, primitive.NewObjectID().Hex(), 0)
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	_, err = svc.Add(ctx, userID, primitive.NewObjectID().Hex(), 1)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestCart_GetEmptyShape(t *testing.T) {
	svc := NewCartService(newFakeCarts(), newFakeProducts())

	view, empty, err := svc.Get(context.Background(), primitive.NewObjectID())
	require.NoError(t, err)
	assert.True(t, empty)
	assert.Empty(t, view.Items)
	assert.Zero(t, view.TotalPrice)
}

func TestCart_GetRepricesFromCatalog(t *testing.T) {
	ctx := context.Background()
	p := &models.Product{ProductName: "Mug", Price: 5, Stock: 10}
	products := newFakeProducts(p)
	svc := NewCartService(newFakeCarts(), products)
	userID := primitive.NewObjectID()

	_, err := svc.Add(ctx, userID, p.ID.Hex(), 2)
	require.NoError(t, err)

	products.byID[p.ID].Price = 7.5
	view, empty, err := svc.Get(ctx, userID)
	require.NoError(t, err)
	assert.False(t, empty)
	assert.Equal(t, 15.0, view.TotalPrice)
}

func TestCart_UpdateAndRemove(t *testing.T) {
	ctx := context.Background()
	a := &models.Product{ProductName: "A", Price: 10, Stock: 10}
	b := &models.Product{ProductName: "B", Price: 1, Stock: 10}
	carts := newFakeCarts()
	svc := NewCartService(carts, newFakeProducts(a, b))
	userID := primitive.NewObjectID()

	_, err := svc.Update(ctx, userID, a.ID.Hex(), 2)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err), "no cart yet")

	_, err = svc.Add(ctx, userID, a.ID.Hex(), 1)
	require.NoError(t, err)
	_, err = svc.Add(ctx, userID, b.ID.Hex(), 1)
	require.NoError(t, err)

	view, err := svc.Update(ctx, userID, a.ID.Hex(), 4)
	require.NoError(t, err)
	assert.Equal(t, 41.0, view.TotalPrice)

	_, err = svc.Update(ctx, userID, primitive.NewObjectID().Hex(), 1)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))

	view, err = svc.Remove(ctx, userID, a.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 1.0, view.TotalPrice)

	view, err = svc.Remove(ctx, userID, b.ID.Hex())
	require.NoError(t, err)
	assert.Nil(t, view, "removing the last line deletes the cart")
	_, err = carts.FindByUser(ctx, userID)
	assert.Error(t, err)
}

func TestCart_RetriesOnVersionConflict(t *testing.T) {
	ctx := context.Background()
	p := &models.Product{ProductName: "A", Price: 2, Stock: 10}
	carts := newFakeCarts()
	svc := NewCartService(carts, newFakeProducts(p))
	userID := primitive.NewObjectID()

	carts.conflicts = 2
	view, err := svc.Add(ctx, userID, p.ID.Hex(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2.0, view.TotalPrice)

	carts.conflicts = maxCartRetries
	_, err = svc.Add(ctx, userID, p.ID.Hex(), 1)
	assert.Equal(t, http.StatusConflict, statusOf(t, err))
}

func TestCart_Clear(t *testing.T) {
	ctx := context.Background()
	p := &models.Product{ProductName: "A", Price: 2, Stock: 10}
	svc := NewCartService(newFakeCarts(), newFakeProducts(p))
	userID := primitive.NewObjectID()

	_, err := svc.Clear(ctx, userID)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))

	_, err = svc.Add(ctx, userID, p.ID.Hex(), 1)
	require.NoError(t, err)
	cart, err := svc.Clear(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, userID, cart.UserID)
}
