package services

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/apperrors"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/models"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testKeySecret = "rzp_test_secret"

type orderFixture struct {
	svc       *OrderService
	products  *fakeProducts
	carts     *fakeCarts
	orders    *fakeOrders
	checkouts *fakeCheckouts
	sales     *fakeSales
	creator   *mockOrderCreator
	user      *models.User
	product   *models.Product
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	f := &orderFixture{
		product:   &models.Product{ProductName: "Sneakers", Price: 1299.5, Stock: 5},
		user:      &models.User{UserName: "alice", Email: "alice@example.com"},
		carts:     newFakeCarts(),
		orders:    &fakeOrders{},
		checkouts: newFakeCheckouts(),
		sales:     &fakeSales{},
		creator:   new(mockOrderCreator),
	}
	f.products = newFakeProducts(f.product)
	users := newFakeUsers(f.user)

	f.svc = NewOrderService(OrderDeps{
		Products:  f.products,
		Carts:     f.carts,
		Orders:    f.orders,
		Users:     users,
		Checkouts: f.checkouts,
		Gateway:   payment.NewRazorpayGatewayWithClient(f.creator, testKeySecret),
		Sales:     f.sales,
	}, OrderConfig{Currency: "INR"})
	f.svc.now = func() time.Time { return time.UnixMilli(1700000123456) }
	return f
}

func (f *orderFixture) expectGatewayOrder(id string) {
	f.creator.On("Create", mock.Anything, mock.Anything).
		Return(map[string]interface{}{"id": id, "currency": "INR", "status": "created"}, nil).Once()
}

func (f *orderFixture) verifyReq(orderID, paymentID string) VerifyRequest {
	return VerifyRequest{
		RazorpayOrderID:   orderID,
		RazorpayPaymentID: paymentID,
		RazorpaySignature: payment.Sign(orderID, paymentID, testKeySecret),
	}
}

func TestReceiptFormat(t *testing.T) {
	id, err := primitive.ObjectIDFromHex("65a1b2c3d4e5f60718293a4b")
	require.NoError(t, err)
	assert.Equal(t, "r_65a1b2_123456", receipt(id, time.UnixMilli(1700000123456)))
}

func TestBuyNow(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newOrderFixture(t)
		f.expectGatewayOrder("order_1")

		res, err := f.svc.BuyNow(ctx, f.user.ID, f.product.ID.Hex(), 2)
		require.NoError(t, err)
		assert.Equal(t, "order_1", res.Order.ID)
		assert.Equal(t, 2599.0, res.TotalPrice)
		assert.Equal(t, int64(259900), res.Order.Amount)

		data := f.creator.Calls[0].Arguments.Get(0).(map[string]interface{})
		assert.Equal(t, int64(259900), data["amount"])
		assert.Equal(t, "INR", data["currency"])
		assert.Equal(t, receipt(f.user.ID, f.svc.now()), data["receipt"])

		snap, err := f.checkouts.Get(ctx, "order_1")
		require.NoError(t, err)
		assert.Equal(t, f.user.ID, snap.UserID)
		assert.Equal(t, models.CheckoutSourceBuyNow, snap.Source)
		require.Len(t, snap.Lines, 1)
		assert.Equal(t, 2, snap.Lines[0].Quantity)
		f.creator.AssertExpectations(t)
	})

	t.Run("Insufficient Stock", func(t *testing.T) {
		f := newOrderFixture(t)
		_, err := f.svc.BuyNow(ctx, f.user.ID, f.product.ID.Hex(), 6)
		assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)
		f.creator.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Bad Input", func(t *testing.T) {
		f := newOrderFixture(t)
		_, err := f.svc.BuyNow(ctx, f.user.ID, "", 1)
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
		_, err = f.svc.BuyNow(ctx, f.user.ID, f.product.ID.Hex(), 0)
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
		_, err = f.svc.BuyNow(ctx, f.user.ID, primitive.NewObjectID().Hex(), 1)
		assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	})

	t.Run("Gateway Failure", func(t *testing.T) {
		f := newOrderFixture(t)
		f.creator.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("timeout")).Once()
		_, err := f.svc.BuyNow(ctx, f.user.ID, f.product.ID.Hex(), 1)
		assert.Equal(t, http.StatusInternalServerError, statusOf(t, err))
		assert.Empty(t, f.checkouts.snaps)
	})
}

func TestFromCart(t *testing.T) {
	ctx := context.Background()

	t.Run("Empty Cart", func(t *testing.T) {
		f := newOrderFixture(t)
		_, err := f.svc.FromCart(ctx, f.user.ID)
		assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	})

	t.Run("Insufficient Stock", func(t *testing.T) {
		f := newOrderFixture(t)
		require.NoError(t, f.carts.Save(ctx, &models.Cart{UserID: f.user.ID, Items: []models.CartItem{{Product: f.product.ID, Quantity: 9}}}))
		_, err := f.svc.FromCart(ctx, f.user.ID)
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	})

	t.Run("Success Prices From Catalog", func(t *testing.T) {
		f := newOrderFixture(t)
		f.expectGatewayOrder("order_cart")
		require.NoError(t, f.carts.Save(ctx, &models.Cart{
			UserID:     f.user.ID,
			Items:      []models.CartItem{{Product: f.product.ID, Quantity: 2}},
			TotalPrice: 1, // stale
		}))

		res, err := f.svc.FromCart(ctx, f.user.ID)
		require.NoError(t, err)
		assert.Equal(t, 2599.0, res.TotalPrice)
		require.Len(t, res.ProductDetails, 1)

		snap, err := f.checkouts.Get(ctx, "order_cart")
		require.NoError(t, err)
		assert.Equal(t, models.CheckoutSourceCart, snap.Source)
	})
}

func TestVerify(t *testing.T) {
	ctx := context.Background()

	t.Run("Valid Signature Creates Order", func(t *testing.T) {
		f := newOrderFixture(t)
		f.expectGatewayOrder("order_1")
		_, err := f.svc.BuyNow(ctx, f.user.ID, f.product.ID.Hex(), 2)
		require.NoError(t, err)

		order, err := f.svc.Verify(ctx, f.user.ID, f.verifyReq("order_1", "pay_1"))
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusPaid, order.Status)
		assert.Equal(t, 2599.0, order.Amount)
		assert.Equal(t, "pay_1", order.RazorpayPaymentID)
		assert.Equal(t, 1, f.orders.count())

		_, err = f.checkouts.Get(ctx, "order_1")
		assert.Error(t, err, "snapshot is consumed")
		require.Len(t, f.sales.calls, 1)
		assert.Equal(t, 2, f.sales.calls[0][0].Quantity)
	})

	t.Run("Tampered Signature", func(t *testing.T) {
		f := newOrderFixture(t)
		f.expectGatewayOrder("order_1")
		_, err := f.svc.BuyNow(ctx, f.user.ID, f.product.ID.Hex(), 1)
		require.NoError(t, err)

		req := f.verifyReq("order_1", "pay_1")
		req.RazorpayPaymentID = "pay_2"
		_, err = f.svc.Verify(ctx, f.user.ID, req)
		assert.ErrorIs(t, err, apperrors.ErrPaymentFailed)
		assert.Zero(t, f.orders.count())
	})

	t.Run("Missing Parameters", func(t *testing.T) {
		f := newOrderFixture(t)
		_, err := f.svc.Verify(ctx, f.user.ID, VerifyRequest{RazorpayOrderID: "order_1"})
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	})

	t.Run("Client Claims Are Checked Against Snapshot", func(t *testing.T) {
		f := newOrderFixture(t)
		f.expectGatewayOrder("order_1")
		_, err := f.svc.BuyNow(ctx, f.user.ID, f.product.ID.Hex(), 1)
		require.NoError(t, err)

		req := f.verifyReq("order_1", "pay_1")
		cheap := 1.0
		req.Amount = &cheap
		_, err = f.svc.Verify(ctx, f.user.ID, req)
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

		req = f.verifyReq("order_1", "pay_1")
		req.Products = []models.OrderLine{{ProductID: f.product.ID, Quantity: 5}}
		_, err = f.svc.Verify(ctx, f.user.ID, req)
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

		// Matching claims pass; the stored amount comes from the snapshot.
		req = f.verifyReq("order_1", "pay_1")
		amount := 1299.5
		req.Amount = &amount
		req.Currency = "inr"
		req.Products = []models.OrderLine{{ProductID: f.product.ID, Quantity: 1}}
		order, err := f.svc.Verify(ctx, f.user.ID, req)
		require.NoError(t, err)
		assert.Equal(t, 1299.5, order.Amount)
	})

	t.Run("Another Users Checkout", func(t *testing.T) {
		f := newOrderFixture(t)
		f.expectGatewayOrder("order_1")
		_, err := f.svc.BuyNow(ctx, f.user.ID, f.product.ID.Hex(), 1)
		require.NoError(t, err)

		_, err = f.svc.Verify(ctx, primitive.NewObjectID(), f.verifyReq("order_1", "pay_1"))
		assert.Equal(t, http.StatusForbidden, statusOf(t, err))
	})

	t.Run("Unknown Gateway Order", func(t *testing.T) {
		f := newOrderFixture(t)
		_, err := f.svc.Verify(ctx, f.user.ID, f.verifyReq("order_x", "pay_1"))
		assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	})

	t.Run("Repeated Verify Is Idempotent", func(t *testing.T) {
		f := newOrderFixture(t)
		f.expectGatewayOrder("order_1")
		_, err := f.svc.BuyNow(ctx, f.user.ID, f.product.ID.Hex(), 1)
		require.NoError(t, err)

		first, err := f.svc.Verify(ctx, f.user.ID, f.verifyReq("order_1", "pay_1"))
		require.NoError(t, err)
		second, err := f.svc.Verify(ctx, f.user.ID, f.verifyReq("order_1", "pay_1"))
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, 1, f.orders.count())
		assert.Len(t, f.sales.calls, 1)
	})

	t.Run("Concurrent Verify Writes One Order", func(t *testing.T) {
		f := newOrderFixture(t)
		f.expectGatewayOrder("order_1")
		_, err := f.svc.BuyNow(ctx, f.user.ID, f.product.ID.Hex(), 1)
		require.NoError(t, err)

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = f.svc.Verify(ctx, f.user.ID, f.verifyReq("order_1", "pay_1"))
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, f.orders.count())
	})

	t.Run("Cart Checkout Clears Cart", func(t *testing.T) {
		f := newOrderFixture(t)
		f.expectGatewayOrder("order_cart")
		require.NoError(t, f.carts.Save(ctx, &models.Cart{UserID: f.user.ID, Items: []models.CartItem{{Product: f.product.ID, Quantity: 1}}}))
		_, err := f.svc.FromCart(ctx, f.user.ID)
		require.NoError(t, err)

		_, err = f.svc.Verify(ctx, f.user.ID, f.verifyReq("order_cart", "pay_1"))
		require.NoError(t, err)
		_, err = f.carts.FindByUser(ctx, f.user.ID)
		assert.Error(t, err)
	})

	t.Run("Sales Left To Queue", func(t *testing.T) {
		f := newOrderFixture(t)
		f.svc.cfg.SalesViaQueue = true
		f.expectGatewayOrder("order_1")
		_, err := f.svc.BuyNow(ctx, f.user.ID, f.product.ID.Hex(), 1)
		require.NoError(t, err)

		_, err = f.svc.Verify(ctx, f.user.ID, f.verifyReq("order_1", "pay_1"))
		require.NoError(t, err)
		assert.Empty(t, f.sales.calls)
	})
}

func TestHandleStripeWebhook_NotEnabledForRazorpay(t *testing.T) {
	f := newOrderFixture(t)
	err := f.svc.HandleStripeWebhook(context.Background(), []byte(`{}`), "sig")
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestGetUserOrders_Populates(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)
	f.expectGatewayOrder("order_1")
	_, err := f.svc.BuyNow(ctx, f.user.ID, f.product.ID.Hex(), 1)
	require.NoError(t, err)
	_, err = f.svc.Verify(ctx, f.user.ID, f.verifyReq("order_1", "pay_1"))
	require.NoError(t, err)

	views, err := f.svc.GetUserOrders(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.NotNil(t, views[0].User)
	assert.Equal(t, "alice", views[0].User.UserName)
	require.Len(t, views[0].Products, 1)
	require.NotNil(t, views[0].Products[0].Product)
	assert.Equal(t, "Sneakers", views[0].Products[0].Product.ProductName)

	other, err := f.svc.GetUserOrders(ctx, primitive.NewObjectID())
	require.NoError(t, err)
	assert.Empty(t, other)

	all, err := f.svc.GetAllOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
