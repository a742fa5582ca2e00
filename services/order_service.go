package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/apperrors"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/events"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/models"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/payment"
	aws_pkg "github.com/MdFaizanuddin1/Ecommerce-Full-stack/pkg/aws"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/repository"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// VerifyRequest is the client's proof of payment. Products, Amount and
// Currency are optional claims checked against the checkout snapshot.
type VerifyRequest struct {
	RazorpayOrderID   string             `json:"razorpay_order_id"`
	RazorpayPaymentID string             `json:"razorpay_payment_id"`
	RazorpaySignature string             `json:"razorpay_signature"`
	Products          []models.OrderLine `json:"products"`
	Amount            *float64           `json:"amount"`
	Currency          string             `json:"currency"`
}

// WebhookParser is implemented by gateways that push payment results.
type WebhookParser interface {
	ParseWebhook(payload []byte, sigHeader string) (*payment.SucceededIntent, error)
}

// OrderDeps are the collaborators of OrderService.
type OrderDeps struct {
	Products  repository.ProductRepo
	Carts     repository.CartRepo
	Orders    repository.OrderRepo
	Users     repository.UserRepo
	Checkouts repository.CheckoutStore
	Gateway   payment.Gateway
	Publisher *events.Publisher
	Sales     events.SaleRecorder
	Metrics   *aws_pkg.MetricsClient
}

type OrderConfig struct {
	Currency    string
	SnapshotTTL time.Duration
	// SalesViaQueue leaves stock bookkeeping to the order events consumer.
	SalesViaQueue bool
}

type OrderService struct {
	OrderDeps
	cfg OrderConfig
	now func() time.Time
}

func NewOrderService(deps OrderDeps, cfg OrderConfig) *OrderService {
	if cfg.Currency == "" {
		cfg.Currency = "INR"
	}
	if cfg.SnapshotTTL <= 0 {
		cfg.SnapshotTTL = 24 * time.Hour
	}
	return &OrderService{OrderDeps: deps, cfg: cfg, now: time.Now}
}

// receipt is r_<first 6 of user id>_<last 6 digits of unix ms>.
func receipt(userID primitive.ObjectID, now time.Time) string {
	ms := strconv.FormatInt(now.UnixMilli(), 10)
	return fmt.Sprintf("r_%s_%s", userID.Hex()[:6], ms[len(ms)-6:])
}

// BuyNow opens a gateway order for a single product.
func (s *OrderService) BuyNow(ctx context.Context, userID primitive.ObjectID, productID string, quantity int) (*models.CheckoutResult, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, apperrors.BadRequest("Product ID is required")
	}
	if quantity < 1 {
		return nil, apperrors.BadRequest("Invalid quantity")
	}
	pid, err := ParseID(productID, "Invalid Product ID format")
	if err != nil {
		return nil, err
	}

	product, err := s.Products.FindByID(ctx, pid)
	if err != nil {
		return nil, notFoundOr(err, "No product found with this ID", "failed to fetch product")
	}
	if quantity > product.Stock {
		return nil, apperrors.ErrInsufficientStock
	}

	total := lineTotal(product.Price, quantity)
	lines := []models.OrderLine{{
		ProductID: product.ID,
		Name:      product.ProductName,
		Price:     product.Price,
		Quantity:  quantity,
		Subtotal:  moneyFloat(total),
	}}

	order, err := s.checkout(ctx, userID, lines, total, models.CheckoutSourceBuyNow)
	if err != nil {
		return nil, err
	}
	return &models.CheckoutResult{Order: order, Product: product, TotalPrice: moneyFloat(total)}, nil
}

// FromCart opens a gateway order for everything in the user's cart, priced
// from the catalog as it is now.
func (s *OrderService) FromCart(ctx context.Context, userID primitive.ObjectID) (*models.CheckoutResult, error) {
	cart, err := s.Carts.FindByUser(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && len(cart.Items) == 0) {
		return nil, apperrors.NotFound("Your cart is empty")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load cart", err)
	}

	ids := make([]primitive.ObjectID, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.Product)
	}
	products, err := s.Products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.Internal("failed to load cart products", err)
	}
	byID := make(map[primitive.ObjectID]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	total := decimal.Zero
	lines := make([]models.OrderLine, 0, len(cart.Items))
	for _, item := range cart.Items {
		p, ok := byID[item.Product]
		if !ok {
			return nil, apperrors.NotFound(fmt.Sprintf("Product with ID %s not found", item.Product.Hex()))
		}
		if item.Quantity > p.Stock {
			return nil, apperrors.BadRequest(fmt.Sprintf("Insufficient stock for %s", p.ProductName))
		}
		subtotal := lineTotal(p.Price, item.Quantity)
		total = total.Add(subtotal)
		lines = append(lines, models.OrderLine{
			ProductID: p.ID,
			Name:      p.ProductName,
			Price:     p.Price,
			Quantity:  item.Quantity,
			Subtotal:  moneyFloat(subtotal),
		})
	}
	if !total.IsPositive() {
		return nil, apperrors.BadRequest("Invalid total price")
	}

	order, err := s.checkout(ctx, userID, lines, total, models.CheckoutSourceCart)
	if err != nil {
		return nil, err
	}
	return &models.CheckoutResult{Order: order, ProductDetails: lines, TotalPrice: moneyFloat(total)}, nil
}

// checkout creates the gateway order and remembers what it was for.
func (s *OrderService) checkout(ctx context.Context, userID primitive.ObjectID, lines []models.OrderLine, total decimal.Decimal, source string) (*models.GatewayOrder, error) {
	now := s.now()
	rcpt := receipt(userID, now)

	order, err := s.Gateway.CreateOrder(ctx, payment.CreateOrderRequest{
		AmountMinor: toMinorUnits(total),
		Currency:    s.cfg.Currency,
		Receipt:     rcpt,
		Notes:       map[string]string{"userId": userID.Hex(), "source": source},
	})
	if err != nil {
		return nil, apperrors.Internal("Payment gateway error", err)
	}

	snap := &models.CheckoutSnapshot{
		GatewayOrderID: order.ID,
		UserID:         userID,
		Lines:          lines,
		Amount:         moneyFloat(total),
		AmountMinor:    toMinorUnits(total),
		Currency:       s.cfg.Currency,
		Source:         source,
		Provider:       s.Gateway.Name(),
		CreatedAt:      now.UTC(),
	}
	if err := s.Checkouts.Save(ctx, snap, s.cfg.SnapshotTTL); err != nil {
		return nil, apperrors.Internal("Order creation failed", err)
	}

	_ = s.Metrics.RecordCount(ctx, aws_pkg.MetricGatewayOrdersCreated, map[string]string{"Provider": s.Gateway.Name()})
	zap.L().Info("gateway order created",
		zap.String("gateway_order_id", order.ID),
		zap.String("receipt", rcpt),
		zap.String("source", source),
		zap.Int64("amount_minor", snap.AmountMinor),
	)
	return order, nil
}

// Verify checks the payment proof and persists the paid order. Only the
// snapshot taken at checkout decides what was bought and for how much.
func (s *OrderService) Verify(ctx context.Context, userID primitive.ObjectID, req VerifyRequest) (*models.Order, error) {
	if req.RazorpayOrderID == "" || req.RazorpayPaymentID == "" ||
		(req.RazorpaySignature == "" && s.Gateway.Name() == payment.ProviderRazorpay) {
		return nil, apperrors.BadRequest("Missing payment verification parameters")
	}

	if err := s.Gateway.VerifyPayment(ctx, req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature); err != nil {
		if errors.Is(err, payment.ErrSignatureMismatch) || errors.Is(err, payment.ErrNotCaptured) {
			_ = s.Metrics.RecordCount(ctx, aws_pkg.MetricPaymentRejected, map[string]string{"Provider": s.Gateway.Name()})
			zap.L().Warn("payment verification rejected",
				zap.String("gateway_order_id", req.RazorpayOrderID),
				zap.String("user_id", userID.Hex()),
				zap.Error(err),
			)
			return nil, apperrors.ErrPaymentFailed
		}
		return nil, apperrors.Internal("Payment gateway error", err)
	}

	snap, err := s.Checkouts.Get(ctx, req.RazorpayOrderID)
	if errors.Is(err, repository.ErrNotFound) {
		// A repeated verify after the snapshot was consumed.
		existing, ferr := s.Orders.FindByGatewayOrderID(ctx, req.RazorpayOrderID)
		if ferr == nil && existing.UserID == userID {
			return existing, nil
		}
		return nil, apperrors.NotFound("No pending checkout found for this order")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load checkout", err)
	}

	if snap.UserID != userID {
		zap.L().Warn("verify for another user's checkout",
			zap.String("gateway_order_id", req.RazorpayOrderID),
			zap.String("user_id", userID.Hex()),
		)
		return nil, apperrors.Forbidden("This order belongs to another user")
	}
	if err := matchClaims(snap, req); err != nil {
		return nil, err
	}

	return s.finalize(ctx, snap, req.RazorpayPaymentID, req.RazorpaySignature)
}

// matchClaims rejects a body that disagrees with the snapshot.
func matchClaims(snap *models.CheckoutSnapshot, req VerifyRequest) error {
	mismatch := apperrors.BadRequest("Order details do not match the checkout")

	if req.Amount != nil && !decimal.NewFromFloat(*req.Amount).Round(2).Equal(decimal.NewFromFloat(snap.Amount).Round(2)) {
		return mismatch
	}
	if req.Currency != "" && !strings.EqualFold(req.Currency, snap.Currency) {
		return mismatch
	}
	if len(req.Products) > 0 && !sameLines(req.Products, snap.Lines) {
		return mismatch
	}
	return nil
}

// sameLines compares product ids and quantities, ignoring order.
func sameLines(a, b []models.OrderLine) bool {
	if len(a) != len(b) {
		return false
	}
	key := func(lines []models.OrderLine) []string {
		out := make([]string, 0, len(lines))
		for _, l := range lines {
			out = append(out, l.ProductID.Hex()+":"+strconv.Itoa(l.Quantity))
		}
		sort.Strings(out)
		return out
	}
	ka, kb := key(a), key(b)
	for i := range ka {
		if ka[i] != kb[i] {
			return false
		}
	}
	return true
}

// finalize writes the paid order at most once and runs the follow-ups.
func (s *OrderService) finalize(ctx context.Context, snap *models.CheckoutSnapshot, paymentID, signature string) (*models.Order, error) {
	order := &models.Order{
		UserID:            snap.UserID,
		Products:          snap.Lines,
		Amount:            snap.Amount,
		Currency:          snap.Currency,
		Provider:          snap.Provider,
		RazorpayOrderID:   snap.GatewayOrderID,
		RazorpayPaymentID: paymentID,
		RazorpaySignature: signature,
		Status:            models.OrderStatusPaid,
	}

	if err := s.Orders.Create(ctx, order); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			existing, ferr := s.Orders.FindByGatewayOrderID(ctx, snap.GatewayOrderID)
			if ferr != nil {
				return nil, apperrors.Internal("failed to load existing order", ferr)
			}
			return existing, nil
		}
		return nil, apperrors.Internal("failed to save order", err)
	}

	// The order is committed; nothing below may fail the request.
	bg := context.WithoutCancel(ctx)
	if err := s.Checkouts.Delete(bg, snap.GatewayOrderID); err != nil {
		zap.L().Warn("failed to delete checkout snapshot", zap.Error(err), zap.String("gateway_order_id", snap.GatewayOrderID))
	}
	if snap.Source == models.CheckoutSourceCart {
		if _, err := s.Carts.DeleteByUser(bg, snap.UserID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			zap.L().Warn("failed to clear cart after checkout", zap.Error(err), zap.String("user_id", snap.UserID.Hex()))
		}
	}

	evt := models.OrderPaidEvent{
		OrderID:        order.ID.Hex(),
		UserID:         order.UserID.Hex(),
		GatewayOrderID: order.RazorpayOrderID,
		Lines:          order.Products,
		Amount:         order.Amount,
		Currency:       order.Currency,
		PaidAt:         order.CreatedAt,
	}
	if err := s.Publisher.OrderPaid(bg, evt); err != nil {
		zap.L().Error("failed to publish order paid event", zap.Error(err), zap.String("order_id", evt.OrderID))
	}
	if !s.cfg.SalesViaQueue && s.Sales != nil {
		if err := s.Sales.RecordSale(bg, order.Products); err != nil {
			zap.L().Error("failed to record sale", zap.Error(err), zap.String("order_id", evt.OrderID))
		}
	}

	dims := map[string]string{"Provider": order.Provider}
	_ = s.Metrics.RecordCount(bg, aws_pkg.MetricPaymentVerified, dims)
	_ = s.Metrics.RecordCount(bg, aws_pkg.MetricOrdersCompleted, dims)
	_ = s.Metrics.RecordValue(bg, aws_pkg.MetricOrderAmount, order.Amount, map[string]string{"Currency": order.Currency})

	zap.L().Info("order paid",
		zap.String("order_id", evt.OrderID),
		zap.String("gateway_order_id", order.RazorpayOrderID),
		zap.Float64("amount", order.Amount),
	)
	return order, nil
}

// HandleStripeWebhook finalizes orders from payment_intent.succeeded events.
func (s *OrderService) HandleStripeWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	parser, ok := s.Gateway.(WebhookParser)
	if !ok {
		return apperrors.NotFound("Webhooks are not enabled for this payment provider")
	}

	intent, err := parser.ParseWebhook(payload, sigHeader)
	if err != nil {
		zap.L().Warn("rejected stripe webhook", zap.Error(err))
		return apperrors.BadRequest("Invalid webhook signature")
	}
	if intent == nil {
		return nil
	}

	snap, err := s.Checkouts.Get(ctx, intent.IntentID)
	if errors.Is(err, repository.ErrNotFound) {
		zap.L().Info("webhook for unknown or finished checkout", zap.String("gateway_order_id", intent.IntentID))
		return nil
	}
	if err != nil {
		return apperrors.Internal("failed to load checkout", err)
	}

	_, err = s.finalize(ctx, snap, intent.ChargeID, "")
	return err
}

func (s *OrderService) GetUserOrders(ctx context.Context, userID primitive.ObjectID) ([]models.OrderView, error) {
	orders, err := s.Orders.FindByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("failed to fetch orders", err)
	}
	return s.populate(ctx, orders)
}

func (s *OrderService) GetAllOrders(ctx context.Context) ([]models.OrderView, error) {
	orders, err := s.Orders.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to fetch orders", err)
	}
	return s.populate(ctx, orders)
}

// populate resolves buyers and products for a page of orders.
func (s *OrderService) populate(ctx context.Context, orders []models.Order) ([]models.OrderView, error) {
	userSet := map[primitive.ObjectID]struct{}{}
	productSet := map[primitive.ObjectID]struct{}{}
	for _, o := range orders {
		userSet[o.UserID] = struct{}{}
		for _, l := range o.Products {
			productSet[l.ProductID] = struct{}{}
		}
	}
	userIDs := make([]primitive.ObjectID, 0, len(userSet))
	for id := range userSet {
		userIDs = append(userIDs, id)
	}
	productIDs := make([]primitive.ObjectID, 0, len(productSet))
	for id := range productSet {
		productIDs = append(productIDs, id)
	}

	users, err := s.Users.FindSummaries(ctx, userIDs)
	if err != nil {
		return nil, apperrors.Internal("failed to load order users", err)
	}
	products, err := s.Products.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, apperrors.Internal("failed to load order products", err)
	}
	summaries := make(map[primitive.ObjectID]models.ProductSummary, len(products))
	for i := range products {
		summaries[products[i].ID] = products[i].Summary()
	}

	views := make([]models.OrderView, 0, len(orders))
	for _, o := range orders {
		view := models.OrderView{
			ID:                o.ID,
			Products:          make([]models.OrderLineView, 0, len(o.Products)),
			Amount:            o.Amount,
			Currency:          o.Currency,
			RazorpayOrderID:   o.RazorpayOrderID,
			RazorpayPaymentID: o.RazorpayPaymentID,
			Status:            o.Status,
			CreatedAt:         o.CreatedAt,
		}
		if u, ok := users[o.UserID]; ok {
			view.User = &u
		}
		for _, l := range o.Products {
			line := models.OrderLineView{Quantity: l.Quantity}
			if p, ok := summaries[l.ProductID]; ok {
				line.Product = &p
			} else {
				// Deleted since; fall back to what was recorded at checkout.
				line.Product = &models.ProductSummary{ID: l.ProductID, ProductName: l.Name, Price: l.Price}
			}
			view.Products = append(view.Products, line)
		}
		views = append(views, view)
	}
	return views, nil
}
