package services

import (
	"context"
	"sync"
	"time"

	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/models"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/repository"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Users ---

type fakeUsers struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]*models.User
}

func newFakeUsers(users ...*models.User) *fakeUsers {
	f := &fakeUsers{byID: map[primitive.ObjectID]*models.User{}}
	for _, u := range users {
		if u.ID.IsZero() {
			u.ID = primitive.NewObjectID()
		}
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == user.Email || u.UserName == user.UserName {
			return repository.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) FindByReferralCode(_ context.Context, code string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.ReferralCode == code {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) ExistsByIdentity(_ context.Context, userName, email string, phone int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.UserName == userName || u.Email == email || u.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUsers) ReferralCodeExists(ctx context.Context, code string) (bool, error) {
	_, err := f.FindByReferralCode(ctx, code)
	return err == nil, nil
}

func (f *fakeUsers) FindAll(_ context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.User, 0, len(f.byID))
	for _, u := range f.byID {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUsers) FindReferred(_ context.Context, ids []primitive.ObjectID) ([]models.ReferredUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.ReferredUser{}
	for _, id := range ids {
		if u, ok := f.byID[id]; ok {
			out = append(out, models.ReferredUser{ID: u.ID, UserName: u.UserName, Email: u.Email})
		}
	}
	return out, nil
}

func (f *fakeUsers) FindSummaries(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[primitive.ObjectID]models.UserSummary{}
	for _, id := range ids {
		if u, ok := f.byID[id]; ok {
			out[id] = models.UserSummary{ID: u.ID, UserName: u.UserName, Email: u.Email}
		}
	}
	return out, nil
}

func (f *fakeUsers) SetRefreshToken(_ context.Context, id primitive.ObjectID, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.RefreshToken = token
	return nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id primitive.ObjectID, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Password = hash
	return nil
}

func (f *fakeUsers) AddReferredUser(_ context.Context, referrerID, referredID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[referrerID]
	if !ok {
		return repository.ErrNotFound
	}
	u.ReferredUsers = append(u.ReferredUsers, referredID)
	return nil
}

func (f *fakeUsers) AddAddress(_ context.Context, userID, addressID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[userID]
	if !ok {
		return repository.ErrNotFound
	}
	for _, a := range u.Addresses {
		if a == addressID {
			return nil
		}
	}
	u.Addresses = append(u.Addresses, addressID)
	return nil
}

func (f *fakeUsers) RemoveAddress(_ context.Context, userID, addressID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[userID]
	if !ok {
		return repository.ErrNotFound
	}
	kept := u.Addresses[:0]
	for _, a := range u.Addresses {
		if a != addressID {
			kept = append(kept, a)
		}
	}
	u.Addresses = kept
	return nil
}

func (f *fakeUsers) SetRoleByEmail(_ context.Context, email, role string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			u.Role = role
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeUsers) EnsureIndexes(context.Context) error { return nil }

// --- Products ---

type fakeProducts struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]*models.Product
}

func newFakeProducts(products ...*models.Product) *fakeProducts {
	f := &fakeProducts{byID: map[primitive.ObjectID]*models.Product{}}
	for _, p := range products {
		if p.ID.IsZero() {
			p.ID = primitive.NewObjectID()
		}
		f.byID[p.ID] = p
	}
	return f
}

func (f *fakeProducts) Create(_ context.Context, p *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = primitive.NewObjectID()
	f.byID[p.ID] = p
	return nil
}

func (f *fakeProducts) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.byID[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeProducts) FindByBarcode(_ context.Context, barcode int64) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.byID {
		if p.BarcodeNumber == barcode {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeProducts) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Product{}
	for _, id := range ids {
		if p, ok := f.byID[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

// Find ignores the filter; tests that need filtering use a single product.
func (f *fakeProducts) Find(_ context.Context, _ bson.M, _, _ int64) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Product{}
	for _, p := range f.byID {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProducts) Count(_ context.Context, _ bson.M) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.byID)), nil
}

func (f *fakeProducts) Update(_ context.Context, id primitive.ObjectID, _ bson.M) (*models.Product, error) {
	return f.FindByID(context.Background(), id)
}

func (f *fakeProducts) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeProducts) DeleteAll(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := int64(len(f.byID))
	f.byID = map[primitive.ObjectID]*models.Product{}
	return n, nil
}

func (f *fakeProducts) AdjustStock(_ context.Context, id primitive.ObjectID, delta int, reason string) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	before := *p
	p.Stock += delta
	p.StockHistory = append(p.StockHistory, models.StockChange{QuantityChanged: delta, ChangeReason: reason, Date: time.Now()})
	return &before, nil
}

func (f *fakeProducts) AddReview(_ context.Context, productID, reviewID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[productID]
	if !ok {
		return repository.ErrNotFound
	}
	p.Reviews = append(p.Reviews, reviewID)
	return nil
}

func (f *fakeProducts) RemoveReview(_ context.Context, productID, reviewID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[productID]
	if !ok {
		return repository.ErrNotFound
	}
	kept := p.Reviews[:0]
	for _, r := range p.Reviews {
		if r != reviewID {
			kept = append(kept, r)
		}
	}
	p.Reviews = kept
	return nil
}

func (f *fakeProducts) CountByCategory(_ context.Context, categoryID primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, p := range f.byID {
		for _, c := range p.Category {
			if c == categoryID {
				n++
			}
		}
	}
	return n, nil
}

func (f *fakeProducts) EnsureIndexes(context.Context) error { return nil }

func (f *fakeProducts) stock(id primitive.ObjectID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[id].Stock
}

// --- Carts ---

type fakeCarts struct {
	mu        sync.Mutex
	byUser    map[primitive.ObjectID]*models.Cart
	conflicts int // Save fails with ErrVersionConflict this many times
}

func newFakeCarts() *fakeCarts {
	return &fakeCarts{byUser: map[primitive.ObjectID]*models.Cart{}}
}

func (f *fakeCarts) FindByUser(_ context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byUser[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	cp.Items = append([]models.CartItem(nil), c.Items...)
	return &cp, nil
}

func (f *fakeCarts) Save(_ context.Context, cart *models.Cart) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.conflicts > 0 {
		f.conflicts--
		return repository.ErrVersionConflict
	}
	if stored, ok := f.byUser[cart.UserID]; ok && stored.Version != cart.Version {
		return repository.ErrVersionConflict
	}
	if cart.ID.IsZero() {
		cart.ID = primitive.NewObjectID()
		cart.CreatedAt = time.Now()
	}
	cart.Version++
	cart.UpdatedAt = time.Now()
	cp := *cart
	cp.Items = append([]models.CartItem(nil), cart.Items...)
	f.byUser[cart.UserID] = &cp
	return nil
}

func (f *fakeCarts) Delete(_ context.Context, cart *models.Cart) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byUser, cart.UserID)
	return nil
}

func (f *fakeCarts) DeleteByUser(_ context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byUser[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(f.byUser, userID)
	return c, nil
}

func (f *fakeCarts) EnsureIndexes(context.Context) error { return nil }

// --- Orders ---

type fakeOrders struct {
	mu     sync.Mutex
	orders []models.Order
}

func (f *fakeOrders) Create(_ context.Context, order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.RazorpayOrderID == order.RazorpayOrderID {
			return repository.ErrDuplicate
		}
	}
	order.ID = primitive.NewObjectID()
	order.CreatedAt = time.Now()
	f.orders = append(f.orders, *order)
	return nil
}

func (f *fakeOrders) FindByGatewayOrderID(_ context.Context, id string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.RazorpayOrderID == id {
			cp := o
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeOrders) FindByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Order{}
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrders) FindAll(_ context.Context) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Order(nil), f.orders...), nil
}

func (f *fakeOrders) EnsureIndexes(context.Context) error { return nil }

func (f *fakeOrders) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders)
}

// --- Checkout snapshots ---

type fakeCheckouts struct {
	mu    sync.Mutex
	snaps map[string]*models.CheckoutSnapshot
}

func newFakeCheckouts() *fakeCheckouts {
	return &fakeCheckouts{snaps: map[string]*models.CheckoutSnapshot{}}
}

func (f *fakeCheckouts) Save(_ context.Context, snap *models.CheckoutSnapshot, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *snap
	f.snaps[snap.GatewayOrderID] = &cp
	return nil
}

func (f *fakeCheckouts) Get(_ context.Context, id string) (*models.CheckoutSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.snaps[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeCheckouts) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.snaps, id)
	return nil
}

// --- Addresses ---

type fakeAddresses struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]*models.Address
}

func newFakeAddresses() *fakeAddresses {
	return &fakeAddresses{byID: map[primitive.ObjectID]*models.Address{}}
}

func (f *fakeAddresses) Create(_ context.Context, a *models.Address) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a.ID = primitive.NewObjectID()
	cp := *a
	f.byID[a.ID] = &cp
	return nil
}

func (f *fakeAddresses) FindOwned(_ context.Context, id, userID primitive.ObjectID) (*models.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok || a.User != userID {
		return nil, repository.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAddresses) FindByUser(_ context.Context, userID primitive.ObjectID, deleted bool) ([]models.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Address{}
	for _, a := range f.byID {
		if a.User == userID && a.IsDeleted == deleted {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAddresses) UpdateOwned(_ context.Context, id, userID primitive.ObjectID, updates bson.M) (*models.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok || a.User != userID || a.IsDeleted {
		return nil, repository.ErrNotFound
	}
	if v, ok := updates["city"].(string); ok {
		a.City = v
	}
	if v, ok := updates["fullName"].(string); ok {
		a.FullName = v
	}
	if v, ok := updates["pinCode"].(int64); ok {
		a.PinCode = v
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAddresses) SetDeleted(_ context.Context, id, userID primitive.ObjectID, deleted bool) (*models.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok || a.User != userID || a.IsDeleted == deleted {
		return nil, repository.ErrNotFound
	}
	a.IsDeleted = deleted
	cp := *a
	return &cp, nil
}

func (f *fakeAddresses) EnsureIndexes(context.Context) error { return nil }

// --- Gateway / token mocks ---

type mockOrderCreator struct{ mock.Mock }

func (m *mockOrderCreator) Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error) {
	args := m.Called(data, extraHeaders)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]interface{}), args.Error(1)
}

type MockTokenService struct{ mock.Mock }

func (m *MockTokenService) GenerateTokenPair(user *models.User) (*TokenPair, error) {
	args := m.Called(user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TokenPair), args.Error(1)
}

func (m *MockTokenService) ValidateToken(tokenStr, expectedType string) (*Claims, error) {
	args := m.Called(tokenStr, expectedType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Claims), args.Error(1)
}

// fakeSales records what RecordSale was asked to book.
type fakeSales struct {
	mu    sync.Mutex
	calls [][]models.OrderLine
}

func (f *fakeSales) RecordSale(_ context.Context, lines []models.OrderLine) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, lines)
	return nil
}
