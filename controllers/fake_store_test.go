package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"testing"
	"time"

	"gasdelivery/models"
	"gasdelivery/store"

	"github.com/go-michi/michi"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// fakeStore is an in-memory Store with the same error contract as store.Store.
type fakeStore struct {
	mu        sync.Mutex
	users     map[uuid.UUID]models.User
	suppliers map[uuid.UUID]models.Supplier
	cylinders map[uuid.UUID]models.GasCylinder
	orders    map[uuid.UUID]models.Order
	seq       int
	clock     time.Time

	pingErr              error
	supplierErr          error
	orderErr             error
	beforeOrder          func() // runs under the lock at the start of CreateOrder
	beforeCylinderUpdate func() // runs under the lock at the start of UpdateCylinder
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     map[uuid.UUID]models.User{},
		suppliers: map[uuid.UUID]models.Supplier{},
		cylinders: map[uuid.UUID]models.GasCylinder{},
		orders:    map[uuid.UUID]models.Order{},
		clock:     time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC),
	}
}

// tick returns a strictly increasing timestamp so creation order is observable.
func (f *fakeStore) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *fakeStore) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeStore) ListUsers(ctx context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.User{}
	for _, u := range f.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) GetUser(ctx context.Context, id uuid.UUID) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, store.ErrNotFound
}

func (f *fakeStore) CreateUser(ctx context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return store.ErrDuplicateEmail
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.CreatedAt = f.tick()
	u.UpdatedAt = u.CreatedAt
	f.users[u.ID] = *u
	return nil
}

func (f *fakeStore) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Supplier{}
	for _, s := range f.suppliers {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeStore) GetSupplier(ctx context.Context, id uuid.UUID) (models.Supplier, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.supplierErr != nil {
		return models.Supplier{}, f.supplierErr
	}
	s, ok := f.suppliers[id]
	if !ok {
		return models.Supplier{}, store.ErrNotFound
	}
	return s, nil
}

func (f *fakeStore) CreateSupplier(ctx context.Context, s *models.Supplier) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.CreatedAt = f.tick()
	s.UpdatedAt = s.CreatedAt
	f.suppliers[s.ID] = *s
	return nil
}

func (f *fakeStore) UpdateSupplier(ctx context.Context, id uuid.UUID, upd models.SupplierUpdate) (models.Supplier, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.suppliers[id]
	if !ok {
		return models.Supplier{}, store.ErrNotFound
	}
	if upd.Name != nil {
		s.Name = *upd.Name
	}
	if upd.ContactPerson != nil {
		s.ContactPerson = *upd.ContactPerson
	}
	if upd.Email != nil {
		s.Email = *upd.Email
	}
	if upd.Phone != nil {
		s.Phone = *upd.Phone
	}
	if upd.Address != nil {
		s.Address = *upd.Address
	}
	if upd.IsActive != nil {
		s.IsActive = *upd.IsActive
	}
	s.UpdatedAt = f.tick()
	f.suppliers[id] = s
	return s, nil
}

func (f *fakeStore) ListCylinders(ctx context.Context) ([]models.GasCylinder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.GasCylinder{}
	for _, c := range f.cylinders {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeStore) GetCylinder(ctx context.Context, id uuid.UUID) (models.GasCylinder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.cylinders[id]
	if !ok {
		return models.GasCylinder{}, store.ErrNotFound
	}
	if s, ok := f.suppliers[c.SupplierID]; ok {
		c.Supplier = &s
	}
	return c, nil
}

func (f *fakeStore) CreateCylinder(ctx context.Context, c *models.GasCylinder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.suppliers[c.SupplierID]; !ok {
		return store.ErrBadReference
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = f.tick()
	c.UpdatedAt = c.CreatedAt
	stored := *c
	stored.Supplier = nil
	f.cylinders[c.ID] = stored
	return nil
}

// UpdateCylinder only touches the fields set in upd, like the SQL store.
func (f *fakeStore) UpdateCylinder(ctx context.Context, id uuid.UUID, upd models.CylinderUpdate) (models.GasCylinder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.beforeCylinderUpdate != nil {
		f.beforeCylinderUpdate()
	}
	c, ok := f.cylinders[id]
	if !ok {
		return models.GasCylinder{}, store.ErrNotFound
	}
	if upd.SupplierID != nil {
		if _, ok := f.suppliers[*upd.SupplierID]; !ok {
			return models.GasCylinder{}, store.ErrBadReference
		}
		c.SupplierID = *upd.SupplierID
	}
	if upd.Name != nil {
		c.Name = *upd.Name
	}
	if upd.Description != nil {
		c.Description = *upd.Description
	}
	if upd.WeightKg != nil {
		c.WeightKg = *upd.WeightKg
	}
	if upd.Price != nil {
		c.Price = *upd.Price
	}
	if upd.StockQuantity != nil {
		c.StockQuantity = *upd.StockQuantity
	}
	if upd.IsActive != nil {
		c.IsActive = *upd.IsActive
	}
	c.UpdatedAt = f.tick()
	f.cylinders[id] = c

	if s, ok := f.suppliers[c.SupplierID]; ok {
		c.Supplier = &s
	}
	return c, nil
}

// sell removes qty units of a cylinder's stock. Callers hold the lock.
func (f *fakeStore) sell(id uuid.UUID, qty int) {
	c := f.cylinders[id]
	c.StockQuantity -= qty
	f.cylinders[id] = c
}

// CreateOrder applies all stock decrements or none, like the transactional store.
func (f *fakeStore) CreateOrder(ctx context.Context, o *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.beforeOrder != nil {
		f.beforeOrder()
	}
	if f.orderErr != nil {
		return f.orderErr
	}
	if _, ok := f.users[o.CustomerID]; !ok {
		return store.ErrBadReference
	}

	stock := map[uuid.UUID]int{}
	for _, it := range o.Items {
		c, ok := f.cylinders[it.GasCylinderID]
		if !ok {
			return store.ErrBadReference
		}
		if _, seen := stock[c.ID]; !seen {
			stock[c.ID] = c.StockQuantity
		}
		if stock[c.ID] < it.Quantity {
			return &store.InsufficientStockError{CylinderID: c.ID, Name: c.Name}
		}
		stock[c.ID] -= it.Quantity
	}
	for id, left := range stock {
		c := f.cylinders[id]
		c.StockQuantity = left
		f.cylinders[id] = c
	}

	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	f.seq++
	o.OrderNumber = fmt.Sprintf("GAS-%08d", f.seq)
	o.CreatedAt = f.tick()
	o.UpdatedAt = o.CreatedAt
	for i := range o.Items {
		o.Items[i].ID = uuid.New()
		o.Items[i].OrderID = o.ID
		o.Items[i].LineNo = i + 1
	}

	stored := *o
	stored.Items = append([]models.OrderItem(nil), o.Items...)
	for i := range stored.Items {
		stored.Items[i].GasCylinder = nil
	}
	f.orders[o.ID] = stored
	return nil
}

func (f *fakeStore) withRelations(o models.Order) models.Order {
	if u, ok := f.users[o.CustomerID]; ok {
		o.Customer = &u
	}
	if o.DriverID != nil {
		if u, ok := f.users[*o.DriverID]; ok {
			o.Driver = &u
		}
	}
	items := make([]models.OrderItem, len(o.Items))
	for i, it := range o.Items {
		if c, ok := f.cylinders[it.GasCylinderID]; ok {
			it.GasCylinder = &c
		}
		items[i] = it
	}
	o.Items = items
	return o
}

func (f *fakeStore) GetOrder(ctx context.Context, id uuid.UUID) (models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return models.Order{}, store.ErrNotFound
	}
	return f.withRelations(o), nil
}

func (f *fakeStore) ListOrders(ctx context.Context) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Order{}
	for _, o := range f.orders {
		out = append(out, f.withRelations(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) UpdateOrderStatus(ctx context.Context, change models.StatusChange) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[change.OrderID]
	if !ok {
		return store.ErrNotFound
	}
	if o.Status != change.From {
		return store.ErrStatusConflict
	}
	o.Status = change.To
	if change.DriverID != nil {
		id := *change.DriverID
		o.DriverID = &id
	}
	if change.ActualDeliveryTime != nil {
		t := *change.ActualDeliveryTime
		o.ActualDeliveryTime = &t
	}
	o.UpdatedAt = f.tick()
	f.orders[o.ID] = o
	return nil
}

// seed helpers

func (f *fakeStore) addUser(role models.Role, email string) models.User {
	u := models.User{Email: email, Password: "$2a$10$hash", FirstName: "Test", LastName: "User", Role: role, IsActive: true}
	if err := f.CreateUser(context.Background(), &u); err != nil {
		panic(err)
	}
	return u
}

func (f *fakeStore) addSupplier(name string) models.Supplier {
	s := models.Supplier{Name: name, IsActive: true}
	if err := f.CreateSupplier(context.Background(), &s); err != nil {
		panic(err)
	}
	return s
}

func (f *fakeStore) addCylinder(supplier models.Supplier, name, price string, stock int) models.GasCylinder {
	c := models.GasCylinder{
		Name:          name,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		SupplierID:    supplier.ID,
		IsActive:      true,
	}
	if err := f.CreateCylinder(context.Background(), &c); err != nil {
		panic(err)
	}
	return c
}

func (f *fakeStore) stockOf(id uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cylinders[id].StockQuantity
}

func (f *fakeStore) orderCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders)
}

func newTestServer(t *testing.T) (*fakeStore, http.Handler) {
	t.Helper()
	fake := newFakeStore()
	SetStore(fake)
	SetDeliveryFee(decimal.NewFromInt(5))

	r := michi.NewRouter()
	RegisterRoutes(r)
	return fake, r
}

var errBoom = errors.New("boom")
