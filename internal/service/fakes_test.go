package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"

	"restaurante/internal/checkout"
	"restaurante/internal/repositories"
	"restaurante/models"
)

type fakeIngredientRepo struct {
	mu      sync.Mutex
	items   map[string]models.Ingredient
	nextID  int64
	saveErr error
	setTx   [][]models.Ingredient
	setErr  error
}

func newFakeIngredientRepo(ings ...models.Ingredient) *fakeIngredientRepo {
	r := &fakeIngredientRepo{items: make(map[string]models.Ingredient)}
	for _, ing := range ings {
		r.nextID++
		ing.ID = r.nextID
		r.items[ing.Name] = ing
	}
	return r
}

func (r *fakeIngredientRepo) GetAll(context.Context) ([]models.Ingredient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Ingredient, 0, len(r.items))
	for _, ing := range r.items {
		out = append(out, ing)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeIngredientRepo) Adjust(_ context.Context, deltas []models.Ingredient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	for _, d := range deltas {
		existing, ok := r.items[d.Name]
		if !ok {
			r.nextID++
			r.items[d.Name] = models.Ingredient{ID: r.nextID, Name: d.Name, Unit: d.Unit, Quantity: d.Quantity}
			continue
		}
		existing.Quantity = existing.Quantity.Add(d.Quantity)
		r.items[d.Name] = existing
	}
	return nil
}

func (r *fakeIngredientRepo) EnsureAll(_ context.Context, ings []models.Ingredient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	for _, ing := range ings {
		if _, ok := r.items[ing.Name]; !ok {
			r.nextID++
			ing.ID = r.nextID
			r.items[ing.Name] = ing
		}
	}
	return nil
}

func (r *fakeIngredientRepo) SetQuantitiesTx(_ context.Context, _ *sql.Tx, ings []models.Ingredient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.setErr != nil {
		return r.setErr
	}
	r.setTx = append(r.setTx, ings)
	for _, ing := range ings {
		if existing, ok := r.items[ing.Name]; ok {
			existing.Quantity = ing.Quantity
			r.items[ing.Name] = existing
		}
	}
	return nil
}

func (r *fakeIngredientRepo) Delete(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[name]; !ok {
		return fmt.Errorf("ingredient %s: %w", name, repositories.ErrNotFound)
	}
	delete(r.items, name)
	return nil
}

type fakeMenuRepo struct {
	items  []models.MenuItem
	nextID int64
}

func (r *fakeMenuRepo) GetAll(context.Context) ([]models.MenuItem, error) {
	out := make([]models.MenuItem, len(r.items))
	copy(out, r.items)
	return out, nil
}

func (r *fakeMenuRepo) Create(_ context.Context, item models.MenuItem) (models.MenuItem, error) {
	for _, existing := range r.items {
		if existing.Key() == item.Key() {
			return models.MenuItem{}, repositories.ErrDuplicate
		}
	}
	r.nextID++
	created := item.WithID(r.nextID)
	r.items = append(r.items, created)
	return created, nil
}

func (r *fakeMenuRepo) Delete(_ context.Context, id int64) error {
	for i, item := range r.items {
		if item.ID() == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("menu %d: %w", id, repositories.ErrNotFound)
}

func (r *fakeMenuRepo) Count(context.Context) (int, error) { return len(r.items), nil }

type fakeOrderRepo struct {
	orders    map[int64]models.Order
	nextID    int64
	createErr error
}

func newFakeOrderRepo(orders ...models.Order) *fakeOrderRepo {
	r := &fakeOrderRepo{orders: make(map[int64]models.Order)}
	for _, o := range orders {
		if o.ID > r.nextID {
			r.nextID = o.ID
		}
		r.orders[o.ID] = o
	}
	return r
}

func (r *fakeOrderRepo) CreateTx(_ context.Context, _ *sql.Tx, order *models.Order) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	order.ID = r.nextID
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
		order.Items[i].ID = int64(i + 1)
	}
	r.orders[order.ID] = *order
	return nil
}

func (r *fakeOrderRepo) GetAll(context.Context) ([]models.Order, error) {
	var out []models.Order
	for _, o := range r.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id int64) (models.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return models.Order{}, fmt.Errorf("order %d: %w", id, repositories.ErrNotFound)
	}
	return o, nil
}

func (r *fakeOrderRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.orders[id]; !ok {
		return fmt.Errorf("order %d: %w", id, repositories.ErrNotFound)
	}
	delete(r.orders, id)
	return nil
}

type fakeCustomerRepo struct {
	customers map[int64]models.Customer
	nextID    int64
}

func newFakeCustomerRepo(cs ...models.Customer) *fakeCustomerRepo {
	r := &fakeCustomerRepo{customers: make(map[int64]models.Customer)}
	for _, c := range cs {
		r.customers[c.ID] = c
		if c.ID > r.nextID {
			r.nextID = c.ID
		}
	}
	return r
}

func (r *fakeCustomerRepo) GetAll(context.Context) ([]models.Customer, error) {
	var out []models.Customer
	for _, c := range r.customers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeCustomerRepo) GetByID(_ context.Context, id int64) (models.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return models.Customer{}, fmt.Errorf("customer %d: %w", id, repositories.ErrNotFound)
	}
	return c, nil
}

func (r *fakeCustomerRepo) Create(_ context.Context, c models.Customer) (models.Customer, error) {
	for _, existing := range r.customers {
		if existing.Email == c.Email {
			return models.Customer{}, repositories.ErrDuplicate
		}
	}
	r.nextID++
	c.ID = r.nextID
	r.customers[c.ID] = c
	return c, nil
}

type fakeReceiptRepo struct {
	byOrder   map[int64]models.ReceiptRecord
	nextID    int64
	createErr error
}

func newFakeReceiptRepo() *fakeReceiptRepo {
	return &fakeReceiptRepo{byOrder: make(map[int64]models.ReceiptRecord)}
}

func (r *fakeReceiptRepo) Create(_ context.Context, rec models.ReceiptRecord) (models.ReceiptRecord, error) {
	if r.createErr != nil {
		return models.ReceiptRecord{}, r.createErr
	}
	if _, ok := r.byOrder[rec.OrderID]; ok {
		return models.ReceiptRecord{}, repositories.ErrDuplicate
	}
	r.nextID++
	rec.ID = r.nextID
	r.byOrder[rec.OrderID] = rec
	return rec, nil
}

func (r *fakeReceiptRepo) GetByOrderID(_ context.Context, orderID int64) (models.ReceiptRecord, error) {
	rec, ok := r.byOrder[orderID]
	if !ok {
		return models.ReceiptRecord{}, fmt.Errorf("receipt for order %d: %w", orderID, repositories.ErrNotFound)
	}
	return rec, nil
}

func (r *fakeReceiptRepo) GetAll(_ context.Context, status string) ([]models.ReceiptRecord, error) {
	var out []models.ReceiptRecord
	for _, rec := range r.byOrder {
		if status == "" || rec.Status == status {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeReceiptRepo) UpdateStatus(_ context.Context, orderID int64, status string) error {
	rec, ok := r.byOrder[orderID]
	if !ok {
		return repositories.ErrNotFound
	}
	rec.Status = status
	r.byOrder[orderID] = rec
	return nil
}

// fakeTx runs fn without a real transaction; err simulates a failed commit.
type fakeTx struct {
	calls int
	err   error
}

func (f *fakeTx) ExecuteInTransaction(_ context.Context, fn func(*sql.Tx) error) error {
	f.calls++
	if err := fn(nil); err != nil {
		return err
	}
	return f.err
}

type fakeRenderer struct {
	rendered []checkout.Receipt
	err      error
}

func (f *fakeRenderer) Render(_ context.Context, r checkout.Receipt) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.rendered = append(f.rendered, r)
	return []byte("%PDF-fake"), nil
}

func (f *fakeRenderer) ContentType() string { return "application/pdf" }

type fakeStore struct {
	saved   map[string][]byte
	deleted []string
}

func (f *fakeStore) Save(_ context.Context, name, _ string, data []byte) (string, error) {
	if f.saved == nil {
		f.saved = make(map[string][]byte)
	}
	f.saved[name] = data
	return "boletas/" + name, nil
}

func (f *fakeStore) Delete(_ context.Context, name string) error {
	delete(f.saved, name)
	f.deleted = append(f.deleted, name)
	return nil
}
