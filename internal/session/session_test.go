package session

import (
	"errors"
	"testing"

	"restaurante/internal/stock"
	"restaurante/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStock(t *testing.T, entries map[string]string) *stock.Stock {
	t.Helper()
	st := stock.New()
	for name, qty := range entries {
		ing, err := models.NewIngredient(name, "unid", qty)
		require.NoError(t, err)
		require.NoError(t, st.Add(ing))
	}
	return st
}

func burger(t *testing.T) models.MenuItem {
	t.Helper()
	m, err := models.NewMenuItem(1, "Hamburguesa", decimal.NewFromInt(3500), "", []models.Requirement{
		{Name: "Pan", Quantity: decimal.NewFromInt(1)},
		{Name: "Carne", Quantity: decimal.NewFromInt(1)},
	})
	require.NoError(t, err)
	return m
}

func qty(t *testing.T, st *stock.Stock, name string) string {
	t.Helper()
	ing, ok := st.Get(name)
	require.True(t, ok)
	return ing.Quantity.StringFixed(2)
}

func TestAddItem_ReservesStock(t *testing.T) {
	st := newStock(t, map[string]string{"Pan": "10", "Carne": "10"})
	s := New(st)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.AddItem(burger(t)))
	}

	snap := s.Snapshot()
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, 3, snap.Lines[0].Quantity)
	assert.Equal(t, "10500.00", snap.Total.StringFixed(2))
	assert.Equal(t, "7.00", qty(t, st, "Pan"))
	assert.Equal(t, "7.00", qty(t, st, "Carne"))
}

func TestAddItem_InsufficientLeavesOrderUntouched(t *testing.T) {
	st := newStock(t, map[string]string{"Pan": "1", "Carne": "0"})
	s := New(st)

	err := s.AddItem(burger(t))
	require.Error(t, err)
	assert.True(t, errors.Is(err, stock.ErrInsufficientStock))
	assert.Empty(t, s.Snapshot().Lines)
	assert.Equal(t, "1.00", qty(t, st, "Pan"))
}

func TestRemoveItem_ReturnsOneUnit(t *testing.T) {
	st := newStock(t, map[string]string{"Pan": "10", "Carne": "10"})
	s := New(st)
	require.NoError(t, s.AddItem(burger(t)))
	require.NoError(t, s.AddItem(burger(t)))

	assert.True(t, s.RemoveItem("Hamburguesa"))
	assert.Equal(t, "9.00", qty(t, st, "Pan"))
	assert.Equal(t, 1, s.Snapshot().Lines[0].Quantity)

	assert.True(t, s.RemoveItem("Hamburguesa"))
	assert.Equal(t, "10.00", qty(t, st, "Pan"))
	assert.Empty(t, s.Snapshot().Lines)

	assert.False(t, s.RemoveItem("Hamburguesa"))
	assert.Equal(t, "10.00", qty(t, st, "Pan"))
}

func TestReset_ReturnsEverything(t *testing.T) {
	st := newStock(t, map[string]string{"Pan": "10", "Carne": "10"})
	s := New(st)
	for i := 0; i < 4; i++ {
		require.NoError(t, s.AddItem(burger(t)))
	}

	s.Reset()

	assert.Empty(t, s.Snapshot().Lines)
	assert.Equal(t, "10.00", qty(t, st, "Pan"))
	assert.Equal(t, "10.00", qty(t, st, "Carne"))
}

func TestCheckout_EmptyOrder(t *testing.T) {
	s := New(newStock(t, map[string]string{"Pan": "1"}))
	called := false

	err := s.Checkout(func(Snapshot, []models.Ingredient) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, ErrEmptyOrder)
	assert.False(t, called)
}

func TestCheckout_CommitSuccessClearsOrder(t *testing.T) {
	st := newStock(t, map[string]string{"Pan": "10", "Carne": "10", "Tomate": "5"})
	s := New(st)
	require.NoError(t, s.AddItem(burger(t)))
	require.NoError(t, s.AddItem(burger(t)))

	var (
		gotSnap     Snapshot
		gotConsumed []models.Ingredient
	)
	err := s.Checkout(func(snap Snapshot, consumed []models.Ingredient) error {
		gotSnap, gotConsumed = snap, consumed
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, "7000.00", gotSnap.Total.StringFixed(2))
	require.Len(t, gotConsumed, 2)
	assert.Equal(t, "Carne", gotConsumed[0].Name)
	assert.Equal(t, "8.00", gotConsumed[0].Quantity.StringFixed(2))
	assert.Equal(t, "Pan", gotConsumed[1].Name)

	assert.Empty(t, s.Snapshot().Lines)
	assert.Equal(t, "8.00", qty(t, st, "Pan"), "reservations stay consumed after checkout")
}

func TestCheckout_CommitFailureKeepsOrder(t *testing.T) {
	st := newStock(t, map[string]string{"Pan": "10", "Carne": "10"})
	s := New(st)
	require.NoError(t, s.AddItem(burger(t)))

	boom := errors.New("db down")
	err := s.Checkout(func(Snapshot, []models.Ingredient) error { return boom })

	assert.ErrorIs(t, err, boom)
	require.Len(t, s.Snapshot().Lines, 1)
	assert.Equal(t, "9.00", qty(t, st, "Pan"))
}
