package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"restaurante/internal/checkout"
	"restaurante/internal/events"
	"restaurante/internal/session"
	"restaurante/internal/stock"
	"restaurante/models"
	"restaurante/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 14, 13, 30, 0, 0, time.UTC)

type pedidoFixture struct {
	svc         *PedidoService
	stock       *stock.Stock
	ingredients *fakeIngredientRepo
	orders      *fakeOrderRepo
	receipts    *fakeReceiptRepo
	renderer    *fakeRenderer
	store       *fakeStore
	tx          *fakeTx
	events      *fakePublisher
}

type fakePublisher struct {
	published []events.OrderCompleted
	err       error
}

func (f *fakePublisher) PublishOrderCompleted(_ context.Context, ev events.OrderCompleted) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, ev)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

func newPedidoFixture(t *testing.T) *pedidoFixture {
	t.Helper()
	log := logger.Discard()

	st := stock.New()
	for _, name := range []string{"Pan de hamburguesa", "Lamina de queso", "Churrasco de carne"} {
		require.NoError(t, st.Add(ingredient(name, "unid", "2")))
	}
	require.NoError(t, st.Add(ingredient("Pepsi", "unid", "5")))

	menus := NewMenuService(&fakeMenuRepo{}, st, log)
	require.NoError(t, menus.Load(context.Background(), true))

	f := &pedidoFixture{
		stock:       st,
		ingredients: newFakeIngredientRepo(),
		orders:      newFakeOrderRepo(),
		receipts:    newFakeReceiptRepo(),
		renderer:    &fakeRenderer{},
		store:       &fakeStore{},
		tx:          &fakeTx{},
		events:      &fakePublisher{},
	}
	customers := newFakeCustomerRepo(models.Customer{ID: 1, FirstName: "Ana", LastName: "Rojas", Email: "ana@example.cl"})

	receipts := NewReceiptService(ReceiptServiceConfig{
		Receipts:  f.receipts,
		Orders:    f.orders,
		Customers: customers,
		Renderer:  f.renderer,
		Store:     f.store,
		TaxRate:   checkout.DefaultTaxRate,
		Now:       func() time.Time { return fixedNow },
	}, log)

	f.svc = NewPedidoService(PedidoServiceConfig{
		Session:     session.New(st),
		Menus:       menus,
		Customers:   customers,
		Orders:      f.orders,
		Ingredients: f.ingredients,
		Tx:          f.tx,
		Receipts:    receipts,
		Events:      f.events,
		TaxRate:     checkout.DefaultTaxRate,
		Now:         func() time.Time { return fixedNow },
	}, log)
	return f
}

func TestPedidoService_AddItemReservesStock(t *testing.T) {
	f := newPedidoFixture(t)

	snap, err := f.svc.AddItem("Hamburguesa")
	require.NoError(t, err)
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, 1, snap.Lines[0].Quantity)
	assertQty(t, "3500", snap.Total)

	pan, _ := f.stock.Get("Pan de hamburguesa")
	assertQty(t, "1", pan.Quantity)
}

func TestPedidoService_AddItemRefusedWhenShort(t *testing.T) {
	f := newPedidoFixture(t)

	_, err := f.svc.AddItem("Hamburguesa")
	require.NoError(t, err)
	_, err = f.svc.AddItem("Hamburguesa")
	require.NoError(t, err)

	_, err = f.svc.AddItem("Hamburguesa")
	require.ErrorIs(t, err, stock.ErrInsufficientStock)

	var shortErr *stock.InsufficientStockError
	require.True(t, errors.As(err, &shortErr))
	assert.Len(t, shortErr.Shortages, 3)

	snap := f.svc.Current()
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, 2, snap.Lines[0].Quantity)
}

func TestPedidoService_AddUnknownMenu(t *testing.T) {
	f := newPedidoFixture(t)
	_, err := f.svc.AddItem("Sushi")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPedidoService_RemoveAndReset(t *testing.T) {
	f := newPedidoFixture(t)

	_, err := f.svc.AddItem("Pepsi")
	require.NoError(t, err)
	_, err = f.svc.AddItem("Pepsi")
	require.NoError(t, err)

	snap, err := f.svc.RemoveItem("Pepsi")
	require.NoError(t, err)
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, 1, snap.Lines[0].Quantity)
	pepsi, _ := f.stock.Get("Pepsi")
	assertQty(t, "4", pepsi.Quantity)

	_, err = f.svc.RemoveItem("Completo")
	assert.ErrorIs(t, err, ErrNotFound)

	snap = f.svc.Reset()
	assert.Empty(t, snap.Lines)
	pepsi, _ = f.stock.Get("Pepsi")
	assertQty(t, "5", pepsi.Quantity)
}

func TestPedidoService_Checkout(t *testing.T) {
	f := newPedidoFixture(t)
	ctx := context.Background()

	for _, name := range []string{"Hamburguesa", "Hamburguesa", "Pepsi"} {
		_, err := f.svc.AddItem(name)
		require.NoError(t, err)
	}

	res, err := f.svc.Checkout(ctx, CheckoutRequest{CustomerID: 1})
	require.NoError(t, err)

	assert.Equal(t, int64(1), res.Order.ID)
	assert.Equal(t, "Ana Rojas", res.Order.CustomerName)
	assert.Equal(t, models.OrderStatusCompleted, res.Order.Status)
	assert.Equal(t, fixedNow, res.Order.Date)
	assertQty(t, "8100", res.Order.Total)
	require.Len(t, res.Order.Items, 2)

	// 8100 / 1.19 = 6806.72...
	assertQty(t, "6806.72", res.Breakdown.Subtotal)
	assertQty(t, "1293.28", res.Breakdown.Tax)
	assert.True(t, res.Breakdown.Subtotal.Add(res.Breakdown.Tax).Equal(res.Breakdown.Total))

	require.NotNil(t, res.Receipt)
	assert.Empty(t, res.ReceiptError)
	assert.Equal(t, models.ReceiptStatusGenerated, res.Receipt.Status)
	assert.True(t, strings.HasPrefix(res.Receipt.PDFPath, "boletas/boleta_20260314_133000_"))
	assertQty(t, "8100", res.Receipt.Total)
	require.Len(t, f.renderer.rendered, 1)
	assert.Equal(t, "Ana Rojas", f.renderer.rendered[0].CustomerName)

	assert.Equal(t, 1, f.tx.calls)
	require.Len(t, f.ingredients.setTx, 1)
	consumed := f.ingredients.setTx[0]
	require.Len(t, consumed, 4)
	assert.Equal(t, "Churrasco de carne", consumed[0].Name)
	assertQty(t, "0", consumed[0].Quantity)
	assert.Equal(t, "Pepsi", consumed[3].Name)
	assertQty(t, "4", consumed[3].Quantity)

	assert.Empty(t, f.svc.Current().Lines)
	pan, _ := f.stock.Get("Pan de hamburguesa")
	assertQty(t, "0", pan.Quantity)

	require.Len(t, f.events.published, 1)
	ev := f.events.published[0]
	assert.Equal(t, events.TypeOrderCompleted, ev.Type)
	assert.Equal(t, int64(1), ev.OrderID)
	assert.Len(t, ev.Stock, 4)
}

func TestPedidoService_CheckoutSurvivesPublishFailure(t *testing.T) {
	f := newPedidoFixture(t)
	f.events.err = errors.New("kafka: leader not available")

	_, err := f.svc.AddItem("Pepsi")
	require.NoError(t, err)

	res, err := f.svc.Checkout(context.Background(), CheckoutRequest{CustomerID: 1})
	require.NoError(t, err)
	assert.NotNil(t, res.Receipt)
}

func TestPedidoService_CheckoutFailures(t *testing.T) {
	t.Run("empty order", func(t *testing.T) {
		f := newPedidoFixture(t)
		_, err := f.svc.Checkout(context.Background(), CheckoutRequest{CustomerID: 1})
		assert.ErrorIs(t, err, ErrEmptyOrder)
		assert.Zero(t, f.tx.calls)
	})

	t.Run("unknown customer", func(t *testing.T) {
		f := newPedidoFixture(t)
		_, err := f.svc.AddItem("Pepsi")
		require.NoError(t, err)

		_, err = f.svc.Checkout(context.Background(), CheckoutRequest{CustomerID: 42})
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Len(t, f.svc.Current().Lines, 1)
	})

	t.Run("transaction fails", func(t *testing.T) {
		f := newPedidoFixture(t)
		f.tx.err = errors.New("serialization failure")
		_, err := f.svc.AddItem("Pepsi")
		require.NoError(t, err)

		_, err = f.svc.Checkout(context.Background(), CheckoutRequest{CustomerID: 1})
		require.Error(t, err)

		assert.Len(t, f.svc.Current().Lines, 1)
		pepsi, _ := f.stock.Get("Pepsi")
		assertQty(t, "4", pepsi.Quantity)
		assert.Empty(t, f.receipts.byOrder)
		assert.Empty(t, f.events.published)
	})

	t.Run("order insert fails", func(t *testing.T) {
		f := newPedidoFixture(t)
		f.orders.createErr = errors.New("insert failed")
		_, err := f.svc.AddItem("Pepsi")
		require.NoError(t, err)

		_, err = f.svc.Checkout(context.Background(), CheckoutRequest{CustomerID: 1})
		require.Error(t, err)
		assert.Empty(t, f.ingredients.setTx)
		assert.Len(t, f.svc.Current().Lines, 1)
	})
}

func TestPedidoService_CheckoutKeepsOrderWhenReceiptFails(t *testing.T) {
	f := newPedidoFixture(t)
	f.renderer.err = errors.New("font missing")

	_, err := f.svc.AddItem("Pepsi")
	require.NoError(t, err)

	res, err := f.svc.Checkout(context.Background(), CheckoutRequest{CustomerID: 1})
	require.NoError(t, err)
	assert.Nil(t, res.Receipt)
	assert.Contains(t, res.ReceiptError, "font missing")
	assert.Equal(t, int64(1), res.Order.ID)
	assert.Empty(t, f.svc.Current().Lines)
}
