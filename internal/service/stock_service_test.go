package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"restaurante/internal/session"
	"restaurante/internal/stock"
	"restaurante/models"
	"restaurante/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertQty(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

func newStockService(t *testing.T, ings ...models.Ingredient) (*StockService, *stock.Stock, *fakeIngredientRepo) {
	t.Helper()
	repo := newFakeIngredientRepo(ings...)
	st := stock.New()
	svc := NewStockService(st, repo, logger.Discard())
	require.NoError(t, svc.Load(context.Background()))
	return svc, st, repo
}

func ingredient(name, unit, qty string) models.Ingredient {
	return models.Ingredient{Name: name, Unit: unit, Quantity: dec(qty)}
}

func TestStockService_LoadReadsRepository(t *testing.T) {
	svc, st, _ := newStockService(t, ingredient("Pan", "unid", "4"), ingredient("Queso", "kg", "1.5"))

	assert.Equal(t, 2, st.Len())
	list := svc.List()
	require.Len(t, list, 2)
	assert.Equal(t, "Pan", list[0].Name)
	assertQty(t, "1.5", list[1].Quantity)
}

func TestStockService_AddMergesAndPersists(t *testing.T) {
	svc, st, repo := newStockService(t, ingredient("Pan", "unid", "4"))

	got, err := svc.Add(context.Background(), AddIngredientRequest{Name: "Pan", Unit: "unid", Quantity: "2,5"})
	require.NoError(t, err)
	assertQty(t, "6.5", got.Quantity)

	inLedger, ok := st.Get("Pan")
	require.True(t, ok)
	assertQty(t, "6.5", inLedger.Quantity)
	assertQty(t, "6.5", repo.items["Pan"].Quantity)
}

func TestStockService_AddRejectsBadInput(t *testing.T) {
	svc, _, _ := newStockService(t, ingredient("Pan", "unid", "4"))
	ctx := context.Background()

	_, err := svc.Add(ctx, AddIngredientRequest{Name: "Pan", Unit: "unid", Quantity: "-1"})
	assert.ErrorIs(t, err, models.ErrInvalidQuantity)

	_, err = svc.Add(ctx, AddIngredientRequest{Name: "", Unit: "unid", Quantity: "1"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Add(ctx, AddIngredientRequest{Name: "Pan", Unit: "kg", Quantity: "1"})
	assert.ErrorIs(t, err, stock.ErrUnitMismatch)
}

func TestStockService_AddRevertsWhenSaveFails(t *testing.T) {
	svc, st, repo := newStockService(t, ingredient("Pan", "unid", "4"))
	repo.saveErr = errors.New("connection reset")

	_, err := svc.Add(context.Background(), AddIngredientRequest{Name: "Pan", Unit: "unid", Quantity: "3"})
	require.Error(t, err)

	pan, _ := st.Get("Pan")
	assertQty(t, "4", pan.Quantity)
}

func TestStockService_SetQuantity(t *testing.T) {
	svc, st, repo := newStockService(t, ingredient("Pan", "unid", "4"))
	ctx := context.Background()

	got, err := svc.SetQuantity(ctx, "Pan", "10")
	require.NoError(t, err)
	assertQty(t, "10", got.Quantity)
	assertQty(t, "10", repo.items["Pan"].Quantity)

	_, err = svc.SetQuantity(ctx, "Tomate", "1")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.SetQuantity(ctx, "Pan", "abc")
	assert.ErrorIs(t, err, models.ErrInvalidQuantity)

	repo.saveErr = errors.New("down")
	_, err = svc.SetQuantity(ctx, "Pan", "1")
	require.Error(t, err)
	pan, _ := st.Get("Pan")
	assertQty(t, "10", pan.Quantity)
}

func TestStockService_Delete(t *testing.T) {
	svc, st, repo := newStockService(t, ingredient("Pan", "unid", "4"))
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, "Pan"))
	assert.Equal(t, 0, st.Len())
	assert.Empty(t, repo.items)

	assert.ErrorIs(t, svc.Delete(ctx, "Pan"), ErrNotFound)
}

func TestStockService_ImportCSV(t *testing.T) {
	svc, st, repo := newStockService(t, ingredient("Pan", "unid", "4"))

	csvData := "\ufeffNombre, Unidad, Cantidad\nPan,unid,2\nQueso,kg,\"1,25\"\n\nPan,unid,1\n"
	res, err := svc.ImportCSV(context.Background(), strings.NewReader(csvData))
	require.NoError(t, err)

	assert.Equal(t, 3, res.Rows)
	require.Len(t, res.Ingredients, 2)
	assert.Equal(t, "Pan", res.Ingredients[0].Name)
	assertQty(t, "7", res.Ingredients[0].Quantity)
	assert.Equal(t, "Queso", res.Ingredients[1].Name)
	assertQty(t, "1.25", res.Ingredients[1].Quantity)

	assert.Equal(t, 2, st.Len())
	assertQty(t, "1.25", repo.items["Queso"].Quantity)
}

func TestStockService_ImportCSVIsAllOrNothing(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		wantErr error
		wantMsg string
	}{
		{
			name:    "missing cantidad column",
			csv:     "nombre,unidad\nPan,unid\n",
			wantErr: ErrMissingColumn,
			wantMsg: "cantidad",
		},
		{
			name:    "empty file",
			csv:     "",
			wantErr: ErrMissingColumn,
		},
		{
			name:    "bad quantity on third line",
			csv:     "nombre,unidad,cantidad\nQueso,kg,1\nTomate,unid,abc\n",
			wantErr: models.ErrInvalidQuantity,
			wantMsg: "row 3",
		},
		{
			name:    "unit conflicts with stock",
			csv:     "nombre,unidad,cantidad\nQueso,kg,1\nPan,kg,1\n",
			wantErr: stock.ErrUnitMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, st, repo := newStockService(t, ingredient("Pan", "unid", "4"))

			_, err := svc.ImportCSV(context.Background(), strings.NewReader(tt.csv))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}

			assert.Equal(t, 1, st.Len())
			_, hasQueso := st.Get("Queso")
			assert.False(t, hasQueso)
			assert.Len(t, repo.items, 1)
		})
	}
}

func TestStockService_ImportCSVRevertsWhenSaveFails(t *testing.T) {
	svc, st, repo := newStockService(t, ingredient("Pan", "unid", "4"))
	repo.saveErr = errors.New("deadlock detected")

	_, err := svc.ImportCSV(context.Background(), strings.NewReader("nombre,cantidad\nPan,3\nQueso,2\n"))
	require.Error(t, err)

	pan, _ := st.Get("Pan")
	assertQty(t, "4", pan.Quantity)
	_, hasQueso := st.Get("Queso")
	assert.False(t, hasQueso)
}

func TestParseStockCSV_WithoutUnitColumn(t *testing.T) {
	ings, err := ParseStockCSV(strings.NewReader("cantidad,nombre\n3,Sal\n0.5,Aceite\n"))
	require.NoError(t, err)
	require.Len(t, ings, 2)
	assert.Equal(t, "Sal", ings[0].Name)
	assert.Empty(t, ings[0].Unit)
	assertQty(t, "0.5", ings[1].Quantity)
}

func TestStockService_EditsKeepPendingReservationsPersisted(t *testing.T) {
	burger := models.MustMenuItem(1, "Burger", dec("3000"), "", []models.Requirement{
		{Name: "Pan", Unit: "unid", Quantity: dec("1")},
	})
	ctx := context.Background()

	t.Run("top-up", func(t *testing.T) {
		svc, st, repo := newStockService(t, ingredient("Pan", "unid", "10"))
		sess := session.New(st)
		require.NoError(t, sess.AddItem(burger))

		got, err := svc.Add(ctx, AddIngredientRequest{Name: "Pan", Unit: "unid", Quantity: "5"})
		require.NoError(t, err)
		assertQty(t, "14", got.Quantity)
		assertQty(t, "15", repo.items["Pan"].Quantity)

		sess.Reset()
		pan, _ := st.Get("Pan")
		assertQty(t, "15", pan.Quantity)
		assertQty(t, "15", repo.items["Pan"].Quantity)
	})

	t.Run("csv import", func(t *testing.T) {
		svc, st, repo := newStockService(t, ingredient("Pan", "unid", "10"))
		sess := session.New(st)
		require.NoError(t, sess.AddItem(burger))

		_, err := svc.ImportCSV(ctx, strings.NewReader("nombre,unidad,cantidad\nPan,unid,2\n"))
		require.NoError(t, err)
		assertQty(t, "12", repo.items["Pan"].Quantity)

		sess.Reset()
		pan, _ := st.Get("Pan")
		assertQty(t, "12", pan.Quantity)
	})

	t.Run("absolute set", func(t *testing.T) {
		svc, st, repo := newStockService(t, ingredient("Pan", "unid", "10"))
		sess := session.New(st)
		require.NoError(t, sess.AddItem(burger))

		got, err := svc.SetQuantity(ctx, "Pan", "20")
		require.NoError(t, err)
		assertQty(t, "20", got.Quantity)
		assertQty(t, "21", repo.items["Pan"].Quantity)

		require.True(t, sess.RemoveItem("Burger"))
		pan, _ := st.Get("Pan")
		assertQty(t, "21", pan.Quantity)
	})

	t.Run("failed set restores the reserved level", func(t *testing.T) {
		svc, st, repo := newStockService(t, ingredient("Pan", "unid", "10"))
		sess := session.New(st)
		require.NoError(t, sess.AddItem(burger))
		repo.saveErr = errors.New("down")

		_, err := svc.SetQuantity(ctx, "Pan", "3")
		require.Error(t, err)
		pan, _ := st.Get("Pan")
		assertQty(t, "9", pan.Quantity)
		assertQty(t, "10", repo.items["Pan"].Quantity)
	})
}

func TestStockService_Register(t *testing.T) {
	svc, st, repo := newStockService(t, ingredient("Pan", "unid", "4"))

	err := svc.Register(context.Background(), []models.Requirement{
		{Name: "Pan", Unit: "unid", Quantity: dec("1")},
		{Name: "Sal", Unit: "kg", Quantity: dec("0.1")},
		{Name: "Sal", Unit: "kg", Quantity: dec("0.1")},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, st.Len())
	pan, _ := st.Get("Pan")
	assertQty(t, "4", pan.Quantity)
	sal, ok := st.Get("Sal")
	require.True(t, ok)
	assert.True(t, sal.Quantity.IsZero())
	assert.Contains(t, repo.items, "Sal")
}
