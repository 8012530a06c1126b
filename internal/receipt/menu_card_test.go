package receipt

import (
	"bytes"
	"context"
	"testing"

	"restaurante/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWholePesos(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0"},
		{"500", "$500"},
		{"3500", "$3.500"},
		{"1234567.6", "$1.234.568"},
		{"-1500", "-$1.500"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, wholePesos(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestMenuCardRenderer(t *testing.T) {
	items := []models.MenuItem{
		models.MustMenuItem(1, "Pepsi", decimal.NewFromInt(1100), "", nil),
		models.MustMenuItem(2, "Ensalada Mixta", decimal.NewFromInt(2500), "", nil),
	}

	data, err := NewMenuCardRenderer(DefaultMenuCard).RenderCard(context.Background(), items)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestMenuCardRenderer_Empty(t *testing.T) {
	data, err := NewMenuCardRenderer(DefaultMenuCard).RenderCard(context.Background(), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestMenuCardRenderer_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMenuCardRenderer(DefaultMenuCard).RenderCard(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
