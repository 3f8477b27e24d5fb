package keyboard

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordbyte/orderbot/internal/i18n"
)

func testBuilder(t *testing.T) *Builder {
	t.Helper()

	translator, err := i18n.Load("sv")
	require.NoError(t, err)

	return NewBuilder(translator, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestBuilder_OrderActions(t *testing.T) {
	b := testBuilder(t)

	markup := b.OrderActions("sv", "ORD-AAA111BBB")
	require.Len(t, markup.InlineKeyboard, 1)
	require.Len(t, markup.InlineKeyboard[0], 2)

	assert.Equal(t, "confirm:ORD-AAA111BBB", markup.InlineKeyboard[0][0].Data)
	assert.Equal(t, "cancel:ORD-AAA111BBB", markup.InlineKeyboard[0][1].Data)
	assert.NotEmpty(t, markup.InlineKeyboard[0][0].Text)
}

func TestBuilder_PaidButton(t *testing.T) {
	b := testBuilder(t)

	markup := b.PaidButton("en", "ORD-AAA111BBB")
	require.Len(t, markup.InlineKeyboard, 1)
	require.Len(t, markup.InlineKeyboard[0], 1)
	assert.Equal(t, "paid:ORD-AAA111BBB", markup.InlineKeyboard[0][0].Data)
	assert.Equal(t, "Paid", markup.InlineKeyboard[0][0].Text)
}

func TestBuilder_Pagination(t *testing.T) {
	b := testBuilder(t)

	// Single page: no buttons at all.
	markup := b.Pagination("sv", 1, 1)
	assert.Empty(t, markup.InlineKeyboard)

	// First of three: only next.
	markup = b.Pagination("sv", 1, 3)
	require.Len(t, markup.InlineKeyboard, 1)
	require.Len(t, markup.InlineKeyboard[0], 1)
	assert.Equal(t, "orders_page:2", markup.InlineKeyboard[0][0].Data)

	// Middle page: prev and next.
	markup = b.Pagination("sv", 2, 3)
	require.Len(t, markup.InlineKeyboard, 1)
	require.Len(t, markup.InlineKeyboard[0], 2)
	assert.Equal(t, "orders_page:1", markup.InlineKeyboard[0][0].Data)
	assert.Equal(t, "orders_page:3", markup.InlineKeyboard[0][1].Data)

	// Out-of-range page is clamped.
	markup = b.Pagination("sv", 9, 3)
	require.Len(t, markup.InlineKeyboard, 1)
	require.Len(t, markup.InlineKeyboard[0], 1)
	assert.Equal(t, "orders_page:2", markup.InlineKeyboard[0][0].Data)
}
