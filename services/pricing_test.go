package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecocart/model"
)

func line(price float64, qty int) model.CartItem {
	return model.CartItem{Product: model.Product{ID: "x", Price: price}, Quantity: qty}
}

func TestPrice(t *testing.T) {
	t.Run("community discount before tax", func(t *testing.T) {
		s := Price([]model.CartItem{line(3.99, 2), line(4.50, 1)}, model.CartCommunity)
		assert.InDelta(t, 12.48, s.Subtotal, 1e-9)
		assert.InDelta(t, 0.624, s.Discount, 1e-9)
		assert.InDelta(t, 11.856, s.TaxedBase, 1e-9)
		assert.InDelta(t, 0.94848, s.Tax, 1e-9)
		assert.InDelta(t, 12.80448, s.Total, 1e-9)

		d := s.Display()
		assert.Equal(t, "12.48", d.Subtotal)
		assert.Equal(t, "0.62", d.Discount)
		assert.Equal(t, "0.95", d.Tax)
		assert.Equal(t, "12.80", d.Total)
		assert.Equal(t, "Community Cart Discount (5%)", d.DiscountLabel)
	})

	t.Run("family", func(t *testing.T) {
		s := Price([]model.CartItem{line(10, 1)}, model.CartFamily)
		assert.InDelta(t, 0.2, s.Discount, 1e-9)
		assert.InDelta(t, 10.584, s.Total, 1e-9)
		assert.Equal(t, "Family Cart Discount (2%)", s.Display().DiscountLabel)
		assert.Equal(t, "10.58", s.Display().Total)
	})

	t.Run("personal has no discount", func(t *testing.T) {
		s := Price([]model.CartItem{line(10, 1)}, model.CartPersonal)
		assert.Zero(t, s.Discount)
		assert.InDelta(t, 10.8, s.Total, 1e-9)
		d := s.Display()
		assert.Empty(t, d.DiscountLabel)
		assert.Equal(t, "10.80", d.Total)
	})

	t.Run("empty", func(t *testing.T) {
		s := Price(nil, model.CartFamily)
		assert.Zero(t, s.Total)
		assert.Equal(t, "0.00", s.Display().Total)
	})
}

func TestCheckout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	view, err := f.checkout.Checkout(ctx, "alice", "")
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.Equal(t, "0.00", view.Display.Total)
	require.Len(t, view.EcoOptions, 4)
	assert.Equal(t, EcoOption{ID: "club-packaging", Label: "Club my packaging with nearby orders (Smart Packaging)", Points: 25}, view.EcoOptions[3])
	view.EcoOptions[0].Points = 0
	assert.Equal(t, 15, EcoOptions()[0].Points)

	_, err = f.carts.AddItem(ctx, "alice", "1")
	require.NoError(t, err)
	view, err = f.checkout.Checkout(ctx, "alice", "")
	require.NoError(t, err)
	assert.Equal(t, model.CartPersonal, view.Summary.CartType)
	assert.Len(t, view.Items, 1)

	cart := f.createCart(t, "alice")
	_, err = f.groups.AddItem(ctx, "alice", cart.ID, "1")
	require.NoError(t, err)
	view, err = f.checkout.Checkout(ctx, "alice", cart.ID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, view.CartID)
	assert.Equal(t, 0.02, view.Summary.DiscountRate)
	assert.Len(t, view.EcoOptions, 4)

	_, err = f.checkout.Checkout(ctx, "bob", cart.ID)
	assert.ErrorIs(t, err, ErrNotAMember)
	_, err = f.checkout.Checkout(ctx, "", "")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}
