package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecocart/model"
	"ecocart/repository"
)

func TestPersonalCart(t *testing.T) {
	ctx := context.Background()

	t.Run("missing cart is empty and not stored", func(t *testing.T) {
		f := newFixture(t)
		cart, err := f.carts.GetCart(ctx, "u1")
		require.NoError(t, err)
		assert.Empty(t, cart.Items)
		assert.Equal(t, model.CartPersonal, cart.Type)

		_, err = f.repo.GetCart(ctx, "u1")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("adding twice increments", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.carts.AddItem(ctx, "u1", "1")
		require.NoError(t, err)
		cart, err := f.carts.AddItem(ctx, "u1", "1")
		require.NoError(t, err)
		require.Len(t, cart.Items, 1)
		assert.Equal(t, 2, cart.Items[0].Quantity)

		cart, err = f.carts.AddItem(ctx, "u1", "2")
		require.NoError(t, err)
		assert.Len(t, cart.Items, 2)
		assert.Equal(t, "2", cart.Items[1].ID)
	})

	t.Run("unknown product", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.carts.AddItem(ctx, "u1", "nope")
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("quantity zero removes", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.carts.AddItem(ctx, "u1", "1")
		require.NoError(t, err)
		_, err = f.carts.AddItem(ctx, "u1", "2")
		require.NoError(t, err)

		cart, err := f.carts.SetItemQuantity(ctx, "u1", "1", model.RemoveItem())
		require.NoError(t, err)
		require.Len(t, cart.Items, 1)
		assert.Equal(t, "2", cart.Items[0].ID)

		cart, err = f.carts.SetItemQuantity(ctx, "u1", "2", model.SetQuantity(5))
		require.NoError(t, err)
		assert.Equal(t, 5, cart.Items[0].Quantity)
	})

	t.Run("unknown item", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.carts.SetItemQuantity(ctx, "u1", "1", model.SetQuantity(2))
		assert.ErrorIs(t, err, ErrItemNotFound)
	})

	t.Run("requires a user", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.carts.GetCart(ctx, "")
		assert.ErrorIs(t, err, ErrNotAuthenticated)
		_, err = f.carts.AddItem(ctx, "", "1")
		assert.ErrorIs(t, err, ErrNotAuthenticated)
	})
}
