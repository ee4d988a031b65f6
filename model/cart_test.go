package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func items() []CartItem {
	return []CartItem{
		{Product: Product{ID: "a", Price: 1}, Quantity: 1},
		{Product: Product{ID: "b", Price: 2}, Quantity: 2},
		{Product: Product{ID: "c", Price: 3}, Quantity: 3},
	}
}

func TestApplyQuantityChange(t *testing.T) {
	t.Run("set replaces quantity in place", func(t *testing.T) {
		in := items()
		out, ok := ApplyQuantityChange(in, "b", SetQuantity(7))
		require.True(t, ok)
		require.Len(t, out, 3)
		assert.Equal(t, []string{"a", "b", "c"}, ids(out))
		assert.Equal(t, []int{1, 7, 3}, quantities(out))
		assert.Equal(t, 2, in[1].Quantity, "input must not be mutated")
	})

	t.Run("remove deletes exactly one item", func(t *testing.T) {
		out, ok := ApplyQuantityChange(items(), "a", RemoveItem())
		require.True(t, ok)
		assert.Equal(t, []string{"b", "c"}, ids(out))
		assert.Equal(t, []int{2, 3}, quantities(out))
	})

	t.Run("missing item", func(t *testing.T) {
		out, ok := ApplyQuantityChange(items(), "zzz", SetQuantity(1))
		assert.False(t, ok)
		assert.Len(t, out, 3)
	})
}

func TestAddProduct(t *testing.T) {
	out := AddProduct(items(), Product{ID: "c"})
	assert.Equal(t, []int{1, 2, 4}, quantities(out))

	out = AddProduct(out, Product{ID: "d", Name: "new"})
	require.Len(t, out, 4)
	assert.Equal(t, "new", out[3].Name)
	assert.Equal(t, 1, out[3].Quantity)

	out = AddProduct(nil, Product{ID: "x"})
	assert.Equal(t, []string{"x"}, ids(out))
}

func TestParseQuantityChange(t *testing.T) {
	c, err := ParseQuantityChange(0)
	require.NoError(t, err)
	assert.True(t, c.Removes())

	c, err = ParseQuantityChange(4)
	require.NoError(t, err)
	assert.False(t, c.Removes())
	assert.Equal(t, 4, c.Quantity())

	_, err = ParseQuantityChange(-1)
	assert.Error(t, err)

	assert.Panics(t, func() { SetQuantity(0) })
}

func TestFallbackProducts(t *testing.T) {
	products := FallbackProducts()
	require.Len(t, products, 8)
	assert.Equal(t, "1", products[0].ID)
	assert.InDelta(t, 4.99, products[0].Price, 1e-9)
	assert.Equal(t, "Snacks", products[7].Category)

	products[0].Name = "changed"
	assert.NotEqual(t, "changed", FallbackProducts()[0].Name)
}

func TestGroupCartHasMember(t *testing.T) {
	g := &GroupCart{Members: []string{"u1", "u2"}}
	assert.True(t, g.HasMember("u2"))
	assert.False(t, g.HasMember("u3"))
}

func ids(items []CartItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func quantities(items []CartItem) []int {
	out := make([]int, len(items))
	for i, it := range items {
		out[i] = it.Quantity
	}
	return out
}
