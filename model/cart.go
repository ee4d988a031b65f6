package model

import (
	"fmt"
	"time"
)

type CartType string

const (
	CartPersonal  CartType = "personal"
	CartFamily    CartType = "family"
	CartCommunity CartType = "community"
)

type CartItem struct {
	Product
	Quantity int `firestore:"quantity" json:"quantity"`
}

// Cart is the per-user cart stored at carts/{userId}.
type Cart struct {
	ID       string     `firestore:"id" json:"id"`
	UserID   string     `firestore:"userId" json:"userId"`
	Items    []CartItem `firestore:"items" json:"items"`
	Type     CartType   `firestore:"type" json:"type"`
	Name     string     `firestore:"name" json:"name"`
	Revision int64      `firestore:"revision" json:"revision"`
}

// NewPersonalCart returns the empty cart served for users who never added an item.
func NewPersonalCart(userID string) *Cart {
	return &Cart{
		ID:     userID,
		UserID: userID,
		Items:  []CartItem{},
		Type:   CartPersonal,
		Name:   "My Cart",
	}
}

type GroupCart struct {
	ID         string     `firestore:"id" json:"id"`
	Name       string     `firestore:"name" json:"name"`
	Address    string     `firestore:"address" json:"address"`
	Type       CartType   `firestore:"type" json:"type"`
	OwnerID    string     `firestore:"ownerId" json:"ownerId"`
	Members    []string   `firestore:"members" json:"members"`
	InviteCode string     `firestore:"inviteCode" json:"inviteCode"`
	CreatedAt  time.Time  `firestore:"createdAt,serverTimestamp" json:"createdAt"`
	Items      []CartItem `firestore:"items" json:"items"`
	Revision   int64      `firestore:"revision" json:"revision"`
}

func (g *GroupCart) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// QuantityChange is either a new positive quantity or the removal of the item.
type QuantityChange struct {
	quantity int
}

func SetQuantity(n int) QuantityChange {
	if n <= 0 {
		panic(fmt.Sprintf("model: SetQuantity requires a positive quantity, got %d", n))
	}
	return QuantityChange{quantity: n}
}

func RemoveItem() QuantityChange {
	return QuantityChange{}
}

// ParseQuantityChange maps a client quantity onto a change; zero removes the item.
func ParseQuantityChange(n int) (QuantityChange, error) {
	switch {
	case n < 0:
		return QuantityChange{}, fmt.Errorf("quantity must not be negative")
	case n == 0:
		return RemoveItem(), nil
	default:
		return SetQuantity(n), nil
	}
}

func (q QuantityChange) Removes() bool { return q.quantity == 0 }

func (q QuantityChange) Quantity() int { return q.quantity }

// AddProduct increments the quantity of the matching item or appends the
// product with quantity 1.
func AddProduct(items []CartItem, p Product) []CartItem {
	out := make([]CartItem, len(items), len(items)+1)
	copy(out, items)
	for i := range out {
		if out[i].ID == p.ID {
			out[i].Quantity++
			return out
		}
	}
	return append(out, CartItem{Product: p, Quantity: 1})
}

// ApplyQuantityChange returns a copy of items with the change applied to
// itemID. The second result is false when the item is not in the list.
func ApplyQuantityChange(items []CartItem, itemID string, change QuantityChange) ([]CartItem, bool) {
	idx := -1
	for i := range items {
		if items[i].ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return items, false
	}

	if change.Removes() {
		out := make([]CartItem, 0, len(items)-1)
		out = append(out, items[:idx]...)
		return append(out, items[idx+1:]...), true
	}

	out := make([]CartItem, len(items))
	copy(out, items)
	out[idx].Quantity = change.Quantity()
	return out, true
}
