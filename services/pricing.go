package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"ecocart/model"
)

const TaxRate = 0.08

// DiscountRate returns the checkout discount for a cart type.
func DiscountRate(t model.CartType) float64 {
	switch t {
	case model.CartFamily:
		return 0.02
	case model.CartCommunity:
		return 0.05
	default:
		return 0
	}
}

type Summary struct {
	CartType     model.CartType `json:"cartType"`
	Subtotal     float64        `json:"subtotal"`
	DiscountRate float64        `json:"discountRate"`
	Discount     float64        `json:"discount"`
	TaxedBase    float64        `json:"taxedBase"`
	Tax          float64        `json:"tax"`
	Total        float64        `json:"total"`
}

// Price computes the order summary. Tax is charged on the discounted
// subtotal. Amounts are unrounded; see Display.
func Price(items []model.CartItem, t model.CartType) Summary {
	var subtotal float64
	for _, it := range items {
		subtotal += it.Price * float64(it.Quantity)
	}
	rate := DiscountRate(t)
	discount := subtotal * rate
	base := subtotal - discount
	tax := base * TaxRate
	return Summary{
		CartType:     t,
		Subtotal:     subtotal,
		DiscountRate: rate,
		Discount:     discount,
		TaxedBase:    base,
		Tax:          tax,
		Total:        base + tax,
	}
}

type SummaryDisplay struct {
	Subtotal      string `json:"subtotal"`
	DiscountLabel string `json:"discountLabel,omitempty"`
	Discount      string `json:"discount,omitempty"`
	Tax           string `json:"tax"`
	Total         string `json:"total"`
}

func (s Summary) Display() SummaryDisplay {
	d := SummaryDisplay{
		Subtotal: cents(s.Subtotal),
		Tax:      cents(s.Tax),
		Total:    cents(s.Total),
	}
	if s.DiscountRate > 0 {
		d.Discount = cents(s.Discount)
		d.DiscountLabel = discountLabel(s.CartType, s.DiscountRate)
	}
	return d
}

func cents(v float64) string {
	return decimal.NewFromFloat(v).Round(2).StringFixed(2)
}

func discountLabel(t model.CartType, rate float64) string {
	pct := decimal.NewFromFloat(rate).Shift(2).String()
	switch t {
	case model.CartFamily:
		return fmt.Sprintf("Family Cart Discount (%s%%)", pct)
	case model.CartCommunity:
		return fmt.Sprintf("Community Cart Discount (%s%%)", pct)
	default:
		return fmt.Sprintf("Discount (%s%%)", pct)
	}
}

// EcoOption is a packaging choice offered at checkout. Points are shown
// to the shopper but not credited.
type EcoOption struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Points int    `json:"points"`
}

var ecoOptionCatalog = []EcoOption{
	{ID: "return-packaging", Label: "Return packaging to delivery agent", Points: 15},
	{ID: "no-plastic", Label: "Opt-out of plastic packaging", Points: 10},
	{ID: "own-bag", Label: "Bring own carry bag (for in-store pickup)", Points: 5},
	{ID: "club-packaging", Label: "Club my packaging with nearby orders (Smart Packaging)", Points: 25},
}

func EcoOptions() []EcoOption {
	out := make([]EcoOption, len(ecoOptionCatalog))
	copy(out, ecoOptionCatalog)
	return out
}

type CheckoutView struct {
	CartID     string           `json:"cartId"`
	Name       string           `json:"name"`
	Items      []model.CartItem `json:"items"`
	Summary    Summary          `json:"summary"`
	Display    SummaryDisplay   `json:"display"`
	EcoOptions []EcoOption      `json:"ecoOptions"`
}

// CheckoutService prices either the caller's personal cart or one of the
// group carts they belong to.
type CheckoutService struct {
	carts  *CartService
	groups *GroupCartService
}

func NewCheckoutService(carts *CartService, groups *GroupCartService) *CheckoutService {
	return &CheckoutService{carts: carts, groups: groups}
}

// Checkout prices the personal cart when cartID is empty.
func (s *CheckoutService) Checkout(ctx context.Context, userID, cartID string) (*CheckoutView, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	var (
		id, name string
		items    []model.CartItem
		cartType model.CartType
	)
	if cartID == "" {
		cart, err := s.carts.GetCart(ctx, userID)
		if err != nil {
			return nil, err
		}
		id, name, items, cartType = cart.ID, cart.Name, cart.Items, model.CartPersonal
	} else {
		cart, err := s.groups.Get(ctx, userID, cartID)
		if err != nil {
			return nil, err
		}
		id, name, items, cartType = cart.ID, cart.Name, cart.Items, cart.Type
	}
	if items == nil {
		items = []model.CartItem{}
	}

	summary := Price(items, cartType)
	return &CheckoutView{
		CartID:     id,
		Name:       name,
		Items:      items,
		Summary:    summary,
		Display:    summary.Display(),
		EcoOptions: EcoOptions(),
	}, nil
}
