package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ecocart/model"
	"ecocart/repository"
)

type fixture struct {
	repo     *repository.Memory
	catalog  *CatalogService
	carts    *CartService
	groups   *GroupCartService
	checkout *CheckoutService
	users    *UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := zap.NewNop()
	repo := repository.NewMemory()
	catalog := NewCatalogService(repo, log)
	carts := NewCartService(repo, catalog, log)
	groups := NewGroupCartService(repo, catalog, log)
	return &fixture{
		repo:     repo,
		catalog:  catalog,
		carts:    carts,
		groups:   groups,
		checkout: NewCheckoutService(carts, groups),
		users:    NewUserService(repo, groups, log),
	}
}

func (f *fixture) createCart(t *testing.T, owner string) *model.GroupCart {
	t.Helper()
	cart, err := f.groups.Create(context.Background(), owner, CreateGroupCartInput{
		Name:    "Maple Street",
		Address: "12 Maple Street, Springfield",
		Type:    model.CartFamily,
	})
	require.NoError(t, err)
	return cart
}

// brokenProducts fails every call.
type brokenProducts struct{}

var errStoreDown = errors.New("store unavailable")

func (brokenProducts) ListProducts(context.Context) ([]model.Product, error) {
	return nil, errStoreDown
}

func (brokenProducts) GetProduct(context.Context, string) (*model.Product, error) {
	return nil, errStoreDown
}

func (brokenProducts) SaveProducts(context.Context, []model.Product) error { return errStoreDown }

func requireKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, KindOf(err), "error: %v", err)
}
