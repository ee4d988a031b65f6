// Package repository is the document store behind the storefront: users,
// products, personal carts, group carts and auth records. Firestore backs it
// in production; the in-memory store serves local runs and tests.
package repository

import (
	"context"
	"errors"

	"ecocart/model"
)

const (
	UsersCollection       = "users"
	ProductsCollection    = "products"
	CartsCollection       = "carts"
	GroupCartsCollection  = "groupCarts"
	CredentialsCollection = "credentials"
	SessionsCollection    = "sessions"
)

var (
	ErrNotFound      = errors.New("document not found")
	ErrAlreadyExists = errors.New("document already exists")
)

type UserStore interface {
	GetUser(ctx context.Context, uid string) (*model.User, error)
	CreateUser(ctx context.Context, user *model.User) error
}

type ProductStore interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	SaveProducts(ctx context.Context, products []model.Product) error
}

// CartMutation edits a personal cart inside a transaction. exists is false
// when the cart has never been written; cart is then a fresh empty cart.
type CartMutation func(cart *model.Cart, exists bool) error

type CartStore interface {
	GetCart(ctx context.Context, userID string) (*model.Cart, error)
	UpdateCart(ctx context.Context, userID string, mutate CartMutation) (*model.Cart, error)
}

// GroupCartMutation edits a group cart inside a transaction.
type GroupCartMutation func(cart *model.GroupCart) error

type GroupCartStore interface {
	CreateGroupCart(ctx context.Context, cart *model.GroupCart) (*model.GroupCart, error)
	GetGroupCart(ctx context.Context, id string) (*model.GroupCart, error)
	FindGroupCartByInviteCode(ctx context.Context, code string) (*model.GroupCart, error)
	ListGroupCartsByMember(ctx context.Context, userID string) ([]model.GroupCart, error)
	AddGroupCartMember(ctx context.Context, id, userID string) error
	RemoveGroupCartMember(ctx context.Context, id, userID string) error
	UpdateGroupCartDetails(ctx context.Context, id, name, address string) error
	UpdateGroupCart(ctx context.Context, id string, mutate GroupCartMutation) (*model.GroupCart, error)
	DeleteGroupCart(ctx context.Context, id string) error
}

type CredentialStore interface {
	GetCredential(ctx context.Context, email string) (*model.Credential, error)
	CreateCredential(ctx context.Context, cred *model.Credential) error
}

type SessionStore interface {
	GetSession(ctx context.Context, userID string) (*model.Session, error)
	SaveSession(ctx context.Context, session *model.Session) error
	RevokeSession(ctx context.Context, userID string) error
}

type Repository interface {
	UserStore
	ProductStore
	CartStore
	GroupCartStore
	CredentialStore
	SessionStore
	Close() error
}
