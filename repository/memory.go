package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"ecocart/model"
)

// Memory is a process-local Repository. Every read and write copies the
// document so callers never share slices with the store.
type Memory struct {
	mu          sync.Mutex
	users       map[string]model.User
	products    map[string]model.Product
	carts       map[string]model.Cart
	groupCarts  map[string]model.GroupCart
	credentials map[string]model.Credential
	sessions    map[string]model.Session
	now         func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		users:       map[string]model.User{},
		products:    map[string]model.Product{},
		carts:       map[string]model.Cart{},
		groupCarts:  map[string]model.GroupCart{},
		credentials: map[string]model.Credential{},
		sessions:    map[string]model.Session{},
		now:         time.Now,
	}
}

func (m *Memory) Close() error { return nil }

func (m *Memory) GetUser(_ context.Context, uid string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[uid]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *Memory) CreateUser(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.UID] = *user
	return nil
}

func (m *Memory) ListProducts(_ context.Context) ([]model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) GetProduct(_ context.Context, id string) (*model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *Memory) SaveProducts(_ context.Context, products []model.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range products {
		m.products[p.ID] = p
	}
	return nil
}

func (m *Memory) GetCart(_ context.Context, userID string) (*model.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.carts[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return copyCart(c), nil
}

func (m *Memory) UpdateCart(_ context.Context, userID string, mutate CartMutation) (*model.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, exists := m.carts[userID]
	cart := model.NewPersonalCart(userID)
	if exists {
		cart = copyCart(stored)
	}
	if err := mutate(cart, exists); err != nil {
		return nil, err
	}
	cart.Revision++
	m.carts[userID] = *copyCart(*cart)
	return cart, nil
}

func (m *Memory) CreateGroupCart(_ context.Context, cart *model.GroupCart) (*model.GroupCart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.groupCarts[cart.ID]; ok {
		return nil, ErrAlreadyExists
	}
	stored := copyGroupCart(*cart)
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = m.now()
	}
	m.groupCarts[cart.ID] = *stored
	return copyGroupCart(*stored), nil
}

func (m *Memory) GetGroupCart(_ context.Context, id string) (*model.GroupCart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.groupCarts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyGroupCart(g), nil
}

func (m *Memory) FindGroupCartByInviteCode(_ context.Context, code string) (*model.GroupCart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range m.groupCarts {
		if g.InviteCode == code {
			return copyGroupCart(g), nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) ListGroupCartsByMember(_ context.Context, userID string) ([]model.GroupCart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.GroupCart{}
	for _, g := range m.groupCarts {
		if g.HasMember(userID) {
			out = append(out, *copyGroupCart(g))
		}
	}
	return out, nil
}

func (m *Memory) AddGroupCartMember(_ context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.groupCarts[id]
	if !ok {
		return ErrNotFound
	}
	if !g.HasMember(userID) {
		g.Members = append(append([]string(nil), g.Members...), userID)
		m.groupCarts[id] = g
	}
	return nil
}

func (m *Memory) RemoveGroupCartMember(_ context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.groupCarts[id]
	if !ok {
		return ErrNotFound
	}
	members := make([]string, 0, len(g.Members))
	for _, member := range g.Members {
		if member != userID {
			members = append(members, member)
		}
	}
	g.Members = members
	m.groupCarts[id] = g
	return nil
}

func (m *Memory) UpdateGroupCartDetails(_ context.Context, id, name, address string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.groupCarts[id]
	if !ok {
		return ErrNotFound
	}
	g.Name = name
	g.Address = address
	m.groupCarts[id] = g
	return nil
}

func (m *Memory) UpdateGroupCart(_ context.Context, id string, mutate GroupCartMutation) (*model.GroupCart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.groupCarts[id]
	if !ok {
		return nil, ErrNotFound
	}
	cart := copyGroupCart(stored)
	if err := mutate(cart); err != nil {
		return nil, err
	}
	cart.Revision++
	m.groupCarts[id] = *copyGroupCart(*cart)
	return cart, nil
}

func (m *Memory) DeleteGroupCart(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.groupCarts[id]; !ok {
		return ErrNotFound
	}
	delete(m.groupCarts, id)
	return nil
}

func (m *Memory) GetCredential(_ context.Context, email string) (*model.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.credentials[email]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (m *Memory) CreateCredential(_ context.Context, cred *model.Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.credentials[cred.Email]; ok {
		return ErrAlreadyExists
	}
	m.credentials[cred.Email] = *cred
	return nil
}

func (m *Memory) GetSession(_ context.Context, userID string) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *Memory) SaveSession(_ context.Context, session *model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.UserID] = *session
	return nil
}

func (m *Memory) RevokeSession(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	if !ok {
		return nil
	}
	s.Revoked = true
	m.sessions[userID] = s
	return nil
}

func copyCart(c model.Cart) *model.Cart {
	c.Items = append([]model.CartItem{}, c.Items...)
	return &c
}

func copyGroupCart(g model.GroupCart) *model.GroupCart {
	g.Items = append([]model.CartItem{}, g.Items...)
	g.Members = append([]string{}, g.Members...)
	return &g
}
