package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ecocart/model"
	"ecocart/repository"
)

const maxInviteCodeAttempts = 5

var groupCartMessages = map[string]string{
	"name":    "Name must be between 3 and 50 characters.",
	"address": "Address must be between 10 and 100 characters.",
	"type":    "Cart type must be family or community.",
}

type CreateGroupCartInput struct {
	Name    string         `json:"name" validate:"min=3,max=50"`
	Address string         `json:"address" validate:"min=10,max=100"`
	Type    model.CartType `json:"type" validate:"oneof=family community"`
}

type groupCartDetails struct {
	Name    string `json:"name" validate:"min=3,max=50"`
	Address string `json:"address" validate:"min=10,max=100"`
}

// GroupCartService implements the shared cart lifecycle: create, join by
// invite code, leave, owner-only rename and delete, and member item edits.
type GroupCartService struct {
	carts   repository.GroupCartStore
	catalog *CatalogService
	log     *zap.Logger

	newInviteCode func() (string, error)
	newID         func() string
}

func NewGroupCartService(carts repository.GroupCartStore, catalog *CatalogService, log *zap.Logger) *GroupCartService {
	return &GroupCartService{
		carts:         carts,
		catalog:       catalog,
		log:           log.Named("groupcart"),
		newInviteCode: GenerateInviteCode,
		newID:         uuid.NewString,
	}
}

func (s *GroupCartService) Create(ctx context.Context, creatorID string, in CreateGroupCartInput) (*model.GroupCart, error) {
	if creatorID == "" {
		return nil, ErrNotAuthenticated
	}
	if err := validateStruct(in, groupCartMessages); err != nil {
		return nil, err
	}

	code, err := s.uniqueInviteCode(ctx)
	if err != nil {
		return nil, backendError(s.log, "Failed to create group cart. Please try again.", err, zap.String("user_id", creatorID))
	}

	cart, err := s.carts.CreateGroupCart(ctx, &model.GroupCart{
		ID:         s.newID(),
		Name:       in.Name,
		Address:    in.Address,
		Type:       in.Type,
		OwnerID:    creatorID,
		Members:    []string{creatorID},
		InviteCode: code,
		Items:      []model.CartItem{},
	})
	if err != nil {
		return nil, backendError(s.log, "Failed to create group cart. Please try again.", err, zap.String("user_id", creatorID))
	}
	s.log.Info("group cart created", zap.String("cart_id", cart.ID), zap.String("user_id", creatorID), zap.String("type", string(cart.Type)))
	return cart, nil
}

// uniqueInviteCode draws codes until one is not used by an existing cart.
func (s *GroupCartService) uniqueInviteCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxInviteCodeAttempts; attempt++ {
		code, err := s.newInviteCode()
		if err != nil {
			return "", err
		}
		_, err = s.carts.FindGroupCartByInviteCode(ctx, code)
		if errors.Is(err, repository.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
		s.log.Warn("invite code collision", zap.String("code", code), zap.Int("attempt", attempt+1))
	}
	return "", fmt.Errorf("no free invite code after %d attempts", maxInviteCodeAttempts)
}

func (s *GroupCartService) Join(ctx context.Context, userID, inviteCode string) (*model.GroupCart, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	code := NormalizeInviteCode(inviteCode)
	if len(code) != InviteCodeLength {
		return nil, validationError("inviteCode", "Invite code must be exactly 6 characters.")
	}

	cart, err := s.carts.FindGroupCartByInviteCode(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidInviteCode
	}
	if err != nil {
		return nil, backendError(s.log, "Failed to join cart. Please try again.", err, zap.String("user_id", userID))
	}
	if cart.HasMember(userID) {
		return nil, ErrAlreadyMember
	}

	if err := s.carts.AddGroupCartMember(ctx, cart.ID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidInviteCode
		}
		return nil, backendError(s.log, "Failed to join cart. Please try again.", err,
			zap.String("user_id", userID), zap.String("cart_id", cart.ID))
	}
	cart.Members = append(cart.Members, userID)
	return cart, nil
}

func (s *GroupCartService) Leave(ctx context.Context, userID, cartID string) error {
	if userID == "" {
		return ErrNotAuthenticated
	}
	cart, err := s.load(ctx, cartID)
	if err != nil {
		return err
	}
	if cart.OwnerID == userID {
		return ErrOwnerCannotLeave
	}
	if !cart.HasMember(userID) {
		return ErrNotAMember
	}

	if err := s.carts.RemoveGroupCartMember(ctx, cartID, userID); err != nil {
		return s.storeError(err, "Failed to leave the group cart.", cartID)
	}
	return nil
}

// Delete removes the cart. Ownership is checked against the stored document.
func (s *GroupCartService) Delete(ctx context.Context, requesterID, cartID string) error {
	if requesterID == "" {
		return ErrNotAuthenticated
	}
	cart, err := s.load(ctx, cartID)
	if err != nil {
		return err
	}
	if cart.OwnerID != requesterID {
		return ErrNotOwner
	}

	if err := s.carts.DeleteGroupCart(ctx, cartID); err != nil {
		return s.storeError(err, "Failed to delete the cart.", cartID)
	}
	s.log.Info("group cart deleted", zap.String("cart_id", cartID), zap.String("user_id", requesterID))
	return nil
}

func (s *GroupCartService) Update(ctx context.Context, requesterID, cartID, name, address string) (*model.GroupCart, error) {
	if requesterID == "" {
		return nil, ErrNotAuthenticated
	}
	if err := validateStruct(groupCartDetails{Name: name, Address: address}, groupCartMessages); err != nil {
		return nil, err
	}
	cart, err := s.load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if cart.OwnerID != requesterID {
		return nil, ErrNotOwner
	}

	if err := s.carts.UpdateGroupCartDetails(ctx, cartID, name, address); err != nil {
		return nil, s.storeError(err, "Failed to update cart.", cartID)
	}
	cart.Name = name
	cart.Address = address
	return cart, nil
}

// Get returns the cart if requesterID is one of its members.
func (s *GroupCartService) Get(ctx context.Context, requesterID, cartID string) (*model.GroupCart, error) {
	if requesterID == "" {
		return nil, ErrNotAuthenticated
	}
	cart, err := s.load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if !cart.HasMember(requesterID) {
		return nil, ErrNotAMember
	}
	return cart, nil
}

func (s *GroupCartService) ListForUser(ctx context.Context, userID string) ([]model.GroupCart, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	carts, err := s.carts.ListGroupCartsByMember(ctx, userID)
	if err != nil {
		return nil, backendError(s.log, "Could not load your group carts. Please try again.", err, zap.String("user_id", userID))
	}
	sort.SliceStable(carts, func(i, j int) bool { return carts[i].CreatedAt.Before(carts[j].CreatedAt) })
	return carts, nil
}

// AddItem adds one unit of productID, appending the product when absent.
func (s *GroupCartService) AddItem(ctx context.Context, requesterID, cartID, productID string) (*model.GroupCart, error) {
	if _, err := s.Get(ctx, requesterID, cartID); err != nil {
		return nil, err
	}
	product, ok := s.catalog.GetProduct(ctx, productID)
	if !ok {
		return nil, ErrProductNotFound
	}

	cart, err := s.carts.UpdateGroupCart(ctx, cartID, func(g *model.GroupCart) error {
		if !g.HasMember(requesterID) {
			return ErrNotAMember
		}
		g.Items = model.AddProduct(g.Items, *product)
		return nil
	})
	if err != nil {
		return nil, s.storeError(err, "Could not add item to group cart. Please try again.", cartID)
	}
	return cart, nil
}

func (s *GroupCartService) UpdateItemQuantity(ctx context.Context, requesterID, cartID, itemID string, change model.QuantityChange) (*model.GroupCart, error) {
	if requesterID == "" {
		return nil, ErrNotAuthenticated
	}

	cart, err := s.carts.UpdateGroupCart(ctx, cartID, func(g *model.GroupCart) error {
		if !g.HasMember(requesterID) {
			return ErrNotAMember
		}
		items, ok := model.ApplyQuantityChange(g.Items, itemID, change)
		if !ok {
			return ErrItemNotFound
		}
		g.Items = items
		return nil
	})
	if err != nil {
		return nil, s.storeError(err, "Could not update the item. Please try again.", cartID)
	}
	return cart, nil
}

func (s *GroupCartService) load(ctx context.Context, cartID string) (*model.GroupCart, error) {
	if cartID == "" {
		return nil, ErrCartNotFound
	}
	cart, err := s.carts.GetGroupCart(ctx, cartID)
	if err != nil {
		return nil, s.storeError(err, "Could not load the group cart. Please try again.", cartID)
	}
	return cart, nil
}

// storeError passes service errors through, maps missing documents to
// ErrCartNotFound and hides everything else behind message.
func (s *GroupCartService) storeError(err error, message, cartID string) error {
	var svcErr *Error
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrCartNotFound
	case errors.As(err, &svcErr):
		return svcErr
	default:
		return backendError(s.log, message, err, zap.String("cart_id", cartID))
	}
}
