package services

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ecocart/model"
	"ecocart/repository"
)

type Reward struct {
	Title      string `json:"title"`
	Points     int    `json:"points"`
	Redeemable bool   `json:"redeemable"`
}

var rewardCatalog = []Reward{
	{Title: "5% Off Next Order", Points: 500},
	{Title: "Free Eco-Friendly Tote Bag", Points: 1000},
	{Title: "Plant a Tree in Your Name", Points: 2500},
}

type Profile struct {
	User       *model.User       `json:"user"`
	GroupCarts []model.GroupCart `json:"groupCarts"`
	Rewards    []Reward          `json:"rewards"`
}

type UserService struct {
	users  repository.UserStore
	groups *GroupCartService
	log    *zap.Logger
}

func NewUserService(users repository.UserStore, groups *GroupCartService, log *zap.Logger) *UserService {
	return &UserService{users: users, groups: groups, log: log.Named("user")}
}

// GetProfile loads the user document and their group carts concurrently.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	var (
		user  *model.User
		carts []model.GroupCart
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := s.users.GetUser(gctx, userID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return backendError(s.log, "Could not load your profile. Please try again.", err, zap.String("user_id", userID))
		}
		user = u
		return nil
	})
	g.Go(func() error {
		c, err := s.groups.ListForUser(gctx, userID)
		if err != nil {
			return err
		}
		carts = c
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Profile{User: user, GroupCarts: carts, Rewards: RewardsFor(user.EcoPoints)}, nil
}

// RewardsFor flags each reward the given balance can redeem.
func RewardsFor(points int) []Reward {
	out := make([]Reward, len(rewardCatalog))
	for i, r := range rewardCatalog {
		r.Redeemable = points >= r.Points
		out[i] = r
	}
	return out
}
