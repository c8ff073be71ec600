package business

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/biz-onboarding-api/internal/domain"
	"github.com/biz-onboarding-api/internal/pkg/id"
)

// Service commits the finalized business profile for a verified owner.
type Service interface {
	Create(ctx context.Context, ownerID string, req domain.CreateBusinessRequest) (*domain.BusinessProfile, error)
	Get(ctx context.Context, businessID string) (*domain.BusinessProfile, error)
	GetByOwner(ctx context.Context, ownerID string) (*domain.BusinessProfile, error)
}

type businessStore interface {
	Put(ctx context.Context, b *domain.BusinessProfile) error
	Get(ctx context.Context, businessID string) (*domain.BusinessProfile, error)
	GetByOwner(ctx context.Context, ownerID string) (*domain.BusinessProfile, error)
	Delete(ctx context.Context, businessID string) error
}

type accountStore interface {
	Get(ctx context.Context, accountID string) (*domain.Account, error)
	Update(ctx context.Context, accountID string, updates map[string]interface{}) error
}

type service struct {
	businesses businessStore
	accounts   accountStore
}

type ServiceDeps struct {
	BusinessRepo businessStore
	AccountRepo  accountStore
}

func NewService(deps ServiceDeps) Service {
	return &service{businesses: deps.BusinessRepo, accounts: deps.AccountRepo}
}

// Create persists the profile and back-links it from the owner account. An
// owner holds at most one business; a second create is a conflict, not an
// update. If the back-link write fails the profile is deleted again so the
// two records never disagree about whether a business exists.
func (s *service) Create(ctx context.Context, ownerID string, req domain.CreateBusinessRequest) (*domain.BusinessProfile, error) {
	if _, err := s.accounts.Get(ctx, ownerID); err != nil {
		return nil, fmt.Errorf("owner account: %w", err)
	}
	if _, err := s.businesses.GetByOwner(ctx, ownerID); err == nil {
		return nil, fmt.Errorf("owner already has a business: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	b := &domain.BusinessProfile{
		BusinessID:              id.New(),
		OwnerID:                 ownerID,
		Name:                    req.BusinessName,
		Type:                    req.BusinessType,
		Description:             req.Description,
		Address:                 req.Address,
		City:                    req.City,
		ExteriorImages:          req.ExteriorImages,
		InteriorImages:          req.InteriorImages,
		ProductImages:           req.ProductImages,
		ProductDescription:      req.ProductDescription,
		Website:                 req.Website,
		Phone:                   req.Phone,
		Email:                   req.Email,
		SocialMedia:             req.SocialMedia,
		EstablishedDate:         req.EstablishedDate,
		Categories:              req.Categories,
		Tags:                    req.Tags,
		OperatingHours:          req.OperatingHours,
		Amenities:               req.Amenities,
		GoogleBusinessProfile:   req.GoogleBusinessProfile,
		OnlineOrderingPlatforms: req.OnlineOrderingPlatforms,
		Revenue:                 req.Revenue,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	if err := s.businesses.Put(ctx, b); err != nil {
		return nil, fmt.Errorf("create business: %w", err)
	}
	if err := s.accounts.Update(ctx, ownerID, map[string]interface{}{"business_id": b.BusinessID}); err != nil {
		if delErr := s.businesses.Delete(ctx, b.BusinessID); delErr != nil {
			slog.Warn("failed to roll back business after owner-link failure",
				"business_id", b.BusinessID, "owner_id", ownerID, "err", delErr)
		}
		return nil, fmt.Errorf("link business to owner: %w", err)
	}
	return b, nil
}

func (s *service) Get(ctx context.Context, businessID string) (*domain.BusinessProfile, error) {
	return s.businesses.Get(ctx, businessID)
}

func (s *service) GetByOwner(ctx context.Context, ownerID string) (*domain.BusinessProfile, error) {
	return s.businesses.GetByOwner(ctx, ownerID)
}
