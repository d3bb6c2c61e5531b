package listings

import (
	"context"

	"github.com/morozova-art/lagunare/internal/domain"
	"github.com/morozova-art/lagunare/internal/repository"
)

type ListingUseCase interface {
	List(ctx context.Context, city string, kind domain.ListingKind) ([]domain.Listing, error)
	GetByID(ctx context.Context, id int64) (*domain.Listing, error)
}

type Cache interface {
	GetListings(ctx context.Context, city string, kind domain.ListingKind) ([]domain.Listing, error)
	SetListings(ctx context.Context, city string, kind domain.ListingKind, listings []domain.Listing) error
}

type ListingService struct {
	repo  repository.ListingRepository
	cache Cache
}

func NewListingService(repo repository.ListingRepository, cache Cache) *ListingService {
	return &ListingService{repo: repo, cache: cache}
}

// List serves the catalog for a city/kind filter, read-through cached per
// filter. Cache failures fall back to the repository.
func (s *ListingService) List(ctx context.Context, city string, kind domain.ListingKind) ([]domain.Listing, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetListings(ctx, city, kind); err == nil && cached != nil {
			return cached, nil
		}
	}

	listings, err := s.repo.List(ctx, city, kind)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetListings(ctx, city, kind, listings)
	}
	return listings, nil
}

func (s *ListingService) GetByID(ctx context.Context, id int64) (*domain.Listing, error) {
	return s.repo.GetByID(ctx, id)
}

var _ ListingUseCase = (*ListingService)(nil)
