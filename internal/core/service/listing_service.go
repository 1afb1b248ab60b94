package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/workerhub/jobboard/internal/core/domain"
	"github.com/workerhub/jobboard/internal/core/ports"
)

type ListingService struct {
	repo   ports.ListingRepository
	users  ports.AuthRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewListingService(repo ports.ListingRepository, users ports.AuthRepository, logger zerolog.Logger) *ListingService {
	return &ListingService{repo: repo, users: users, logger: logger, now: time.Now}
}

// Create stores a new active listing owned by actor. Only builders post jobs.
func (s *ListingService) Create(ctx context.Context, actor *domain.User, in ports.ListingInput) (*domain.Listing, error) {
	if !actor.IsBuilder() {
		return nil, domain.ErrForbidden
	}

	now := s.now().UTC()
	listing := &domain.Listing{
		PostedBy:        actor.ID,
		Title:           in.Title,
		Description:     in.Description,
		WorkType:        in.WorkType,
		BuildingType:    in.BuildingType,
		Floors:          in.Floors,
		AreaSqFt:        in.AreaSqFt,
		City:            in.City,
		Area:            in.Area,
		Landmark:        in.Landmark,
		WorkersRequired: in.WorkersRequired,
		SkillLevel:      in.SkillLevel,
		WagePerDay:      in.WagePerDay,
		PaymentType:     in.PaymentType,
		FoodProvided:    in.FoodProvided,
		StartDate:       in.StartDate,
		DurationDays:    in.DurationDays,
		IsActive:        true,
		Applications:    []domain.Application{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	created, err := s.repo.Create(ctx, listing)
	if err != nil {
		s.logger.Error().Err(err).Str("builder_id", actor.ID).Msg("failed to create listing")
		return nil, fmt.Errorf("create listing: %w", err)
	}

	s.logger.Info().Str("listing_id", created.ID).Str("builder_id", actor.ID).Msg("listing created")
	return created, nil
}

func (s *ListingService) Get(ctx context.Context, id string) (*ports.ListingDetail, error) {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	owner, err := s.users.FindByID(ctx, listing.PostedBy)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("get listing owner: %w", err)
		}
		owner = nil
	}
	return &ports.ListingDetail{Listing: listing, Owner: owner}, nil
}

func (s *ListingService) List(ctx context.Context, filter ports.ListingFilter) ([]*domain.Listing, error) {
	listings, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	return listings, nil
}

func (s *ListingService) GetOwned(ctx context.Context, actor *domain.User, id string) (*domain.Listing, error) {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor == nil || !listing.OwnedBy(actor.ID) {
		return nil, domain.ErrForbidden
	}
	return listing, nil
}

// Update applies patch to an owned listing. Applications are never touched.
func (s *ListingService) Update(ctx context.Context, actor *domain.User, id string, patch domain.ListingPatch) (*domain.Listing, error) {
	listing, err := s.GetOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := listing.ApplyPatch(patch); err != nil {
		return nil, err
	}
	listing.UpdatedAt = s.now().UTC()

	if err := s.repo.UpdateDetails(ctx, listing); err != nil {
		return nil, fmt.Errorf("update listing: %w", err)
	}

	s.logger.Info().Str("listing_id", id).Str("builder_id", actor.ID).Msg("listing updated")
	return listing, nil
}

func (s *ListingService) Delete(ctx context.Context, actor *domain.User, id string) error {
	if _, err := s.GetOwned(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}

	s.logger.Info().Str("listing_id", id).Str("builder_id", actor.ID).Msg("listing deleted")
	return nil
}

// Profile returns the builder's own listings, or the listings a worker
// applied to together with the worker's application status.
func (s *ListingService) Profile(ctx context.Context, actor *domain.User) ([]ports.ProfileEntry, error) {
	var filter ports.ListingFilter
	switch actor.Role {
	case domain.RoleBuilder:
		filter.PostedBy = actor.ID
	case domain.RoleWorker:
		filter.Applicant = actor.ID
	default:
		return nil, nil
	}

	listings, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}

	entries := make([]ports.ProfileEntry, 0, len(listings))
	for _, l := range listings {
		entry := ports.ProfileEntry{Listing: l}
		if app, ok := l.ApplicationOf(actor.ID); ok {
			entry.Status = app.Status
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
