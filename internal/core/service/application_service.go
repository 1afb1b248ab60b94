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

// ApplicationService drives the apply, accept and reject lifecycle.
type ApplicationService struct {
	listings ports.ListingRepository
	users    ports.AuthRepository
	events   ports.ApplicationEventRepository
	log      zerolog.Logger
	now      func() time.Time
}

func NewApplicationService(
	listings ports.ListingRepository,
	users ports.AuthRepository,
	events ports.ApplicationEventRepository,
	log zerolog.Logger,
) *ApplicationService {
	return &ApplicationService{
		listings: listings,
		users:    users,
		events:   events,
		log:      log,
		now:      time.Now,
	}
}

// Apply records a new application from a worker.
func (s *ApplicationService) Apply(ctx context.Context, actor *domain.User, listingID string) error {
	if !actor.IsWorker() {
		return domain.ErrForbidden
	}

	// 1. Validate against the current document for a precise error.
	listing, err := s.listings.FindByID(ctx, listingID)
	if err != nil {
		return err
	}
	app, err := listing.Apply(actor.ID, s.now().UTC())
	if err != nil {
		return err
	}

	// 2. Conditional push; a concurrent duplicate makes it a no-op.
	ok, err := s.listings.AddApplication(ctx, listingID, app)
	if err != nil {
		return fmt.Errorf("apply: %w", err)
	}
	if !ok {
		return s.explain(ctx, listingID, func(l *domain.Listing) error {
			_, err := l.Apply(actor.ID, app.AppliedAt)
			return err
		})
	}

	s.audit(ctx, listingID, actor.ID, actor.ID, domain.StatusApplied)
	s.log.Info().Str("listing_id", listingID).Str("worker_id", actor.ID).Msg("application submitted")
	return nil
}

func (s *ApplicationService) Accept(ctx context.Context, actor *domain.User, listingID, workerID string) error {
	return s.transition(ctx, actor, listingID, workerID, domain.StatusAccepted)
}

func (s *ApplicationService) Reject(ctx context.Context, actor *domain.User, listingID, workerID string) error {
	return s.transition(ctx, actor, listingID, workerID, domain.StatusRejected)
}

func (s *ApplicationService) transition(ctx context.Context, actor *domain.User, listingID, workerID string, next domain.ApplicationStatus) error {
	// 1. Ownership.
	listing, err := s.listings.FindByID(ctx, listingID)
	if err != nil {
		return err
	}
	if actor == nil || !listing.OwnedBy(actor.ID) {
		return domain.ErrForbidden
	}

	// 2. State machine and capacity on the loaded document.
	app, ok := listing.ApplicationOf(workerID)
	if !ok {
		return domain.ErrApplicationNotFound
	}
	from := app.Status
	if err := listing.Transition(workerID, next, s.now().UTC()); err != nil {
		return err
	}

	// 3. Atomic conditional write; capacity is re-checked server side.
	ok, err = s.listings.SetApplicationStatus(ctx, listingID, workerID, from, next)
	if err != nil {
		return fmt.Errorf("set application status: %w", err)
	}
	if !ok {
		return s.explain(ctx, listingID, func(l *domain.Listing) error {
			return l.Transition(workerID, next, s.now().UTC())
		})
	}

	s.audit(ctx, listingID, workerID, actor.ID, next)
	s.log.Info().
		Str("listing_id", listingID).
		Str("worker_id", workerID).
		Str("status", string(next)).
		Msg("application status changed")
	return nil
}

// explain reloads a listing after a conditional write matched nothing and
// replays check against it to report why.
func (s *ApplicationService) explain(ctx context.Context, listingID string, check func(*domain.Listing) error) error {
	listing, err := s.listings.FindByID(ctx, listingID)
	if err != nil {
		return err
	}
	if err := check(listing); err != nil {
		return err
	}
	return domain.ErrApplicationConflict
}

// audit is best effort; the status change is already committed.
func (s *ApplicationService) audit(ctx context.Context, listingID, workerID, actorID string, status domain.ApplicationStatus) {
	if s.events == nil {
		return
	}
	err := s.events.InsertEvent(ctx, &domain.ApplicationEvent{
		ListingID: listingID,
		WorkerID:  workerID,
		ActorID:   actorID,
		Status:    status,
		At:        s.now().UTC(),
	})
	if err != nil {
		s.log.Warn().Err(err).Str("listing_id", listingID).Msg("failed to insert application event")
	}
}

func (s *ApplicationService) Applicants(ctx context.Context, listingID string) (*ports.ApplicantsView, error) {
	listing, err := s.listings.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(listing.Applications))
	for _, a := range listing.Applications {
		ids = append(ids, a.Applicant)
	}

	workers := map[string]*domain.User{}
	if len(ids) > 0 {
		workers, err = s.users.FindByIDs(ctx, ids)
		if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("applicants: %w", err)
		}
	}

	view := &ports.ApplicantsView{Listing: listing, Applicants: make([]ports.Applicant, 0, len(ids))}
	for _, a := range listing.Applications {
		view.Applicants = append(view.Applicants, ports.Applicant{Application: a, Worker: workers[a.Applicant]})
	}
	return view, nil
}
