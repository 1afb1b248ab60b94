package ports

import (
	"context"

	"github.com/workerhub/jobboard/internal/core/domain"
)

// ListingFilter carries the optional query parameters for listing job posts.
type ListingFilter struct {
	PostedBy   string // only listings owned by this builder
	Applicant  string // only listings this worker applied to
	City       string
	WorkType   domain.WorkType
	ActiveOnly bool
}

// ListingRepository defines persistence operations for listings and their
// embedded applications.
type ListingRepository interface {
	Create(ctx context.Context, l *domain.Listing) (*domain.Listing, error)
	FindByID(ctx context.Context, id string) (*domain.Listing, error)
	// List returns matching listings, newest first.
	List(ctx context.Context, filter ListingFilter) ([]*domain.Listing, error)
	// UpdateDetails overwrites the descriptive fields of l. The write is
	// refused (ErrCapacityBelowAccepted) when l.WorkersRequired is below the
	// stored accepted count.
	UpdateDetails(ctx context.Context, l *domain.Listing) error
	Delete(ctx context.Context, id string) error

	// AddApplication appends app unless the listing is inactive or the
	// applicant already applied. It reports whether the write happened.
	AddApplication(ctx context.Context, listingID string, app domain.Application) (bool, error)
	// SetApplicationStatus moves workerID's application from `from` to `to`
	// in a single conditional write. Accepting additionally requires the
	// accepted count to be below workers required. It reports whether the
	// write happened.
	SetApplicationStatus(ctx context.Context, listingID, workerID string, from, to domain.ApplicationStatus) (bool, error)
}

// ApplicationEventRepository persists the application audit trail.
type ApplicationEventRepository interface {
	InsertEvent(ctx context.Context, event *domain.ApplicationEvent) error
}
