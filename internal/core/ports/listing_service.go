package ports

import (
	"context"
	"time"

	"github.com/workerhub/jobboard/internal/core/domain"
)

// ListingInput carries the fields of a new job post.
type ListingInput struct {
	Title           string
	Description     string
	WorkType        domain.WorkType
	BuildingType    domain.BuildingType
	Floors          int
	AreaSqFt        int
	City            string
	Area            string
	Landmark        string
	WorkersRequired int
	SkillLevel      domain.SkillLevel
	WagePerDay      int
	PaymentType     domain.PaymentType
	FoodProvided    bool
	StartDate       time.Time
	DurationDays    int
}

// ListingDetail is a listing with its owner populated.
type ListingDetail struct {
	Listing *domain.Listing
	Owner   *domain.User // nil when the owner account no longer exists
}

// Applicant pairs an application with its worker.
type Applicant struct {
	Application domain.Application
	Worker      *domain.User // nil when the worker account no longer exists
}

// ApplicantsView is the applicants page of one listing.
type ApplicantsView struct {
	Listing    *domain.Listing
	Applicants []Applicant
}

// ProfileEntry is one listing shown on a profile page. For workers, Status is
// the worker's own application status.
type ProfileEntry struct {
	Listing *domain.Listing
	Status  domain.ApplicationStatus
}

// ListingService defines use-case operations for listings.
type ListingService interface {
	Create(ctx context.Context, actor *domain.User, in ListingInput) (*domain.Listing, error)
	Get(ctx context.Context, id string) (*ListingDetail, error)
	List(ctx context.Context, filter ListingFilter) ([]*domain.Listing, error)
	// GetOwned returns the listing when actor owns it, ErrForbidden otherwise.
	GetOwned(ctx context.Context, actor *domain.User, id string) (*domain.Listing, error)
	Update(ctx context.Context, actor *domain.User, id string, patch domain.ListingPatch) (*domain.Listing, error)
	Delete(ctx context.Context, actor *domain.User, id string) error
	Profile(ctx context.Context, actor *domain.User) ([]ProfileEntry, error)
}

// ApplicationService drives the application lifecycle.
type ApplicationService interface {
	Apply(ctx context.Context, actor *domain.User, listingID string) error
	Accept(ctx context.Context, actor *domain.User, listingID, workerID string) error
	Reject(ctx context.Context, actor *domain.User, listingID, workerID string) error
	Applicants(ctx context.Context, listingID string) (*ApplicantsView, error)
}
