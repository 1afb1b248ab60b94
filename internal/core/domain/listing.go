package domain

import (
	"errors"
	"time"
)

type WorkType string

const (
	WorkMasonry    WorkType = "Masonry"
	WorkPlumbing   WorkType = "Plumbing"
	WorkElectrical WorkType = "Electrical"
	WorkPainting   WorkType = "Painting"
	WorkCarpentry  WorkType = "Carpentry"
	WorkOther      WorkType = "Other"
)

type BuildingType string

const (
	BuildingIndependentHouse BuildingType = "Independent House"
	BuildingApartment        BuildingType = "Apartment"
	BuildingCommercial       BuildingType = "Commercial"
)

type SkillLevel string

const (
	SkillHelper     SkillLevel = "Helper"
	SkillSkilled    SkillLevel = "Skilled"
	SkillSupervisor SkillLevel = "Supervisor"
)

type PaymentType string

const (
	PaymentDaily    PaymentType = "Daily"
	PaymentWeekly   PaymentType = "Weekly"
	PaymentContract PaymentType = "Contract"
)

// Valid reports whether w is one of WorkTypes.
func (w WorkType) Valid() bool {
	for _, v := range WorkTypes {
		if w == v {
			return true
		}
	}
	return false
}

// Option lists used by forms and validation tags.
var (
	WorkTypes     = []WorkType{WorkMasonry, WorkPlumbing, WorkElectrical, WorkPainting, WorkCarpentry, WorkOther}
	BuildingTypes = []BuildingType{BuildingIndependentHouse, BuildingApartment, BuildingCommercial}
	SkillLevels   = []SkillLevel{SkillHelper, SkillSkilled, SkillSupervisor}
	PaymentTypes  = []PaymentType{PaymentDaily, PaymentWeekly, PaymentContract}
)

var (
	ErrListingNotFound       = errors.New("listing not found")
	ErrListingClosed         = errors.New("this listing is no longer accepting applications")
	ErrForbidden             = errors.New("access forbidden")
	ErrCapacityBelowAccepted = errors.New("workers required cannot be lower than the number of accepted workers")
)

// Listing is a builder-owned job post and the aggregate root for its applications.
type Listing struct {
	ID              string
	PostedBy        string
	Title           string
	Description     string
	WorkType        WorkType
	BuildingType    BuildingType
	Floors          int
	AreaSqFt        int
	City            string
	Area            string
	Landmark        string
	WorkersRequired int
	SkillLevel      SkillLevel
	WagePerDay      int
	PaymentType     PaymentType
	FoodProvided    bool
	StartDate       time.Time
	DurationDays    int
	IsActive        bool
	Applications    []Application
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OwnedBy reports whether userID posted the listing.
func (l *Listing) OwnedBy(userID string) bool {
	return userID != "" && l.PostedBy == userID
}

// AcceptedCount counts applications in the Accepted state.
func (l *Listing) AcceptedCount() int {
	n := 0
	for _, a := range l.Applications {
		if a.Status == StatusAccepted {
			n++
		}
	}
	return n
}

// SlotsLeft is the number of workers that can still be accepted.
func (l *Listing) SlotsLeft() int {
	if left := l.WorkersRequired - l.AcceptedCount(); left > 0 {
		return left
	}
	return 0
}

// ApplicationOf returns the application submitted by workerID, if any.
func (l *Listing) ApplicationOf(workerID string) (*Application, bool) {
	for i := range l.Applications {
		if l.Applications[i].Applicant == workerID {
			return &l.Applications[i], true
		}
	}
	return nil, false
}

// Apply appends a new Applied application for workerID.
func (l *Listing) Apply(workerID string, at time.Time) (Application, error) {
	if !l.IsActive {
		return Application{}, ErrListingClosed
	}
	if _, ok := l.ApplicationOf(workerID); ok {
		return Application{}, ErrAlreadyApplied
	}
	app := Application{Applicant: workerID, Status: StatusApplied, AppliedAt: at, UpdatedAt: at}
	l.Applications = append(l.Applications, app)
	return app, nil
}

// Transition moves workerID's application to next. Accepting is refused once
// WorkersRequired applications are already Accepted.
func (l *Listing) Transition(workerID string, next ApplicationStatus, at time.Time) error {
	app, ok := l.ApplicationOf(workerID)
	if !ok {
		return ErrApplicationNotFound
	}
	if !app.Status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	if next == StatusAccepted && l.AcceptedCount() >= l.WorkersRequired {
		return ErrWorkerLimitReached
	}
	app.Status = next
	app.UpdatedAt = at
	return nil
}

// ListingPatch carries a partial update; nil fields keep their stored value.
type ListingPatch struct {
	Title           *string
	Description     *string
	WorkType        *WorkType
	BuildingType    *BuildingType
	Floors          *int
	AreaSqFt        *int
	City            *string
	Area            *string
	Landmark        *string
	WorkersRequired *int
	SkillLevel      *SkillLevel
	WagePerDay      *int
	PaymentType     *PaymentType
	FoodProvided    *bool
	StartDate       *time.Time
	DurationDays    *int
	IsActive        *bool
}

// ApplyPatch copies the set fields of p onto l.
func (l *Listing) ApplyPatch(p ListingPatch) error {
	if p.WorkersRequired != nil && *p.WorkersRequired < l.AcceptedCount() {
		return ErrCapacityBelowAccepted
	}
	setIf(&l.Title, p.Title)
	setIf(&l.Description, p.Description)
	setIf(&l.WorkType, p.WorkType)
	setIf(&l.BuildingType, p.BuildingType)
	setIf(&l.Floors, p.Floors)
	setIf(&l.AreaSqFt, p.AreaSqFt)
	setIf(&l.City, p.City)
	setIf(&l.Area, p.Area)
	setIf(&l.Landmark, p.Landmark)
	setIf(&l.WorkersRequired, p.WorkersRequired)
	setIf(&l.SkillLevel, p.SkillLevel)
	setIf(&l.WagePerDay, p.WagePerDay)
	setIf(&l.PaymentType, p.PaymentType)
	setIf(&l.FoodProvided, p.FoodProvided)
	setIf(&l.StartDate, p.StartDate)
	setIf(&l.DurationDays, p.DurationDays)
	setIf(&l.IsActive, p.IsActive)
	return nil
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
