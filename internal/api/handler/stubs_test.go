package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/workerhub/jobboard/internal/api/view"
	"github.com/workerhub/jobboard/internal/core/domain"
	"github.com/workerhub/jobboard/internal/core/ports"
)

type stubAuthService struct {
	signupFn func(ctx context.Context, username, password, role string) (*ports.Session, *domain.User, error)
	loginFn  func(ctx context.Context, username, password string) (*ports.Session, *domain.User, error)
	logoutFn func(ctx context.Context, token string) error
}

func (s *stubAuthService) Signup(ctx context.Context, username, password, role string) (*ports.Session, *domain.User, error) {
	return s.signupFn(ctx, username, password, role)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*ports.Session, *domain.User, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Authenticate(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrInvalidSession
}

func (s *stubAuthService) Logout(ctx context.Context, token string) error {
	return s.logoutFn(ctx, token)
}

type stubListingService struct {
	createFn   func(ctx context.Context, actor *domain.User, in ports.ListingInput) (*domain.Listing, error)
	getFn      func(ctx context.Context, id string) (*ports.ListingDetail, error)
	listFn     func(ctx context.Context, filter ports.ListingFilter) ([]*domain.Listing, error)
	getOwnedFn func(ctx context.Context, actor *domain.User, id string) (*domain.Listing, error)
	updateFn   func(ctx context.Context, actor *domain.User, id string, patch domain.ListingPatch) (*domain.Listing, error)
	deleteFn   func(ctx context.Context, actor *domain.User, id string) error
	profileFn  func(ctx context.Context, actor *domain.User) ([]ports.ProfileEntry, error)
}

func (s *stubListingService) Create(ctx context.Context, actor *domain.User, in ports.ListingInput) (*domain.Listing, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubListingService) Get(ctx context.Context, id string) (*ports.ListingDetail, error) {
	return s.getFn(ctx, id)
}

func (s *stubListingService) List(ctx context.Context, filter ports.ListingFilter) ([]*domain.Listing, error) {
	return s.listFn(ctx, filter)
}

// GetOwned hands the caller their own listing unless getOwnedFn says otherwise.
func (s *stubListingService) GetOwned(ctx context.Context, actor *domain.User, id string) (*domain.Listing, error) {
	if s.getOwnedFn == nil {
		return &domain.Listing{ID: id, PostedBy: actor.ID, IsActive: true}, nil
	}
	return s.getOwnedFn(ctx, actor, id)
}

func (s *stubListingService) Update(ctx context.Context, actor *domain.User, id string, patch domain.ListingPatch) (*domain.Listing, error) {
	return s.updateFn(ctx, actor, id, patch)
}

func (s *stubListingService) Delete(ctx context.Context, actor *domain.User, id string) error {
	return s.deleteFn(ctx, actor, id)
}

func (s *stubListingService) Profile(ctx context.Context, actor *domain.User) ([]ports.ProfileEntry, error) {
	return s.profileFn(ctx, actor)
}

type stubApplicationService struct {
	applyFn      func(ctx context.Context, actor *domain.User, listingID string) error
	acceptFn     func(ctx context.Context, actor *domain.User, listingID, workerID string) error
	rejectFn     func(ctx context.Context, actor *domain.User, listingID, workerID string) error
	applicantsFn func(ctx context.Context, listingID string) (*ports.ApplicantsView, error)
}

func (s *stubApplicationService) Apply(ctx context.Context, actor *domain.User, listingID string) error {
	return s.applyFn(ctx, actor, listingID)
}

func (s *stubApplicationService) Accept(ctx context.Context, actor *domain.User, listingID, workerID string) error {
	return s.acceptFn(ctx, actor, listingID, workerID)
}

func (s *stubApplicationService) Reject(ctx context.Context, actor *domain.User, listingID, workerID string) error {
	return s.rejectFn(ctx, actor, listingID, workerID)
}

func (s *stubApplicationService) Applicants(ctx context.Context, listingID string) (*ports.ApplicantsView, error) {
	return s.applicantsFn(ctx, listingID)
}

// newTestEcho returns an Echo instance with the real templates and validator.
func newTestEcho(t *testing.T) *echo.Echo {
	t.Helper()
	r, err := view.New()
	if err != nil {
		t.Fatalf("load templates: %v", err)
	}
	e := echo.New()
	e.Renderer = r
	e.Validator = NewValidator()
	return e
}

func formRequest(method, target string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}

// withUser mimics middleware.LoadSession for an authenticated caller.
func withUser(c echo.Context, u *domain.User) {
	c.Set("user", u)
	c.Set("user_id", u.ID)
}

func validListingForm() url.Values {
	return url.Values{
		"job[title]":           {"Plaster two floors"},
		"job[description]":     {"Interior plastering for a two storey house"},
		"job[workType]":        {"Masonry"},
		"job[buildingType]":    {"Independent House"},
		"job[floors]":          {"2"},
		"job[areaSqFt]":        {"1200"},
		"job[city]":            {"Pune"},
		"job[area]":            {"Kothrud"},
		"job[workersRequired]": {"2"},
		"job[skillLevel]":      {"Skilled"},
		"job[wagePerDay]":      {"800"},
		"job[paymentType]":     {"Daily"},
		"job[foodProvided]":    {"true"},
		"job[startDate]":       {"2026-11-01"},
		"job[durationDays]":    {"10"},
	}
}

var (
	builder = &domain.User{ID: "b1", Username: "bob", Role: domain.RoleBuilder}
	worker  = &domain.User{ID: "w1", Username: "wendy", Role: domain.RoleWorker}
)

var errBoom = errors.New("boom")
