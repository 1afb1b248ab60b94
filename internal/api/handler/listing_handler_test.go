package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/workerhub/jobboard/internal/core/domain"
	"github.com/workerhub/jobboard/internal/core/ports"
)

func TestListingHandler_Create_Success(t *testing.T) {
	e := newTestEcho(t)
	var got ports.ListingInput
	stub := &stubListingService{
		createFn: func(ctx context.Context, actor *domain.User, in ports.ListingInput) (*domain.Listing, error) {
			if actor.ID != "b1" {
				t.Fatalf("unexpected actor: %+v", actor)
			}
			got = in
			return &domain.Listing{ID: "l1", WorkType: in.WorkType}, nil
		},
	}
	handler := NewListingHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(formRequest(http.MethodPost, "/addListing", validListingForm()), rec)
	withUser(c, builder)

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/" {
		t.Fatalf("expected 303 to /, got %d", rec.Code)
	}
	want := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	if got.Title != "Plaster two floors" || got.WorkType != domain.WorkMasonry || got.BuildingType != domain.BuildingIndependentHouse ||
		got.WorkersRequired != 2 || got.WagePerDay != 800 || !got.FoodProvided || !got.StartDate.Equal(want) {
		t.Fatalf("unexpected input: %+v", got)
	}
}

func TestListingHandler_Create_ValidationRerendersForm(t *testing.T) {
	cases := []struct {
		field, value, msg string
	}{
		{"job[title]", "", "title is required"},
		{"job[title]", "Tiny", "title must be at least 5 characters"},
		{"job[description]", "too short", "description must be at least 20 characters"},
		{"job[workType]", "Roofing", "workType must be one of"},
		{"job[wagePerDay]", "50", "wagePerDay must be at least 100"},
		{"job[areaSqFt]", "99", "areaSqFt must be at least 100"},
		{"job[startDate]", "next week", "startDate must be a date"},
	}
	for _, tc := range cases {
		t.Run(tc.field+"="+tc.value, func(t *testing.T) {
			e := newTestEcho(t)
			stub := &stubListingService{
				createFn: func(context.Context, *domain.User, ports.ListingInput) (*domain.Listing, error) {
					t.Fatalf("should not be called")
					return nil, nil
				},
			}
			handler := NewListingHandler(stub)

			form := validListingForm()
			form.Set(tc.field, tc.value)
			rec := httptest.NewRecorder()
			c := e.NewContext(formRequest(http.MethodPost, "/addListing", form), rec)
			withUser(c, builder)

			if err := handler.Create(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			body := rec.Body.String()
			if !strings.Contains(body, tc.msg) {
				t.Fatalf("expected %q in body, got %s", tc.msg, body)
			}
			if !strings.Contains(body, "Kothrud") {
				t.Fatalf("expected input echoed back")
			}
		})
	}
}

func TestListingHandler_Index_Filters(t *testing.T) {
	e := newTestEcho(t)
	var got ports.ListingFilter
	stub := &stubListingService{
		listFn: func(ctx context.Context, filter ports.ListingFilter) ([]*domain.Listing, error) {
			got = filter
			return []*domain.Listing{{ID: "l1", Title: "Paint the lobby", WorkType: domain.WorkPainting, City: "Pune", IsActive: true}}, nil
		},
	}
	handler := NewListingHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/?city=Pune&workType=Painting", nil), rec)

	if err := handler.Index(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got.City != "Pune" || got.WorkType != domain.WorkPainting {
		t.Fatalf("unexpected filter: %+v", got)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Paint the lobby") {
		t.Fatalf("expected listing rendered, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/?workType=Roofing", nil), rec)
	_ = handler.Index(c)
	if got.WorkType != "" {
		t.Fatalf("unknown work type must be ignored, got %q", got.WorkType)
	}
	if got.ActiveOnly {
		t.Fatalf("closed listings are listed unless asked otherwise")
	}

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/?active=true", nil), rec)
	if err := handler.Index(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !got.ActiveOnly || !strings.Contains(rec.Body.String(), "checked") {
		t.Fatalf("expected open-only filter applied and kept in the form, got %+v", got)
	}
}

func TestListingHandler_Show(t *testing.T) {
	e := newTestEcho(t)
	listing := &domain.Listing{
		ID: "l1", PostedBy: "b1", Title: "Paint the lobby", WorkersRequired: 2, IsActive: true,
		Applications: []domain.Application{{Applicant: "w1", Status: domain.StatusAccepted}},
	}
	stub := &stubListingService{
		getFn: func(ctx context.Context, id string) (*ports.ListingDetail, error) {
			return &ports.ListingDetail{Listing: listing, Owner: builder}, nil
		},
	}
	handler := NewListingHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/listings/l1", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("l1")
	withUser(c, worker)

	if err := handler.Show(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "You applied: Accepted") {
		t.Fatalf("expected worker's status shown, got %s", body)
	}
	if strings.Contains(body, "/edit") {
		t.Fatalf("non-owner must not see the edit link")
	}
}

func TestListingHandler_Update_PartialPatch(t *testing.T) {
	e := newTestEcho(t)
	var got domain.ListingPatch
	stub := &stubListingService{
		updateFn: func(ctx context.Context, actor *domain.User, id string, patch domain.ListingPatch) (*domain.Listing, error) {
			if id != "l1" {
				t.Fatalf("unexpected id %s", id)
			}
			got = patch
			return &domain.Listing{ID: id}, nil
		},
	}
	handler := NewListingHandler(stub)

	form := url.Values{"job[wagePerDay]": {"950"}, "job[isActive]": {"false"}, "job[title]": {""}}
	rec := httptest.NewRecorder()
	c := e.NewContext(formRequest(http.MethodPut, "/listings/l1", form), rec)
	c.SetParamNames("id")
	c.SetParamValues("l1")
	withUser(c, builder)

	if err := handler.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/listings/l1" {
		t.Fatalf("expected 303 to listing, got %d", rec.Code)
	}
	if got.WagePerDay == nil || *got.WagePerDay != 950 || got.IsActive == nil || *got.IsActive {
		t.Fatalf("expected wage and isActive set, got %+v", got)
	}
	if got.Title != nil || got.WorkersRequired != nil || got.StartDate != nil || got.FoodProvided != nil {
		t.Fatalf("empty fields must stay unset, got %+v", got)
	}
}

func TestListingHandler_Update_OwnershipBeforeValidation(t *testing.T) {
	for _, want := range []error{domain.ErrForbidden, domain.ErrListingNotFound} {
		t.Run(want.Error(), func(t *testing.T) {
			e := newTestEcho(t)
			stub := &stubListingService{
				getOwnedFn: func(context.Context, *domain.User, string) (*domain.Listing, error) {
					return nil, want
				},
				updateFn: func(context.Context, *domain.User, string, domain.ListingPatch) (*domain.Listing, error) {
					t.Fatalf("update must not run for a caller who does not own the listing")
					return nil, nil
				},
			}
			handler := NewListingHandler(stub)

			form := url.Values{"job[title]": {"abc"}, "job[floors]": {"many"}}
			rec := httptest.NewRecorder()
			c := e.NewContext(formRequest(http.MethodPut, "/listings/l1", form), rec)
			c.SetParamNames("id")
			c.SetParamValues("l1")
			withUser(c, worker)

			if err := handler.Update(c); err != want {
				t.Fatalf("expected %v, got %v", want, err)
			}
			if rec.Body.Len() != 0 {
				t.Fatalf("edit form must not be rendered, got %s", rec.Body.String())
			}
		})
	}
}

func TestListingHandler_Update_ClearLandmark(t *testing.T) {
	e := newTestEcho(t)
	var got domain.ListingPatch
	stub := &stubListingService{
		updateFn: func(_ context.Context, _ *domain.User, id string, patch domain.ListingPatch) (*domain.Listing, error) {
			got = patch
			return &domain.Listing{ID: id}, nil
		},
	}
	handler := NewListingHandler(stub)

	form := url.Values{"job[landmark]": {"Old temple"}, "job[clearLandmark]": {"true"}}
	rec := httptest.NewRecorder()
	c := e.NewContext(formRequest(http.MethodPut, "/listings/l1", form), rec)
	c.SetParamNames("id")
	c.SetParamValues("l1")
	withUser(c, builder)

	if err := handler.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got.Landmark == nil || *got.Landmark != "" {
		t.Fatalf("expected landmark cleared, got %v", got.Landmark)
	}
}

func TestListingHandler_Update_CapacityBelowAccepted(t *testing.T) {
	e := newTestEcho(t)
	stub := &stubListingService{
		updateFn: func(context.Context, *domain.User, string, domain.ListingPatch) (*domain.Listing, error) {
			return nil, domain.ErrCapacityBelowAccepted
		},
	}
	handler := NewListingHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(formRequest(http.MethodPut, "/listings/l1", url.Values{"job[workersRequired]": {"1"}}), rec)
	c.SetParamNames("id")
	c.SetParamValues("l1")
	withUser(c, builder)

	if err := handler.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "accepted workers") {
		t.Fatalf("expected 400 with capacity message, got %d", rec.Code)
	}
}

func TestListingHandler_Delete_PropagatesForbidden(t *testing.T) {
	e := newTestEcho(t)
	stub := &stubListingService{
		deleteFn: func(context.Context, *domain.User, string) error { return domain.ErrForbidden },
	}
	handler := NewListingHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/listings/l1", nil), rec)
	withUser(c, worker)

	if err := handler.Delete(c); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden for the error handler, got %v", err)
	}
}

func TestListingHandler_RequiresUser(t *testing.T) {
	e := newTestEcho(t)
	handler := NewListingHandler(&stubListingService{})

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/profile", nil), httptest.NewRecorder())
	err := handler.Profile(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestListingHandler_Profile(t *testing.T) {
	e := newTestEcho(t)
	stub := &stubListingService{
		profileFn: func(ctx context.Context, actor *domain.User) ([]ports.ProfileEntry, error) {
			return []ports.ProfileEntry{{Listing: &domain.Listing{ID: "l1", Title: "Paint the lobby", City: "Pune"}, Status: domain.StatusApplied}}, nil
		},
	}
	handler := NewListingHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/profile", nil), rec)
	withUser(c, worker)

	if err := handler.Profile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Your applications") || !strings.Contains(body, "Applied") {
		t.Fatalf("unexpected profile page: %s", body)
	}
}
