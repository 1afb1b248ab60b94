package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/workerhub/jobboard/internal/api/metrics"
	"github.com/workerhub/jobboard/internal/api/view"
	"github.com/workerhub/jobboard/internal/core/domain"
	"github.com/workerhub/jobboard/internal/core/ports"
)

// ListingHandler serves the job post pages.
type ListingHandler struct {
	service ports.ListingService
}

func NewListingHandler(service ports.ListingService) *ListingHandler {
	return &ListingHandler{service: service}
}

// Index handles GET /. Unknown workType values are ignored rather than
// rejected so a stale bookmark still lists everything.
func (h *ListingHandler) Index(c echo.Context) error {
	filter := ports.ListingFilter{
		City:       strings.TrimSpace(c.QueryParam("city")),
		ActiveOnly: c.QueryParam("active") == "true",
	}
	if wt := domain.WorkType(c.QueryParam("workType")); wt.Valid() {
		filter.WorkType = wt
	}

	listings, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "listings/index", view.Page{
		Title: "Jobs",
		Data: indexData{
			Listings:   listings,
			City:       filter.City,
			WorkType:   string(filter.WorkType),
			ActiveOnly: filter.ActiveOnly,
		},
	})
}

// New renders the add-listing form.
func (h *ListingHandler) New(c echo.Context) error {
	return render(c, http.StatusOK, "listings/new", view.Page{Title: "Post a job", Data: listingForm{}})
}

// Create handles POST /addListing.
func (h *ListingHandler) Create(c echo.Context) error {
	u, err := actor(c)
	if err != nil {
		return err
	}

	var form listingForm
	if err := c.Bind(&form); err != nil {
		return h.newFailed(c, form, "Invalid form")
	}
	if err := c.Validate(&form); err != nil {
		return h.newFailed(c, form, err.Error())
	}

	l, err := h.service.Create(c.Request().Context(), u, toListingInput(form))
	if err != nil {
		return err
	}

	metrics.ListingsCreatedTotal.WithLabelValues(string(l.WorkType)).Inc()
	return seeOther(c, "/")
}

// Show handles GET /listings/:id.
func (h *ListingHandler) Show(c echo.Context) error {
	data, err := showPage(c, h.service, c.Param("id"))
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "listings/show", view.Page{Title: data.Listing.Title, Data: data})
}

// Edit renders the edit form for the owner.
func (h *ListingHandler) Edit(c echo.Context) error {
	u, err := actor(c)
	if err != nil {
		return err
	}

	l, err := h.service.GetOwned(c.Request().Context(), u, c.Param("id"))
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "listings/edit", view.Page{
		Title: "Edit job",
		Data:  editData{ID: l.ID, Form: fromListing(l), Active: l.IsActive},
	})
}

// Update handles PUT /listings/:id. Empty fields keep their stored value.
// Ownership is settled before the form is looked at, so a stranger gets
// 403 or 404 whatever they post.
func (h *ListingHandler) Update(c echo.Context) error {
	u, err := actor(c)
	if err != nil {
		return err
	}
	id := c.Param("id")
	if _, err := h.service.GetOwned(c.Request().Context(), u, id); err != nil {
		return err
	}

	var form listingPatchForm
	if err := c.Bind(&form); err != nil {
		return h.editFailed(c, id, form, "Invalid form")
	}
	if err := c.Validate(&form); err != nil {
		return h.editFailed(c, id, form, err.Error())
	}

	_, err = h.service.Update(c.Request().Context(), u, id, toListingPatch(form))
	if errors.Is(err, domain.ErrCapacityBelowAccepted) {
		return h.editFailed(c, id, form, "Workers required cannot be lower than the number of accepted workers")
	}
	if err != nil {
		return err
	}
	return seeOther(c, "/listings/"+id)
}

// Delete handles DELETE /listings/:id.
func (h *ListingHandler) Delete(c echo.Context) error {
	u, err := actor(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), u, c.Param("id")); err != nil {
		return err
	}
	return seeOther(c, "/")
}

// Profile handles GET /profile.
func (h *ListingHandler) Profile(c echo.Context) error {
	u, err := actor(c)
	if err != nil {
		return err
	}

	entries, err := h.service.Profile(c.Request().Context(), u)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "listings/profile", view.Page{Title: u.Username, Data: entries})
}

func (h *ListingHandler) newFailed(c echo.Context, form listingForm, msg string) error {
	return render(c, http.StatusBadRequest, "listings/new", view.Page{Title: "Post a job", Error: msg, Data: form})
}

func (h *ListingHandler) editFailed(c echo.Context, id string, form listingPatchForm, msg string) error {
	return render(c, http.StatusBadRequest, "listings/edit", view.Page{
		Title: "Edit job",
		Error: msg,
		Data:  editData{ID: id, Form: patchFormAsListing(form), Active: form.IsActive != "false"},
	})
}

// showPage loads the data of the listing page as seen by the caller.
func showPage(c echo.Context, service ports.ListingService, id string) (*showData, error) {
	detail, err := service.Get(c.Request().Context(), id)
	if err != nil {
		return nil, err
	}

	data := &showData{ListingDetail: detail}
	u, _ := actor(c)
	if u == nil {
		return data, nil
	}
	data.IsOwner = detail.Listing.OwnedBy(u.ID)
	data.CanApply = u.IsWorker()
	if app, ok := detail.Listing.ApplicationOf(u.ID); ok {
		data.Applied = app.Status
	}
	return data, nil
}
