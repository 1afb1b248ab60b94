package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/workerhub/jobboard/internal/api/metrics"
	"github.com/workerhub/jobboard/internal/api/view"
	"github.com/workerhub/jobboard/internal/core/domain"
	"github.com/workerhub/jobboard/internal/core/ports"
)

// ApplicationHandler serves apply, the applicants page and accept/reject.
type ApplicationHandler struct {
	applications ports.ApplicationService
	listings     ports.ListingService
	log          zerolog.Logger
}

func NewApplicationHandler(applications ports.ApplicationService, listings ports.ListingService, log zerolog.Logger) *ApplicationHandler {
	return &ApplicationHandler{applications: applications, listings: listings, log: log}
}

// Apply handles POST /listings/:id/apply.
func (h *ApplicationHandler) Apply(c echo.Context) error {
	u, err := actor(c)
	if err != nil {
		return err
	}
	id := c.Param("id")

	err = h.applications.Apply(c.Request().Context(), u, id)
	metrics.ApplicationActionsTotal.WithLabelValues("apply", actionResult(err)).Inc()
	switch {
	case err == nil:
		return seeOther(c, "/listings/"+id)
	case errors.Is(err, domain.ErrAlreadyApplied):
		return h.showWithError(c, id, "You have already applied to this listing")
	case errors.Is(err, domain.ErrListingClosed):
		return h.showWithError(c, id, "This listing is no longer accepting applications")
	}
	return err
}

// Applicants handles GET /listings/:id/applicants.
func (h *ApplicationHandler) Applicants(c echo.Context) error {
	data, err := h.applicantsPage(c, c.Param("id"))
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "listings/applicants", view.Page{Title: "Applicants", Data: data})
}

// Accept handles POST /listings/:jobId/applicants/:workerId/accept.
func (h *ApplicationHandler) Accept(c echo.Context) error {
	return h.transition(c, "accept", h.applications.Accept)
}

// Reject handles POST /listings/:jobId/applicants/:workerId/reject.
func (h *ApplicationHandler) Reject(c echo.Context) error {
	return h.transition(c, "reject", h.applications.Reject)
}

type transitionFunc func(ctx context.Context, actor *domain.User, listingID, workerID string) error

func (h *ApplicationHandler) transition(c echo.Context, action string, fn transitionFunc) error {
	u, err := actor(c)
	if err != nil {
		return err
	}
	listingID, workerID := c.Param("jobId"), c.Param("workerId")

	err = fn(c.Request().Context(), u, listingID, workerID)
	metrics.ApplicationActionsTotal.WithLabelValues(action, actionResult(err)).Inc()
	if errors.Is(err, domain.ErrWorkerLimitReached) {
		data, loadErr := h.applicantsPage(c, listingID)
		if loadErr != nil {
			return loadErr
		}
		return render(c, http.StatusConflict, "listings/applicants", view.Page{
			Title: "Applicants",
			Error: "Worker limit reached",
			Data:  data,
		})
	}
	if err != nil {
		return err
	}

	h.log.Info().
		Str("listing_id", listingID).
		Str("worker_id", workerID).
		Str("action", action).
		Msg("application updated")
	return seeOther(c, "/listings/"+listingID+"/applicants")
}

func (h *ApplicationHandler) applicantsPage(c echo.Context, listingID string) (*applicantsData, error) {
	v, err := h.applications.Applicants(c.Request().Context(), listingID)
	if err != nil {
		return nil, err
	}
	data := &applicantsData{ApplicantsView: v}
	if u, _ := actor(c); u != nil {
		data.IsOwner = v.Listing.OwnedBy(u.ID)
	}
	return data, nil
}

func (h *ApplicationHandler) showWithError(c echo.Context, id, msg string) error {
	data, err := showPage(c, h.listings, id)
	if err != nil {
		return err
	}
	return render(c, http.StatusBadRequest, "listings/show", view.Page{
		Title: data.Listing.Title,
		Error: msg,
		Data:  data,
	})
}

// actionResult is the metrics label for the outcome of an application action.
func actionResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrAlreadyApplied):
		return "already_applied"
	case errors.Is(err, domain.ErrWorkerLimitReached):
		return "limit_reached"
	case errors.Is(err, domain.ErrListingClosed):
		return "closed"
	case errors.Is(err, domain.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, domain.ErrListingNotFound), errors.Is(err, domain.ErrApplicationNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrApplicationConflict):
		return "conflict"
	}
	return "error"
}
