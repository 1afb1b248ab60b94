package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/workerhub/jobboard/internal/core/domain"
	"github.com/workerhub/jobboard/internal/core/ports"
)

// --- users ---

type stubAuthRepo struct {
	users map[string]*domain.User // by id
	seq   int
}

func newStubAuthRepo() *stubAuthRepo {
	return &stubAuthRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubAuthRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == user.Username {
			return nil, domain.ErrUserExists
		}
	}
	copy := cloneUser(user)
	if copy.ID == "" {
		r.seq++
		copy.ID = fmt.Sprintf("u%d", r.seq)
	}
	r.users[copy.ID] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubAuthRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubAuthRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubAuthRepo) FindByIDs(_ context.Context, ids []string) (map[string]*domain.User, error) {
	out := make(map[string]*domain.User, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out[id] = cloneUser(u)
		}
	}
	return out, nil
}

func (r *stubAuthRepo) add(id, username string, role domain.Role) *domain.User {
	u := &domain.User{ID: id, Username: username, Role: role}
	r.users[id] = u
	return cloneUser(u)
}

// --- session revocation ---

type stubRevoker struct {
	revoked map[string]time.Time
	err     error
}

func newStubRevoker() *stubRevoker {
	return &stubRevoker{revoked: make(map[string]time.Time)}
}

func (r *stubRevoker) Revoke(_ context.Context, sessionID string, until time.Time) error {
	if r.err != nil {
		return r.err
	}
	r.revoked[sessionID] = until
	return nil
}

func (r *stubRevoker) IsRevoked(_ context.Context, sessionID string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	_, ok := r.revoked[sessionID]
	return ok, nil
}

// --- listings ---

// stubListingRepo keeps listings in memory and applies the same guards as
// the MongoDB conditional writes.
type stubListingRepo struct {
	mu       sync.Mutex
	listings map[string]*domain.Listing
	seq      int

	// beforeWrite runs ahead of every conditional write so a test can slip
	// in a competing change between the service's read and its write.
	beforeWrite func()
}

func newStubListingRepo() *stubListingRepo {
	return &stubListingRepo{listings: make(map[string]*domain.Listing)}
}

func cloneListing(l *domain.Listing) *domain.Listing {
	c := *l
	c.Applications = append([]domain.Application(nil), l.Applications...)
	return &c
}

func (r *stubListingRepo) Create(_ context.Context, l *domain.Listing) (*domain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := cloneListing(l)
	if c.ID == "" {
		r.seq++
		c.ID = fmt.Sprintf("l%d", r.seq)
	}
	r.listings[c.ID] = c
	return cloneListing(c), nil
}

func (r *stubListingRepo) FindByID(_ context.Context, id string) (*domain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	return cloneListing(l), nil
}

func (r *stubListingRepo) List(_ context.Context, f ports.ListingFilter) ([]*domain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Listing
	for _, l := range r.listings {
		if f.PostedBy != "" && l.PostedBy != f.PostedBy {
			continue
		}
		if f.Applicant != "" {
			if _, ok := l.ApplicationOf(f.Applicant); !ok {
				continue
			}
		}
		if f.City != "" && l.City != f.City {
			continue
		}
		if f.WorkType != "" && l.WorkType != f.WorkType {
			continue
		}
		if f.ActiveOnly && !l.IsActive {
			continue
		}
		out = append(out, cloneListing(l))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubListingRepo) UpdateDetails(_ context.Context, l *domain.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.listings[l.ID]
	if !ok {
		return domain.ErrListingNotFound
	}
	if l.WorkersRequired < stored.AcceptedCount() {
		return domain.ErrCapacityBelowAccepted
	}
	c := cloneListing(l)
	c.Applications = stored.Applications
	r.listings[l.ID] = c
	return nil
}

func (r *stubListingRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.listings[id]; !ok {
		return domain.ErrListingNotFound
	}
	delete(r.listings, id)
	return nil
}

func (r *stubListingRepo) AddApplication(_ context.Context, listingID string, app domain.Application) (bool, error) {
	if r.beforeWrite != nil {
		r.beforeWrite()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[listingID]
	if !ok || !l.IsActive {
		return false, nil
	}
	if _, dup := l.ApplicationOf(app.Applicant); dup {
		return false, nil
	}
	l.Applications = append(l.Applications, app)
	return true, nil
}

func (r *stubListingRepo) SetApplicationStatus(_ context.Context, listingID, workerID string, from, to domain.ApplicationStatus) (bool, error) {
	if r.beforeWrite != nil {
		r.beforeWrite()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[listingID]
	if !ok {
		return false, nil
	}
	app, ok := l.ApplicationOf(workerID)
	if !ok || app.Status != from {
		return false, nil
	}
	if to == domain.StatusAccepted && l.AcceptedCount() >= l.WorkersRequired {
		return false, nil
	}
	app.Status = to
	return true, nil
}

// put stores l as is, bypassing Create.
func (r *stubListingRepo) put(l *domain.Listing) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listings[l.ID] = cloneListing(l)
}

func (r *stubListingRepo) get(id string) *domain.Listing {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.listings[id]; ok {
		return cloneListing(l)
	}
	return nil
}

// --- events ---

type stubEventRepo struct {
	mu     sync.Mutex
	events []*domain.ApplicationEvent
	err    error
}

func (r *stubEventRepo) InsertEvent(_ context.Context, e *domain.ApplicationEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, e)
	return nil
}

var errBoom = errors.New("boom")
