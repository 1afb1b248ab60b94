package ports

import (
	"context"
	"time"

	"github.com/workerhub/jobboard/internal/core/domain"
)

// Session is an issued, signed session token.
type Session struct {
	Token     string
	ID        string
	UserID    string
	ExpiresAt time.Time
}

type AuthService interface {
	Signup(ctx context.Context, username, password, role string) (*Session, *domain.User, error)
	Login(ctx context.Context, username, password string) (*Session, *domain.User, error)
	// Authenticate verifies a session token and resolves its user.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	Logout(ctx context.Context, token string) error
}
