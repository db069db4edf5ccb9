// Package auth resolves the calling actor from an HTTP request. Two
// providers exist, bearer tokens and signed session cookies; a deployment
// runs exactly one.
package auth

import (
	"context"
	"net/http"

	"helpdesk/internal/domain/access"
	"helpdesk/internal/domain/user"
	"helpdesk/internal/shared/errors"
)

type Provider interface {
	Name() string
	// Resolve returns the actor behind r or an Unauthorized AppError.
	Resolve(ctx context.Context, r *http.Request) (*access.Actor, error)
	// Login establishes a credential for userID. The returned string is the
	// bearer token, empty for cookie sessions.
	Login(ctx context.Context, w http.ResponseWriter, userID uint) (string, error)
	Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

// UserFinder loads the current role of a user; roles are never trusted from
// the credential itself.
type UserFinder interface {
	GetByID(ctx context.Context, id uint) (*user.User, error)
}

func actorFor(ctx context.Context, users UserFinder, userID uint) (*access.Actor, error) {
	u, err := users.GetByID(ctx, userID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return nil, errors.NewUnauthorizedError("User not found")
		}
		return nil, err
	}
	return &access.Actor{ID: u.ID(), Role: u.Role()}, nil
}
