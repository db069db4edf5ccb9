package auth

import (
	"context"
	"net/http"
	"strings"

	"helpdesk/internal/domain/access"
	"helpdesk/internal/infrastructure/token"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
)

const ProviderBearer = "token"

type BearerTokenProvider struct {
	tokens token.Store
	users  UserFinder
	logger logger.Interface
}

func NewBearerTokenProvider(tokens token.Store, users UserFinder, log logger.Interface) *BearerTokenProvider {
	return &BearerTokenProvider{tokens: tokens, users: users, logger: log}
}

func (p *BearerTokenProvider) Name() string { return ProviderBearer }

// BearerToken extracts the token from "Authorization: Bearer <token>".
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, value, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(value)
}

func (p *BearerTokenProvider) Resolve(ctx context.Context, r *http.Request) (*access.Actor, error) {
	tok := BearerToken(r)
	if tok == "" {
		return nil, errors.NewUnauthorizedError("Authentication required")
	}

	userID, ok, err := p.tokens.Validate(ctx, tok)
	if err != nil {
		p.logger.Errorw("token validation failed", "error", err)
		return nil, errors.NewInternalError("Failed to validate token")
	}
	if !ok {
		return nil, errors.NewUnauthorizedError("Invalid or expired token")
	}
	return actorFor(ctx, p.users, userID)
}

func (p *BearerTokenProvider) Login(ctx context.Context, _ http.ResponseWriter, userID uint) (string, error) {
	tok, err := p.tokens.Issue(ctx, userID)
	if err != nil {
		return "", errors.Wrap(err, "Failed to issue token")
	}
	return tok, nil
}

func (p *BearerTokenProvider) Logout(ctx context.Context, _ http.ResponseWriter, r *http.Request) error {
	tok := BearerToken(r)
	if tok == "" {
		return nil
	}
	if err := p.tokens.Revoke(ctx, tok); err != nil {
		return errors.Wrap(err, "Failed to revoke token")
	}
	return nil
}
