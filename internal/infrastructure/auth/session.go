package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"helpdesk/internal/domain/access"
	"helpdesk/internal/shared/constants"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
)

const (
	ProviderSession   = "session"
	DefaultCookieName = "helpdesk_session"
)

type SessionClaims struct {
	jwt.RegisteredClaims
}

type SessionOptions struct {
	CookieName string
	Secret     string
	TTL        time.Duration
	Secure     bool
	Domain     string
}

// SessionProvider keeps the user id in an HS256 signed JWT carried by an
// HttpOnly cookie.
type SessionProvider struct {
	opts   SessionOptions
	users  UserFinder
	now    func() time.Time
	logger logger.Interface
}

func NewSessionProvider(opts SessionOptions, users UserFinder, log logger.Interface) (*SessionProvider, error) {
	if len(opts.Secret) < 32 {
		return nil, fmt.Errorf("session secret must be at least 32 bytes")
	}
	if opts.CookieName == "" {
		opts.CookieName = DefaultCookieName
	}
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	return &SessionProvider{opts: opts, users: users, now: time.Now, logger: log}, nil
}

func (p *SessionProvider) Name() string { return ProviderSession }

func (p *SessionProvider) sign(userID uint) (string, error) {
	now := p.now()
	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.opts.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(p.opts.Secret))
}

func (p *SessionProvider) verify(tokenString string) (uint, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(p.opts.Secret), nil
	}, jwt.WithTimeFunc(p.now))
	if err != nil {
		return 0, fmt.Errorf("failed to parse session: %w", err)
	}

	claims, ok := tok.Claims.(*SessionClaims)
	if !ok || !tok.Valid {
		return 0, fmt.Errorf("invalid session")
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid session subject")
	}
	return uint(id), nil
}

func (p *SessionProvider) Resolve(ctx context.Context, r *http.Request) (*access.Actor, error) {
	cookie, err := r.Cookie(p.opts.CookieName)
	if err != nil || cookie.Value == "" {
		return nil, errors.NewUnauthorizedError("Authentication required")
	}

	userID, err := p.verify(cookie.Value)
	if err != nil {
		p.logger.Debugw("rejected session cookie", "error", err)
		return nil, errors.NewUnauthorizedError("Invalid or expired session")
	}
	return actorFor(ctx, p.users, userID)
}

func (p *SessionProvider) Login(_ context.Context, w http.ResponseWriter, userID uint) (string, error) {
	signed, err := p.sign(userID)
	if err != nil {
		return "", errors.Wrap(err, "Failed to create session")
	}
	csrf, err := newCSRFToken()
	if err != nil {
		return "", errors.Wrap(err, "Failed to create session")
	}

	maxAge := int(p.opts.TTL / time.Second)
	http.SetCookie(w, p.cookie(p.opts.CookieName, signed, maxAge, true))
	http.SetCookie(w, p.cookie(constants.CookieCSRFToken, csrf, maxAge, false))
	return "", nil
}

func (p *SessionProvider) Logout(_ context.Context, w http.ResponseWriter, _ *http.Request) error {
	http.SetCookie(w, p.cookie(p.opts.CookieName, "", -1, true))
	http.SetCookie(w, p.cookie(constants.CookieCSRFToken, "", -1, false))
	return nil
}

func (p *SessionProvider) cookie(name, value string, maxAge int, httpOnly bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   p.opts.Domain,
		MaxAge:   maxAge,
		Secure:   p.opts.Secure,
		HttpOnly: httpOnly,
		SameSite: http.SameSiteLaxMode,
	}
}

func newCSRFToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
