package auth

import (
	"net/http"
	"strings"

	"github.com/rpupo63/portfolio-blog-backend/models"
	"github.com/rs/zerolog/log"
)

// IdentityProvider resolves the caller of a request. A request without
// credentials yields (nil, nil).
type IdentityProvider interface {
	CurrentUser(r *http.Request) (*models.User, error)
}

// Session is the caller's identity for one request. The zero value is an
// anonymous caller.
type Session struct {
	User *models.User
}

func (s Session) Authenticated() bool {
	return s.User != nil
}

// SessionFromRequest never fails: a provider error leaves the caller anonymous.
func SessionFromRequest(provider IdentityProvider, r *http.Request) Session {
	if provider == nil {
		return Session{}
	}
	user, err := provider.CurrentUser(r)
	if err != nil {
		log.Debug().Err(err).Str("path", r.URL.Path).Msg("Treating caller as anonymous")
		return Session{}
	}
	return Session{User: user}
}

// bearerOrCookie returns the bearer token of the Authorization header, falling
// back to the named cookie.
func bearerOrCookie(r *http.Request, cookieName string) string {
	if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	if cookie, err := r.Cookie(cookieName); err == nil {
		return cookie.Value
	}
	return ""
}
