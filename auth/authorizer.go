package auth

import (
	"strings"

	"github.com/rpupo63/portfolio-blog-backend/errs"
	"github.com/rpupo63/portfolio-blog-backend/models"
)

// Authorizer decides whether a session belongs to the site admin. There is
// exactly one admin, identified by email.
type Authorizer struct {
	adminEmail string
}

func NewAuthorizer(adminEmail string) Authorizer {
	return Authorizer{adminEmail: strings.TrimSpace(adminEmail)}
}

// RequireAdmin returns the admin user or the reason the session is not one.
// The checks run in order: authentication, configuration, email match.
func (a Authorizer) RequireAdmin(sess Session) (*models.User, error) {
	if !sess.Authenticated() {
		return nil, errs.Unauthenticated
	}
	if a.adminEmail == "" {
		return nil, errs.NewConfigError("ADMIN_EMAIL")
	}
	if normalizeEmail(sess.User.Email) != normalizeEmail(a.adminEmail) {
		return nil, errs.Unauthorized
	}
	return sess.User, nil
}

func (a Authorizer) IsAdmin(sess Session) bool {
	_, err := a.RequireAdmin(sess)
	return err == nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
