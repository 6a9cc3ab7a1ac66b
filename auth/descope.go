package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/descope/go-sdk/descope"
	"github.com/descope/go-sdk/descope/client"
	"github.com/rpupo63/portfolio-blog-backend/errs"
	"github.com/rpupo63/portfolio-blog-backend/models"
)

const descopeSessionCookie = "DS"

// SessionValidator is the part of the Descope auth API used here.
type SessionValidator interface {
	ValidateSessionWithToken(ctx context.Context, sessionToken string) (bool, *descope.Token, error)
}

// DescopeProvider resolves callers from Descope session tokens. The user's
// email and name come from the token's custom claims.
type DescopeProvider struct {
	validator SessionValidator
}

func NewDescopeProvider(projectID string) (DescopeProvider, error) {
	if projectID == "" {
		return DescopeProvider{}, errs.NewConfigError("DESCOPE_PROJECT_ID")
	}
	descopeClient, err := client.NewWithConfig(&client.Config{ProjectID: projectID})
	if err != nil {
		return DescopeProvider{}, fmt.Errorf("creating descope client: %w", err)
	}
	return DescopeProvider{validator: descopeClient.Auth}, nil
}

func NewDescopeProviderWithValidator(v SessionValidator) DescopeProvider {
	return DescopeProvider{validator: v}
}

func (p DescopeProvider) CurrentUser(r *http.Request) (*models.User, error) {
	raw := bearerOrCookie(r, descopeSessionCookie)
	if raw == "" {
		return nil, nil
	}

	ok, token, err := p.validator.ValidateSessionWithToken(r.Context(), raw)
	if err != nil {
		return nil, errs.NewInvalidTokenError(err)
	}
	if !ok || token == nil {
		return nil, errs.NewInvalidTokenError(fmt.Errorf("session rejected"))
	}

	user := &models.User{
		ID:    token.ID,
		Email: claimString(token.Claims, "email"),
		Name:  claimString(token.Claims, "name"),
	}
	if picture := claimString(token.Claims, "picture"); picture != "" {
		user.Image = &picture
	}
	return user, nil
}

func claimString(claims map[string]interface{}, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
