package auth

import (
	"fmt"
	"strings"

	"github.com/rpupo63/portfolio-blog-backend/config"
)

// NewProvider picks the identity provider named by AUTH_PROVIDER.
func NewProvider(c map[string]string) (IdentityProvider, error) {
	switch name := strings.ToLower(config.GetString(c, "AUTH_PROVIDER", "jwt")); name {
	case "jwt":
		p, err := NewJWTProvider(config.GetString(c, "JWT_SECRET", ""), config.GetString(c, "JWT_ISSUER", ""))
		if err != nil {
			return nil, err
		}
		return p, nil
	case "descope":
		p, err := NewDescopeProvider(config.GetString(c, "DESCOPE_PROJECT_ID", ""))
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unsupported AUTH_PROVIDER %q", name)
	}
}
