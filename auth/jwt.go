package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rpupo63/portfolio-blog-backend/errs"
	"github.com/rpupo63/portfolio-blog-backend/models"
)

// SessionCookie is read when a request carries no Authorization header.
const SessionCookie = "session"

type Claims struct {
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// JWTProvider resolves callers from HS256 tokens.
type JWTProvider struct {
	secret []byte
	issuer string
}

func NewJWTProvider(secret, issuer string) (JWTProvider, error) {
	if secret == "" {
		return JWTProvider{}, errs.NewConfigError("JWT_SECRET")
	}
	return JWTProvider{secret: []byte(secret), issuer: issuer}, nil
}

func (p JWTProvider) CurrentUser(r *http.Request) (*models.User, error) {
	raw := bearerOrCookie(r, SessionCookie)
	if raw == "" {
		return nil, nil
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if p.issuer != "" {
		opts = append(opts, jwt.WithIssuer(p.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return p.secret, nil
	}, opts...)
	if err != nil {
		return nil, errs.NewInvalidTokenError(err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, errs.NewInvalidTokenError(errors.New("token has no subject"))
	}

	user := &models.User{
		ID:    claims.Subject,
		Email: claims.Email,
		Name:  claims.Name,
	}
	if claims.Picture != "" {
		picture := claims.Picture
		user.Image = &picture
	}
	return user, nil
}

// IssueToken signs a token for user that JWTProvider will accept until ttl
// has elapsed.
func IssueToken(secret, issuer string, user models.User, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errs.NewConfigError("JWT_SECRET")
	}
	if user.ID == "" {
		return "", errs.NewMissingRequiredFieldError("sub")
	}

	now := time.Now()
	claims := Claims{
		Email: user.Email,
		Name:  user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if user.Image != nil {
		claims.Picture = *user.Image
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}
