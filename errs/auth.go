package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Authentication & authorization errors
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrUnauthorized    = errors.New("not authorized")
	ErrInvalidToken    = errors.New("invalid access token")
)

// Configuration errors
var (
	ErrConfigMissing = errors.New("configuration missing")
)

// Blog errors
var (
	ErrSlugGenerationFailed = errors.New("failed to generate a unique slug")
)

var (
	Unauthenticated = &ApiErr{StatusCode: http.StatusUnauthorized, err: ErrUnauthenticated}
	Unauthorized    = &ApiErr{StatusCode: http.StatusForbidden, err: ErrUnauthorized}
)

func NewInvalidTokenError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrInvalidToken,
		Details:    "Invalid access token",
		Field:      "authorization",
		Cause:      cause,
	}
}

// NewConfigError reports a server-side setting that must be present for the
// request to be served. It always maps to a 500: the caller cannot fix it.
func NewConfigError(configName string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrConfigMissing,
		Details:    fmt.Sprintf("Server misconfigured: %s is not set", configName),
		Field:      "configuration",
	}
}

func NewSlugGenerationError(baseSlug string, attempts int) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		err:        ErrSlugGenerationFailed,
		Details:    fmt.Sprintf("no free slug for %q after %d attempts", baseSlug, attempts),
		Field:      "slug",
	}
}

func IsUnauthenticated(err error) bool {
	return errors.Is(err, ErrUnauthenticated)
}

func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfigMissing)
}

func IsSlugGenerationError(err error) bool {
	return errors.Is(err, ErrSlugGenerationFailed)
}
