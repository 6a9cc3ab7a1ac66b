package models

// User is the identity resolved from a caller's session. It is owned by the
// identity provider and never stored by this service.
type User struct {
	ID    string  `json:"id"`
	Email string  `json:"email"`
	Name  string  `json:"name"`
	Image *string `json:"image,omitempty"`
}
