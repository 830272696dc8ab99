package client

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNoSession    = errors.New("no active session")
	ErrNotLoggedIn  = errors.New("admin password not set")
)

// APIError is a validation or business-rule rejection reported by the
// backend under the "error" field, e.g. an illegal phase transition.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
}

// Category groups errors by the recovery the UI offers.
type Category int

const (
	CategoryNone Category = iota
	// CategoryUnauthorized forces logout and re-login.
	CategoryUnauthorized
	// CategoryBusiness is shown inline.
	CategoryBusiness
	// CategoryUnavailable gets a generic "try again" prompt.
	CategoryUnavailable
)

func (c Category) String() string {
	switch c {
	case CategoryNone:
		return "none"
	case CategoryUnauthorized:
		return "unauthorized"
	case CategoryBusiness:
		return "business"
	default:
		return "unavailable"
	}
}

// Classify maps err onto a Category. Anything that is neither an
// authorization failure nor an APIError is treated as a transport problem.
func Classify(err error) Category {
	if err == nil {
		return CategoryNone
	}
	if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrNotLoggedIn) {
		return CategoryUnauthorized
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return CategoryBusiness
	}
	return CategoryUnavailable
}
