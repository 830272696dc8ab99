// Package common defines constants and helpers shared by the client layers.
package common

const (
	// AuthorizationHeader carries the admin password as a bearer value.
	AuthorizationHeader = "Authorization"

	// RequestIDHeader tags every outbound request for backend log correlation.
	RequestIDHeader = "X-Request-ID"

	// UnauthorizedMessage is the backend's error text that forces re-login.
	UnauthorizedMessage = "Unauthorized"
)

// WipeByteArray zeroes b in place. Used for passwords read from the terminal.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// BearerValue formats a credential for the Authorization header.
func BearerValue(secret string) string {
	return "Bearer " + secret
}
