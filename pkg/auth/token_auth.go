package auth

import (
	"fmt"
	"net/http"

	"github.com/saltastro/gqlsession/pkg/errors"
)

// TokenAuth implements the Handler interface for servers that expect an
// "Authorization: Token <token>" header (DRF-style token auth).
type TokenAuth struct {
	Token string // The token value
}

// NewTokenAuth creates a new token authentication handler
func NewTokenAuth(token string) *TokenAuth {
	return &TokenAuth{
		Token: token,
	}
}

// ApplyAuth adds the token to the Authorization header
func (t *TokenAuth) ApplyAuth(req *http.Request) error {
	if t.Token == "" {
		return errors.WrapError(
			fmt.Errorf("token is required"),
			errors.ErrConfiguration,
			"apply token auth",
		)
	}

	req.Header.Set("Authorization", "Token "+t.Token)

	return nil
}

// String returns a string representation of this auth method for testing
func (t *TokenAuth) String() string {
	return "TokenAuth(token: [REDACTED])"
}
