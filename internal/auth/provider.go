// Package auth supplies the bearer credential attached to every store call.
package auth

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

var authLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	authLogger = l
}

// ErrNoCredential is returned when no token has been captured, or after the
// user disconnected.
var ErrNoCredential = errors.New("auth: no credential")

// CredentialProvider hands out the bearer token for remote store calls. An
// invalid credential surfaces from the store as an unauthorized outcome; the
// provider only captures, verifies and releases the token.
type CredentialProvider interface {
	// Token returns the current bearer credential.
	Token(ctx context.Context) (string, error)

	// Verify performs a cheap authenticated round trip to check that the
	// credential is still accepted by the remote.
	Verify(ctx context.Context) error

	// Disconnect drops the credential, ending the editing session.
	Disconnect()
}
