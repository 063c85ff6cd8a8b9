// Package auth provides account registration, credential checks and session
// tokens for the ledger RPCs.
package auth

import (
	"context"

	"github.com/mmynk/splitsmart/internal/models"
)

// Authenticator registers accounts and verifies credentials.
// Implementations decide the credential format (password, OAuth token, ...).
type Authenticator interface {
	// Register creates a new account. Returns ErrEmailExists if the email is
	// taken or a credential error if the credential is rejected.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate returns the account matching the credentials, or
	// ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks a credential against the implementation's rules.
	ValidateCredential(credential string) error
}

// Session identifies the caller of an RPC. It is carried explicitly in the
// request context rather than held in any process-wide state.
type Session struct {
	UserID      string
	Email       string
	DisplayName string
}
