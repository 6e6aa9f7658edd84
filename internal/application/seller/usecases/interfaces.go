package usecases

import (
	"context"

	"github.com/pinegate/pinegate/internal/domain/seller"
)

// CredentialVault seals and opens session tokens.
type CredentialVault interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
	IsSealed(value string) bool
}

// SessionChecker asks the platform whether a session is still signed in.
// err is reserved for transport failures.
type SessionChecker interface {
	CheckSession(ctx context.Context, sess seller.Session) (ok bool, reason string, err error)
}
