// Package vault seals seller session tokens at rest with AES-256-GCM.
//
// Ciphertext layout: "v1:" + base64(nonce || sealed). The nonce is fresh for
// every call, so a value can be opened with nothing but the key.
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"

	"github.com/pinegate/pinegate/internal/shared/errors"
)

const (
	versionPrefix = "v1:"
	keySize       = 32
	hkdfInfo      = "pinegate session vault v1"
)

// Vault encrypts and decrypts session tokens with one injected key.
type Vault struct {
	aead cipher.AEAD
}

// New builds a vault from raw 32-byte key material.
func New(key []byte) (*Vault, error) {
	if len(key) != keySize {
		return nil, fmt.Errorf("vault: key must be %d bytes, got %d", keySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("vault: create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("vault: create gcm: %w", err)
	}
	return &Vault{aead: aead}, nil
}

// NewFromSecret accepts the configured secret. A base64 encoded 32-byte key is
// used as is; any other secret is stretched with HKDF-SHA256.
func NewFromSecret(secret string) (*Vault, error) {
	key, err := DeriveKey(secret)
	if err != nil {
		return nil, err
	}
	return New(key)
}

// DeriveKey turns the configured secret into AES-256 key material.
func DeriveKey(secret string) ([]byte, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, fmt.Errorf("vault: key material is required")
	}
	if raw, err := base64.StdEncoding.DecodeString(secret); err == nil && len(raw) == keySize {
		return raw, nil
	}

	key := make([]byte, keySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(hkdfInfo)), key); err != nil {
		return nil, fmt.Errorf("vault: derive key: %w", err)
	}
	return key, nil
}

// Encrypt seals plaintext. The empty string is a valid plaintext.
func (v *Vault) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, v.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("vault: nonce generation failed: %w", err)
	}

	sealed := v.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return versionPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a value produced by Encrypt. Malformed input and tag mismatches
// fail with a credential error; garbage is never returned.
func (v *Vault) Decrypt(ciphertext string) (string, error) {
	payload, ok := strings.CutPrefix(ciphertext, versionPrefix)
	if !ok {
		return "", errors.NewCredentialError("failed to decrypt session credential", "unknown ciphertext format")
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", errors.NewCredentialError("failed to decrypt session credential", "ciphertext is not valid base64")
	}

	nonceSize := v.aead.NonceSize()
	if len(raw) < nonceSize+v.aead.Overhead() {
		return "", errors.NewCredentialError("failed to decrypt session credential", "ciphertext is truncated")
	}

	plaintext, err := v.aead.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return "", errors.NewCredentialError("failed to decrypt session credential", "authentication failed")
	}
	return string(plaintext), nil
}

// IsSealed reports whether value has the shape of vault ciphertext.
// It does not authenticate the value.
func (v *Vault) IsSealed(value string) bool {
	payload, ok := strings.CutPrefix(value, versionPrefix)
	if !ok {
		return false
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	return err == nil && len(raw) >= v.aead.NonceSize()+v.aead.Overhead()
}
