package vault

import (
	"crypto/rand"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinegate/pinegate/internal/shared/errors"
)

func newTestVault(t *testing.T) *Vault {
	t.Helper()
	v, err := NewFromSecret("unit-test-secret")
	require.NoError(t, err)
	return v
}

func TestVault_RoundTrip(t *testing.T) {
	v := newTestVault(t)

	inputs := []string{
		"",
		"abc123sessionid",
		strings.Repeat("x", 4096),
		"ünïcødé ✓ 会话",
		"line\nbreaks\tand\x00nul",
	}

	for _, in := range inputs {
		ct, err := v.Encrypt(in)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(ct, "v1:"))
		assert.True(t, v.IsSealed(ct))
		if in != "" {
			assert.NotContains(t, ct, in)
		}

		out, err := v.Decrypt(ct)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	}
}

func TestVault_FreshNoncePerCall(t *testing.T) {
	v := newTestVault(t)
	a, err := v.Encrypt("same")
	require.NoError(t, err)
	b, err := v.Encrypt("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVault_TamperedCiphertextFails(t *testing.T) {
	v := newTestVault(t)
	ct, err := v.Encrypt("session-token")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(ct, "v1:"))
	require.NoError(t, err)

	for i := range raw {
		mutated := make([]byte, len(raw))
		copy(mutated, raw)
		mutated[i] ^= 0x01

		out, err := v.Decrypt("v1:" + base64.StdEncoding.EncodeToString(mutated))
		require.Error(t, err, "byte %d", i)
		assert.Empty(t, out)
		assert.True(t, errors.IsCredentialError(err))
	}
}

func TestVault_MalformedInput(t *testing.T) {
	v := newTestVault(t)

	for _, in := range []string{"", "plaintext", "v1:", "v1:!!notbase64!!", "v1:" + base64.StdEncoding.EncodeToString([]byte("short")), "v2:abcd"} {
		_, err := v.Decrypt(in)
		assert.True(t, errors.IsCredentialError(err), "input %q", in)
		assert.False(t, v.IsSealed(in), "input %q", in)
	}
}

func TestVault_WrongKeyFails(t *testing.T) {
	a := newTestVault(t)
	b, err := NewFromSecret("another-secret")
	require.NoError(t, err)

	ct, err := a.Encrypt("session-token")
	require.NoError(t, err)

	_, err = b.Decrypt(ct)
	assert.True(t, errors.IsCredentialError(err))
}

func TestDeriveKey(t *testing.T) {
	raw := make([]byte, 32)
	_, err := rand.Read(raw)
	require.NoError(t, err)

	key, err := DeriveKey(base64.StdEncoding.EncodeToString(raw))
	require.NoError(t, err)
	assert.Equal(t, raw, key, "base64 32-byte keys are used verbatim")

	k1, err := DeriveKey("passphrase")
	require.NoError(t, err)
	k2, err := DeriveKey("passphrase")
	require.NoError(t, err)
	assert.Len(t, k1, 32)
	assert.Equal(t, k1, k2)

	_, err = DeriveKey("   ")
	assert.Error(t, err)

	_, err = New([]byte("too short"))
	assert.Error(t, err)
}
