package security

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/scrypt"
)

func TestPasswordHasher_RoundTrip(t *testing.T) {
	h := NewPasswordHasher()

	hash, err := h.Hash("correct horse")
	require.NoError(t, err)
	parts := strings.Split(hash, "$")
	require.Len(t, parts, 3)
	assert.Equal(t, "scrypt", parts[0])

	assert.NoError(t, h.Compare(hash, "correct horse"))
	assert.ErrorIs(t, h.Compare(hash, "wrong horse"), ErrPasswordMismatch)

	other, err := h.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other)
}

func TestPasswordHasher_KnownVector(t *testing.T) {
	salt := []byte("0123456789abcdef")
	derived, err := scrypt.Key([]byte("pw12345678"), salt, 16384, 8, 1, 64)
	require.NoError(t, err)
	stored := "scrypt$" + base64.StdEncoding.EncodeToString(salt) + "$" + base64.StdEncoding.EncodeToString(derived)

	assert.NoError(t, NewPasswordHasher().Compare(stored, "pw12345678"))
}

func TestPasswordHasher_LegacyBcrypt(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("secret-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	h := NewPasswordHasher()
	assert.NoError(t, h.Compare(string(legacy), "secret-pass"))
	assert.ErrorIs(t, h.Compare(string(legacy), "nope"), ErrPasswordMismatch)
}

func TestPasswordHasher_RejectsPlaintextAndGarbage(t *testing.T) {
	h := NewPasswordHasher()
	for _, stored := range []string{"plain-password", "", "scrypt$$", "scrypt$!!$!!", "md5$a$b"} {
		assert.Error(t, h.Compare(stored, stored), stored)
	}
}

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("s3cret")

	tok, err := m.Generate(7, "sid-1", time.Hour)
	require.NoError(t, err)

	uid, sid, err := m.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, uint(7), uid)
	assert.Equal(t, "sid-1", sid)
}

func TestTokenManager_Rejects(t *testing.T) {
	m := NewTokenManager("s3cret")
	tok, err := m.Generate(7, "sid-1", time.Hour)
	require.NoError(t, err)

	_, _, err = NewTokenManager("other").Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, _, err = m.Parse(tok + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, _, err = m.Parse("")
	assert.ErrorIs(t, err, ErrInvalidToken)

	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, _, err = m.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
