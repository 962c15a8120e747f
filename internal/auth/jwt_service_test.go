package auth

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestJWTService_IssueAndVerify(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	token, issued, err := svc.Issue("a@b.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Len(t, strings.Split(token, "."), 3)
	assert.NotEmpty(t, issued.ID)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", claims.Subject)
	assert.Equal(t, issued.ID, claims.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.Expiry(), 2*time.Second)
}

func TestJWTService_UniqueTokenIDs(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	_, first, err := svc.Issue("a@b.com")
	require.NoError(t, err)
	_, second, err := svc.Issue("a@b.com")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestJWTService_NoExpiry(t *testing.T) {
	svc := NewJWTService("test-secret", 0)

	token, issued, err := svc.Issue("a@b.com")
	require.NoError(t, err)
	assert.Nil(t, issued.ExpiresAt)

	svc.now = fixedClock(time.Now().Add(10 * 365 * 24 * time.Hour))
	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.True(t, claims.Expiry().IsZero())
}

func TestJWTService_Expired(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	issuedAt := time.Now().Add(-2 * time.Hour)
	svc.now = fixedClock(issuedAt)

	token, _, err := svc.Issue("a@b.com")
	require.NoError(t, err)

	// Still valid inside the window.
	svc.now = fixedClock(issuedAt.Add(59 * time.Minute))
	_, err = svc.Verify(token)
	require.NoError(t, err)

	svc.now = fixedClock(issuedAt.Add(61 * time.Minute))
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_WrongSecret(t *testing.T) {
	token, _, err := NewJWTService("correct-secret", time.Hour).Issue("a@b.com")
	require.NoError(t, err)

	_, err = NewJWTService("wrong-secret", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_TamperedSignature(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	token, _, err := svc.Issue("a@b.com")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	require.NoError(t, err)

	for i := range sig {
		tampered := make([]byte, len(sig))
		copy(tampered, sig)
		tampered[i] ^= 0x01
		forged := parts[0] + "." + parts[1] + "." + base64.RawURLEncoding.EncodeToString(tampered)

		_, err := svc.Verify(forged)
		assert.ErrorIs(t, err, ErrInvalidToken, "byte %d", i)
	}
}

func TestJWTService_TamperedSignatureEncoding(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	token, _, err := svc.Issue("a@b.com")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	sig := []byte(parts[2])
	for i := range sig {
		tampered := make([]byte, len(sig))
		copy(tampered, sig)
		if tampered[i] == 'A' {
			tampered[i] = 'B'
		} else {
			tampered[i] = 'A'
		}
		forged := parts[0] + "." + parts[1] + "." + string(tampered)

		_, err := svc.Verify(forged)
		assert.ErrorIs(t, err, ErrInvalidToken, "char %d", i)
	}
}

func TestJWTService_Malformed(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	for _, token := range []string{"", "garbage", "a.b.c", "a.b"} {
		_, err := svc.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", token)
	}
}

func TestJWTService_RejectsOtherAlgorithms(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	claims := jwt.RegisteredClaims{
		Subject:   "a@b.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.Verify(none)
	assert.ErrorIs(t, err, ErrInvalidToken)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = svc.Verify(hs512)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RequiresSubject(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	token, _, err := svc.Issue("")
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
