package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/taskflow-be/internal/models"
)

const (
	testSecret     = "test-secret"
	testIssuer     = "taskflow-test"
	testAccessTTL  = 24 * time.Hour
	testRefreshTTL = 7 * 24 * time.Hour
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newTestManager(clock *fakeClock) *TokenManager {
	return NewTokenManager(testSecret, testIssuer, testAccessTTL, testRefreshTTL, WithClock(clock.Now))
}

var aliceClaim = IdentityClaim{UserID: "user-1", Email: "a@x.com", Role: models.RoleDeveloper}

func TestTokenRoundTrip(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	m := newTestManager(clock)

	pair, err := m.IssuePair(aliceClaim)
	require.NoError(t, err)
	assert.Equal(t, clock.t.Add(testAccessTTL), pair.ExpiresAt)
	assert.Equal(t, clock.t.Add(testRefreshTTL), pair.RefreshExpiresAt)

	got, err := m.Verify(pair.AccessToken, KindAccess)
	require.NoError(t, err)
	assert.Equal(t, aliceClaim, got)

	got, err = m.Verify(pair.RefreshToken, KindRefresh)
	require.NoError(t, err)
	assert.Equal(t, aliceClaim, got)
}

func TestTokenExpiryBoundary(t *testing.T) {
	issuedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	clock := &fakeClock{t: issuedAt}
	m := newTestManager(clock)

	token, expiresAt, err := m.IssueAccess(aliceClaim)
	require.NoError(t, err)
	require.Equal(t, issuedAt.Add(testAccessTTL), expiresAt)

	clock.t = expiresAt.Add(-time.Second)
	_, err = m.Verify(token, KindAccess)
	assert.NoError(t, err)

	clock.t = expiresAt
	_, err = m.Verify(token, KindAccess)
	assert.NoError(t, err, "still valid at the expiry instant")

	clock.t = expiresAt.Add(time.Nanosecond)
	_, err = m.Verify(token, KindAccess)
	assert.ErrorIs(t, err, ErrTokenExpired)

	clock.t = expiresAt.Add(time.Second)
	_, err = m.Verify(token, KindAccess)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenKindIsEnforced(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	m := newTestManager(clock)
	pair, err := m.IssuePair(aliceClaim)
	require.NoError(t, err)

	_, err = m.Verify(pair.RefreshToken, KindAccess)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = m.Verify(pair.AccessToken, KindRefresh)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTamperedSignatureIsRejected(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	m := newTestManager(clock)
	token, _, err := m.IssueAccess(aliceClaim)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := parts[2]
	// The final base64url character carries padding bits, so it is skipped.
	for i := 0; i < len(sig)-1; i++ {
		replacement := byte('A')
		if sig[i] == 'A' {
			replacement = 'B'
		}
		tampered := []byte(sig)
		tampered[i] = replacement
		forged := parts[0] + "." + parts[1] + "." + string(tampered)

		_, err := m.Verify(forged, KindAccess)
		require.ErrorIs(t, err, ErrTokenInvalid, "position %d accepted", i)
	}
}

func TestTokenSignedWithOtherSecretIsRejected(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	other := NewTokenManager("rotated-secret", testIssuer, testAccessTTL, testRefreshTTL, WithClock(clock.Now))
	token, _, err := other.IssueAccess(aliceClaim)
	require.NoError(t, err)

	_, err = newTestManager(clock).Verify(token, KindAccess)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenWithForeignIssuerOrAlgorithmIsRejected(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	m := newTestManager(clock)

	foreign := NewTokenManager(testSecret, "someone-else", testAccessTTL, testRefreshTTL, WithClock(clock.Now))
	token, _, err := foreign.IssueAccess(aliceClaim)
	require.NoError(t, err)
	_, err = m.Verify(token, KindAccess)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	claims := Claims{
		Kind: KindAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(clock.t.Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.Verify(unsigned, KindAccess)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := newTestManager(&fakeClock{t: time.Now()})
	for _, token := range []string{"", "   ", "not-a-jwt", "a.b.c"} {
		_, err := m.Verify(token, KindAccess)
		assert.ErrorIs(t, err, ErrTokenInvalid, "token=%q", token)
	}
}

func TestIssueRequiresUserID(t *testing.T) {
	m := newTestManager(&fakeClock{t: time.Now()})
	_, _, err := m.IssueAccess(IdentityClaim{Email: "a@x.com"})
	assert.Error(t, err)
}

func TestUnknownRoleSurvivesAsUnknown(t *testing.T) {
	m := newTestManager(&fakeClock{t: time.Now()})
	token, _, err := m.IssueAccess(IdentityClaim{UserID: "u", Role: models.Role("Admin")})
	require.NoError(t, err)

	got, err := m.Verify(token, KindAccess)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUnknown, got.Role)
}
