package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/hongminglow/taskflow-be/internal/models"
)

// TokenKind separates short-lived access tokens from refresh tokens.
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

// IdentityClaim is the minimal identity embedded in every token.
type IdentityClaim struct {
	UserID string      `json:"userId"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
}

// ClaimFor builds a claim from the current stored user record.
func ClaimFor(user models.User) IdentityClaim {
	return IdentityClaim{UserID: user.ID, Email: user.Email, Role: user.Role}
}

// TokenPair is the result of login, signup and refresh. ExpiresAt is the
// access token's expiry.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	ExpiresAt        time.Time
	RefreshExpiresAt time.Time
}

// Claims is the signed JWT payload.
type Claims struct {
	Email string    `json:"email"`
	Role  string    `json:"role"`
	Kind  TokenKind `json:"kind"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 JWTs. It holds no mutable state and
// is safe for concurrent use.
type TokenManager struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// TokenOption customises a TokenManager.
type TokenOption func(*TokenManager)

// WithClock overrides the wall clock used for issuing and verifying.
func WithClock(now func() time.Time) TokenOption {
	return func(t *TokenManager) {
		if now != nil {
			t.now = now
		}
	}
}

// NewTokenManager creates a manager with the provided secret, issuer, and lifetimes.
func NewTokenManager(secret, issuer string, accessTTL, refreshTTL time.Duration, opts ...TokenOption) *TokenManager {
	t := &TokenManager{
		secret:     []byte(secret),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// IssueAccess signs an access token for claim.
func (t *TokenManager) IssueAccess(claim IdentityClaim) (string, time.Time, error) {
	return t.issue(claim, KindAccess, t.accessTTL)
}

// IssueRefresh signs a refresh token for claim.
func (t *TokenManager) IssueRefresh(claim IdentityClaim) (string, time.Time, error) {
	return t.issue(claim, KindRefresh, t.refreshTTL)
}

// IssuePair signs a fresh access and refresh token for claim.
func (t *TokenManager) IssuePair(claim IdentityClaim) (TokenPair, error) {
	access, accessExp, err := t.IssueAccess(claim)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, refreshExp, err := t.IssueRefresh(claim)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		ExpiresAt:        accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (t *TokenManager) issue(claim IdentityClaim, kind TokenKind, ttl time.Duration) (string, time.Time, error) {
	if strings.TrimSpace(claim.UserID) == "" {
		return "", time.Time{}, errors.New("issue token: user id is required")
	}
	if ttl <= 0 {
		return "", time.Time{}, errors.New("issue token: ttl must be greater than zero")
	}
	now := t.now().UTC()
	expiresAt := now.Add(ttl)
	claims := Claims{
		Email: claim.Email,
		Role:  string(claim.Role),
		Kind:  kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   claim.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	// The embedded exp has second precision; report what the token carries.
	return signed, expiresAt.Truncate(time.Second), nil
}

// jwt rejects a token once now >= exp. One nanosecond of leeway keeps it
// valid through the exp instant itself, so expiry means now > exp.
const expiryLeeway = time.Nanosecond

// Verify checks signature, issuer, expiry and kind. Expired tokens yield
// ErrTokenExpired; every other failure yields ErrTokenInvalid.
func (t *TokenManager) Verify(token string, kind TokenKind) (IdentityClaim, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return IdentityClaim{}, ErrTokenInvalid
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
		jwt.WithLeeway(expiryLeeway),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return IdentityClaim{}, ErrTokenExpired
		}
		return IdentityClaim{}, ErrTokenInvalid
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return IdentityClaim{}, ErrTokenInvalid
	}
	if claims.Kind != kind || strings.TrimSpace(claims.Subject) == "" {
		return IdentityClaim{}, ErrTokenInvalid
	}
	return IdentityClaim{
		UserID: claims.Subject,
		Email:  claims.Email,
		Role:   models.ParseRole(claims.Role),
	}, nil
}
