package auth

import "strings"

const bearerScheme = "bearer"

// ExtractBearer returns the token from an Authorization header value. The
// scheme is matched case-insensitively.
func ExtractBearer(header string) (string, error) {
	header = strings.TrimSpace(header)
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return "", ErrAuthenticationRequired
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrAuthenticationRequired
	}
	return token, nil
}

// Extract turns an Authorization header into a verified access-token claim.
// It fails with ErrAuthenticationRequired for a missing or malformed header
// and passes through ErrTokenInvalid and ErrTokenExpired.
func (t *TokenManager) Extract(header string) (IdentityClaim, error) {
	token, err := ExtractBearer(header)
	if err != nil {
		return IdentityClaim{}, err
	}
	return t.Verify(token, KindAccess)
}
