package auth

import "context"

type identityContextKey struct{}

// ContextWithIdentity attaches the verified claim to ctx.
func ContextWithIdentity(ctx context.Context, claim IdentityClaim) context.Context {
	return context.WithValue(ctx, identityContextKey{}, &claim)
}

// IdentityFromContext returns the claim stored by ContextWithIdentity.
func IdentityFromContext(ctx context.Context) (IdentityClaim, bool) {
	if ctx == nil {
		return IdentityClaim{}, false
	}
	v, ok := ctx.Value(identityContextKey{}).(*IdentityClaim)
	if !ok || v == nil {
		return IdentityClaim{}, false
	}
	return *v, true
}
