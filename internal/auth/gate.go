package auth

import (
	"fmt"
	"slices"

	"github.com/hongminglow/taskflow-be/internal/models"
)

// Decision is the outcome of a role check.
type Decision struct {
	Allowed bool
	Reason  string
}

// Err converts a denial into an error wrapping ErrForbidden.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrForbidden, d.Reason)
}

// Authorize allows role iff it is a known role listed in allowed. An empty
// allow-list denies everyone; use RequireAuthenticated for "any signed-in user".
func Authorize(role models.Role, allowed []models.Role) Decision {
	if len(allowed) == 0 {
		return Decision{Reason: "no roles permitted"}
	}
	if !role.Valid() {
		return Decision{Reason: "unknown role"}
	}
	if !slices.Contains(allowed, role) {
		return Decision{Reason: fmt.Sprintf("role %q not permitted", role)}
	}
	return Decision{Allowed: true}
}

// RequireAuthenticated passes for any verified identity, regardless of role.
func RequireAuthenticated(claim *IdentityClaim) error {
	if claim == nil || claim.UserID == "" {
		return ErrAuthenticationRequired
	}
	return nil
}
