package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hongminglow/taskflow-be/internal/models"
)

func TestAuthorize(t *testing.T) {
	managers := []models.Role{models.RoleProductManager}
	builders := []models.Role{models.RoleDesigner, models.RoleDeveloper}

	tests := []struct {
		name    string
		role    models.Role
		allowed []models.Role
		want    bool
	}{
		{name: "listed", role: models.RoleProductManager, allowed: managers, want: true},
		{name: "not listed", role: models.RoleDeveloper, allowed: managers, want: false},
		{name: "order independent", role: models.RoleDeveloper, allowed: builders, want: true},
		{name: "empty allow-list denies", role: models.RoleProductManager, allowed: nil, want: false},
		{name: "unknown role denied even if listed", role: models.RoleUnknown, allowed: []models.Role{models.RoleUnknown}, want: false},
		{name: "case sensitive", role: models.Role("developer"), allowed: builders, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Authorize(tt.role, tt.allowed)
			assert.Equal(t, tt.want, d.Allowed)
			if tt.want {
				assert.NoError(t, d.Err())
			} else {
				assert.ErrorIs(t, d.Err(), ErrForbidden)
				assert.NotEmpty(t, d.Reason)
			}
		})
	}
}

// An empty allow-list and "any authenticated user" are different checks.
func TestEmptyAllowListIsNotAuthenticatedOnly(t *testing.T) {
	claim := &IdentityClaim{UserID: "user-1", Role: models.RoleDesigner}

	assert.NoError(t, RequireAuthenticated(claim))
	assert.False(t, Authorize(claim.Role, []models.Role{}).Allowed)

	assert.ErrorIs(t, RequireAuthenticated(nil), ErrAuthenticationRequired)
	assert.ErrorIs(t, RequireAuthenticated(&IdentityClaim{}), ErrAuthenticationRequired)
}

func TestIdentityContext(t *testing.T) {
	_, ok := IdentityFromContext(context.Background())
	assert.False(t, ok)

	ctx := ContextWithIdentity(context.Background(), aliceClaim)
	got, ok := IdentityFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, aliceClaim, got)
}
