package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractBearer(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "standard", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "lower-case scheme", header: "bearer abc", want: "abc"},
		{name: "surrounding space", header: "  Bearer   abc  ", want: "abc"},
		{name: "missing", header: "", wantErr: true},
		{name: "scheme only", header: "Bearer", wantErr: true},
		{name: "scheme and blank", header: "Bearer    ", wantErr: true},
		{name: "basic auth", header: "Basic dXNlcjpwYXNz", wantErr: true},
		{name: "no scheme", header: "abc.def.ghi", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractBearer(tt.header)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrAuthenticationRequired)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtract(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}
	m := newTestManager(clock)
	pair, err := m.IssuePair(aliceClaim)
	require.NoError(t, err)

	got, err := m.Extract("Bearer " + pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, aliceClaim, got)

	_, err = m.Extract("")
	assert.ErrorIs(t, err, ErrAuthenticationRequired)

	_, err = m.Extract("Bearer " + pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	clock.t = pair.ExpiresAt.Add(time.Second)
	_, err = m.Extract("Bearer " + pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
}
