//go:build unit

package token_test

import (
	"testing"

	"slotlink/internal/pkg/token"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tkn, err := token.New()
		require.NoError(t, err)
		require.NoError(t, token.Validate(tkn))
		require.False(t, seen[tkn], "token collision")
		seen[tkn] = true
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		token string
		valid bool
	}{
		{name: "64 hex chars", token: "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef", valid: true},
		{name: "too short", token: "abc123", valid: false},
		{name: "uppercase rejected", token: "0123456789ABCDEF0123456789ABCDEF0123456789ABCDEF0123456789ABCDEF", valid: false},
		{name: "non-hex characters", token: "zzzz56789abcdef0123456789abcdef0123456789abcdef0123456789abcdef0", valid: false},
		{name: "empty", token: "", valid: false},
		{name: "sql injection attempt", token: "' OR '1'='1", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := token.Validate(tt.token)
			if tt.valid {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, token.ErrMalformedToken)
			}
		})
	}
}
