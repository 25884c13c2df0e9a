package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulseboard/internal/auth"
)

func TestTokenCmd(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		env        string
		wantID     int64
		wantEmail  string
		wantErr    bool
		errContain string
	}{
		{
			name:      "basic token",
			args:      []string{"--secret", "test-secret", "--id", "7", "--email", "ana@example.com"},
			wantID:    7,
			wantEmail: "ana@example.com",
		},
		{
			name:      "defaults",
			args:      []string{"--secret", "test-secret"},
			wantID:    1,
			wantEmail: "dev@example.com",
		},
		{
			name:      "secret from environment",
			args:      []string{"--id", "3", "--email", "ci@example.com"},
			env:       "test-secret",
			wantID:    3,
			wantEmail: "ci@example.com",
		},
		{
			name:       "missing secret",
			args:       []string{"--id", "1"},
			wantErr:    true,
			errContain: "JWT_SECRET",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", tt.env)

			cmd := newTokenCmd()
			var buf bytes.Buffer
			cmd.SetOut(&buf)
			cmd.SetErr(io.Discard)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContain)
				return
			}
			require.NoError(t, err)

			signed := strings.TrimSpace(buf.String())
			require.NotEmpty(t, signed)

			principal, err := auth.NewHS256Verifier("test-secret").Verify(context.Background(), signed)
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, principal.ID)
			assert.Equal(t, tt.wantEmail, principal.Email)
		})
	}
}
