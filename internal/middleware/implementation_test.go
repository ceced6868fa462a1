package middleware

import (
	"testing"

	"github.com/akolanti/DocGateway/internal/config"
	"github.com/akolanti/DocGateway/pkg/logger_i"
)

func TestIsValidBearerToken(t *testing.T) {
	log := logger_i.NewLogger("TestAuth")

	tests := []struct {
		name     string
		settings *config.Settings
		header   string
		want     bool
	}{
		{
			name:     "Valid Token",
			settings: &config.Settings{AuthToken: "secret-token"},
			header:   "Bearer secret-token",
			want:     true,
		},
		{
			name:     "Wrong Token",
			settings: &config.Settings{AuthToken: "secret-token"},
			header:   "Bearer wrong",
			want:     false,
		},
		{
			name:     "Missing Header",
			settings: &config.Settings{AuthToken: "secret-token"},
			header:   "",
			want:     false,
		},
		{
			name:     "No Bearer Prefix",
			settings: &config.Settings{AuthToken: "secret-token"},
			header:   "secret-token",
			want:     false,
		},
		{
			name:     "Bypass Enabled",
			settings: &config.Settings{NoAuthBypass: true},
			header:   "",
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Init(tt.settings)
			defer Init(nil)

			if got := IsValidBearerToken(tt.header, log); got != tt.want {
				t.Errorf("IsValidBearerToken(%q) got %v, want %v", tt.header, got, tt.want)
			}
		})
	}
}
