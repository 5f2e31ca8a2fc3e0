package server_test

import (
	"testing"

	"replay-scheduler/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_IsValidEnvironment(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		want        bool
	}{
		{"FAT", server.EnvironmentFAT, true},
		{"UAT", server.EnvironmentUAT, true},
		{"PRO", server.EnvironmentPRO, true},
		{"Invalid", "staging", false},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{Environment: tt.environment}
			assert.Equal(t, tt.want, c.IsValidEnvironment())
		})
	}
}
