package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Port:           "8460",
		Env:            "development",
		DBPassword:     "password",
		DBSSLMode:      "disable",
		AuthJWTSecret:  "dev-auth-secret-change-in-production",
		WebhookSecret:  "whsec_test",
		MediaMaxSizeMB: 10,
	}
}

func TestConfig_Validate_Development(t *testing.T) {
	c := validConfig()
	assert.NoError(t, c.Validate())

	c = validConfig()
	c.Port = ""
	assert.Error(t, c.Validate())

	c = validConfig()
	c.AuthJWTSecret = ""
	assert.Error(t, c.Validate())
}

func TestConfig_Validate_Production(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{
			name: "hardened production config",
			mutate: func(c *Config) {
				c.AuthJWTSecret = "secure-auth-secret-at-least-32-chars"
				c.DBPassword = "secure-password"
				c.DBSSLMode = "require"
			},
		},
		{
			name:        "default auth secret rejected",
			mutate:      func(c *Config) {},
			expectError: true,
		},
		{
			name: "short auth secret rejected",
			mutate: func(c *Config) {
				c.AuthJWTSecret = "too-short"
				c.DBPassword = "secure-password"
			},
			expectError: true,
		},
		{
			name: "missing webhook secret rejected",
			mutate: func(c *Config) {
				c.AuthJWTSecret = "secure-auth-secret-at-least-32-chars"
				c.DBPassword = "secure-password"
				c.WebhookSecret = ""
			},
			expectError: true,
		},
		{
			name: "default db password rejected",
			mutate: func(c *Config) {
				c.AuthJWTSecret = "secure-auth-secret-at-least-32-chars"
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			c.Env = "production"
			tt.mutate(c)

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
