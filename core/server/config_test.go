package server_test

import (
	"testing"

	"media-mirror/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Addr(t *testing.T) {
	tests := []struct {
		name string
		port string
		want string
	}{
		{"Plain", "8080", ":8080"},
		{"AlreadyPrefixed", ":9090", ":9090"},
		{"Empty", "", ":"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{Port: tt.port}
			assert.Equal(t, tt.want, c.Addr())
		})
	}
}

func TestConfig_MetricsAddr(t *testing.T) {
	c := server.Config{MetricsPort: "9090"}
	assert.Equal(t, ":9090", c.MetricsAddr())
	assert.True(t, c.MetricsEnabled())

	c.MetricsPort = ""
	assert.False(t, c.MetricsEnabled())
}

func TestConfig_AuthEnabled(t *testing.T) {
	tests := []struct {
		name   string
		apiKey string
		want   bool
	}{
		{"WithKey", "secret", true},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{ApiKey: tt.apiKey}
			assert.Equal(t, tt.want, c.AuthEnabled())
		})
	}
}
