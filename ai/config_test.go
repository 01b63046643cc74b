package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://localhost:11434/v1", cfg.Host)
	assert.Equal(t, "embeddinggemma", cfg.Model)
}

func TestNewConfigOptions(t *testing.T) {
	cfg := NewConfig(
		WithHost("https://api.example.com"),
		WithModel("text-embedding-3-small"),
		WithToken("sk-test"),
	)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "https://api.example.com/v1", cfg.Host)
	assert.Equal(t, "text-embedding-3-small", cfg.Model)
	assert.Equal(t, "sk-test", cfg.Token)
}

func TestNormalizeHost(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http://localhost:11434", "http://localhost:11434/v1"},
		{"http://localhost:11434/", "http://localhost:11434/v1"},
		{"http://localhost:11434/v1", "http://localhost:11434/v1"},
		{"", ""},
	}
	for _, tt := range tests {
		cfg := &Config{Host: tt.in}
		cfg.Normalize()
		assert.Equal(t, tt.want, cfg.Host)
	}
}

func TestValidateRejectsIncomplete(t *testing.T) {
	assert.Error(t, (&Config{Model: "m", Token: "t"}).Validate())
	assert.Error(t, (&Config{Host: "h", Token: "t"}).Validate())
	assert.Error(t, (&Config{Host: "h", Model: "m"}).Validate())
}
