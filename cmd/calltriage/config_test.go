package main

import (
	"flag"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) (Config, error) {
	t.Helper()
	fs := flag.NewFlagSet("calltriage", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return parseFlags(fs, args)
}

func TestParseFlagsDefaults(t *testing.T) {
	cfg, err := parse(t)
	require.NoError(t, err)
	assert.Equal(t, "gpt-5-mini", cfg.Model)
	assert.Equal(t, 0.6, cfg.AgreementThreshold)
	assert.Equal(t, 6, cfg.TrendWindow)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.False(t, cfg.Ephemeral)
	require.NoError(t, cfg.Validate())
}

func TestParseFlagsOverrides(t *testing.T) {
	cfg, err := parse(t,
		"-store", "tmp//sessions",
		"-model", "gpt-5",
		"-session", "call-42",
		"-agreement-threshold", "0.75",
		"-trend-window", "0",
		"-timeout", "10s",
		"-ephemeral",
		"-pretty",
	)
	require.NoError(t, err)
	assert.Equal(t, "tmp/sessions", cfg.StoreDir, "store path is cleaned")
	assert.Equal(t, "gpt-5", cfg.Model)
	assert.Equal(t, "call-42", cfg.SessionID)
	assert.Equal(t, 0.75, cfg.AgreementThreshold)
	assert.Equal(t, 0, cfg.TrendWindow)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.True(t, cfg.Ephemeral)
	assert.True(t, cfg.Pretty)
	require.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"no store, not ephemeral", func(c *Config) { c.StoreDir = "" }, false},
		{"no store, ephemeral", func(c *Config) { c.StoreDir = ""; c.Ephemeral = true }, true},
		{"empty model", func(c *Config) { c.Model = "" }, false},
		{"threshold zero", func(c *Config) { c.AgreementThreshold = 0 }, false},
		{"threshold above one", func(c *Config) { c.AgreementThreshold = 1.1 }, false},
		{"negative trend window", func(c *Config) { c.TrendWindow = -1 }, false},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestSplitAudioRef(t *testing.T) {
	tests := []struct {
		line    string
		message string
		ref     string
	}{
		{"help me", "help me", ""},
		{"audio=call.wav help me", "help me", "call.wav"},
		{"audio=call.wav   padded message", "padded message", "call.wav"},
		{"audio=call.wav", "", "call.wav"},
		{"audio=call.wav  ", "", "call.wav"},
		{"she said audio=x later", "she said audio=x later", ""},
	}
	for _, tc := range tests {
		message, ref := splitAudioRef(tc.line)
		assert.Equal(t, tc.message, message, "line %q", tc.line)
		assert.Equal(t, tc.ref, ref, "line %q", tc.line)
	}
}
