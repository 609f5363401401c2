package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "top-repos.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	testCases := []struct {
		name        string
		file        string
		env         map[string]string
		expected    Config
		expectError bool
	}{
		{
			name:     "defaults without file or environment",
			expected: Default(),
		},
		{
			name: "file overrides defaults",
			file: "server: https://ranking.example.com\ntimeout: 15s\nformat: html\n",
			expected: Config{
				Server:      "https://ranking.example.com",
				Timeout:     15 * time.Second,
				Format:      "html",
				Concurrency: DefaultConcurrency,
			},
		},
		{
			name: "environment overrides file",
			file: "server: https://ranking.example.com\nconcurrency: 8\n",
			env:  map[string]string{EnvServer: "http://10.0.0.1:8000", EnvTimeout: "2m"},
			expected: Config{
				Server:      "http://10.0.0.1:8000",
				Timeout:     2 * time.Minute,
				Format:      DefaultFormat,
				Concurrency: 8,
			},
		},
		{
			name:        "invalid timeout in environment",
			env:         map[string]string{EnvTimeout: "soon"},
			expectError: true,
		},
		{
			name:        "malformed file",
			file:        "server: [unclosed\n",
			expectError: true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(EnvServer, "")
			t.Setenv(EnvTimeout, "")
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			path := ""
			if tc.file != "" {
				path = writeConfig(t, tc.file)
			}

			cfg, err := Load(path)
			if tc.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, cfg)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name        string
		concurrency int
		expectError bool
	}{
		{name: "default", concurrency: DefaultConcurrency},
		{name: "one", concurrency: 1},
		{name: "zero", concurrency: 0, expectError: true},
		{name: "negative", concurrency: -2, expectError: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			cfg.Concurrency = tc.concurrency
			err := cfg.Validate()
			if tc.expectError {
				assert.ErrorContains(t, err, "invalid concurrency")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
