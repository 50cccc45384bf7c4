package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("defaults with positional path", func(t *testing.T) {
		cfg, exit, err := Parse([]string{"ws.hcl"}, &bytes.Buffer{})
		require.NoError(t, err)
		require.False(t, exit)
		assert.Equal(t, "ws.hcl", cfg.WorkspacePath)
		assert.Equal(t, 1, cfg.Runs)
		assert.Nil(t, cfg.Seed)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("flags", func(t *testing.T) {
		cfg, _, err := Parse([]string{"-c", "dir", "-runs", "3", "-seed", "-5", "-log-format", "TEXT", "-log-level", "debug"}, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, "dir", cfg.WorkspacePath)
		assert.Equal(t, 3, cfg.Runs)
		require.NotNil(t, cfg.Seed)
		assert.Equal(t, int64(-5), *cfg.Seed)
		assert.Equal(t, "text", cfg.LogFormat)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("config wins over shorthand and positional", func(t *testing.T) {
		cfg, _, err := Parse([]string{"-config", "a.hcl", "-c", "b.hcl", "c.hcl"}, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, "a.hcl", cfg.WorkspacePath)
	})

	t.Run("no path prints usage", func(t *testing.T) {
		var out bytes.Buffer
		cfg, exit, err := Parse(nil, &out)
		require.NoError(t, err)
		assert.True(t, exit)
		assert.Nil(t, cfg)
		assert.Contains(t, out.String(), "Usage:")
	})

	t.Run("help", func(t *testing.T) {
		_, exit, err := Parse([]string{"-h"}, &bytes.Buffer{})
		require.NoError(t, err)
		assert.True(t, exit)
	})

	errorCases := map[string][]string{
		"unknown flag":   {"-nope"},
		"bad seed":       {"-seed", "abc", "ws.hcl"},
		"bad log format": {"-log-format", "xml", "ws.hcl"},
		"bad log level":  {"-log-level", "trace", "ws.hcl"},
		"runs below one": {"-runs", "0", "ws.hcl"},
	}
	for name, args := range errorCases {
		t.Run(name, func(t *testing.T) {
			_, exit, err := Parse(args, &bytes.Buffer{})
			assert.False(t, exit)
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
		})
	}
}
