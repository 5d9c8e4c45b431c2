package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/contestcli/judge/internal/config"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "judge.toml"))
	require.NoError(t, err)

	require.Equal(t, []string{"g++", "-std=c++20", "-O2"}, cfg.Execution.CompilerArgs)
	require.Equal(t, "timeout", cfg.Execution.TimeoutBin)
	require.Equal(t, []string{"vi"}, cfg.EditorArgs)
	require.Equal(t, 1.0, cfg.TimeLimitSec)
	require.Equal(t, "judge.progress", cfg.Nats.Subject)
}

func TestLoadToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "judge.toml")
	err := os.WriteFile(path, []byte(`
time_limit_sec = 2.5
editor_args = ["nano"]

[execution]
compiler_args = ["g++", "-std=c++17"]
timeout_bin = "gtimeout"

[nats]
url = "nats://localhost:4222"
`), 0o644)
	require.NoError(t, err)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	require.Equal(t, 2.5, cfg.TimeLimitSec)
	require.Equal(t, []string{"nano"}, cfg.EditorArgs)
	require.Equal(t, []string{"g++", "-std=c++17"}, cfg.Execution.CompilerArgs)
	require.Equal(t, "gtimeout", cfg.Execution.TimeoutBin)
	require.Equal(t, "nats://localhost:4222", cfg.Nats.URL)
	// untouched keys keep their defaults
	require.Equal(t, "judge.progress", cfg.Nats.Subject)
}

func TestLoadInvalidToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "judge.toml")
	require.NoError(t, os.WriteFile(path, []byte("time_limit_sec = [broken"), 0o644))

	_, err := config.Load(path)
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("JUDGE_EDITOR", "code --wait")
	t.Setenv("JUDGE_NATS_URL", "nats://remote:4222")
	t.Setenv("JUDGE_TIME_LIMIT", "0.5")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "judge.toml"))
	require.NoError(t, err)

	require.Equal(t, []string{"code", "--wait"}, cfg.EditorArgs)
	require.Equal(t, "nats://remote:4222", cfg.Nats.URL)
	require.Equal(t, 0.5, cfg.TimeLimitSec)
}

func TestEnvInvalidTimeLimit(t *testing.T) {
	t.Setenv("JUDGE_TIME_LIMIT", "fast")

	_, err := config.Load(filepath.Join(t.TempDir(), "judge.toml"))
	require.Error(t, err)
}
