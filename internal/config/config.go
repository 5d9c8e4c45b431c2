// Package config loads the judge configuration: a toml file with dotenv
// environment overrides. The loaded value is passed down explicitly; there
// is no global configuration state.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/contestcli/judge/internal/execution"
)

type NatsConfig struct {
	URL     string `toml:"url"`
	Subject string `toml:"subject"`
}

type Config struct {
	Execution       execution.Config `toml:"execution"`
	EditorArgs      []string         `toml:"editor_args"`
	TerminalArgs    []string         `toml:"terminal_args"`
	TimeLimitSec    float64          `toml:"time_limit_sec"`
	CheckerCacheDir string           `toml:"checker_cache_dir"`
	Nats            NatsConfig       `toml:"nats"`
}

func Default() Config {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = "."
	}
	return Config{
		Execution:       execution.DefaultConfig(),
		EditorArgs:      []string{"vi"},
		TimeLimitSec:    1.0,
		CheckerCacheDir: filepath.Join(cacheDir, "judge", "checkers"),
		Nats: NatsConfig{
			Subject: "judge.progress",
		},
	}
}

// Load reads the toml config at path (missing file means defaults) and then
// applies environment overrides, including any .env file in the working
// directory.
func Load(path string) (Config, error) {
	cfg := Default()

	if raw, err := os.ReadFile(path); err == nil {
		if err := toml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	_ = godotenv.Load()

	if v := os.Getenv("JUDGE_EDITOR"); v != "" {
		cfg.EditorArgs = strings.Fields(v)
	}
	if v := os.Getenv("JUDGE_NATS_URL"); v != "" {
		cfg.Nats.URL = v
	}
	if v := os.Getenv("JUDGE_TIME_LIMIT"); v != "" {
		limit, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid JUDGE_TIME_LIMIT %q: %w", v, err)
		}
		cfg.TimeLimitSec = limit
	}

	return cfg, nil
}
