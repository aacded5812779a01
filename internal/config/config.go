// Package config loads server settings: defaults first, then an optional
// YAML file, then ZK_* environment variables.
package config

import (
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Tejaaswini/zeroking/internal/errors"
)

type Config struct {
	Addr         string   `yaml:"addr"`
	AllowOrigins []string `yaml:"allow_origins"`
	// DataDir holds the ledger. Empty keeps it in memory.
	DataDir        string `yaml:"data_dir"`
	RequiredDomain string `yaml:"required_domain"`
	// VerifyingKeyPath names a key written by `zkchess setup`. When empty the
	// server runs a development setup at start and writes both keys to KeysDir.
	VerifyingKeyPath    string        `yaml:"verifying_key_path"`
	KeysDir             string        `yaml:"keys_dir"`
	MatchmakingInterval time.Duration `yaml:"matchmaking_interval"`
	MatchWaitTimeout    time.Duration `yaml:"match_wait_timeout"`
}

func Default() Config {
	return Config{
		Addr:                ":3000",
		AllowOrigins:        []string{"http://localhost:5173"},
		DataDir:             "data/ledger",
		RequiredDomain:      "uni.edu",
		KeysDir:             "data/keys",
		MatchmakingInterval: time.Second,
		MatchWaitTimeout:    30 * time.Second,
	}
}

// Load builds the configuration. path may be empty, in which case ZK_CONFIG
// is consulted for a file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("ZK_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, errors.Wrapf(err, "read config %s", path)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "parse config %s", path)
		}
	}

	applyEnv(&cfg)
	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config) {
	cfg.Addr = getenv("ZK_ADDR", cfg.Addr)
	if v := os.Getenv("ZK_ALLOW_ORIGINS"); v != "" {
		cfg.AllowOrigins = strings.Split(v, ",")
	}
	if v, ok := os.LookupEnv("ZK_DATA_DIR"); ok {
		cfg.DataDir = v
	}
	cfg.RequiredDomain = getenv("ZK_REQUIRED_DOMAIN", cfg.RequiredDomain)
	cfg.VerifyingKeyPath = getenv("ZK_VK_PATH", cfg.VerifyingKeyPath)
	cfg.KeysDir = getenv("ZK_KEYS_DIR", cfg.KeysDir)
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.Malformed("config: addr is empty")
	}
	if c.RequiredDomain == "" {
		return errors.Malformed("config: required_domain is empty")
	}
	if c.MatchmakingInterval <= 0 {
		return errors.Malformed("config: matchmaking_interval must be positive")
	}
	if c.MatchWaitTimeout <= 0 {
		return errors.Malformed("config: match_wait_timeout must be positive")
	}
	if c.VerifyingKeyPath == "" && c.KeysDir == "" {
		return errors.Malformed("config: keys_dir is required without verifying_key_path")
	}
	return nil
}

// Origins joins AllowOrigins the way fiber's CORS middleware expects.
func (c Config) Origins() string {
	return strings.Join(c.AllowOrigins, ", ")
}
