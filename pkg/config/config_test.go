package config

import (
	"testing"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Analysis.TopTopics != 10 || cfg.Analysis.TopKeywords != 20 {
		t.Fatalf("unexpected analysis defaults: %+v", cfg.Analysis)
	}
	if cfg.Sentiment.LexiconPath == "" {
		t.Fatal("expected a default lexicon path")
	}
	if !cfg.Redis.Enabled || cfg.Redis.TTLSec != 3600 {
		t.Fatalf("unexpected redis defaults: %+v", cfg.Redis)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	viper.Reset()
	t.Setenv("SENTILENS_SERVER_PORT", "9090")
	t.Setenv("SENTILENS_REDIS_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Fatalf("expected env override 9090, got %d", cfg.Server.Port)
	}
	if cfg.Redis.Enabled {
		t.Fatal("expected redis disabled via env")
	}
}
