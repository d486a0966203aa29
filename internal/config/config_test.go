package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
api_url: https://shop.example.com/api
timeout: 5s
token_store: redis
redis_addr: localhost:6379
cache_stale_after: 1m
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if cfg.APIURL != "https://shop.example.com/api" {
		t.Errorf("unexpected api_url: %q", cfg.APIURL)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %s", cfg.Timeout)
	}
	if cfg.TokenStore != TokenStoreRedis || cfg.RedisAddr != "localhost:6379" {
		t.Errorf("unexpected token store: %q at %q", cfg.TokenStore, cfg.RedisAddr)
	}
	if cfg.CacheStaleAfter != time.Minute {
		t.Errorf("expected 1m stale window, got %s", cfg.CacheStaleAfter)
	}
	if cfg.TokenFile != "" {
		t.Errorf("redis store should not default a token file, got %q", cfg.TokenFile)
	}
}

func TestLoadFromMissingFileReturnsDefault(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	cfg, err := LoadFrom(filepath.Join(dir, "nonexistent.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("expected default api_url, got %q", cfg.APIURL)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("expected default timeout, got %s", cfg.Timeout)
	}
	if cfg.TokenStore != TokenStoreFile {
		t.Errorf("expected file token store, got %q", cfg.TokenStore)
	}
	want := filepath.Join(dir, DefaultConfigDir, DefaultCredentialsFile)
	if cfg.TokenFile != want {
		t.Errorf("expected token file %q, got %q", want, cfg.TokenFile)
	}
}

func TestLoadFromRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unknown store", "token_store: etcd\n", "unknown token_store"},
		{"redis without addr", "token_store: redis\n", "requires redis_addr"},
		{"negative timeout", "timeout: -1s\n", "timeout must not be negative"},
		{"bad yaml", "api_url: [\n", "parsing config"},
		{"bad url", "api_url: not a url\n", "not a valid URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadFrom(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	cfg := &Config{
		APIURL:     "http://localhost:9999/api",
		Timeout:    10 * time.Second,
		TokenStore: TokenStoreMemory,
	}
	if err := Save(cfg); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error on saved file: %v", err)
	}
	if loaded.APIURL != cfg.APIURL || loaded.Timeout != cfg.Timeout || loaded.TokenStore != cfg.TokenStore {
		t.Errorf("round trip mismatch: %+v", loaded)
	}

	path := filepath.Join(dir, DefaultConfigDir, DefaultConfigFile)
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected config at %s: %v", path, err)
	}
}
