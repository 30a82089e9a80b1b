package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Loader.Browser != "chrome" {
		t.Errorf("Loader.Browser = %q, want %q", cfg.Loader.Browser, "chrome")
	}
	if !cfg.Loader.Headless {
		t.Error("Loader.Headless = false, want true")
	}
	if cfg.Loader.Timeout != 30*time.Second {
		t.Errorf("Loader.Timeout = %v, want 30s", cfg.Loader.Timeout)
	}
	if len(cfg.Loader.BlockedResourceTypes) != 4 {
		t.Errorf("Loader.BlockedResourceTypes = %v, want 4 defaults", cfg.Loader.BlockedResourceTypes)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want %q", cfg.Log.Format, "json")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HARVEST_PORT", "9090")
	t.Setenv("HARVEST_BROWSER", "firefox")
	t.Setenv("HARVEST_HEADLESS", "false")
	t.Setenv("HARVEST_TIMEOUT", "45s")
	t.Setenv("HARVEST_BLOCKED_RESOURCES", "Image, Font")
	t.Setenv("HARVEST_API_KEYS", "key-a,key-b")

	cfg := Load()

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Loader.Browser != "firefox" {
		t.Errorf("Loader.Browser = %q, want %q", cfg.Loader.Browser, "firefox")
	}
	if cfg.Loader.Headless {
		t.Error("Loader.Headless = true, want false")
	}
	if cfg.Loader.Timeout != 45*time.Second {
		t.Errorf("Loader.Timeout = %v, want 45s", cfg.Loader.Timeout)
	}
	if got := cfg.Loader.BlockedResourceTypes; len(got) != 2 || got[0] != "Image" || got[1] != "Font" {
		t.Errorf("Loader.BlockedResourceTypes = %v, want [Image Font]", got)
	}
	if got := cfg.Auth.APIKeys; len(got) != 2 || got[0] != "key-a" {
		t.Errorf("Auth.APIKeys = %v, want [key-a key-b]", got)
	}
}

func TestLoad_MalformedEnvFallsBack(t *testing.T) {
	t.Setenv("HARVEST_PORT", "not-a-number")
	t.Setenv("HARVEST_HEADLESS", "maybe")
	t.Setenv("HARVEST_TIMEOUT", "soon")

	cfg := Load()

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want default 8080", cfg.Server.Port)
	}
	if !cfg.Loader.Headless {
		t.Error("Loader.Headless = false, want default true")
	}
	if cfg.Loader.Timeout != 30*time.Second {
		t.Errorf("Loader.Timeout = %v, want default 30s", cfg.Loader.Timeout)
	}
}
