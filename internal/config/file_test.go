package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(cfg.Platforms) != 6 || cfg.Platforms[0] != "eBay" {
		t.Errorf("Expected default platforms, got %v", cfg.Platforms)
	}
	if cfg.Interaction != DefaultInteraction {
		t.Errorf("Expected default interaction, got %+v", cfg.Interaction)
	}
}

func TestLoadOverridesSomeFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shoplist.yaml")
	body := `
platforms: [eBay, Etsy]
colors:
  Etsy: "#ffeedd"
interaction:
  action_threshold: 40
  settle: 150ms
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(cfg.Platforms) != 2 || cfg.Platforms[1] != "Etsy" {
		t.Errorf("Expected [eBay Etsy], got %v", cfg.Platforms)
	}
	if cfg.Color("Etsy") != "#ffeedd" {
		t.Errorf("Expected Etsy colour, got %s", cfg.Color("Etsy"))
	}
	if cfg.Color("Depop") != "#ffe6e6" {
		t.Errorf("Expected default Depop colour to survive, got %s", cfg.Color("Depop"))
	}
	if cfg.Interaction.ActionThreshold != 40 {
		t.Errorf("Expected threshold 40, got %d", cfg.Interaction.ActionThreshold)
	}
	if cfg.Interaction.DeadZone != 10 {
		t.Errorf("Expected untouched dead zone 10, got %d", cfg.Interaction.DeadZone)
	}
	if cfg.Interaction.Settle != 150*time.Millisecond {
		t.Errorf("Expected settle 150ms, got %v", cfg.Interaction.Settle)
	}
}

func TestParseRejectsInvalidInteraction(t *testing.T) {
	if _, err := Parse([]byte("interaction:\n  cell_width: 0\n")); err == nil {
		t.Error("Expected error for zero cell width")
	}
	if _, err := Parse([]byte("platforms: []\n")); err == nil {
		t.Error("Expected error for empty platform list")
	}
}

func TestColorFallback(t *testing.T) {
	cfg := Default()
	if cfg.Color("Other") != "#f0e6ff" {
		t.Errorf("Expected fallback colour, got %s", cfg.Color("Other"))
	}
}
