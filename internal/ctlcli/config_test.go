package ctlcli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCTLConfigDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadCTLConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	broker, err := cfg.Broker("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if broker.Host != "localhost" || broker.Port != 1883 {
		t.Errorf("default broker = %+v, want localhost:1883", broker)
	}
}

func TestLoadCTLConfigFromFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".hermodctl")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := []byte(`
brokers:
  lab:
    host: broker.lab
    port: 8883
    username: voice
site_id: living_room
`)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadCTLConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SiteID != "living_room" {
		t.Errorf("site id = %q, want living_room", cfg.SiteID)
	}

	broker, err := cfg.Broker("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if broker.Host != "broker.lab" || broker.Port != 8883 {
		t.Errorf("broker = %+v, want broker.lab:8883", broker)
	}

	if _, err := cfg.Broker("nope"); err == nil {
		t.Error("expected error for unknown broker")
	}
}
