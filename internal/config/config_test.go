package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[simulation]
tick_rate = "50ms"
ticks_per_hour = 600

[firestarter]
min_oxygen = 0.25
min_layer = "Items"

[logging]
format = "json"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Simulation.TickRate != 50*time.Millisecond {
		t.Errorf("tick_rate = %s", cfg.Simulation.TickRate)
	}
	if cfg.Period() != 600 {
		t.Errorf("Period() = %d, want ticks_per_hour 600", cfg.Period())
	}
	if cfg.Firestarter.MinOxygen != 0.25 || cfg.Firestarter.MinLayer != "Items" {
		t.Errorf("firestarter = %+v", cfg.Firestarter)
	}
	if !cfg.Firestarter.Enabled {
		t.Error("default enabled flag lost")
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "info" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if cfg.Server.StartTime == 0 {
		t.Error("StartTime not set")
	}
}

func TestPeriodOverride(t *testing.T) {
	cfg := Default()
	cfg.Firestarter.PeriodTicks = 100
	if cfg.Period() != 100 {
		t.Fatalf("Period() = %d", cfg.Period())
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad layer", "[firestarter]\nmin_layer = \"roof\"\n", "min_layer"},
		{"bad layer names value", "[firestarter]\nmin_layer = \"roof\"\n", `unknown layer "roof"`},
		{"zero hour", "[simulation]\nticks_per_hour = 0\n", "ticks_per_hour"},
		{"negative period", "[firestarter]\nperiod_ticks = -5\n", "period_ticks"},
		{"syntax", "[firestarter\n", "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error")
	}
}
