package service

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadWeightConfigDefaults(t *testing.T) {
	cfg, err := LoadWeightConfig("")
	if err != nil {
		t.Fatalf("LoadWeightConfig returned error: %v", err)
	}

	total := 0.0
	for _, w := range cfg.Weights {
		total += w
	}
	if math.Abs(total-100) > 1e-9 {
		t.Fatalf("expected default weights to sum to 100, got %f", total)
	}

	missing := filepath.Join(t.TempDir(), "weights.json")
	cfg2, err := LoadWeightConfig(missing)
	if err != nil {
		t.Fatalf("expected defaults for missing file, got %v", err)
	}
	if len(cfg2.Weights) != len(cfg.Weights) {
		t.Fatal("expected default weights for missing file")
	}
}

func TestLoadWeightConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.json")
	payload := `{
  "weights": {"prayer": 40, "recitation": 10, "sleep": 20, "screen": 10, "dhikr": 10, "charity": 10},
  "targets": {
    "prayer_count": 5,
    "recitation_minutes": 20,
    "sleep_hours": 7.5,
    "screen_time_hours": 2,
    "screen_time_limit": 6,
    "dhikr_count": 99
  }
}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("failed to seed weight config: %v", err)
	}

	cfg, err := LoadWeightConfig(path)
	if err != nil {
		t.Fatalf("LoadWeightConfig returned error: %v", err)
	}
	if cfg.Weights[DimPrayer] != 40 {
		t.Fatalf("unexpected prayer weight: %f", cfg.Weights[DimPrayer])
	}
	if cfg.Targets.DhikrCount != 99 {
		t.Fatalf("unexpected dhikr target: %f", cfg.Targets.DhikrCount)
	}
}

func TestLoadWeightConfigRejectsBadFiles(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"JSON 损坏", `{"weights": {`},
		{"未知维度", `{"weights": {"fasting": 100}}`},
		{"负权重", `{"weights": {"prayer": -5, "sleep": 105}}`},
		{"目标非法", `{"weights": {"prayer": 100}, "targets": {"prayer_count": 0, "recitation_minutes": 30, "sleep_hours": 8, "screen_time_hours": 2, "screen_time_limit": 8, "dhikr_count": 100}}`},
		{"屏幕上限错误", `{"weights": {"prayer": 100}, "targets": {"prayer_count": 5, "recitation_minutes": 30, "sleep_hours": 8, "screen_time_hours": 4, "screen_time_limit": 3, "dhikr_count": 100}}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "weights.json")
			if err := os.WriteFile(path, []byte(tc.payload), 0o644); err != nil {
				t.Fatalf("failed to seed weight config: %v", err)
			}
			if _, err := LoadWeightConfig(path); !errors.Is(err, ErrWeightConfig) {
				t.Fatalf("expected ErrWeightConfig, got %v", err)
			}
		})
	}
}

func TestNormalizedSumsToHundred(t *testing.T) {
	cfg := WeightConfig{Weights: map[string]float64{DimPrayer: 1, DimSleep: 3}}
	normalized := cfg.Normalized()

	if math.Abs(normalized.Weights[DimPrayer]-25) > 1e-9 {
		t.Fatalf("expected prayer weight 25, got %f", normalized.Weights[DimPrayer])
	}
	if math.Abs(normalized.Weights[DimSleep]-75) > 1e-9 {
		t.Fatalf("expected sleep weight 75, got %f", normalized.Weights[DimSleep])
	}
}
