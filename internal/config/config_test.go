package config

import (
	"os"
	"path/filepath"
	"testing"
)

func withConfig(t *testing.T, c *EngineConfig) {
	t.Helper()
	old := cfg
	cfg = c
	t.Cleanup(func() { cfg = old })
}

func TestDefaultsWithoutConfig(t *testing.T) {
	withConfig(t, nil)

	if got := GetDefaultProfile(); got != "classic_00390" {
		t.Errorf("GetDefaultProfile() = %q, want classic_00390", got)
	}
	if got := GetMaxMoveSlots(); got != 64 {
		t.Errorf("GetMaxMoveSlots() = %d, want 64", got)
	}
	if min, max := GetBotDelays(); min != 1 || max != 3 {
		t.Errorf("GetBotDelays() = (%d, %d), want (1, 3)", min, max)
	}
	if got := GetBotAutoFillDelay(); got != 5 {
		t.Errorf("GetBotAutoFillDelay() = %d, want 5", got)
	}
	if est := GetEstimatorConfig(); est != (EstimatorConfig{}) {
		t.Errorf("GetEstimatorConfig() = %+v, want zero value", est)
	}
}

func TestGetBotDelaysClampsMax(t *testing.T) {
	withConfig(t, &EngineConfig{BotMinDelaySeconds: 4, BotMaxDelaySeconds: 2})

	min, max := GetBotDelays()
	if min != 4 || max != 4 {
		t.Errorf("GetBotDelays() = (%d, %d), want (4, 4)", min, max)
	}
}

func TestGettersUseLoadedValues(t *testing.T) {
	withConfig(t, &EngineConfig{
		DefaultProfile:          "classic_00390",
		MaxMoveSlots:            16,
		BotMinDelaySeconds:      2,
		BotMaxDelaySeconds:      6,
		BotAutoFillDelaySeconds: 10,
		Estimator:               EstimatorConfig{Simulations: 12, TickBudget: 2000},
	})

	if got := GetMaxMoveSlots(); got != 16 {
		t.Errorf("GetMaxMoveSlots() = %d, want 16", got)
	}
	if min, max := GetBotDelays(); min != 2 || max != 6 {
		t.Errorf("GetBotDelays() = (%d, %d), want (2, 6)", min, max)
	}
	if got := GetBotAutoFillDelay(); got != 10 {
		t.Errorf("GetBotAutoFillDelay() = %d, want 10", got)
	}
	if est := GetEstimatorConfig(); est.Simulations != 12 || est.TickBudget != 2000 {
		t.Errorf("GetEstimatorConfig() = %+v", est)
	}
}

func TestLoadEngineConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine_config.json")
	body := `{
		"default_profile": "classic_00390",
		"max_move_slots": 32,
		"bot_min_delay_seconds": 1,
		"bot_max_delay_seconds": 2,
		"bot_auto_fill_delay_seconds": 3,
		"estimator": {"simulations": 20, "tick_budget": 4000, "min_success": 5, "human_speed_multiplier": 6.0, "tick_seconds": 2}
	}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := LoadEngineConfig(path); err != nil {
		t.Fatalf("LoadEngineConfig: %v", err)
	}
	loaded := GetEngineConfig()
	if loaded == nil {
		t.Fatal("GetEngineConfig() = nil after load")
	}
	if loaded.MaxMoveSlots != 32 {
		t.Errorf("MaxMoveSlots = %d, want 32", loaded.MaxMoveSlots)
	}
	if loaded.Estimator.Simulations != 20 || loaded.Estimator.TickSeconds != 2 {
		t.Errorf("Estimator = %+v", loaded.Estimator)
	}
}
