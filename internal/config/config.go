package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// EstimatorConfig carries the duration-estimator knobs.
type EstimatorConfig struct {
	Simulations          int     `json:"simulations"`
	TickBudget           int     `json:"tick_budget"`
	MinSuccess           int     `json:"min_success"`
	HumanSpeedMultiplier float64 `json:"human_speed_multiplier"`
	TickSeconds          int     `json:"tick_seconds"`
}

// EngineConfig is the engine-wide configuration loaded at plugin init.
type EngineConfig struct {
	// DefaultProfile is the game type hosted when match params name none.
	DefaultProfile string `json:"default_profile"`
	// MaxMoveSlots caps generated candidate lists.
	MaxMoveSlots int `json:"max_move_slots"`
	// BotMinDelaySeconds and BotMaxDelaySeconds pace bot turns in live play.
	BotMinDelaySeconds int `json:"bot_min_delay_seconds"`
	BotMaxDelaySeconds int `json:"bot_max_delay_seconds"`
	// BotAutoFillDelaySeconds configures how long a solo human lobby waits
	// before bots are added.
	BotAutoFillDelaySeconds int             `json:"bot_auto_fill_delay_seconds"`
	Estimator               EstimatorConfig `json:"estimator"`
}

var (
	cfg      *EngineConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadEngineConfig loads the engine configuration from the given path.
func LoadEngineConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read engine config: %w", err)
			return
		}

		var c EngineConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal engine config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetEngineConfig returns the loaded configuration, or nil when loading
// failed; use the getters below for safe defaults.
func GetEngineConfig() *EngineConfig {
	return cfg
}

// GetDefaultProfile returns the configured default game type.
func GetDefaultProfile() string {
	if cfg == nil || cfg.DefaultProfile == "" {
		return "classic_00390"
	}
	return cfg.DefaultProfile
}

// GetMaxMoveSlots returns the candidate cap.
func GetMaxMoveSlots() int {
	if cfg == nil || cfg.MaxMoveSlots <= 0 {
		return 64
	}
	return cfg.MaxMoveSlots
}

// GetBotDelays returns the min and max bot think delay in seconds.
func GetBotDelays() (int, int) {
	min, max := 1, 3
	if cfg != nil && cfg.BotMinDelaySeconds > 0 {
		min = cfg.BotMinDelaySeconds
	}
	if cfg != nil && cfg.BotMaxDelaySeconds >= min {
		max = cfg.BotMaxDelaySeconds
	}
	if max < min {
		max = min
	}
	return min, max
}

// GetBotAutoFillDelay returns the solo-lobby auto-fill delay in seconds.
func GetBotAutoFillDelay() int {
	if cfg == nil || cfg.BotAutoFillDelaySeconds <= 0 {
		return 5
	}
	return cfg.BotAutoFillDelaySeconds
}

// GetEstimatorConfig returns the estimator knobs with zero values left for
// the estimator's own defaults.
func GetEstimatorConfig() EstimatorConfig {
	if cfg == nil {
		return EstimatorConfig{}
	}
	return cfg.Estimator
}
