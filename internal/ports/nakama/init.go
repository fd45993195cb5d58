package nakama

import (
	"context"
	"database/sql"

	"parlor/internal/config"
	"parlor/internal/rules"
	"parlor/internal/rules/sorry"

	"github.com/heroiclabs/nakama-common/runtime"
)

// InitModule wires rules profiles, RPCs and the match handler into the
// Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	if err := config.LoadEngineConfig("data/engine_config.json"); err != nil {
		logger.Warn("InitModule: Could not load engine config, using defaults: %v", err)
	}

	rules.Register(sorry.New(config.GetMaxMoveSlots()))

	if err := RegisterRPCs(initializer); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNameParlor, func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
		return newMatchHandler(), nil
	}); err != nil {
		return err
	}

	logger.Info("Parlor Go module loaded.")
	return nil
}
