package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"parlor/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

const (
	resultsCollection = "game_results"
)

// NakamaResultsAdapter implements ports.ResultsPort against Nakama's storage
// engine. Results are written under a system-owned collection keyed by game
// id so finished and force-finished games stay queryable.
type NakamaResultsAdapter struct {
	nk     runtime.NakamaModule
	logger runtime.Logger
}

// NewResultsAdapter creates a new results adapter.
func NewResultsAdapter(nk runtime.NakamaModule, logger runtime.Logger) *NakamaResultsAdapter {
	return &NakamaResultsAdapter{nk: nk, logger: logger}
}

// PersistResult stores the structured game result.
func (a *NakamaResultsAdapter) PersistResult(ctx context.Context, result ports.GameResult) error {
	value, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal game result %s: %w", result.GameID, err)
	}

	_, err = a.nk.StorageWrite(ctx, []*runtime.StorageWrite{{
		Collection:      resultsCollection,
		Key:             result.GameID,
		Value:           string(value),
		PermissionRead:  2,
		PermissionWrite: 0,
	}})
	if err != nil {
		a.logger.Error("PersistResult: Failed to store result for game %s: %v", result.GameID, err)
		return fmt.Errorf("store game result %s: %w", result.GameID, err)
	}
	return nil
}

var _ ports.ResultsPort = (*NakamaResultsAdapter)(nil)
