package ports

import "context"

// PlayerResult is one player's final placement.
type PlayerResult struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Place    int    `json:"place"` // 1-based, winner first
	IsBot    bool   `json:"is_bot"`
}

// GameResult is the structured result handed to the persistence collaborator
// when an instance reaches finished. Partial marks results persisted from a
// force-finished instance.
type GameResult struct {
	GameID     string         `json:"game_id"`
	ProfileID  string         `json:"profile_id"`
	FinishedAt int64          `json:"finished_at"` // unix seconds
	Partial    bool           `json:"partial"`
	Players    []PlayerResult `json:"players"`
}

// ResultsPort persists game results. The engine never performs storage
// itself.
type ResultsPort interface {
	PersistResult(ctx context.Context, result GameResult) error
}
