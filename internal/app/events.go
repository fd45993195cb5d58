package app

import "parlor/internal/ports"

// EventKind identifies emitted engine events for port dispatch.
type EventKind string

const (
	EventPlayerJoined  EventKind = "player_joined"
	EventPlayerLeft    EventKind = "player_left"
	EventGameStarted   EventKind = "game_started"
	EventGameEnded     EventKind = "game_ended"
	EventTurnAdvanced  EventKind = "turn_advanced"
	EventPlayerSkipped EventKind = "player_skipped"
	EventCandidates    EventKind = "candidates"
	EventBroadcast     EventKind = "broadcast"
	EventRejected      EventKind = "action_rejected"
	EventMenuRebuild   EventKind = "menu_rebuild"
)

// Event is an engine event with optional targeted recipients. An empty
// Recipients slice means broadcast to everyone. Dispatch is fire-and-forget
// from the engine's perspective.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string
}

type PlayerJoinedPayload struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	IsBot    bool   `json:"is_bot"`
}

type PlayerLeftPayload struct {
	PlayerID string `json:"player_id"`
}

type GameStartedPayload struct {
	ProfileID   string   `json:"profile_id"`
	TurnOrder   []string `json:"turn_order"`
	FirstTurnID string   `json:"first_turn_id"`
}

type GameEndedPayload struct {
	Result  ports.GameResult `json:"result"`
	Aborted bool             `json:"aborted"`
}

type TurnAdvancedPayload struct {
	PlayerID string `json:"player_id"`
}

type PlayerSkippedPayload struct {
	PlayerID string `json:"player_id"`
}

// CandidateView is one move offered to the deciding player.
type CandidateView struct {
	Key      string         `json:"key"`
	LabelKey string         `json:"label_key"`
	Args     map[string]any `json:"args,omitempty"`
}

type CandidatesPayload struct {
	PlayerID string          `json:"player_id"`
	Card     string          `json:"card"`
	Moves    []CandidateView `json:"moves"`
	// Truncated surfaces that the true candidate count exceeded the cap and
	// the list was cut in declared order.
	Truncated bool `json:"truncated"`
}

// BroadcastPayload is a structured message: key plus args. Rendering and
// localization are external.
type BroadcastPayload struct {
	MessageKey string         `json:"message_key"`
	Args       map[string]any `json:"args,omitempty"`
}

type RejectedPayload struct {
	PlayerID  string `json:"player_id"`
	ActionID  string `json:"action_id"`
	ReasonKey string `json:"reason_key"`
}
