// Package rules defines the contract a per-game rules profile must satisfy:
// pure candidate-move generation and move application over profile-owned
// state. One profile value exists per game type and is shared read-only
// across every instance of that type.
package rules

// State is the profile-owned portion of a game instance's state. Clone must
// produce a fully independent deep copy; the duration estimator simulates
// exclusively on clones.
type State interface {
	Clone() State
}

// Context carries the triggering input for one decision point, e.g. the
// drawn card value. Candidate generation is a pure function of
// (state, context, profile).
type Context struct {
	PlayerID string
	Card     string
}

// Move is one pure, fully-specified candidate transformation of game state.
// Key returns a stable identity used for wire transport and for re-validating
// submitted moves against a freshly generated candidate list. Label returns
// the human-facing message key and args; rendering is external.
type Move interface {
	Key() string
	Label() (string, map[string]any)
}

// EffectKind identifies a semantic event produced by applying a move.
type EffectKind string

const (
	// EffectAdvanceTurn asks the engine to advance the turn order.
	EffectAdvanceTurn EffectKind = "advance_turn"
	// EffectBonusTurn grants the acting player another decision point
	// instead of advancing.
	EffectBonusTurn EffectKind = "bonus_turn"
	// EffectPawnBumped reports a captured opponent piece.
	EffectPawnBumped EffectKind = "pawn_bumped"
	// EffectPlayerEliminated removes a player from the turn order.
	EffectPlayerEliminated EffectKind = "player_eliminated"
	// EffectSkipPlayers adds pending skips for a player.
	EffectSkipPlayers EffectKind = "skip_players"
	// EffectReverseDirection flips the turn direction.
	EffectReverseDirection EffectKind = "reverse_direction"
	// EffectGameEnded reports the terminal condition with final standings.
	EffectGameEnded EffectKind = "game_ended"
	// EffectBroadcast carries a structured message for all players.
	EffectBroadcast EffectKind = "broadcast"
)

// Effect is one semantic event yielded by applying a move, in order.
type Effect struct {
	Kind       EffectKind
	PlayerID   string
	N          int
	MessageKey string
	Args       map[string]any
	Standings  []string // EffectGameEnded only, winner first
}

// Profile declares per-game behavior. Implementations must be stateless and
// safe for concurrent read-only use across instances; all mutable state
// lives in the State values they produce.
type Profile interface {
	// ID is the stable profile identifier (e.g. "classic_00390").
	ID() string
	MinPlayers() int
	MaxPlayers() int

	// Setup deals the initial profile state for the given players. The seed
	// fixes every later in-profile random draw so playouts are reproducible.
	Setup(playerIDs []string, seed int64) State

	// BeginTurn opens a decision point for the player (e.g. draws a card)
	// and returns the context plus any immediate effects.
	BeginTurn(s State, playerID string) (Context, []Effect, error)

	// GenerateCandidates returns the ordered, capped candidate-move list for
	// the decision point. Pure: identical (state, context) inputs yield
	// identical ordered lists.
	GenerateCandidates(s State, ctx Context) CandidateSet

	// ApplyMove mutates state with one generated candidate and returns the
	// ordered effects. Moves not produced by GenerateCandidates are rejected
	// by the engine before this is called.
	ApplyMove(s State, ctx Context, m Move) ([]Effect, error)

	// Pass resolves a decision point with no candidates; the engine never
	// stalls waiting for a choice that cannot be made.
	Pass(s State, ctx Context) []Effect

	// CheckInvariants validates profile invariants after every applied move.
	// A non-nil error is fatal to the instance.
	CheckInvariants(s State) error

	// Finished reports whether the terminal condition holds.
	Finished(s State) bool

	// Standings returns player ids best-first for result reporting, defined
	// even mid-game so partial results can be persisted.
	Standings(s State) []string
}

// Evaluator is an optional profile extension: a deterministic positional
// score for one player, used by the bot decision maker to rank candidate
// outcomes. Higher is better.
type Evaluator interface {
	Evaluate(s State, playerID string) float64
}
