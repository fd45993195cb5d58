package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"parlor/internal/bot"
	"parlor/internal/domain"
	"parlor/internal/estimate"
	"parlor/internal/ports"
	"parlor/internal/rules"
)

var (
	ErrNotHost            = errors.New("actor is not the host")
	ErrNotInLobby         = errors.New("game not in lobby")
	ErrGameFinished       = errors.New("game already finished")
	ErrGameFull           = errors.New("game is full")
	ErrTooFewPlayers      = errors.New("not enough players to start")
	ErrUnknownPlayer      = errors.New("player not found")
	ErrIllegalMove        = errors.New("move not in current candidate list")
	ErrNoBotsToRemove     = errors.New("no bots to remove")
	ErrInvariantViolation = errors.New("profile invariant violated")
)

// Service is the game state machine for one instance. It composes the turn
// manager, action registry, rules profile, bot decision maker and duration
// estimator, and emits Events for the hosting port to dispatch.
//
// All methods must be called from the instance's single writer (the match
// loop); the Service performs no locking of its own.
type Service struct {
	G        *domain.Game
	Profile  rules.Profile
	State    rules.State
	Registry *domain.Registry
	Results  ports.ResultsPort

	Estimator *estimate.Estimator
	Brain     bot.Brain

	// Current decision point: set while a drawn card awaits a choice.
	ctx            rules.Context
	awaitingChoice bool

	// pending buffers events emitted by action handlers during execution.
	pending []Event
}

// NewService constructs the state machine for a fresh lobby instance and
// builds its immutable action catalog.
func NewService(g *domain.Game, profile rules.Profile, results ports.ResultsPort, est *estimate.Estimator) *Service {
	brain, _ := bot.NewBrain(bot.LevelGreedy)
	s := &Service{
		G:         g,
		Profile:   profile,
		Results:   results,
		Estimator: est,
		Brain:     brain,
	}
	s.Registry = domain.NewRegistry(s.catalog()...)
	return s
}

func (s *Service) emit(ev Event) {
	s.pending = append(s.pending, ev)
}

func (s *Service) broadcast(key string, args map[string]any, to ...string) {
	s.emit(Event{
		Kind:       EventBroadcast,
		Payload:    BroadcastPayload{MessageKey: key, Args: args},
		Recipients: to,
	})
}

// drain returns and clears the buffered events.
func (s *Service) drain() []Event {
	out := s.pending
	s.pending = nil
	return out
}

// Join adds a player in the lobby. Capacity follows the profile.
func (s *Service) Join(playerID, name string, isBot bool) ([]Event, error) {
	if s.G.Status != domain.StatusLobby {
		return nil, ErrNotInLobby
	}
	if s.G.ActivePlayerCount() >= s.Profile.MaxPlayers() {
		return nil, ErrGameFull
	}
	if s.G.PlayerByID(playerID) != nil {
		return nil, nil // rejoin, nothing to do
	}
	s.G.AddPlayer(&domain.Player{ID: playerID, Name: name, IsBot: isBot})
	s.emit(Event{
		Kind:    EventPlayerJoined,
		Payload: PlayerJoinedPayload{PlayerID: playerID, Name: name, IsBot: isBot},
	})
	s.emit(Event{Kind: EventMenuRebuild})
	return s.drain(), nil
}

// Leave removes a player in the lobby, or marks them caught once active so
// the remaining turn order stays coherent.
func (s *Service) Leave(playerID string) ([]Event, error) {
	p := s.G.PlayerByID(playerID)
	if p == nil {
		return nil, ErrUnknownPlayer
	}
	switch s.G.Status {
	case domain.StatusLobby:
		s.G.RemovePlayer(playerID)
	case domain.StatusActive:
		if s.currentID() == playerID && s.awaitingChoice {
			// The leaver abandons an open decision point. Resolve it
			// through the profile as a pass so the drawn card is
			// discarded and stays in circulation.
			if err := s.passNow(); err != nil {
				s.broadcast("game-aborted", nil)
				s.finish(true)
				return s.drain(), err
			}
		}
		p.Caught = true
		s.G.Turns.RemoveTurnPlayer(playerID)
		s.broadcast("game-player-abandoned", map[string]any{"player": playerID})
	default:
		return nil, ErrGameFinished
	}
	s.emit(Event{Kind: EventPlayerLeft, Payload: PlayerLeftPayload{PlayerID: playerID}})
	s.emit(Event{Kind: EventMenuRebuild})
	return s.drain(), nil
}

// Start transitions lobby to active: profile setup, turn order, first turn.
func (s *Service) Start(requesterID string) ([]Event, error) {
	if s.G.Status != domain.StatusLobby {
		return nil, ErrNotInLobby
	}
	if requesterID != s.G.HostID {
		return nil, ErrNotHost
	}
	active := s.G.ActivePlayers()
	if len(active) < s.Profile.MinPlayers() {
		return nil, ErrTooFewPlayers
	}

	ids := make([]string, len(active))
	for i, p := range active {
		ids[i] = p.ID
	}
	s.State = s.Profile.Setup(ids, s.G.Seed)
	s.G.Turns.ResetTurnOrder()
	s.G.Turns.SetTurnPlayers(ids)
	s.G.Status = domain.StatusActive

	s.emit(Event{
		Kind: EventGameStarted,
		Payload: GameStartedPayload{
			ProfileID:   s.Profile.ID(),
			TurnOrder:   ids,
			FirstTurnID: ids[0],
		},
	})
	s.broadcast("game-started", map[string]any{"first": ids[0]})
	s.emit(Event{Kind: EventMenuRebuild})
	return s.drain(), nil
}

// ExecuteInput resolves raw input (typed command or keybind) to an action
// and executes it. Unknown input is reported, never silently ignored.
func (s *Service) ExecuteInput(playerID, raw, args string) ([]Event, error) {
	actionID, err := s.Registry.FindAction(raw)
	if err != nil {
		return nil, err
	}
	return s.ExecuteAction(playerID, actionID, args)
}

// ExecuteAction runs the execute pipeline: predicate validation with distinct
// rejection reasons, handler invocation, then the broadcast and menu-rebuild
// triggers every successful execution carries.
func (s *Service) ExecuteAction(playerID, actionID, args string) ([]Event, error) {
	p := s.G.PlayerByID(playerID)
	if p == nil {
		return nil, ErrUnknownPlayer
	}
	a := s.Registry.Get(actionID)
	if a == nil {
		return nil, domain.ErrUnknownAction
	}

	resolved, err := s.Registry.ResolveAction(s.G, p, actionID)
	if err != nil {
		return nil, err
	}
	if resolved.Hidden {
		return s.reject(p, actionID, "reason-not-available"), domain.ErrActionHidden
	}
	if !resolved.Enabled {
		reason := resolved.Reason
		if reason == "" {
			reason = "reason-not-now"
		}
		return s.reject(p, actionID, reason), fmt.Errorf("%w: %s", domain.ErrActionDisabled, reason)
	}

	if err := a.Handler(p, args); err != nil {
		events := s.drain()
		return events, err
	}

	s.emit(Event{Kind: EventMenuRebuild})
	return s.drain(), nil
}

func (s *Service) reject(p *domain.Player, actionID, reasonKey string) []Event {
	s.emit(Event{
		Kind:       EventRejected,
		Payload:    RejectedPayload{PlayerID: p.ID, ActionID: actionID, ReasonKey: reasonKey},
		Recipients: []string{p.ID},
	})
	return s.drain()
}

// MenuSnapshot returns the personalized, ordered action catalog for a player.
func (s *Service) MenuSnapshot(playerID string) []domain.Resolved {
	p := s.G.PlayerByID(playerID)
	if p == nil {
		return nil
	}
	return s.Registry.Snapshot(s.G, p)
}

// AwaitingChoice reports whether a drawn card is waiting on a move choice.
func (s *Service) AwaitingChoice() bool { return s.awaitingChoice }

// CurrentCandidates regenerates the candidate set for the open decision
// point. Always fresh: submitted moves are validated against this, never
// against a stored list.
func (s *Service) CurrentCandidates() rules.CandidateSet {
	if !s.awaitingChoice {
		return rules.CandidateSet{}
	}
	return s.Profile.GenerateCandidates(s.State, s.ctx)
}

func (s *Service) currentID() string {
	id, ok := s.G.Turns.CurrentPlayerID()
	if !ok {
		return ""
	}
	return id
}

// BotTick lets the bot whose turn it is take one step (draw, or choose).
// Bots act only at their own designated turn, between human actions.
func (s *Service) BotTick() ([]Event, error) {
	if s.G.Status != domain.StatusActive {
		return nil, nil
	}
	current := s.G.CurrentPlayer()
	if current == nil || !current.IsBot {
		return nil, nil
	}
	if !s.awaitingChoice {
		return s.ExecuteAction(current.ID, "draw", "")
	}

	set := s.CurrentCandidates()
	move, ok := s.Brain.CalculateMove(s.Profile, s.State, s.ctx, set)
	if !ok {
		// Empty candidate lists resolve during draw; reaching here means
		// the open decision point lost its moves, so fall back to pass.
		return s.resolvePass()
	}
	return s.ExecuteAction(current.ID, "choose", move.Key())
}

// passNow resolves the open decision point as a pass, emitting into the
// pending buffer without draining it.
func (s *Service) passNow() error {
	effects := s.Profile.Pass(s.State, s.ctx)
	s.awaitingChoice = false
	s.ctx = rules.Context{}
	return s.applyEffects(effects)
}

func (s *Service) resolvePass() ([]Event, error) {
	err := s.passNow()
	s.emit(Event{Kind: EventMenuRebuild})
	return s.drain(), err
}

// CheckEstimate polls the duration estimator and reports the aggregate once
// ready. Safe to call every tick.
func (s *Service) CheckEstimate() []Event {
	if s.Estimator == nil {
		return nil
	}
	report, done := s.Estimator.CheckCompletion()
	if !done {
		return nil
	}
	key, args := estimate.FormatEstimate(report)
	if args == nil {
		args = map[string]any{}
	}
	args["succeeded"] = report.Succeeded
	args["failed"] = report.Failed
	s.broadcast(key, args)
	return s.drain()
}

// applyEffects folds profile effects into the engine: turn advancement,
// bonus turns, skips, direction, eliminations and game end.
func (s *Service) applyEffects(effects []rules.Effect) error {
	for _, ef := range effects {
		switch ef.Kind {
		case rules.EffectBroadcast:
			s.broadcast(ef.MessageKey, ef.Args)
		case rules.EffectPawnBumped:
			s.broadcast(ef.MessageKey, ef.Args)
		case rules.EffectBonusTurn:
			s.broadcast("game-bonus-turn", map[string]any{"player": ef.PlayerID})
		case rules.EffectSkipPlayers:
			s.G.Turns.SkipNextPlayers(ef.PlayerID, ef.N)
		case rules.EffectReverseDirection:
			s.G.Turns.ReverseTurnDirection()
		case rules.EffectPlayerEliminated:
			if p := s.G.PlayerByID(ef.PlayerID); p != nil {
				p.Caught = true
			}
			s.G.Turns.RemoveTurnPlayer(ef.PlayerID)
			s.broadcast("game-player-eliminated", map[string]any{"player": ef.PlayerID})
		case rules.EffectAdvanceTurn:
			skipped, err := s.G.Turns.AdvanceTurn()
			for _, id := range skipped {
				s.emit(Event{Kind: EventPlayerSkipped, Payload: PlayerSkippedPayload{PlayerID: id}})
				s.broadcast("game-player-skipped", map[string]any{"player": id})
			}
			if err != nil {
				return err
			}
			s.emit(Event{Kind: EventTurnAdvanced, Payload: TurnAdvancedPayload{PlayerID: s.currentID()}})
		case rules.EffectGameEnded:
			s.finish(false)
		}
	}
	return nil
}

// finish transitions to finished, persists the structured result through the
// results port and emits the terminal event. partial marks force-finished
// instances.
func (s *Service) finish(partial bool) {
	if s.G.Status == domain.StatusFinished {
		return
	}
	s.G.Status = domain.StatusFinished

	result := ports.GameResult{
		GameID:     s.G.ID,
		ProfileID:  s.G.ProfileID,
		FinishedAt: time.Now().Unix(),
		Partial:    partial,
	}
	var standings []string
	if s.State != nil {
		standings = s.Profile.Standings(s.State)
	}
	for i, id := range standings {
		name, isBot := id, false
		if p := s.G.PlayerByID(id); p != nil {
			name, isBot = p.Name, p.IsBot
		}
		result.Players = append(result.Players, ports.PlayerResult{
			PlayerID: id,
			Name:     name,
			Place:    i + 1,
			IsBot:    isBot,
		})
	}

	if s.Results != nil {
		// Persistence failures must not take down the instance; the port
		// layer logs them.
		_ = s.Results.PersistResult(context.Background(), result)
	}

	s.emit(Event{
		Kind:    EventGameEnded,
		Payload: GameEndedPayload{Result: result, Aborted: partial},
	})
	s.emit(Event{Kind: EventMenuRebuild})
}

// ForceFinish aborts the instance, persisting a partial result. Used for
// invariant violations and stalled turn orders; the violation never crosses
// into other instances.
func (s *Service) ForceFinish(reasonKey string) []Event {
	s.broadcast(reasonKey, nil)
	s.finish(true)
	return s.drain()
}
