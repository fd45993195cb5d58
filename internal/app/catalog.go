package app

import (
	"fmt"

	"parlor/internal/bot"
	"parlor/internal/domain"
	"parlor/internal/rules"
)

// catalog declares the instance's full action set. Visibility and enablement
// are pure functions of (game, player); handlers close over the Service.
func (s *Service) catalog() []*domain.Action {
	lobby := func(g *domain.Game, p *domain.Player) bool {
		return g.Status == domain.StatusLobby
	}
	hostLobby := func(g *domain.Game, p *domain.Player) bool {
		return g.Status == domain.StatusLobby && p.ID == g.HostID
	}
	active := func(g *domain.Game, p *domain.Player) bool {
		return g.Status == domain.StatusActive && !p.Caught
	}
	myTurn := func(g *domain.Game, p *domain.Player) (bool, string) {
		id, ok := g.Turns.CurrentPlayerID()
		if !ok || id != p.ID {
			return false, "reason-not-your-turn"
		}
		return true, ""
	}

	return []*domain.Action{
		{
			ID:       "start_game",
			LabelKey: "action-start-game",
			Keybind:  "s",
			Commands: []string{"start"},
			Hidden:   func(g *domain.Game, p *domain.Player) bool { return !hostLobby(g, p) },
			Enabled: func(g *domain.Game, p *domain.Player) (bool, string) {
				if len(g.ActivePlayers()) < s.Profile.MinPlayers() {
					return false, "reason-too-few-players"
				}
				return true, ""
			},
			Handler: func(p *domain.Player, args string) error {
				events, err := s.Start(p.ID)
				s.pending = append(events, s.pending...)
				return err
			},
		},
		{
			ID:       "add_bot",
			LabelKey: "action-add-bot",
			Keybind:  "b",
			Commands: []string{"addbot", "add_bot"},
			Hidden:   func(g *domain.Game, p *domain.Player) bool { return !hostLobby(g, p) },
			Enabled: func(g *domain.Game, p *domain.Player) (bool, string) {
				if g.ActivePlayerCount() >= s.Profile.MaxPlayers() {
					return false, "reason-game-full"
				}
				return true, ""
			},
			Handler: func(p *domain.Player, args string) error {
				return s.addBot()
			},
		},
		{
			ID:       "remove_bot",
			LabelKey: "action-remove-bot",
			Keybind:  "r",
			Commands: []string{"removebot", "remove_bot"},
			Hidden:   func(g *domain.Game, p *domain.Player) bool { return !hostLobby(g, p) },
			Enabled: func(g *domain.Game, p *domain.Player) (bool, string) {
				if g.BotCount() == 0 {
					return false, "reason-no-bots"
				}
				return true, ""
			},
			Handler: func(p *domain.Player, args string) error {
				return s.removeBot()
			},
		},
		{
			ID:       "toggle_spectator",
			LabelKey: "action-toggle-spectator",
			Keybind:  "o",
			Commands: []string{"spectate"},
			Hidden:   func(g *domain.Game, p *domain.Player) bool { return !lobby(g, p) },
			Handler: func(p *domain.Player, args string) error {
				p.IsSpectator = !p.IsSpectator
				key := "lobby-now-playing"
				if p.IsSpectator {
					key = "lobby-now-spectating"
				}
				s.broadcast(key, map[string]any{"player": p.ID})
				return nil
			},
		},
		{
			ID:       "draw",
			LabelKey: "action-draw-card",
			Keybind:  "d",
			Commands: []string{"draw"},
			Hidden:   func(g *domain.Game, p *domain.Player) bool { return !active(g, p) },
			Enabled: func(g *domain.Game, p *domain.Player) (bool, string) {
				if ok, reason := myTurn(g, p); !ok {
					return false, reason
				}
				if s.awaitingChoice {
					return false, "reason-choose-first"
				}
				return true, ""
			},
			Handler: func(p *domain.Player, args string) error {
				return s.handleDraw(p)
			},
		},
		{
			ID:       "choose",
			LabelKey: "action-choose-move",
			Keybind:  "c",
			Commands: []string{"choose", "play"},
			Hidden:   func(g *domain.Game, p *domain.Player) bool { return !active(g, p) },
			Enabled: func(g *domain.Game, p *domain.Player) (bool, string) {
				if ok, reason := myTurn(g, p); !ok {
					return false, reason
				}
				if !s.awaitingChoice {
					return false, "reason-draw-first"
				}
				return true, ""
			},
			Handler: func(p *domain.Player, args string) error {
				return s.handleChoose(p, args)
			},
		},
		{
			ID:       "leave_game",
			LabelKey: "action-leave-game",
			Keybind:  "q",
			Commands: []string{"leave", "quit"},
			Handler: func(p *domain.Player, args string) error {
				events, err := s.Leave(p.ID)
				s.pending = append(events, s.pending...)
				return err
			},
		},
		{
			ID:       "whose_turn",
			LabelKey: "action-whose-turn",
			Keybind:  "w",
			Commands: []string{"turn", "whoseturn"},
			Hidden: func(g *domain.Game, p *domain.Player) bool {
				return g.Status != domain.StatusActive
			},
			Handler: func(p *domain.Player, args string) error {
				s.broadcast("game-whose-turn", map[string]any{"player": s.currentID()}, p.ID)
				return nil
			},
		},
		{
			ID:       "check_scores",
			LabelKey: "action-check-scores",
			Keybind:  "k",
			Commands: []string{"scores"},
			Hidden: func(g *domain.Game, p *domain.Player) bool {
				return g.Status == domain.StatusLobby
			},
			Handler: func(p *domain.Player, args string) error {
				standings := []string{}
				if s.State != nil {
					standings = s.Profile.Standings(s.State)
				}
				s.broadcast("game-standings", map[string]any{"order": standings}, p.ID)
				return nil
			},
		},
		{
			ID:       "estimate_duration",
			LabelKey: "action-estimate-duration",
			Keybind:  "e",
			Commands: []string{"estimate"},
			Hidden:   func(g *domain.Game, p *domain.Player) bool { return !lobby(g, p) },
			Enabled: func(g *domain.Game, p *domain.Player) (bool, string) {
				if s.Estimator == nil {
					return false, "reason-not-available"
				}
				if s.Estimator.Running() {
					return false, "reason-estimate-running"
				}
				return true, ""
			},
			Handler: func(p *domain.Player, args string) error {
				ids := make([]string, 0, s.Profile.MinPlayers())
				for _, ap := range s.G.ActivePlayers() {
					ids = append(ids, ap.ID)
				}
				for i := len(ids); i < s.Profile.MinPlayers(); i++ {
					ids = append(ids, fmt.Sprintf("sim-%d", i))
				}
				if err := s.Estimator.Start(s.Profile, ids, s.G.Seed); err != nil {
					return err
				}
				s.broadcast("estimate-started", nil)
				return nil
			},
		},
	}
}

func (s *Service) addBot() error {
	id := bot.NewBotID()
	name := bot.NameFor(s.G.BotCount())
	events, err := s.Join(id, name, true)
	s.pending = append(events, s.pending...)
	return err
}

func (s *Service) removeBot() error {
	var last *domain.Player
	for _, p := range s.G.Players {
		if p.IsBot {
			last = p
		}
	}
	if last == nil {
		return ErrNoBotsToRemove
	}
	events, err := s.Leave(last.ID)
	s.pending = append(events, s.pending...)
	return err
}

// handleDraw opens the turn: draw a card, generate candidates. An empty
// candidate set resolves immediately as a pass; otherwise the decision
// point stays open until a choice arrives.
func (s *Service) handleDraw(p *domain.Player) error {
	ctx, effects, err := s.Profile.BeginTurn(s.State, p.ID)
	if err != nil {
		return err
	}
	if err := s.applyEffects(effects); err != nil {
		return s.failInvariant(err)
	}

	set := s.Profile.GenerateCandidates(s.State, ctx)
	if set.Empty() {
		s.ctx = ctx
		return s.passNow()
	}

	s.ctx = ctx
	s.awaitingChoice = true

	views := make([]CandidateView, len(set.Moves))
	for i, m := range set.Moves {
		key, args := m.Label()
		views[i] = CandidateView{Key: m.Key(), LabelKey: key, Args: args}
	}
	s.emit(Event{
		Kind: EventCandidates,
		Payload: CandidatesPayload{
			PlayerID:  p.ID,
			Card:      ctx.Card,
			Moves:     views,
			Truncated: set.Truncated,
		},
		Recipients: []string{p.ID},
	})
	return nil
}

// handleChoose validates the submitted move key against a freshly generated
// candidate set, applies it, checks invariants and folds the effects.
func (s *Service) handleChoose(p *domain.Player, moveKey string) error {
	set := s.Profile.GenerateCandidates(s.State, s.ctx)
	move := set.Find(moveKey)
	if move == nil {
		return fmt.Errorf("%w: %q", ErrIllegalMove, moveKey)
	}

	effects, err := s.Profile.ApplyMove(s.State, s.ctx, move)
	if err != nil {
		return fmt.Errorf("apply move %q: %w", moveKey, err)
	}
	s.awaitingChoice = false
	s.ctx = rules.Context{}

	if err := s.Profile.CheckInvariants(s.State); err != nil {
		return s.failInvariant(fmt.Errorf("%w: %v", ErrInvariantViolation, err))
	}
	if err := s.applyEffects(effects); err != nil {
		return s.failInvariant(err)
	}
	return nil
}

// failInvariant force-finishes the instance with a partial result rather
// than let a corrupt state keep playing.
func (s *Service) failInvariant(cause error) error {
	s.broadcast("game-aborted", nil)
	s.finish(true)
	return cause
}

// BotAutoFillCount reports how many bots a solo lobby needs to reach the
// profile minimum. Zero when the lobby holds enough players or more than
// one human.
func (s *Service) BotAutoFillCount() int {
	if s.G.Status != domain.StatusLobby {
		return 0
	}
	if s.G.HumanCount() != 1 {
		return 0
	}
	missing := s.Profile.MinPlayers() - s.G.ActivePlayerCount()
	if missing < 0 {
		return 0
	}
	return missing
}

// AutoFillBots adds bots up to the profile minimum for a solo lobby.
func (s *Service) AutoFillBots() ([]Event, error) {
	n := s.BotAutoFillCount()
	for i := 0; i < n; i++ {
		if err := s.addBot(); err != nil {
			return s.drain(), err
		}
	}
	if n > 0 {
		s.broadcast("lobby-bots-added", map[string]any{"count": n})
	}
	return s.drain(), nil
}
