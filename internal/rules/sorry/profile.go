package sorry

import (
	"errors"
	"fmt"

	"parlor/internal/rules"
)

// ProfileID is the stable identifier of the Classic 00390 ruleset.
const ProfileID = "classic_00390"

var (
	// ErrBadMove is returned when ApplyMove receives a move it did not
	// generate. The engine re-validates submitted keys before calling in.
	ErrBadMove = errors.New("sorry: move not applicable to state")
	// ErrNoCardDrawn is returned when candidates are requested or a move is
	// applied outside an open decision point.
	ErrNoCardDrawn = errors.New("sorry: no card drawn")
)

// Profile implements the rules contract for Classic Sorry. The value is
// stateless and shared read-only across all game instances of the type.
type Profile struct {
	maxSlots int
}

// New constructs the profile with the given candidate cap; non-positive
// values apply the engine default.
func New(maxSlots int) *Profile {
	if maxSlots <= 0 {
		maxSlots = rules.DefaultMaxMoveSlots
	}
	return &Profile{maxSlots: maxSlots}
}

func (p *Profile) ID() string      { return ProfileID }
func (p *Profile) MinPlayers() int { return 2 }
func (p *Profile) MaxPlayers() int { return 4 }

// Setup deals the initial state: all pawns at start, a seed-shuffled deck.
func (p *Profile) Setup(playerIDs []string, seed int64) rules.State {
	s := &State{Deck: newDeck(), Seed: seed}
	shuffleDeck(s.Deck, seed)
	for color, id := range playerIDs {
		ps := &PlayerState{ID: id, Color: color}
		for i := range ps.Pawns {
			ps.Pawns[i] = Pawn{Zone: ZoneStart, Pos: i}
		}
		s.Players = append(s.Players, ps)
	}
	return s
}

// BeginTurn draws the top card for the player, reshuffling the discard pile
// back in when the deck runs dry.
func (p *Profile) BeginTurn(st rules.State, playerID string) (rules.Context, []rules.Effect, error) {
	s, ok := st.(*State)
	if !ok {
		return rules.Context{}, nil, ErrBadMove
	}
	if s.player(playerID) == nil {
		return rules.Context{}, nil, fmt.Errorf("sorry: unknown player %s", playerID)
	}
	var effects []rules.Effect
	if len(s.Deck) == 0 {
		s.Shuffles++
		s.Deck = s.Discard
		s.Discard = nil
		shuffleDeck(s.Deck, s.Seed+int64(s.Shuffles)*31)
		effects = append(effects, rules.Effect{
			Kind:       rules.EffectBroadcast,
			MessageKey: "sorry-deck-reshuffled",
		})
	}
	s.Drawn = s.Deck[0]
	s.Deck = s.Deck[1:]
	effects = append(effects, rules.Effect{
		Kind:       rules.EffectBroadcast,
		PlayerID:   playerID,
		MessageKey: "sorry-card-drawn",
		Args:       map[string]any{"player": playerID, "card": s.Drawn},
	})
	return rules.Context{PlayerID: playerID, Card: s.Drawn}, effects, nil
}

// GenerateCandidates enumerates the capped, ordered legal moves for the
// current decision point.
func (p *Profile) GenerateCandidates(st rules.State, ctx rules.Context) rules.CandidateSet {
	s, ok := st.(*State)
	if !ok {
		return rules.CandidateSet{}
	}
	ps := s.player(ctx.PlayerID)
	if ps == nil || ctx.Card == "" {
		return rules.CandidateSet{}
	}
	return rules.Cap(generate(s, ps, ctx.Card), p.maxSlots)
}

// ApplyMove mutates state with one generated candidate and returns its
// ordered effects.
func (p *Profile) ApplyMove(st rules.State, ctx rules.Context, rm rules.Move) ([]rules.Effect, error) {
	s, ok := st.(*State)
	if !ok {
		return nil, ErrBadMove
	}
	m, ok := rm.(Move)
	if !ok {
		return nil, ErrBadMove
	}
	if s.Drawn == "" {
		return nil, ErrNoCardDrawn
	}
	ps := s.player(ctx.PlayerID)
	if ps == nil {
		return nil, fmt.Errorf("sorry: unknown player %s", ctx.PlayerID)
	}

	var effects []rules.Effect

	switch m.Kind {
	case MoveEnter:
		dest := Pawn{Zone: ZoneTrack, Pos: entrySquare(ps.Color)}
		effects = append(effects, s.bumpAt(ps, dest)...)
		placePawn(ps, m.Pawn, dest)
	case MoveForward:
		dest, ok := forwardDest(ps.Color, ps.Pawns[m.Pawn], m.Steps)
		if !ok {
			return nil, ErrBadMove
		}
		effects = append(effects, s.bumpAt(ps, dest)...)
		placePawn(ps, m.Pawn, dest)
	case MoveBackward:
		dest, ok := backwardDest(ps.Pawns[m.Pawn], m.Steps)
		if !ok {
			return nil, ErrBadMove
		}
		effects = append(effects, s.bumpAt(ps, dest)...)
		placePawn(ps, m.Pawn, dest)
	case MoveSplit:
		d1, ok := forwardDest(ps.Color, ps.Pawns[m.Pawn], m.Steps)
		if !ok {
			return nil, ErrBadMove
		}
		effects = append(effects, s.bumpAt(ps, d1)...)
		placePawn(ps, m.Pawn, d1)
		d2, ok := forwardDest(ps.Color, ps.Pawns[m.Pawn2], m.Steps2)
		if !ok {
			return nil, ErrBadMove
		}
		effects = append(effects, s.bumpAt(ps, d2)...)
		placePawn(ps, m.Pawn2, d2)
	case MoveSwap:
		opp := s.player(m.TargetID)
		if opp == nil || ps.Pawns[m.Pawn].Zone != ZoneTrack || opp.Pawns[m.TargetPawn].Zone != ZoneTrack {
			return nil, ErrBadMove
		}
		ps.Pawns[m.Pawn], opp.Pawns[m.TargetPawn] = opp.Pawns[m.TargetPawn], ps.Pawns[m.Pawn]
		effects = append(effects, rules.Effect{
			Kind:       rules.EffectBroadcast,
			MessageKey: "sorry-pawns-swapped",
			Args:       map[string]any{"player": ps.ID, "target": opp.ID},
		})
	case MoveSorry:
		opp := s.player(m.TargetID)
		if opp == nil || ps.Pawns[m.Pawn].Zone != ZoneStart || opp.Pawns[m.TargetPawn].Zone != ZoneTrack {
			return nil, ErrBadMove
		}
		square := opp.Pawns[m.TargetPawn]
		sendToStart(opp, m.TargetPawn)
		placePawn(ps, m.Pawn, square)
		effects = append(effects, rules.Effect{
			Kind:       rules.EffectPawnBumped,
			PlayerID:   opp.ID,
			MessageKey: "sorry-pawn-bumped",
			Args:       map[string]any{"player": opp.ID, "by": ps.ID},
		})
	default:
		return nil, ErrBadMove
	}

	s.Discard = append(s.Discard, s.Drawn)
	drawn := s.Drawn
	s.Drawn = ""

	if ps.homeCount() == PawnsPerPlayer {
		effects = append(effects, rules.Effect{
			Kind:      rules.EffectGameEnded,
			PlayerID:  ps.ID,
			Standings: s.standings(),
		})
		return effects, nil
	}

	// A two schedules a bonus turn instead of advancing the order.
	if drawn == CardTwo {
		effects = append(effects, rules.Effect{Kind: rules.EffectBonusTurn, PlayerID: ps.ID})
	} else {
		effects = append(effects, rules.Effect{Kind: rules.EffectAdvanceTurn})
	}
	return effects, nil
}

// Pass resolves a decision point with no legal moves.
func (p *Profile) Pass(st rules.State, ctx rules.Context) []rules.Effect {
	effects := []rules.Effect{{
		Kind:       rules.EffectBroadcast,
		PlayerID:   ctx.PlayerID,
		MessageKey: "sorry-no-moves",
		Args:       map[string]any{"player": ctx.PlayerID, "card": ctx.Card},
	}}
	if s, ok := st.(*State); ok && s.Drawn != "" {
		s.Discard = append(s.Discard, s.Drawn)
		s.Drawn = ""
	}
	return append(effects, rules.Effect{Kind: rules.EffectAdvanceTurn})
}

// CheckInvariants validates pawn accounting after every applied move.
func (p *Profile) CheckInvariants(st rules.State) error {
	s, ok := st.(*State)
	if !ok {
		return ErrBadMove
	}
	return s.checkInvariants()
}

// Finished reports whether any player has brought all four pawns home.
func (p *Profile) Finished(st rules.State) bool {
	s, ok := st.(*State)
	if !ok {
		return false
	}
	for _, ps := range s.Players {
		if ps.homeCount() == PawnsPerPlayer {
			return true
		}
	}
	return false
}

// Standings returns player ids best-first, defined mid-game for partial
// result persistence.
func (p *Profile) Standings(st rules.State) []string {
	s, ok := st.(*State)
	if !ok {
		return nil
	}
	return s.standings()
}

// Evaluate scores one player's position for the bot decision maker.
func (p *Profile) Evaluate(st rules.State, playerID string) float64 {
	s, ok := st.(*State)
	if !ok {
		return 0
	}
	ps := s.player(playerID)
	if ps == nil {
		return 0
	}
	return float64(ps.progressTotal())
}

// bumpAt returns an opponent pawn on a track destination to its start and
// reports it. Own-pawn collisions are excluded at generation time.
func (s *State) bumpAt(ps *PlayerState, dest Pawn) []rules.Effect {
	if dest.Zone != ZoneTrack {
		return nil
	}
	occ, idx, ok := s.trackOccupant(dest.Pos)
	if !ok || occ.ID == ps.ID {
		return nil
	}
	sendToStart(occ, idx)
	return []rules.Effect{{
		Kind:       rules.EffectPawnBumped,
		PlayerID:   occ.ID,
		MessageKey: "sorry-pawn-bumped",
		Args:       map[string]any{"player": occ.ID, "by": ps.ID},
	}}
}
