package sorry

import (
	"fmt"
	"sort"

	"parlor/internal/rules"
)

// PlayerState holds one player's profile-owned state.
type PlayerState struct {
	ID    string
	Color int
	Pawns [PawnsPerPlayer]Pawn
}

// State is the Sorry profile state for one game instance.
type State struct {
	Players  []*PlayerState
	Deck     []string
	Discard  []string
	Drawn    string // face currently being resolved, empty between turns
	Seed     int64
	Shuffles int
}

// Clone returns a deep copy; the duration estimator simulates on clones only.
func (s *State) Clone() rules.State {
	out := &State{
		Deck:     append([]string(nil), s.Deck...),
		Discard:  append([]string(nil), s.Discard...),
		Drawn:    s.Drawn,
		Seed:     s.Seed,
		Shuffles: s.Shuffles,
	}
	out.Players = make([]*PlayerState, len(s.Players))
	for i, ps := range s.Players {
		cp := *ps
		out.Players[i] = &cp
	}
	return out
}

// player returns the state for one player id, or nil.
func (s *State) player(id string) *PlayerState {
	for _, ps := range s.Players {
		if ps.ID == id {
			return ps
		}
	}
	return nil
}

// trackOccupant returns the player and pawn index occupying a track square.
func (s *State) trackOccupant(pos int) (*PlayerState, int, bool) {
	for _, ps := range s.Players {
		for i, pw := range ps.Pawns {
			if pw.Zone == ZoneTrack && pw.Pos == pos {
				return ps, i, true
			}
		}
	}
	return nil, 0, false
}

// occupiedByOwn reports whether a destination collides with another of the
// player's own pawns. Moves with such destinations are never generated.
func occupiedByOwn(ps *PlayerState, exclude int, dest Pawn) bool {
	if dest.Zone == ZoneHome {
		// Home positions are assigned per pawn slot, never shared.
		return false
	}
	for i, pw := range ps.Pawns {
		if i == exclude {
			continue
		}
		if pw.Zone == dest.Zone && pw.Pos == dest.Pos {
			return true
		}
	}
	return false
}

// sendToStart returns a pawn to its owner's start zone.
func sendToStart(ps *PlayerState, pawnIdx int) {
	ps.Pawns[pawnIdx] = Pawn{Zone: ZoneStart, Pos: pawnIdx}
}

// placePawn moves a pawn to its destination, normalizing home positions to
// the pawn's slot index so (zone, position) pairs stay unique.
func placePawn(ps *PlayerState, pawnIdx int, dest Pawn) {
	if dest.Zone == ZoneHome {
		dest.Pos = pawnIdx
	}
	ps.Pawns[pawnIdx] = dest
}

// homeCount returns how many of a player's pawns have reached home.
func (ps *PlayerState) homeCount() int {
	n := 0
	for _, pw := range ps.Pawns {
		if pw.Zone == ZoneHome {
			n++
		}
	}
	return n
}

// progressTotal sums per-pawn advancement for standings and evaluation.
func (ps *PlayerState) progressTotal() int {
	total := 0
	for _, pw := range ps.Pawns {
		total += progress(ps.Color, pw)
	}
	return total
}

// standings orders player ids best-first: pawns home, then total progress,
// then seating order for a stable result.
func (s *State) standings() []string {
	idx := make([]int, len(s.Players))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		pa, pb := s.Players[idx[a]], s.Players[idx[b]]
		if pa.homeCount() != pb.homeCount() {
			return pa.homeCount() > pb.homeCount()
		}
		return pa.progressTotal() > pb.progressTotal()
	})
	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = s.Players[j].ID
	}
	return out
}

// checkInvariants validates the profile invariants that must hold after
// every applied move.
func (s *State) checkInvariants() error {
	for _, ps := range s.Players {
		seen := make(map[Pawn]int, PawnsPerPlayer)
		for i, pw := range ps.Pawns {
			switch pw.Zone {
			case ZoneStart, ZoneHome:
				if pw.Pos < 0 || pw.Pos >= PawnsPerPlayer {
					return fmt.Errorf("player %s pawn %d: %s position %d out of range", ps.ID, i, pw.Zone, pw.Pos)
				}
			case ZoneTrack:
				if pw.Pos < 0 || pw.Pos >= TrackLen {
					return fmt.Errorf("player %s pawn %d: track position %d out of range", ps.ID, i, pw.Pos)
				}
			case ZoneHomePath:
				if pw.Pos < 0 || pw.Pos >= HomePathLen {
					return fmt.Errorf("player %s pawn %d: home path position %d out of range", ps.ID, i, pw.Pos)
				}
			default:
				return fmt.Errorf("player %s pawn %d: unknown zone %q", ps.ID, i, pw.Zone)
			}
			if prev, dup := seen[pw]; dup {
				return fmt.Errorf("player %s pawns %d and %d share %s/%d", ps.ID, prev, i, pw.Zone, pw.Pos)
			}
			seen[pw] = i
		}
	}
	return nil
}
