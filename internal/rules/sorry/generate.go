package sorry

import "parlor/internal/rules"

// generate enumerates every legal move for the drawn face in declared order:
// pawns ascending, simple movement before special variants, opponents in
// seating order. The ordering is the truncation order when the cap is hit
// and the tie-break order for the bot, so it must stay stable.
func generate(s *State, ps *PlayerState, face string) []rules.Move {
	var moves []rules.Move

	switch face {
	case CardOne, CardTwo:
		n := steps[face]
		for i := range ps.Pawns {
			if m, ok := enterMove(s, ps, i); ok {
				moves = append(moves, m)
			}
		}
		moves = append(moves, forwardMoves(s, ps, face, n)...)
	case CardThree, CardFive, CardEight, CardTwelve:
		moves = append(moves, forwardMoves(s, ps, face, steps[face])...)
	case CardFour:
		moves = append(moves, backwardMoves(s, ps, face, 4)...)
	case CardSeven:
		moves = append(moves, forwardMoves(s, ps, face, 7)...)
		moves = append(moves, splitMoves(s, ps)...)
	case CardTen:
		moves = append(moves, forwardMoves(s, ps, face, 10)...)
		moves = append(moves, backwardMoves(s, ps, face, 1)...)
	case CardEleven:
		moves = append(moves, forwardMoves(s, ps, face, 11)...)
		moves = append(moves, swapMoves(s, ps)...)
	case CardSorry:
		moves = append(moves, sorryMoves(s, ps)...)
	}

	return moves
}

// forwardMove resolves one pawn's forward movement, rejecting overshoot and
// own-pawn collisions. Landing on an opponent is legal (a bump).
func forwardMove(s *State, ps *PlayerState, pawnIdx, n int) (Pawn, bool) {
	dest, ok := forwardDest(ps.Color, ps.Pawns[pawnIdx], n)
	if !ok || occupiedByOwn(ps, pawnIdx, dest) {
		return Pawn{}, false
	}
	return dest, true
}

func forwardMoves(s *State, ps *PlayerState, face string, n int) []rules.Move {
	var moves []rules.Move
	for i := range ps.Pawns {
		if _, ok := forwardMove(s, ps, i, n); ok {
			moves = append(moves, Move{Card: face, Kind: MoveForward, Pawn: i, Steps: n})
		}
	}
	return moves
}

func backwardMoves(s *State, ps *PlayerState, face string, n int) []rules.Move {
	var moves []rules.Move
	for i := range ps.Pawns {
		dest, ok := backwardDest(ps.Pawns[i], n)
		if !ok || occupiedByOwn(ps, i, dest) {
			continue
		}
		moves = append(moves, Move{Card: face, Kind: MoveBackward, Pawn: i, Steps: n})
	}
	return moves
}

func enterMove(s *State, ps *PlayerState, pawnIdx int) (rules.Move, bool) {
	if ps.Pawns[pawnIdx].Zone != ZoneStart {
		return nil, false
	}
	dest := Pawn{Zone: ZoneTrack, Pos: entrySquare(ps.Color)}
	if occupiedByOwn(ps, pawnIdx, dest) {
		return nil, false
	}
	return Move{Card: s.Drawn, Kind: MoveEnter, Pawn: pawnIdx}, true
}

// splitMoves enumerates every way to distribute seven forward squares across
// two distinct pawns. Pawn pairs are unordered (j > i) with the first share
// ranging over 1..6, so each distinct play appears exactly once. This is the
// profile's main pressure on the candidate cap in four-player games.
func splitMoves(s *State, ps *PlayerState) []rules.Move {
	var moves []rules.Move
	for i := range ps.Pawns {
		for j := i + 1; j < len(ps.Pawns); j++ {
			for a := 1; a <= 6; a++ {
				b := 7 - a
				di, ok := forwardDest(ps.Color, ps.Pawns[i], a)
				if !ok {
					continue
				}
				dj, ok := forwardDest(ps.Color, ps.Pawns[j], b)
				if !ok {
					continue
				}
				if di == dj {
					continue
				}
				// Each destination must be clear of the player's other
				// pawns, excluding the split partner's vacated square.
				if splitBlocked(ps, i, j, di) || splitBlocked(ps, j, i, dj) {
					continue
				}
				moves = append(moves, Move{
					Card: CardSeven, Kind: MoveSplit,
					Pawn: i, Steps: a, Pawn2: j, Steps2: b,
				})
			}
		}
	}
	return moves
}

// splitBlocked checks a split destination against the player's own pawns,
// ignoring both pawns taking part in the split.
func splitBlocked(ps *PlayerState, moving, partner int, dest Pawn) bool {
	if dest.Zone == ZoneHome {
		return false
	}
	for k, pw := range ps.Pawns {
		if k == moving || k == partner {
			continue
		}
		if pw.Zone == dest.Zone && pw.Pos == dest.Pos {
			return true
		}
	}
	return false
}

// swapMoves enumerates card-11 exchanges between an own track pawn and an
// opponent track pawn.
func swapMoves(s *State, ps *PlayerState) []rules.Move {
	var moves []rules.Move
	for i := range ps.Pawns {
		if ps.Pawns[i].Zone != ZoneTrack {
			continue
		}
		for _, opp := range s.Players {
			if opp.ID == ps.ID {
				continue
			}
			for j := range opp.Pawns {
				if opp.Pawns[j].Zone != ZoneTrack {
					continue
				}
				moves = append(moves, Move{
					Card: CardEleven, Kind: MoveSwap,
					Pawn: i, TargetID: opp.ID, TargetPawn: j,
				})
			}
		}
	}
	return moves
}

// sorryMoves enumerates takes of an opponent track square by a start pawn.
func sorryMoves(s *State, ps *PlayerState) []rules.Move {
	var moves []rules.Move
	for i := range ps.Pawns {
		if ps.Pawns[i].Zone != ZoneStart {
			continue
		}
		for _, opp := range s.Players {
			if opp.ID == ps.ID {
				continue
			}
			for j := range opp.Pawns {
				if opp.Pawns[j].Zone != ZoneTrack {
					continue
				}
				moves = append(moves, Move{
					Card: CardSorry, Kind: MoveSorry,
					Pawn: i, TargetID: opp.ID, TargetPawn: j,
				})
			}
		}
	}
	return moves
}
