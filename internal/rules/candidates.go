package rules

// DefaultMaxMoveSlots bounds candidate lists against combinatorial blow-up
// from high-branching effects (multi-pawn swaps and splits in a four-player
// game). Profiles may declare a lower cap, never a higher one.
const DefaultMaxMoveSlots = 64

// CandidateSet is the ordered candidate-move list for one decision point.
// Truncated records that the true candidate count exceeded the cap and the
// list was cut in declared order; the condition is surfaced, not hidden.
type CandidateSet struct {
	Moves     []Move
	Truncated bool
}

// Empty reports whether no candidate exists.
func (c CandidateSet) Empty() bool { return len(c.Moves) == 0 }

// Find returns the candidate with the given key, or nil. Submitted moves are
// re-validated against a fresh set with this lookup before being applied.
func (c CandidateSet) Find(key string) Move {
	for _, m := range c.Moves {
		if m.Key() == key {
			return m
		}
	}
	return nil
}

// Cap truncates moves to at most max entries, preserving the profile's
// declared ordering. max <= 0 applies DefaultMaxMoveSlots.
func Cap(moves []Move, max int) CandidateSet {
	if max <= 0 {
		max = DefaultMaxMoveSlots
	}
	if len(moves) <= max {
		return CandidateSet{Moves: moves}
	}
	return CandidateSet{Moves: moves[:max], Truncated: true}
}
