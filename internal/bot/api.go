// Package bot implements the deterministic bot decision maker. Given the
// ordered candidate list for a decision point it selects one move, or none,
// with no internal randomness: replays, tests and duration simulations all
// reproduce the same choices.
package bot

import "parlor/internal/rules"

// Brain is the interface all bot strategies implement. CalculateMove must
// select only from the supplied candidates and be deterministic for
// identical (candidates, state) inputs. The boolean is false when the
// candidate set is empty, signaling the caller to take the profile's pass
// path.
type Brain interface {
	CalculateMove(p rules.Profile, s rules.State, ctx rules.Context, set rules.CandidateSet) (rules.Move, bool)
}
