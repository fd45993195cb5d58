package bot

import "parlor/internal/rules"

// Choose is the single decision function: score every candidate by applying
// it to a clone of the state and keep the best, breaking ties by declared
// candidate order. Strategy types are thin adapters over it so the logic is
// single-sourced regardless of which entry point triggered the decision.
func Choose(p rules.Profile, s rules.State, ctx rules.Context, set rules.CandidateSet, w Weights) (rules.Move, bool) {
	if set.Empty() {
		return nil, false
	}

	evaluator, _ := p.(rules.Evaluator)
	before := 0.0
	if evaluator != nil {
		before = evaluator.Evaluate(s, ctx.PlayerID)
	}

	var best rules.Move
	bestScore := 0.0
	for _, m := range set.Moves {
		score, ok := scoreMove(p, evaluator, s, ctx, m, w, before)
		if !ok {
			continue
		}
		// Strictly greater keeps the earliest candidate on ties.
		if best == nil || score > bestScore {
			best = m
			bestScore = score
		}
	}
	if best == nil {
		// Every candidate failed to apply on a clone; fall back to the
		// first so the caller still plays a generated move.
		return set.Moves[0], true
	}
	return best, true
}

func scoreMove(p rules.Profile, evaluator rules.Evaluator, s rules.State, ctx rules.Context, m rules.Move, w Weights, before float64) (float64, bool) {
	clone := s.Clone()
	effects, err := p.ApplyMove(clone, ctx, m)
	if err != nil {
		return 0, false
	}

	score := 0.0
	if evaluator != nil {
		score += w.Progress * (evaluator.Evaluate(clone, ctx.PlayerID) - before)
	}
	for _, ef := range effects {
		switch ef.Kind {
		case rules.EffectPawnBumped:
			if ef.PlayerID != ctx.PlayerID {
				score += w.Capture
			}
		case rules.EffectBonusTurn:
			score += w.BonusTurn
		case rules.EffectGameEnded:
			if ef.PlayerID == ctx.PlayerID {
				score += w.Finish
			}
		}
	}
	return score, true
}

// GreedyBot plays the highest-scoring candidate under DefaultWeights.
type GreedyBot struct{}

func (b *GreedyBot) CalculateMove(p rules.Profile, s rules.State, ctx rules.Context, set rules.CandidateSet) (rules.Move, bool) {
	return Choose(p, s, ctx, set, DefaultWeights)
}

// CautiousBot plays the highest-scoring candidate under CautiousWeights.
type CautiousBot struct{}

func (b *CautiousBot) CalculateMove(p rules.Profile, s rules.State, ctx rules.Context, set rules.CandidateSet) (rules.Move, bool) {
	return Choose(p, s, ctx, set, CautiousWeights)
}
