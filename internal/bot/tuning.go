package bot

// Weights tune how the greedy brain values the outcome of a candidate move.
type Weights struct {
	// Progress weights the positional gain reported by the profile's
	// evaluator.
	Progress float64
	// Capture rewards bumping an opponent piece.
	Capture float64
	// BonusTurn rewards moves that schedule another turn.
	BonusTurn float64
	// Finish dominates everything when a move ends the game in our favor.
	Finish float64
}

// DefaultWeights favors raw progress with a solid capture incentive.
var DefaultWeights = Weights{
	Progress:  1.0,
	Capture:   8.0,
	BonusTurn: 3.0,
	Finish:    1000.0,
}

// CautiousWeights trades capture aggression for steady advancement.
var CautiousWeights = Weights{
	Progress:  1.2,
	Capture:   4.0,
	BonusTurn: 3.0,
	Finish:    1000.0,
}
