package bot

import "fmt"

// Level selects a bot strategy.
type Level int

const (
	// LevelGreedy is the default strategy.
	LevelGreedy Level = iota
	// LevelCautious favors progress over captures.
	LevelCautious
)

// NewBrain creates a brain for the given level.
func NewBrain(level Level) (Brain, error) {
	switch level {
	case LevelGreedy:
		return &GreedyBot{}, nil
	case LevelCautious:
		return &CautiousBot{}, nil
	default:
		return nil, fmt.Errorf("unknown bot level: %d", level)
	}
}
