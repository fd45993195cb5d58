package sorry

import "fmt"

// MoveKind identifies the shape of a candidate move.
type MoveKind string

const (
	// MoveEnter brings a pawn from start onto the track entry square.
	MoveEnter MoveKind = "enter"
	// MoveForward advances one pawn by Steps.
	MoveForward MoveKind = "forward"
	// MoveBackward retreats one track pawn by Steps.
	MoveBackward MoveKind = "backward"
	// MoveSplit distributes seven forward squares across two pawns.
	MoveSplit MoveKind = "split"
	// MoveSwap exchanges an own track pawn with an opponent track pawn.
	MoveSwap MoveKind = "swap"
	// MoveSorry takes a start pawn onto an opponent track pawn, bumping it.
	MoveSorry MoveKind = "sorry"
)

// Move is one fully-specified legal play. Values are produced by candidate
// generation and never mutated.
type Move struct {
	Card       string
	Kind       MoveKind
	Pawn       int
	Steps      int
	Pawn2      int // second pawn of a split
	Steps2     int
	TargetID   string // opponent of a swap or sorry
	TargetPawn int
}

// Key returns the stable wire identity of the move.
func (m Move) Key() string {
	switch m.Kind {
	case MoveEnter:
		return fmt.Sprintf("enter:%d", m.Pawn)
	case MoveForward:
		return fmt.Sprintf("fwd:%d:%d", m.Pawn, m.Steps)
	case MoveBackward:
		return fmt.Sprintf("back:%d:%d", m.Pawn, m.Steps)
	case MoveSplit:
		return fmt.Sprintf("split:%d:%d:%d:%d", m.Pawn, m.Steps, m.Pawn2, m.Steps2)
	case MoveSwap:
		return fmt.Sprintf("swap:%d:%s:%d", m.Pawn, m.TargetID, m.TargetPawn)
	case MoveSorry:
		return fmt.Sprintf("sorry:%d:%s:%d", m.Pawn, m.TargetID, m.TargetPawn)
	}
	return string(m.Kind)
}

// Label returns the message key and args for external rendering.
func (m Move) Label() (string, map[string]any) {
	switch m.Kind {
	case MoveEnter:
		return "sorry-move-enter", map[string]any{"pawn": m.Pawn + 1}
	case MoveForward:
		return "sorry-move-forward", map[string]any{"pawn": m.Pawn + 1, "steps": m.Steps}
	case MoveBackward:
		return "sorry-move-backward", map[string]any{"pawn": m.Pawn + 1, "steps": m.Steps}
	case MoveSplit:
		return "sorry-move-split", map[string]any{
			"pawn": m.Pawn + 1, "steps": m.Steps,
			"pawn2": m.Pawn2 + 1, "steps2": m.Steps2,
		}
	case MoveSwap:
		return "sorry-move-swap", map[string]any{
			"pawn": m.Pawn + 1, "target": m.TargetID, "target_pawn": m.TargetPawn + 1,
		}
	case MoveSorry:
		return "sorry-move-sorry", map[string]any{
			"pawn": m.Pawn + 1, "target": m.TargetID, "target_pawn": m.TargetPawn + 1,
		}
	}
	return "sorry-move", nil
}
