package domain

import (
	"errors"
	"testing"
)

func TestAdvanceTurnCyclesDeclaredOrder(t *testing.T) {
	var to TurnOrder
	to.SetTurnPlayers([]string{"a", "b", "c"})

	want := []string{"b", "c", "a", "b"}
	for i, expect := range want {
		skipped, err := to.AdvanceTurn()
		if err != nil {
			t.Fatalf("advance %d: %v", i, err)
		}
		if len(skipped) != 0 {
			t.Fatalf("advance %d skipped %v, want none", i, skipped)
		}
		got, ok := to.CurrentPlayerID()
		if !ok || got != expect {
			t.Fatalf("advance %d: current = %q, want %q", i, got, expect)
		}
	}
}

func TestAdvanceTurnConsumesSkips(t *testing.T) {
	var to TurnOrder
	to.SetTurnPlayers([]string{"a", "b", "c"})
	to.SkipNextPlayers("b", 2)

	skipped, err := to.AdvanceTurn()
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if len(skipped) != 1 || skipped[0] != "b" {
		t.Fatalf("skipped = %v, want [b]", skipped)
	}
	if got, _ := to.CurrentPlayerID(); got != "c" {
		t.Fatalf("current = %q, want c", got)
	}
	if to.SkipCount("b") != 1 {
		t.Fatalf("skip count = %d, want 1", to.SkipCount("b"))
	}

	// Second lap consumes the remaining skip.
	if _, err := to.AdvanceTurn(); err != nil { // -> a
		t.Fatalf("advance: %v", err)
	}
	skipped, err = to.AdvanceTurn() // b skipped again -> c
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if len(skipped) != 1 || skipped[0] != "b" {
		t.Fatalf("skipped = %v, want [b]", skipped)
	}
	if to.SkipCount("b") != 0 {
		t.Fatalf("skip count = %d, want 0", to.SkipCount("b"))
	}
}

func TestSkipNextPlayersIgnoresNonPositive(t *testing.T) {
	var to TurnOrder
	to.SetTurnPlayers([]string{"a", "b"})
	to.SkipNextPlayers("b", 0)
	to.SkipNextPlayers("b", -3)
	if to.SkipCount("b") != 0 {
		t.Fatalf("skip count = %d, want 0", to.SkipCount("b"))
	}
}

func TestAdvanceTurnReversedDirection(t *testing.T) {
	var to TurnOrder
	to.SetTurnPlayers([]string{"a", "b", "c"})
	to.ReverseTurnDirection()

	if _, err := to.AdvanceTurn(); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if got, _ := to.CurrentPlayerID(); got != "c" {
		t.Fatalf("current = %q, want c", got)
	}
}

func TestReverseTwiceRestoresDirection(t *testing.T) {
	var to TurnOrder
	to.SetTurnPlayers([]string{"a", "b", "c"})

	to.ReverseTurnDirection()
	to.ReverseTurnDirection()
	if got := to.Direction(); got != 1 {
		t.Fatalf("direction = %d, want 1", got)
	}
	if got, _ := to.CurrentPlayerID(); got != "a" {
		t.Fatalf("current = %q, want a (reverse must not move the cursor)", got)
	}
}

func TestAdvanceReverseAdvanceRoundTrip(t *testing.T) {
	var to TurnOrder
	to.SetTurnPlayers([]string{"a", "b", "c", "d"})
	start, _ := to.CurrentPlayerID()

	const n = 3
	for i := 0; i < n; i++ {
		if _, err := to.AdvanceTurn(); err != nil {
			t.Fatalf("forward advance %d: %v", i, err)
		}
	}
	to.ReverseTurnDirection()
	for i := 0; i < n; i++ {
		if _, err := to.AdvanceTurn(); err != nil {
			t.Fatalf("reverse advance %d: %v", i, err)
		}
	}
	if got, _ := to.CurrentPlayerID(); got != start {
		t.Fatalf("current = %q, want %q after the round trip", got, start)
	}
}

func TestAdvanceTurnAllSkippedStalls(t *testing.T) {
	var to TurnOrder
	to.SetTurnPlayers([]string{"a", "b"})
	to.SkipNextPlayers("a", 5)
	to.SkipNextPlayers("b", 5)

	_, err := to.AdvanceTurn()
	if !errors.Is(err, ErrTurnOrderStalled) {
		t.Fatalf("err = %v, want ErrTurnOrderStalled", err)
	}
}

func TestAdvanceTurnEmptyOrder(t *testing.T) {
	var to TurnOrder
	skipped, err := to.AdvanceTurn()
	if err != nil || len(skipped) != 0 {
		t.Fatalf("empty advance = (%v, %v), want no-op", skipped, err)
	}
	if _, ok := to.CurrentPlayerID(); ok {
		t.Fatal("empty order should have no current player")
	}
}

func TestRemoveTurnPlayerKeepsCursorCoherent(t *testing.T) {
	tests := []struct {
		name    string
		remove  string
		advance int
		want    string
	}{
		{name: "RemoveBeforeCursor", remove: "a", advance: 1, want: "b"},
		{name: "RemoveCurrent", remove: "b", advance: 1, want: "c"},
		{name: "RemoveAfterCursor", remove: "c", advance: 1, want: "b"},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			var to TurnOrder
			to.SetTurnPlayers([]string{"a", "b", "c"})
			for i := 0; i < test.advance; i++ {
				if _, err := to.AdvanceTurn(); err != nil {
					t.Fatalf("advance: %v", err)
				}
			}
			to.RemoveTurnPlayer(test.remove)
			if got, _ := to.CurrentPlayerID(); got != test.want {
				t.Fatalf("current after removing %s = %q, want %q", test.remove, got, test.want)
			}
			for _, id := range to.PlayerIDs() {
				if id == test.remove {
					t.Fatalf("%s still in order %v", test.remove, to.PlayerIDs())
				}
			}
		})
	}
}

func TestResetTurnOrder(t *testing.T) {
	var to TurnOrder
	to.SetTurnPlayers([]string{"a", "b"})
	to.ReverseTurnDirection()
	to.SkipNextPlayers("a", 2)
	if _, err := to.AdvanceTurn(); err != nil {
		t.Fatalf("advance: %v", err)
	}

	to.ResetTurnOrder()
	if got, _ := to.CurrentPlayerID(); got != "a" {
		t.Fatalf("current = %q, want a", got)
	}
	if to.Direction() != 1 {
		t.Fatalf("direction = %d, want 1", to.Direction())
	}
	if to.SkipCount("a") != 0 {
		t.Fatalf("skip count survived reset")
	}
}
