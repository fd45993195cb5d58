package rules

import (
	"fmt"
	"testing"
)

type fakeMove int

func (m fakeMove) Key() string { return fmt.Sprintf("m%d", int(m)) }
func (m fakeMove) Label() (string, map[string]any) {
	return "fake-move", map[string]any{"n": int(m)}
}

func makeMoves(n int) []Move {
	out := make([]Move, n)
	for i := range out {
		out[i] = fakeMove(i)
	}
	return out
}

func TestCapKeepsDeclaredPrefix(t *testing.T) {
	set := Cap(makeMoves(10), 4)
	if !set.Truncated {
		t.Fatal("expected truncation flag")
	}
	if len(set.Moves) != 4 {
		t.Fatalf("len = %d, want 4", len(set.Moves))
	}
	for i, m := range set.Moves {
		if m.Key() != fmt.Sprintf("m%d", i) {
			t.Fatalf("moves[%d] = %s, want m%d", i, m.Key(), i)
		}
	}
}

func TestCapUnderLimit(t *testing.T) {
	set := Cap(makeMoves(3), 4)
	if set.Truncated {
		t.Fatal("unexpected truncation")
	}
	if len(set.Moves) != 3 {
		t.Fatalf("len = %d, want 3", len(set.Moves))
	}
}

func TestCapExactLimit(t *testing.T) {
	set := Cap(makeMoves(4), 4)
	if set.Truncated {
		t.Fatal("a list at exactly the cap is not truncated")
	}
}

func TestFindByKey(t *testing.T) {
	set := Cap(makeMoves(3), 10)
	m := set.Find("m1")
	if m == nil || m.Key() != "m1" {
		t.Fatalf("Find(m1) = %v", m)
	}
	if set.Find("m99") != nil {
		t.Fatal("Find should miss unknown keys")
	}
}

func TestEmpty(t *testing.T) {
	if !(CandidateSet{}).Empty() {
		t.Fatal("zero set should be empty")
	}
	if Cap(makeMoves(1), 10).Empty() {
		t.Fatal("non-zero set should not be empty")
	}
}

func TestRegisterAndLookup(t *testing.T) {
	if _, err := Lookup("no-such-profile"); err == nil {
		t.Fatal("expected error for unknown profile")
	}
}
