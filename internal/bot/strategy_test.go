package bot

import (
	"testing"

	"parlor/internal/rules"
	"parlor/internal/rules/sorry"
)

func sorryFixture(t *testing.T) (*sorry.Profile, *sorry.State) {
	t.Helper()
	p := sorry.New(0)
	s, ok := p.Setup([]string{"a", "b"}, 21).(*sorry.State)
	if !ok {
		t.Fatal("Setup did not return *sorry.State")
	}
	s.Players[0].Pawns[0] = sorry.Pawn{Zone: sorry.ZoneTrack, Pos: 10}
	s.Players[0].Pawns[1] = sorry.Pawn{Zone: sorry.ZoneTrack, Pos: 30}
	s.Players[1].Pawns[0] = sorry.Pawn{Zone: sorry.ZoneTrack, Pos: 13}
	return p, s
}

func TestChooseIsDeterministic(t *testing.T) {
	p, s := sorryFixture(t)
	s.Drawn = sorry.CardThree
	ctx := rules.Context{PlayerID: "a", Card: sorry.CardThree}
	set := p.GenerateCandidates(s, ctx)
	if set.Empty() {
		t.Fatal("fixture should yield candidates")
	}

	first, ok := Choose(p, s, ctx, set, DefaultWeights)
	if !ok {
		t.Fatal("expected a choice")
	}
	for i := 0; i < 5; i++ {
		again, ok := Choose(p, s, ctx, set, DefaultWeights)
		if !ok || again.Key() != first.Key() {
			t.Fatalf("run %d chose %v, want %s", i, again, first.Key())
		}
	}
}

func TestChoosePrefersCapture(t *testing.T) {
	p, s := sorryFixture(t)
	// Pawn 0 moving 3 lands on the opponent at 13; pawn 1 moving 3 lands
	// on an empty square. Progress delta is identical, so the capture
	// bonus must decide.
	s.Drawn = sorry.CardThree
	ctx := rules.Context{PlayerID: "a", Card: sorry.CardThree}
	set := p.GenerateCandidates(s, ctx)

	move, ok := Choose(p, s, ctx, set, DefaultWeights)
	if !ok {
		t.Fatal("expected a choice")
	}
	if move.Key() != "fwd:0:3" {
		t.Fatalf("chose %s, want capturing fwd:0:3", move.Key())
	}
}

func TestChoosePrefersFinish(t *testing.T) {
	p := sorry.New(0)
	s := p.Setup([]string{"a", "b"}, 23).(*sorry.State)
	s.Players[0].Pawns = [4]sorry.Pawn{
		{Zone: sorry.ZoneHome, Pos: 0},
		{Zone: sorry.ZoneHome, Pos: 1},
		{Zone: sorry.ZoneHome, Pos: 2},
		{Zone: sorry.ZoneHomePath, Pos: 4},
	}
	s.Players[1].Pawns[0] = sorry.Pawn{Zone: sorry.ZoneTrack, Pos: 20}
	s.Drawn = sorry.CardOne
	ctx := rules.Context{PlayerID: "a", Card: sorry.CardOne}
	set := p.GenerateCandidates(s, ctx)

	move, ok := Choose(p, s, ctx, set, DefaultWeights)
	if !ok {
		t.Fatal("expected a choice")
	}
	if move.Key() != "fwd:3:1" {
		t.Fatalf("chose %s, want finishing fwd:3:1", move.Key())
	}
}

func TestChooseDoesNotMutateState(t *testing.T) {
	p, s := sorryFixture(t)
	s.Drawn = sorry.CardThree
	before := s.Clone().(*sorry.State)
	ctx := rules.Context{PlayerID: "a", Card: sorry.CardThree}
	set := p.GenerateCandidates(s, ctx)

	if _, ok := Choose(p, s, ctx, set, DefaultWeights); !ok {
		t.Fatal("expected a choice")
	}

	for pi, ps := range s.Players {
		if ps.Pawns != before.Players[pi].Pawns {
			t.Fatalf("player %d pawns mutated: %+v", pi, ps.Pawns)
		}
	}
	if s.Drawn != before.Drawn || len(s.Deck) != len(before.Deck) {
		t.Fatal("deck state mutated by scoring")
	}
}

func TestChooseOnlyFromCandidates(t *testing.T) {
	p, s := sorryFixture(t)
	s.Drawn = sorry.CardThree
	ctx := rules.Context{PlayerID: "a", Card: sorry.CardThree}
	set := p.GenerateCandidates(s, ctx)

	move, ok := Choose(p, s, ctx, set, DefaultWeights)
	if !ok {
		t.Fatal("expected a choice")
	}
	if set.Find(move.Key()) == nil {
		t.Fatalf("chose %s, not in the candidate list", move.Key())
	}
}

func TestChooseEmptySet(t *testing.T) {
	p, s := sorryFixture(t)
	if _, ok := Choose(p, s, rules.Context{PlayerID: "a"}, rules.CandidateSet{}, DefaultWeights); ok {
		t.Fatal("empty set must yield no choice")
	}
}

func TestNewBrainLevels(t *testing.T) {
	for _, level := range []Level{LevelGreedy, LevelCautious} {
		brain, err := NewBrain(level)
		if err != nil {
			t.Fatalf("NewBrain(%v): %v", level, err)
		}
		if brain == nil {
			t.Fatalf("NewBrain(%v) = nil", level)
		}
	}
	if _, err := NewBrain(Level(99)); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestBotIdentity(t *testing.T) {
	id := NewBotID()
	if !IsBot(id) {
		t.Fatalf("NewBotID() = %q, not recognized as bot", id)
	}
	if IsBot("user-123") {
		t.Fatal("human id flagged as bot")
	}
	if NameFor(0) == "" || NameFor(100) == "" {
		t.Fatal("NameFor must always return a name")
	}
	if NameFor(0) != NameFor(len(botNames)) {
		t.Fatal("names should cycle")
	}
}
