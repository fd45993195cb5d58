package nakama

import (
	"context"
	"encoding/json"
	"testing"

	"parlor/internal/app"
	"parlor/internal/domain"
	"parlor/internal/rules"
	"parlor/internal/rules/sorry"

	"github.com/heroiclabs/nakama-common/runtime"
)

func init() {
	// The production registration happens in InitModule.
	if _, err := rules.Lookup(sorry.ProfileID); err != nil {
		rules.Register(sorry.New(0))
	}
}

// noopLogger implements runtime.Logger for tests that only need to satisfy
// the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

type sentMessage struct {
	opCode     int64
	data       []byte
	recipients []runtime.Presence
}

// mockDispatcher records match dispatcher calls for assertions.
type mockDispatcher struct {
	messages     []sentMessage
	labelUpdates int
	lastLabel    string
}

func (md *mockDispatcher) BroadcastMessage(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	md.messages = append(md.messages, sentMessage{
		opCode:     opCode,
		data:       append([]byte(nil), data...),
		recipients: presences,
	})
	return nil
}

func (md *mockDispatcher) BroadcastMessageDeferred(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	return nil
}

func (md *mockDispatcher) MatchKick(presences []runtime.Presence) error {
	return nil
}

func (md *mockDispatcher) MatchLabelUpdate(label string) error {
	md.labelUpdates++
	md.lastLabel = label
	return nil
}

func (md *mockDispatcher) sent(opCode int64) []sentMessage {
	var out []sentMessage
	for _, m := range md.messages {
		if m.opCode == opCode {
			out = append(out, m)
		}
	}
	return out
}

// mockPresence satisfies runtime.Presence for a user id.
type mockPresence struct {
	userID   string
	username string
}

func (p mockPresence) GetUserId() string                 { return p.userID }
func (p mockPresence) GetSessionId() string              { return "session-" + p.userID }
func (p mockPresence) GetNodeId() string                 { return "node-1" }
func (p mockPresence) GetHidden() bool                   { return false }
func (p mockPresence) GetPersistence() bool              { return true }
func (p mockPresence) GetUsername() string               { return p.username }
func (p mockPresence) GetStatus() string                 { return "" }
func (p mockPresence) GetReason() runtime.PresenceReason { return runtime.PresenceReasonJoin }

// mockMatchData is one client message.
type mockMatchData struct {
	mockPresence
	opCode int64
	data   []byte
}

func (m mockMatchData) GetOpCode() int64      { return m.opCode }
func (m mockMatchData) GetData() []byte       { return m.data }
func (m mockMatchData) GetReliable() bool     { return true }
func (m mockMatchData) GetReceiveTime() int64 { return 0 }

func executeMsg(userID, input, args string) mockMatchData {
	payload, _ := json.Marshal(executeRequest{Input: input, Args: args})
	return mockMatchData{
		mockPresence: mockPresence{userID: userID, username: userID},
		opCode:       OpExecuteAction,
		data:         payload,
	}
}

func newTestState(t *testing.T) (*matchHandler, *MatchState, string) {
	t.Helper()
	mh := newMatchHandler()
	state, tickRate, label := mh.MatchInit(context.Background(), noopLogger{}, nil, nil, nil)
	if state == nil {
		t.Fatal("MatchInit returned no state")
	}
	if tickRate != 1 {
		t.Fatalf("tick rate = %d, want 1", tickRate)
	}
	return mh, state.(*MatchState), label
}

func joinUsers(t *testing.T, mh *matchHandler, state *MatchState, dispatcher *mockDispatcher, ids ...string) {
	t.Helper()
	presences := make([]runtime.Presence, len(ids))
	for i, id := range ids {
		presences[i] = mockPresence{userID: id, username: id}
	}
	if got := mh.MatchJoin(context.Background(), noopLogger{}, nil, nil, dispatcher, 1, state, presences); got == nil {
		t.Fatal("MatchJoin terminated the match")
	}
}

func TestMatchInitLabel(t *testing.T) {
	_, _, label := newTestState(t)

	var l matchLabel
	if err := json.Unmarshal([]byte(label), &l); err != nil {
		t.Fatalf("label %q: %v", label, err)
	}
	if l.Open != 4 || l.Status != "lobby" || l.Game != sorry.ProfileID || l.Players != 0 {
		t.Fatalf("label = %+v", l)
	}
}

func TestMatchJoinAddsPlayersAndHost(t *testing.T) {
	mh, state, _ := newTestState(t)
	dispatcher := &mockDispatcher{}

	joinUsers(t, mh, state, dispatcher, "u1", "u2")

	if state.App.G.ActivePlayerCount() != 2 {
		t.Fatalf("players = %d, want 2", state.App.G.ActivePlayerCount())
	}
	if state.App.G.HostID != "u1" {
		t.Fatalf("host = %q, want u1", state.App.G.HostID)
	}
	if len(dispatcher.sent(OpPlayerJoined)) != 2 {
		t.Fatalf("join events = %d, want 2", len(dispatcher.sent(OpPlayerJoined)))
	}
	if dispatcher.labelUpdates == 0 {
		t.Fatal("expected a label update after join")
	}

	var l matchLabel
	if err := json.Unmarshal([]byte(dispatcher.lastLabel), &l); err != nil {
		t.Fatalf("label: %v", err)
	}
	if l.Open != 2 || l.Players != 2 {
		t.Fatalf("label = %+v, want 2 open / 2 players", l)
	}
}

func TestMatchJoinAttemptRejectsWhenStarted(t *testing.T) {
	mh, state, _ := newTestState(t)
	dispatcher := &mockDispatcher{}
	joinUsers(t, mh, state, dispatcher, "u1", "u2")

	loop := mh.MatchLoop(context.Background(), noopLogger{}, nil, nil, dispatcher, 2, state,
		[]runtime.MatchData{executeMsg("u1", "start", "")})
	state = loop.(*MatchState)
	if state.App.G.Status != domain.StatusActive {
		t.Fatalf("status = %s, want active", state.App.G.Status)
	}

	_, allowed, reason := mh.MatchJoinAttempt(context.Background(), noopLogger{}, nil, nil, dispatcher, 3, state,
		mockPresence{userID: "u3", username: "u3"}, nil)
	if allowed {
		t.Fatal("a started match must reject new players")
	}
	if reason == "" {
		t.Fatal("rejection should carry a reason")
	}

	// Rejoining player is always admitted.
	_, allowed, _ = mh.MatchJoinAttempt(context.Background(), noopLogger{}, nil, nil, dispatcher, 3, state,
		mockPresence{userID: "u1", username: "u1"}, nil)
	if !allowed {
		t.Fatal("rejoin must be admitted")
	}
}

func TestMatchLoopStartGame(t *testing.T) {
	mh, state, _ := newTestState(t)
	dispatcher := &mockDispatcher{}
	joinUsers(t, mh, state, dispatcher, "u1", "u2")

	loop := mh.MatchLoop(context.Background(), noopLogger{}, nil, nil, dispatcher, 2, state,
		[]runtime.MatchData{executeMsg("u1", "start", "")})
	state = loop.(*MatchState)

	if state.App.G.Status != domain.StatusActive {
		t.Fatalf("status = %s, want active", state.App.G.Status)
	}
	started := dispatcher.sent(OpGameStarted)
	if len(started) != 1 {
		t.Fatalf("game-started events = %d, want 1", len(started))
	}
	var payload app.GameStartedPayload
	if err := json.Unmarshal(started[0].data, &payload); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if payload.FirstTurnID != "u1" || len(payload.TurnOrder) != 2 {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestMatchLoopDrawOpensDecisionOrPasses(t *testing.T) {
	mh, state, _ := newTestState(t)
	dispatcher := &mockDispatcher{}
	joinUsers(t, mh, state, dispatcher, "u1", "u2")
	mh.MatchLoop(context.Background(), noopLogger{}, nil, nil, dispatcher, 2, state,
		[]runtime.MatchData{executeMsg("u1", "start", "")})

	mh.MatchLoop(context.Background(), noopLogger{}, nil, nil, dispatcher, 3, state,
		[]runtime.MatchData{executeMsg("u1", "draw", "")})

	if state.App.AwaitingChoice() {
		msgs := dispatcher.sent(OpCandidates)
		if len(msgs) != 1 {
			t.Fatalf("candidate events = %d, want 1", len(msgs))
		}
		if len(msgs[0].recipients) != 1 || msgs[0].recipients[0].GetUserId() != "u1" {
			t.Fatal("candidates must go only to the drawing player")
		}
	} else {
		// No legal move: the pass advanced play to the other player.
		if current := state.App.G.CurrentPlayer(); current == nil || current.ID != "u2" {
			t.Fatalf("current = %v, want u2 after pass", current)
		}
	}
}

func TestMatchLeaveTerminatesWithoutHumans(t *testing.T) {
	mh, state, _ := newTestState(t)
	dispatcher := &mockDispatcher{}
	joinUsers(t, mh, state, dispatcher, "u1")

	got := mh.MatchLeave(context.Background(), noopLogger{}, nil, nil, dispatcher, 2, state,
		[]runtime.Presence{mockPresence{userID: "u1", username: "u1"}})
	if got != nil {
		t.Fatal("match with no humans should terminate")
	}
}

func TestDispatchDropsPrivateEventsForDisconnectedRecipients(t *testing.T) {
	mh, state, _ := newTestState(t)
	dispatcher := &mockDispatcher{}

	mh.dispatchEvents(state, dispatcher, noopLogger{}, []app.Event{{
		Kind:       app.EventCandidates,
		Payload:    app.CandidatesPayload{PlayerID: "bot-1"},
		Recipients: []string{"bot-1"},
	}})

	if len(dispatcher.messages) != 0 {
		t.Fatalf("messages = %d, want 0 for unreachable recipient", len(dispatcher.messages))
	}
}

func TestProcessBotsAutoFillAfterDelay(t *testing.T) {
	mh, state, _ := newTestState(t)
	dispatcher := &mockDispatcher{}
	joinUsers(t, mh, state, dispatcher, "u1")

	state.BotAutoFillDelay = 2
	state.LastSinglePlayerTick = 8
	state.Tick = 10

	mh.processBots(state, dispatcher, noopLogger{})

	if state.App.G.BotCount() != 1 {
		t.Fatalf("bots = %d, want 1 to reach the minimum", state.App.G.BotCount())
	}
	if state.LastSinglePlayerTick != 0 {
		t.Fatalf("auto-fill timer = %d, want reset", state.LastSinglePlayerTick)
	}
	if dispatcher.labelUpdates == 0 {
		t.Fatal("expected label update after auto-fill")
	}
}

func TestProcessBotsWaitsForThinkDelay(t *testing.T) {
	mh, state, _ := newTestState(t)
	dispatcher := &mockDispatcher{}
	joinUsers(t, mh, state, dispatcher, "u1")

	if _, err := state.App.AutoFillBots(); err != nil {
		t.Fatalf("auto-fill: %v", err)
	}
	mh.MatchLoop(context.Background(), noopLogger{}, nil, nil, dispatcher, 2, state,
		[]runtime.MatchData{executeMsg("u1", "start", "")})

	// Hand the turn to the bot directly.
	if _, err := state.App.G.Turns.AdvanceTurn(); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if current := state.App.G.CurrentPlayer(); current == nil || !current.IsBot {
		t.Fatalf("current = %v, want the bot", current)
	}

	state.Tick = 100
	state.BotWaitUntil = 0
	mh.processBots(state, dispatcher, noopLogger{})
	if state.BotWaitUntil <= state.Tick {
		t.Fatalf("wait until = %d, want a future tick", state.BotWaitUntil)
	}
	if state.App.AwaitingChoice() {
		t.Fatal("bot must not act before its think delay elapses")
	}

	// Once the delay elapses the bot takes its draw step.
	state.Tick = state.BotWaitUntil
	mh.processBots(state, dispatcher, noopLogger{})
	if state.BotWaitUntil != 0 {
		t.Fatalf("wait until = %d, want consumed", state.BotWaitUntil)
	}
}

func TestOpCodeMapping(t *testing.T) {
	tests := []struct {
		kind app.EventKind
		want int64
	}{
		{kind: app.EventPlayerJoined, want: OpPlayerJoined},
		{kind: app.EventPlayerLeft, want: OpPlayerLeft},
		{kind: app.EventGameStarted, want: OpGameStarted},
		{kind: app.EventCandidates, want: OpCandidates},
		{kind: app.EventTurnAdvanced, want: OpTurnAdvanced},
		{kind: app.EventPlayerSkipped, want: OpPlayerSkipped},
		{kind: app.EventGameEnded, want: OpGameEnded},
		{kind: app.EventBroadcast, want: OpBroadcast},
		{kind: app.EventRejected, want: OpRejected},
	}
	for _, test := range tests {
		got, ok := opCodeFor(test.kind)
		if !ok || got != test.want {
			t.Fatalf("opCodeFor(%v) = (%d, %v), want %d", test.kind, got, ok, test.want)
		}
	}
	if _, ok := opCodeFor(app.EventMenuRebuild); ok {
		t.Fatal("menu rebuilds are handled separately, not mapped to an op code")
	}
}
