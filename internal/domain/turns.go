package domain

import "errors"

// ErrTurnOrderStalled is returned when every player in the order has pending
// skips and advancement cannot land anywhere within one full cycle.
var ErrTurnOrderStalled = errors.New("turn order stalled: all players skipped")

// TurnOrder is the turn-management state machine. It owns the ordered list of
// turn-eligible player ids, the cursor into it, the direction of travel and
// the pending skip counts.
//
// The zero value is a valid empty order.
type TurnOrder struct {
	playerIDs []string
	index     int
	direction int
	skips     map[string]int
}

// SetTurnPlayers replaces the turn order and resets the cursor to the first
// entry. Direction and pending skips are left untouched.
func (t *TurnOrder) SetTurnPlayers(ids []string) {
	t.playerIDs = append([]string(nil), ids...)
	t.index = 0
	if t.direction == 0 {
		t.direction = 1
	}
}

// PlayerIDs returns a copy of the current turn order.
func (t *TurnOrder) PlayerIDs() []string {
	return append([]string(nil), t.playerIDs...)
}

// Len returns the number of turn-eligible players.
func (t *TurnOrder) Len() int { return len(t.playerIDs) }

// Index returns the current cursor position.
func (t *TurnOrder) Index() int { return t.index }

// Direction returns +1 or -1. An unused zero value reports +1.
func (t *TurnOrder) Direction() int {
	if t.direction == 0 {
		return 1
	}
	return t.direction
}

// CurrentPlayerID returns the id at the cursor, derived on every call.
// The second return is false when the order is empty.
func (t *TurnOrder) CurrentPlayerID() (string, bool) {
	if len(t.playerIDs) == 0 {
		return "", false
	}
	idx := t.index % len(t.playerIDs)
	if idx < 0 {
		idx += len(t.playerIDs)
	}
	return t.playerIDs[idx], true
}

// SkipCount returns the pending skip count for a player.
func (t *TurnOrder) SkipCount(playerID string) int {
	return t.skips[playerID]
}

// SkipNextPlayers adds n pending skips to the given player. Negative n is
// ignored so counts never go below zero.
func (t *TurnOrder) SkipNextPlayers(playerID string, n int) {
	if n <= 0 {
		return
	}
	if t.skips == nil {
		t.skips = make(map[string]int)
	}
	t.skips[playerID] += n
}

// AdvanceTurn moves the cursor one step in the current direction. A landed
// player with a pending skip has one decremented, is reported in the returned
// slice, and advancement repeats. Advancement is bounded to one full cycle;
// if every player is skipped the order is considered stalled.
//
// Advancing an empty order is a no-op.
func (t *TurnOrder) AdvanceTurn() (skipped []string, err error) {
	n := len(t.playerIDs)
	if n == 0 {
		return nil, nil
	}
	for hops := 0; hops < n; hops++ {
		t.index = (t.index + t.Direction() + n) % n
		id := t.playerIDs[t.index]
		if t.skips[id] > 0 {
			t.skips[id]--
			skipped = append(skipped, id)
			continue
		}
		return skipped, nil
	}
	return skipped, ErrTurnOrderStalled
}

// ReverseTurnDirection flips the direction of travel without moving the
// cursor.
func (t *TurnOrder) ReverseTurnDirection() {
	t.direction = -t.Direction()
}

// ResetTurnOrder returns the cursor to the first entry, restores forward
// direction and clears all pending skips.
func (t *TurnOrder) ResetTurnOrder() {
	t.index = 0
	t.direction = 1
	t.skips = nil
}

// RemoveTurnPlayer drops a player from the order, keeping the cursor on the
// player it currently points at where possible. Used when a player is
// eliminated mid-game.
func (t *TurnOrder) RemoveTurnPlayer(playerID string) {
	for i, id := range t.playerIDs {
		if id != playerID {
			continue
		}
		t.playerIDs = append(t.playerIDs[:i], t.playerIDs[i+1:]...)
		delete(t.skips, playerID)
		if len(t.playerIDs) == 0 {
			t.index = 0
			return
		}
		if i < t.index || t.index >= len(t.playerIDs) {
			t.index = (t.index - 1 + len(t.playerIDs)) % len(t.playerIDs)
		}
		return
	}
}
