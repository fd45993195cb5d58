package domain

// Status represents the lifecycle stage of a game instance.
type Status string

const (
	// StatusLobby is the pre-game state where players can join and leave.
	StatusLobby Status = "lobby"
	// StatusActive is the in-progress state where turns are taken.
	StatusActive Status = "active"
	// StatusFinished is the terminal state; the instance is immutable afterwards.
	StatusFinished Status = "finished"
)

// Player holds the engine-level state for a participant.
// Profile-owned per-player state (pawns, cards, scores) lives with the
// rules profile, not here.
type Player struct {
	ID          string
	Name        string
	IsBot       bool
	IsSpectator bool
	Team        int
	// Caught marks a player as eliminated or caught by the active profile.
	// Movement-class action predicates consult it.
	Caught bool
}

// Game is the aggregate root for a single game instance. Exactly one writer
// mutates it at a time; the hosting match loop serializes all access.
type Game struct {
	ID        string
	ProfileID string
	Status    Status
	HostID    string
	Seed      int64
	Players   []*Player

	// Turns owns turn order, direction and pending skips.
	Turns TurnOrder
}

// NewGame creates a game instance in the lobby state.
func NewGame(id, profileID string, seed int64) *Game {
	return &Game{
		ID:        id,
		ProfileID: profileID,
		Status:    StatusLobby,
		Seed:      seed,
	}
}

// PlayerByID returns the player with the given id, or nil.
func (g *Game) PlayerByID(id string) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// ActivePlayers returns players who are actually playing (not spectating).
func (g *Game) ActivePlayers() []*Player {
	out := make([]*Player, 0, len(g.Players))
	for _, p := range g.Players {
		if !p.IsSpectator {
			out = append(out, p)
		}
	}
	return out
}

// ActivePlayerCount returns the number of non-spectator players.
func (g *Game) ActivePlayerCount() int {
	return len(g.ActivePlayers())
}

// HumanCount returns the number of human players.
func (g *Game) HumanCount() int {
	n := 0
	for _, p := range g.Players {
		if !p.IsBot {
			n++
		}
	}
	return n
}

// BotCount returns the number of bot players.
func (g *Game) BotCount() int {
	n := 0
	for _, p := range g.Players {
		if p.IsBot {
			n++
		}
	}
	return n
}

// AddPlayer appends a player to the instance. Players may only join in the
// lobby; callers enforce capacity against the profile's maximum.
func (g *Game) AddPlayer(p *Player) {
	g.Players = append(g.Players, p)
	if g.HostID == "" && !p.IsBot {
		g.HostID = p.ID
	}
}

// RemovePlayer removes a player by id and returns whether one was removed.
// Removal is a lobby-only operation; once active, players are marked caught
// instead of removed.
func (g *Game) RemovePlayer(id string) bool {
	for i, p := range g.Players {
		if p.ID == id {
			g.Players = append(g.Players[:i], g.Players[i+1:]...)
			if g.HostID == id {
				g.HostID = ""
				for _, rest := range g.Players {
					if !rest.IsBot {
						g.HostID = rest.ID
						break
					}
				}
			}
			return true
		}
	}
	return false
}

// CurrentPlayer resolves the turn manager's current player id against the
// player list. Derived on every call, never cached.
func (g *Game) CurrentPlayer() *Player {
	id, ok := g.Turns.CurrentPlayerID()
	if !ok {
		return nil
	}
	return g.PlayerByID(id)
}
