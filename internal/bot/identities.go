package bot

import (
	"strings"

	"github.com/google/uuid"
)

// botIDPrefix distinguishes bot player ids from Nakama user ids.
const botIDPrefix = "bot-"

// botNames are the display names cycled through as bots join a lobby.
var botNames = []string{
	"Ada", "Blaise", "Carmen", "Dmitri", "Elena", "Felix",
	"Greta", "Hugo", "Iris", "Jasper", "Kira", "Lionel",
}

// NewBotID generates a unique bot player id.
func NewBotID() string {
	return botIDPrefix + uuid.NewString()
}

// IsBot reports whether the given player id belongs to a bot.
func IsBot(playerID string) bool {
	return strings.HasPrefix(playerID, botIDPrefix)
}

// NameFor picks a display name for the nth bot added to a game.
func NameFor(n int) string {
	if n < 0 {
		n = 0
	}
	return botNames[n%len(botNames)]
}
