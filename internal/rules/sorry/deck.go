package sorry

import "math/rand"

// Card faces for the Classic 00390 edition. The physical deck carries five
// 1s and four of every other face; there is no 6 or 9.
const (
	CardOne    = "1"
	CardTwo    = "2"
	CardThree  = "3"
	CardFour   = "4"
	CardFive   = "5"
	CardSeven  = "7"
	CardEight  = "8"
	CardTen    = "10"
	CardEleven = "11"
	CardTwelve = "12"
	CardSorry  = "sorry"
)

// CardFaces lists the supported faces in deck order.
var CardFaces = []string{
	CardOne, CardTwo, CardThree, CardFour, CardFive,
	CardSeven, CardEight, CardTen, CardEleven, CardTwelve, CardSorry,
}

// steps maps a numeric face to its forward step count. Faces with special
// semantics (4 backward, 7 split, 10, 11, sorry) are handled by generation.
var steps = map[string]int{
	CardOne:    1,
	CardTwo:    2,
	CardThree:  3,
	CardFive:   5,
	CardSeven:  7,
	CardEight:  8,
	CardEleven: 11,
	CardTwelve: 12,
}

// newDeck returns the ordered 45-card deck.
func newDeck() []string {
	deck := make([]string, 0, 45)
	for i := 0; i < 5; i++ {
		deck = append(deck, CardOne)
	}
	for _, face := range CardFaces[1:] {
		for i := 0; i < 4; i++ {
			deck = append(deck, face)
		}
	}
	return deck
}

// shuffleDeck shuffles in place with the given seed. Every shuffle in a
// game derives its seed from the game seed plus the shuffle ordinal, so
// replays are reproducible.
func shuffleDeck(deck []string, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
}
