// Package sorry implements the Classic 00390 Sorry rules profile: the
// reference instance of the engine's rules-profile contract.
package sorry

// Zone is one of a pawn's four possible location categories.
type Zone string

const (
	ZoneStart    Zone = "start"
	ZoneTrack    Zone = "track"
	ZoneHomePath Zone = "home_path"
	ZoneHome     Zone = "home"
)

const (
	// TrackLen is the number of shared track squares, fifteen per quadrant.
	TrackLen = 60
	// HomePathLen is the number of private squares between the branch point
	// and home.
	HomePathLen = 5
	// PawnsPerPlayer is fixed for every Sorry edition.
	PawnsPerPlayer = 4
)

// Pawn is one piece's location: a zone plus a position index within it.
// Start and home positions are the pawn's own slot index, which keeps
// (zone, position) pairs unique inside those zones.
type Pawn struct {
	Zone Zone
	Pos  int
}

// entrySquare is the track square where a color's pawns enter from start.
func entrySquare(color int) int {
	return (color*15 + 4) % TrackLen
}

// branchSquare is the last track square a color occupies before diverting
// into its home path.
func branchSquare(color int) int {
	return (color*15 + 2) % TrackLen
}

// forwardDest computes where a pawn lands moving n squares forward, diverting
// into the home path at the branch square. ok is false when the move would
// overshoot home; overshoot moves are never generated.
func forwardDest(color int, from Pawn, n int) (Pawn, bool) {
	switch from.Zone {
	case ZoneTrack:
		d := (branchSquare(color) - from.Pos + TrackLen) % TrackLen
		if n <= d {
			return Pawn{Zone: ZoneTrack, Pos: (from.Pos + n) % TrackLen}, true
		}
		k := n - d
		if k <= HomePathLen {
			return Pawn{Zone: ZoneHomePath, Pos: k - 1}, true
		}
		if k == HomePathLen+1 {
			return Pawn{Zone: ZoneHome}, true
		}
		return Pawn{}, false
	case ZoneHomePath:
		if from.Pos+n < HomePathLen {
			return Pawn{Zone: ZoneHomePath, Pos: from.Pos + n}, true
		}
		if from.Pos+n == HomePathLen {
			return Pawn{Zone: ZoneHome}, true
		}
		return Pawn{}, false
	default:
		// Start pawns enter via entry moves, home pawns never move again.
		return Pawn{}, false
	}
}

// backwardDest computes where a track pawn lands moving n squares backward.
// Backward movement never enters the home path.
func backwardDest(from Pawn, n int) (Pawn, bool) {
	if from.Zone != ZoneTrack {
		return Pawn{}, false
	}
	return Pawn{Zone: ZoneTrack, Pos: (from.Pos - n%TrackLen + TrackLen) % TrackLen}, true
}

// progress is a monotonic per-pawn advancement score used for standings and
// positional evaluation.
func progress(color int, p Pawn) int {
	switch p.Zone {
	case ZoneStart:
		return 0
	case ZoneTrack:
		// Distance traveled since entering the track.
		return 1 + (p.Pos-entrySquare(color)+TrackLen)%TrackLen
	case ZoneHomePath:
		return TrackLen + 1 + p.Pos
	case ZoneHome:
		return TrackLen + 1 + HomePathLen + 1
	}
	return 0
}
