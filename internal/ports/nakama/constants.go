package nakama

const (
	// RpcQuickJoin is the Nakama RPC id clients call to find or create an
	// open lobby for a rules profile.
	RpcQuickJoin = "quick_join"

	// MatchNameParlor is the authoritative match handler name registered with
	// Nakama.
	MatchNameParlor = "parlor_match"

	// MatchLabelKey_OpenSeats is the label key the quick-join query filters on.
	MatchLabelKey_OpenSeats = "open"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpExecuteAction int64 = 1
	OpRequestMenu   int64 = 2

	// Server -> Client events
	OpPlayerJoined  int64 = 101
	OpPlayerLeft    int64 = 102
	OpGameStarted   int64 = 103
	OpCandidates    int64 = 104 // send privately
	OpTurnAdvanced  int64 = 105
	OpPlayerSkipped int64 = 106
	OpGameEnded     int64 = 107
	OpBroadcast     int64 = 108
	OpRejected      int64 = 109 // send privately
	OpMenu          int64 = 110 // send privately
)
