package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"parlor/internal/config"
	"parlor/internal/rules"

	"github.com/heroiclabs/nakama-common/runtime"
)

// RegisterRPCs wires the RPC endpoints into the Nakama initializer.
func RegisterRPCs(initializer runtime.Initializer) error {
	return initializer.RegisterRpc(RpcQuickJoin, RpcQuickJoinMatch)
}

// quickJoinRequest optionally names the rules profile to host.
type quickJoinRequest struct {
	Profile string `json:"profile"`
}

// RpcQuickJoinMatch finds an open lobby for the requested profile, or creates
// a new match when none has seats.
//
// Payload: (Optional) {"profile": "<profile id>"}
// Returns: String containing the Match ID.
func RpcQuickJoinMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userId, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	profileID := config.GetDefaultProfile()
	if payload != "" {
		var req quickJoinRequest
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return "", fmt.Errorf("invalid quick_join payload: %w", err)
		}
		if req.Profile != "" {
			profileID = req.Profile
		}
	}
	if _, err := rules.Lookup(profileID); err != nil {
		logger.Warn("RpcQuickJoin [User:%s]: %v", userId, err)
		return "", err
	}

	// Filter on lobbies hosting this profile with at least one open seat.
	limit := 1
	authoritative := true
	labelQuery := fmt.Sprintf("+label.%s:>=1 +label.game:%s", MatchLabelKey_OpenSeats, profileID)
	minSize := 0
	maxSize := 4

	matches, err := nk.MatchList(ctx, limit, authoritative, "", &minSize, &maxSize, labelQuery)
	if err != nil {
		logger.Error("RpcQuickJoin [User:%s]: Failed to list matches: %v", userId, err)
		return "", err
	}

	if len(matches) > 0 {
		matchId := matches[0].MatchId
		logger.Info("RpcQuickJoin [User:%s]: Found existing match %s", userId, matchId)
		return matchId, nil
	}

	matchId, err := nk.MatchCreate(ctx, MatchNameParlor, map[string]interface{}{"profile": profileID})
	if err != nil {
		logger.Error("RpcQuickJoin [User:%s]: Failed to create match: %v", userId, err)
		return "", err
	}

	logger.Info("RpcQuickJoin [User:%s]: Created new match %s", userId, matchId)
	return matchId, nil
}
