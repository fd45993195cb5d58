package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"math/rand"
	"strconv"
	"time"

	"parlor/internal/app"
	"parlor/internal/bot"
	"parlor/internal/config"
	"parlor/internal/domain"
	"parlor/internal/estimate"
	"parlor/internal/ports"
	"parlor/internal/rules"

	"github.com/heroiclabs/nakama-common/runtime"
)

// MatchState holds the authoritative runtime state for the Nakama match
// handler. One game instance per match; the match loop is the single writer.
type MatchState struct {
	Tick      int64                       `json:"tick"`
	Presences map[string]runtime.Presence `json:"-"`
	App       *app.Service                `json:"-"`
	Accounts  ports.AccountPort           `json:"-"`

	BotsEnabled          bool  `json:"bots_enabled"`
	BotMinDelay          int   `json:"bot_min_delay"`
	BotMaxDelay          int   `json:"bot_max_delay"`
	BotAutoFillDelay     int   `json:"bot_auto_fill_delay"`
	BotWaitUntil         int64 `json:"bot_wait_until"`
	LastSinglePlayerTick int64 `json:"last_single_player_tick"`
}

// matchLabel is the JSON advertised through the match listing API.
type matchLabel struct {
	Open    int    `json:"open"`
	Game    string `json:"game"`
	Status  string `json:"status"`
	Players int    `json:"players"`
}

// executeRequest is the client payload for OpExecuteAction.
type executeRequest struct {
	Input string `json:"input"`
	Args  string `json:"args"`
}

type errorEvent struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (ms *MatchState) openSeats() int {
	open := ms.App.Profile.MaxPlayers() - ms.App.G.ActivePlayerCount()
	if open < 0 {
		open = 0
	}
	return open
}

func (ms *MatchState) humanCount() int {
	return ms.App.G.HumanCount()
}

type matchHandler struct{}

func newMatchHandler() *matchHandler { return &matchHandler{} }

// MatchInit creates the per-instance engine: game, profile, estimator and
// results adapter, plus bot pacing read from the runtime environment.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	profileID := config.GetDefaultProfile()
	if v, ok := params["profile"].(string); ok && v != "" {
		profileID = v
	}
	profile, err := rules.Lookup(profileID)
	if err != nil {
		logger.Error("MatchInit: %v", err)
		return nil, 0, ""
	}

	matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)
	game := domain.NewGame(matchID, profileID, time.Now().UnixNano())

	estCfg := config.GetEstimatorConfig()
	estimator := estimate.New(estimate.Config{
		Simulations:          estCfg.Simulations,
		TickBudget:           estCfg.TickBudget,
		MinSuccess:           estCfg.MinSuccess,
		HumanSpeedMultiplier: estCfg.HumanSpeedMultiplier,
		TickDuration:         time.Duration(estCfg.TickSeconds) * time.Second,
	})
	service := app.NewService(game, profile, NewResultsAdapter(nk, logger), estimator)

	minDelay, maxDelay := config.GetBotDelays()
	state := &MatchState{
		Presences:        make(map[string]runtime.Presence),
		App:              service,
		Accounts:         NewNakamaAccountAdapter(nk),
		BotsEnabled:      true,
		BotMinDelay:      minDelay,
		BotMaxDelay:      maxDelay,
		BotAutoFillDelay: config.GetBotAutoFillDelay(),
	}

	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		if val, ok := env["parlor_bots_enabled"]; ok {
			state.BotsEnabled = val == "true"
		}
		if val, ok := env["parlor_bot_min_delay_sec"]; ok {
			if i, err := strconv.Atoi(val); err == nil {
				state.BotMinDelay = i
			}
		}
		if val, ok := env["parlor_bot_max_delay_sec"]; ok {
			if i, err := strconv.Atoi(val); err == nil {
				state.BotMaxDelay = i
			}
		}
		if val, ok := env["parlor_bot_auto_fill_delay_sec"]; ok {
			if i, err := strconv.Atoi(val); err == nil {
				state.BotAutoFillDelay = i
			}
		}
	}

	labelBytes, err := json.Marshal(mh.label(state))
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1
	return state, tickRate, string(labelBytes)
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// Rejoining players always get back in.
	if matchState.App.G.PlayerByID(presence.GetUserId()) != nil {
		return matchState, true, ""
	}
	// The bot id prefix is reserved; a real account can never claim it.
	if bot.IsBot(presence.GetUserId()) {
		return matchState, false, "reserved user id"
	}
	if matchState.App.G.Status != domain.StatusLobby {
		return matchState, false, "match already started"
	}
	if matchState.openSeats() <= 0 && matchState.App.G.BotCount() == 0 {
		return matchState, false, "match full"
	}
	return matchState, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p

		if matchState.App.G.PlayerByID(p.GetUserId()) != nil {
			// Reconnect: resend the personalized menu.
			mh.sendMenu(matchState, dispatcher, logger, p.GetUserId())
			continue
		}

		// A full lobby admits a human by replacing a bot.
		if matchState.openSeats() <= 0 && matchState.App.G.BotCount() > 0 {
			events, err := matchState.App.ExecuteAction(matchState.App.G.HostID, "remove_bot", "")
			if err != nil {
				logger.Warn("MatchJoin: could not free a bot seat for %s: %v", p.GetUserId(), err)
				continue
			}
			mh.dispatchEvents(matchState, dispatcher, logger, events)
		}

		name := p.GetUsername()
		if name == "" && matchState.Accounts != nil {
			if u, err := matchState.Accounts.GetUser(ctx, p.GetUserId()); err == nil {
				if u.DisplayName != "" {
					name = u.DisplayName
				} else {
					name = u.Username
				}
			}
		}
		if name == "" {
			name = p.GetUserId()
		}

		events, err := matchState.App.Join(p.GetUserId(), name, false)
		if err != nil {
			logger.Warn("MatchJoin: %s rejected: %v", p.GetUserId(), err)
			continue
		}
		mh.dispatchEvents(matchState, dispatcher, logger, events)
	}

	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())
		events, err := matchState.App.Leave(p.GetUserId())
		if err != nil {
			logger.Warn("MatchLeave: %s: %v", p.GetUserId(), err)
			continue
		}
		mh.dispatchEvents(matchState, dispatcher, logger, events)
	}

	if matchState.humanCount() == 0 {
		logger.Info("MatchLeave: Terminating match with no humans.")
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}
	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpExecuteAction:
			mh.handleExecute(matchState, dispatcher, logger, msg)
		case OpRequestMenu:
			mh.sendMenu(matchState, dispatcher, logger, msg.GetUserId())
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	if matchState.BotsEnabled {
		mh.processBots(matchState, dispatcher, logger)
	}

	if events := matchState.App.CheckEstimate(); len(events) > 0 {
		mh.dispatchEvents(matchState, dispatcher, logger, events)
	}

	return matchState
}

func (mh *matchHandler) handleExecute(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	var req executeRequest
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		logger.Warn("handleExecute: Invalid request from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, "invalid request")
		return
	}

	events, err := state.App.ExecuteInput(senderID, req.Input, req.Args)
	mh.dispatchEvents(state, dispatcher, logger, events)
	if err != nil {
		logger.Warn("handleExecute: %s input %q failed: %v", senderID, req.Input, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}
	mh.updateLabel(state, dispatcher, logger)
}

// processBots auto-fills a waiting solo lobby after a delay, then lets the
// bot whose turn it is act once its randomized think delay elapses.
func (mh *matchHandler) processBots(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.App.G.Status == domain.StatusLobby {
		if state.App.BotAutoFillCount() > 0 {
			if state.LastSinglePlayerTick == 0 {
				state.LastSinglePlayerTick = state.Tick
				logger.Debug("processBots: Single player detected, starting auto-fill timer.")
			}
			if state.Tick-state.LastSinglePlayerTick >= int64(state.BotAutoFillDelay) {
				events, err := state.App.AutoFillBots()
				if err != nil {
					logger.Error("processBots: auto-fill failed: %v", err)
				}
				mh.dispatchEvents(state, dispatcher, logger, events)
				mh.updateLabel(state, dispatcher, logger)
				state.LastSinglePlayerTick = 0
			}
		} else {
			state.LastSinglePlayerTick = 0
		}
		return
	}

	if state.App.G.Status != domain.StatusActive {
		return
	}
	current := state.App.G.CurrentPlayer()
	if current == nil || !current.IsBot {
		state.BotWaitUntil = 0
		return
	}

	if state.BotWaitUntil == 0 {
		delay := state.BotMinDelay
		if state.BotMaxDelay > state.BotMinDelay {
			delay += rand.Intn(state.BotMaxDelay - state.BotMinDelay + 1)
		}
		state.BotWaitUntil = state.Tick + int64(delay)
		logger.Debug("processBots: Bot %s will act at tick %d (current %d)", current.ID, state.BotWaitUntil, state.Tick)
		return
	}
	if state.Tick < state.BotWaitUntil {
		return
	}
	state.BotWaitUntil = 0

	events, err := state.App.BotTick()
	if err != nil {
		logger.Error("processBots: Bot %s failed to act: %v", current.ID, err)
	}
	mh.dispatchEvents(state, dispatcher, logger, events)
	mh.updateLabel(state, dispatcher, logger)
}

// dispatchEvents maps app events onto op codes and JSON payloads. Events
// addressed to recipients with no connected presence are dropped rather than
// broadcast.
func (mh *matchHandler) dispatchEvents(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		if ev.Kind == app.EventMenuRebuild {
			mh.sendMenus(state, dispatcher, logger)
			continue
		}

		opCode, ok := opCodeFor(ev.Kind)
		if !ok {
			logger.Warn("Unknown event kind: %v", ev.Kind)
			continue
		}

		bytes, err := json.Marshal(ev.Payload)
		if err != nil {
			logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
			continue
		}

		var recipients []runtime.Presence
		if len(ev.Recipients) > 0 {
			for _, uid := range ev.Recipients {
				if p, ok := state.Presences[uid]; ok {
					recipients = append(recipients, p)
				}
			}
			// Intended recipients with no presence are bots or gone; the
			// event must not leak to everyone else.
			if len(recipients) == 0 {
				continue
			}
		}

		dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true)
	}
}

func opCodeFor(kind app.EventKind) (int64, bool) {
	switch kind {
	case app.EventPlayerJoined:
		return OpPlayerJoined, true
	case app.EventPlayerLeft:
		return OpPlayerLeft, true
	case app.EventGameStarted:
		return OpGameStarted, true
	case app.EventCandidates:
		return OpCandidates, true
	case app.EventTurnAdvanced:
		return OpTurnAdvanced, true
	case app.EventPlayerSkipped:
		return OpPlayerSkipped, true
	case app.EventGameEnded:
		return OpGameEnded, true
	case app.EventBroadcast:
		return OpBroadcast, true
	case app.EventRejected:
		return OpRejected, true
	}
	return 0, false
}

// sendMenus pushes each connected player their personalized action menu.
func (mh *matchHandler) sendMenus(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	for uid := range state.Presences {
		mh.sendMenu(state, dispatcher, logger, uid)
	}
}

func (mh *matchHandler) sendMenu(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string) {
	presence, ok := state.Presences[userID]
	if !ok {
		return
	}
	snapshot := state.App.MenuSnapshot(userID)
	if snapshot == nil {
		return
	}
	bytes, err := json.Marshal(snapshot)
	if err != nil {
		logger.Error("sendMenu: Failed to marshal menu for %s: %v", userID, err)
		return
	}
	dispatcher.BroadcastMessage(OpMenu, bytes, []runtime.Presence{presence}, nil, true)
}

func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}
	bytes, err := json.Marshal(errorEvent{Code: code, Message: message})
	if err != nil {
		logger.Error("Failed to marshal error event: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpRejected, bytes, []runtime.Presence{presence}, nil, true)
}

func (mh *matchHandler) label(state *MatchState) matchLabel {
	status := "lobby"
	switch state.App.G.Status {
	case domain.StatusActive:
		status = "playing"
	case domain.StatusFinished:
		status = "finished"
	}
	open := state.openSeats()
	if status != "lobby" {
		open = 0
	}
	return matchLabel{
		Open:    open,
		Game:    state.App.G.ProfileID,
		Status:  status,
		Players: state.App.G.ActivePlayerCount(),
	}
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	labelBytes, err := json.Marshal(mh.label(state))
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(string(labelBytes)); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}
	if matchState.App.G.Status == domain.StatusActive {
		events := matchState.App.ForceFinish("game-server-shutdown")
		mh.dispatchEvents(matchState, dispatcher, logger, events)
	}
	logger.Debug("MatchTerminate: Match terminated for reason %d", reason)
	return matchState
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
