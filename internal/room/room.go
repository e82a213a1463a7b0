// Package room orchestrates game rooms: lobby membership, engine
// sequencing for an active game, diplomacy bookkeeping, tactical
// battles, and automated AI turns. Every engine call for a room runs
// under that room's mutex, so the engine itself never sees concurrent
// access.
package room

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/kmcrae/warfront/api/internal/bot"
	"github.com/kmcrae/warfront/api/pkg/risk"
)

const maxMembers = 6

// Member is one seat in a room, human or AI.
type Member struct {
	SessionID  string // empty for AI seats
	PlayerID   string
	Name       string
	Color      risk.Color
	IsReady    bool
	IsHost     bool
	IsAI       bool
	Difficulty bot.Difficulty
}

// Options configures a new room.
type Options struct {
	GameConfig risk.GameConfig
	BattleMode risk.BattleMode
	// AIPacing is the delay between automated AI actions so humans can
	// follow along. Zero is valid and used by tests and botmatch.
	AIPacing time.Duration
}

// Room is one lobby and, once started, one running game.
type Room struct {
	ID string

	mu          sync.Mutex
	members     []*Member
	state       *risk.GameState
	planners    map[string]*bot.Planner
	gameCfg     risk.GameConfig
	battleMode  risk.BattleMode
	pacing      time.Duration
	broadcaster Broadcaster
	cache       StateCache
	aiActive    bool

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates an empty room.
func New(id string, opts Options, b Broadcaster, cache StateCache) *Room {
	if b == nil {
		b = NoopBroadcaster{}
	}
	if cache == nil {
		cache = NoopCache{}
	}
	mode := opts.BattleMode
	if mode == "" {
		mode = opts.GameConfig.BattleMode
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Room{
		ID:          id,
		planners:    map[string]*bot.Planner{},
		gameCfg:     opts.GameConfig,
		battleMode:  mode,
		pacing:      opts.AIPacing,
		broadcaster: b,
		cache:       cache,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Close cancels the room's background work and drops its cache entry.
func (r *Room) Close() {
	r.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.cache.DeleteRoom(ctx, r.ID); err != nil {
		log.Warn().Err(err).Str("room_id", r.ID).Msg("failed to drop cached room state")
	}
}

// Started reports whether the game has begun.
func (r *Room) Started() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state != nil
}

// Empty reports whether no human members remain.
func (r *Room) Empty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.members {
		if !m.IsAI {
			return false
		}
	}
	return true
}

// refreshSeats reassigns positional player ids and colors. Only valid
// before the game starts.
func (r *Room) refreshSeats() {
	for i, m := range r.members {
		m.PlayerID = playerID(i)
		m.Color = risk.PlayerColors[i]
	}
}

func playerID(i int) string {
	return fmt.Sprintf("player-%d", i)
}

// AddPlayer seats a human in the lobby. The first member becomes host.
func (r *Room) AddPlayer(sessionID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != nil {
		return resourceError("game already started")
	}
	if len(r.members) >= maxMembers {
		return resourceError("room is full")
	}
	r.members = append(r.members, &Member{
		SessionID: sessionID,
		Name:      name,
		IsHost:    len(r.members) == 0,
	})
	r.refreshSeats()
	r.broadcastLobby()
	return nil
}

// RemovePlayer drops a member by session, promoting a new host when
// needed. Returns true when no humans remain.
func (r *Room) RemovePlayer(sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i, m := range r.members {
		if m.SessionID == sessionID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false
	}
	wasHost := r.members[idx].IsHost
	r.members = append(r.members[:idx], r.members[idx+1:]...)

	if wasHost {
		for _, m := range r.members {
			if !m.IsAI {
				m.IsHost = true
				break
			}
		}
	}
	if r.state == nil {
		r.refreshSeats()
	}
	r.broadcastLobby()

	for _, m := range r.members {
		if !m.IsAI {
			return false
		}
	}
	return true
}

// ToggleReady flips a member's ready flag.
func (r *Room) ToggleReady(sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m := r.memberBySession(sessionID)
	if m == nil {
		return resourceError("you are not in this room")
	}
	m.IsReady = !m.IsReady
	r.broadcastLobby()
	return nil
}

// AddAI seats an AI player. Host only, lobby only.
func (r *Room) AddAI(sessionID string, difficulty bot.Difficulty) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	host := r.memberBySession(sessionID)
	if host == nil || !host.IsHost {
		return resourceError("only the host can add AI players")
	}
	if r.state != nil {
		return resourceError("game already started")
	}
	if len(r.members) >= maxMembers {
		return resourceError("room is full")
	}
	r.members = append(r.members, &Member{
		Name:       aiName(difficulty, len(r.members)),
		IsReady:    true,
		IsAI:       true,
		Difficulty: difficulty,
	})
	r.refreshSeats()
	r.broadcastLobby()
	return nil
}

func aiName(d bot.Difficulty, seat int) string {
	return fmt.Sprintf("AI (%s) #%d", d, seat+1)
}

// RemoveAI removes an AI seat by player id. Host only, lobby only.
func (r *Room) RemoveAI(sessionID, aiPlayerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	host := r.memberBySession(sessionID)
	if host == nil || !host.IsHost {
		return resourceError("only the host can remove AI players")
	}
	if r.state != nil {
		return resourceError("game already started")
	}
	for i, m := range r.members {
		if m.IsAI && m.PlayerID == aiPlayerID {
			r.members = append(r.members[:i], r.members[i+1:]...)
			r.refreshSeats()
			r.broadcastLobby()
			return nil
		}
	}
	return resourceError("AI player not found")
}

// Start begins the game. Host only, at least two seats, all non-hosts
// ready.
func (r *Room) Start(sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	host := r.memberBySession(sessionID)
	if host == nil || !host.IsHost {
		return resourceError("only the host can start the game")
	}
	if r.state != nil {
		return resourceError("game already started")
	}
	if len(r.members) < r.gameCfg.MinPlayers {
		return resourceError("need at least 2 players to start")
	}
	for _, m := range r.members {
		if !m.IsHost && !m.IsReady {
			return resourceError("all players must be ready")
		}
	}

	names := make([]string, len(r.members))
	for i, m := range r.members {
		names[i] = m.Name
	}
	cfg := r.gameCfg
	cfg.BattleMode = r.battleMode
	gs, err := risk.NewGame(r.ID, names, cfg)
	if err != nil {
		return err
	}
	r.refreshSeats()
	for _, m := range r.members {
		if m.IsAI {
			gs.AIPlayerIDs = append(gs.AIPlayerIDs, m.PlayerID)
			r.planners[m.PlayerID] = bot.New(m.Difficulty)
		}
	}
	r.state = gs

	log.Info().Str("room_id", r.ID).Int("players", len(names)).
		Str("battle_mode", string(r.battleMode)).Msg("game started")

	r.broadcastLobby()
	r.broadcastState()
	r.scheduleAILocked()
	return nil
}

func (r *Room) memberBySession(sessionID string) *Member {
	for _, m := range r.members {
		if !m.IsAI && m.SessionID == sessionID {
			return m
		}
	}
	return nil
}

func (r *Room) memberByPlayerID(playerID string) *Member {
	for _, m := range r.members {
		if m.PlayerID == playerID {
			return m
		}
	}
	return nil
}

func resourceError(msg string) *risk.RuleError {
	return &risk.RuleError{Code: risk.ViolationResource, Message: msg}
}

// LobbySnapshot returns the current lobby view.
func (r *Room) LobbySnapshot() LobbyState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lobbySnapshotLocked()
}

func (r *Room) lobbySnapshotLocked() LobbyState {
	players := make([]LobbyPlayer, len(r.members))
	for i, m := range r.members {
		players[i] = LobbyPlayer{
			ID:      m.PlayerID,
			Name:    m.Name,
			Color:   m.Color,
			IsReady: m.IsReady,
			IsHost:  m.IsHost,
			IsAI:    m.IsAI,
		}
		if m.IsAI {
			players[i].Difficulty = string(m.Difficulty)
		}
	}
	return LobbyState{
		RoomID:     r.ID,
		Players:    players,
		MaxPlayers: maxMembers,
		BattleMode: r.battleMode,
		IsStarted:  r.state != nil,
	}
}

func (r *Room) broadcastLobby() {
	r.broadcaster.BroadcastToRoom(r.ID, Event{Type: EventLobbyUpdate, Data: r.lobbySnapshotLocked()})
}

// broadcastState pushes a per-player sanitized view to every human and
// mirrors a fully sanitized copy to the cache.
func (r *Room) broadcastState() {
	if r.state == nil {
		return
	}
	for _, m := range r.members {
		if m.IsAI || m.SessionID == "" {
			continue
		}
		view := risk.SanitizeForClient(r.state, m.PlayerID)
		r.broadcaster.SendToSession(m.SessionID, Event{Type: EventGameState, Data: view})
	}

	mirror := risk.SanitizeForClient(r.state, "")
	go func() {
		ctx, cancel := context.WithTimeout(r.ctx, 2*time.Second)
		defer cancel()
		if err := r.cache.SaveRoomState(ctx, r.ID, mirror); err != nil && r.ctx.Err() == nil {
			log.Warn().Err(err).Str("room_id", r.ID).Msg("failed to mirror room state")
		}
	}()
}

// withEngine resolves the acting player and applies one engine
// transition, broadcasting on success.
func (r *Room) withEngine(sessionID string, fn func(gs *risk.GameState, playerID string) (*risk.GameState, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == nil {
		return resourceError("game has not started")
	}
	m := r.memberBySession(sessionID)
	if m == nil {
		return resourceError("you are not in this game")
	}

	next, err := fn(r.state, m.PlayerID)
	if err != nil {
		return err
	}
	r.state = next
	r.broadcastState()
	r.scheduleAILocked()
	return nil
}

// SetupPlace handles a setup-phase troop placement.
func (r *Room) SetupPlace(sessionID string, territoryID risk.TerritoryID) error {
	return r.withEngine(sessionID, func(gs *risk.GameState, pid string) (*risk.GameState, error) {
		return risk.SetupPlaceTroop(gs, pid, territoryID)
	})
}

// ReinforcePlace handles a reinforce-phase placement.
func (r *Room) ReinforcePlace(sessionID string, territoryID risk.TerritoryID, count int) error {
	return r.withEngine(sessionID, func(gs *risk.GameState, pid string) (*risk.GameState, error) {
		return risk.ReinforcePlace(gs, pid, territoryID, count)
	})
}

// TradeCards handles a card set trade.
func (r *Room) TradeCards(sessionID string, cardIDs []string) error {
	return r.withEngine(sessionID, func(gs *risk.GameState, pid string) (*risk.GameState, error) {
		return risk.TradeCards(gs, pid, cardIDs)
	})
}

// ReinforceDone ends the reinforce phase.
func (r *Room) ReinforceDone(sessionID string) error {
	return r.withEngine(sessionID, func(gs *risk.GameState, pid string) (*risk.GameState, error) {
		return risk.ReinforceDone(gs, pid)
	})
}

// Attack resolves an attack. Attacking an active pact partner first
// breaks the pact and applies the desertion penalty. In classic mode
// the dice resolve immediately; in tactical mode a mini-battle opens
// instead (auto-simulated when an AI is involved).
func (r *Room) Attack(sessionID string, fromID, toID risk.TerritoryID, dice int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == nil {
		return resourceError("game has not started")
	}
	m := r.memberBySession(sessionID)
	if m == nil {
		return resourceError("you are not in this game")
	}
	return r.attackLocked(m.PlayerID, fromID, toID, dice)
}

// attackLocked is the shared attack path for humans and the AI driver.
func (r *Room) attackLocked(playerID string, fromID, toID risk.TerritoryID, dice int) error {
	gs := r.state
	to, ok := gs.Territories[toID]
	if !ok {
		return &risk.RuleError{Code: risk.ViolationOwnership, Message: "territory not found"}
	}

	// Turning on a partner costs the pact and its desertion penalty
	// before a single die is rolled.
	if to.OwnerID != "" && to.OwnerID != playerID {
		if pact := risk.GetPact(gs, playerID, to.OwnerID); pact != nil {
			if err := r.breakPactLocked(pact.ID, playerID); err != nil {
				return err
			}
			gs = r.state
		}
	}

	if gs.BattleMode == risk.BattleTactical {
		return r.openMiniBattleLocked(playerID, fromID, toID)
	}

	next, result, err := risk.Attack(gs, playerID, fromID, toID, dice)
	if err != nil {
		return err
	}
	r.state = next

	r.broadcaster.BroadcastToRoom(r.ID, Event{Type: EventCombatResult, Data: CombatEvent{
		Result:     result.Combat,
		AttackerID: playerID,
		FromID:     fromID,
		ToID:       toID,
		Conquered:  result.Conquered,
	}})
	if result.EliminatedID != "" {
		r.broadcaster.BroadcastToRoom(r.ID, Event{Type: EventPlayerEliminated, Data: EliminationEvent{
			PlayerID:     result.EliminatedID,
			EliminatedBy: playerID,
		}})
	}
	if next.Phase == risk.PhaseGameOver {
		r.broadcaster.BroadcastToRoom(r.ID, Event{Type: EventGameOver, Data: GameOverEvent{WinnerID: next.WinnerID}})
	}

	r.broadcastState()
	r.scheduleAILocked()
	return nil
}

// AttackMove shifts extra troops after a conquest.
func (r *Room) AttackMove(sessionID string, fromID, toID risk.TerritoryID, count int) error {
	return r.withEngine(sessionID, func(gs *risk.GameState, pid string) (*risk.GameState, error) {
		return risk.AttackMove(gs, pid, fromID, toID, count)
	})
}

// AttackDone ends the attack phase, delivering any earned card
// privately.
func (r *Room) AttackDone(sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == nil {
		return resourceError("game has not started")
	}
	m := r.memberBySession(sessionID)
	if m == nil {
		return resourceError("you are not in this game")
	}

	next, err := risk.AttackDone(r.state, m.PlayerID)
	if err != nil {
		return err
	}
	r.state = next

	if next.HasConqueredThisTurn {
		if p := next.PlayerByID(m.PlayerID); p != nil && len(p.Cards) > 0 {
			card := p.Cards[len(p.Cards)-1]
			r.broadcaster.SendToSession(m.SessionID, Event{Type: EventCardAwarded, Data: CardAwardedEvent{
				PlayerID: m.PlayerID,
				Card:     card,
			}})
		}
	}

	r.broadcastState()
	r.scheduleAILocked()
	return nil
}

// Fortify moves troops along an owned chain.
func (r *Room) Fortify(sessionID string, fromID, toID risk.TerritoryID, count int) error {
	return r.withEngine(sessionID, func(gs *risk.GameState, pid string) (*risk.GameState, error) {
		return risk.Fortify(gs, pid, fromID, toID, count)
	})
}

// FortifyDone ends the turn.
func (r *Room) FortifyDone(sessionID string) error {
	return r.withEngine(sessionID, func(gs *risk.GameState, pid string) (*risk.GameState, error) {
		return risk.FortifyDone(gs, pid)
	})
}

// Chat relays a message to the room.
func (r *Room) Chat(sessionID, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m := r.memberBySession(sessionID)
	if m == nil {
		return resourceError("you are not in this room")
	}
	r.broadcaster.BroadcastToRoom(r.ID, Event{Type: EventChatMessage, Data: ChatEvent{
		PlayerID: m.PlayerID,
		Name:     m.Name,
		Message:  message,
	}})
	return nil
}

// ProposePact creates a pending pact and notifies the target privately.
func (r *Room) ProposePact(sessionID, targetPlayerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == nil {
		return resourceError("game has not started")
	}
	m := r.memberBySession(sessionID)
	if m == nil {
		return resourceError("you are not in this game")
	}
	if m.PlayerID == targetPlayerID {
		return resourceError("cannot propose a pact with yourself")
	}
	target := r.state.PlayerByID(targetPlayerID)
	if target == nil || target.IsEliminated {
		return resourceError("target player not available")
	}
	if risk.HavePact(r.state, m.PlayerID, targetPlayerID) {
		return resourceError("pact already exists")
	}

	pact := risk.NewPact("pact-"+uuid.NewString(), m.PlayerID, targetPlayerID,
		r.state.TurnNumber, defaultPactMinimumDuration)
	next := r.state.Clone()
	next.Pacts = append(next.Pacts, pact)
	r.state = next

	if tm := r.memberByPlayerID(targetPlayerID); tm != nil && !tm.IsAI {
		r.broadcaster.SendToSession(tm.SessionID, Event{Type: EventPactProposed, Data: PactEvent{Pact: pact}})
	}
	return nil
}

const defaultPactMinimumDuration = 3

// AcceptPact activates a pending pact proposed to the caller.
func (r *Room) AcceptPact(sessionID, pactID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == nil {
		return resourceError("game has not started")
	}
	m := r.memberBySession(sessionID)
	if m == nil {
		return resourceError("you are not in this game")
	}

	next, err := risk.AcceptPact(r.state, pactID)
	if err != nil {
		return err
	}
	r.state = next

	for _, p := range next.Pacts {
		if p.ID == pactID {
			r.broadcaster.BroadcastToRoom(r.ID, Event{Type: EventPactAccepted, Data: PactEvent{Pact: p}})
			break
		}
	}
	r.broadcastState()
	return nil
}

// RejectPact drops a pending pact.
func (r *Room) RejectPact(sessionID, pactID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == nil {
		return resourceError("game has not started")
	}
	if r.memberBySession(sessionID) == nil {
		return resourceError("you are not in this game")
	}

	next, err := risk.RemovePact(r.state, pactID)
	if err != nil {
		return err
	}
	r.state = next
	return nil
}

// BreakPact breaks an active pact on the caller's initiative.
func (r *Room) BreakPact(sessionID, pactID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == nil {
		return resourceError("game has not started")
	}
	m := r.memberBySession(sessionID)
	if m == nil {
		return resourceError("you are not in this game")
	}
	if err := r.breakPactLocked(pactID, m.PlayerID); err != nil {
		return err
	}
	r.broadcastState()
	return nil
}

func (r *Room) breakPactLocked(pactID, breakerID string) error {
	next, penalty, err := risk.BreakPact(r.state, pactID, breakerID, r.gameCfg.PactBreakDesertionRate)
	if err != nil {
		return err
	}
	r.state = next

	var broken risk.DiplomacyPact
	for _, p := range next.Pacts {
		if p.ID == pactID {
			broken = p
			break
		}
	}
	r.broadcaster.BroadcastToRoom(r.ID, Event{Type: EventPactBroken, Data: PactBrokenEvent{
		Pact:    broken,
		Penalty: *penalty,
	}})
	return nil
}

// State returns a deep copy of the current game state, or nil before
// start. Test and botmatch hook.
func (r *Room) State() *risk.GameState {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == nil {
		return nil
	}
	return r.state.Clone()
}
