package room

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/kmcrae/warfront/api/internal/bot"
	"github.com/kmcrae/warfront/api/pkg/risk"
)

// Client action names. These form the wire protocol together with the
// event types in events.go.
const (
	ActionCreate   = "room:create"
	ActionJoin     = "room:join"
	ActionLeave    = "room:leave"
	ActionReady    = "lobby:ready"
	ActionAddAI    = "lobby:addAi"
	ActionRemoveAI = "lobby:removeAi"
	ActionStart    = "room:start"

	ActionSetupPlace     = "game:setupPlace"
	ActionReinforcePlace = "game:reinforcePlace"
	ActionTradeCards     = "game:tradeCards"
	ActionReinforceDone  = "game:reinforceDone"
	ActionAttack         = "game:attack"
	ActionAttackMove     = "game:attackMove"
	ActionAttackDone     = "game:attackDone"
	ActionFortify        = "game:fortify"
	ActionFortifyDone    = "game:fortifyDone"
	ActionBattleResult   = "game:battleResult"

	ActionProposePact = "diplomacy:propose"
	ActionAcceptPact  = "diplomacy:accept"
	ActionRejectPact  = "diplomacy:reject"
	ActionBreakPact   = "diplomacy:break"

	ActionChat = "chat:send"
)

// Registry owns every live room and routes client actions to them.
type Registry struct {
	mu        sync.Mutex
	rooms     map[string]*Room
	bySession map[string]string // session id -> room id
	counter   atomic.Int64

	opts        Options
	broadcaster Broadcaster
	cache       StateCache
}

// NewRegistry builds a registry with shared room defaults.
func NewRegistry(opts Options, b Broadcaster, cache StateCache) *Registry {
	if opts.GameConfig.MinPlayers == 0 {
		opts.GameConfig = risk.DefaultConfig()
	}
	if b == nil {
		b = NoopBroadcaster{}
	}
	if cache == nil {
		cache = NoopCache{}
	}
	return &Registry{
		rooms:       map[string]*Room{},
		bySession:   map[string]string{},
		opts:        opts,
		broadcaster: b,
		cache:       cache,
	}
}

// newRoomID generates ids like WAR-K3QF-17: a short uppercase token
// plus a process-local sequence number.
func (reg *Registry) newRoomID() string {
	token := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:4]
	return fmt.Sprintf("WAR-%s-%d", token, reg.counter.Add(1))
}

// Room returns a room by id.
func (reg *Registry) Room(id string) (*Room, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	r, ok := reg.rooms[id]
	return r, ok
}

// RoomIDs lists all live room ids.
func (reg *Registry) RoomIDs() []string {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	ids := make([]string, 0, len(reg.rooms))
	for id := range reg.rooms {
		ids = append(ids, id)
	}
	return ids
}

// RoomOf returns the room a session is in.
func (reg *Registry) RoomOf(sessionID string) (*Room, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	id, ok := reg.bySession[sessionID]
	if !ok {
		return nil, false
	}
	r, ok := reg.rooms[id]
	return r, ok
}

// CreateRoom makes a new room with the creator as host.
func (reg *Registry) CreateRoom(sessionID, playerName string, mode risk.BattleMode) (*Room, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if _, ok := reg.bySession[sessionID]; ok {
		return nil, resourceError("already in a room")
	}

	opts := reg.opts
	if mode == risk.BattleTactical || mode == risk.BattleClassic {
		opts.BattleMode = mode
	}
	id := reg.newRoomID()
	r := New(id, opts, reg.broadcaster, reg.cache)
	if err := r.AddPlayer(sessionID, playerName); err != nil {
		return nil, err
	}
	reg.rooms[id] = r
	reg.bySession[sessionID] = id

	log.Info().Str("room_id", id).Str("player", playerName).Msg("room created")
	return r, nil
}

// JoinRoom seats a session in an existing lobby.
func (reg *Registry) JoinRoom(sessionID, roomID, playerName string) (*Room, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if _, ok := reg.bySession[sessionID]; ok {
		return nil, resourceError("already in a room")
	}
	r, ok := reg.rooms[roomID]
	if !ok {
		return nil, resourceError("room not found")
	}
	if err := r.AddPlayer(sessionID, playerName); err != nil {
		return nil, err
	}
	reg.bySession[sessionID] = roomID

	log.Info().Str("room_id", roomID).Str("player", playerName).Msg("player joined")
	return r, nil
}

// Leave removes a session from its room, closing the room when no
// humans remain.
func (reg *Registry) Leave(sessionID string) {
	reg.mu.Lock()
	id, ok := reg.bySession[sessionID]
	if !ok {
		reg.mu.Unlock()
		return
	}
	delete(reg.bySession, sessionID)
	r := reg.rooms[id]
	reg.mu.Unlock()
	if r == nil {
		return
	}

	if empty := r.RemovePlayer(sessionID); empty {
		reg.mu.Lock()
		delete(reg.rooms, id)
		reg.mu.Unlock()
		r.Close()
		log.Info().Str("room_id", id).Msg("room closed (no humans left)")
	}
}

// HandleDisconnect is the transport's hook for a dropped connection.
func (reg *Registry) HandleDisconnect(sessionID string) {
	reg.Leave(sessionID)
}

type createPayload struct {
	PlayerName string `json:"player_name"`
	BattleMode string `json:"battle_mode"`
}

type joinPayload struct {
	RoomID     string `json:"room_id"`
	PlayerName string `json:"player_name"`
}

type aiPayload struct {
	Difficulty string `json:"difficulty"`
	PlayerID   string `json:"player_id"`
}

type territoryPayload struct {
	TerritoryID risk.TerritoryID `json:"territory_id"`
}

type placePayload struct {
	TerritoryID risk.TerritoryID `json:"territory_id"`
	Count       int              `json:"count"`
}

type attackPayload struct {
	FromID risk.TerritoryID `json:"from_id"`
	ToID   risk.TerritoryID `json:"to_id"`
	Dice   int              `json:"dice"`
}

type movePayload struct {
	FromID risk.TerritoryID `json:"from_id"`
	ToID   risk.TerritoryID `json:"to_id"`
	Count  int              `json:"count"`
}

type cardsPayload struct {
	CardIDs []string `json:"card_ids"`
}

type pactPayload struct {
	PactID         string `json:"pact_id"`
	TargetPlayerID string `json:"target_player_id"`
}

type chatPayload struct {
	Message string `json:"message"`
}

// HandleAction decodes and routes one client action. A returned error
// is delivered only to the acting session by the transport.
func (reg *Registry) HandleAction(sessionID, action string, data json.RawMessage) error {
	switch action {
	case ActionCreate:
		var p createPayload
		if err := unmarshal(data, &p); err != nil {
			return err
		}
		if p.PlayerName == "" {
			return resourceError("player name required")
		}
		_, err := reg.CreateRoom(sessionID, p.PlayerName, risk.BattleMode(p.BattleMode))
		return err

	case ActionJoin:
		var p joinPayload
		if err := unmarshal(data, &p); err != nil {
			return err
		}
		if p.PlayerName == "" {
			return resourceError("player name required")
		}
		_, err := reg.JoinRoom(sessionID, p.RoomID, p.PlayerName)
		return err

	case ActionLeave:
		reg.Leave(sessionID)
		return nil
	}

	r, ok := reg.RoomOf(sessionID)
	if !ok {
		return resourceError("not in a room")
	}

	switch action {
	case ActionReady:
		return r.ToggleReady(sessionID)
	case ActionAddAI:
		var p aiPayload
		if err := unmarshal(data, &p); err != nil {
			return err
		}
		return r.AddAI(sessionID, bot.ParseDifficulty(p.Difficulty))
	case ActionRemoveAI:
		var p aiPayload
		if err := unmarshal(data, &p); err != nil {
			return err
		}
		return r.RemoveAI(sessionID, p.PlayerID)
	case ActionStart:
		return r.Start(sessionID)

	case ActionSetupPlace:
		var p territoryPayload
		if err := unmarshal(data, &p); err != nil {
			return err
		}
		return r.SetupPlace(sessionID, p.TerritoryID)
	case ActionReinforcePlace:
		var p placePayload
		if err := unmarshal(data, &p); err != nil {
			return err
		}
		return r.ReinforcePlace(sessionID, p.TerritoryID, p.Count)
	case ActionTradeCards:
		var p cardsPayload
		if err := unmarshal(data, &p); err != nil {
			return err
		}
		return r.TradeCards(sessionID, p.CardIDs)
	case ActionReinforceDone:
		return r.ReinforceDone(sessionID)
	case ActionAttack:
		var p attackPayload
		if err := unmarshal(data, &p); err != nil {
			return err
		}
		return r.Attack(sessionID, p.FromID, p.ToID, p.Dice)
	case ActionAttackMove:
		var p movePayload
		if err := unmarshal(data, &p); err != nil {
			return err
		}
		return r.AttackMove(sessionID, p.FromID, p.ToID, p.Count)
	case ActionAttackDone:
		return r.AttackDone(sessionID)
	case ActionFortify:
		var p movePayload
		if err := unmarshal(data, &p); err != nil {
			return err
		}
		return r.Fortify(sessionID, p.FromID, p.ToID, p.Count)
	case ActionFortifyDone:
		return r.FortifyDone(sessionID)
	case ActionBattleResult:
		var p risk.MiniBattleResult
		if err := unmarshal(data, &p); err != nil {
			return err
		}
		return r.BattleResult(sessionID, &p)

	case ActionProposePact:
		var p pactPayload
		if err := unmarshal(data, &p); err != nil {
			return err
		}
		return r.ProposePact(sessionID, p.TargetPlayerID)
	case ActionAcceptPact:
		var p pactPayload
		if err := unmarshal(data, &p); err != nil {
			return err
		}
		return r.AcceptPact(sessionID, p.PactID)
	case ActionRejectPact:
		var p pactPayload
		if err := unmarshal(data, &p); err != nil {
			return err
		}
		return r.RejectPact(sessionID, p.PactID)
	case ActionBreakPact:
		var p pactPayload
		if err := unmarshal(data, &p); err != nil {
			return err
		}
		return r.BreakPact(sessionID, p.PactID)

	case ActionChat:
		var p chatPayload
		if err := unmarshal(data, &p); err != nil {
			return err
		}
		return r.Chat(sessionID, p.Message)
	}

	return resourceError("unknown action " + action)
}

func unmarshal(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return resourceError("malformed action payload")
	}
	return nil
}
