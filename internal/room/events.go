package room

import (
	"github.com/kmcrae/warfront/api/pkg/risk"
)

// Event is the server-to-client message envelope. Type discriminates
// the payload shape in Data.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Event types sent to clients.
const (
	EventLobbyUpdate      = "lobby:update"
	EventGameState        = "game:state"
	EventCombatResult     = "game:combat"
	EventPlayerEliminated = "game:playerEliminated"
	EventGameOver         = "game:over"
	EventCardAwarded      = "game:cardAwarded"
	EventBattleStart      = "battle:start"
	EventBattleEnd        = "battle:end"
	EventPactProposed     = "diplomacy:proposed"
	EventPactAccepted     = "diplomacy:accepted"
	EventPactBroken       = "diplomacy:broken"
	EventChatMessage      = "chat:message"
	EventAITurnStart      = "ai:turnStart"
	EventAITurnEnd        = "ai:turnEnd"
	EventError            = "error"
)

// LobbyPlayer is one seat as shown in the lobby.
type LobbyPlayer struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Color      risk.Color `json:"color"`
	IsReady    bool       `json:"is_ready"`
	IsHost     bool       `json:"is_host"`
	IsAI       bool       `json:"is_ai"`
	Difficulty string     `json:"difficulty,omitempty"`
}

// LobbyState is the pre-game room snapshot.
type LobbyState struct {
	RoomID     string          `json:"room_id"`
	Players    []LobbyPlayer   `json:"players"`
	MaxPlayers int             `json:"max_players"`
	BattleMode risk.BattleMode `json:"battle_mode"`
	IsStarted  bool            `json:"is_started"`
}

// CombatEvent reports one resolved classic attack.
type CombatEvent struct {
	Result     risk.CombatResult `json:"result"`
	AttackerID string            `json:"attacker_id"`
	FromID     risk.TerritoryID  `json:"from_id"`
	ToID       risk.TerritoryID  `json:"to_id"`
	Conquered  bool              `json:"conquered"`
}

// EliminationEvent announces a player's removal from the game.
type EliminationEvent struct {
	PlayerID     string `json:"player_id"`
	EliminatedBy string `json:"eliminated_by"`
}

// GameOverEvent announces the winner.
type GameOverEvent struct {
	WinnerID string `json:"winner_id"`
}

// CardAwardedEvent is sent privately to the player who earned a card.
type CardAwardedEvent struct {
	PlayerID string             `json:"player_id"`
	Card     risk.TerritoryCard `json:"card"`
}

// BattleEndEvent reports a finished tactical battle.
type BattleEndEvent struct {
	Result    risk.MiniBattleResult `json:"result"`
	Conquered bool                  `json:"conquered"`
}

// PactEvent carries a pact through its proposal and acceptance events.
type PactEvent struct {
	Pact risk.DiplomacyPact `json:"pact"`
}

// PactBrokenEvent reports a broken pact and the desertion paid for it.
type PactBrokenEvent struct {
	Pact    risk.DiplomacyPact    `json:"pact"`
	Penalty risk.PactBreakPenalty `json:"penalty"`
}

// ChatEvent is a relayed chat line.
type ChatEvent struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Message  string `json:"message"`
}

// AITurnEvent brackets an AI player's automated turn.
type AITurnEvent struct {
	PlayerID string `json:"player_id"`
}

// ErrorEvent is sent only to the player whose action was rejected.
type ErrorEvent struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}
