package room

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kmcrae/warfront/api/internal/bot"
	"github.com/kmcrae/warfront/api/pkg/risk"
)

// maxAISteps bounds one automated turn so a stuck plan can never spin
// the driver forever.
const maxAISteps = 200

// scheduleAILocked starts the AI driver when the current player is
// AI-controlled and no driver is already running. Callers hold r.mu.
func (r *Room) scheduleAILocked() {
	if r.state == nil || r.state.Phase == risk.PhaseGameOver || r.aiActive {
		return
	}
	current := r.state.CurrentPlayer()
	if !r.state.IsAIPlayer(current.ID) {
		return
	}
	r.aiActive = true
	go r.runAITurn(current.ID)
}

// pause sleeps for the room's pacing delay, abandoning early on
// shutdown.
func (r *Room) pause(d time.Duration) bool {
	if d <= 0 {
		return r.ctx.Err() == nil
	}
	select {
	case <-r.ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

// runAITurn drives one AI player until the turn passes on, the game
// ends, or the room shuts down. Decisions are re-derived from fresh
// state between actions, because every attack changes the board the
// plan was built on.
func (r *Room) runAITurn(playerID string) {
	defer func() {
		r.mu.Lock()
		r.aiActive = false
		r.scheduleAILocked()
		r.mu.Unlock()
	}()

	r.broadcaster.BroadcastToRoom(r.ID, Event{Type: EventAITurnStart, Data: AITurnEvent{PlayerID: playerID}})
	defer r.broadcaster.BroadcastToRoom(r.ID, Event{Type: EventAITurnEnd, Data: AITurnEvent{PlayerID: playerID}})

	var pendingPlacements []bot.Placement
	attacks := 0

	for step := 0; step < maxAISteps; step++ {
		if !r.pause(r.pacing) {
			return
		}

		r.mu.Lock()
		gs := r.state
		if gs == nil || gs.Phase == risk.PhaseGameOver || gs.CurrentPlayer().ID != playerID {
			r.mu.Unlock()
			return
		}
		planner := r.planners[playerID]
		if planner == nil {
			r.mu.Unlock()
			log.Error().Str("room_id", r.ID).Str("player_id", playerID).Msg("AI player has no planner")
			return
		}

		var err error
		switch gs.Phase {
		case risk.PhaseSetup:
			tid := planner.SetupPlacement(gs, playerID)
			err = r.applyLocked(func() (*risk.GameState, error) {
				return risk.SetupPlaceTroop(gs, playerID, tid)
			})
			// Setup placement passes the turn; the deferred reschedule
			// picks up the next AI if there is one.
			r.mu.Unlock()
			if err != nil {
				log.Error().Err(err).Str("player_id", playerID).Msg("AI setup placement rejected")
			}
			return

		case risk.PhaseReinforce:
			player := gs.PlayerByID(playerID)
			if player.Reinforcements > 0 {
				if len(pendingPlacements) == 0 {
					pendingPlacements = planner.ReinforcePlacements(gs, playerID)
				}
				if len(pendingPlacements) == 0 {
					// Nowhere to place; should not happen, but do not spin.
					err = r.applyLocked(func() (*risk.GameState, error) {
						return risk.ReinforcePlace(gs, playerID, gs.PlayerTerritories(playerID)[0].ID, player.Reinforcements)
					})
				} else {
					pl := pendingPlacements[0]
					pendingPlacements = pendingPlacements[1:]
					err = r.applyLocked(func() (*risk.GameState, error) {
						return risk.ReinforcePlace(gs, playerID, pl.TerritoryID, pl.Count)
					})
				}
			} else {
				err = r.applyLocked(func() (*risk.GameState, error) {
					return risk.ReinforceDone(gs, playerID)
				})
			}

		case risk.PhaseAttack:
			proposal := planner.NextAttack(gs, playerID)
			if proposal == nil || attacks >= maxPlannedAIAttacks {
				err = r.aiAttackDoneLocked(gs, playerID)
			} else {
				attacks++
				err = r.attackLocked(playerID, proposal.FromID, proposal.ToID, 0)
				if err != nil {
					// The planner would re-propose the same attack on the
					// next wake-up; give up the phase instead of spinning.
					log.Warn().Err(err).Str("room_id", r.ID).Str("player_id", playerID).
						Msg("AI attack rejected, ending attack phase")
					err = r.aiAttackDoneLocked(r.state, playerID)
				}
			}

		case risk.PhaseFortify:
			// One fortify at most; a rejection (usually connectivity)
			// just means skip.
			if proposal := planner.FortifyMove(gs, playerID); proposal != nil {
				if next, ferr := risk.Fortify(gs, playerID, proposal.FromID, proposal.ToID, proposal.Count); ferr == nil {
					r.state = next
					r.broadcastState()
					gs = next
				}
			}
			err = r.applyLocked(func() (*risk.GameState, error) {
				return risk.FortifyDone(gs, playerID)
			})

		default:
			r.mu.Unlock()
			return
		}
		r.mu.Unlock()

		if err != nil {
			log.Error().Err(err).Str("room_id", r.ID).Str("player_id", playerID).
				Str("phase", string(r.phase())).Msg("AI action rejected, ending turn")
			return
		}
	}
}

// maxPlannedAIAttacks caps attacks per AI turn.
const maxPlannedAIAttacks = 5

// applyLocked applies one engine transition and broadcasts. Callers
// hold r.mu.
func (r *Room) applyLocked(fn func() (*risk.GameState, error)) error {
	next, err := fn()
	if err != nil {
		return err
	}
	r.state = next
	r.broadcastState()
	return nil
}

// aiAttackDoneLocked ends the AI's attack phase. Card awards for AI
// players stay server-side; there is no session to notify.
func (r *Room) aiAttackDoneLocked(gs *risk.GameState, playerID string) error {
	return r.applyLocked(func() (*risk.GameState, error) {
		return risk.AttackDone(gs, playerID)
	})
}

func (r *Room) phase() risk.Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == nil {
		return ""
	}
	return r.state.Phase
}

// RunToCompletion drives an all-AI game until gameOver, the context
// expires, or the room shuts down. Used by the botmatch harness and
// tests: it kicks the driver and polls for the end of the game.
func (r *Room) RunToCompletion(ctx context.Context) (*risk.GameState, error) {
	r.mu.Lock()
	if r.state == nil {
		r.mu.Unlock()
		return nil, resourceError("game has not started")
	}
	r.scheduleAILocked()
	r.mu.Unlock()

	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return r.State(), ctx.Err()
		case <-r.ctx.Done():
			return r.State(), r.ctx.Err()
		case <-ticker.C:
			if r.phase() == risk.PhaseGameOver {
				return r.State(), nil
			}
		}
	}
}
