package room

import (
	"github.com/kmcrae/warfront/api/internal/bot"
	"github.com/kmcrae/warfront/api/pkg/risk"
)

// NewBotMatch builds a started room seated entirely by AI players, with
// no transport attached. Used by the botmatch harness to pit planner
// difficulties against each other; drive it with RunToCompletion.
func NewBotMatch(id string, difficulties []bot.Difficulty, opts Options) (*Room, error) {
	r := New(id, opts, nil, nil)

	if len(difficulties) < r.gameCfg.MinPlayers || len(difficulties) > maxMembers {
		return nil, resourceError("bot match needs between 2 and 6 players")
	}

	for i, d := range difficulties {
		r.members = append(r.members, &Member{
			Name:       aiName(d, i),
			IsReady:    true,
			IsAI:       true,
			Difficulty: d,
		})
	}
	r.refreshSeats()

	names := make([]string, len(r.members))
	for i, m := range r.members {
		names[i] = m.Name
	}
	cfg := r.gameCfg
	cfg.BattleMode = r.battleMode
	gs, err := risk.NewGame(id, names, cfg)
	if err != nil {
		return nil, err
	}
	for _, m := range r.members {
		gs.AIPlayerIDs = append(gs.AIPlayerIDs, m.PlayerID)
		r.planners[m.PlayerID] = bot.New(m.Difficulty)
	}
	r.state = gs
	return r, nil
}
