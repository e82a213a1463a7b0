package room

import (
	"context"

	"github.com/kmcrae/warfront/api/pkg/risk"
)

// StateCache mirrors live room state to an external store for ops
// inspection. Writes are best-effort; rooms never read back from it.
type StateCache interface {
	SaveRoomState(ctx context.Context, roomID string, state *risk.GameState) error
	DeleteRoom(ctx context.Context, roomID string) error
}

// NoopCache is the default when no cache is configured.
type NoopCache struct{}

func (NoopCache) SaveRoomState(context.Context, string, *risk.GameState) error { return nil }
func (NoopCache) DeleteRoom(context.Context, string) error                     { return nil }
