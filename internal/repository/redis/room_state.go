package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kmcrae/warfront/api/pkg/risk"
)

// Key patterns for Redis room state.
func stateKey(roomID string) string { return "room:" + roomID + ":state" }

const activeRoomsKey = "rooms:active"

// roomStateTTL keeps abandoned room state from piling up if a server
// dies without cleaning up.
const roomStateTTL = 24 * time.Hour

// SaveRoomState mirrors a room's sanitized game state and indexes the
// room as active. Implements room.StateCache.
func (c *Client) SaveRoomState(ctx context.Context, roomID string, state *risk.GameState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal room state: %w", err)
	}
	pipe := c.rdb.TxPipeline()
	pipe.Set(ctx, stateKey(roomID), data, roomStateTTL)
	pipe.SAdd(ctx, activeRoomsKey, roomID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save room state: %w", err)
	}
	return nil
}

// LoadRoomState retrieves a room's last mirrored state, or nil when the
// room has none.
func (c *Client) LoadRoomState(ctx context.Context, roomID string) (*risk.GameState, error) {
	data, err := c.rdb.Get(ctx, stateKey(roomID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get room state: %w", err)
	}
	var state risk.GameState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("unmarshal room state: %w", err)
	}
	return &state, nil
}

// DeleteRoom removes all Redis data for a room. Implements
// room.StateCache.
func (c *Client) DeleteRoom(ctx context.Context, roomID string) error {
	pipe := c.rdb.TxPipeline()
	pipe.Del(ctx, stateKey(roomID))
	pipe.SRem(ctx, activeRoomsKey, roomID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete room state: %w", err)
	}
	return nil
}

// ActiveRooms lists the room ids with mirrored state.
func (c *Client) ActiveRooms(ctx context.Context) ([]string, error) {
	return c.rdb.SMembers(ctx, activeRoomsKey).Result()
}
