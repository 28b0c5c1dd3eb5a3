package redis

import (
	"fmt"

	"github.com/mcoot/pegjump/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "pegjump"

// sessionKey returns the Redis key for a Session
func sessionKey(id model.SessionID) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, id)
}
