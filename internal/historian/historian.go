// Package historian reads game action logs back out of the Redis queue the engine publishes to.
package historian

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jason-s-yu/uno/internal/cache"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Summary counts the actions recorded for one game.
type Summary struct {
	GameID  uuid.UUID      `json:"gameId"`
	Actions int            `json:"actions"`
	ByType  map[string]int `json:"byType"`
	// Gaps lists action indices missing from the log, e.g. after a failed publish.
	Gaps []int `json:"gaps,omitempty"`
}

// ReadGame loads every record for gameID from queue, ordered by action index. Entries that do
// not decode are logged and skipped.
func ReadGame(ctx context.Context, rdb *redis.Client, queue string, gameID uuid.UUID) ([]cache.GameActionRecord, error) {
	raw, err := rdb.LRange(ctx, queue, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read Redis list '%s': %w", queue, err)
	}

	var records []cache.GameActionRecord
	for i, entry := range raw {
		var rec cache.GameActionRecord
		if err := json.Unmarshal([]byte(entry), &rec); err != nil {
			logrus.WithError(err).WithField("position", i).Warn("skipping malformed action record")
			continue
		}
		if rec.GameID == gameID {
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ActionIndex < records[j].ActionIndex })
	return records, nil
}

// Summarize tallies records, which must belong to one game and be sorted by action index.
func Summarize(gameID uuid.UUID, records []cache.GameActionRecord) Summary {
	s := Summary{GameID: gameID, ByType: map[string]int{}}
	next := 1
	for _, r := range records {
		s.Actions++
		s.ByType[r.ActionType]++
		for ; next < r.ActionIndex; next++ {
			s.Gaps = append(s.Gaps, next)
		}
		next = r.ActionIndex + 1
	}
	return s
}
