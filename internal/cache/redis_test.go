package cache

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// connectOrSkip needs a local redis; REDIS_ADDR overrides the address.
func connectOrSkip(t *testing.T) *Publisher {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	rdb, err := ConnectRedis(context.Background(), addr, 0)
	if err != nil {
		t.Skipf("redis not available: %v", err)
	}
	t.Cleanup(func() { rdb.Close() })
	return NewPublisher(rdb, "uno_actions_test_"+uuid.NewString())
}

func TestPublishGameAction(t *testing.T) {
	pub := connectOrSkip(t)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	t.Cleanup(func() { pub.rdb.Del(context.Background(), pub.Queue()) })

	rec := GameActionRecord{
		GameID:        uuid.New(),
		ActionIndex:   1,
		ActorUserID:   uuid.New(),
		ActionType:    "card_played",
		ActionPayload: map[string]interface{}{"extra": "test"},
		Timestamp:     time.Now().UnixMilli(),
	}
	require.NoError(t, pub.PublishGameAction(ctx, rec))

	raw, err := pub.rdb.LRange(ctx, pub.Queue(), 0, -1).Result()
	require.NoError(t, err)
	require.Len(t, raw, 1)

	var got GameActionRecord
	require.NoError(t, json.Unmarshal([]byte(raw[0]), &got))
	assert.Equal(t, rec.GameID, got.GameID)
	assert.Equal(t, "card_played", got.ActionType)
	assert.Equal(t, "test", got.ActionPayload["extra"])
}

func TestNewPublisherDefaultsQueue(t *testing.T) {
	assert.Equal(t, DefaultQueueName, NewPublisher(nil, "").Queue())
	assert.Equal(t, "q", NewPublisher(nil, "q").Queue())
}
