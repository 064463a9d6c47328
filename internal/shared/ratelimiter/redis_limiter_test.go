package ratelimiter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLimiter_Allow(t *testing.T) {
	ctx := context.Background()

	t.Run("nil receiver fails open", func(t *testing.T) {
		var l *RedisLimiter
		assert.True(t, l.Allow(ctx, "1.2.3.4"))
	})

	t.Run("nil client yields nil limiter", func(t *testing.T) {
		assert.Nil(t, NewRedisLimiter(nil, time.Minute, 3, nil))
	})

	t.Run("empty key rejected", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		l := newRedisLimiter(client, time.Minute, 3, nil)

		assert.False(t, l.Allow(ctx, "  "))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("allow when count within max", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		l := newRedisLimiter(client, 15*time.Minute, 3, nil)
		mock.ExpectEval(redisAllowScript, []string{"wth:rl:1.2.3.4"}, 900).SetVal(int64(3))

		assert.True(t, l.Allow(ctx, "1.2.3.4"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("deny when count exceeds max", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		l := newRedisLimiter(client, time.Minute, 3, nil)
		mock.ExpectEval(redisAllowScript, []string{"wth:rl:1.2.3.4"}, 60).SetVal(int64(4))

		assert.False(t, l.Allow(ctx, "1.2.3.4"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("redis error fails open", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		l := newRedisLimiter(client, time.Minute, 3, nil)
		mock.ExpectEval(redisAllowScript, []string{"wth:rl:1.2.3.4"}, 60).SetErr(errors.New("redis down"))

		assert.True(t, l.Allow(ctx, "1.2.3.4"))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
