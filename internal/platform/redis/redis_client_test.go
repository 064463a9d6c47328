package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClient_Unreachable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rdb, err := NewRedisClient(ctx, "127.0.0.1:1", "", 0, nil)

	require.Error(t, err)
	assert.Nil(t, rdb)
}
