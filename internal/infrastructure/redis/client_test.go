package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientSuccess(t *testing.T) {
	s := miniredis.RunT(t)

	ctx := context.Background()
	client, err := NewClient(ctx, fmt.Sprintf("redis://%s", s.Addr()))
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, client.Ping(ctx).Err())
}

func TestNewClientWithOptionsAppliesPool(t *testing.T) {
	s := miniredis.RunT(t)

	client, err := NewClientWithOptions(context.Background(), fmt.Sprintf("redis://%s/2", s.Addr()), Options{
		DialTimeout: time.Second,
		PoolSize:    3,
	})
	require.NoError(t, err)
	defer client.Close()

	assert.Equal(t, 3, client.Options().PoolSize)
	assert.Equal(t, 2, client.Options().DB)
	assert.Equal(t, time.Second, client.Options().DialTimeout)
}

func TestNewClientInvalidURL(t *testing.T) {
	_, err := NewClient(context.Background(), "://bad-url")
	assert.Error(t, err)
}

func TestNewClientPingFailure(t *testing.T) {
	s := miniredis.RunT(t)
	url := fmt.Sprintf("redis://%s", s.Addr())
	s.Close()

	_, err := NewClient(context.Background(), url)
	assert.Error(t, err)
}

func TestPingCheck(t *testing.T) {
	s := miniredis.RunT(t)

	client, err := NewClient(context.Background(), fmt.Sprintf("redis://%s", s.Addr()))
	require.NoError(t, err)
	defer client.Close()

	check := PingCheck(client)
	require.NoError(t, check(context.Background()))

	s.Close()
	assert.Error(t, check(context.Background()))
}
