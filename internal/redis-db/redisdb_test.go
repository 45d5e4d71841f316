package redis_db

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRedisURL_DockerStyle(t *testing.T) {
	opts, err := ParseRedisURL("redis:6379")
	require.NoError(t, err)
	assert.Equal(t, "redis:6379", opts.Addr)
	assert.Empty(t, opts.Password)
}

func TestParseRedisURL_FullURL(t *testing.T) {
	opts, err := ParseRedisURL("redis://:secret@localhost:6380/1")
	require.NoError(t, err)
	assert.Equal(t, "localhost:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 1, opts.DB)
}

func TestNewRedisClient_EmptyAddresses(t *testing.T) {
	_, err := NewRedisClient(nil)
	assert.Error(t, err)
}

func TestNewRedisClient_SingleInstance(t *testing.T) {
	mr := miniredis.RunT(t)

	r, err := NewRedisClient([]string{mr.Addr()})
	require.NoError(t, err)
	assert.NotNil(t, r.Client())
}

func TestNewRedisClient_UnreachableHost(t *testing.T) {
	_, err := NewRedisClient([]string{"localhost:1"})
	assert.Error(t, err)
}
