package redisstore

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/dlsteuer/miniredis"
	uuid "github.com/satori/go.uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoangpq/snake-engine/grid"
	"github.com/hoangpq/snake-engine/replay"
	"github.com/hoangpq/snake-engine/world"
)

var store *Store
var server *miniredis.Miniredis

func TestMain(m *testing.M) {
	redisURL := os.Getenv("REDIS_URL")
	if len(redisURL) == 0 {
		server = miniredis.NewMiniRedis()
		if err := server.StartAddr("127.0.0.1:9736"); err != nil {
			fmt.Println("unable to start local redis instance")
			os.Exit(1)
		}
		redisURL = fmt.Sprintf("redis://%s", server.Addr())
	}

	s, err := NewStore(redisURL)
	if err != nil {
		fmt.Println("unable to connect redis store")
		os.Exit(1)
	}
	store = s

	retCode := m.Run()

	store.Close()
	if server != nil {
		server.Close()
	}
	os.Exit(retCode)
}

func createRound(t *testing.T) *replay.Round {
	r := &replay.Round{Width: 8, Height: 8, Status: replay.StatusRunning}
	require.NoError(t, store.CreateRound(context.Background(), r))
	require.NotEmpty(t, r.ID)
	return r
}

func TestCreateAndGetRound(t *testing.T) {
	r := createRound(t)

	got, err := store.GetRound(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)
	assert.Equal(t, grid.Nat(8), got.Width)
	assert.Equal(t, replay.StatusRunning, got.Status)
}

func TestGetRoundNotFound(t *testing.T) {
	_, err := store.GetRound(context.Background(), uuid.NewV4().String())
	assert.Equal(t, replay.ErrNotFound, err)
}

func TestSetRoundStatus(t *testing.T) {
	r := createRound(t)

	require.NoError(t, store.SetRoundStatus(context.Background(), r.ID, replay.StatusComplete))
	got, err := store.GetRound(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, replay.StatusComplete, got.Status)
}

func TestPushAndListFrames(t *testing.T) {
	r := createRound(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		f := &replay.Frame{
			Turn: i,
			Updates: []world.Update{
				world.SetBlock{Block: grid.SnakeBlock(grid.South), At: grid.Coordinate{X: grid.Nat(i), Y: 1}},
			},
		}
		require.NoError(t, store.PushFrame(ctx, r.ID, f))
	}

	frames, err := store.ListFrames(ctx, r.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, frames, 3)
	assert.Equal(t, 0, frames[0].Turn)
	assert.Equal(t, world.SetBlock{Block: grid.SnakeBlock(grid.South), At: grid.Coordinate{X: 2, Y: 1}}, frames[2].Updates[0])

	// paging
	frames, err = store.ListFrames(ctx, r.ID, 1, 1)
	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.Equal(t, 1, frames[0].Turn)

	// last frame via negative offset
	frames, err = store.ListFrames(ctx, r.ID, 1, -1)
	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.Equal(t, 2, frames[0].Turn)

	// frames of an unknown round
	_, err = store.ListFrames(ctx, uuid.NewV4().String(), 10, 0)
	assert.Equal(t, replay.ErrNotFound, err)
}

func TestListFramesDeepNegativeOffset(t *testing.T) {
	r := createRound(t)
	ctx := context.Background()

	frames := make([]*replay.Frame, 5)
	for i := range frames {
		frames[i] = &replay.Frame{Turn: i}
		require.NoError(t, store.PushFrame(ctx, r.ID, frames[i]))
	}

	// an offset past the oldest frame clamps to the head, same as PageFrames
	want := replay.PageFrames(frames, 10, -10)
	require.Len(t, want, 5)

	got, err := store.ListFrames(ctx, r.ID, 10, -10)
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Turn, got[i].Turn)
	}
}

func TestListRounds(t *testing.T) {
	r := createRound(t)

	rounds, err := store.ListRounds(context.Background())
	require.NoError(t, err)

	found := false
	for _, got := range rounds {
		if got.ID == r.ID {
			found = true
		}
	}
	assert.True(t, found)
}
