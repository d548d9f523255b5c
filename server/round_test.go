package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoangpq/snake-engine/replay"
)

func TestStopIsIdempotent(t *testing.T) {
	store := replay.InMemStore()
	lr, err := newLiveRound(store, &replay.Round{Width: 8, Height: 8, Wrap: true, Seed: 1})
	require.NoError(t, err)

	require.NotPanics(t, func() {
		lr.stop()
		lr.stop()
	})
}

func TestStopRoundRepeatedDelete(t *testing.T) {
	ts, _ := newTestServer(t)
	round := createTestRound(t, ts)

	// the round lingers in the live table until its goroutine winds down, so
	// a second DELETE can land on the same liveRound
	for i := 0; i < 2; i++ {
		req, err := http.NewRequest(http.MethodDelete, ts.URL+"/rounds/"+round.ID, nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Contains(t, []int{http.StatusNoContent, http.StatusNotFound}, resp.StatusCode)
	}
}
