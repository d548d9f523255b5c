package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"

	"github.com/hoangpq/snake-engine/config"
	"github.com/hoangpq/snake-engine/grid"
	"github.com/hoangpq/snake-engine/replay"
)

// Server exposes the engine over HTTP. Rounds are created and steered with
// plain JSON endpoints; watchers stream frames over a websocket.
type Server struct {
	addr  string
	store replay.Store
	hs    *http.Server

	mu   sync.Mutex
	live map[string]*liveRound
}

// New returns a server listening on addr, recording rounds to store.
func New(addr string, store replay.Store) *Server {
	s := &Server{
		addr:  addr,
		store: store,
		live:  make(map[string]*liveRound),
	}

	router := httprouter.New()
	router.POST("/rounds", s.createRound)
	router.GET("/rounds", s.listRounds)
	router.GET("/rounds/:id", s.getRound)
	router.DELETE("/rounds/:id", s.stopRound)
	router.POST("/rounds/:id/move", s.move)
	router.GET("/rounds/:id/frames", s.frames)
	router.GET("/rounds/:id/socket", s.socket)
	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())

	s.hs = &http.Server{
		Addr:    addr,
		Handler: cors.AllowAll().Handler(router),
	}
	return s
}

// Handler returns the root handler, exposed for tests.
func (s *Server) Handler() http.Handler { return s.hs.Handler }

// WaitForExit starts the http server and blocks until it stops.
func (s *Server) WaitForExit() {
	log.WithField("listen", s.addr).Info("snake engine serving")
	if err := s.hs.ListenAndServe(); err != nil {
		log.WithError(err).Error("server failed")
	}
}

// maxBoardSide caps requested board dimensions.
const maxBoardSide = 256

type createRoundRequest struct {
	Width  grid.Nat `json:"width"`
	Height grid.Nat `json:"height"`
	Wrap   bool     `json:"wrap"`
	Seed   int64    `json:"seed"`
}

func (s *Server) createRound(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := createRoundRequest{
		Width:  grid.Nat(config.BoardWidth),
		Height: grid.Nat(config.BoardHeight),
		Wrap:   true,
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid round request")
			return
		}
	}
	if req.Width < 4 || req.Height < 4 {
		writeError(w, http.StatusBadRequest, "board too small")
		return
	}
	if req.Width > maxBoardSide || req.Height > maxBoardSide {
		writeError(w, http.StatusBadRequest, "board too large")
		return
	}
	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	round := &replay.Round{
		Width:  req.Width,
		Height: req.Height,
		Wrap:   req.Wrap,
		Seed:   seed,
	}
	lr, err := newLiveRound(s.store, round)
	if err != nil {
		log.WithError(err).Error("failed to create round")
		writeError(w, http.StatusInternalServerError, "failed to create round")
		return
	}

	s.mu.Lock()
	s.live[round.ID] = lr
	s.mu.Unlock()
	go func() {
		lr.run()
		s.mu.Lock()
		delete(s.live, round.ID)
		s.mu.Unlock()
	}()

	writeJSON(w, http.StatusCreated, round)
}

func (s *Server) listRounds(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	rounds, err := s.store.ListRounds(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list rounds")
		return
	}
	writeJSON(w, http.StatusOK, rounds)
}

func (s *Server) getRound(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	round, err := s.store.GetRound(r.Context(), ps.ByName("id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, round)
}

func (s *Server) stopRound(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	lr, ok := s.liveRound(ps.ByName("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "no live round with that id")
		return
	}
	lr.stop()
	w.WriteHeader(http.StatusNoContent)
}

// moveRequest accepts either a direction name or a raw browser keyCode, so
// canvas clients can forward keydown events untranslated.
type moveRequest struct {
	Direction string `json:"direction"`
	KeyCode   int    `json:"keyCode"`
}

func (m moveRequest) direction() (grid.Direction, bool) {
	if m.Direction != "" {
		return grid.ParseDirection(m.Direction)
	}
	return grid.DirectionFromKeyCode(m.KeyCode)
}

func (s *Server) move(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	lr, ok := s.liveRound(ps.ByName("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "no live round with that id")
		return
	}

	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid move request")
		return
	}
	dir, ok := req.direction()
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown direction")
		return
	}
	lr.mail.Put(dir)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) frames(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	limit, offset := pageParams(r)
	frames, err := s.store.ListFrames(r.Context(), ps.ByName("id"), limit, offset)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, frames)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// socket streams frames to a watcher. Recorded frames are sent first so a
// fresh canvas can rebuild the scene, then live frames as they happen. The
// read side accepts move requests so a browser needs only one connection.
func (s *Server) socket(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if _, err := s.store.GetRound(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Error("websocket upgrade failed")
		return
	}
	defer conn.Close()

	lr, isLive := s.liveRound(id)

	var liveCh chan *replay.Frame
	if isLive {
		liveCh = lr.hub.subscribe()
		defer lr.hub.unsubscribe(liveCh)
		go s.readMoves(conn, lr)
	}

	recorded, err := s.store.ListFrames(context.Background(), id, allFrames, 0)
	if err != nil {
		log.WithError(err).WithField("round", id).Error("failed to load frames")
		return
	}
	lastTurn := -1
	for _, f := range recorded {
		if err := conn.WriteJSON(f); err != nil {
			return
		}
		lastTurn = f.Turn
	}
	if !isLive {
		return
	}

	for f := range liveCh {
		// subscription raced the recorded backlog, skip what was already sent
		if f.Turn <= lastTurn {
			continue
		}
		lastTurn = f.Turn
		if err := conn.WriteJSON(f); err != nil {
			return
		}
	}
}

func (s *Server) readMoves(conn *websocket.Conn, lr *liveRound) {
	for {
		var req moveRequest
		if err := conn.ReadJSON(&req); err != nil {
			return
		}
		if dir, ok := req.direction(); ok {
			lr.mail.Put(dir)
		}
	}
}

func (s *Server) liveRound(id string) (*liveRound, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lr, ok := s.live[id]
	return lr, ok
}

// allFrames is the paging limit used when a caller wants a whole round.
const allFrames = 1 << 20

func pageParams(r *http.Request) (limit, offset int) {
	limit, offset = allFrames, 0
	q := r.URL.Query()
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			offset = n
		}
	}
	return limit, offset
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("failed to write response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Cause(err) == replay.ErrNotFound {
		writeError(w, http.StatusNotFound, "round not found")
		return
	}
	log.WithError(err).Error("store error")
	writeError(w, http.StatusInternalServerError, "internal error")
}
