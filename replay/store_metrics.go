package replay

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// InstrumentStore wraps all store methods to instrument the underlying
// calls.
func InstrumentStore(s Store) Store { return &metrics{s} }

var storeCalls = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "snake",
		Subsystem: "replay",
		Name:      "store_calls",
		Help:      "Calls processed by the replay store.",
	},
	[]string{"method"},
)

func instrument(method string) func() {
	t := prometheus.NewTimer(storeCalls.WithLabelValues(method))
	return t.ObserveDuration
}

func init() {
	prometheus.MustRegister(storeCalls)
}

type metrics struct{ s Store }

func (m *metrics) CreateRound(ctx context.Context, r *Round) error {
	defer instrument("CreateRound")()
	return m.s.CreateRound(ctx, r)
}

func (m *metrics) SetRoundStatus(ctx context.Context, id string, status Status) error {
	defer instrument("SetRoundStatus")()
	return m.s.SetRoundStatus(ctx, id, status)
}

func (m *metrics) GetRound(ctx context.Context, id string) (*Round, error) {
	defer instrument("GetRound")()
	return m.s.GetRound(ctx, id)
}

func (m *metrics) ListRounds(ctx context.Context) ([]*Round, error) {
	defer instrument("ListRounds")()
	return m.s.ListRounds(ctx)
}

func (m *metrics) PushFrame(ctx context.Context, id string, f *Frame) error {
	defer instrument("PushFrame")()
	return m.s.PushFrame(ctx, id, f)
}

func (m *metrics) ListFrames(ctx context.Context, id string, limit, offset int) ([]*Frame, error) {
	defer instrument("ListFrames")()
	return m.s.ListFrames(ctx, id, limit, offset)
}
