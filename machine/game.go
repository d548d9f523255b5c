package machine

// Game binds a fully composed machine to a renderer callback, producing the
// object the host scheduler drives. One Tick equals one simulation step; no
// ticks overlap because the driver is strictly sequential.
type Game[C, U any] struct {
	model   Stateful[C, U]
	render  func(U) error
	started bool
	closed  bool
}

// NewGame is the terminal composition of a machine graph.
func NewGame[C, U any](model Stateful[C, U], render func(U) error) *Game[C, U] {
	return &Game[C, U]{model: model, render: render}
}

// Start plays the initialize sequence through the renderer. It must be
// called once, before the first Tick.
func (g *Game[C, U]) Start() error {
	if g.started {
		panic("machine: game started twice")
	}
	g.started = true
	for _, u := range g.model.Init() {
		if err := g.render(u); err != nil {
			return err
		}
	}
	return nil
}

// Tick advances the graph one step and renders each resulting event in
// order. Errors from the model pass through untouched so the caller can
// classify them with IsGameOver.
func (g *Game[C, U]) Tick(cmd *C) error {
	updates, err := g.model.Step(cmd)
	if err != nil {
		return err
	}
	for _, u := range updates {
		if err := g.render(u); err != nil {
			return err
		}
	}
	return nil
}

// Close tears the graph down. Safe to call once; later calls are no-ops so
// unwinding drivers cannot double tear down.
func (g *Game[C, U]) Close() {
	if g.closed {
		return
	}
	g.closed = true
	g.model.TearDown()
}
