package dashboard

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aanand-mishra/students-dashboard/internal/chart"
	"github.com/aanand-mishra/students-dashboard/internal/nav"
	"github.com/aanand-mishra/students-dashboard/internal/types"
)

const (
	chartGender = "gender"
	chartAge    = "age"
)

// Component is the dashboard as a UI host sees it. The host drives the
// lifecycle:
//
//	Start(ctx)        load the chart library and the data
//	Mount(g, a)       attach the two drawing surfaces
//	Dispose()         tear down: cancel loading, destroy charts
//
// Start and Mount may happen in either order; charts are drawn as soon as
// the data is loaded and the surfaces are attached. A new Start or Reload
// cancels the load before it, whose results are then dropped.
type Component struct {
	loader      *Loader
	loadLibrary chart.Loader
	navigator   nav.Service

	mu        sync.Mutex
	notifyMu  sync.Mutex // held while observers run, so they see states in order
	gen       uint64     // current load; bumped by every Start
	state     State
	lib       chart.Library
	gender    *chart.Surface
	age       *chart.Surface
	charts    map[string]chart.Chart
	cancel    context.CancelFunc
	disposed  bool
	observers []func(State)
}

// NewComponent returns a component in the loading state.
func NewComponent(loader *Loader, loadLibrary chart.Loader, navigator nav.Service) *Component {
	return &Component{
		loader:      loader,
		loadLibrary: loadLibrary,
		navigator:   navigator,
		state:       NewState(),
		charts:      make(map[string]chart.Chart),
	}
}

// OnChange registers fn to be called with the new state after every
// change.
func (c *Component) OnChange(fn func(State)) {
	c.mu.Lock()
	c.observers = append(c.observers, fn)
	c.mu.Unlock()
}

// State returns the current state.
func (c *Component) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// setState stores st if load gen is still the current one and the
// component is not disposed. It reports whether st was stored.
func (c *Component) setState(gen uint64, st State) bool {
	c.mu.Lock()
	if c.disposed || gen != c.gen {
		c.mu.Unlock()
		return false
	}
	c.state = st
	observers := append([]func(State){}, c.observers...)
	c.notifyMu.Lock()
	c.mu.Unlock()
	defer c.notifyMu.Unlock()

	for _, fn := range observers {
		fn(st)
	}
	return true
}

// Start loads the chart library if needed and then the data. A library
// that fails to load ends the loading state with an empty dashboard.
func (c *Component) Start(ctx context.Context) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	c.cancel = cancel
	c.gen++
	gen := c.gen
	lib := c.lib
	c.mu.Unlock()

	if lib == nil {
		loaded, err := c.loadLibrary(ctx)
		if err != nil {
			slog.Error("dashboard: start failed",
				slog.String("error", err.Error()))
			st := c.State()
			st.Loading = false
			c.setState(gen, st)
			return
		}
		c.mu.Lock()
		c.lib = loaded
		c.mu.Unlock()
	}

	c.load(ctx, gen)
}

// Reload fetches the data again.
func (c *Component) Reload(ctx context.Context) {
	c.mu.Lock()
	st, gen := c.state, c.gen
	c.mu.Unlock()

	st.Loading = true
	c.setState(gen, st)
	c.Start(ctx)
}

func (c *Component) load(ctx context.Context, gen uint64) {
	st := NewState()
	c.loader.Load(ctx, &st)
	st.Loading = false
	if !c.setState(gen, st) {
		slog.Debug("dashboard: dropping results of a superseded load")
		return
	}

	c.mu.Lock()
	mounted := c.gender != nil
	c.mu.Unlock()
	if mounted {
		c.RenderCharts()
	}
}

// Mount attaches the drawing surfaces and draws if the data is there.
func (c *Component) Mount(gender, age *chart.Surface) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.gender, c.age = gender, age
	loading := c.state.Loading
	c.mu.Unlock()

	if !loading {
		c.RenderCharts()
	}
}

// RenderCharts (re)draws both charts from the current state. Without
// both surfaces and the library it only logs a warning. Existing charts
// are destroyed first, so each chart has at most one live instance.
func (c *Component) RenderCharts() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gender == nil || c.age == nil || c.lib == nil {
		slog.Warn("dashboard: chart surface or chart library not ready")
		return
	}

	c.destroyCharts()

	if len(c.state.GenderData) > 0 {
		ch, err := c.lib.New(c.gender, GenderChart(c.state))
		if err != nil {
			slog.Error("dashboard: error rendering gender chart",
				slog.String("error", err.Error()))
		} else {
			c.charts[chartGender] = ch
		}
	}

	if len(c.state.AgeData) > 0 {
		ch, err := c.lib.New(c.age, AgeChart(c.state))
		if err != nil {
			slog.Error("dashboard: error rendering age chart",
				slog.String("error", err.Error()))
		} else {
			c.charts[chartAge] = ch
		}
	}
}

// destroyCharts must be called with c.mu held.
func (c *Component) destroyCharts() {
	for name, ch := range c.charts {
		if ch != nil {
			ch.Destroy()
		}
		delete(c.charts, name)
	}
}

// LiveCharts returns how many chart instances the component holds.
func (c *Component) LiveCharts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.charts)
}

// Dispose tears the component down: an in-flight load is cancelled, every
// chart is destroyed and the surfaces are detached.
func (c *Component) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.disposed = true
	if c.cancel != nil {
		c.cancel()
	}
	c.destroyCharts()
	c.gender, c.age = nil, nil
}

// OpenStudent asks the navigation service to open the student's form.
func (c *Component) OpenStudent(ctx context.Context, id int64) error {
	return c.navigator.DoAction(ctx, nav.OpenRecord(types.Model, id))
}
