// Package refresh owns the per-platform fetch lifecycle: a delayed first
// fetch, background polling, and teardown that discards late results.
package refresh

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/thevedantmod/stand-clear/internal/arrivals"
	"github.com/thevedantmod/stand-clear/internal/model"
)

const (
	DefaultStartupDelay = 1000 * time.Millisecond
	DefaultPollInterval = 15000 * time.Millisecond
)

// Fetcher retrieves the arrivals for a platform.
type Fetcher interface {
	Fetch(ctx context.Context, req model.PlatformRequest) ([]model.Arrival, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, req model.PlatformRequest) ([]model.Arrival, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, req model.PlatformRequest) ([]model.Arrival, error) {
	return f(ctx, req)
}

// Options configures a Controller.
type Options struct {
	// StartupDelay precedes the first fetch only. Zero disables it.
	StartupDelay time.Duration
	// PollInterval is the period of background refreshes.
	PollInterval time.Duration
	Logger       zerolog.Logger
}

// DefaultOptions returns the standard timings.
func DefaultOptions() Options {
	return Options{
		StartupDelay: DefaultStartupDelay,
		PollInterval: DefaultPollInterval,
		Logger:       zerolog.Nop(),
	}
}

// Listener receives every state transition. It is called with the
// controller lock held, so it must not block or call back into the
// controller.
type Listener func(req model.PlatformRequest, st State)

// Controller runs the refresh lifecycle of one platform.
//
// Polls do not cancel a fetch that is still in flight, so when a round trip
// takes longer than the poll interval two fetches can overlap. Whichever
// resolves last wins, regardless of issue order.
type Controller struct {
	req      model.PlatformRequest
	fetcher  Fetcher
	opts     Options
	listener Listener
	logger   zerolog.Logger

	mu      sync.Mutex
	state   State
	alive   bool
	started bool

	ctx     context.Context
	cancel  context.CancelFunc
	pollNow chan struct{}
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewController creates an inactive controller for req.
func NewController(req model.PlatformRequest, f Fetcher, opts Options, listener Listener) *Controller {
	if opts.StartupDelay < 0 {
		opts.StartupDelay = 0
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		req:      req,
		fetcher:  f,
		opts:     opts,
		listener: listener,
		logger: opts.Logger.With().
			Str("line", req.Line).
			Str("stop_id", req.StopID).
			Logger(),
		state:   State{Status: StatusLoading},
		ctx:     ctx,
		cancel:  cancel,
		pollNow: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

// Request returns the platform this controller refreshes.
func (c *Controller) Request() model.PlatformRequest {
	return c.req
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Start activates the controller: the state becomes Loading, the first
// fetch is issued after the startup delay, and polling begins once it has
// settled. Start may be called once; later calls do nothing.
func (c *Controller) Start() {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.alive = true
	c.state = State{Status: StatusLoading}
	c.emit()
	c.mu.Unlock()

	c.logger.Debug().Msg("refresh started")

	c.wg.Add(1)
	go c.run()
}

// Stop tears the controller down. The poll task is cancelled, in-flight
// requests are aborted through their context, and any result that still
// arrives is discarded. Stop is idempotent and does not wait.
func (c *Controller) Stop() {
	c.mu.Lock()
	wasAlive := c.alive
	neverStarted := !c.started
	c.alive = false
	c.started = true
	c.mu.Unlock()

	c.cancel()
	if neverStarted {
		close(c.done)
	}
	if wasAlive {
		c.logger.Debug().Msg("refresh stopped")
	}
}

// Refresh asks for an immediate background poll. Requests made before the
// first fetch settles collapse into one poll that runs right after it.
func (c *Controller) Refresh() {
	select {
	case c.pollNow <- struct{}{}:
	default:
	}
}

// Done is closed once the poll task has exited after Stop.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until the poll task and every fetch it issued have returned.
func (c *Controller) Wait() {
	c.wg.Wait()
}

func (c *Controller) run() {
	defer c.wg.Done()
	defer close(c.done)

	if !c.sleep(c.opts.StartupDelay) {
		return
	}
	c.fetch()

	ticker := time.NewTicker(c.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.poll()
		case <-c.pollNow:
			c.poll()
		}
	}
}

// poll issues a background fetch without waiting for it, so a slow
// response never delays the next tick.
func (c *Controller) poll() {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.fetch()
	}()
}

func (c *Controller) sleep(d time.Duration) bool {
	if d <= 0 {
		return c.ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-c.ctx.Done():
		return false
	}
}

func (c *Controller) fetch() {
	result, err := c.fetcher.Fetch(c.ctx, c.req)

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.alive {
		c.logger.Debug().Err(err).Msg("discarding result after stop")
		return
	}

	now := time.Now()
	if err != nil {
		c.logger.Warn().
			Err(err).
			Str("kind", arrivals.Kind(err)).
			Msg("arrivals fetch failed")
		c.state = State{
			Status:    StatusError,
			Arrivals:  []model.Arrival{},
			Err:       err.Error(),
			UpdatedAt: now,
		}
		c.emit()
		return
	}

	if result == nil {
		result = []model.Arrival{}
	}
	c.state = State{
		Status:    StatusReady,
		Arrivals:  result,
		UpdatedAt: now,
	}
	c.logger.Debug().Int("arrivals", len(result)).Msg("arrivals updated")
	c.emit()
}

// emit must be called with c.mu held.
func (c *Controller) emit() {
	if c.listener != nil {
		c.listener(c.req, c.state.clone())
	}
}
