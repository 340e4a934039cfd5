package refresh

import (
	"sync"

	"github.com/thevedantmod/stand-clear/internal/model"
)

// Group keeps one running Controller per displayed platform, keyed by
// PlatformRequest.Key.
type Group struct {
	fetcher  Fetcher
	opts     Options
	listener Listener

	mu          sync.Mutex
	controllers map[string]*Controller
	order       []string
}

// NewGroup creates an empty group. Every controller it starts shares the
// fetcher, options and listener.
func NewGroup(f Fetcher, opts Options, listener Listener) *Group {
	return &Group{
		fetcher:     f,
		opts:        opts,
		listener:    listener,
		controllers: make(map[string]*Controller),
	}
}

// Sync makes the running controllers match reqs and returns them in reqs
// order. A controller whose key is still present and whose request is
// unchanged keeps running; a changed request (including its count) gets a
// fresh lifecycle; keys no longer present are stopped. Repeated keys are
// shown once, at their first position.
func (g *Group) Sync(reqs []model.PlatformRequest) []*Controller {
	g.mu.Lock()
	defer g.mu.Unlock()

	next := make(map[string]*Controller, len(reqs))
	order := make([]string, 0, len(reqs))
	for _, req := range reqs {
		key := req.Key()
		if _, dup := next[key]; dup {
			continue
		}
		c, ok := g.controllers[key]
		if ok && c.Request() != req {
			c.Stop()
			ok = false
		}
		if !ok {
			c = NewController(req, g.fetcher, g.opts, g.listener)
			c.Start()
		}
		next[key] = c
		order = append(order, key)
	}

	for key, c := range g.controllers {
		if _, ok := next[key]; !ok {
			c.Stop()
		}
	}

	g.controllers = next
	g.order = order
	return g.listLocked()
}

func (g *Group) get(key string) (*Controller, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.controllers[key]
	return c, ok
}

// Controllers returns the running controllers in display order.
func (g *Group) Controllers() []*Controller {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.listLocked()
}

// RefreshAll requests an immediate poll on every running controller.
func (g *Group) RefreshAll() {
	for _, c := range g.Controllers() {
		c.Refresh()
	}
}

// StopAll tears down every controller and empties the group.
func (g *Group) StopAll() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, c := range g.controllers {
		c.Stop()
	}
	g.controllers = make(map[string]*Controller)
	g.order = nil
}

func (g *Group) listLocked() []*Controller {
	list := make([]*Controller, 0, len(g.order))
	for _, key := range g.order {
		list = append(list, g.controllers[key])
	}
	return list
}
