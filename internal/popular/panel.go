// Package popular renders the "most popular" panel: it polls the
// ranking API, reconciles ids against the site's title/url index, and
// pushes immutable view snapshots to an injected render callback.
package popular

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// State is the panel lifecycle position.
type State int

const (
	StateClosed State = iota
	StateLoading
	StateRendered
	StateEmpty
	StateError
)

// ModeTrending is the panel's initial tab.
const (
	ModeTrending = "trending"
	ModeAll      = "all"
)

const (
	emptyMessage = "No popular games yet — start clicking game cards and they will appear here."
	errorMessage = "Couldn't load popular games right now."
	labelRefresh = 5 * time.Second
)

// View is one immutable snapshot handed to the render callback.
type View struct {
	State   State
	Mode    string
	Items   []Item
	Message string
	Updated string // human-readable "Updated ... ago" label
}

// Panel is the popover state machine: Closed -> Open(loading) ->
// Open(rendered|empty|error) -> Closed, with the trending and all-time
// tabs as parallel open sub-states. Opening or switching tabs always
// fetches fresh data; a background ticker refreshes only the
// elapsed-time label while the panel is open.
type Panel struct {
	fetcher Fetcher
	idx     *Index
	render  func(View)
	now     func() time.Time
	refresh time.Duration

	mu        sync.Mutex
	open      bool
	mode      string
	seq       int // discards stale fetch completions
	last      View
	updatedAt time.Time
	stop      chan struct{}
}

type PanelOption func(*Panel)

// WithPanelClock overrides the clock behind the updated label.
func WithPanelClock(now func() time.Time) PanelOption {
	return func(p *Panel) { p.now = now }
}

// WithLabelRefresh overrides the label ticker interval.
func WithLabelRefresh(d time.Duration) PanelOption {
	return func(p *Panel) { p.refresh = d }
}

// NewPanel wires the panel to its collaborators. The index is an
// explicit dependency: it is loaded once per page view by the caller,
// never read from ambient state. render receives every view change; it
// must not retain the slice or call back into the panel.
func NewPanel(fetcher Fetcher, idx *Index, render func(View), opts ...PanelOption) *Panel {
	p := &Panel{
		fetcher: fetcher,
		idx:     idx,
		render:  render,
		now:     time.Now,
		refresh: labelRefresh,
		mode:    ModeTrending,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Open shows the panel and triggers a fresh fetch; results from a
// previous open are never reused.
func (p *Panel) Open(ctx context.Context) {
	p.mu.Lock()
	if p.open {
		p.mu.Unlock()
		return
	}
	p.open = true
	p.stop = make(chan struct{})
	go p.runLabelTicker(p.stop)
	p.mu.Unlock()

	p.load(ctx)
}

// Close hides the panel and stops the label ticker; no periodic work
// survives a close.
func (p *Panel) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.open {
		return
	}
	p.open = false
	p.seq++ // in-flight fetches land on the floor
	close(p.stop)
	p.stop = nil
	p.pushLocked(View{State: StateClosed, Mode: p.mode})
}

// SetMode switches tabs and refetches.
func (p *Panel) SetMode(ctx context.Context, mode string) {
	if mode != ModeAll {
		mode = ModeTrending
	}
	p.mu.Lock()
	p.mode = mode
	open := p.open
	p.mu.Unlock()
	if open {
		p.load(ctx)
	}
}

// Mode reports the currently selected tab.
func (p *Panel) Mode() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mode
}

func (p *Panel) load(ctx context.Context) {
	p.mu.Lock()
	p.seq++
	seq := p.seq
	mode := p.mode
	p.pushLocked(View{State: StateLoading, Mode: mode, Updated: p.updatedLabelLocked()})
	p.mu.Unlock()

	go func() {
		body, err := p.fetcher.FetchTop(ctx, mode)
		var res *TopResult
		if err == nil {
			res, err = ParseTop(body)
		}

		p.mu.Lock()
		defer p.mu.Unlock()
		if seq != p.seq || !p.open {
			return
		}
		if err != nil {
			// One error class for transport and shape failures
			p.pushLocked(View{State: StateError, Mode: mode, Message: errorMessage, Updated: p.updatedLabelLocked()})
			return
		}

		items := BuildList(res, p.idx)
		p.updatedAt = p.now()
		if len(items) == 0 {
			p.pushLocked(View{State: StateEmpty, Mode: res.Mode, Message: emptyMessage, Updated: p.updatedLabelLocked()})
			return
		}
		p.pushLocked(View{State: StateRendered, Mode: res.Mode, Items: items, Updated: p.updatedLabelLocked()})
	}()
}

// runLabelTicker re-renders the last view with a fresh elapsed-time
// label. It never refetches data.
func (p *Panel) runLabelTicker(stop chan struct{}) {
	t := time.NewTicker(p.refresh)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			p.mu.Lock()
			if p.open && p.last.State != StateClosed {
				v := p.last
				v.Updated = p.updatedLabelLocked()
				p.pushLocked(v)
			}
			p.mu.Unlock()
		case <-stop:
			return
		}
	}
}

func (p *Panel) pushLocked(v View) {
	p.last = v
	if p.render != nil {
		p.render(v)
	}
}

func (p *Panel) updatedLabelLocked() string {
	return updatedLabel(p.updatedAt, p.now())
}

// updatedLabel formats the elapsed time since the last successful load.
func updatedLabel(updatedAt, now time.Time) string {
	if updatedAt.IsZero() {
		return ""
	}
	s := int(now.Sub(updatedAt).Seconds())
	switch {
	case s < 10:
		return "Updated just now"
	case s < 60:
		return fmt.Sprintf("Updated %ds ago", s)
	default:
		return fmt.Sprintf("Updated %dm ago", s/60)
	}
}
