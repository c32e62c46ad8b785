// Package track is the client-side instrumentation: it turns card
// interactions into at-most-once-per-window click and view events and
// ships them to the popularity API without ever blocking the caller.
package track

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gamingemporium/popularity/internal/slug"
)

// Card identifies one trackable content item. ID is the explicit
// identifier attached to the card's link; when empty the id is derived
// from Title.
type Card struct {
	ID    string
	Title string
}

const (
	// clickCooldown suppresses rapid re-clicks on the same id.
	clickCooldown = 3500 * time.Millisecond
	// visibleThreshold is the viewport ratio at which a card counts
	// as seen.
	visibleThreshold = 0.6
	// seenKey / seenCap bound the persisted impression set so session
	// storage does not grow forever.
	seenKey = "tge_seen_game_impressions_v1"
	seenCap = 600
)

// Emitter deduplicates interactions and queues them for delivery.
// Events drain through a buffered channel and a background sender
// goroutine, so Click and Impression return immediately; a full buffer
// drops the event rather than block.
type Emitter struct {
	sender  Sender
	session SessionStore
	now     func() time.Time

	mu       sync.Mutex
	lastSent map[string]time.Time
	seen     map[string]bool
	seenLog  []string // insertion order, for the persistence cap

	events chan string
	cancel context.CancelFunc
	done   chan struct{}
}

type Option func(*Emitter)

// WithClock overrides the cooldown clock for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Emitter) { e.now = now }
}

// NewEmitter builds an emitter. session may be nil, in which case seen
// impressions survive only as long as the emitter itself.
func NewEmitter(sender Sender, session SessionStore, opts ...Option) *Emitter {
	e := &Emitter{
		sender:   sender,
		session:  session,
		now:      time.Now,
		lastSent: make(map[string]time.Time),
		seen:     make(map[string]bool),
		events:   make(chan string, 256),
		done:     make(chan struct{}),
	}
	for _, o := range opts {
		o(e)
	}
	e.restoreSeen()

	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	go e.run(ctx)
	return e
}

// Close stops the background sender. Queued events still in the buffer
// are dropped; they were never guaranteed.
func (e *Emitter) Close() {
	e.cancel()
	<-e.done
}

func (e *Emitter) run(ctx context.Context) {
	defer close(e.done)
	for {
		select {
		case path := <-e.events:
			if err := e.sender.Send(ctx, path); err != nil {
				// Best-effort telemetry, lost events are fine
				log.Debug().Err(err).Str("path", path).Msg("event delivery failed")
			}
		case <-ctx.Done():
			return
		}
	}
}

// Click reports an activation of the card's primary link. Re-clicks on
// the same id inside the cooldown window are suppressed.
func (e *Emitter) Click(card Card) {
	id := resolveID(card)
	if id == "" {
		return
	}

	e.mu.Lock()
	now := e.now()
	if last, ok := e.lastSent[id]; ok && now.Sub(last) < clickCooldown {
		e.mu.Unlock()
		return
	}
	e.lastSent[id] = now
	e.mu.Unlock()

	e.enqueue("/api/click?id=" + url.QueryEscape(id))
}

// Impression reports that a card reached visibleRatio of the viewport.
// Each id fires at most once per session; once fired, Seen reports true
// so the observer can stop watching the card.
func (e *Emitter) Impression(card Card, visibleRatio float64) {
	if visibleRatio < visibleThreshold {
		return
	}
	id := resolveID(card)
	if id == "" {
		return
	}

	e.mu.Lock()
	if e.seen[id] {
		e.mu.Unlock()
		return
	}
	e.seen[id] = true
	e.seenLog = append(e.seenLog, id)
	e.persistSeenLocked()
	e.mu.Unlock()

	e.enqueue("/api/view?id=" + url.QueryEscape(id))
}

// Seen reports whether an impression has already fired for the card.
func (e *Emitter) Seen(card Card) bool {
	id := resolveID(card)
	if id == "" {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seen[id]
}

func (e *Emitter) enqueue(path string) {
	select {
	case e.events <- path:
	default:
		// Buffer full; drop to keep the caller non-blocking
		log.Debug().Str("path", path).Msg("event dropped, buffer full")
	}
}

func resolveID(card Card) string {
	if id := strings.TrimSpace(card.ID); id != "" {
		return id
	}
	return slug.Make(card.Title)
}

// restoreSeen loads the persisted impression set. Malformed or missing
// state degrades to an empty set.
func (e *Emitter) restoreSeen() {
	if e.session == nil {
		return
	}
	raw, ok := e.session.Get(seenKey)
	if !ok {
		return
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return
	}
	for _, id := range ids {
		if id == "" || e.seen[id] {
			continue
		}
		e.seen[id] = true
		e.seenLog = append(e.seenLog, id)
	}
}

// persistSeenLocked writes the most recent seenCap ids back to session
// storage. Callers hold e.mu.
func (e *Emitter) persistSeenLocked() {
	if e.session == nil {
		return
	}
	ids := e.seenLog
	if len(ids) > seenCap {
		ids = ids[len(ids)-seenCap:]
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return
	}
	e.session.Set(seenKey, string(raw))
}
