package store

import (
	"context"
	"errors"
	"time"
)

// TopEntry is one row of a ranking query result.
type TopEntry struct {
	ID    string `json:"id"`
	Count int64  `json:"count"`
}

// DailyCount is the per-(day, item) counter pair backing the trending
// window.
type DailyCount struct {
	Day    string `json:"day"`
	ID     string `json:"id"`
	Clicks int64  `json:"clicks"`
	Views  int64  `json:"views"`
}

// Store is the durable counter backend. Every increment is a single
// atomic upsert so concurrent requests for the same id never lose
// updates.
type Store interface {
	// RecordClick bumps both the all-time counter for id and the
	// clicks field of the (day, id) row.
	RecordClick(ctx context.Context, id string, day time.Time) error
	// RecordView bumps only the views field of the (day, id) row.
	RecordView(ctx context.Context, id string, day time.Time) error
	// TopAllTime returns up to limit items ordered by all-time count
	// descending, ties broken by id.
	TopAllTime(ctx context.Context, limit int) ([]TopEntry, error)
	// TopTrending sums daily clicks over day >= since, drops zero
	// groups, and returns up to limit items ordered by the sum.
	TopTrending(ctx context.Context, since time.Time, limit int) ([]TopEntry, error)
	// DailyCounts reports the raw daily row for (day, id); zero
	// counters if no row exists yet.
	DailyCounts(ctx context.Context, id string, day time.Time) (DailyCount, error)
	// PruneDailyBefore deletes daily rows strictly older than cutoff
	// and reports how many were removed.
	PruneDailyBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

var ErrNotFound = errors.New("not found")

// DayKey is the canonical storage form of a calendar day. Counters are
// bucketed by UTC date to match the ingestion edge's clock.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
