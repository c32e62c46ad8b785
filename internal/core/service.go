package core

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gamingemporium/popularity/internal/metrics"
	"github.com/gamingemporium/popularity/internal/store"
)

// Mode selects which counter a ranking query reads.
type Mode string

const (
	ModeAll      Mode = "all"
	ModeTrending Mode = "trending"
)

const (
	DefaultLimit = 10
	MaxLimit     = 25
	DefaultDays  = 7
	MaxDays      = 30
)

// TopQuery is a normalized ranking request: mode already resolved,
// limit and days already clamped by the caller.
type TopQuery struct {
	Mode  Mode
	Limit int
	Days  int
}

// ParseMode resolves a raw mode parameter. Anything other than
// "trending" serves the all-time counter; the response always reports
// the mode that was actually served.
func ParseMode(raw string) Mode {
	if strings.EqualFold(strings.TrimSpace(raw), string(ModeTrending)) {
		return ModeTrending
	}
	return ModeAll
}

var ErrMissingID = errors.New("missing id")

type Service struct {
	store         store.Store
	now           func() time.Time
	retentionDays int
}

type Option func(*Service)

// WithClock overrides the clock used for day bucketing. Tests use it to
// pin events to known calendar days.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRetention enables pruning of daily rows older than days. Zero
// keeps daily rows forever.
func WithRetention(days int) Option {
	return func(s *Service) { s.retentionDays = days }
}

func NewService(s store.Store, opts ...Option) *Service {
	svc := &Service{store: s, now: time.Now}
	for _, o := range opts {
		o(svc)
	}
	return svc
}

// RecordClick bumps the all-time and today's daily click counters for
// id. The id arrives already normalized by the emitter and is stored
// verbatim; only empty ids are rejected.
func (s *Service) RecordClick(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrMissingID
	}
	if err := s.store.RecordClick(ctx, id, s.now()); err != nil {
		return err
	}
	metrics.ClicksRecorded.Inc()
	return nil
}

// RecordView bumps only today's daily view counter; the all-time
// counter tracks clicks alone.
func (s *Service) RecordView(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrMissingID
	}
	if err := s.store.RecordView(ctx, id, s.now()); err != nil {
		return err
	}
	metrics.ViewsRecorded.Inc()
	return nil
}

// Top runs a normalized ranking query. The trending window covers the
// Days most recent calendar days inclusive of today.
func (s *Service) Top(ctx context.Context, q TopQuery) ([]store.TopEntry, error) {
	metrics.TopQueries.WithLabelValues(string(q.Mode)).Inc()
	if q.Mode == ModeTrending {
		since := s.now().UTC().AddDate(0, 0, -(q.Days - 1))
		return s.store.TopTrending(ctx, since, q.Limit)
	}
	return s.store.TopAllTime(ctx, q.Limit)
}

// RunRetention prunes old daily rows once an hour until ctx is done.
// It is a no-op loop when retention is disabled.
func (s *Service) RunRetention(ctx context.Context) {
	if s.retentionDays <= 0 {
		return
	}
	t := time.NewTicker(time.Hour)
	defer t.Stop()
	for {
		s.pruneOnce(ctx)
		select {
		case <-t.C:
		case <-ctx.Done():
			return
		}
	}
}

func (s *Service) pruneOnce(ctx context.Context) {
	cutoff := s.now().UTC().AddDate(0, 0, -s.retentionDays)
	n, err := s.store.PruneDailyBefore(ctx, cutoff)
	if err != nil {
		log.Error().Err(err).Msg("prune daily rows")
		return
	}
	if n > 0 {
		metrics.DailyRowsPruned.Add(float64(n))
		log.Info().Int64("rows", n).Str("cutoff", store.DayKey(cutoff)).Msg("pruned daily rows")
	}
}
