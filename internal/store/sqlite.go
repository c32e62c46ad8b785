package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

func (s *SQLite) RecordClick(ctx context.Context, id string, day time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO clicks(id, count, updated_at)
		VALUES(?, 1, unixepoch())
		ON CONFLICT(id) DO UPDATE SET
			count = count + 1,
			updated_at = unixepoch()`, id)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO events_daily(day, id, clicks, views)
		VALUES(?, ?, 1, 0)
		ON CONFLICT(day, id) DO UPDATE SET
			clicks = clicks + 1`, DayKey(day), id)
	return err
}

func (s *SQLite) RecordView(ctx context.Context, id string, day time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events_daily(day, id, clicks, views)
		VALUES(?, ?, 0, 1)
		ON CONFLICT(day, id) DO UPDATE SET
			views = views + 1`, DayKey(day), id)
	return err
}

func (s *SQLite) TopAllTime(ctx context.Context, limit int) ([]TopEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, count FROM clicks
		ORDER BY count DESC, id ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	return scanTop(rows)
}

func (s *SQLite) TopTrending(ctx context.Context, since time.Time, limit int) ([]TopEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, SUM(clicks) AS c FROM events_daily
		WHERE day >= ?
		GROUP BY id
		HAVING c > 0
		ORDER BY c DESC, id ASC
		LIMIT ?`, DayKey(since), limit)
	if err != nil {
		return nil, err
	}
	return scanTop(rows)
}

func (s *SQLite) DailyCounts(ctx context.Context, id string, day time.Time) (DailyCount, error) {
	out := DailyCount{Day: DayKey(day), ID: id}
	err := s.db.QueryRowContext(ctx, `
		SELECT clicks, views FROM events_daily WHERE day = ? AND id = ?`,
		out.Day, id).Scan(&out.Clicks, &out.Views)
	if err == sql.ErrNoRows {
		return out, nil
	}
	if err != nil {
		return DailyCount{}, err
	}
	return out, nil
}

func (s *SQLite) PruneDailyBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM events_daily WHERE day < ?`, DayKey(cutoff))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanTop(rows *sql.Rows) ([]TopEntry, error) {
	defer rows.Close()
	var res []TopEntry
	for rows.Next() {
		var e TopEntry
		if err := rows.Scan(&e.ID, &e.Count); err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

// Migrate ensures schema exists
func Migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS clicks (
			id TEXT PRIMARY KEY,
			count INTEGER NOT NULL DEFAULT 0,
			updated_at INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS events_daily (
			day TEXT NOT NULL,
			id TEXT NOT NULL,
			clicks INTEGER NOT NULL DEFAULT 0,
			views INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (day, id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_daily_day ON events_daily(day);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
