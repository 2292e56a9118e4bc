// Package archive keeps a SQLite history of every item written to a snapshot
// and of every build run.
package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/huandu/go-sqlbuilder"
	_ "modernc.org/sqlite"

	"github.com/lysyi3m/agent-radar/internal/radar"
)

type Archive struct {
	db *sql.DB
}

// Open opens or creates the archive file at path and applies migrations.
func Open(path string) (*Archive, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to archive: %w", err)
	}

	version, err := runMigrations(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	slog.Debug("Archive opened", "path", path, "version", version)

	return &Archive{db: db}, nil
}

func (a *Archive) Close() error {
	return a.db.Close()
}

// RecordItems upserts items. first_seen_at is kept from the first insert.
func (a *Archive) RecordItems(ctx context.Context, items []radar.Item, seenAt time.Time) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO items (id, date, vendor, type, name, url, first_seen_at, last_seen_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			date = excluded.date,
			vendor = excluded.vendor,
			type = excluded.type,
			name = excluded.name,
			url = excluded.url,
			last_seen_at = excluded.last_seen_at
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare item upsert: %w", err)
	}
	defer stmt.Close()

	ts := formatTime(seenAt)
	for _, item := range items {
		if _, err := stmt.ExecContext(ctx, item.ID, item.Date, item.Vendor, string(item.Type), item.Name, item.PrimaryURL(), ts, ts); err != nil {
			return fmt.Errorf("failed to store item %s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit items: %w", err)
	}

	return nil
}

// RecordRun stores run and returns its id.
func (a *Archive) RecordRun(ctx context.Context, run Run) (int64, error) {
	ib := sqlbuilder.SQLite.NewInsertBuilder()
	ib.InsertInto("runs").
		Cols("started_at", "finished_at", "feeds", "failed_feeds", "accepted", "written").
		Values(formatTime(run.StartedAt), formatTime(run.FinishedAt), run.Feeds, run.FailedFeeds, run.Accepted, run.Written)

	query, args := ib.Build()
	res, err := a.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to store run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	return id, nil
}

func (a *Archive) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{
		ByVendor: make(map[string]int),
		ByType:   make(map[string]int),
	}

	if err := a.count(ctx, "items", &stats.Items); err != nil {
		return Stats{}, err
	}
	if err := a.count(ctx, "runs", &stats.Runs); err != nil {
		return Stats{}, err
	}
	if err := a.groupCount(ctx, "vendor", stats.ByVendor); err != nil {
		return Stats{}, err
	}
	if err := a.groupCount(ctx, "type", stats.ByType); err != nil {
		return Stats{}, err
	}

	lastRun, err := a.LastRun(ctx)
	if err != nil {
		return Stats{}, err
	}
	stats.LastRun = lastRun

	return stats, nil
}

// LastRun returns the most recent run, or nil when none is recorded.
func (a *Archive) LastRun(ctx context.Context) (*Run, error) {
	sb := sqlbuilder.SQLite.NewSelectBuilder()
	sb.Select("id", "started_at", "finished_at", "feeds", "failed_feeds", "accepted", "written").
		From("runs").
		OrderBy("id").Desc().
		Limit(1)

	query, args := sb.Build()

	var run Run
	var startedAt, finishedAt string
	err := a.db.QueryRowContext(ctx, query, args...).Scan(
		&run.ID, &startedAt, &finishedAt, &run.Feeds, &run.FailedFeeds, &run.Accepted, &run.Written)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last run: %w", err)
	}

	if run.StartedAt, err = parseTime(startedAt); err != nil {
		return nil, err
	}
	if run.FinishedAt, err = parseTime(finishedAt); err != nil {
		return nil, err
	}

	return &run, nil
}

func (a *Archive) count(ctx context.Context, table string, dst *int) error {
	sb := sqlbuilder.SQLite.NewSelectBuilder()
	sb.Select("COUNT(*)").From(table)

	query, args := sb.Build()
	if err := a.db.QueryRowContext(ctx, query, args...).Scan(dst); err != nil {
		return fmt.Errorf("failed to count %s: %w", table, err)
	}
	return nil
}

func (a *Archive) groupCount(ctx context.Context, column string, dst map[string]int) error {
	sb := sqlbuilder.SQLite.NewSelectBuilder()
	sb.Select(column, "COUNT(*)").From("items").GroupBy(column).OrderBy(column)

	query, args := sb.Build()
	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to count items by %s: %w", column, err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return fmt.Errorf("failed to scan %s count: %w", column, err)
		}
		dst[key] = n
	}

	return rows.Err()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse archived time %q: %w", s, err)
	}
	return t, nil
}
