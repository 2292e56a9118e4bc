package archive

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lysyi3m/agent-radar/internal/radar"
)

func openTestArchive(t *testing.T) (*Archive, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "archive.db")
	a, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a, path
}

func archivedItem(id, vendor string, typ radar.ChangeType) radar.Item {
	return radar.Item{
		ID:      id,
		Date:    "2025-01-01",
		Name:    "Name " + id,
		Vendor:  vendor,
		Type:    typ,
		Sources: []radar.Source{{Title: vendor + " source", URL: "https://example.com/" + id}},
	}
}

func TestArchiveRecordItems(t *testing.T) {
	a, _ := openTestArchive(t)
	ctx := context.Background()
	first := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, a.RecordItems(ctx, []radar.Item{
		archivedItem("a", "Acme", radar.TypeLaunch),
		archivedItem("b", "Acme", radar.TypePricing),
		archivedItem("c", "Globex", radar.TypeLaunch),
	}, first))

	require.NoError(t, a.RecordItems(ctx, []radar.Item{
		archivedItem("a", "Acme", radar.TypeLaunch),
	}, first.Add(time.Hour)))

	stats, err := a.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Items)
	assert.Equal(t, map[string]int{"Acme": 2, "Globex": 1}, stats.ByVendor)
	assert.Equal(t, map[string]int{"launch": 2, "pricing": 1}, stats.ByType)
	assert.Nil(t, stats.LastRun)

	var firstSeen, lastSeen string
	require.NoError(t, a.db.QueryRow(`SELECT first_seen_at, last_seen_at FROM items WHERE id = ?`, "a").Scan(&firstSeen, &lastSeen))
	assert.Equal(t, "2025-01-01T00:00:00Z", firstSeen)
	assert.Equal(t, "2025-01-01T01:00:00Z", lastSeen)
}

func TestArchiveRecordRun(t *testing.T) {
	a, _ := openTestArchive(t)
	ctx := context.Background()
	started := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	_, err := a.RecordRun(ctx, Run{StartedAt: started, FinishedAt: started.Add(time.Minute), Feeds: 2})
	require.NoError(t, err)

	id, err := a.RecordRun(ctx, Run{
		StartedAt:   started.Add(time.Hour),
		FinishedAt:  started.Add(time.Hour + time.Minute),
		Feeds:       5,
		FailedFeeds: 1,
		Accepted:    3,
		Written:     7,
	})
	require.NoError(t, err)

	last, err := a.LastRun(ctx)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, id, last.ID)
	assert.Equal(t, 5, last.Feeds)
	assert.Equal(t, 1, last.FailedFeeds)
	assert.Equal(t, 3, last.Accepted)
	assert.Equal(t, 7, last.Written)
	assert.True(t, last.StartedAt.Equal(started.Add(time.Hour)))

	stats, err := a.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Runs)
}

func TestArchiveReopen(t *testing.T) {
	a, path := openTestArchive(t)
	require.NoError(t, a.RecordItems(context.Background(), []radar.Item{archivedItem("a", "Acme", radar.TypeUpgrade)}, time.Now()))
	require.NoError(t, a.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	stats, err := reopened.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Items)
}

func TestArchiveOpenError(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "dir", "archive.db"))
	assert.Error(t, err)
}
