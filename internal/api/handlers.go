package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/lysyi3m/agent-radar/internal/radar"
	"github.com/lysyi3m/agent-radar/internal/store"
)

// NewHandler serves the snapshot at snapshotPath. stats may be nil when no
// archive is configured.
func NewHandler(snapshotPath string, stats StatsProvider, generator GeneratorInterface, version string) *Handler {
	return &Handler{
		snapshotPath: snapshotPath,
		stats:        stats,
		generator:    generator,
		version:      version,
	}
}

// snapshot reads the file on every request so a rebuild is picked up
// without a restart. A missing file is served as empty.
func (h *Handler) snapshot() ([]radar.Item, error) {
	snapshot := store.Load(h.snapshotPath)
	if errors.Is(snapshot.Err, store.ErrNoSnapshot) {
		return []radar.Item{}, nil
	}
	if snapshot.Err != nil {
		return nil, snapshot.Err
	}
	return snapshot.Items, nil
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := gin.H{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   h.version,
	}

	snapshot := store.Load(h.snapshotPath)
	switch {
	case errors.Is(snapshot.Err, store.ErrNoSnapshot):
		health["snapshot"] = "missing"
	case snapshot.Err != nil:
		health["snapshot"] = "invalid"
	default:
		health["snapshot"] = "ok"
		health["items"] = len(snapshot.Items)
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) ListItems(c *gin.Context) {
	items, err := h.snapshot()
	if err != nil {
		slog.Error("Snapshot read error", "path", h.snapshotPath, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Snapshot unavailable"})
		return
	}

	limit := len(items)
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = n
	}

	vendor := c.Query("vendor")
	changeType := c.Query("type")

	filtered := lo.Filter(items, func(it radar.Item, _ int) bool {
		if vendor != "" && !strings.EqualFold(it.Vendor, vendor) {
			return false
		}
		if changeType != "" && string(it.Type) != changeType {
			return false
		}
		return true
	})

	total := len(filtered)
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}

	c.JSON(http.StatusOK, gin.H{
		"items": filtered,
		"total": total,
	})
}

func (h *Handler) GetItem(c *gin.Context) {
	id := c.Param("id")

	items, err := h.snapshot()
	if err != nil {
		slog.Error("Snapshot read error", "path", h.snapshotPath, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Snapshot unavailable"})
		return
	}

	item, found := lo.Find(items, func(it radar.Item) bool {
		return it.ID == id
	})
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *Handler) GetStats(c *gin.Context) {
	items, err := h.snapshot()
	if err != nil {
		slog.Error("Snapshot read error", "path", h.snapshotPath, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Snapshot unavailable"})
		return
	}

	stats := gin.H{
		"snapshot": gin.H{
			"items":     len(items),
			"by_vendor": lo.CountValuesBy(items, func(it radar.Item) string { return it.Vendor }),
			"by_type":   lo.CountValuesBy(items, func(it radar.Item) string { return string(it.Type) }),
		},
	}

	if h.stats != nil {
		archived, err := h.stats.Stats(c.Request.Context())
		if err != nil {
			slog.Error("Archive error", "operation", "stats", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Archive error"})
			return
		}
		stats["archive"] = archived
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) GetFeed(c *gin.Context) {
	items, err := h.snapshot()
	if err != nil {
		slog.Error("Snapshot read error", "path", h.snapshotPath, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	rss, err := h.generator.Run(items)
	if err != nil {
		slog.Error("RSS generation error", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.Header("X-Feed-Items", strconv.Itoa(len(items)))

	c.String(http.StatusOK, rss)
}
