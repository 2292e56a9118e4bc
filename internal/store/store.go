// Package store reads and writes the persisted radar snapshot and merges
// prior items with the items produced by a run.
package store

import (
	"bytes"
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/lysyi3m/agent-radar/internal/radar"
)

var ErrNoSnapshot = errors.New("snapshot not found")

// Snapshot is the result of reading a prior output file. Err is set when
// the file was missing or unusable; Items is then empty.
type Snapshot struct {
	Items   []radar.Item
	Skipped int
	Err     error
}

type document struct {
	Items []radar.Item `json:"items"`
}

type rawDocument struct {
	Items []json.RawMessage `json:"items"`
}

// Load reads a snapshot written by Save or a bare JSON array of items.
// Elements that do not decode as an item with an id, a valid date and a
// source link are skipped.
func Load(path string) Snapshot {
	if path == "" {
		return Snapshot{Err: ErrNoSnapshot}
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Snapshot{Err: ErrNoSnapshot}
	}
	if err != nil {
		return Snapshot{Err: fmt.Errorf("failed to read snapshot: %w", err)}
	}

	elements, err := decodeElements(data)
	if err != nil {
		return Snapshot{Err: fmt.Errorf("failed to parse snapshot: %w", err)}
	}

	snapshot := Snapshot{Items: make([]radar.Item, 0, len(elements))}
	for _, element := range elements {
		var item radar.Item
		if err := json.Unmarshal(element, &item); err != nil || !valid(item) {
			snapshot.Skipped++
			continue
		}
		if item.Tags == nil {
			item.Tags = []string{}
		}
		snapshot.Items = append(snapshot.Items, item)
	}

	return snapshot
}

func valid(item radar.Item) bool {
	if item.ID == "" || item.PrimaryURL() == "" {
		return false
	}
	_, err := time.Parse(radar.DateLayout, item.Date)
	return err == nil
}

func decodeElements(data []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var elements []json.RawMessage
		if err := json.Unmarshal(trimmed, &elements); err != nil {
			return nil, err
		}
		return elements, nil
	}

	var doc rawDocument
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, err
	}
	return doc.Items, nil
}

// Merge returns prior followed by fresh with repeated ids dropped, sorted by
// date descending and cut to top. The first occurrence of an id wins and
// items with equal dates keep their relative order.
func Merge(prior, fresh []radar.Item, top int) []radar.Item {
	if top <= 0 {
		return []radar.Item{}
	}

	seen := radar.NewSeenSet()
	merged := make([]radar.Item, 0, len(prior)+len(fresh))
	for _, items := range [][]radar.Item{prior, fresh} {
		for _, item := range items {
			if seen.Add(item.ID) {
				merged = append(merged, item)
			}
		}
	}

	slices.SortStableFunc(merged, func(a, b radar.Item) int {
		return cmp.Compare(b.Date, a.Date)
	})

	if len(merged) > top {
		merged = merged[:top]
	}
	return merged
}

// Encode renders items in the snapshot format: two-space indentation, no
// HTML escaping, trailing newline.
func Encode(items []radar.Item) ([]byte, error) {
	doc := document{Items: make([]radar.Item, 0, len(items))}
	for _, item := range items {
		if item.Tags == nil {
			item.Tags = []string{}
		}
		if item.Sources == nil {
			item.Sources = []radar.Source{}
		}
		doc.Items = append(doc.Items, item)
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes items to path through a temp file in the same directory so a
// crash never leaves a partial snapshot behind.
func Save(path string, items []radar.Item) error {
	data, err := Encode(items)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("failed to set snapshot permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}

	return nil
}
