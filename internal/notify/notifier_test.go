package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lysyi3m/agent-radar/internal/radar"
)

func item(i int) radar.Item {
	return radar.Item{
		ID:      fmt.Sprintf("2025-01-%02d-acme-item", i),
		Date:    fmt.Sprintf("2025-01-%02d", i),
		Name:    fmt.Sprintf("Item %d", i),
		Vendor:  "Acme",
		Sources: []radar.Source{{Title: "Acme source", URL: fmt.Sprintf("https://acme.example/%d", i)}},
	}
}

func TestDigest(t *testing.T) {
	text := Digest([]radar.Item{item(2), item(1)})

	expected := "*Agent Radar – Updated 2 items*\n" +
		"• 2025-01-02 — *Item 2* (Acme) <https://acme.example/2|source>\n" +
		"• 2025-01-01 — *Item 1* (Acme) <https://acme.example/1|source>"
	assert.Equal(t, expected, text)
}

func TestDigestLimitsLines(t *testing.T) {
	var items []radar.Item
	for i := 1; i <= 15; i++ {
		items = append(items, item(i))
	}

	lines := strings.Split(Digest(items), "\n")
	assert.Len(t, lines, DigestLimit+1)
	assert.Equal(t, "*Agent Radar – Updated 15 items*", lines[0])
}

func TestDigestEmpty(t *testing.T) {
	assert.Equal(t, "*Agent Radar – Updated 0 items*", Digest(nil))
}

func TestNotifierRun(t *testing.T) {
	var received payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	n := NewNotifier(srv.Client(), srv.URL, time.Second)
	require.NoError(t, n.Run(context.Background(), "hello <world>"))
	assert.Equal(t, "hello <world>", received.Text)
}

func TestNotifierErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/slow" {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
			return
		}
		http.Error(w, "invalid_token", http.StatusForbidden)
	}))
	defer srv.Close()

	n := NewNotifier(srv.Client(), srv.URL+"/hook", time.Second)
	err := n.Run(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")

	n = NewNotifier(srv.Client(), srv.URL+"/slow", 100*time.Millisecond)
	assert.Error(t, n.Run(context.Background(), "x"))
}
