package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

const DefaultTimeout = 20 * time.Second

type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
}

func NewFetcher(httpClient *http.Client, userAgent string, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{
		httpClient: httpClient,
		userAgent:  userAgent,
		timeout:    timeout,
	}
}

// Run fetches feedURL once and returns its entries. Any network, status or
// parse failure is reported through FetchResult.Err with no entries.
func (f *Fetcher) Run(ctx context.Context, feedURL string) FetchResult {
	result := FetchResult{URL: feedURL}

	data, err := f.fetch(ctx, feedURL)
	if err != nil {
		result.Err = err
		return result
	}

	if isJSONURL(feedURL) {
		result.Entries, result.Err = ParseJSON(data)
	} else {
		result.Entries, result.Err = ParseSyndication(data)
	}
	if result.Err != nil {
		result.Entries = nil
	}

	return result
}

func (f *Fetcher) fetch(ctx context.Context, feedURL string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/feed+json, application/json, application/xml, text/xml")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

func isJSONURL(feedURL string) bool {
	path := feedURL
	if u, err := url.Parse(feedURL); err == nil {
		path = u.Path
	}
	return strings.HasSuffix(strings.ToLower(path), ".json")
}

// ParseSyndication parses RSS, Atom or JSON Feed data and projects each item
// into a RawEntry.
func ParseSyndication(data []byte) ([]RawEntry, error) {
	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	entries := make([]RawEntry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		entries = append(entries, itemToEntry(item))
	}

	return entries, nil
}

// ParseJSON reads a generic JSON document holding entries under "items" or
// "value.items". Elements that are not objects are skipped.
func ParseJSON(data []byte) ([]RawEntry, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON feed: %w", err)
	}

	raw, ok := doc["items"]
	if !ok {
		if value, isObject := doc["value"].(map[string]any); isObject {
			raw = value["items"]
		}
	}

	list, _ := raw.([]any)
	entries := make([]RawEntry, 0, len(list))
	for _, element := range list {
		if obj, isObject := element.(map[string]any); isObject {
			entries = append(entries, RawEntry(obj))
		}
	}

	return entries, nil
}

func itemToEntry(item *gofeed.Item) RawEntry {
	entry := RawEntry{
		"title":     item.Title,
		"link":      item.Link,
		"summary":   item.Description,
		"content":   item.Content,
		"published": item.Published,
		"updated":   item.Updated,
	}

	if item.PublishedParsed != nil {
		entry["published_parsed"] = *item.PublishedParsed
	}

	if item.UpdatedParsed != nil {
		entry["updated_parsed"] = *item.UpdatedParsed
	}

	return entry
}
