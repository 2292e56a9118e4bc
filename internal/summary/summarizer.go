// Package summary derives a short description for an entry that arrived
// without one by reading the linked page.
package summary

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"github.com/microcosm-cc/bluemonday"

	"github.com/lysyi3m/agent-radar/internal/radar"
)

const (
	DefaultTimeout = 15 * time.Second
	MaxLength      = 240
)

// SummaryResult is the outcome of one summarize call. On failure Text is
// empty and Err is set.
type SummaryResult struct {
	Text string
	Err  error
}

type Summarizer struct {
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
	policy     *bluemonday.Policy
}

func NewSummarizer(httpClient *http.Client, userAgent string, timeout time.Duration) *Summarizer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Summarizer{
		httpClient: httpClient,
		userAgent:  userAgent,
		timeout:    timeout,
		policy:     bluemonday.UGCPolicy(),
	}
}

// Run fetches pageURL and returns its meta description, else its first
// paragraph, else a readability excerpt, capped at MaxLength runes.
func (s *Summarizer) Run(ctx context.Context, pageURL string) SummaryResult {
	data, err := s.fetch(ctx, pageURL)
	if err != nil {
		return SummaryResult{Err: err}
	}

	text, err := s.Extract(data, pageURL)
	if err != nil {
		return SummaryResult{Err: err}
	}

	return SummaryResult{Text: text}
}

// Extract derives the summary from an already fetched HTML page.
func (s *Summarizer) Extract(data []byte, pageURL string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	if text := metaDescription(doc); text != "" {
		return radar.Truncate(text, MaxLength), nil
	}

	if text := firstParagraph(doc); text != "" {
		return radar.Truncate(text, MaxLength), nil
	}

	text := s.excerpt(data, pageURL)
	return radar.Truncate(text, MaxLength), nil
}

func (s *Summarizer) fetch(ctx context.Context, pageURL string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

func metaDescription(doc *goquery.Document) string {
	content, _ := doc.Find(`meta[name="description"]`).First().Attr("content")
	return strings.TrimSpace(content)
}

func firstParagraph(doc *goquery.Document) string {
	return collapseSpace(doc.Find("p").First().Text())
}

func (s *Summarizer) excerpt(data []byte, pageURL string) string {
	base, err := url.Parse(pageURL)
	if err != nil {
		base = nil
	}

	cleaned := s.policy.SanitizeBytes(data)
	article, err := readability.FromReader(bytes.NewReader(cleaned), base)
	if err != nil {
		slog.Debug("Readability extraction failed", "url", pageURL, "error", err)
		return ""
	}

	return collapseSpace(article.Excerpt)
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
