package api

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/lysyi3m/agent-radar/internal/radar"
)

// Generator renders snapshot items as an RSS 2.0 channel.
type Generator struct {
	selfLink string
	version  string
	now      func() time.Time
}

func NewGenerator(baseURL, port, version string) *Generator {
	selfLink := fmt.Sprintf("http://localhost:%s/feed.xml", port)
	if baseURL != "" {
		selfLink = strings.TrimRight(baseURL, "/") + "/feed.xml"
	}
	return &Generator{
		selfLink: selfLink,
		version:  version,
		now:      time.Now,
	}
}

func (g *Generator) Run(items []radar.Item) (string, error) {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", "Agent Radar", 4)
	g.writeElement(&buf, "link", g.selfLink, 4)
	g.writeElement(&buf, "description", "Launches, pricing changes, deprecations and upgrades from agent platform vendors", 4)
	buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
		html.EscapeString(g.selfLink)))

	lastBuildDate := g.now().UTC()
	if len(items) > 0 {
		if t, err := time.Parse(radar.DateLayout, items[0].Date); err == nil {
			lastBuildDate = t
		}
	}
	g.writeElement(&buf, "lastBuildDate", lastBuildDate.Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", fmt.Sprintf("Agent-Radar/%s", g.version), 4)

	for _, item := range items {
		g.writeItem(&buf, item)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

func (g *Generator) writeItem(buf *bytes.Buffer, item radar.Item) {
	buf.WriteString("    <item>\n")

	buf.WriteString("      <guid isPermaLink=\"false\">")
	xml.EscapeText(buf, []byte(item.ID))
	buf.WriteString("</guid>\n")

	g.writeElement(buf, "title", item.Name, 6)
	g.writeElement(buf, "link", item.PrimaryURL(), 6)
	g.writeElement(buf, "description", item.Summary, 6)

	if t, err := time.Parse(radar.DateLayout, item.Date); err == nil {
		g.writeElement(buf, "pubDate", t.Format(time.RFC1123Z), 6)
	}

	g.writeElement(buf, "category", item.Vendor, 6)
	g.writeElement(buf, "category", string(item.Type), 6)

	buf.WriteString("    </item>\n")
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	buf.WriteString(strings.Repeat(" ", indent))
	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}
