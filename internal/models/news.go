package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// timestampLayouts are tried in order when parsing API timestamps. The news
// endpoints emit local-time ISO strings without a zone suffix.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Timestamp wraps time.Time to tolerate the API's zone-less ISO timestamps.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		return nil
	}
	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognised timestamp %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(`"` + t.Format(time.RFC3339) + `"`), nil
}

// NewsItem is a single news article from the country feeds or the
// top-headlines set. Image is only populated on headline items.
type NewsItem struct {
	Title       string    `json:"title"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	PublishedAt Timestamp `json:"published_at"`
	Summary     string    `json:"summary,omitempty"`
	Image       string    `json:"image,omitempty"`
}

// SortNewsByRecency orders items newest-first.
func SortNewsByRecency(items []NewsItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PublishedAt.After(items[j].PublishedAt.Time)
	})
}
