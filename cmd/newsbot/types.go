// cmd/newsbot/types.go
package main

import "time"

// RawItem is a single news item as it came off the wire. Immutable once
// the crawler hands it over.
type RawItem struct {
    Title       string    `json:"title"`
    Content     string    `json:"content"`
    Source      string    `json:"source"`
    URL         string    `json:"url"`
    ImageURL    string    `json:"image_url,omitempty"`
    TrustScore  int       `json:"trust_score"`
    PublishedAt time.Time `json:"published_at"`
    FetchedAt   time.Time `json:"fetched_at"`
}

// ProcessedItem is a RawItem after NLP processing. Re-processing yields a
// new value; a ProcessedItem is never mutated after creation.
type ProcessedItem struct {
    RawItem
    Category       string   `json:"category"`
    RelevanceScore int      `json:"relevance_score"` // 0-100
    Sentiment      string   `json:"sentiment"`       // positive|negative|neutral
    Keywords       []string `json:"extracted_keywords"`
}

// GeneratedArticle is the synthesized output handed to the store.
type GeneratedArticle struct {
    Title      string   `json:"title"`
    Excerpt    string   `json:"excerpt"`
    Content    string   `json:"content"`
    Category   string   `json:"category"`
    Author     string   `json:"author"`
    ImageURL   string   `json:"image_url,omitempty"`
    SourceURLs []string `json:"source_urls"`
}

// StoredArticle is a persisted article with store-assigned fields.
type StoredArticle struct {
    GeneratedArticle
    ID          int       `json:"id"`
    PublishedAt time.Time `json:"published_at"`
    IsFeatured  bool      `json:"is_featured"`
    Views       int       `json:"views"`
}

// SourceSelectors configures HTML extraction for scraped sources.
type SourceSelectors struct {
    Item    string `yaml:"item" json:"item"`
    Title   string `yaml:"title" json:"title"`
    Link    string `yaml:"link" json:"link"`
    Content string `yaml:"content" json:"content"`
    Image   string `yaml:"image" json:"image"`
}

// SourceConfig describes one configured news source. Read-only at runtime.
type SourceConfig struct {
    Name       string          `yaml:"name" json:"name"`
    URL        string          `yaml:"url" json:"url"`
    Type       string          `yaml:"type" json:"type"` // rss|html
    TrustScore int             `yaml:"trust_score" json:"trust_score"` // 0-10
    Paused     bool            `yaml:"paused" json:"paused"`
    Selectors  SourceSelectors `yaml:"selectors" json:"selectors"`
}
