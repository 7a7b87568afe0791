// cmd/newsbot/crawler.go
package main

import (
    "context"
    "fmt"
    "html"
    "io"
    "net/http"
    "net/url"
    "strings"
    "sync"
    "time"

    "github.com/PuerkitoBio/goquery"
    "github.com/mmcdole/gofeed"
    "golang.org/x/text/unicode/norm"
)

// Crawler fetches raw items from the configured sources. Every source is
// attempted independently; a failing source is logged and excluded from
// the batch without affecting the others.
type Crawler struct {
    client       *http.Client
    parser       *gofeed.Parser
    userAgent    string
    maxPerSource int
    timeout      time.Duration
}

// fetchResult carries one source's outcome through the fan-out.
type fetchResult struct {
    source string
    items  []RawItem
    err    error
}

// NewCrawler creates a crawler from the crawling configuration.
func NewCrawler(cfg CrawlingConfig, timeout time.Duration) *Crawler {
    maxPerSource := cfg.MaxItemsPerSource
    if maxPerSource <= 0 {
        maxPerSource = DefaultMaxItemsPerSource
    }

    return &Crawler{
        client: &http.Client{
            Timeout: timeout,
            Transport: &http.Transport{
                MaxIdleConns:    100,
                IdleConnTimeout: 90 * time.Second,
                MaxConnsPerHost: 10,
            },
        },
        parser:       gofeed.NewParser(),
        userAgent:    cfg.UserAgent,
        maxPerSource: maxPerSource,
        timeout:      timeout,
    }
}

// FetchAll fans out over all non-paused sources with bounded concurrency
// and joins the results. No ordering guarantee across sources.
func (c *Crawler) FetchAll(ctx context.Context, sources []SourceConfig) []RawItem {
    results := make(chan fetchResult, len(sources))
    sem := make(chan struct{}, 5)
    var wg sync.WaitGroup

    for _, source := range sources {
        if source.Paused {
            GetLogger().Info("Skipping paused source: %s", source.Name)
            continue
        }

        wg.Add(1)
        go func(src SourceConfig) {
            defer wg.Done()
            sem <- struct{}{}
            defer func() { <-sem }()

            srcCtx, cancel := context.WithTimeout(ctx, c.timeout)
            defer cancel()

            items, err := c.FetchSource(srcCtx, src)
            results <- fetchResult{source: src.Name, items: items, err: err}
        }(source)
    }

    go func() {
        wg.Wait()
        close(results)
    }()

    var all []RawItem
    for result := range results {
        if result.err != nil {
            GetLogger().Error("Failed to fetch %s: %v", result.source, result.err)
            continue
        }
        GetLogger().Info("Fetched %d items from %s", len(result.items), result.source)
        all = append(all, result.items...)
    }

    return all
}

// FetchSource retrieves raw items from a single source. Natural publish
// order within the source is preserved.
func (c *Crawler) FetchSource(ctx context.Context, source SourceConfig) ([]RawItem, error) {
    switch source.Type {
    case SourceTypeHTML:
        return c.fetchHTML(ctx, source)
    case SourceTypeRSS, "":
        return c.fetchRSS(ctx, source)
    default:
        return nil, NewCrawlerError(ErrFetchRequest,
            fmt.Sprintf("source %s has unsupported type %q", source.Name, source.Type), nil)
    }
}

// fetchRSS parses an RSS/Atom feed into raw items.
func (c *Crawler) fetchRSS(ctx context.Context, source SourceConfig) ([]RawItem, error) {
    body, err := c.get(ctx, source.URL, "application/rss+xml, application/atom+xml, application/xml, text/xml")
    if err != nil {
        return nil, err
    }

    feed, err := c.parser.ParseString(body)
    if err != nil {
        return nil, NewCrawlerError(ErrFetchParse, fmt.Sprintf("cannot parse feed from %s", source.Name), err)
    }

    now := time.Now().UTC()
    var items []RawItem
    for _, entry := range feed.Items {
        if len(items) >= c.maxPerSource {
            break
        }
        if entry.Title == "" || entry.Link == "" {
            continue
        }

        items = append(items, RawItem{
            Title:       cleanText(entry.Title),
            Content:     cleanText(feedContent(entry)),
            Source:      source.Name,
            URL:         entry.Link,
            ImageURL:    feedImage(entry),
            TrustScore:  source.TrustScore,
            PublishedAt: feedDate(entry, now),
            FetchedAt:   now,
        })
    }

    return items, nil
}

// fetchHTML scrapes a listing page using the source's CSS selectors.
func (c *Crawler) fetchHTML(ctx context.Context, source SourceConfig) ([]RawItem, error) {
    body, err := c.get(ctx, source.URL, "text/html")
    if err != nil {
        return nil, err
    }

    doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
    if err != nil {
        return nil, NewCrawlerError(ErrFetchParse, fmt.Sprintf("cannot parse HTML from %s", source.Name), err)
    }

    sel := source.Selectors
    if sel.Item == "" {
        return nil, NewCrawlerError(ErrFetchParse,
            fmt.Sprintf("html source %s has no item selector", source.Name), nil)
    }

    now := time.Now().UTC()
    var items []RawItem
    doc.Find(sel.Item).EachWithBreak(func(_ int, s *goquery.Selection) bool {
        if len(items) >= c.maxPerSource {
            return false
        }

        title := strings.TrimSpace(s.Find(sel.Title).First().Text())
        if title == "" {
            title = strings.TrimSpace(s.Text())
        }

        link, _ := s.Find(sel.Link).First().Attr("href")
        if link == "" {
            link, _ = s.Find("a").First().Attr("href")
        }
        if title == "" || link == "" {
            return true
        }

        content := strings.TrimSpace(s.Find(sel.Content).Text())
        image, _ := s.Find(sel.Image).First().Attr("src")

        items = append(items, RawItem{
            Title:       cleanText(title),
            Content:     cleanText(content),
            Source:      source.Name,
            URL:         resolveLink(source.URL, link),
            ImageURL:    image,
            TrustScore:  source.TrustScore,
            PublishedAt: now,
            FetchedAt:   now,
        })
        return true
    })

    return items, nil
}

// get performs one bounded HTTP request and returns the body.
func (c *Crawler) get(ctx context.Context, rawURL, accept string) (string, error) {
    req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
    if err != nil {
        return "", NewCrawlerError(ErrFetchRequest, fmt.Sprintf("cannot build request for %s", rawURL), err)
    }
    req.Header.Set("User-Agent", c.userAgent)
    req.Header.Set("Accept", accept)

    resp, err := c.client.Do(req)
    if err != nil {
        return "", NewCrawlerError(ErrFetchRequest, fmt.Sprintf("cannot fetch %s", rawURL), err)
    }
    defer resp.Body.Close()

    if resp.StatusCode != http.StatusOK {
        return "", NewCrawlerError(ErrFetchStatus, fmt.Sprintf("%s returned HTTP %d", rawURL, resp.StatusCode), nil)
    }

    body, err := io.ReadAll(io.LimitReader(resp.Body, 10*1024*1024)) // 10MB cap
    if err != nil {
        return "", NewCrawlerError(ErrFetchRequest, fmt.Sprintf("cannot read body from %s", rawURL), err)
    }
    return string(body), nil
}

// feedContent prefers full content over description over title.
func feedContent(item *gofeed.Item) string {
    if item.Content != "" {
        return item.Content
    }
    if item.Description != "" {
        return item.Description
    }
    return item.Title
}

// feedImage finds the best image for a feed item.
func feedImage(item *gofeed.Item) string {
    if item.Image != nil && item.Image.URL != "" {
        return item.Image.URL
    }
    for _, enc := range item.Enclosures {
        if strings.HasPrefix(enc.Type, "image/") {
            return enc.URL
        }
    }
    return ""
}

// feedDate picks the item's publish date, falling back to update time
// and finally the fetch time.
func feedDate(item *gofeed.Item, fallback time.Time) time.Time {
    if item.PublishedParsed != nil {
        return item.PublishedParsed.UTC()
    }
    if item.UpdatedParsed != nil {
        return item.UpdatedParsed.UTC()
    }
    return fallback
}

// cleanText unescapes entities, strips markup and normalizes the result
// to NFC. Vietnamese feeds arrive in mixed normalization forms.
func cleanText(input string) string {
    text := html.UnescapeString(input)
    text = stripHTML(text)
    text = norm.NFC.String(text)
    return strings.TrimSpace(text)
}

// stripHTML removes HTML tags from a string
func stripHTML(input string) string {
    var output strings.Builder
    var inTag bool

    for _, r := range input {
        switch {
        case r == '<':
            inTag = true
        case r == '>':
            inTag = false
        case !inTag:
            output.WriteRune(r)
        }
    }

    return output.String()
}

// resolveLink makes scraped relative links absolute.
func resolveLink(base, link string) string {
    baseURL, err := url.Parse(base)
    if err != nil {
        return link
    }
    ref, err := url.Parse(link)
    if err != nil {
        return link
    }
    return baseURL.ResolveReference(ref).String()
}
