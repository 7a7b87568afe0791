// cmd/newsbot/generator_test.go
package main

import (
    "context"
    "strings"
    "testing"
    "time"
)

// stubImages is an ImageResolver that always returns a fixed URL.
type stubImages struct {
    url string
}

func (s stubImages) GetImageForArticle(ctx context.Context, title string, keywords []string, refs []ProcessedItem) string {
    return s.url
}

func processedItem(title, content, category, sentiment string, score int) ProcessedItem {
    return ProcessedItem{
        RawItem: RawItem{
            Title:       title,
            Content:     content,
            Source:      "CoinDesk",
            URL:         "https://example.com/" + strings.ReplaceAll(strings.ToLower(title), " ", "-"),
            PublishedAt: time.Now(),
        },
        Category:       category,
        RelevanceScore: score,
        Sentiment:      sentiment,
        Keywords:       []string{"bitcoin", "market"},
    }
}

func TestGenerateRejectsEmptyBatch(t *testing.T) {
    g := NewContentGenerator(stubImages{})

    _, err := g.Generate(context.Background(), nil)
    if err == nil {
        t.Fatal("expected an error for an empty batch")
    }
    if !strings.Contains(err.Error(), ErrGenerateNoItems) {
        t.Fatalf("unexpected error: %v", err)
    }
}

func TestGenerateSingle(t *testing.T) {
    g := NewContentGenerator(stubImages{url: "https://img.example.com/a.jpg"})
    item := processedItem("Bitcoin breaks new record", strings.Repeat("Giá Bitcoin tăng mạnh. ", 20), CategoryBitcoin, SentimentPositive, 85)

    article, err := g.Generate(context.Background(), []ProcessedItem{item})
    if err != nil {
        t.Fatal(err)
    }

    if article.Title != item.Title {
        t.Errorf("title = %q, want %q", article.Title, item.Title)
    }
    if article.Category != CategoryBitcoin {
        t.Errorf("category = %q, want %q", article.Category, CategoryBitcoin)
    }
    if article.Author != DefaultAuthor {
        t.Errorf("author = %q, want %q", article.Author, DefaultAuthor)
    }
    if article.ImageURL != "https://img.example.com/a.jpg" {
        t.Errorf("image = %q", article.ImageURL)
    }
    if len(article.SourceURLs) != 1 || article.SourceURLs[0] != item.URL {
        t.Errorf("source urls = %v", article.SourceURLs)
    }
    if !strings.Contains(article.Content, "Phân tích") {
        t.Error("single article should carry an analysis section")
    }
    if len([]rune(article.Excerpt)) > ExcerptMaxLen {
        t.Errorf("excerpt too long: %d runes", len([]rune(article.Excerpt)))
    }
}

func TestGenerateSingleTruncatesTitle(t *testing.T) {
    g := NewContentGenerator(stubImages{})
    longTitle := strings.Repeat("Bitcoin news update today ", 10)
    item := processedItem(longTitle, "Short body.", CategoryBitcoin, SentimentNeutral, 50)

    article, err := g.Generate(context.Background(), []ProcessedItem{item})
    if err != nil {
        t.Fatal(err)
    }
    if got := len([]rune(article.Title)); got > TitleMaxLen {
        t.Fatalf("title length %d exceeds %d", got, TitleMaxLen)
    }
    if !strings.HasSuffix(article.Title, "...") {
        t.Fatalf("truncated title should end in ellipsis: %q", article.Title)
    }
}

func TestGenerateRoundup(t *testing.T) {
    g := NewContentGenerator(stubImages{})
    items := []ProcessedItem{
        processedItem("Bitcoin rally continues", strings.Repeat("Phe mua đang kiểm soát thị trường. ", 10), CategoryBitcoin, SentimentPositive, 90),
        processedItem("Miners expand capacity", "Công suất đào tăng nhanh.", CategoryBitcoin, SentimentPositive, 70),
        processedItem("Ethereum fees drop", "Phí gas giảm xuống thấp.", CategoryEthereum, SentimentNeutral, 60),
    }

    article, err := g.Generate(context.Background(), items)
    if err != nil {
        t.Fatal(err)
    }

    if article.Category != CategoryBitcoin {
        t.Errorf("dominant category = %q, want %q", article.Category, CategoryBitcoin)
    }
    if !strings.HasPrefix(article.Title, "Tin mới nhất về Bitcoin: ") {
        t.Errorf("roundup title = %q", article.Title)
    }
    if len(article.SourceURLs) != 3 {
        t.Errorf("expected 3 source urls, got %v", article.SourceURLs)
    }
    if !strings.Contains(article.Content, "Nguồn:") {
        t.Error("roundup should attribute every source")
    }
    if !strings.Contains(article.Content, "Nhận định") {
        t.Error("roundup should carry a synthesis section")
    }
    // Highest relevance item leads
    if !strings.Contains(article.Title, "Bitcoin rally continues") {
        t.Errorf("primary item should headline the roundup: %q", article.Title)
    }
}

func TestGenerateRoundupCapsSecondaries(t *testing.T) {
    g := NewContentGenerator(stubImages{})
    var items []ProcessedItem
    for _, title := range []string{
        "Bitcoin story one", "Bitcoin story two", "Bitcoin story three",
        "Bitcoin story four", "Bitcoin story five", "Bitcoin story six",
    } {
        items = append(items, processedItem(title, "Nội dung tin tức.", CategoryBitcoin, SentimentNeutral, 50))
    }

    article, err := g.Generate(context.Background(), items)
    if err != nil {
        t.Fatal(err)
    }
    if want := 1 + MaxSecondaryItems; len(article.SourceURLs) != want {
        t.Fatalf("expected %d source urls, got %d", want, len(article.SourceURLs))
    }
}

func TestMakeExcerpt(t *testing.T) {
    tests := []struct {
        name    string
        content string
        check   func(t *testing.T, got string)
    }{
        {
            name:    "short content returned whole",
            content: "Giá Bitcoin tăng nhẹ.",
            check: func(t *testing.T, got string) {
                if got != "Giá Bitcoin tăng nhẹ." {
                    t.Fatalf("got %q", got)
                }
            },
        },
        {
            name:    "prefers sentence boundary",
            content: strings.Repeat("x", 120) + ". " + strings.Repeat("y", 100),
            check: func(t *testing.T, got string) {
                if !strings.HasSuffix(got, ".") {
                    t.Fatalf("expected sentence-boundary cut, got %q", got)
                }
            },
        },
        {
            // The period sits at rune 40 but past byte 80; the midpoint
            // check must measure in runes, so this is a hard cut.
            name:    "multi-byte text measured in runes",
            content: strings.Repeat("ạ", 40) + "." + strings.Repeat("ộ", 200),
            check: func(t *testing.T, got string) {
                if !strings.HasSuffix(got, "...") {
                    t.Fatalf("early period should not win the midpoint check, got %q", got)
                }
                if n := len([]rune(got)); n > ExcerptMaxLen+3 {
                    t.Fatalf("excerpt too long: %d runes", n)
                }
            },
        },
        {
            name:    "hard cut without boundary",
            content: strings.Repeat("z", 400),
            check: func(t *testing.T, got string) {
                if !strings.HasSuffix(got, "...") {
                    t.Fatalf("expected ellipsis, got %q", got)
                }
                if len([]rune(got)) > ExcerptMaxLen+3 {
                    t.Fatalf("excerpt too long: %d runes", len([]rune(got)))
                }
            },
        },
    }

    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            tt.check(t, makeExcerpt(tt.content))
        })
    }
}

func TestDominantCategoryPrefersPrimaryOnTie(t *testing.T) {
    items := []ProcessedItem{
        processedItem("a", "x", CategoryEthereum, SentimentNeutral, 90),
        processedItem("b", "x", CategoryBitcoin, SentimentNeutral, 80),
    }
    if got := dominantCategory(items); got != CategoryEthereum {
        t.Fatalf("dominantCategory = %q, want primary's %q", got, CategoryEthereum)
    }
}
