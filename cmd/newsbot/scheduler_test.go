// cmd/newsbot/scheduler_test.go
package main

import (
    "context"
    "errors"
    "path/filepath"
    "strings"
    "sync"
    "testing"
    "time"
)

type fakeFetcher struct {
    items []RawItem
}

func (f fakeFetcher) FetchAll(ctx context.Context, sources []SourceConfig) []RawItem {
    return f.items
}

// fakeGenerator builds a minimal article from the batch head and records
// every batch it sees.
type fakeGenerator struct {
    mu      sync.Mutex
    failFor string
    batches [][]ProcessedItem
}

func (f *fakeGenerator) Generate(ctx context.Context, items []ProcessedItem) (GeneratedArticle, error) {
    f.mu.Lock()
    f.batches = append(f.batches, items)
    f.mu.Unlock()

    if len(items) == 0 {
        return GeneratedArticle{}, NewGeneratorError(ErrGenerateNoItems, "empty batch", nil)
    }
    if items[0].Title == f.failFor {
        return GeneratedArticle{}, errors.New("generation failed")
    }
    return GeneratedArticle{
        Title:    items[0].Title,
        Category: items[0].Category,
        Content:  "<p>generated</p>",
    }, nil
}

func schedulerTestConfig() *AutomationConfig {
    cfg := DefaultConfig()
    cfg.NLP.MinContentLength = 10
    cfg.Publishing.ArticlesPerDay = 2
    return cfg
}

func newTestScheduler(t *testing.T, cfg *AutomationConfig, fetcher Fetcher, gen ArticleGenerator, store ArticleStore) *Scheduler {
    t.Helper()
    state := NewStateTracker(filepath.Join(t.TempDir(), "state.json"))
    return NewScheduler(cfg, fetcher, NewProcessor(cfg.NLP, cfg.Publishing.DefaultCategory), gen, store, state)
}

func TestFetchCycleFiltersAndDeduplicates(t *testing.T) {
    now := time.Now()
    longBody := strings.Repeat("Giá Bitcoin biến động mạnh trong phiên. ", 5)

    fetcher := fakeFetcher{items: []RawItem{
        // Two near-duplicate trusted fresh items: one survives
        {Title: "Bitcoin surges past fifty thousand dollars amid etf optimism today",
            Content: longBody, Source: "CoinDesk", URL: "https://a", PublishedAt: now},
        {Title: "Bitcoin surges past fifty thousand dollars amid etf optimism tonight",
            Content: longBody, Source: "Cointelegraph", URL: "https://b", PublishedAt: now},
        // Stale unknown source: relevance 40, below the cutoff
        {Title: "Old story about gardening tips",
            Content: longBody, Source: "Some Blog", URL: "https://c", PublishedAt: now.Add(-100 * time.Hour)},
        // Fresh but too short
        {Title: "Teaser", Content: "hi", Source: "CoinDesk", URL: "https://d", PublishedAt: now},
    }}

    cfg := schedulerTestConfig()
    s := newTestScheduler(t, cfg, fetcher, &fakeGenerator{}, NewMemoryStore(""))

    s.RunManualFetchCycle()

    if got := s.Queue().Len(); got != 1 {
        t.Fatalf("queue length = %d, want 1", got)
    }
    queued := s.Queue().Snapshot()[0]
    if !strings.HasSuffix(queued.Title, "today") {
        t.Errorf("first-seen duplicate should win: %q", queued.Title)
    }
    if queued.RelevanceScore < cfg.NLP.MinRelevanceScore {
        t.Errorf("queued item below cutoff: %d", queued.RelevanceScore)
    }
    if queued.Category != CategoryBitcoin {
        t.Errorf("category = %q", queued.Category)
    }

    st := s.state.Snapshot()
    if st.FetchCycleCount != 1 {
        t.Errorf("fetch cycle count = %d", st.FetchCycleCount)
    }
    if st.QueueLength != 1 {
        t.Errorf("state queue length = %d", st.QueueLength)
    }
}

func TestPublishCyclePublishesTopItems(t *testing.T) {
    cfg := schedulerTestConfig() // two articles per day, auto-prioritize on
    store := NewMemoryStore("")
    s := newTestScheduler(t, cfg, fakeFetcher{}, &fakeGenerator{}, store)

    s.Queue().Enqueue([]ProcessedItem{
        itemWithTitle("story-90", 90),
        itemWithTitle("story-40", 40),
        itemWithTitle("story-70", 70),
        itemWithTitle("story-10", 10),
        itemWithTitle("story-55", 55),
    })

    s.runPublishCycle()

    first := store.GetArticleByID(1)
    second := store.GetArticleByID(2)
    if first == nil || second == nil {
        t.Fatal("expected two persisted articles")
    }
    if first.Title != "story-90" || second.Title != "story-70" {
        t.Fatalf("published %q then %q, want story-90 then story-70", first.Title, second.Title)
    }
    if !first.IsFeatured || second.IsFeatured {
        t.Fatalf("only the first article of a cycle is featured: %v/%v", first.IsFeatured, second.IsFeatured)
    }
    if first.Category != cfg.Publishing.DefaultCategory {
        t.Errorf("empty category should fall back to default, got %q", first.Category)
    }

    if got := s.Queue().Len(); got != 3 {
        t.Fatalf("queue length = %d, want 3", got)
    }

    st := s.state.Snapshot()
    if st.PublishCycleCount != 1 || st.ArticlesPublished != 2 {
        t.Errorf("state counters = %d cycles / %d published", st.PublishCycleCount, st.ArticlesPublished)
    }
    if !st.NextPublishTime.After(time.Now()) {
        t.Errorf("next publish time not rearmed: %s", st.NextPublishTime)
    }
}

func TestPublishCycleSkipsFailedItems(t *testing.T) {
    cfg := schedulerTestConfig()
    cfg.Publishing.ArticlesPerDay = 3
    store := NewMemoryStore("")
    gen := &fakeGenerator{failFor: "story-90"}
    s := newTestScheduler(t, cfg, fakeFetcher{}, gen, store)

    s.Queue().Enqueue([]ProcessedItem{
        itemWithTitle("story-90", 90),
        itemWithTitle("story-70", 70),
        itemWithTitle("story-50", 50),
    })

    s.runPublishCycle()

    articles := store.GetArticles(0, 0)
    if len(articles) != 2 {
        t.Fatalf("got %d articles, want 2 after one failure", len(articles))
    }
    first := store.GetArticleByID(1)
    if first.Title != "story-70" || !first.IsFeatured {
        t.Fatalf("first successful article should be featured: %+v", first)
    }
    if st := s.state.Snapshot(); st.ErrorCount == 0 {
        t.Error("generation failure should be recorded")
    }
}

func TestPublishCycleEmptyQueue(t *testing.T) {
    store := NewMemoryStore("")
    s := newTestScheduler(t, schedulerTestConfig(), fakeFetcher{}, &fakeGenerator{}, store)

    s.runPublishCycle()

    if got := store.GetArticles(0, 0); len(got) != 0 {
        t.Fatalf("empty queue published %d articles", len(got))
    }
}

func TestPublishCycleGroupsByCategory(t *testing.T) {
    cfg := schedulerTestConfig()
    cfg.Publishing.ArticlesPerDay = 3
    cfg.Publishing.AutoPrioritize = false
    cfg.Publishing.GroupByCategory = true
    gen := &fakeGenerator{}
    s := newTestScheduler(t, cfg, fakeFetcher{}, gen, NewMemoryStore(""))

    btcA := itemWithTitle("btc one", 80)
    btcA.Category = CategoryBitcoin
    ethA := itemWithTitle("eth one", 70)
    ethA.Category = CategoryEthereum
    btcB := itemWithTitle("btc two", 60)
    btcB.Category = CategoryBitcoin

    s.Queue().Enqueue([]ProcessedItem{btcA, ethA, btcB})
    s.runPublishCycle()

    if len(gen.batches) != 2 {
        t.Fatalf("got %d batches, want one per category", len(gen.batches))
    }
    if len(gen.batches[0]) != 2 || gen.batches[0][0].Category != CategoryBitcoin {
        t.Fatalf("first batch = %+v", gen.batches[0])
    }
    if len(gen.batches[1]) != 1 || gen.batches[1][0].Category != CategoryEthereum {
        t.Fatalf("second batch = %+v", gen.batches[1])
    }
}

func TestGroupByCategoryKeepsOrder(t *testing.T) {
    a := itemWithTitle("a", 1)
    a.Category = "X"
    b := itemWithTitle("b", 2)
    b.Category = "Y"
    c := itemWithTitle("c", 3)
    c.Category = "X"

    batches := groupByCategory([]ProcessedItem{a, b, c})
    if len(batches) != 2 {
        t.Fatalf("got %d batches", len(batches))
    }
    if batches[0][0].Title != "a" || batches[0][1].Title != "c" || batches[1][0].Title != "b" {
        t.Fatalf("batch order broken: %+v", batches)
    }
}

func TestStartStopIdempotent(t *testing.T) {
    s := newTestScheduler(t, schedulerTestConfig(), fakeFetcher{}, &fakeGenerator{}, NewMemoryStore(""))

    if err := s.Start(); err != nil {
        t.Fatal(err)
    }
    if err := s.Start(); err != nil {
        t.Fatal("second start should be a no-op")
    }
    if !s.IsRunning() {
        t.Fatal("scheduler should report running")
    }

    done := s.Stop()
    select {
    case <-done:
    case <-time.After(5 * time.Second):
        t.Fatal("stop never reported cycle completion")
    }
    if s.IsRunning() {
        t.Fatal("scheduler should report stopped")
    }

    // Stopping again must not block or panic
    select {
    case <-s.Stop():
    case <-time.After(time.Second):
        t.Fatal("repeated stop blocked")
    }
}

// gatedFetcher blocks inside FetchAll until released, to hold a fetch
// cycle in flight.
type gatedFetcher struct {
    entered chan struct{}
    release chan struct{}
}

func (f gatedFetcher) FetchAll(ctx context.Context, sources []SourceConfig) []RawItem {
    close(f.entered)
    <-f.release
    return nil
}

func TestStopWaitsForStartupFetch(t *testing.T) {
    fetcher := gatedFetcher{
        entered: make(chan struct{}),
        release: make(chan struct{}),
    }
    s := newTestScheduler(t, schedulerTestConfig(), fetcher, &fakeGenerator{}, NewMemoryStore(""))

    if err := s.Start(); err != nil {
        t.Fatal(err)
    }
    <-fetcher.entered

    done := s.Stop()
    select {
    case <-done:
        t.Fatal("stop reported completion while the startup fetch was in flight")
    case <-time.After(100 * time.Millisecond):
    }

    close(fetcher.release)
    select {
    case <-done:
    case <-time.After(5 * time.Second):
        t.Fatal("stop never reported completion after the fetch finished")
    }
}

func TestStartRejectsBadPublishTime(t *testing.T) {
    cfg := schedulerTestConfig()
    cfg.Schedule.PublishTime = "nope"
    s := newTestScheduler(t, cfg, fakeFetcher{}, &fakeGenerator{}, NewMemoryStore(""))

    if err := s.Start(); err == nil {
        t.Fatal("expected an error for an unparseable publish time")
    }
    if s.IsRunning() {
        t.Fatal("failed start must not leave the scheduler running")
    }
}

func TestNextPublishTime(t *testing.T) {
    now := time.Date(2024, 5, 10, 10, 0, 0, 0, time.UTC)

    later := nextPublishTime(now, 11, 30)
    if later.Day() != 10 || later.Hour() != 11 || later.Minute() != 30 {
        t.Fatalf("future slot should stay today: %s", later)
    }

    earlier := nextPublishTime(now, 9, 0)
    if earlier.Day() != 11 || earlier.Hour() != 9 {
        t.Fatalf("past slot should roll to tomorrow: %s", earlier)
    }

    exact := nextPublishTime(now, 10, 0)
    if exact.Day() != 11 {
        t.Fatalf("the current minute should roll to tomorrow: %s", exact)
    }
}
