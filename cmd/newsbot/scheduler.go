// cmd/newsbot/scheduler.go
package main

import (
    "context"
    "fmt"
    "sync"
    "time"

    "github.com/robfig/cron/v3"
    "golang.org/x/time/rate"
)

// Fetcher is the crawling side of the pipeline, satisfied by *Crawler.
type Fetcher interface {
    FetchAll(ctx context.Context, sources []SourceConfig) []RawItem
}

// ItemProcessor is the NLP side, satisfied by *Processor.
type ItemProcessor interface {
    ProcessAll(items []RawItem) []ProcessedItem
}

// ArticleGenerator synthesizes articles, satisfied by *ContentGenerator.
type ArticleGenerator interface {
    Generate(ctx context.Context, items []ProcessedItem) (GeneratedArticle, error)
}

// Scheduler owns the automation lifecycle: a repeating fetch cycle and a
// daily publish cycle. It is the single owner of the publish queue.
type Scheduler struct {
    cfg       *AutomationConfig
    fetcher   Fetcher
    processor ItemProcessor
    generator ArticleGenerator
    store     ArticleStore
    queue     *PublishQueue
    state     *StateTracker
    limiter   *rate.Limiter

    mu      sync.Mutex
    running bool
    cron    *cron.Cron
    startup *sync.WaitGroup // tracks the immediate fetch cycle of the current run
    stopped chan struct{}

    onCycle func(State)
}

// NewScheduler wires the pipeline components together. Dependencies are
// injected so cycles can run against test doubles.
func NewScheduler(cfg *AutomationConfig, fetcher Fetcher, processor ItemProcessor,
    generator ArticleGenerator, store ArticleStore, state *StateTracker) *Scheduler {
    return &Scheduler{
        cfg:       cfg,
        fetcher:   fetcher,
        processor: processor,
        generator: generator,
        store:     store,
        queue:     NewPublishQueue(),
        state:     state,
        limiter:   rate.NewLimiter(rate.Limit(PublishRatePerSecond), 1),
    }
}

// Queue exposes the publish queue for status reporting.
func (s *Scheduler) Queue() *PublishQueue {
    return s.queue
}

// SetCycleListener registers a callback invoked with a state snapshot
// after every completed cycle. Used by the status feed.
func (s *Scheduler) SetCycleListener(fn func(State)) {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.onCycle = fn
}

// IsRunning reports whether the timers are armed.
func (s *Scheduler) IsRunning() bool {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.running
}

// Start arms both timers and runs an immediate fetch cycle. Calling it
// while already running is a logged no-op.
func (s *Scheduler) Start() error {
    s.mu.Lock()
    defer s.mu.Unlock()

    if s.running {
        GetLogger().Info("Automation already running, ignoring start")
        return nil
    }

    hour, minute, err := parsePublishTime(s.cfg.Schedule.PublishTime)
    if err != nil {
        return err
    }

    c := cron.New()

    fetchSpec := fmt.Sprintf("@every %s", s.cfg.FetchInterval())
    if _, err := c.AddFunc(fetchSpec, s.runFetchCycle); err != nil {
        return NewSchedulerError(ErrSchedulerCron, fmt.Sprintf("cannot schedule fetch job %q", fetchSpec), err)
    }

    // Wall-clock daily schedule so the publish tick stays correct across
    // day boundaries and DST shifts.
    publishSpec := fmt.Sprintf("%d %d * * *", minute, hour)
    if _, err := c.AddFunc(publishSpec, s.runPublishCycle); err != nil {
        return NewSchedulerError(ErrSchedulerCron, fmt.Sprintf("cannot schedule publish job %q", publishSpec), err)
    }

    s.cron = c
    s.stopped = nil
    s.running = true

    next := nextPublishTime(time.Now(), hour, minute)
    s.state.Update(func(st *State) {
        st.Running = true
        st.NextPublishTime = next
    })

    c.Start()

    // Initial cycle, not delayed. Tracked so Stop waits for it too.
    s.startup = new(sync.WaitGroup)
    s.startup.Add(1)
    go func(wg *sync.WaitGroup) {
        defer wg.Done()
        s.runFetchCycle()
    }(s.startup)

    GetLogger().Info("Automation started: fetch %s, next publish at %s",
        s.cfg.FetchInterval(), next.Format(TimeFormatFull))
    return nil
}

// Stop cancels both timers. In-flight cycles are allowed to finish; the
// returned channel closes once they have. Stopping a stopped scheduler
// is a logged no-op.
func (s *Scheduler) Stop() <-chan struct{} {
    s.mu.Lock()
    defer s.mu.Unlock()

    if !s.running {
        GetLogger().Info("Automation not running, ignoring stop")
        if s.stopped != nil {
            return s.stopped
        }
        done := make(chan struct{})
        close(done)
        return done
    }

    cronCtx := s.cron.Stop()
    s.cron = nil
    s.running = false

    // Both the cron-scheduled jobs and the startup fetch goroutine count
    // as in-flight cycles.
    done := make(chan struct{})
    go func(wg *sync.WaitGroup) {
        <-cronCtx.Done()
        wg.Wait()
        close(done)
    }(s.startup)
    s.stopped = done

    s.state.Update(func(st *State) {
        st.Running = false
    })

    GetLogger().Info("Automation stopped")
    return done
}

// RunManualFetchCycle runs exactly one fetch cycle synchronously, for
// operational use outside the timer loop.
func (s *Scheduler) RunManualFetchCycle() {
    GetLogger().Info("Manual fetch cycle requested")
    s.runFetchCycle()
}

// runFetchCycle crawls all sources, processes and filters the results
// and appends the survivors to the publish queue. An empty or fully
// filtered crawl ends the cycle cleanly.
func (s *Scheduler) runFetchCycle() {
    defer RecoverFromPanic("fetch-cycle")

    started := time.Now()
    rawItems := s.fetcher.FetchAll(context.Background(), s.cfg.Crawling.Sources)
    GetLogger().Info("Fetch cycle crawled %d raw items", len(rawItems))

    processed := s.processor.ProcessAll(rawItems)

    survivors := make([]ProcessedItem, 0, len(processed))
    for _, item := range processed {
        if item.RelevanceScore < s.cfg.NLP.MinRelevanceScore {
            GetLogger().Debug("Dropping low-relevance item (%d): %s", item.RelevanceScore, item.Title)
            continue
        }
        if len(item.Content) < s.cfg.NLP.MinContentLength {
            GetLogger().Debug("Dropping short item (%d chars): %s", len(item.Content), item.Title)
            continue
        }
        survivors = append(survivors, item)
    }

    survivors = FilterDuplicates(survivors)
    s.queue.Enqueue(survivors)

    GetLogger().Info("Fetch cycle done in %s: %d of %d items queued, queue length %d",
        time.Since(started).Round(time.Millisecond), len(survivors), len(rawItems), s.queue.Len())

    s.state.Update(func(st *State) {
        st.FetchCycleCount++
        st.LastFetchTime = time.Now()
        st.QueueLength = s.queue.Len()
    })
    s.notifyCycle()
}

// runPublishCycle drains the top of the queue and publishes one article
// per selected item (or per category group when roundups are enabled).
// Per-item failures are logged and skipped; the drained slice never goes
// back, so each item gets at most one publish attempt per day.
func (s *Scheduler) runPublishCycle() {
    defer RecoverFromPanic("publish-cycle")

    if s.queue.Len() == 0 {
        GetLogger().Info("Publish cycle: queue empty, nothing to do")
        s.rearmPublishState(0)
        return
    }

    selected := s.queue.DrainTop(s.cfg.Publishing.ArticlesPerDay, s.cfg.Publishing.AutoPrioritize)
    GetLogger().Info("Publish cycle: selected %d items", len(selected))

    var batches [][]ProcessedItem
    if s.cfg.Publishing.GroupByCategory {
        batches = groupByCategory(selected)
    } else {
        for _, item := range selected {
            batches = append(batches, []ProcessedItem{item})
        }
    }

    published := 0
    for _, batch := range batches {
        article, err := s.generator.Generate(context.Background(), batch)
        if err != nil {
            GetLogger().Error("Failed to generate article for %q: %v", batch[0].Title, err)
            s.state.RecordError(err)
            continue
        }
        if article.Category == "" {
            article.Category = s.cfg.Publishing.DefaultCategory
        }

        if err := s.limiter.Wait(context.Background()); err != nil {
            GetLogger().Error("Publish limiter interrupted: %v", err)
            break
        }

        stored, err := s.store.CreateArticle(article, published == 0)
        if err != nil {
            GetLogger().Error("Failed to persist article %q: %v", article.Title, err)
            s.state.RecordError(err)
            continue
        }

        GetLogger().Info("Published article #%d: %s", stored.ID, stored.Title)
        published++
    }

    s.rearmPublishState(published)
}

// rearmPublishState updates counters and the computed next publish time.
func (s *Scheduler) rearmPublishState(published int) {
    hour, minute, err := parsePublishTime(s.cfg.Schedule.PublishTime)
    if err != nil {
        hour, minute = 8, 0
    }
    next := nextPublishTime(time.Now(), hour, minute)

    s.state.Update(func(st *State) {
        st.PublishCycleCount++
        st.ArticlesPublished += published
        st.LastPublishTime = time.Now()
        st.NextPublishTime = next
        st.QueueLength = s.queue.Len()
    })
    s.notifyCycle()
}

func (s *Scheduler) notifyCycle() {
    s.mu.Lock()
    fn := s.onCycle
    s.mu.Unlock()
    if fn != nil {
        fn(s.state.Snapshot())
    }
}

// nextPublishTime computes the next wall-clock HH:MM occurrence: today if
// still ahead, otherwise tomorrow.
func nextPublishTime(now time.Time, hour, minute int) time.Time {
    next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
    if !next.After(now) {
        next = next.AddDate(0, 0, 1)
    }
    return next
}

// groupByCategory splits a selection into category batches, keeping the
// selection order both across and within batches.
func groupByCategory(items []ProcessedItem) [][]ProcessedItem {
    index := make(map[string]int)
    var batches [][]ProcessedItem

    for _, item := range items {
        i, ok := index[item.Category]
        if !ok {
            i = len(batches)
            index[item.Category] = i
            batches = append(batches, nil)
        }
        batches[i] = append(batches[i], item)
    }
    return batches
}
