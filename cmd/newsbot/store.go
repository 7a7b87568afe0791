// cmd/newsbot/store.go
package main

import (
    "sort"
    "sync"
    "time"
)

// ArticleStore persists generated articles. The store owns the referral
// footer side effect; the generator never sees it.
type ArticleStore interface {
    CreateArticle(article GeneratedArticle, featured bool) (*StoredArticle, error)
    GetArticles(limit, offset int) []*StoredArticle
    GetArticleByID(id int) *StoredArticle
    GetArticlesByCategory(category string) []*StoredArticle
    GetFeaturedArticles() []*StoredArticle
    IncrementArticleViews(id int) bool
}

// MemoryStore is the in-memory ArticleStore used by the admin API and
// tests. A database-backed store satisfies the same interface.
type MemoryStore struct {
    mu             sync.RWMutex
    articles       map[int]*StoredArticle
    nextID         int
    referralFooter string
}

// NewMemoryStore creates an empty store. A non-empty footer is appended
// to every persisted article's content.
func NewMemoryStore(referralFooter string) *MemoryStore {
    return &MemoryStore{
        articles:       make(map[int]*StoredArticle),
        nextID:         1,
        referralFooter: referralFooter,
    }
}

// CreateArticle assigns an id, stamps the publish time and persists the
// article, appending the configured referral footer.
func (s *MemoryStore) CreateArticle(article GeneratedArticle, featured bool) (*StoredArticle, error) {
    s.mu.Lock()
    defer s.mu.Unlock()

    content := article.Content
    if s.referralFooter != "" {
        content += "\n\n" + s.referralFooter
    }

    stored := &StoredArticle{
        GeneratedArticle: article,
        ID:               s.nextID,
        PublishedAt:      time.Now().UTC(),
        IsFeatured:       featured,
        Views:            0,
    }
    stored.Content = content

    s.articles[stored.ID] = stored
    s.nextID++
    return stored, nil
}

// GetArticles returns articles newest first.
func (s *MemoryStore) GetArticles(limit, offset int) []*StoredArticle {
    s.mu.RLock()
    defer s.mu.RUnlock()

    all := s.sortedArticles()
    if offset >= len(all) {
        return nil
    }
    all = all[offset:]
    if limit > 0 && limit < len(all) {
        all = all[:limit]
    }
    return all
}

// GetArticleByID returns one article or nil.
func (s *MemoryStore) GetArticleByID(id int) *StoredArticle {
    s.mu.RLock()
    defer s.mu.RUnlock()
    return s.articles[id]
}

// GetArticlesByCategory returns a category's articles newest first.
func (s *MemoryStore) GetArticlesByCategory(category string) []*StoredArticle {
    s.mu.RLock()
    defer s.mu.RUnlock()

    var matched []*StoredArticle
    for _, a := range s.sortedArticles() {
        if a.Category == category {
            matched = append(matched, a)
        }
    }
    return matched
}

// GetFeaturedArticles returns featured articles newest first.
func (s *MemoryStore) GetFeaturedArticles() []*StoredArticle {
    s.mu.RLock()
    defer s.mu.RUnlock()

    var featured []*StoredArticle
    for _, a := range s.sortedArticles() {
        if a.IsFeatured {
            featured = append(featured, a)
        }
    }
    return featured
}

// IncrementArticleViews bumps an article's view counter.
func (s *MemoryStore) IncrementArticleViews(id int) bool {
    s.mu.Lock()
    defer s.mu.Unlock()

    article, ok := s.articles[id]
    if !ok {
        return false
    }
    article.Views++
    return true
}

// sortedArticles returns all articles newest first. Callers hold the lock.
func (s *MemoryStore) sortedArticles() []*StoredArticle {
    all := make([]*StoredArticle, 0, len(s.articles))
    for _, a := range s.articles {
        all = append(all, a)
    }
    sort.Slice(all, func(i, j int) bool {
        if !all[i].PublishedAt.Equal(all[j].PublishedAt) {
            return all[i].PublishedAt.After(all[j].PublishedAt)
        }
        return all[i].ID > all[j].ID
    })
    return all
}
