// cmd/newsbot/processor.go
package main

import (
    "regexp"
    "sort"
    "strings"
    "time"
    "unicode"
)

// Processor runs the NLP heuristics over raw items: keyword extraction,
// category detection, sentiment analysis and relevance scoring.
type Processor struct {
    defaultCategory    string
    trustedSources     []string
    priorityCategories map[string]struct{}
    categoryOrder      []string
    positivePatterns   []*regexp.Regexp
    negativePatterns   []*regexp.Regexp
}

// NewProcessor creates a Processor from the NLP configuration.
func NewProcessor(nlp NLPConfig, defaultCategory string) *Processor {
    if defaultCategory == "" {
        defaultCategory = CategoryGeneral
    }

    priority := make(map[string]struct{}, len(nlp.PriorityCategories))
    for _, c := range nlp.PriorityCategories {
        priority[c] = struct{}{}
    }

    order := make([]string, 0, len(categoryTriggers))
    for name := range categoryTriggers {
        order = append(order, name)
    }
    sort.Strings(order)

    return &Processor{
        defaultCategory:    defaultCategory,
        trustedSources:     nlp.TrustedSources,
        priorityCategories: priority,
        categoryOrder:      order,
        positivePatterns:   compileWordPatterns(positiveWords),
        negativePatterns:   compileWordPatterns(negativeWords),
    }
}

func compileWordPatterns(words []string) []*regexp.Regexp {
    patterns := make([]*regexp.Regexp, 0, len(words))
    for _, w := range words {
        patterns = append(patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(w)+`\b`))
    }
    return patterns
}

// Process runs the full heuristic pipeline over one raw item. The input
// is never mutated; re-processing yields a fresh ProcessedItem.
func (p *Processor) Process(item RawItem) (ProcessedItem, error) {
    if strings.TrimSpace(item.Title) == "" {
        return ProcessedItem{}, NewProcessorError(ErrProcessEmpty, "item has no title", nil)
    }

    keywords := p.ExtractKeywords(item.Title + " " + item.Content)
    category := p.DetectCategory(item.Title, item.Content, keywords)
    sentiment := p.AnalyzeSentiment(item.Title, item.Content)
    score := p.RelevanceScore(item, category)

    return ProcessedItem{
        RawItem:        item,
        Category:       category,
        RelevanceScore: score,
        Sentiment:      sentiment,
        Keywords:       keywords,
    }, nil
}

// ProcessAll processes a batch, skipping items that fail. A bad item is
// logged and excluded; it never aborts the batch.
func (p *Processor) ProcessAll(items []RawItem) []ProcessedItem {
    processed := make([]ProcessedItem, 0, len(items))
    for _, item := range items {
        pi, err := p.Process(item)
        if err != nil {
            GetLogger().Warning("Skipping item %q from %s: %v", item.Title, item.Source, err)
            continue
        }
        processed = append(processed, pi)
    }
    return processed
}

// ExtractKeywords returns up to MaxKeywords keywords ordered by descending
// frequency; ties keep first-seen order. Stop words and tokens shorter
// than MinTokenLength are dropped.
func (p *Processor) ExtractKeywords(text string) []string {
    tokens := tokenize(text)

    type wordCount struct {
        word  string
        count int
        seen  int
    }

    counts := make(map[string]*wordCount)
    ordered := make([]*wordCount, 0)

    for _, tok := range tokens {
        if len([]rune(tok)) < MinTokenLength {
            continue
        }
        if _, stop := stopWords[tok]; stop {
            continue
        }
        if wc, ok := counts[tok]; ok {
            wc.count++
            continue
        }
        wc := &wordCount{word: tok, count: 1, seen: len(ordered)}
        counts[tok] = wc
        ordered = append(ordered, wc)
    }

    sort.SliceStable(ordered, func(i, j int) bool {
        if ordered[i].count != ordered[j].count {
            return ordered[i].count > ordered[j].count
        }
        return ordered[i].seen < ordered[j].seen
    })

    limit := MaxKeywords
    if len(ordered) < limit {
        limit = len(ordered)
    }

    keywords := make([]string, 0, limit)
    for _, wc := range ordered[:limit] {
        keywords = append(keywords, wc.word)
    }
    return keywords
}

// tokenize lowercases the text, strips everything that is not a letter or
// digit and splits on whitespace.
func tokenize(text string) []string {
    lowered := strings.ToLower(text)
    cleaned := strings.Map(func(r rune) rune {
        if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
            return r
        }
        return -1
    }, lowered)
    return strings.Fields(cleaned)
}

// DetectCategory scores every category by its trigger keywords over
// title+content+keywords; title hits count double. The strictly highest
// score wins, a full zero-score tie falls back to the default category.
func (p *Processor) DetectCategory(title, content string, keywords []string) string {
    loweredTitle := strings.ToLower(title)
    combined := loweredTitle + " " + strings.ToLower(content) + " " + strings.Join(keywords, " ")

    bestCategory := p.defaultCategory
    bestScore := 0

    for _, name := range p.categoryOrder {
        score := 0
        for _, trigger := range categoryTriggers[name] {
            if strings.Contains(combined, trigger) {
                score++
                if strings.Contains(loweredTitle, trigger) {
                    score += 2
                }
            }
        }
        if score > bestScore {
            bestScore = score
            bestCategory = name
        }
    }

    return bestCategory
}

// AnalyzeSentiment classifies the text as positive, negative or neutral
// using word-boundary lexicon matches. Title matches count double and the
// winning polarity must clear the margin threshold.
func (p *Processor) AnalyzeSentiment(title, content string) string {
    loweredTitle := strings.ToLower(title)
    combined := loweredTitle + " " + strings.ToLower(content)

    positiveCount := countMatches(p.positivePatterns, combined) + countMatches(p.positivePatterns, loweredTitle)
    negativeCount := countMatches(p.negativePatterns, combined) + countMatches(p.negativePatterns, loweredTitle)

    switch {
    case positiveCount > negativeCount+SentimentMargin:
        return SentimentPositive
    case negativeCount > positiveCount+SentimentMargin:
        return SentimentNegative
    default:
        return SentimentNeutral
    }
}

func countMatches(patterns []*regexp.Regexp, text string) int {
    total := 0
    for _, re := range patterns {
        total += len(re.FindAllStringIndex(text, -1))
    }
    return total
}

// RelevanceScore computes the 0-100 priority score: base 50, recency
// bonus/penalty, trusted-source bonus, priority-category bonus.
func (p *Processor) RelevanceScore(item RawItem, category string) int {
    score := 50

    hoursAgo := time.Since(item.PublishedAt).Hours()
    switch {
    case hoursAgo < 6:
        score += 20
    case hoursAgo < 24:
        score += 10
    case hoursAgo > 72:
        score -= 10
    }

    if p.isTrustedSource(item) {
        score += 10
    }

    if _, ok := p.priorityCategories[category]; ok {
        score += 5
    }

    if score < 0 {
        score = 0
    }
    if score > 100 {
        score = 100
    }
    return score
}

// isTrustedSource checks the allow-list (case-insensitive substring
// match) and the source's configured trust score.
func (p *Processor) isTrustedSource(item RawItem) bool {
    if item.TrustScore >= DefaultTrustedScoreCutoff {
        return true
    }
    lowered := strings.ToLower(item.Source)
    for _, trusted := range p.trustedSources {
        if strings.Contains(lowered, strings.ToLower(trusted)) {
            return true
        }
    }
    return false
}
