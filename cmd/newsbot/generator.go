// cmd/newsbot/generator.go
package main

import (
    "context"
    "fmt"
    "sort"
    "strings"
)

// ContentGenerator synthesizes publishable articles from processed items.
type ContentGenerator struct {
    images ImageResolver
    author string
}

// NewContentGenerator creates a generator that resolves images through
// the given resolver.
func NewContentGenerator(images ImageResolver) *ContentGenerator {
    return &ContentGenerator{
        images: images,
        author: DefaultAuthor,
    }
}

// Generate synthesizes one article from the given items: a single-item
// article for one input, a roundup for several. At least one item is
// required.
func (g *ContentGenerator) Generate(ctx context.Context, items []ProcessedItem) (GeneratedArticle, error) {
    if len(items) == 0 {
        return GeneratedArticle{}, NewGeneratorError(ErrGenerateNoItems, "cannot generate an article from zero items", nil)
    }

    // Highest relevance first; stable so equal scores keep input order.
    sorted := make([]ProcessedItem, len(items))
    copy(sorted, items)
    sort.SliceStable(sorted, func(i, j int) bool {
        return sorted[i].RelevanceScore > sorted[j].RelevanceScore
    })

    if len(sorted) == 1 {
        return g.generateSingle(ctx, sorted[0]), nil
    }
    return g.generateRoundup(ctx, sorted), nil
}

// generateSingle wraps one item with an excerpt and an analysis section.
func (g *ContentGenerator) generateSingle(ctx context.Context, item ProcessedItem) GeneratedArticle {
    title := truncateTitle(item.Title, TitleMaxLen)
    excerpt := makeExcerpt(item.Content)

    var body strings.Builder
    body.WriteString(fmt.Sprintf("<p>%s</p>\n\n", excerpt))
    body.WriteString(fmt.Sprintf("<p>%s</p>\n\n", item.Content))
    body.WriteString("<h2>Phân tích</h2>\n")
    body.WriteString(fmt.Sprintf(
        "<p>Những thông tin từ %s cho thấy tín hiệu %s về chủ đề này. Các từ khóa chính bao gồm %s.</p>\n\n",
        item.Source, sentimentText(sentimentValue(item.Sentiment)), strings.Join(item.Keywords, ", ")))
    body.WriteString("<p>Thị trường tiền điện tử tiếp tục phát triển và thay đổi nhanh chóng. " +
        "Các nhà đầu tư nên luôn cập nhật thông tin mới nhất và thực hiện nghiên cứu kỹ lưỡng " +
        "trước khi đưa ra quyết định đầu tư.</p>")

    refs := []ProcessedItem{item}
    return GeneratedArticle{
        Title:      title,
        Excerpt:    excerpt,
        Content:    body.String(),
        Category:   item.Category,
        Author:     g.author,
        ImageURL:   g.images.GetImageForArticle(ctx, title, item.Keywords, refs),
        SourceURLs: []string{item.URL},
    }
}

// generateRoundup renders the primary item in full, up to
// MaxSecondaryItems attributed sub-sections, and a closing synthesis
// paragraph derived from the batch's average sentiment.
func (g *ContentGenerator) generateRoundup(ctx context.Context, items []ProcessedItem) GeneratedArticle {
    primary := items[0]
    category := dominantCategory(items)

    title := fmt.Sprintf("%s: %s", categoryTitle(category), truncateTitle(primary.Title, RoundupTitleMaxLen))
    excerpt := makeExcerpt(primary.Content)

    secondaries := items[1:]
    if len(secondaries) > MaxSecondaryItems {
        secondaries = secondaries[:MaxSecondaryItems]
    }

    var body strings.Builder
    body.WriteString(fmt.Sprintf("<p>%s</p>\n\n", excerpt))
    body.WriteString(fmt.Sprintf("<h2>%s</h2>\n", primary.Title))
    body.WriteString(fmt.Sprintf("<p>%s</p>\n", primary.Content))
    body.WriteString(fmt.Sprintf("<p><em>Nguồn: <a href=%q>%s</a></em></p>\n\n", primary.URL, primary.Source))

    if len(secondaries) > 0 {
        body.WriteString(fmt.Sprintf("<h2>Tin tức khác về %s</h2>\n", category))
        for _, item := range secondaries {
            body.WriteString(fmt.Sprintf("<h3>%s</h3>\n", item.Title))
            body.WriteString(fmt.Sprintf("<p>%s</p>\n", makeExcerpt(item.Content)))
            body.WriteString(fmt.Sprintf("<p><em>Nguồn: <a href=%q>%s</a></em></p>\n\n", item.URL, item.Source))
        }
    }

    avg := averageSentiment(items)
    body.WriteString("<h2>Nhận định</h2>\n")
    body.WriteString(fmt.Sprintf(
        "<p>Thị trường %s đang thể hiện xu hướng %s. Các nhà đầu tư nên tiếp tục theo dõi "+
            "diễn biến và cập nhật thông tin mới nhất về lĩnh vực này.</p>",
        strings.ToLower(category), sentimentText(avg)))

    sourceURLs := make([]string, 0, 1+len(secondaries))
    sourceURLs = append(sourceURLs, primary.URL)
    for _, item := range secondaries {
        sourceURLs = append(sourceURLs, item.URL)
    }

    refs := append([]ProcessedItem{primary}, secondaries...)
    return GeneratedArticle{
        Title:      title,
        Excerpt:    excerpt,
        Content:    body.String(),
        Category:   category,
        Author:     g.author,
        ImageURL:   g.images.GetImageForArticle(ctx, title, primary.Keywords, refs),
        SourceURLs: sourceURLs,
    }
}

// truncateTitle caps a title, appending an ellipsis on the cut.
func truncateTitle(title string, maxLen int) string {
    runes := []rune(title)
    if len(runes) <= maxLen {
        return title
    }
    return string(runes[:maxLen-3]) + "..."
}

// makeExcerpt cuts the content at ExcerptMaxLen, preferring the last
// sentence boundary past the midpoint and falling back to a hard cut.
func makeExcerpt(content string) string {
    runes := []rune(content)
    if len(runes) <= ExcerptMaxLen {
        return strings.TrimSpace(content)
    }

    truncated := runes[:ExcerptMaxLen]
    lastPeriod := -1
    for i, r := range truncated {
        if r == '.' {
            lastPeriod = i
        }
    }
    // Rune position, so multi-byte text measures the same as ASCII
    if lastPeriod > ExcerptMaxLen/2 {
        return strings.TrimSpace(string(truncated[:lastPeriod+1]))
    }
    return strings.TrimSpace(string(truncated)) + "..."
}

// dominantCategory returns the majority category of a batch, preferring
// the primary item's category on ties.
func dominantCategory(items []ProcessedItem) string {
    counts := make(map[string]int, len(items))
    for _, item := range items {
        counts[item.Category]++
    }

    best := items[0].Category
    bestCount := counts[best]
    for _, item := range items {
        if counts[item.Category] > bestCount {
            best = item.Category
            bestCount = counts[item.Category]
        }
    }
    return best
}

// categoryTitle maps a category to its roundup headline prefix.
func categoryTitle(category string) string {
    titles := map[string]string{
        CategoryBitcoin:    "Tin mới nhất về Bitcoin",
        CategoryEthereum:   "Cập nhật Ethereum",
        CategoryDeFi:       "Xu hướng DeFi",
        CategoryNFT:        "Thế giới NFT",
        CategoryRegulation: "Quy định mới",
        CategoryGeneral:    "Tin tức tiền điện tử",
    }
    if title, ok := titles[category]; ok {
        return title
    }
    return "Tin tức " + category
}

// sentimentValue maps a sentiment label onto [-1, 1].
func sentimentValue(sentiment string) float64 {
    switch sentiment {
    case SentimentPositive:
        return 1
    case SentimentNegative:
        return -1
    default:
        return 0
    }
}

// averageSentiment averages the batch's sentiment labels.
func averageSentiment(items []ProcessedItem) float64 {
    if len(items) == 0 {
        return 0
    }
    var sum float64
    for _, item := range items {
        sum += sentimentValue(item.Sentiment)
    }
    return sum / float64(len(items))
}

// sentimentText turns an average sentiment into the wording used by the
// synthesis paragraphs.
func sentimentText(sentiment float64) string {
    switch {
    case sentiment > 0.5:
        return "rất tích cực"
    case sentiment > 0.1:
        return "tích cực"
    case sentiment > -0.1:
        return "trung lập"
    case sentiment > -0.5:
        return "tiêu cực"
    default:
        return "rất tiêu cực"
    }
}
