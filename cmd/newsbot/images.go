// cmd/newsbot/images.go
package main

import (
    "context"
    "encoding/json"
    "fmt"
    "io"
    "net/http"
    "net/url"
    "strings"
    "time"

    openai "github.com/sashabaranov/go-openai"
)

// ImageResolver finds or creates an illustration for an article.
// Resolution is best-effort: "nothing found" is an empty URL, not an
// error, so a missing image never blocks publication.
type ImageResolver interface {
    GetImageForArticle(ctx context.Context, title string, keywords []string, refs []ProcessedItem) string
}

// imageResolver tries, in priority order: an image already attached to
// the primary item, AI generation, an image from any contributing source
// reference, and finally a stock photo search.
type imageResolver struct {
    ai          *openai.Client
    client      *http.Client
    unsplashKey string
    timeout     time.Duration
}

// NewImageResolver builds the resolution chain. Steps whose API keys are
// not configured are skipped.
func NewImageResolver(cfg *AutomationConfig) ImageResolver {
    r := &imageResolver{
        client:      &http.Client{Timeout: DefaultImageTimeout},
        unsplashKey: cfg.UnsplashKey,
        timeout:     DefaultImageTimeout,
    }
    if cfg.OpenAIAPIKey != "" {
        r.ai = openai.NewClient(cfg.OpenAIAPIKey)
    }
    return r
}

func (r *imageResolver) GetImageForArticle(ctx context.Context, title string, keywords []string, refs []ProcessedItem) string {
    // An image already attached to the primary item wins outright.
    if len(refs) > 0 && refs[0].ImageURL != "" {
        return refs[0].ImageURL
    }

    if r.ai != nil {
        if imageURL := r.generateImage(ctx, title); imageURL != "" {
            GetLogger().Info("Generated AI image for %q", title)
            return imageURL
        }
    }

    for _, ref := range refs {
        if ref.ImageURL != "" {
            return ref.ImageURL
        }
    }

    if r.unsplashKey != "" {
        query := title
        if len(keywords) > 0 {
            query = strings.Join(keywords[:min(3, len(keywords))], " ")
        }
        if imageURL := r.searchStockPhoto(ctx, query); imageURL != "" {
            return imageURL
        }
    }

    GetLogger().Debug("No image found for %q", title)
    return ""
}

// generateImage asks the image model for a header illustration.
func (r *imageResolver) generateImage(ctx context.Context, title string) string {
    ctx, cancel := context.WithTimeout(ctx, r.timeout)
    defer cancel()

    prompt := fmt.Sprintf(
        "Create a professional, journalistic image for a cryptocurrency article titled %q. "+
            "The image should be appropriate for a financial news website, with a clean, modern style.",
        title)

    resp, err := r.ai.CreateImage(ctx, openai.ImageRequest{
        Prompt:         prompt,
        N:              1,
        Size:           openai.CreateImageSize1024x1024,
        ResponseFormat: openai.CreateImageResponseFormatURL,
    })
    if err != nil {
        GetLogger().Warning("AI image generation failed for %q: %v", title, err)
        return ""
    }
    if len(resp.Data) == 0 {
        return ""
    }
    return resp.Data[0].URL
}

// unsplashResponse is the slice of the search API response we care about.
type unsplashResponse struct {
    Results []struct {
        Urls struct {
            Regular string `json:"regular"`
        } `json:"urls"`
    } `json:"results"`
}

// searchStockPhoto queries the Unsplash search API for a landscape photo.
func (r *imageResolver) searchStockPhoto(ctx context.Context, query string) string {
    ctx, cancel := context.WithTimeout(ctx, r.timeout)
    defer cancel()

    endpoint := fmt.Sprintf(
        "https://api.unsplash.com/search/photos?query=%s&page=1&per_page=1&orientation=landscape",
        url.QueryEscape(query))

    req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
    if err != nil {
        return ""
    }
    req.Header.Set("Authorization", "Client-ID "+r.unsplashKey)

    resp, err := r.client.Do(req)
    if err != nil {
        GetLogger().Warning("Stock photo search failed for %q: %v", query, err)
        return ""
    }
    defer resp.Body.Close()

    if resp.StatusCode != http.StatusOK {
        GetLogger().Warning("Stock photo search for %q returned HTTP %d", query, resp.StatusCode)
        return ""
    }

    body, err := io.ReadAll(io.LimitReader(resp.Body, 1024*1024))
    if err != nil {
        return ""
    }

    var parsed unsplashResponse
    if err := json.Unmarshal(body, &parsed); err != nil {
        return ""
    }
    if len(parsed.Results) == 0 {
        return ""
    }
    return parsed.Results[0].Urls.Regular
}

func min(a, b int) int {
    if a < b {
        return a
    }
    return b
}
