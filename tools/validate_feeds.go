// tools/validate_feeds.go
//
// Standalone checker for the configured news sources: fetches every
// non-paused source from config/sources.yml and reports which ones are
// reachable and parseable. Run it before deploying a config change.

package main

import (
    "fmt"
    "io"
    "net/http"
    "os"
    "sync"
    "time"

    "github.com/mmcdole/gofeed"
    "gopkg.in/yaml.v2"
)

// Source mirrors the crawling source entries (simplified for validation)
type Source struct {
    Name   string `yaml:"name"`
    URL    string `yaml:"url"`
    Type   string `yaml:"type"`
    Paused bool   `yaml:"paused"`
}

type configFile struct {
    Crawling struct {
        Sources []Source `yaml:"sources"`
    } `yaml:"crawling"`
}

func main() {
    fmt.Println("News Source Validator")
    fmt.Println("=====================")

    path := "config/sources.yml"
    if len(os.Args) > 1 {
        path = os.Args[1]
    }

    data, err := os.ReadFile(path)
    if err != nil {
        fmt.Printf("Error reading config file: %v\n", err)
        os.Exit(1)
    }

    var cfg configFile
    if err := yaml.Unmarshal(data, &cfg); err != nil {
        fmt.Printf("Error parsing config file: %v\n", err)
        os.Exit(1)
    }

    sources := cfg.Crawling.Sources
    fmt.Printf("Found %d sources to validate\n\n", len(sources))

    client := &http.Client{
        Timeout: 10 * time.Second,
    }
    parser := gofeed.NewParser()

    type Result struct {
        Source  Source
        Valid   bool
        Message string
        Time    time.Duration
    }
    results := make(chan Result, len(sources))

    var wg sync.WaitGroup
    for _, src := range sources {
        wg.Add(1)
        go func(src Source) {
            defer wg.Done()

            if src.Paused {
                results <- Result{Source: src, Valid: true, Message: "SKIPPED (paused)"}
                return
            }

            start := time.Now()
            req, err := http.NewRequest("GET", src.URL, nil)
            if err != nil {
                results <- Result{Source: src, Message: fmt.Sprintf("Invalid URL: %v", err), Time: time.Since(start)}
                return
            }
            req.Header.Set("User-Agent", "newsbot-feed-validator/1.0")

            resp, err := client.Do(req)
            if err != nil {
                results <- Result{Source: src, Message: fmt.Sprintf("Request failed: %v", err), Time: time.Since(start)}
                return
            }
            defer resp.Body.Close()

            if resp.StatusCode != http.StatusOK {
                results <- Result{Source: src, Message: fmt.Sprintf("HTTP error: %s", resp.Status), Time: time.Since(start)}
                return
            }

            body, err := io.ReadAll(io.LimitReader(resp.Body, 10*1024*1024))
            if err != nil {
                results <- Result{Source: src, Message: fmt.Sprintf("Failed to read response: %v", err), Time: time.Since(start)}
                return
            }

            // HTML sources only need to be reachable; feeds must parse
            if src.Type != "html" {
                if _, err := parser.ParseString(string(body)); err != nil {
                    results <- Result{Source: src, Message: fmt.Sprintf("Feed does not parse: %v", err), Time: time.Since(start)}
                    return
                }
            }

            results <- Result{Source: src, Valid: true, Message: "OK", Time: time.Since(start)}
        }(src)
    }

    go func() {
        wg.Wait()
        close(results)
    }()

    var valid, invalid int
    invalidSources := make([]string, 0)

    for result := range results {
        switch {
        case result.Valid && result.Message == "OK":
            fmt.Printf("OK      %-30s [%5dms]\n", result.Source.Name, result.Time.Milliseconds())
            valid++
        case result.Valid:
            fmt.Printf("SKIP    %-30s %s\n", result.Source.Name, result.Message)
        default:
            fmt.Printf("FAIL    %-30s [%5dms] %s\n", result.Source.Name, result.Time.Milliseconds(), result.Message)
            invalid++
            invalidSources = append(invalidSources, result.Source.Name)
        }
    }

    fmt.Println("\nValidation Summary:")
    fmt.Printf("Valid sources:   %d\n", valid)
    fmt.Printf("Invalid sources: %d\n", invalid)

    if invalid > 0 {
        fmt.Println("\nInvalid sources:")
        for _, name := range invalidSources {
            fmt.Printf("- %s\n", name)
        }
        os.Exit(1)
    }
}
