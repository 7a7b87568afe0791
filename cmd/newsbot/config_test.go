// cmd/newsbot/config_test.go
package main

import (
    "os"
    "path/filepath"
    "testing"
    "time"
)

func TestParsePublishTime(t *testing.T) {
    tests := []struct {
        input   string
        hour    int
        minute  int
        wantErr bool
    }{
        {"08:00", 8, 0, false},
        {"23:59", 23, 59, false},
        {"0:5", 0, 5, false},
        {"", 0, 0, true},
        {"8am", 0, 0, true},
        {"24:00", 0, 0, true},
        {"12:60", 0, 0, true},
        {"-1:30", 0, 0, true},
    }

    for _, tt := range tests {
        hour, minute, err := parsePublishTime(tt.input)
        if tt.wantErr {
            if err == nil {
                t.Errorf("parsePublishTime(%q) expected an error", tt.input)
            }
            continue
        }
        if err != nil {
            t.Errorf("parsePublishTime(%q) failed: %v", tt.input, err)
            continue
        }
        if hour != tt.hour || minute != tt.minute {
            t.Errorf("parsePublishTime(%q) = %d:%d, want %d:%d", tt.input, hour, minute, tt.hour, tt.minute)
        }
    }
}

func TestValidateRejectsBadConfig(t *testing.T) {
    tests := []struct {
        name   string
        mutate func(*AutomationConfig)
    }{
        {"zero fetch interval", func(c *AutomationConfig) { c.Schedule.FetchIntervalMs = 0 }},
        {"bad publish time", func(c *AutomationConfig) { c.Schedule.PublishTime = "25:00" }},
        {"zero articles per day", func(c *AutomationConfig) { c.Publishing.ArticlesPerDay = 0 }},
        {"relevance out of range", func(c *AutomationConfig) { c.NLP.MinRelevanceScore = 150 }},
        {"source without url", func(c *AutomationConfig) {
            c.Crawling.Sources = []SourceConfig{{Name: "broken"}}
        }},
        {"source with unknown type", func(c *AutomationConfig) {
            c.Crawling.Sources = []SourceConfig{{Name: "x", URL: "https://example.com", Type: "gopher"}}
        }},
    }

    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            cfg := DefaultConfig()
            tt.mutate(cfg)
            if err := cfg.Validate(); err == nil {
                t.Fatal("expected a validation error")
            }
        })
    }
}

func TestDefaultConfigIsValid(t *testing.T) {
    if err := DefaultConfig().Validate(); err != nil {
        t.Fatalf("default config should validate: %v", err)
    }
}

func TestLoadConfigLayersYAMLOverDefaults(t *testing.T) {
    dir := t.TempDir()
    path := filepath.Join(dir, "sources.yml")

    yamlContent := `
schedule:
  publish_time: "21:30"
publishing:
  articles_per_day: 5
  referral_footer: "Tham gia cùng chúng tôi."
crawling:
  sources:
    - name: Test Feed
      url: https://example.com/rss
      type: rss
      trust_score: 6
`
    if err := os.WriteFile(path, []byte(yamlContent), 0644); err != nil {
        t.Fatal(err)
    }

    cfg, err := LoadConfig(path)
    if err != nil {
        t.Fatal(err)
    }

    if cfg.Schedule.PublishTime != "21:30" {
        t.Errorf("publish time = %q", cfg.Schedule.PublishTime)
    }
    if cfg.Publishing.ArticlesPerDay != 5 {
        t.Errorf("articles per day = %d", cfg.Publishing.ArticlesPerDay)
    }
    if cfg.Publishing.ReferralFooter != "Tham gia cùng chúng tôi." {
        t.Errorf("referral footer = %q", cfg.Publishing.ReferralFooter)
    }
    if len(cfg.Crawling.Sources) != 1 || cfg.Crawling.Sources[0].Name != "Test Feed" {
        t.Errorf("sources = %+v", cfg.Crawling.Sources)
    }
    // Untouched sections keep their defaults
    if cfg.NLP.MinRelevanceScore != DefaultMinRelevanceScore {
        t.Errorf("min relevance = %d", cfg.NLP.MinRelevanceScore)
    }
    if cfg.FetchInterval() != DefaultFetchInterval {
        t.Errorf("fetch interval = %s", cfg.FetchInterval())
    }
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
    cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yml"))
    if err != nil {
        t.Fatal(err)
    }
    if cfg.Publishing.ArticlesPerDay != DefaultArticlesPerDay {
        t.Fatalf("expected defaults, got %+v", cfg.Publishing)
    }
}

func TestLoadConfigEnvOverrides(t *testing.T) {
    t.Setenv(EnvAdminPort, "9999")
    t.Setenv(EnvReferralFooter, "Footer từ môi trường")

    cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
    if err != nil {
        t.Fatal(err)
    }
    if cfg.AdminPort != 9999 {
        t.Errorf("admin port = %d, want 9999", cfg.AdminPort)
    }
    if cfg.Publishing.ReferralFooter != "Footer từ môi trường" {
        t.Errorf("referral footer = %q", cfg.Publishing.ReferralFooter)
    }
}

func TestFetchTimeoutFallback(t *testing.T) {
    cfg := DefaultConfig()
    cfg.Crawling.FetchTimeoutSec = 0
    if got := cfg.FetchTimeout(); got != DefaultFetchTimeout {
        t.Fatalf("FetchTimeout() = %s, want %s", got, DefaultFetchTimeout)
    }
    cfg.Crawling.FetchTimeoutSec = 30
    if got := cfg.FetchTimeout(); got != 30*time.Second {
        t.Fatalf("FetchTimeout() = %s, want 30s", got)
    }
}
