// cmd/newsbot/config.go
package main

import (
    "fmt"
    "os"
    "strconv"
    "strings"
    "time"

    "gopkg.in/yaml.v2"
)

// ScheduleConfig controls the two automation timers.
type ScheduleConfig struct {
    FetchIntervalMs int    `yaml:"fetch_interval_ms"`
    PublishTime     string `yaml:"publish_time"` // "HH:MM" local time
}

// NLPConfig controls processing and filtering.
type NLPConfig struct {
    MinRelevanceScore int      `yaml:"min_relevance_score"` // 0-100
    MinContentLength  int      `yaml:"min_content_length"`
    TrustedSources    []string `yaml:"trusted_sources"`
    PriorityCategories []string `yaml:"priority_categories"`
}

// PublishingConfig controls the daily publish cycle.
type PublishingConfig struct {
    ArticlesPerDay  int    `yaml:"articles_per_day"`
    AutoPrioritize  bool   `yaml:"auto_prioritize"`
    DefaultCategory string `yaml:"default_category"`
    GroupByCategory bool   `yaml:"group_by_category"`
    ReferralFooter  string `yaml:"referral_footer"`
}

// CrawlingConfig controls the fetch side.
type CrawlingConfig struct {
    MaxItemsPerSource int            `yaml:"max_items_per_source"`
    FetchTimeoutSec   int            `yaml:"fetch_timeout_sec"`
    UserAgent         string         `yaml:"user_agent"`
    Sources           []SourceConfig `yaml:"sources"`
}

// AutomationConfig is the full configuration surface. Loaded once at
// startup; a restart is required to change it.
type AutomationConfig struct {
    Schedule   ScheduleConfig   `yaml:"schedule"`
    Crawling   CrawlingConfig   `yaml:"crawling"`
    NLP        NLPConfig        `yaml:"nlp"`
    Publishing PublishingConfig `yaml:"publishing"`

    AdminPort      int    `yaml:"admin_port"`
    OpenAIAPIKey   string `yaml:"-"`
    UnsplashKey    string `yaml:"-"`
    FetchOnStartup bool   `yaml:"fetch_on_startup"`
}

// DefaultConfig returns a runnable configuration with the stock sources.
func DefaultConfig() *AutomationConfig {
    return &AutomationConfig{
        Schedule: ScheduleConfig{
            FetchIntervalMs: int(DefaultFetchInterval / time.Millisecond),
            PublishTime:     DefaultPublishTime,
        },
        Crawling: CrawlingConfig{
            MaxItemsPerSource: DefaultMaxItemsPerSource,
            FetchTimeoutSec:   int(DefaultFetchTimeout / time.Second),
            UserAgent:         AppName + "/" + AppVersion,
            Sources: []SourceConfig{
                {Name: "CoinDesk", URL: "https://www.coindesk.com/arc/outboundfeeds/rss/", Type: SourceTypeRSS, TrustScore: 9},
                {Name: "CoinTelegraph", URL: "https://cointelegraph.com/rss", Type: SourceTypeRSS, TrustScore: 8},
                {Name: "CryptoSlate", URL: "https://cryptoslate.com/feed/", Type: SourceTypeRSS, TrustScore: 7},
            },
        },
        NLP: NLPConfig{
            MinRelevanceScore: DefaultMinRelevanceScore,
            MinContentLength:  DefaultMinContentLength,
            TrustedSources: []string{
                "CoinDesk", "Cointelegraph", "The Block", "Bloomberg", "Reuters",
                "Bitcoin Magazine", "Decrypt", "Binance", "CNBC", "Forbes",
            },
            PriorityCategories: []string{
                CategoryBitcoin, CategoryEthereum, CategoryTrading, CategoryRegulation,
            },
        },
        Publishing: PublishingConfig{
            ArticlesPerDay:  DefaultArticlesPerDay,
            AutoPrioritize:  true,
            DefaultCategory: CategoryGeneral,
        },
        AdminPort:      8080,
        FetchOnStartup: true,
    }
}

// LoadConfig builds the runtime configuration: defaults, then the YAML
// file if present, then environment overrides.
func LoadConfig(path string) (*AutomationConfig, error) {
    cfg := DefaultConfig()

    if path == "" {
        path = GetEnvString(EnvConfigPath, PathConfig)
    }

    data, err := os.ReadFile(path)
    switch {
    case err == nil:
        if err := yaml.Unmarshal(data, cfg); err != nil {
            return nil, NewConfigError(ErrConfigParse, fmt.Sprintf("cannot parse %s", path), err)
        }
    case os.IsNotExist(err):
        // Built-in defaults are a valid deployment
    default:
        return nil, NewConfigError(ErrConfigLoad, fmt.Sprintf("cannot read %s", path), err)
    }

    applyEnvOverrides(cfg)

    if err := cfg.Validate(); err != nil {
        return nil, err
    }
    return cfg, nil
}

// Validate rejects configurations the scheduler cannot run with.
func (c *AutomationConfig) Validate() error {
    if c.Schedule.FetchIntervalMs <= 0 {
        return NewConfigError(ErrConfigValidation, "fetch_interval_ms must be positive", nil)
    }
    if _, _, err := parsePublishTime(c.Schedule.PublishTime); err != nil {
        return err
    }
    if c.Publishing.ArticlesPerDay <= 0 {
        return NewConfigError(ErrConfigValidation, "articles_per_day must be positive", nil)
    }
    if c.NLP.MinRelevanceScore < 0 || c.NLP.MinRelevanceScore > 100 {
        return NewConfigError(ErrConfigValidation, "min_relevance_score must be within 0-100", nil)
    }
    for _, src := range c.Crawling.Sources {
        if src.Name == "" || src.URL == "" {
            return NewConfigError(ErrConfigValidation, "every source needs a name and url", nil)
        }
        switch src.Type {
        case SourceTypeRSS, SourceTypeHTML, "":
        default:
            return NewConfigError(ErrConfigValidation,
                fmt.Sprintf("source %s has unknown type %q", src.Name, src.Type), nil)
        }
    }
    return nil
}

// FetchInterval returns the fetch interval as a duration.
func (c *AutomationConfig) FetchInterval() time.Duration {
    return time.Duration(c.Schedule.FetchIntervalMs) * time.Millisecond
}

// FetchTimeout returns the per-source fetch timeout.
func (c *AutomationConfig) FetchTimeout() time.Duration {
    if c.Crawling.FetchTimeoutSec <= 0 {
        return DefaultFetchTimeout
    }
    return time.Duration(c.Crawling.FetchTimeoutSec) * time.Second
}

// parsePublishTime parses an "HH:MM" wall-clock time of day.
func parsePublishTime(s string) (hour, minute int, err error) {
    parts := strings.SplitN(s, ":", 2)
    if len(parts) != 2 {
        return 0, 0, NewConfigError(ErrConfigValidation,
            fmt.Sprintf("publish_time %q is not HH:MM", s), nil)
    }
    hour, err = strconv.Atoi(parts[0])
    if err != nil || hour < 0 || hour > 23 {
        return 0, 0, NewConfigError(ErrConfigValidation,
            fmt.Sprintf("publish_time %q has an invalid hour", s), nil)
    }
    minute, err = strconv.Atoi(parts[1])
    if err != nil || minute < 0 || minute > 59 {
        return 0, 0, NewConfigError(ErrConfigValidation,
            fmt.Sprintf("publish_time %q has an invalid minute", s), nil)
    }
    return hour, minute, nil
}
