// cmd/newsbot/constants.go
package main

import "time"

// Application constants
const (
    AppName    = "newsbot"
    AppVersion = "1.0.0"

    // Default author credited on generated articles
    DefaultAuthor = "AI News Bot"

    // Time-related defaults
    DefaultFetchInterval  = 1 * time.Hour
    DefaultFetchTimeout   = 10 * time.Second
    DefaultImageTimeout   = 15 * time.Second
    DefaultPublishTime    = "08:00"

    // Pipeline defaults
    DefaultMaxItemsPerSource  = 5
    DefaultMinRelevanceScore  = 60
    DefaultMinContentLength   = 300
    DefaultArticlesPerDay     = 3
    DefaultTrustedScoreCutoff = 8

    // NLP tuning
    MaxKeywords        = 10
    MinTokenLength     = 3
    SentimentMargin    = 3
    DedupJaccardWindow = 0.8

    // Generator limits
    TitleMaxLen        = 100
    RoundupTitleMaxLen = 70
    ExcerptMaxLen      = 160
    MaxSecondaryItems  = 3

    // Publish pacing (writes per second against the store)
    PublishRatePerSecond = 2
)

// Source types
const (
    SourceTypeRSS  = "rss"
    SourceTypeHTML = "html"
)

// Sentiment labels
const (
    SentimentPositive = "positive"
    SentimentNegative = "negative"
    SentimentNeutral  = "neutral"
)

// News categories
const (
    CategoryBitcoin    = "Bitcoin"
    CategoryEthereum   = "Ethereum"
    CategoryAltcoins   = "Altcoins"
    CategoryDeFi       = "DeFi"
    CategoryNFT        = "NFT"
    CategoryRegulation = "Quy Định"
    CategoryBlockchain = "Blockchain"
    CategoryTrading    = "Giao Dịch"
    CategoryGeneral    = "Tin Tức"
)

// Environment variables
const (
    EnvConfigPath      = "NEWSBOT_CONFIG"
    EnvLogLevel        = "NEWSBOT_LOG_LEVEL"
    EnvAdminPort       = "NEWSBOT_ADMIN_PORT"
    EnvOpenAIAPIKey    = "OPENAI_API_KEY"
    EnvUnsplashKey     = "UNSPLASH_ACCESS_KEY"
    EnvFetchOnStartup  = "NEWSBOT_FETCH_ON_STARTUP"
    EnvReferralFooter  = "NEWSBOT_REFERRAL_FOOTER"
)

// File paths
const (
    PathConfig = "config/sources.yml"
    PathState  = "data/state.json"
    PathLogs   = "logs/newsbot.log"
)
