// cmd/newsbot/main.go
package main

import (
    "context"
    "fmt"
    "log"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/joho/godotenv"
)

func main() {
    defer RecoverFromPanic("main")

    fmt.Println(AppName + " v" + AppVersion + " starting up...")

    // .env is optional; real deployments set the environment directly
    if err := godotenv.Load(); err == nil {
        fmt.Println("Loaded environment from .env")
    }

    if err := InitLogger(PathLogs, parseLogLevel(GetEnvString(EnvLogLevel, "info"))); err != nil {
        log.Printf("Warning: file logging unavailable: %v", err)
    }

    cfg, err := LoadConfig("")
    if err != nil {
        GetLogger().Error("Failed to load config: %v", err)
        os.Exit(1)
    }

    state := NewStateTracker(PathState)

    crawler := NewCrawler(cfg.Crawling, cfg.FetchTimeout())
    processor := NewProcessor(cfg.NLP, cfg.Publishing.DefaultCategory)
    generator := NewContentGenerator(NewImageResolver(cfg))
    store := NewMemoryStore(cfg.Publishing.ReferralFooter)

    scheduler := NewScheduler(cfg, crawler, processor, generator, store, state)

    server := NewAdminServer(cfg.AdminPort, scheduler, store, state)
    server.Start()

    if cfg.FetchOnStartup {
        if err := scheduler.Start(); err != nil {
            GetLogger().Error("Failed to start automation: %v", err)
            os.Exit(1)
        }
    } else {
        GetLogger().Info("Automation idle, start it via POST /api/automation/start")
    }

    GetLogger().Info("%s is now running. Press CTRL-C to exit.", AppName)

    sc := make(chan os.Signal, 1)
    signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
    <-sc

    GetLogger().Info("Shutting down...")

    select {
    case <-scheduler.Stop():
    case <-time.After(30 * time.Second):
        GetLogger().Warning("Timed out waiting for in-flight cycles")
    }

    shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    if err := server.Shutdown(shutdownCtx); err != nil {
        GetLogger().Error("Admin API shutdown failed: %v", err)
    }
}
