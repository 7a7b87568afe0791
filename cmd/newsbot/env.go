// cmd/newsbot/env.go
package main

import (
    "os"
    "strconv"
)

// GetEnvString gets a string from environment variables with a default value
func GetEnvString(key, defaultValue string) string {
    if value, exists := os.LookupEnv(key); exists {
        return value
    }
    return defaultValue
}

// GetEnvInt gets an integer from environment variables with a default value
func GetEnvInt(key string, defaultValue int) int {
    if value, exists := os.LookupEnv(key); exists {
        if intValue, err := strconv.Atoi(value); err == nil {
            return intValue
        }
    }
    return defaultValue
}

// GetEnvBool gets a boolean from environment variables with a default value
func GetEnvBool(key string, defaultValue bool) bool {
    if value, exists := os.LookupEnv(key); exists {
        if boolValue, err := strconv.ParseBool(value); err == nil {
            return boolValue
        }
    }
    return defaultValue
}

// applyEnvOverrides layers environment settings over the loaded config.
// API keys only ever come from the environment, never from the YAML file.
func applyEnvOverrides(cfg *AutomationConfig) {
    cfg.OpenAIAPIKey = GetEnvString(EnvOpenAIAPIKey, "")
    cfg.UnsplashKey = GetEnvString(EnvUnsplashKey, "")
    cfg.AdminPort = GetEnvInt(EnvAdminPort, cfg.AdminPort)
    cfg.FetchOnStartup = GetEnvBool(EnvFetchOnStartup, cfg.FetchOnStartup)
    if footer, exists := os.LookupEnv(EnvReferralFooter); exists {
        cfg.Publishing.ReferralFooter = footer
    }
}
