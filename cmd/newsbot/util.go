// cmd/newsbot/util.go
package main

import (
    "encoding/json"
    "fmt"
    "net/http"
    "runtime"
    "strings"
    "time"
)

const (
    TimeFormatFull = "2006-01-02 15:04:05 MST"
)

// HTTP Response Helpers
func respondWithHTTPError(w http.ResponseWriter, code int, message string) {
    respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
    response, err := json.Marshal(payload)
    if err != nil {
        w.WriteHeader(http.StatusInternalServerError)
        w.Write([]byte(`{"error":"Failed to marshal JSON response"}`))
        return
    }

    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(code)
    w.Write(response)
}

// Recovery Helper
func RecoverFromPanic(component string) {
    if r := recover(); r != nil {
        stack := make([]byte, 4096)
        stack = stack[:runtime.Stack(stack, false)]

        GetLogger().Error("Panic in %s: %v\n%s", component, r, stack)
    }
}

// Time and Duration Formatting
func FormatDuration(d time.Duration) string {
    days := int(d.Hours() / 24)
    hours := int(d.Hours()) % 24
    minutes := int(d.Minutes()) % 60
    seconds := int(d.Seconds()) % 60

    parts := []string{}
    if days > 0 {
        parts = append(parts, fmt.Sprintf("%dd", days))
    }
    if hours > 0 {
        parts = append(parts, fmt.Sprintf("%dh", hours))
    }
    if minutes > 0 {
        parts = append(parts, fmt.Sprintf("%dm", minutes))
    }
    if seconds > 0 || len(parts) == 0 {
        parts = append(parts, fmt.Sprintf("%ds", seconds))
    }

    return strings.Join(parts, " ")
}
