// cmd/newsbot/server.go
package main

import (
    "context"
    "encoding/json"
    "fmt"
    "net/http"
    "strconv"
    "sync"
    "time"

    "github.com/gorilla/mux"
    "github.com/gorilla/websocket"
)

// AdminServer exposes the automation controls and article catalog over
// HTTP, plus a WebSocket feed of state snapshots after each cycle.
type AdminServer struct {
    scheduler *Scheduler
    store     ArticleStore
    state     *StateTracker
    srv       *http.Server

    wsMu      sync.Mutex
    wsClients map[*websocket.Conn]bool
}

var wsUpgrader = websocket.Upgrader{
    ReadBufferSize:  1024,
    WriteBufferSize: 1024,
    CheckOrigin: func(r *http.Request) bool {
        return true // Allow all connections in development
    },
}

// NewAdminServer builds the router and registers the cycle listener so
// connected clients see state changes as they happen.
func NewAdminServer(port int, scheduler *Scheduler, store ArticleStore, state *StateTracker) *AdminServer {
    s := &AdminServer{
        scheduler: scheduler,
        store:     store,
        state:     state,
        wsClients: make(map[*websocket.Conn]bool),
    }

    r := mux.NewRouter()
    api := r.PathPrefix("/api").Subrouter()
    api.HandleFunc("/automation/start", s.apiStart).Methods("POST")
    api.HandleFunc("/automation/stop", s.apiStop).Methods("POST")
    api.HandleFunc("/automation/fetch-now", s.apiFetchNow).Methods("POST")
    api.HandleFunc("/automation/status", s.apiStatus).Methods("GET")
    api.HandleFunc("/automation/ws", s.handleWebsocket)
    api.HandleFunc("/articles", s.apiGetArticles).Methods("GET")
    api.HandleFunc("/articles/featured", s.apiGetFeatured).Methods("GET")
    api.HandleFunc("/articles/{id:[0-9]+}", s.apiGetArticle).Methods("GET")
    r.HandleFunc("/health", s.handleHealthCheck).Methods("GET")

    s.srv = &http.Server{
        Addr:    fmt.Sprintf(":%d", port),
        Handler: r,
    }

    scheduler.SetCycleListener(s.broadcastState)
    return s
}

// Start begins serving in the background.
func (s *AdminServer) Start() {
    go func() {
        GetLogger().Info("Admin API listening on %s", s.srv.Addr)
        if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
            GetLogger().Error("Admin API server failed: %v", err)
        }
    }()
}

// Shutdown drains the server gracefully.
func (s *AdminServer) Shutdown(ctx context.Context) error {
    return s.srv.Shutdown(ctx)
}

func (s *AdminServer) apiStart(w http.ResponseWriter, r *http.Request) {
    if err := s.scheduler.Start(); err != nil {
        respondWithHTTPError(w, http.StatusInternalServerError, err.Error())
        return
    }
    respondWithJSON(w, http.StatusOK, map[string]interface{}{
        "message": "Automation started",
        "running": s.scheduler.IsRunning(),
    })
}

func (s *AdminServer) apiStop(w http.ResponseWriter, r *http.Request) {
    s.scheduler.Stop()
    respondWithJSON(w, http.StatusOK, map[string]interface{}{
        "message": "Automation stopped",
        "running": s.scheduler.IsRunning(),
    })
}

func (s *AdminServer) apiFetchNow(w http.ResponseWriter, r *http.Request) {
    go s.scheduler.RunManualFetchCycle()
    respondWithJSON(w, http.StatusOK, map[string]string{"message": "Fetch cycle triggered"})
}

func (s *AdminServer) apiStatus(w http.ResponseWriter, r *http.Request) {
    st := s.state.Snapshot()
    respondWithJSON(w, http.StatusOK, map[string]interface{}{
        "running":            s.scheduler.IsRunning(),
        "version":            st.Version,
        "uptime":             FormatDuration(time.Since(st.StartupTime)),
        "queue_length":       s.scheduler.Queue().Len(),
        "fetch_cycles":       st.FetchCycleCount,
        "publish_cycles":     st.PublishCycleCount,
        "articles_published": st.ArticlesPublished,
        "last_fetch":         st.LastFetchTime,
        "last_publish":       st.LastPublishTime,
        "next_publish":       st.NextPublishTime,
        "error_count":        st.ErrorCount,
        "last_error":         st.LastError,
    })
}

func (s *AdminServer) apiGetArticles(w http.ResponseWriter, r *http.Request) {
    limit := parseQueryInt(r, "limit", 20)
    offset := parseQueryInt(r, "offset", 0)

    if category := r.URL.Query().Get("category"); category != "" {
        respondWithJSON(w, http.StatusOK, paginate(s.store.GetArticlesByCategory(category), limit, offset))
        return
    }
    respondWithJSON(w, http.StatusOK, s.store.GetArticles(limit, offset))
}

func (s *AdminServer) apiGetFeatured(w http.ResponseWriter, r *http.Request) {
    respondWithJSON(w, http.StatusOK, paginate(s.store.GetFeaturedArticles(), parseQueryInt(r, "limit", 5), 0))
}

func (s *AdminServer) apiGetArticle(w http.ResponseWriter, r *http.Request) {
    id, err := strconv.Atoi(mux.Vars(r)["id"])
    if err != nil {
        respondWithHTTPError(w, http.StatusBadRequest, "Invalid article ID")
        return
    }

    article := s.store.GetArticleByID(id)
    if article == nil {
        respondWithHTTPError(w, http.StatusNotFound, "Article not found")
        return
    }

    if !s.store.IncrementArticleViews(id) {
        GetLogger().Warning("Failed to bump views for article %d", id)
    }
    respondWithJSON(w, http.StatusOK, article)
}

func (s *AdminServer) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
    st := s.state.Snapshot()
    status := "idle"
    if s.scheduler.IsRunning() {
        status = "running"
    }
    respondWithJSON(w, http.StatusOK, map[string]string{
        "status":  status,
        "version": st.Version,
        "uptime":  time.Since(st.StartupTime).String(),
    })
}

// handleWebsocket streams state snapshots to the client: one on connect
// and one after every cycle.
func (s *AdminServer) handleWebsocket(w http.ResponseWriter, r *http.Request) {
    conn, err := wsUpgrader.Upgrade(w, r, nil)
    if err != nil {
        GetLogger().Error("Error upgrading to websocket: %v", err)
        return
    }

    s.wsMu.Lock()
    s.wsClients[conn] = true
    s.wsMu.Unlock()

    defer func() {
        s.wsMu.Lock()
        delete(s.wsClients, conn)
        s.wsMu.Unlock()
        conn.Close()
    }()

    if err := s.writeStateMessage(conn, "init", s.state.Snapshot()); err != nil {
        GetLogger().Error("Error sending init data: %v", err)
        return
    }

    // Control frames are answered by the library; the read loop only
    // detects disconnection.
    for {
        if _, _, err := conn.ReadMessage(); err != nil {
            break
        }
    }
}

// broadcastState pushes a cycle snapshot to every connected client.
func (s *AdminServer) broadcastState(st State) {
    s.wsMu.Lock()
    defer s.wsMu.Unlock()

    for client := range s.wsClients {
        if err := s.writeStateMessage(client, "cycle", st); err != nil {
            GetLogger().Error("Error sending to websocket client: %v", err)
            client.Close()
            delete(s.wsClients, client)
        }
    }
}

func (s *AdminServer) writeStateMessage(conn *websocket.Conn, eventType string, st State) error {
    message, err := json.Marshal(map[string]interface{}{
        "type": eventType,
        "data": st,
        "time": time.Now().Format(time.RFC3339),
    })
    if err != nil {
        return err
    }
    return conn.WriteMessage(websocket.TextMessage, message)
}

func paginate(articles []*StoredArticle, limit, offset int) []*StoredArticle {
    if offset >= len(articles) {
        return nil
    }
    articles = articles[offset:]
    if limit > 0 && limit < len(articles) {
        articles = articles[:limit]
    }
    return articles
}

func parseQueryInt(r *http.Request, key string, fallback int) int {
    raw := r.URL.Query().Get(key)
    if raw == "" {
        return fallback
    }
    n, err := strconv.Atoi(raw)
    if err != nil || n < 0 {
        return fallback
    }
    return n
}
