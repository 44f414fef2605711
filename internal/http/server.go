// Package http exposes the assembled services over a local JSON API: entity
// CRUD through the gateway, derived views, the notification center, and the
// planning endpoints that feed the calendar bridge.
package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/tmeta22/MetaHouse/internal/bridge"
	"github.com/tmeta22/MetaHouse/internal/export"
	"github.com/tmeta22/MetaHouse/internal/gateway"
	"github.com/tmeta22/MetaHouse/internal/log"
	"github.com/tmeta22/MetaHouse/internal/notify"
	"github.com/tmeta22/MetaHouse/internal/store"
)

type Server struct {
	http.Server

	store    *store.Store
	gateway  *gateway.Gateway
	notifier *notify.Engine
	bridge   *bridge.Bridge
	exporter *export.Service // nil when no export target is configured
	logger   *log.Logger
	started  time.Time
}

func NewServer(addr string, st *store.Store, gw *gateway.Gateway, notifier *notify.Engine,
	br *bridge.Bridge, exporter *export.Service, logger *log.Logger) *Server {

	s := &Server{
		store:    st,
		gateway:  gw,
		notifier: notifier,
		bridge:   br,
		exporter: exporter,
		logger:   logger.WithComponent(log.ComponentHTTP),
		started:  time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)

	mux.HandleFunc("/api/tasks", s.handleTasks)
	mux.HandleFunc("/api/events", s.handleEvents)
	mux.HandleFunc("/api/subscriptions", s.handleSubscriptions)
	mux.HandleFunc("/api/family-members", s.handleFamilyMembers)
	mux.HandleFunc("/api/transactions", s.handleTransactions)

	mux.HandleFunc("/api/calendar", s.handleCalendar)
	mux.HandleFunc("/api/finance", s.handleFinance)
	mux.HandleFunc("/api/members/activity", s.handleMemberActivity)

	mux.HandleFunc("/api/notifications", s.handleNotifications)
	mux.HandleFunc("/api/notifications/read", s.handleNotificationRead)
	mux.HandleFunc("/api/notifications/read-all", s.handleNotificationReadAll)
	mux.HandleFunc("/api/notifications/clear", s.handleNotificationClear)
	mux.HandleFunc("/api/notifications/settings", s.handleNotificationSettings)
	mux.HandleFunc("/api/notifications/push/subscribe", s.handlePushSubscribe)
	mux.HandleFunc("/api/notifications/push/unsubscribe", s.handlePushUnsubscribe)

	mux.HandleFunc("/api/trips", s.handleTrips)
	mux.HandleFunc("/api/parties", s.handleParties)

	mux.HandleFunc("/api/export", s.handleExport)

	s.Server = http.Server{
		Addr:           addr,
		Handler:        s.logRequests(mux),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}

	return s
}

// logRequests records one line per request with method, path and duration.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.DebugContext(r.Context(), "Request handled",
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldDuration, time.Since(start).Milliseconds())
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"state":     s.store.State().String(),
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).String(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
