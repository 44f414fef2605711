package http

import (
	"net/http"

	"github.com/tmeta22/MetaHouse/internal/notify"
)

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{
			"notifications": s.notifier.Notifications(),
			"unreadCount":   s.notifier.UnreadCount(),
		})
	case http.MethodDelete:
		id := r.URL.Query().Get("id")
		if id == "" {
			writeError(w, http.StatusBadRequest, "missing id")
			return
		}
		s.notifier.Remove(r.Context(), id)
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleNotificationRead(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var body struct {
		ID string `json:"id"`
	}
	if err := decodeBody(r, &body); err != nil || body.ID == "" {
		writeError(w, http.StatusBadRequest, "missing id")
		return
	}
	s.notifier.MarkRead(r.Context(), body.ID)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"unreadCount": s.notifier.UnreadCount(),
	})
}

func (s *Server) handleNotificationReadAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.notifier.MarkAllRead(r.Context())
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleNotificationClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.notifier.ClearAll(r.Context())
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleNotificationSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.notifier.Settings())
	case http.MethodPut:
		var settings notify.Settings
		if err := decodeBody(r, &settings); err != nil {
			writeError(w, http.StatusBadRequest, "invalid settings body")
			return
		}
		s.notifier.UpdateSettings(r.Context(), settings)
		writeJSON(w, http.StatusOK, s.notifier.Settings())
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handlePushSubscribe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	ok, reason := s.notifier.SubscribeToPush(r.Context())
	resp := map[string]any{"subscribed": ok}
	if !ok {
		resp["reason"] = reason
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePushUnsubscribe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if err := s.notifier.UnsubscribeFromPush(r.Context()); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
