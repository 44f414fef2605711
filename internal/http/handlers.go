package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tmeta22/MetaHouse/internal/core"
	"github.com/tmeta22/MetaHouse/internal/views"
)

// Entity resources follow the datastore's route shape: one path per kind,
// method-switched. Write failures surface as 502 so the UI can show a toast;
// the gateway has already logged them either way.

func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.store.Tasks())
	case http.MethodPost:
		var t core.Task
		if err := decodeBody(r, &t); err != nil {
			writeError(w, http.StatusBadRequest, "invalid task body")
			return
		}
		if err := s.gateway.AddTask(ctx, t); err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, map[string]bool{"success": true})
	case http.MethodPut:
		var body struct {
			ID string `json:"id"`
			core.TaskPatch
		}
		if err := decodeBody(r, &body); err != nil || body.ID == "" {
			writeError(w, http.StatusBadRequest, "invalid task update body")
			return
		}
		if err := s.gateway.UpdateTask(ctx, body.ID, body.TaskPatch); err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	case http.MethodDelete:
		id := r.URL.Query().Get("id")
		if id == "" {
			writeError(w, http.StatusBadRequest, "missing id")
			return
		}
		if err := s.gateway.DeleteTask(ctx, id); err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.store.Events())
	case http.MethodPost:
		var e core.Event
		if err := decodeBody(r, &e); err != nil {
			writeError(w, http.StatusBadRequest, "invalid event body")
			return
		}
		if err := s.gateway.AddEvent(ctx, e); err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, map[string]bool{"success": true})
	case http.MethodPut:
		var body struct {
			ID string `json:"id"`
			core.EventPatch
		}
		if err := decodeBody(r, &body); err != nil || body.ID == "" {
			writeError(w, http.StatusBadRequest, "invalid event update body")
			return
		}
		if err := s.gateway.UpdateEvent(ctx, body.ID, body.EventPatch); err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	case http.MethodDelete:
		id := r.URL.Query().Get("id")
		if id == "" {
			writeError(w, http.StatusBadRequest, "missing id")
			return
		}
		if err := s.gateway.DeleteEvent(ctx, id); err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleSubscriptions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.store.Subscriptions())
	case http.MethodPost:
		var sub core.Subscription
		if err := decodeBody(r, &sub); err != nil {
			writeError(w, http.StatusBadRequest, "invalid subscription body")
			return
		}
		if err := s.gateway.AddSubscription(ctx, sub); err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, map[string]bool{"success": true})
	case http.MethodPut:
		var body struct {
			ID string `json:"id"`
			core.SubscriptionPatch
		}
		if err := decodeBody(r, &body); err != nil || body.ID == "" {
			writeError(w, http.StatusBadRequest, "invalid subscription update body")
			return
		}
		if err := s.gateway.UpdateSubscription(ctx, body.ID, body.SubscriptionPatch); err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	case http.MethodDelete:
		id := r.URL.Query().Get("id")
		if id == "" {
			writeError(w, http.StatusBadRequest, "missing id")
			return
		}
		if err := s.gateway.DeleteSubscription(ctx, id); err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleFamilyMembers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.store.FamilyMembers())
	case http.MethodPost:
		var m core.FamilyMember
		if err := decodeBody(r, &m); err != nil {
			writeError(w, http.StatusBadRequest, "invalid family member body")
			return
		}
		if err := s.gateway.AddFamilyMember(ctx, m); err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, map[string]bool{"success": true})
	case http.MethodPut:
		var body struct {
			ID string `json:"id"`
			core.FamilyMemberPatch
		}
		if err := decodeBody(r, &body); err != nil || body.ID == "" {
			writeError(w, http.StatusBadRequest, "invalid family member update body")
			return
		}
		if err := s.gateway.UpdateFamilyMember(ctx, body.ID, body.FamilyMemberPatch); err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	case http.MethodDelete:
		id := r.URL.Query().Get("id")
		if id == "" {
			writeError(w, http.StatusBadRequest, "missing id")
			return
		}
		if err := s.gateway.DeleteFamilyMember(ctx, id); err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.store.Transactions())
	case http.MethodPost:
		var t core.Transaction
		if err := decodeBody(r, &t); err != nil {
			writeError(w, http.StatusBadRequest, "invalid transaction body")
			return
		}
		if err := s.gateway.AddTransaction(ctx, t); err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, map[string]bool{"success": true})
	case http.MethodPut:
		var body struct {
			ID string `json:"id"`
			core.TransactionPatch
		}
		if err := decodeBody(r, &body); err != nil || body.ID == "" {
			writeError(w, http.StatusBadRequest, "invalid transaction update body")
			return
		}
		if err := s.gateway.UpdateTransaction(ctx, body.ID, body.TransactionPatch); err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	case http.MethodDelete:
		id := r.URL.Query().Get("id")
		if id == "" {
			writeError(w, http.StatusBadRequest, "missing id")
			return
		}
		if err := s.gateway.DeleteTransaction(ctx, id); err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	date, err := core.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid or missing date (want YYYY-MM-DD)")
		return
	}
	snap := s.store.Snapshot()
	items := views.DayItems(snap.Events, snap.Tasks, date)
	writeJSON(w, http.StatusOK, map[string]any{
		"date":  date.String(),
		"items": items,
	})
}

func (s *Server) handleFinance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	year, month := parseYearMonth(r)
	txs := s.store.Transactions()
	writeJSON(w, http.StatusOK, map[string]any{
		"year":         year,
		"month":        int(month),
		"month_rollup": views.MonthRollup(txs, year, month),
		"total_rollup": views.Rollup(txs),
	})
}

func (s *Server) handleMemberActivity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	snap := s.store.Snapshot()
	writeJSON(w, http.StatusOK,
		views.Activity(snap.FamilyMembers, snap.Tasks, snap.Events, time.Now()))
}

func (s *Server) handleTrips(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var trip core.Trip
	if err := decodeBody(r, &trip); err != nil {
		writeError(w, http.StatusBadRequest, "invalid trip body")
		return
	}
	created, err := s.gateway.AddTrip(r.Context(), trip)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.bridge.TripAdded(r.Context(), created)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleParties(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var party core.Party
	if err := decodeBody(r, &party); err != nil {
		writeError(w, http.StatusBadRequest, "invalid party body")
		return
	}
	created, err := s.gateway.AddParty(r.Context(), party)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.bridge.PartyAdded(r.Context(), created)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.exporter == nil {
		writeError(w, http.StatusNotImplemented, "no export target configured")
		return
	}
	year, month := parseYearMonth(r)
	ref, err := s.exporter.ExportMonth(r.Context(), year, month)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"ref": ref})
}

// parseYearMonth extracts year and month from query parameters, defaulting
// to the current year and month.
func parseYearMonth(r *http.Request) (int, time.Month) {
	now := time.Now()
	year := now.Year()
	month := now.Month()

	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			year = y
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		if m, err := strconv.Atoi(v); err == nil && m >= 1 && m <= 12 {
			month = time.Month(m)
		}
	}
	return year, month
}
