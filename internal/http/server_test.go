package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/tmeta22/MetaHouse/internal/bridge"
	"github.com/tmeta22/MetaHouse/internal/core"
	"github.com/tmeta22/MetaHouse/internal/export"
	expmem "github.com/tmeta22/MetaHouse/internal/export/memory"
	"github.com/tmeta22/MetaHouse/internal/gateway"
	"github.com/tmeta22/MetaHouse/internal/log"
	"github.com/tmeta22/MetaHouse/internal/notify"
	pushmem "github.com/tmeta22/MetaHouse/internal/platform/memory"
	"github.com/tmeta22/MetaHouse/internal/storage"
	"github.com/tmeta22/MetaHouse/internal/store"
)

func testLogger() *log.Logger {
	return log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
}

// fakeRemote is an in-memory datastore covering the collections these tests
// touch: tasks, events and transactions.
type fakeRemote struct {
	tasks  []core.Task
	events []core.Event
	txs    []core.Transaction
	nextID int
}

func (f *fakeRemote) id() string {
	f.nextID++
	return string(rune('a' + f.nextID - 1))
}

func (f *fakeRemote) Bootstrap(context.Context) error { return nil }

func (f *fakeRemote) ListTasks(context.Context) ([]core.Task, error) {
	return append([]core.Task(nil), f.tasks...), nil
}

func (f *fakeRemote) CreateTask(_ context.Context, t core.Task) (core.Task, error) {
	t.ID = "task-" + f.id()
	f.tasks = append(f.tasks, t)
	return t, nil
}

func (f *fakeRemote) UpdateTask(_ context.Context, id string, p core.TaskPatch) (core.Task, error) {
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			if p.Completed != nil {
				f.tasks[i].Completed = *p.Completed
			}
			return f.tasks[i], nil
		}
	}
	return core.Task{}, errNotFound
}

func (f *fakeRemote) DeleteTask(_ context.Context, id string) error {
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return errNotFound
}

func (f *fakeRemote) ListEvents(context.Context) ([]core.Event, error) {
	return append([]core.Event(nil), f.events...), nil
}

func (f *fakeRemote) CreateEvent(_ context.Context, e core.Event) (core.Event, error) {
	e.ID = "event-" + f.id()
	f.events = append(f.events, e)
	return e, nil
}

func (f *fakeRemote) UpdateEvent(context.Context, string, core.EventPatch) (core.Event, error) {
	return core.Event{}, errNotFound
}

func (f *fakeRemote) DeleteEvent(context.Context, string) error { return errNotFound }

func (f *fakeRemote) ListSubscriptions(context.Context) ([]core.Subscription, error) {
	return nil, nil
}
func (f *fakeRemote) CreateSubscription(_ context.Context, s core.Subscription) (core.Subscription, error) {
	return s, nil
}
func (f *fakeRemote) UpdateSubscription(context.Context, string, core.SubscriptionPatch) (core.Subscription, error) {
	return core.Subscription{}, errNotFound
}
func (f *fakeRemote) DeleteSubscription(context.Context, string) error { return errNotFound }

func (f *fakeRemote) ListFamilyMembers(context.Context) ([]core.FamilyMember, error) {
	return nil, nil
}
func (f *fakeRemote) CreateFamilyMember(_ context.Context, m core.FamilyMember) (core.FamilyMember, error) {
	return m, nil
}
func (f *fakeRemote) UpdateFamilyMember(context.Context, string, core.FamilyMemberPatch) (core.FamilyMember, error) {
	return core.FamilyMember{}, errNotFound
}
func (f *fakeRemote) DeleteFamilyMember(context.Context, string) error { return errNotFound }

func (f *fakeRemote) ListTransactions(context.Context) ([]core.Transaction, error) {
	return append([]core.Transaction(nil), f.txs...), nil
}
func (f *fakeRemote) CreateTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	t.ID = "tx-" + f.id()
	f.txs = append(f.txs, t)
	return t, nil
}
func (f *fakeRemote) UpdateTransaction(context.Context, string, core.TransactionPatch) (core.Transaction, error) {
	return core.Transaction{}, errNotFound
}
func (f *fakeRemote) DeleteTransaction(context.Context, string) error { return errNotFound }

func (f *fakeRemote) CreateTrip(_ context.Context, t core.Trip) (core.Trip, error) {
	t.ID = "trip-" + f.id()
	return t, nil
}

func (f *fakeRemote) CreateParty(_ context.Context, p core.Party) (core.Party, error) {
	p.ID = "party-" + f.id()
	return p, nil
}

var errNotFound = &notFoundError{}

type notFoundError struct{}

func (*notFoundError) Error() string { return "not found" }

func newTestServer(t *testing.T, remote *fakeRemote) *httptest.Server {
	t.Helper()
	logger := testLogger()

	repo, err := storage.NewRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("storage: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	notifier := notify.NewEngine(context.Background(), repo, pushmem.New(), logger)
	st := store.New(remote, logger)
	gw := gateway.New(remote, st, repo, notifier, logger)
	if err := gw.Init(context.Background()); err != nil {
		t.Fatalf("gateway init: %v", err)
	}
	br := bridge.New(gw, logger)
	exporter := export.NewService(st, expmem.New(), logger)

	s := NewServer(":0", st, gw, notifier, br, exporter, logger)
	srv := httptest.NewServer(s.Handler)
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, out any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
}

func postJSON(t *testing.T, url string, in any) *http.Response {
	t.Helper()
	body, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(t, &fakeRemote{})

	var got map[string]any
	getJSON(t, srv.URL+"/healthz", &got)
	if got["status"] != "ok" {
		t.Errorf("unexpected health payload: %v", got)
	}
	if got["state"] != "ready" {
		t.Errorf("expected ready store, got %v", got["state"])
	}
}

func TestServer_TaskLifecycle(t *testing.T) {
	srv := newTestServer(t, &fakeRemote{})

	resp := postJSON(t, srv.URL+"/api/tasks", core.Task{
		Title:    "Dishes",
		Assignee: "Sam",
		DueDate:  core.NewDate(2026, 9, 1),
		Priority: core.PriorityLow,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: status %d", resp.StatusCode)
	}

	var tasks []core.Task
	getJSON(t, srv.URL+"/api/tasks", &tasks)
	if len(tasks) != 1 || tasks[0].Title != "Dishes" {
		t.Fatalf("unexpected tasks: %+v", tasks)
	}
	id := tasks[0].ID

	// Complete it.
	body, _ := json.Marshal(map[string]any{"id": id, "completed": true})
	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/api/tasks", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: status %d", resp.StatusCode)
	}

	getJSON(t, srv.URL+"/api/tasks", &tasks)
	if !tasks[0].Completed {
		t.Fatal("update not reflected in store")
	}

	// Delete it.
	req, _ = http.NewRequest(http.MethodDelete, srv.URL+"/api/tasks?id="+id, nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete: status %d", resp.StatusCode)
	}

	getJSON(t, srv.URL+"/api/tasks", &tasks)
	if len(tasks) != 0 {
		t.Fatalf("delete not reflected: %+v", tasks)
	}
}

func TestServer_InvalidTaskRejected(t *testing.T) {
	srv := newTestServer(t, &fakeRemote{})

	resp := postJSON(t, srv.URL+"/api/tasks", core.Task{Assignee: "Sam"})
	defer resp.Body.Close()
	if resp.StatusCode < 400 {
		t.Fatalf("invalid task accepted: status %d", resp.StatusCode)
	}
}

func TestServer_UpdateWithoutID(t *testing.T) {
	srv := newTestServer(t, &fakeRemote{})

	body := bytes.NewReader([]byte(`{"completed":true}`))
	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/api/tasks", body)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestServer_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, &fakeRemote{})

	req, _ := http.NewRequest(http.MethodPatch, srv.URL+"/api/tasks", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PATCH: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
}

func TestServer_Calendar(t *testing.T) {
	remote := &fakeRemote{
		events: []core.Event{
			{ID: "e1", Title: "Dinner", Date: core.NewDate(2026, 9, 10), Time: "19:00"},
			{ID: "e2", Title: "School run", Date: core.NewDate(2026, 9, 10), Time: "08:15"},
		},
		tasks: []core.Task{
			{ID: "t1", Title: "Dishes", DueDate: core.NewDate(2026, 9, 10)},
		},
	}
	srv := newTestServer(t, remote)

	var got struct {
		Date  string `json:"date"`
		Items []struct {
			Kind string         `json:"kind"`
			Time core.TimeOfDay `json:"time"`
		} `json:"items"`
	}
	getJSON(t, srv.URL+"/api/calendar?date=2026-09-10", &got)

	if got.Date != "2026-09-10" || len(got.Items) != 3 {
		t.Fatalf("unexpected payload: %+v", got)
	}
	kinds := []string{got.Items[0].Kind, got.Items[1].Kind, got.Items[2].Kind}
	if kinds[0] != "event" || kinds[1] != "event" || kinds[2] != "task" {
		t.Errorf("unexpected ordering: %v", kinds)
	}
	if got.Items[0].Time != "08:15" {
		t.Errorf("expected earliest event first, got %s", got.Items[0].Time)
	}

	resp, err := http.Get(srv.URL + "/api/calendar?date=bogus")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for bad date, got %d", resp.StatusCode)
	}
}

func TestServer_Finance(t *testing.T) {
	remote := &fakeRemote{
		txs: []core.Transaction{
			{Type: core.TypeIncome, Amount: core.Money{Cents: 10000}, Date: core.NewDate(2026, 8, 1)},
			{Type: core.TypeExpense, Amount: core.Money{Cents: 5000}, Date: core.NewDate(2026, 8, 2)},
		},
	}
	srv := newTestServer(t, remote)

	var got struct {
		Year        int `json:"year"`
		Month       int `json:"month"`
		MonthRollup struct {
			Income  float64 `json:"income"`
			Expense float64 `json:"expense"`
			Net     float64 `json:"net"`
		} `json:"month_rollup"`
	}
	getJSON(t, srv.URL+"/api/finance?year=2026&month=8", &got)

	if got.Year != 2026 || got.Month != 8 {
		t.Fatalf("unexpected period: %+v", got)
	}
	if got.MonthRollup.Income != 100.0 || got.MonthRollup.Expense != 50.0 || got.MonthRollup.Net != 50.0 {
		t.Fatalf("unexpected rollup: %+v", got.MonthRollup)
	}
}

func TestServer_TripProjectsCalendarEvents(t *testing.T) {
	srv := newTestServer(t, &fakeRemote{})

	resp := postJSON(t, srv.URL+"/api/trips", core.Trip{
		Title:     "Beach week",
		StartDate: core.NewDate(2026, 7, 1),
		EndDate:   core.NewDate(2026, 7, 8),
		Status:    core.PlanningConfirmed,
		Organizer: "Alex",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create trip: status %d", resp.StatusCode)
	}
	var created core.Trip
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode trip: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected server-assigned trip id")
	}

	var events []core.Event
	getJSON(t, srv.URL+"/api/events", &events)
	if len(events) != 2 {
		t.Fatalf("expected 2 projected events, got %+v", events)
	}
	if events[0].Title != "🧳 Trip Start: Beach week" {
		t.Errorf("unexpected start event %q", events[0].Title)
	}
	if events[1].Title != "🏠 Trip End: Beach week" {
		t.Errorf("unexpected end event %q", events[1].Title)
	}
}

func TestServer_NotificationFlow(t *testing.T) {
	srv := newTestServer(t, &fakeRemote{})

	// A successful mutation produces a notification.
	resp := postJSON(t, srv.URL+"/api/tasks", core.Task{
		Title:    "Dishes",
		Assignee: "Sam",
		DueDate:  core.NewDate(2026, 9, 1),
		Priority: core.PriorityLow,
	})
	resp.Body.Close()

	var list struct {
		Notifications []notify.Notification `json:"notifications"`
		UnreadCount   int                   `json:"unreadCount"`
	}
	getJSON(t, srv.URL+"/api/notifications", &list)
	if len(list.Notifications) == 0 || list.UnreadCount == 0 {
		t.Fatalf("expected mutation notification, got %+v", list)
	}

	resp = postJSON(t, srv.URL+"/api/notifications/read-all", struct{}{})
	resp.Body.Close()
	getJSON(t, srv.URL+"/api/notifications", &list)
	if list.UnreadCount != 0 {
		t.Fatalf("expected 0 unread after read-all, got %d", list.UnreadCount)
	}

	resp = postJSON(t, srv.URL+"/api/notifications/clear", struct{}{})
	resp.Body.Close()
	getJSON(t, srv.URL+"/api/notifications", &list)
	if len(list.Notifications) != 0 {
		t.Fatalf("expected empty log after clear, got %+v", list.Notifications)
	}
}

func TestServer_NotificationSettings(t *testing.T) {
	srv := newTestServer(t, &fakeRemote{})

	var settings notify.Settings
	getJSON(t, srv.URL+"/api/notifications/settings", &settings)
	if settings.QuietHoursStart != "22:00" {
		t.Fatalf("unexpected defaults: %+v", settings)
	}

	settings.QuietHoursStart = "21:00"
	body, _ := json.Marshal(settings)
	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/api/notifications/settings", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT settings: %v", err)
	}
	resp.Body.Close()

	getJSON(t, srv.URL+"/api/notifications/settings", &settings)
	if settings.QuietHoursStart != "21:00" {
		t.Fatalf("settings not applied: %+v", settings)
	}
}

func TestServer_PushSubscribe(t *testing.T) {
	srv := newTestServer(t, &fakeRemote{})

	resp := postJSON(t, srv.URL+"/api/notifications/push/subscribe", struct{}{})
	defer resp.Body.Close()

	var got map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["subscribed"] != true {
		t.Fatalf("expected subscription success, got %v", got)
	}
}

func TestServer_Export(t *testing.T) {
	remote := &fakeRemote{
		txs: []core.Transaction{
			{Type: core.TypeIncome, Amount: core.Money{Cents: 10000}, Date: core.NewDate(2026, 8, 1)},
		},
	}
	srv := newTestServer(t, remote)

	resp := postJSON(t, srv.URL+"/api/export?year=2026&month=8", struct{}{})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("export: status %d", resp.StatusCode)
	}
	var got map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["ref"] != "mem:1" {
		t.Fatalf("unexpected ref %q", got["ref"])
	}
}
