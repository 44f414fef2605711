// Package remote implements the HTTP client for the household datastore API.
// Each entity kind is one REST resource: GET lists the collection, POST
// creates (body excludes id and timestamps, response carries them populated),
// PUT updates with {id, ...partialFields}, DELETE removes by id. A bootstrap
// endpoint creates and optionally seeds the backing tables.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tmeta22/MetaHouse/internal/core"
)

type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a datastore client for the given base URL. A nil httpClient
// falls back to a default with a 15 second timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: baseURL, http: httpClient}
}

// Bootstrap asks the datastore to create its tables and seed example data.
// Called once per local store on a fresh install, never in steady state.
func (c *Client) Bootstrap(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/init", nil, nil)
}

func (c *Client) ListTasks(ctx context.Context) ([]core.Task, error) {
	return list[core.Task](ctx, c, "/api/tasks")
}

func (c *Client) CreateTask(ctx context.Context, t core.Task) (core.Task, error) {
	return create(ctx, c, "/api/tasks", t)
}

func (c *Client) UpdateTask(ctx context.Context, id string, p core.TaskPatch) (core.Task, error) {
	return update[core.Task](ctx, c, "/api/tasks", id, p)
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.deleteByID(ctx, "/api/tasks", id)
}

func (c *Client) ListEvents(ctx context.Context) ([]core.Event, error) {
	return list[core.Event](ctx, c, "/api/events")
}

func (c *Client) CreateEvent(ctx context.Context, e core.Event) (core.Event, error) {
	return create(ctx, c, "/api/events", e)
}

func (c *Client) UpdateEvent(ctx context.Context, id string, p core.EventPatch) (core.Event, error) {
	return update[core.Event](ctx, c, "/api/events", id, p)
}

func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	return c.deleteByID(ctx, "/api/events", id)
}

func (c *Client) ListSubscriptions(ctx context.Context) ([]core.Subscription, error) {
	return list[core.Subscription](ctx, c, "/api/subscriptions")
}

func (c *Client) CreateSubscription(ctx context.Context, s core.Subscription) (core.Subscription, error) {
	return create(ctx, c, "/api/subscriptions", s)
}

func (c *Client) UpdateSubscription(ctx context.Context, id string, p core.SubscriptionPatch) (core.Subscription, error) {
	return update[core.Subscription](ctx, c, "/api/subscriptions", id, p)
}

func (c *Client) DeleteSubscription(ctx context.Context, id string) error {
	return c.deleteByID(ctx, "/api/subscriptions", id)
}

func (c *Client) ListFamilyMembers(ctx context.Context) ([]core.FamilyMember, error) {
	return list[core.FamilyMember](ctx, c, "/api/family-members")
}

func (c *Client) CreateFamilyMember(ctx context.Context, m core.FamilyMember) (core.FamilyMember, error) {
	return create(ctx, c, "/api/family-members", m)
}

func (c *Client) UpdateFamilyMember(ctx context.Context, id string, p core.FamilyMemberPatch) (core.FamilyMember, error) {
	return update[core.FamilyMember](ctx, c, "/api/family-members", id, p)
}

func (c *Client) DeleteFamilyMember(ctx context.Context, id string) error {
	return c.deleteByID(ctx, "/api/family-members", id)
}

func (c *Client) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	return list[core.Transaction](ctx, c, "/api/transactions")
}

func (c *Client) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	return create(ctx, c, "/api/transactions", t)
}

func (c *Client) UpdateTransaction(ctx context.Context, id string, p core.TransactionPatch) (core.Transaction, error) {
	return update[core.Transaction](ctx, c, "/api/transactions", id, p)
}

func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	return c.deleteByID(ctx, "/api/transactions", id)
}

func (c *Client) CreateTrip(ctx context.Context, t core.Trip) (core.Trip, error) {
	return create(ctx, c, "/api/trips", t)
}

func (c *Client) CreateParty(ctx context.Context, p core.Party) (core.Party, error) {
	return create(ctx, c, "/api/parties", p)
}

func list[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var out []T
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func create[T any](ctx context.Context, c *Client, path string, in T) (T, error) {
	var out T
	if err := c.do(ctx, http.MethodPost, path, in, &out); err != nil {
		return out, err
	}
	return out, nil
}

func update[T, P any](ctx context.Context, c *Client, path, id string, patch P) (T, error) {
	var out T
	merged, err := mergeJSON(id, patch)
	if err != nil {
		return out, fmt.Errorf("encode update body: %w", err)
	}
	if err := c.do(ctx, http.MethodPut, path, json.RawMessage(merged), &out); err != nil {
		return out, err
	}
	return out, nil
}

// mergeJSON builds the PUT body {"id": id, ...patchFields}.
func mergeJSON(id string, patch any) ([]byte, error) {
	raw, err := json.Marshal(patch)
	if err != nil {
		return nil, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	idRaw, err := json.Marshal(id)
	if err != nil {
		return nil, err
	}
	fields["id"] = idRaw
	return json.Marshal(fields)
}

func (c *Client) deleteByID(ctx context.Context, path, id string) error {
	return c.do(ctx, http.MethodDelete, path+"?id="+url.QueryEscape(id), nil, nil)
}

// do performs one request against the datastore. A non-2xx response is an
// error; the body is decoded into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("%s %s: unexpected status %d: %s", method, path, resp.StatusCode, snippet)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s %s response: %w", method, path, err)
		}
	}
	return nil
}
