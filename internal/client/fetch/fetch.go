// Package fetch reads the domain collections for the shell.
//
// Failures never reach the caller as errors. They come back in Result.Err, and the
// Fetcher's Policy decides whether the demo dataset stands in for the missing data.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/salescrm/internal/domain/activity"
	"github.com/geocoder89/salescrm/internal/domain/customer"
	"github.com/geocoder89/salescrm/internal/domain/opportunity"
	"github.com/geocoder89/salescrm/internal/mockdata"
)

const (
	PathCustomers     = "/customers"
	PathTasks         = "/sales-activities/tasks"
	PathMeetings      = "/sales-activities/meetings"
	PathOpportunities = "/opportunities"
)

type Source int

const (
	SourceNone Source = iota
	SourceRemote
	SourceFallback
)

func (s Source) String() string {
	switch s {
	case SourceRemote:
		return "remote"
	case SourceFallback:
		return "fallback"
	default:
		return "none"
	}
}

type FetchError struct {
	Path   string
	Status int // 0 when no response arrived
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("GET %s: status %d", e.Path, e.Status)
	}
	return fmt.Sprintf("GET %s: %v", e.Path, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

type Result[T any] struct {
	Items  []T
	Err    *FetchError
	Source Source
}

// Get issues one authorized GET and decodes a JSON array. There is no retry.
func Get[T any](ctx context.Context, client *http.Client, baseURL, path, token string) Result[T] {
	fail := func(status int, err error) Result[T] {
		return Result[T]{Err: &FetchError{Path: path, Status: status, Err: err}}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+path, nil)
	if err != nil {
		return fail(0, err)
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fail(0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fail(resp.StatusCode, fmt.Errorf("unexpected status %s", resp.Status))
	}

	var items []T
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return fail(0, fmt.Errorf("decode: %w", err))
	}

	return Result[T]{Items: items, Source: SourceRemote}
}

// Policy is the explicit fallback rule. DemoMode substitutes the fixed demo dataset on failure;
// otherwise a failed fetch yields no items.
type Policy struct {
	DemoMode bool
}

type Fetcher struct {
	baseURL string
	http    *http.Client
	policy  Policy
	log     *slog.Logger
}

func NewFetcher(baseURL string, httpClient *http.Client, policy Policy, log *slog.Logger) *Fetcher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Fetcher{baseURL: baseURL, http: httpClient, policy: policy, log: log}
}

func apply[T any](ctx context.Context, f *Fetcher, res Result[T], fallback func() []T) Result[T] {
	if res.Err == nil {
		return res
	}

	if f.policy.DemoMode {
		f.log.WarnContext(ctx, "fetch failed, using demo data", "path", res.Err.Path, "err", res.Err)
		res.Items = fallback()
		res.Source = SourceFallback
		return res
	}

	f.log.ErrorContext(ctx, "fetch failed", "path", res.Err.Path, "err", res.Err)
	res.Items = nil
	res.Source = SourceNone
	return res
}

func (f *Fetcher) Customers(ctx context.Context, token string) Result[customer.Customer] {
	res := Get[customer.Customer](ctx, f.http, f.baseURL, PathCustomers, token)
	return apply(ctx, f, res, mockdata.Customers)
}

func (f *Fetcher) Tasks(ctx context.Context, token string) Result[activity.Task] {
	res := Get[activity.Task](ctx, f.http, f.baseURL, PathTasks, token)
	return apply(ctx, f, res, mockdata.Tasks)
}

func (f *Fetcher) Meetings(ctx context.Context, token string) Result[activity.Meeting] {
	res := Get[activity.Meeting](ctx, f.http, f.baseURL, PathMeetings, token)
	return apply(ctx, f, res, mockdata.Meetings)
}

func (f *Fetcher) Opportunities(ctx context.Context, token string) Result[opportunity.Opportunity] {
	res := Get[opportunity.Opportunity](ctx, f.http, f.baseURL, PathOpportunities, token)
	return apply(ctx, f, res, mockdata.Opportunities)
}

// Client exposes the underlying HTTP client for one-off reads such as the audit log.
func (f *Fetcher) Client() *http.Client { return f.http }

func (f *Fetcher) BaseURL() string { return f.baseURL }
