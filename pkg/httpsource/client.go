// Package httpsource fetches collection data from the demo list API over
// HTTP. Its methods match the fetch, search, fetch-one and edit function
// types of a collection.
package httpsource

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/adfharrison1/go-listquery/pkg/api"
	"github.com/adfharrison1/go-listquery/pkg/domain"
	"github.com/adfharrison1/go-listquery/pkg/logging"
	"github.com/adfharrison1/go-listquery/pkg/querystring"
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// Client reads and edits one table of the demo API.
type Client[T domain.Entity] struct {
	baseURL    string
	table      string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     logrus.FieldLogger
}

type Option func(*options)

type options struct {
	httpClient *http.Client
	timeout    time.Duration
	breaker    *gobreaker.Settings
	logger     logrus.FieldLogger
}

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithTimeout bounds each request. It is ignored when WithHTTPClient is used.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithBreakerSettings replaces the circuit breaker settings.
func WithBreakerSettings(s gobreaker.Settings) Option {
	return func(o *options) {
		o.breaker = &s
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New creates a client for table served under baseURL.
func New[T domain.Entity](baseURL, table string, opts ...Option) *Client[T] {
	o := options{timeout: 10 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{Timeout: o.timeout}
	}
	if o.logger == nil {
		o.logger = logging.WithComponent("httpsource")
	}

	settings := defaultBreakerSettings(table)
	if o.breaker != nil {
		settings = *o.breaker
	}
	if settings.IsSuccessful == nil {
		settings.IsSuccessful = countsAsSuccess
	}
	logger := o.logger
	settings.OnStateChange = func(name string, from, to gobreaker.State) {
		logger.WithField("breaker", name).
			WithField("from", from.String()).
			WithField("to", to.String()).
			Warn("circuit breaker changed state")
	}

	return &Client[T]{
		baseURL:    strings.TrimRight(baseURL, "/"),
		table:      table,
		httpClient: o.httpClient,
		breaker:    gobreaker.NewCircuitBreaker(settings),
		logger:     o.logger,
	}
}

func defaultBreakerSettings(name string) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
	}
}

// countsAsSuccess keeps client errors from tripping the breaker; only
// transport failures and 5xx responses count against the server.
func countsAsSuccess(err error) bool {
	if err == nil {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode < http.StatusInternalServerError
	}
	return errors.Is(err, context.Canceled)
}

// Fetch lists one page. params are sent as the query string.
func (c *Client[T]) Fetch(ctx context.Context, params domain.Params) (*domain.FetchResult[T], error) {
	target := c.tableURL("")
	if qs := querystring.Encode(params); qs != "" {
		target += "?" + qs
	}

	var result domain.FetchResult[T]
	if err := c.do(ctx, http.MethodGet, target, nil, &result); err != nil {
		return nil, err
	}
	if result.Data == nil {
		result.Data = []T{}
	}
	return &result, nil
}

// searchRequest is the fixed part of a search query string
type searchRequest struct {
	Text string `url:"q"`
}

// Search runs a free text search narrowed by filters.
func (c *Client[T]) Search(ctx context.Context, text string, filters domain.Params) ([]T, error) {
	values, err := query.Values(searchRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to encode search: %w", err)
	}
	extra, err := url.ParseQuery(querystring.Encode(filters.Filters()))
	if err != nil {
		return nil, fmt.Errorf("failed to encode filters: %w", err)
	}
	for key, vals := range extra {
		if key == api.SearchParam {
			continue
		}
		values[key] = vals
	}

	var resp struct {
		Data []T `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, c.tableURL("/search")+"?"+values.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		resp.Data = []T{}
	}
	return resp.Data, nil
}

// FetchOne gets a single row. A 404 reports found as false without an error.
func (c *Client[T]) FetchOne(ctx context.Context, id domain.ID) (T, bool, error) {
	var item T
	err := c.do(ctx, http.MethodGet, c.documentURL(id), nil, &item)
	return notFoundAsMissing(item, err)
}

// Edit patches a row and returns the stored result. A 404 reports found
// as false without an error.
func (c *Client[T]) Edit(ctx context.Context, id domain.ID, updates domain.Updates) (T, bool, error) {
	var item T
	err := c.do(ctx, http.MethodPatch, c.documentURL(id), updates, &item)
	return notFoundAsMissing(item, err)
}

// Insert stores a new row and returns it with its generated id.
func (c *Client[T]) Insert(ctx context.Context, item T) (T, error) {
	var stored T
	err := c.do(ctx, http.MethodPost, c.tableURL(""), item, &stored)
	return stored, err
}

// Delete removes a row.
func (c *Client[T]) Delete(ctx context.Context, id domain.ID) error {
	return c.do(ctx, http.MethodDelete, c.documentURL(id), nil, nil)
}

func notFoundAsMissing[T any](item T, err error) (T, bool, error) {
	var zero T
	if err != nil {
		if IsNotFound(err) {
			return zero, false, nil
		}
		return zero, false, err
	}
	return item, true, nil
}

func (c *Client[T]) tableURL(suffix string) string {
	return c.baseURL + "/tables/" + url.PathEscape(c.table) + suffix
}

func (c *Client[T]) documentURL(id domain.ID) string {
	return c.tableURL("/documents/" + url.PathEscape(domain.KeyOf(id)))
}

// do sends one request through the circuit breaker and decodes a JSON
// response into out, when out is not nil.
func (c *Client[T]) do(ctx context.Context, method, target string, body, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}

	start := time.Now()
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.roundTrip(ctx, method, target, payload, out)
	})

	entry := c.logger.WithField("method", method).
		WithField("url", target).
		WithField("duration", time.Since(start))
	if err != nil {
		entry.WithError(err).Debug("request failed")
		return err
	}
	entry.Debug("request done")
	return nil
}

func (c *Client[T]) roundTrip(ctx context.Context, method, target string, payload []byte, out interface{}) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	se := &StatusError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	var body api.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Message != "" {
		se.Message = body.Message
	}
	return se
}
