package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adfharrison1/go-listquery/pkg/api"
	"github.com/adfharrison1/go-listquery/pkg/config"
	"github.com/adfharrison1/go-listquery/pkg/domain"
	"github.com/adfharrison1/go-listquery/pkg/storage"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newBrowseAPI(t *testing.T, n int) *httptest.Server {
	t.Helper()
	engine := storage.NewStorageEngine(storage.WithLogger(quietLogger()))
	docs := make([]domain.Document, n)
	for i := range docs {
		color := "red"
		if i%2 == 1 {
			color = "blue"
		}
		docs[i] = domain.Document{
			"id":    fmt.Sprintf("p%d", i+1),
			"name":  fmt.Sprintf("product %02d", i+1),
			"price": float64(i+1) * 10,
			"color": color,
		}
	}
	_, err := engine.InsertMany("products", docs)
	require.NoError(t, err)

	router := mux.NewRouter()
	api.NewHandler(engine, quietLogger()).RegisterRoutes(router)
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts
}

func clientConfig(url, kind string) *config.Client {
	return &config.Client{
		BaseURL:        url,
		Table:          "products",
		PageSize:       2,
		Pagination:     kind,
		CacheTTL:       time.Minute,
		SearchDebounce: time.Millisecond,
		Timeout:        5 * time.Second,
	}
}

func outputLines(buf *bytes.Buffer) []string {
	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		lines = append(lines, strings.Join(strings.Fields(line), " "))
	}
	return lines
}

func TestParseFilters(t *testing.T) {
	filters, err := parseFilters([]string{"color=red", "size=m", "color=blue", "size=l", "size=xl", "empty="})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"color": []string{"red", "blue"},
		"size":  []string{"m", "l", "xl"},
		"empty": "",
	}, filters)

	_, err = parseFilters([]string{"novalue"})
	assert.Error(t, err)
	_, err = parseFilters([]string{"=x"})
	assert.Error(t, err)
}

func TestRunBrowse_OffsetPages(t *testing.T) {
	ts := newBrowseAPI(t, 7)
	var buf bytes.Buffer

	err := runBrowse(context.Background(), clientConfig(ts.URL, "offset"), browseOptions{
		filters:    []string{"color=red"},
		sortBy:     "price",
		descending: true,
		pages:      3,
		columns:    []string{"id", "price"},
	}, &buf, quietLogger())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"page 1 (color=red&page=1&pageSize=2&sortAscending=false&sortBy=price, 4 total)",
		"ID PRICE",
		"p7 70",
		"p5 50",
		"page 2 (color=red&page=2&pageSize=2&sortAscending=false&sortBy=price, 4 total)",
		"ID PRICE",
		"p3 30",
		"p1 10",
	}, outputLines(&buf))
}

func TestRunBrowse_CursorPages(t *testing.T) {
	ts := newBrowseAPI(t, 5)
	var buf bytes.Buffer

	err := runBrowse(context.Background(), clientConfig(ts.URL, "cursor"), browseOptions{
		pages:   2,
		columns: []string{"id"},
	}, &buf, quietLogger())
	require.NoError(t, err)

	lines := outputLines(&buf)
	require.Len(t, lines, 8)
	assert.Equal(t, []string{"ID", "p1", "p2"}, lines[1:4])
	assert.Equal(t, []string{"ID", "p3", "p4"}, lines[5:8])
	assert.Contains(t, lines[4], "pageCursor=")
}

func TestRunBrowse_Search(t *testing.T) {
	ts := newBrowseAPI(t, 12)
	var buf bytes.Buffer

	err := runBrowse(context.Background(), clientConfig(ts.URL, "offset"), browseOptions{
		search:  "product 1",
		filters: []string{"color=blue"},
		columns: []string{"id", "name"},
	}, &buf, quietLogger())
	require.NoError(t, err)

	assert.Equal(t, []string{
		`search "product 1": 2 results`,
		"ID NAME",
		"p10 product 10",
		"p12 product 12",
	}, outputLines(&buf))
}

func TestRunBrowse_Errors(t *testing.T) {
	ts := newBrowseAPI(t, 1)

	err := runBrowse(context.Background(), clientConfig(ts.URL, "sideways"), browseOptions{pages: 1}, io.Discard, quietLogger())
	assert.Error(t, err)

	cfg := clientConfig(ts.URL, "offset")
	cfg.Table = "missing"
	err = runBrowse(context.Background(), cfg, browseOptions{pages: 1}, io.Discard, quietLogger())
	assert.Error(t, err)
}
