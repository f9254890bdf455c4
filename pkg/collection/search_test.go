package collection

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adfharrison1/go-listquery/pkg/domain"
	"github.com/adfharrison1/go-listquery/pkg/pagination"
)

type fakeSearch struct {
	mu      sync.Mutex
	queries []string
	filters []domain.Params
	results []*product
	err     error
}

func (f *fakeSearch) search(_ context.Context, query string, filters domain.Params) ([]*product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	f.filters = append(f.filters, filters)
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*product, len(f.results))
	for i, p := range f.results {
		cp := *p
		out[i] = &cp
	}
	return out, nil
}

func (f *fakeSearch) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

func newSearchCollection(s *fakeSearch, opts ...Option) *Collection[*product] {
	api := newFakeAPI(&domain.FetchResult[*product]{Data: products("1", "2", "3"), TotalCount: domain.Count(3)})
	base := []Option{
		WithSearch[*product](s.search),
		WithSearchDebounce(time.Millisecond),
		WithLogger(quietLogger()),
	}
	return New(api.fetch, append(base, opts...)...)
}

func TestSearch_DebouncesBursts(t *testing.T) {
	s := &fakeSearch{results: products("x")}
	c := newSearchCollection(s, WithSearchDebounce(50*time.Millisecond))

	var wg sync.WaitGroup
	results := make([][]*product, 3)
	for i, q := range []string{"a", "b", "c"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := c.Search(context.Background(), q, SearchOptions{})
			assert.NoError(t, err)
			results[i] = res
		}()
		time.Sleep(5 * time.Millisecond)
	}
	wg.Wait()

	assert.Equal(t, []string{"c"}, s.calls())
	for _, res := range results {
		require.Len(t, res, 1)
		assert.Equal(t, "x", res[0].ID)
	}
	assert.Equal(t, "c", c.SearchQuery())
	assert.False(t, c.Searching())
}

func TestSearch_WithoutSearchFunc(t *testing.T) {
	api := newFakeAPI(&domain.FetchResult[*product]{})
	c := New(api.fetch, WithLogger(quietLogger()))

	res, err := c.Search(context.Background(), "needle", SearchOptions{ShouldThrowError: true})
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Equal(t, "needle", c.SearchQuery())
}

func TestSearch_ReplacesDataAndSetsTotals(t *testing.T) {
	s := &fakeSearch{results: products("x", "y")}
	c := newSearchCollection(s, WithPagination(pagination.KindOffset))
	ctx := context.Background()

	_, err := c.Fetch(ctx, FetchOptions{})
	require.NoError(t, err)

	res, err := c.Search(ctx, "q", SearchOptions{})
	require.NoError(t, err)
	assert.Len(t, res, 2)

	data := c.Data()
	require.Len(t, data, 2)
	assert.Equal(t, "x", data[0].ID)

	total, ok := c.Pagination().TotalCount()
	require.True(t, ok)
	assert.Equal(t, 2, total)
	total, ok = c.CursorPagination().TotalCount()
	require.True(t, ok)
	assert.Equal(t, 2, total)
}

func TestSearch_Append(t *testing.T) {
	s := &fakeSearch{results: products("x")}
	c := newSearchCollection(s)
	ctx := context.Background()

	_, err := c.Fetch(ctx, FetchOptions{})
	require.NoError(t, err)
	_, err = c.Search(ctx, "q", SearchOptions{Append: true})
	require.NoError(t, err)

	assert.Len(t, c.Data(), 4)
}

func TestSearch_PassesActiveFilters(t *testing.T) {
	s := &fakeSearch{}
	c := newSearchCollection(s, WithInitialFilters(map[string]any{"status": "active"}))
	c.Filters().Apply(map[string]any{"color": "red"}, false)

	_, err := c.Search(context.Background(), "q", SearchOptions{})
	require.NoError(t, err)
	require.Len(t, s.filters, 1)
	assert.Equal(t, domain.Params{"status": "active", "color": "red"}, s.filters[0])

	_, err = c.Search(context.Background(), "q", SearchOptions{ClearFilters: true})
	require.NoError(t, err)
	require.Len(t, s.filters, 2)
	assert.Empty(t, s.filters[1])
}

func TestSearch_ResetsSelection(t *testing.T) {
	s := &fakeSearch{results: products("x")}
	c := newSearchCollection(s)
	ctx := context.Background()

	_, err := c.Fetch(ctx, FetchOptions{})
	require.NoError(t, err)
	c.Selection().Select(c.Data()[0])
	require.Equal(t, 1, c.Selection().Len())

	_, err = c.Search(ctx, "q", SearchOptions{})
	require.NoError(t, err)
	assert.Zero(t, c.Selection().Len())
}

func TestSearch_PreservesSelection(t *testing.T) {
	s := &fakeSearch{results: products("2", "x")}
	c := newSearchCollection(s, WithPreserveSelectedOnSearch(true))
	ctx := context.Background()

	_, err := c.Fetch(ctx, FetchOptions{})
	require.NoError(t, err)
	selected := c.Data()[1]
	c.Selection().Select(selected)

	_, err = c.Search(ctx, "q", SearchOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, c.Selection().Len())
	data := c.Data()
	require.Len(t, data, 2)
	assert.Same(t, selected, data[0])
	assert.Equal(t, "x", data[1].ID)
}

func TestSearch_Errors(t *testing.T) {
	boom := errors.New("boom")
	s := &fakeSearch{err: boom}
	var handled []error
	c := newSearchCollection(s, WithErrorHandler(func(err error) { handled = append(handled, err) }))
	ctx := context.Background()

	res, err := c.Search(ctx, "q", SearchOptions{})
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, c.SearchErr(), boom)
	assert.True(t, domain.IsNetworkError(c.SearchErr()))
	assert.Len(t, handled, 1)

	_, err = c.Search(ctx, "q", SearchOptions{ShouldThrowError: true})
	assert.ErrorIs(t, err, boom)

	s.mu.Lock()
	s.err = nil
	s.mu.Unlock()
	_, err = c.Search(ctx, "q", SearchOptions{})
	require.NoError(t, err)
	assert.NoError(t, c.SearchErr())
}

func TestSearch_CanceledByReset(t *testing.T) {
	s := &fakeSearch{results: products("x")}
	c := newSearchCollection(s, WithSearchDebounce(time.Hour))

	done := make(chan error, 1)
	go func() {
		_, err := c.Search(context.Background(), "q", SearchOptions{ShouldThrowError: true})
		done <- err
	}()

	require.Eventually(t, func() bool { return c.SearchQuery() == "q" }, time.Second, time.Millisecond)
	require.Eventually(t, func() bool {
		c.ResetState()
		select {
		case err := <-done:
			assert.NoError(t, err)
			return true
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
	assert.Empty(t, s.calls())
}

func TestSearch_ContextCanceled(t *testing.T) {
	s := &fakeSearch{results: products("x")}
	c := newSearchCollection(s, WithSearchDebounce(time.Hour))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := c.Search(ctx, "q", SearchOptions{ShouldThrowError: true})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	c.ResetState()
}

func TestSearch_CanceledLatestCallerKeepsBurstAlive(t *testing.T) {
	var queries []string
	var mu sync.Mutex
	search := func(ctx context.Context, query string, _ domain.Params) ([]*product, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		mu.Lock()
		queries = append(queries, query)
		mu.Unlock()
		return products("x"), nil
	}
	api := newFakeAPI(&domain.FetchResult[*product]{})
	c := New(api.fetch,
		WithSearch[*product](search),
		WithSearchDebounce(50*time.Millisecond),
		WithLogger(quietLogger()),
	)

	first := make(chan error, 1)
	var firstRes []*product
	go func() {
		res, err := c.Search(context.Background(), "a", SearchOptions{ShouldThrowError: true})
		firstRes = res
		first <- err
	}()
	require.Eventually(t, func() bool { return c.SearchQuery() == "a" }, time.Second, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	second := make(chan error, 1)
	go func() {
		_, err := c.Search(ctx, "ab", SearchOptions{ShouldThrowError: true})
		second <- err
	}()
	require.Eventually(t, func() bool { return c.SearchQuery() == "ab" }, time.Second, time.Millisecond)
	cancel()

	assert.ErrorIs(t, <-second, context.Canceled)
	require.NoError(t, <-first)
	require.Len(t, firstRes, 1)
	assert.Equal(t, []string{"ab"}, queries)
	assert.NoError(t, c.SearchErr())
}
