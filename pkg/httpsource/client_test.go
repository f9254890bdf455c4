package httpsource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adfharrison1/go-listquery/pkg/api"
	"github.com/adfharrison1/go-listquery/pkg/collection"
	"github.com/adfharrison1/go-listquery/pkg/domain"
	"github.com/adfharrison1/go-listquery/pkg/pagination"
	"github.com/adfharrison1/go-listquery/pkg/storage"
)

type product struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Color string  `json:"color"`
}

func (p *product) GetID() domain.ID { return p.ID }

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// newAPI serves products 1..n priced i*10 with alternating colors.
func newAPI(t *testing.T, n int) *httptest.Server {
	t.Helper()
	engine := storage.NewStorageEngine(storage.WithLogger(quietLogger()))
	docs := make([]domain.Document, n)
	for i := range docs {
		color := "red"
		if i%2 == 1 {
			color = "blue"
		}
		docs[i] = domain.Document{
			"id":    fmt.Sprintf("%d", i+1),
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

func newClient(ts *httptest.Server, opts ...Option) *Client[*product] {
	return New[*product](ts.URL, "products", append([]Option{WithLogger(quietLogger())}, opts...)...)
}

func productIDs(items []*product) []string {
	out := make([]string, len(items))
	for i, p := range items {
		out[i] = p.ID
	}
	return out
}

func TestClient_FetchOffset(t *testing.T) {
	client := newClient(newAPI(t, 7))

	res, err := client.Fetch(context.Background(), domain.Params{
		"page": 2, "pageSize": 3, "sortBy": "price", "sortAscending": false,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"4", "3", "2"}, productIDs(res.Data))
	require.NotNil(t, res.TotalCount)
	assert.Equal(t, 7, *res.TotalCount)
	assert.Empty(t, res.NextPageCursor)
}

func TestClient_FetchCursor(t *testing.T) {
	client := newClient(newAPI(t, 5))
	ctx := context.Background()

	first, err := client.Fetch(ctx, domain.Params{"pageSize": 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, productIDs(first.Data))
	require.NotEmpty(t, first.NextPageCursor)

	second, err := client.Fetch(ctx, domain.Params{"pageSize": 2, "pageCursor": first.NextPageCursor})
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "4"}, productIDs(second.Data))
	assert.NotEmpty(t, second.PrevPageCursor)

	_, err = client.Fetch(ctx, domain.Params{"pageSize": 2, "pageCursor": "@@"})
	require.Error(t, err)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.StatusCode)
}

func TestClient_FetchFilters(t *testing.T) {
	client := newClient(newAPI(t, 6))

	res, err := client.Fetch(context.Background(), domain.Params{"color": "blue"})
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "4", "6"}, productIDs(res.Data))
}

func TestClient_Search(t *testing.T) {
	client := newClient(newAPI(t, 12))
	ctx := context.Background()

	items, err := client.Search(ctx, "product 1", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"10", "11", "12"}, productIDs(items))

	items, err = client.Search(ctx, "product 1", domain.Params{"color": "blue", "page": 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"10", "12"}, productIDs(items))

	items, err = client.Search(ctx, "nothing like this", nil)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestClient_FetchOneAndEdit(t *testing.T) {
	client := newClient(newAPI(t, 3))
	ctx := context.Background()

	item, found, err := client.FetchOne(ctx, 2)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "product 02", item.Name)

	item, found, err = client.FetchOne(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, item)

	item, found, err = client.Edit(ctx, "2", domain.Updates{"name": "renamed"})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "renamed", item.Name)
	assert.Equal(t, 20.0, item.Price)

	_, found, err = client.Edit(ctx, "missing", domain.Updates{"name": "x"})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestClient_InsertAndDelete(t *testing.T) {
	client := newClient(newAPI(t, 1))
	ctx := context.Background()

	stored, err := client.Insert(ctx, &product{Name: "lamp", Price: 5})
	require.NoError(t, err)
	assert.NotEmpty(t, stored.ID)
	assert.Equal(t, "lamp", stored.Name)

	require.NoError(t, client.Delete(ctx, stored.ID))

	err = client.Delete(ctx, stored.ID)
	assert.True(t, IsNotFound(err))
}

func TestClient_ServerErrorsTripBreaker(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		api.WriteJSONError(w, http.StatusInternalServerError, "boom")
	}))
	defer ts.Close()

	client := newClient(ts, WithBreakerSettings(gobreaker.Settings{
		Name:    "test",
		Timeout: time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 2
		},
	}))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := client.Fetch(ctx, nil)
		var se *StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "boom", se.Message)
	}

	_, err := client.Fetch(ctx, nil)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.EqualValues(t, 2, calls.Load())
}

func TestClient_NotFoundDoesNotTripBreaker(t *testing.T) {
	ts := newAPI(t, 1)
	client := newClient(ts, WithBreakerSettings(gobreaker.Settings{
		Name: "test",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 1
		},
	}))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, found, err := client.FetchOne(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, found)
	}
	_, found, err := client.FetchOne(ctx, "1")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestClient_DrivesCollection(t *testing.T) {
	client := newClient(newAPI(t, 9))
	ctx := context.Background()

	c := collection.New(client.Fetch,
		collection.WithPagination(pagination.KindCursor),
		collection.WithPageSize(4),
		collection.WithSearch[*product](client.Search),
		collection.WithFetchOne[*product](client.FetchOne),
		collection.WithEdit[*product](client.Edit),
		collection.WithSearchDebounce(time.Millisecond),
		collection.WithLogger(quietLogger()),
	)

	require.NoError(t, c.Init(ctx, collection.FetchOptions{ShouldThrowError: true}))
	assert.Equal(t, []string{"1", "2", "3", "4"}, productIDs(c.Data()))

	c.CursorPagination().GoToNext()
	require.Eventually(t, func() bool {
		data := c.Data()
		return !c.Fetching() && len(data) == 4 && data[0].ID == "5"
	}, 2*time.Second, 10*time.Millisecond)

	edited, found, err := c.Edit(ctx, "6", domain.Updates{"name": "edited"})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "edited", edited.Name)
	assert.Equal(t, "edited", c.Map()["6"].Name)

	results, err := c.Search(ctx, "product 0", collection.SearchOptions{ShouldThrowError: true})
	require.NoError(t, err)
	assert.Len(t, results, 8, "product 01..09 minus the renamed one")
}
