package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adfharrison1/go-listquery/pkg/domain"
	"github.com/adfharrison1/go-listquery/pkg/logging"
)

type product struct {
	ID    int
	Name  string
	Price float64
}

func (p *product) GetID() domain.ID { return p.ID }

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestCache(clock *fakeClock, opts ...Option) *Cache[*product] {
	return New[*product](append([]Option{WithClock(clock.Now)}, opts...)...)
}

func TestNew_Defaults(t *testing.T) {
	c := New[*product]()
	assert.Equal(t, DefaultTTL, c.TTL())
	assert.Zero(t, c.Len())
	assert.Zero(t, c.QueryLen())
}

func TestSet_FreshItemUpdatedInPlace(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(clock)

	first := &product{ID: 1, Name: "Widget", Price: 10}
	entry := c.Set(first)

	clock.Advance(time.Minute)
	again := c.Set(&product{ID: 1, Name: "Widget v2", Price: 0})

	assert.Same(t, entry, again)
	assert.Same(t, first, again.Data())
	assert.Equal(t, "Widget v2", first.Name)
	assert.Zero(t, first.Price)
	assert.Equal(t, clock.Now(), entry.CachedAt())
}

func TestSet_StaleItemReplaced(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(clock, WithTTL(time.Minute))

	first := &product{ID: 1, Name: "Widget"}
	entry := c.Set(first)

	clock.Advance(2 * time.Minute)
	replacement := &product{ID: 1, Name: "Gadget"}
	again := c.Set(replacement)

	assert.NotSame(t, entry, again)
	assert.Same(t, replacement, again.Data())
	assert.Equal(t, "Widget", first.Name)
}

func TestStaleness_Boundary(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(clock, WithTTL(time.Minute))
	c.Set(&product{ID: 1})

	clock.Advance(time.Minute)
	_, ok := c.ReadOne(1)
	assert.True(t, ok, "exactly ttl is still fresh")

	clock.Advance(time.Second)
	_, ok = c.ReadOne(1)
	assert.False(t, ok)

	entry, found := c.Get(1)
	require.True(t, found)
	assert.True(t, entry.IsStale(clock.Now()))
}

func TestReadOne_NormalizesID(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(clock)
	p := &product{ID: 7}
	c.Set(p)

	got, ok := c.ReadOne("7")
	require.True(t, ok)
	assert.Same(t, p, got)

	_, ok = c.ReadOne(8)
	assert.False(t, ok)
}

func TestSaveQuery_SharesItems(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(clock)

	a, b := &product{ID: 1, Name: "a"}, &product{ID: 2, Name: "b"}
	q := c.SaveQuery("page=1", []*product{a, b}, domain.Meta{TotalCount: domain.Count(2), NextPageCursor: "n"})

	assert.Equal(t, []*product{a, b}, q.Data())
	assert.Equal(t, 2, *q.Meta().TotalCount)
	assert.Equal(t, "n", q.Meta().NextPageCursor)

	got, ok := c.GetQuery("page=1")
	require.True(t, ok)
	assert.Same(t, q, got)

	one, ok := c.ReadOne(1)
	require.True(t, ok)
	assert.Same(t, got.Data()[0], one)
}

func TestSaveQuery_UpdatesSharedEntities(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(clock)

	a := &product{ID: 1, Name: "a"}
	page1 := c.SaveQuery("page=1", []*product{a}, domain.Meta{})

	clock.Advance(time.Second)
	c.SaveQuery("search=x", []*product{{ID: 1, Name: "renamed"}}, domain.Meta{})

	assert.Equal(t, "renamed", page1.Data()[0].Name)
	assert.Same(t, a, page1.Data()[0])
}

func TestQuery_Staleness(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(clock, WithTTL(time.Minute))
	q := c.SaveQuery("k", nil, domain.Meta{})

	assert.False(t, q.IsStale(clock.Now()))
	clock.Advance(61 * time.Second)
	assert.True(t, q.IsStale(clock.Now()))

	// Stale queries are still returned; the caller decides.
	_, ok := c.GetQuery("k")
	assert.True(t, ok)
}

func TestSave_InvalidateQueries(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(clock)
	c.SaveQuery("k", []*product{{ID: 1}}, domain.Meta{})

	c.Save(&product{ID: 2}, false)
	assert.Equal(t, 1, c.QueryLen())

	c.Save(&product{ID: 3})
	assert.Equal(t, 0, c.QueryLen())
	assert.Equal(t, 3, c.Len())
}

func TestDeleteAndClear(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(clock)
	c.SaveQuery("k", []*product{{ID: 1}, {ID: 2}}, domain.Meta{})

	c.Delete(1)
	_, ok := c.Get(1)
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())

	c.InvalidateQueries()
	assert.Zero(t, c.QueryLen())
	assert.Equal(t, 1, c.Len())

	c.SaveQuery("k", []*product{{ID: 3}}, domain.Meta{})
	c.Clear()
	assert.Zero(t, c.Len())
	assert.Zero(t, c.QueryLen())
}

func TestSeedAndData(t *testing.T) {
	c := New[*product]().Seed([]*product{{ID: 1}, {ID: 2}})
	assert.Len(t, c.Data(), 2)

	_, ok := c.ReadOne(2)
	assert.True(t, ok)
}

type other struct{ ID string }

func (o other) GetID() domain.ID { return o.ID }

func TestWithInitialData(t *testing.T) {
	p := &product{ID: 1}
	c := New[*product](WithInitialData(p, other{ID: "x"}))

	assert.Equal(t, 1, c.Len())
	got, ok := c.ReadOne(1)
	require.True(t, ok)
	assert.Same(t, p, got)
}

func TestNew_LogsThroughStandardLogger(t *testing.T) {
	hook := test.NewLocal(logging.StandardLogger())
	defer hook.Reset()

	New[*product](WithInitialData(other{ID: "x"}))

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "cache", hook.LastEntry().Data[logging.ComponentKey])
}

func TestWithLogger(t *testing.T) {
	logger, hook := test.NewNullLogger()
	New[*product](WithLogger(logger), WithInitialData(other{ID: "x"}))

	require.Len(t, hook.Entries, 1)
	assert.Equal(t, "cache", hook.LastEntry().Data[logging.ComponentKey])
}

func TestWithMaxQueries(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(clock, WithMaxQueries(1))
	c.SaveQuery("a", nil, domain.Meta{})
	c.SaveQuery("b", nil, domain.Meta{})

	_, ok := c.GetQuery("a")
	assert.False(t, ok)
	_, ok = c.GetQuery("b")
	assert.True(t, ok)
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New[*product]()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Set(&product{ID: id, Name: "n"})
				c.ReadOne(id)
				c.SaveQuery("k", []*product{{ID: id}}, domain.Meta{})
				c.GetQuery("k")
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 10, c.Len())
}
