package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/adfharrison1/go-listquery/pkg/domain"
)

func TestNew_SetsInitialState(t *testing.T) {
	f := New(WithInitial(map[string]any{"archived": false}))

	assert.Equal(t, domain.Params{"archived": false}, f.Params())
	assert.Equal(t, domain.Params{"archived": false}, f.Initial())
}

func TestFilters_Mutations(t *testing.T) {
	f := New()

	f.Set("name", "dude")
	v, ok := f.Get("name")
	assert.True(t, ok)
	assert.Equal(t, "dude", v)

	f.Merge(map[string]any{"age": 30})
	assert.Equal(t, domain.Params{"name": "dude", "age": 30}, f.Params())

	f.Replace(map[string]any{"city": "Oslo"})
	assert.Equal(t, domain.Params{"city": "Oslo"}, f.Params())

	f.Delete("city")
	assert.Equal(t, 0, f.Len())
}

func TestFilters_ClearKeepsInitial(t *testing.T) {
	f := New(WithInitial(map[string]any{"archived": false}))
	f.Set("name", "x")

	f.Clear()
	assert.Empty(t, f.Params())

	f.Reset()
	assert.Equal(t, domain.Params{"archived": false}, f.Params())
}

func TestFilters_ResetRestoresInitialAfterAnySequence(t *testing.T) {
	initial := map[string]any{"status": "open", "owner": "me"}

	sequences := []func(f *Filters){
		func(f *Filters) { f.Set("status", "closed") },
		func(f *Filters) { f.Merge(map[string]any{"owner": "you", "tag": "x"}) },
		func(f *Filters) { f.Delete("owner"); f.Delete("status") },
		func(f *Filters) { f.Replace(map[string]any{"only": 1}); f.Set("more", 2) },
		func(f *Filters) { f.Clear(); f.Set("a", "b") },
	}

	for i, seq := range sequences {
		f := New(WithInitial(initial))
		seq(f)
		f.Reset()
		assert.Equal(t, domain.Params(initial), f.Params(), "sequence %d", i)
	}
}

func TestFilters_InitialIsNotAliased(t *testing.T) {
	initial := map[string]any{"status": "open"}
	f := New(WithInitial(initial))

	initial["status"] = "changed"
	f.Set("status", "closed")
	f.Reset()

	assert.Equal(t, "open", f.Params()["status"])
}

func TestFilters_OnChange(t *testing.T) {
	var calls []domain.Params
	f := New(WithOnChange(func(p domain.Params) { calls = append(calls, p) }))

	f.Set("name", "dude")
	f.Merge(map[string]any{"age": 1})
	f.Delete("age")
	f.Clear()
	f.Reset()

	assert.Len(t, calls, 5)
	assert.Equal(t, domain.Params{"name": "dude"}, calls[0])
}

func TestFilters_SilentVariants(t *testing.T) {
	calls := 0
	f := New(
		WithInitial(map[string]any{"a": 1}),
		WithOnChange(func(domain.Params) { calls++ }),
	)

	f.Apply(map[string]any{"b": 2}, false)
	assert.Equal(t, domain.Params{"a": 1, "b": 2}, f.Params())

	f.Apply(map[string]any{"c": 3}, true)
	assert.Equal(t, domain.Params{"c": 3}, f.Params())

	f.ClearSilently()
	assert.Empty(t, f.Params())

	f.ResetSilently()
	assert.Equal(t, domain.Params{"a": 1}, f.Params())

	assert.Zero(t, calls)
}

func TestFilters_OnParamsChangeFiresForSilentMutations(t *testing.T) {
	changes, refetches := 0, 0
	f := New(
		WithOnChange(func(domain.Params) { refetches++ }),
		WithOnParamsChange(func() { changes++ }),
	)

	f.Apply(map[string]any{"a": 1}, false)
	f.ClearSilently()
	f.ResetSilently()
	assert.Equal(t, 3, changes)
	assert.Zero(t, refetches)

	f.Set("b", 2)
	assert.Equal(t, 4, changes)
	assert.Equal(t, 1, refetches)
}

func TestFilters_ParamsIsSnapshot(t *testing.T) {
	f := New()
	f.Set("a", 1)

	p := f.Params()
	p["a"] = 2

	v, _ := f.Get("a")
	assert.Equal(t, 1, v)
}
