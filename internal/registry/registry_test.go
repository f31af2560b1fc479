package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type table struct{ name string }

func TestSetFirstWriterWins(t *testing.T) {
	r := New()
	a, b := &table{"A"}, &table{"B"}

	assert.True(t, r.Set("units", a))
	assert.False(t, r.Set("units", b))

	got, ok := r.Get("units")
	assert.True(t, ok)
	assert.Same(t, a, got)
}

func TestKeysAreCaseInsensitive(t *testing.T) {
	r := New()
	r.Set("SalesPrices", &table{"prices"})

	_, ok := r.Get("salesprices")
	assert.True(t, ok)
	_, ok = r.Get("SALESPRICES")
	assert.True(t, ok)
	assert.Equal(t, []string{"salesprices"}, r.Keys())
}

func TestAbsent(t *testing.T) {
	r := New()
	v, ok := r.Get("stores")
	assert.False(t, ok)
	assert.Nil(t, v)

	_, ok = Lookup[*table](r, "stores")
	assert.False(t, ok)
	_, ok = Lookup[*table](nil, "stores")
	assert.False(t, ok)
}

func TestLookupTyped(t *testing.T) {
	r := New()
	r.Set("units", &table{"A"})
	r.Set("vat", "not a table")

	tb, ok := Lookup[*table](r, "units")
	assert.True(t, ok)
	assert.Equal(t, "A", tb.name)

	_, ok = Lookup[*table](r, "vat")
	assert.False(t, ok)
}
