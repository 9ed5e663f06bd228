package dct

import (
	"sync"
)

// Cache shares DCT instances across goroutines, keyed by block side.
// Building the basis table is the expensive part, so one instance per
// side is reused for the life of the cache.
type Cache struct {
	data sync.Map
}

func NewCache() *Cache {
	var c Cache
	return &c
}

func (c *Cache) New(n int) *DCT {
	if v, ok := c.data.Load(n); ok {
		return v.(*DCT)
	}
	dct := New(n)
	actual, loaded := c.data.LoadOrStore(n, dct)
	if loaded {
		return actual.(*DCT)
	}
	return dct
}
