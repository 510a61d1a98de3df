package store

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// Memory keeps objects in process memory until ttl passes.
type Memory struct {
	c *cache.Cache
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{c: cache.New(ttl, ttl/2+time.Second)}
}

func (m *Memory) Put(_ context.Context, name string, obj Object) (string, error) {
	id := newID(name)
	m.c.Set(id, obj, cache.DefaultExpiration)
	return id, nil
}

func (m *Memory) Get(_ context.Context, id string) (*Object, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	v, ok := m.c.Get(id)
	if !ok {
		return nil, notFound(id)
	}
	obj, ok := v.(Object)
	if !ok {
		return nil, notFound(id)
	}
	return &obj, nil
}

// Len reports how many live objects are held.
func (m *Memory) Len() int { return m.c.ItemCount() }
