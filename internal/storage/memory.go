package storage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memoryBackend simulates the document-store interface in process, used
// when no remote store is reachable. Collections are ordered slices of
// documents; reads return deep copies so callers cannot mutate stored
// state.
type memoryBackend struct {
	mu          sync.RWMutex
	collections map[string]*memoryCollection
}

// NewMemoryBackend returns an empty in-process backend.
func NewMemoryBackend() Backend {
	return &memoryBackend{collections: make(map[string]*memoryCollection)}
}

func (m *memoryBackend) Ping(_ context.Context) error { return nil }

func (m *memoryBackend) Collection(name string) Collection {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.collections[name]; ok {
		return c
	}
	c := &memoryCollection{}
	m.collections[name] = c
	return c
}

// DataSize reports zero: the size-check failover probe has no meaning
// once the tier is already in memory mode.
func (m *memoryBackend) DataSize(_ context.Context) (int64, error) { return 0, nil }

func (m *memoryBackend) Close(_ context.Context) error { return nil }

type memoryCollection struct {
	mu   sync.RWMutex
	docs []Doc
}

func (c *memoryCollection) InsertOne(_ context.Context, doc Doc) (string, error) {
	stored := copyDoc(doc)
	id, ok := stored["_id"].(string)
	if !ok || id == "" {
		id = uuid.NewString()
		stored["_id"] = id
	}

	c.mu.Lock()
	c.docs = append(c.docs, stored)
	c.mu.Unlock()
	return id, nil
}

func (c *memoryCollection) UpdateOne(_ context.Context, filter Filter, set Doc) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range c.docs {
		if filter.matches(d) {
			for k, v := range set {
				d[k] = copyValue(v)
			}
			return true, nil
		}
	}
	return false, nil
}

func (c *memoryCollection) FindOne(_ context.Context, filter Filter) (Doc, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, d := range c.docs {
		if filter.matches(d) {
			return copyDoc(d), nil
		}
	}
	return nil, nil
}

func (c *memoryCollection) Find(_ context.Context, filter Filter, opts *FindOptions) ([]Doc, error) {
	c.mu.RLock()
	var out []Doc
	for _, d := range c.docs {
		if filter.matches(d) {
			out = append(out, copyDoc(d))
		}
	}
	c.mu.RUnlock()

	if opts != nil {
		if opts.SortField != "" {
			sortDocs(out, opts.SortField, opts.SortDesc)
		}
		if opts.Limit > 0 && int64(len(out)) > opts.Limit {
			out = out[:opts.Limit]
		}
	}
	return out, nil
}

func (c *memoryCollection) CountDocuments(_ context.Context, filter Filter) (int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var n int64
	for _, d := range c.docs {
		if filter.matches(d) {
			n++
		}
	}
	return n, nil
}

func (c *memoryCollection) DeleteOne(_ context.Context, filter Filter) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, d := range c.docs {
		if filter.matches(d) {
			c.docs = append(c.docs[:i], c.docs[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func copyDoc(d Doc) Doc {
	out := make(Doc, len(d))
	for k, v := range d {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch val := v.(type) {
	case Doc:
		return copyDoc(val)
	case map[string]any:
		return map[string]any(copyDoc(Doc(val)))
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = copyValue(e)
		}
		return out
	case time.Time:
		return val
	default:
		// remaining value kinds are scalars, copied by assignment
		return val
	}
}
