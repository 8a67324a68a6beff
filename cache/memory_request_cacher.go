package cache

import "sync"

var _ RequestCacher = (*MemoryRequestCacher)(nil)

// MemoryRequestCacher is the in-process stand-in used when no Redis is
// configured.
type MemoryRequestCacher struct {
	mu        sync.Mutex
	entries   map[string][]string
	MaxNumber int
}

func CreateMemoryCache(maxNumber int) *MemoryRequestCacher {
	return &MemoryRequestCacher{
		entries:   make(map[string][]string),
		MaxNumber: maxNumber,
	}
}

func (cacher *MemoryRequestCacher) Write(key string, value []byte) error {
	cacher.mu.Lock()
	defer cacher.mu.Unlock()

	values := append([]string{string(value)}, cacher.entries[key]...)
	if len(values) > cacher.MaxNumber {
		values = values[:cacher.MaxNumber]
	}
	cacher.entries[key] = values

	return nil
}

func (cacher *MemoryRequestCacher) Read(key string) ([]string, error) {
	cacher.mu.Lock()
	defer cacher.mu.Unlock()

	return append([]string{}, cacher.entries[key]...), nil
}
