package cache

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/domino14/checkers/config"
)

// The cache is used for networks we want to load once per process: the bot
// service loads evaluator files by path, and the trainer loads historical
// opponents once per generation.

// Cache is a mutex-guarded loader cache keyed by name.
type Cache[T any] struct {
	sync.Mutex
	objects map[string]T
	misses  int
}

// LoadFunc loads the object for key when it is not cached yet.
type LoadFunc[T any] func(key string) (T, error)

func New[T any]() *Cache[T] {
	return &Cache[T]{objects: make(map[string]T)}
}

// Get returns the cached object for key, loading it first if needed. A
// failed load is not cached.
func (c *Cache[T]) Get(key string, loadFunc LoadFunc[T]) (T, error) {
	c.Lock()
	defer c.Unlock()
	if obj, ok := c.objects[key]; ok {
		log.Debug().Str("key", key).Msg("getting obj from cache")
		return obj, nil
	}
	log.Debug().Str("key", key).Msg("loading into cache")
	obj, err := loadFunc(key)
	if err != nil {
		var zero T
		return zero, err
	}
	c.misses++
	c.objects[key] = obj
	return obj, nil
}

// Len is the number of cached objects.
func (c *Cache[T]) Len() int {
	c.Lock()
	defer c.Unlock()
	return len(c.objects)
}

// Misses is the number of successful loads.
func (c *Cache[T]) Misses() int {
	c.Lock()
	defer c.Unlock()
	return c.misses
}

type globalLoadFunc func(cfg *config.Config, key string) (any, error)

var (
	globalOnce sync.Once
	// GlobalObjectCache is our global object cache, of course.
	GlobalObjectCache *Cache[any]
)

func CreateGlobalObjectCache() {
	GlobalObjectCache = New[any]()
}

// Load gets name from the global object cache.
func Load(cfg *config.Config, name string, loadFunc globalLoadFunc) (any, error) {
	globalOnce.Do(func() {
		if GlobalObjectCache == nil {
			CreateGlobalObjectCache()
		}
	})
	return GlobalObjectCache.Get(name, func(key string) (any, error) {
		return loadFunc(cfg, key)
	})
}
