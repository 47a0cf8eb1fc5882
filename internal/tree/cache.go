package tree

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"gorm.io/gorm"
)

// Cache keys. The cached payload is the full tree with route and
// hierarchy metadata, independent of any one role's assignments, so a
// fixed key per tree kind is enough.
const (
	keyModules = "modules"
	keyTabs    = "tabs"

	// DefaultTTL bounds how stale a cached tree may get when no mutation
	// invalidates it first.
	DefaultTTL = 5 * time.Minute

	// cacheSize only needs to fit the fixed keys.
	cacheSize = 4
)

// Cache is a time-boxed cache of the computed navigation trees. Tree
// walks join modules and tabs on every call, so reads go through the
// cache; mutations of the tree or the assignments invalidate eagerly.
// Population on miss may run concurrently under load; recomputing the
// same tree twice is harmless given the low write frequency.
type Cache struct {
	db      *gorm.DB
	modules *lru.LRU[string, []ModuleNode]
	hosts   *lru.LRU[string, []TabHost]
}

// NewCache creates a tree cache. A non-positive ttl falls back to
// DefaultTTL.
func NewCache(db *gorm.DB, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Cache{
		db:      db,
		modules: lru.NewLRU[string, []ModuleNode](cacheSize, nil, ttl),
		hosts:   lru.NewLRU[string, []TabHost](cacheSize, nil, ttl),
	}
}

// ModuleTree returns the cached module tree, computing it on miss.
func (c *Cache) ModuleTree() ([]ModuleNode, error) {
	if cached, ok := c.modules.Get(keyModules); ok {
		return cached, nil
	}

	computed, err := ModuleTree(c.db)
	if err != nil {
		return nil, err
	}

	c.modules.Add(keyModules, computed)

	return computed, nil
}

// TabHosts returns the cached tab host list, computing it on miss.
func (c *Cache) TabHosts() ([]TabHost, error) {
	if cached, ok := c.hosts.Get(keyTabs); ok {
		return cached, nil
	}

	computed, err := TabHosts(c.db)
	if err != nil {
		return nil, err
	}

	c.hosts.Add(keyTabs, computed)

	return computed, nil
}

// InvalidateModules evicts the cached module tree.
func (c *Cache) InvalidateModules() {
	c.modules.Remove(keyModules)
}

// InvalidateTabs evicts the cached tab host list and the module tree,
// which embeds the tabs.
func (c *Cache) InvalidateTabs() {
	c.hosts.Remove(keyTabs)
	c.modules.Remove(keyModules)
}
