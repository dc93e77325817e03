package registry

import (
	lru "github.com/hashicorp/golang-lru"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/spacemeshos/poe/claims"
)

var cacheLookupsMetric = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "poe",
	Subsystem: "registry",
	Name:      "cache_lookups_total",
	Help:      "Number of record lookups served by the registry cache",
}, []string{"result"})

// Cached implements a write-through LRU cache of records on top of a Store.
// Only present claims are cached.
type Cached struct {
	Store
	cache *lru.Cache

	hits   prometheus.Counter
	misses prometheus.Counter
}

var _ Store = (*Cached)(nil)

func NewCached(inner Store, size int) (*Cached, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Cached{
		Store:  inner,
		cache:  cache,
		hits:   cacheLookupsMetric.WithLabelValues("hit"),
		misses: cacheLookupsMetric.WithLabelValues("miss"),
	}, nil
}

func (c *Cached) Contains(fp claims.Fingerprint) (bool, error) {
	if c.cache.Contains(string(fp)) {
		c.hits.Inc()
		return true, nil
	}
	c.misses.Inc()
	return c.Store.Contains(fp)
}

func (c *Cached) Get(fp claims.Fingerprint) (claims.Record, error) {
	if r, ok := c.cache.Get(string(fp)); ok {
		c.hits.Inc()
		// SAFETY: type assertion will never panic as we insert only `claims.Record` values.
		return cloneRecord(r.(claims.Record)), nil
	}
	c.misses.Inc()
	r, err := c.Store.Get(fp)
	if err == nil {
		c.cache.Add(string(fp), cloneRecord(r))
	}
	return r, err
}

func (c *Cached) Insert(fp claims.Fingerprint, r claims.Record) error {
	if err := c.Store.Insert(fp, r); err != nil {
		c.cache.Remove(string(fp))
		return err
	}
	c.cache.Add(string(fp), cloneRecord(r))
	return nil
}

func (c *Cached) Update(fp claims.Fingerprint, r claims.Record) error {
	if err := c.Store.Update(fp, r); err != nil {
		c.cache.Remove(string(fp))
		return err
	}
	c.cache.Add(string(fp), cloneRecord(r))
	return nil
}

func (c *Cached) Remove(fp claims.Fingerprint) error {
	c.cache.Remove(string(fp))
	return c.Store.Remove(fp)
}
