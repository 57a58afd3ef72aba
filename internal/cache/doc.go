// Package cache provides the generic LRU cache behind text measurement.
//
//	c := cache.New[string, float64](4096)
//	w := c.GetOrCreate("Hello|14", func() float64 { return measure("Hello") })
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
