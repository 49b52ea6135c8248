package querytpl

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

const DefaultCacheSize = 256

// templateCache memoises parsed templates by their source text. A nil
// *templateCache parses on every call.
type templateCache struct {
	cache *lru.Cache[string, *template]
}

func newTemplateCache(size int) (*templateCache, error) {
	if size < 0 {
		return nil, nil
	}
	if size == 0 {
		size = DefaultCacheSize
	}
	c, err := lru.New[string, *template](size)
	if err != nil {
		return nil, err
	}
	return &templateCache{cache: c}, nil
}

func (c *templateCache) get(query string) *template {
	if c == nil {
		return parseTemplate(query)
	}
	if t, ok := c.cache.Get(query); ok {
		return t
	}
	t := parseTemplate(query)
	c.cache.Add(query, t)
	return t
}

func (c *templateCache) len() int {
	if c == nil {
		return 0
	}
	return c.cache.Len()
}
