package query

// peek returns whatever is cached for key, fresh or stale
func (c *Cache) peek(key Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key.String()]
	if !ok {
		return nil, false
	}
	return e.value, true
}

func (c *Cache) isStale(key Key) bool {
	_, ok := c.fresh(key)
	return !ok
}

func (c *Cache) set(key Key, value any) {
	c.mu.Lock()
	startGen := c.gens[key.String()]
	c.mu.Unlock()

	c.store(key, value, startGen)
}
