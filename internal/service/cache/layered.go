package cache

import "time"

// LayeredCache reads through an in-process TTL cache before falling back to
// a shared backend (Redis). Writes go to both layers.
type LayeredCache struct {
	local  *TTLCache
	shared BytesCache
}

func NewLayeredCache(shared BytesCache) *LayeredCache {
	return &LayeredCache{local: NewTTLCache(), shared: shared}
}

func (c *LayeredCache) GetBytes(key string) ([]byte, bool, error) {
	if b, ok, _ := c.local.GetBytes(key); ok {
		return b, true, nil
	}
	b, ok, err := c.shared.GetBytes(key)
	if err != nil || !ok {
		return nil, false, err
	}
	// refill the local layer with a short TTL so a shared expiry is noticed
	_ = c.local.SetBytes(key, b, time.Minute)
	return b, true, nil
}

func (c *LayeredCache) SetBytes(key string, value []byte, ttl time.Duration) error {
	localTTL := ttl
	if localTTL > time.Minute {
		localTTL = time.Minute
	}
	_ = c.local.SetBytes(key, value, localTTL)
	return c.shared.SetBytes(key, value, ttl)
}
