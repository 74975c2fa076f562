package storage

// Store memoizes upstream API responses with a per-entry expiry. Losing the
// cache only costs performance, never correctness, so implementations are
// free to be lossy (in-memory) or persistent (sqlite).
type Store interface {
	// GetCachedData returns the cached payload for key, or nil if the key is
	// absent or its entry has expired. Expired entries are removed on read.
	GetCachedData(key string) []byte

	// SetCachedData stores data under key for ttlSeconds.
	SetCachedData(key string, data []byte, ttlSeconds int)

	// CacheEntries reports how many live entries the store currently holds.
	CacheEntries() int64
}
