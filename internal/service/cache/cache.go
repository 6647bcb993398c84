package cache

import (
	"strings"
	"time"
)

// BytesCache stores serialized response payloads with a TTL. The API
// layer uses it to shortcut repeated identical requests.
type BytesCache interface {
	GetBytes(key string) (b []byte, ok bool, err error)
	SetBytes(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
}

// Key joins parts into a stable cache key.
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}
