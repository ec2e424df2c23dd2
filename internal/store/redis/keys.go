package redis

import "fmt"

const (
	// KeyPrefixSession is the prefix for per-session navbar state
	KeyPrefixSession = "navbar:session:"
	// KeyCatalog holds the last published catalog
	KeyCatalog = "navbar:catalog"
)

// SessionKey returns the Redis key for a session by ID
func SessionKey(id string) string {
	return KeyPrefixSession + id
}

// CatalogKey returns the key of the published catalog
func CatalogKey() string {
	return KeyCatalog
}

// ExtractSessionID extracts the session ID from a Redis key
func ExtractSessionID(key string) (string, error) {
	if len(key) <= len(KeyPrefixSession) || key[:len(KeyPrefixSession)] != KeyPrefixSession {
		return "", fmt.Errorf("invalid session key: %s", key)
	}
	return key[len(KeyPrefixSession):], nil
}
