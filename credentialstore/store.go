// credentialstore/store.go

/* Package credentialstore holds the single access token the client authenticates with.
Implementations are safe for concurrent use and never expose a partially written value:
a reader sees either the previous token or the new one. */
package credentialstore

// Store is the persistent home of the current access token.
type Store interface {
	// Get returns the current token and whether one is stored.
	Get() (string, bool)
	// Set replaces the current token.
	Set(token string) error
	// Clear removes the current token. Clearing an empty store is not an error.
	Clear() error
}

const (
	KindMemory = "memory"
	KindFile   = "file"
	KindRedis  = "redis"
)
