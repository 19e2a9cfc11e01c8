package storage

import "fmt"

// Open returns the counter for backend ("sqlite" or "redis").
func Open(backend, databasePath, redisURL string, reactionKinds int) (Counter, error) {
	switch backend {
	case "", "sqlite":
		return NewSQLiteCounter(databasePath, reactionKinds)
	case "redis":
		return NewRedisCounter(redisURL, reactionKinds)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
