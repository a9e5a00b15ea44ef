package interfaces

import (
	"context"

	"github.com/go-redis/redis/v8"
)

//go:generate mockgen -source=keydb_client.go -destination=mock/keydb_client.go -package=mock

// KeyDbClient defines the interface for KeyDB/Redis client operations
type KeyDbClient interface {
	// RPush appends values to the list stored at key
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd

	// LTrim keeps only the given range of the list
	LTrim(ctx context.Context, key string, start, stop int64) *redis.StatusCmd

	// LRange returns the given range of the list
	LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd

	// LLen returns the length of the list
	LLen(ctx context.Context, key string) *redis.IntCmd

	// Ping tests connectivity
	Ping(ctx context.Context) *redis.StatusCmd

	// Close closes the client connection
	Close() error
}
