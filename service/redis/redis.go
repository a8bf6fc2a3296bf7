package redis

import (
	"errors"
	"time"

	"github.com/glazehouse/potteryapi/base/ctx"
)

// Forever means the key has no associated expire
const Forever = time.Duration(-1)

var (
	// ErrNotFound is returned when the key does not exist
	ErrNotFound = errors.New("redis key not found")

	// ErrNoTTL is returned when the key exists but has no associated expire
	ErrNoTTL = errors.New("redis key has no ttl")
)

// Service abstracts the redis commands the app relies on
type Service interface {
	Get(context ctx.Ctx, key string) (val []byte, err error)
	Set(context ctx.Ctx, key string, val []byte, expire time.Duration) error
	Del(context ctx.Ctx, ks ...string) (int, error)
	TTL(context ctx.Ctx, key string) (int, error)
	Exists(context ctx.Ctx, key string) (bool, error)
	Ping(context ctx.Ctx) error
}
