// internal/infrastructure/storage/storage.go
package storage

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/toyshop-storefront/internal/config"
	"github.com/your-org/toyshop-storefront/internal/domain/shop"
	redisdb "github.com/your-org/toyshop-storefront/internal/infrastructure/database/redis"
)

// KV is a flat string key/value store. Get reports ok=false for a missing key.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Driver names accepted by STORAGE_DRIVER
const (
	DriverRedis  = "redis"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Open builds the store selected by cfg.Storage.Driver. rdb is only used by
// the redis driver. The returned close function releases the store.
func Open(cfg *config.Config, rdb *redisdb.Client, log logrus.FieldLogger) (KV, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Storage.Driver {
	case DriverRedis:
		if rdb == nil {
			return nil, noop, fmt.Errorf("redis storage requires a redis connection")
		}
		log.Info("Shop state stored in Redis")
		// The connection is owned and closed by the caller
		return NewRedis(rdb, cfg.Storage.TTL), noop, nil
	case DriverSQLite:
		db, err := OpenSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		log.WithField("path", cfg.Storage.SQLitePath).Info("Shop state stored in SQLite")
		return db, db.Close, nil
	case DriverMemory:
		log.Warn("Shop state kept in memory only; carts are lost on restart")
		return NewMemory(), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

type scoped struct {
	kv     KV
	prefix string
}

// Scoped namespaces kv to one visitor session, so the shop's cart and
// wishlist keys land under shop:<session>:<key>.
func Scoped(kv KV, sessionID string) shop.Persister {
	return &scoped{kv: kv, prefix: "shop:" + sessionID + ":"}
}

func (s *scoped) Get(ctx context.Context, key string) (string, bool, error) {
	return s.kv.Get(ctx, s.prefix+key)
}

func (s *scoped) Set(ctx context.Context, key, value string) error {
	return s.kv.Set(ctx, s.prefix+key, value)
}

// PersisterFor adapts kv to the session registry
func PersisterFor(kv KV) shop.PersisterFor {
	return func(sessionID string) shop.Persister {
		return Scoped(kv, sessionID)
	}
}
