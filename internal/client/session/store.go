package session

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/taskmarket/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/taskmarket/internal/dbx"
)

// Store persists a Record. Save and Clear are atomic: readers never see a
// half-written session.
type Store interface {
	Load(ctx context.Context) (Record, error)
	Save(ctx context.Context, r Record) error
	SaveReferral(ctx context.Context, code string) error
	Clear(ctx context.Context) error
}

// SQLiteStore keeps the session in the local metadata table.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Load(ctx context.Context) (Record, error) {
	vals, err := metadata.NewSQLiteRepository(s.db).GetMany(ctx, Keys...)
	if err != nil {
		return Record{}, err
	}
	return decode(vals)
}

func (s *SQLiteStore) Save(ctx context.Context, r Record) error {
	vals, err := r.encode()
	if err != nil {
		return err
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		for _, k := range Keys {
			if vals[k] == nil {
				if err := repo.Delete(ctx, k); err != nil {
					return err
				}
				continue
			}
			if err := repo.Set(ctx, k, vals[k]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLiteStore) SaveReferral(ctx context.Context, code string) error {
	return metadata.NewSQLiteRepository(s.db).Set(ctx, KeyReferralCode, []byte(code))
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return metadata.NewSQLiteRepository(tx).Delete(ctx, Keys...)
	})
}

// RedisStore keeps the session in Redis under prefix, so that every client
// pointed at the same Redis shares one login.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore builds a store; ttl 0 means the keys never expire.
func NewRedisStore(rdb *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) key(k string) string {
	return s.prefix + ":session:" + k
}

func (s *RedisStore) keys() []string {
	out := make([]string, len(Keys))
	for i, k := range Keys {
		out[i] = s.key(k)
	}
	return out
}

func (s *RedisStore) Load(ctx context.Context) (Record, error) {
	res, err := s.rdb.MGet(ctx, s.keys()...).Result()
	if err != nil {
		return Record{}, fmt.Errorf("redis mget session: %w", err)
	}
	vals := make(map[string][]byte, len(Keys))
	for i, v := range res {
		if str, ok := v.(string); ok {
			vals[Keys[i]] = []byte(str)
		}
	}
	return decode(vals)
}

func (s *RedisStore) Save(ctx context.Context, r Record) error {
	vals, err := r.encode()
	if err != nil {
		return err
	}
	_, err = s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for _, k := range Keys {
			if vals[k] == nil {
				p.Del(ctx, s.key(k))
				continue
			}
			p.Set(ctx, s.key(k), vals[k], s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save session: %w", err)
	}
	return nil
}

func (s *RedisStore) SaveReferral(ctx context.Context, code string) error {
	if err := s.rdb.Set(ctx, s.key(KeyReferralCode), code, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis save referral: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.keys()...).Err(); err != nil {
		return fmt.Errorf("redis clear session: %w", err)
	}
	return nil
}
