// file: service/cache.go

package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Oddscorp-AI/banking-transfer/logger"
	"github.com/Oddscorp-AI/banking-transfer/model"

	"github.com/redis/go-redis/v9"
)

// putAttempts bounds optimistic retries when another writer touches the key
// between WATCH and EXEC.
const putAttempts = 3

// ICacheClient defines the contract for a cache client.
// *redis.Client satisfies it; tests point it at miniredis.
type ICacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Watch(ctx context.Context, fn func(*redis.Tx) error, keys ...string) error
}

// AccountCache keeps plain account reads in Redis. Ledger mutations never read
// from it. Readers only fill an empty key (Add); committed mutations overwrite
// it unless a newer version is already cached (Put). A reader that loaded a row
// before a concurrent commit therefore cannot replace the committed state.
// A nil *AccountCache is a valid, disabled cache.
type AccountCache struct {
	client ICacheClient
	ttl    time.Duration
}

func NewAccountCache(client ICacheClient, ttl time.Duration) *AccountCache {
	return &AccountCache{client: client, ttl: ttl}
}

func accountCacheKey(accountNumber string) string {
	return "account:" + accountNumber
}

func (c *AccountCache) Get(ctx context.Context, accountNumber string) (*model.Account, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, accountCacheKey(accountNumber)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Log.WithError(err).Warn("Account cache read failed")
		}
		return nil, false
	}
	return decodeAccount(raw)
}

// Add caches an account read from the store, but only if nothing is cached yet.
func (c *AccountCache) Add(ctx context.Context, account *model.Account) {
	if c == nil {
		return
	}
	data, err := json.Marshal(account)
	if err != nil {
		return
	}
	if err := c.client.SetNX(ctx, accountCacheKey(account.AccountNumber), data, c.ttl).Err(); err != nil {
		logger.Log.WithError(err).Warn("Account cache write failed")
	}
}

// Put writes a committed account through to the cache unless the cached copy
// already carries the same or a later version. If the write cannot be made the
// key is dropped so the next read goes to the store.
func (c *AccountCache) Put(ctx context.Context, account *model.Account) {
	if c == nil {
		return
	}
	data, err := json.Marshal(account)
	if err != nil {
		c.Invalidate(ctx, account.AccountNumber)
		return
	}
	key := accountCacheKey(account.AccountNumber)

	write := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if err != nil && err != redis.Nil {
			return err
		}
		if err == nil {
			if cached, ok := decodeAccount(raw); ok && cached.Version >= account.Version {
				return nil
			}
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, c.ttl)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < putAttempts; attempt++ {
		err = c.client.Watch(ctx, write, key)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	if err != nil {
		logger.Log.WithError(err).WithField("account_number", account.AccountNumber).Warn("Account cache write-through failed")
		c.Invalidate(ctx, account.AccountNumber)
	}
}

func (c *AccountCache) Invalidate(ctx context.Context, accountNumbers ...string) {
	if c == nil || len(accountNumbers) == 0 {
		return
	}
	keys := make([]string, 0, len(accountNumbers))
	for _, n := range accountNumbers {
		keys = append(keys, accountCacheKey(n))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.Log.WithError(err).Warn("Account cache invalidation failed")
	}
}

func decodeAccount(raw []byte) (*model.Account, bool) {
	var account model.Account
	if err := json.Unmarshal(raw, &account); err != nil {
		return nil, false
	}
	return &account, true
}
