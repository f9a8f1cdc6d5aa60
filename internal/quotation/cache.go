package quotation

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const draftKeyPrefix = "quotation:draft:"

// DraftCache is a read-through Redis cache of draft documents keyed by
// code. Concurrent loads of the same draft are deduplicated.
type DraftCache struct {
	client *redis.Client
	ttl    time.Duration
	group  singleflight.Group
}

// NewDraftCache instantiates the cache helper.
func NewDraftCache(client *redis.Client, ttl time.Duration) *DraftCache {
	return &DraftCache{client: client, ttl: ttl}
}

// Fetch loads a cached draft or populates it using the loader. Cache
// failures fall back to the loader; a draft read never fails because Redis
// is down.
func (c *DraftCache) Fetch(ctx context.Context, code string, loader func(context.Context) (*Draft, error)) (*Draft, error) {
	if c == nil || c.client == nil {
		return loader(ctx)
	}

	key := draftKeyPrefix + code
	if data, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var draft Draft
		if err := json.Unmarshal(data, &draft); err == nil {
			return &draft, nil
		}
		// Corrupt entry: drop it and reload.
		c.client.Del(ctx, key)
	} else if err != redis.Nil && !errors.Is(err, context.Canceled) {
		return loader(ctx)
	}

	ch := c.group.DoChan(key, func() (interface{}, error) {
		draft, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		if data, err := json.Marshal(draft); err == nil {
			c.client.Set(ctx, key, data, c.ttl)
		}
		return draft, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Draft), nil
	}
}

// Invalidate drops the cached entry after a committed write.
func (c *DraftCache) Invalidate(ctx context.Context, code string) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, draftKeyPrefix+code)
}
