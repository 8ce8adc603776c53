package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"crowdfund/internal/domain"
)

// CampaignListKey es la clave del listado publico de campañas.
const CampaignListKey = "campaigns:all"

// CampaignCache guarda el listado de campañas para el camino de lectura cache-aside.
type CampaignCache interface {
	GetList(ctx context.Context) ([]domain.Campaign, bool, error)
	SetList(ctx context.Context, campaigns []domain.Campaign) error
	Invalidate(ctx context.Context) error
}

type memoryCampaignCache struct {
	mu        sync.Mutex
	ttl       time.Duration
	items     []domain.Campaign
	expiresAt time.Time
	now       func() time.Time
}

func NewMemoryCampaignCache(ttl time.Duration) CampaignCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &memoryCampaignCache{ttl: ttl, now: time.Now}
}

func (c *memoryCampaignCache) GetList(_ context.Context) ([]domain.Campaign, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.items == nil || c.now().After(c.expiresAt) {
		c.items = nil
		return nil, false, nil
	}
	out := make([]domain.Campaign, len(c.items))
	copy(out, c.items)
	return out, true, nil
}

func (c *memoryCampaignCache) SetList(_ context.Context, campaigns []domain.Campaign) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make([]domain.Campaign, len(campaigns))
	copy(c.items, campaigns)
	c.expiresAt = c.now().Add(c.ttl)
	return nil
}

func (c *memoryCampaignCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	return nil
}

type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type redisCampaignCache struct {
	client  redisKV
	key     string
	ttl     time.Duration
	timeout time.Duration
}

func NewRedisCampaignCache(client *redis.Client, ttl time.Duration) CampaignCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &redisCampaignCache{
		client:  client,
		key:     CampaignListKey,
		ttl:     ttl,
		timeout: 500 * time.Millisecond,
	}
}

func (c *redisCampaignCache) GetList(ctx context.Context) ([]domain.Campaign, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	raw, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var campaigns []domain.Campaign
	if err := json.Unmarshal(raw, &campaigns); err != nil {
		return nil, false, err
	}
	return campaigns, true, nil
}

func (c *redisCampaignCache) SetList(ctx context.Context, campaigns []domain.Campaign) error {
	raw, err := json.Marshal(campaigns)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.client.Set(ctx, c.key, raw, c.ttl).Err()
}

func (c *redisCampaignCache) Invalidate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.client.Del(ctx, c.key).Err()
}
