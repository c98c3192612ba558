package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/transferbooking/config"
	"github.com/Domenick1991/transferbooking/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client    *redis.Client
	lookupTTL time.Duration
}

// NewRedisCache builds the cache; lookupTTL bounds how long route and option lookups are served from Redis.
func NewRedisCache(cfg config.RedisConfig, lookupTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:    redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		lookupTTL: lookupTTL,
	}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) GetRoutes(ctx context.Context) ([]domain.Route, error) {
	var routes []domain.Route
	ok, err := c.getJSON(ctx, routesKey(), &routes)
	if err != nil || !ok {
		return nil, err
	}
	return routes, nil
}

func (c *RedisCache) SetRoutes(ctx context.Context, routes []domain.Route) error {
	return c.setJSON(ctx, routesKey(), routes, c.lookupTTL)
}

func (c *RedisCache) GetRoute(ctx context.Context, id int64) (*domain.Route, error) {
	var route domain.Route
	ok, err := c.getJSON(ctx, routeKey(id), &route)
	if err != nil || !ok {
		return nil, err
	}
	return &route, nil
}

func (c *RedisCache) SetRoute(ctx context.Context, route *domain.Route) error {
	return c.setJSON(ctx, routeKey(route.ID), route, c.lookupTTL)
}

func (c *RedisCache) GetOptions(ctx context.Context, routeID *int64) ([]domain.Option, error) {
	var options []domain.Option
	ok, err := c.getJSON(ctx, optionsKey(routeID), &options)
	if err != nil || !ok {
		return nil, err
	}
	return options, nil
}

func (c *RedisCache) SetOptions(ctx context.Context, routeID *int64, options []domain.Option) error {
	return c.setJSON(ctx, optionsKey(routeID), options, c.lookupTTL)
}

func (c *RedisCache) GetDraft(ctx context.Context, id string) (*domain.DraftSnapshot, error) {
	var snap domain.DraftSnapshot
	ok, err := c.getJSON(ctx, draftKey(id), &snap)
	if err != nil || !ok {
		return nil, err
	}
	return &snap, nil
}

func (c *RedisCache) SaveDraft(ctx context.Context, snap domain.DraftSnapshot, ttl time.Duration) error {
	return c.setJSON(ctx, draftKey(snap.ID), snap, ttl)
}

func (c *RedisCache) DeleteDraft(ctx context.Context, id string) error {
	return c.client.Del(ctx, draftKey(id)).Err()
}

// releaseLock deletes a lock only while it still carries the holder's token, so a holder that
// outlived its TTL cannot drop the lock of the next one.
var releaseLock = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// AcquireDraftLock returns the token that must be handed back to ReleaseDraftLock.
func (c *RedisCache) AcquireDraftLock(ctx context.Context, id string, ttl time.Duration) (string, bool, error) {
	return c.acquire(ctx, draftLockKey(id), ttl)
}

func (c *RedisCache) ReleaseDraftLock(ctx context.Context, id, token string) error {
	return c.release(ctx, draftLockKey(id), token)
}

func (c *RedisCache) AcquireSubmitLock(ctx context.Context, id string, ttl time.Duration) (string, bool, error) {
	return c.acquire(ctx, submitLockKey(id), ttl)
}

func (c *RedisCache) ReleaseSubmitLock(ctx context.Context, id, token string) error {
	return c.release(ctx, submitLockKey(id), token)
}

func (c *RedisCache) acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	ok, err := c.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil || !ok {
		return "", false, err
	}
	return token, true, nil
}

func (c *RedisCache) release(ctx context.Context, key, token string) error {
	return releaseLock.Run(ctx, c.client, []string{key}, token).Err()
}

func (c *RedisCache) SaveResumeSnapshot(ctx context.Context, userKey string, snap domain.DraftSnapshot, ttl time.Duration) error {
	return c.setJSON(ctx, resumeKey(userKey), snap, ttl)
}

// TakeResumeSnapshot reads and deletes the snapshot in one step, so it can be replayed only once.
func (c *RedisCache) TakeResumeSnapshot(ctx context.Context, userKey string) (*domain.DraftSnapshot, error) {
	data, err := c.client.GetDel(ctx, resumeKey(userKey)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var snap domain.DraftSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (c *RedisCache) getJSON(ctx context.Context, key string, dst any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *RedisCache) setJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}

func routesKey() string {
	return "cache:routes"
}

func routeKey(id int64) string {
	return fmt.Sprintf("cache:route:%d", id)
}

func optionsKey(routeID *int64) string {
	if routeID == nil {
		return "cache:options:global"
	}
	return fmt.Sprintf("cache:options:route:%d", *routeID)
}

func draftKey(id string) string {
	return "draft:transfer:" + id
}

func draftLockKey(id string) string {
	return "lock:draft:" + id
}

func submitLockKey(id string) string {
	return "lock:submit:" + id
}

func resumeKey(userKey string) string {
	return "resume:transfer:" + userKey
}
