package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/skybook/config"
	"github.com/Domenick1991/skybook/internal/domain"
	"github.com/redis/go-redis/v9"
)

// releaseHold deletes a seat hold only when it still belongs to the caller.
var releaseHold = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

func NewClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
}

type RedisCache struct {
	client    redis.Cmdable
	searchTTL time.Duration
}

func NewRedisCache(client redis.Cmdable, searchTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, searchTTL: searchTTL}
}

// GetSearch returns cached search results. ok is false on a cache miss.
func (c *RedisCache) GetSearch(ctx context.Context, query string) (flights []domain.Flight, ok bool, err error) {
	data, err := c.client.Get(ctx, searchKey(query)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, false, err
	}
	return flights, true, nil
}

func (c *RedisCache) SetSearch(ctx context.Context, query string, flights []domain.Flight) error {
	payload, err := json.Marshal(flights)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, searchKey(query), payload, c.searchTTL).Err()
}

// HoldSeat reserves seat for owner until ttl elapses. A hold already owned by
// the same owner is refreshed. It reports false when another owner holds it.
func (c *RedisCache) HoldSeat(ctx context.Context, flightNo, seat, owner string, ttl time.Duration) (bool, error) {
	key := seatHoldKey(flightNo, seat)
	ok, err := c.client.SetNX(ctx, key, owner, ttl).Result()
	if err != nil || ok {
		return ok, err
	}

	current, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return c.client.SetNX(ctx, key, owner, ttl).Result()
		}
		return false, err
	}
	if current != owner {
		return false, nil
	}
	return true, c.client.Expire(ctx, key, ttl).Err()
}

func (c *RedisCache) ReleaseSeat(ctx context.Context, flightNo, seat, owner string) error {
	return releaseHold.Run(ctx, c.client, []string{seatHoldKey(flightNo, seat)}, owner).Err()
}

// HeldSeats returns the subset of seats held by someone other than owner.
func (c *RedisCache) HeldSeats(ctx context.Context, flightNo string, seats []string, owner string) (map[string]bool, error) {
	held := make(map[string]bool)
	if len(seats) == 0 {
		return held, nil
	}

	keys := make([]string, len(seats))
	for i, seat := range seats {
		keys[i] = seatHoldKey(flightNo, seat)
	}
	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	for i, v := range values {
		if s, ok := v.(string); ok && s != owner {
			held[seats[i]] = true
		}
	}
	return held, nil
}

func searchKey(query string) string {
	return "cache:search:" + strings.ToLower(query)
}

func seatHoldKey(flightNo, seat string) string {
	return fmt.Sprintf("hold:flight:%s:seat:%s", strings.ToUpper(flightNo), strings.ToUpper(seat))
}
