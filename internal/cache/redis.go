package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/DebarghyaSikder/FlightBookingApp-Project2/config"
	"github.com/DebarghyaSikder/FlightBookingApp-Project2/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisCache holds search results per route and travel date. Entries are
// short-lived and invalidated whenever inventory is added on the route, so
// stale availability never survives longer than the TTL.
type RedisCache struct {
	client    *redis.Client
	searchTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, searchTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:    redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		searchTTL: searchTTL,
	}
}

func (c *RedisCache) GetRoute(ctx context.Context, fromPlace, toPlace string, date time.Time) ([]domain.Flight, error) {
	data, err := c.client.Get(ctx, routeKey(fromPlace, toPlace, date)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var flights []domain.Flight
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (c *RedisCache) SetRoute(ctx context.Context, fromPlace, toPlace string, date time.Time, flights []domain.Flight) error {
	payload, err := json.Marshal(flights)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, routeKey(fromPlace, toPlace, date), payload, c.searchTTL).Err()
}

func (c *RedisCache) InvalidateRoute(ctx context.Context, fromPlace, toPlace string, date time.Time) error {
	return c.client.Del(ctx, routeKey(fromPlace, toPlace, date)).Err()
}

func routeKey(fromPlace, toPlace string, date time.Time) string {
	return fmt.Sprintf("search:%s:%s:%s",
		strings.ToLower(fromPlace), strings.ToLower(toPlace), date.Format("2006-01-02"))
}
