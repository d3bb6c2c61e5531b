package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/morozova-art/lagunare/config"
	"github.com/morozova-art/lagunare/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client      *redis.Client
	listingsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, listingsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:      redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		listingsTTL: listingsTTL,
	}
}

// GetListings returns the cached catalog page for a filter, or nil on a
// miss.
func (c *RedisCache) GetListings(ctx context.Context, city string, kind domain.ListingKind) ([]domain.Listing, error) {
	data, err := c.client.Get(ctx, listingsKey(city, kind)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var listings []domain.Listing
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

func (c *RedisCache) SetListings(ctx context.Context, city string, kind domain.ListingKind, listings []domain.Listing) error {
	payload, err := json.Marshal(listings)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, listingsKey(city, kind), payload, c.listingsTTL).Err()
}

// InvalidateListings drops every cached catalog page. The worker calls it
// on its refresh schedule and after calendar changes.
func (c *RedisCache) InvalidateListings(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, "cache:listings:*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func listingsKey(city string, kind domain.ListingKind) string {
	return fmt.Sprintf("cache:listings:%s:%s", city, kind)
}
