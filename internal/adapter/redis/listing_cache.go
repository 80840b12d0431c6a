package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/staynest/booking-service/internal/domain/entity"
)

const listingKeyPrefix = "listing:"

// ListingCache keeps individual listings in Redis so that detail reads
// skip Mongo on a hot path. A cache miss is reported as (nil, nil).
type ListingCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewListingCache(client *redis.Client, ttl time.Duration) *ListingCache {
	return &ListingCache{client: client, ttl: ttl}
}

func (c *ListingCache) GetListing(ctx context.Context, listingID string) (*entity.Listing, error) {
	data, err := c.client.Get(ctx, listingKeyPrefix+listingID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var listing entity.Listing
	if err := json.Unmarshal(data, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

func (c *ListingCache) SetListing(ctx context.Context, listing *entity.Listing) error {
	data, err := json.Marshal(listing)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, listingKeyPrefix+listing.ID, data, c.ttl).Err()
}

func (c *ListingCache) DeleteListing(ctx context.Context, listingID string) error {
	return c.client.Del(ctx, listingKeyPrefix+listingID).Err()
}
