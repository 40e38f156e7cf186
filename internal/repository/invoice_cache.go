package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"courier/internal/domain"
)

// NewRedisClient parses a redis:// URL and checks the server is reachable.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// RedisInvoiceCache keeps rendered invoices keyed by booking id. Invoices
// never change once a booking is paid, so entries only expire by TTL.
type RedisInvoiceCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisInvoiceCache(client *redis.Client, ttl time.Duration) *RedisInvoiceCache {
	return &RedisInvoiceCache{client: client, ttl: ttl}
}

func invoiceKey(bookingID string) string {
	return fmt.Sprintf("invoice:%s", bookingID)
}

// Get returns nil, nil on a cache miss.
func (c *RedisInvoiceCache) Get(ctx context.Context, bookingID string) (*domain.Invoice, error) {
	data, err := c.client.Get(ctx, invoiceKey(bookingID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var inv domain.Invoice
	if err := json.Unmarshal(data, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (c *RedisInvoiceCache) Set(ctx context.Context, inv *domain.Invoice) error {
	data, err := json.Marshal(inv)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, invoiceKey(inv.BookingID), data, c.ttl).Err()
}

func (c *RedisInvoiceCache) Close() error {
	return c.client.Close()
}
