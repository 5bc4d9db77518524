package redisclient

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type Client struct {
	redisdb *redis.Client
}

type Config struct {
	Addr     string
	Password string
	DB       int
}

func New(cfg Config) *Client {
	redisdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return &Client{redisdb: redisdb}
}

// Ping checks redis connectivity (used by readiness).
func (c *Client) Ping(ctx context.Context) error {
	return c.redisdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.redisdb.Close()
}

const emailGuardPrefix = "reg:email:"

// MarkRegistered remembers a normalized email for ttl so near-immediate
// resubmits get a fast conflict without a DB round trip. Advisory only:
// the registrations unique index stays the arbiter under races.
func (c *Client) MarkRegistered(ctx context.Context, email string, ttl time.Duration) error {
	return c.redisdb.SetNX(ctx, emailGuardPrefix+email, 1, ttl).Err()
}

// SeenRecently reports whether the email was registered within the guard
// window. Errors degrade to "not seen" so redis outage never blocks
// registration.
func (c *Client) SeenRecently(ctx context.Context, email string) bool {
	n, err := c.redisdb.Exists(ctx, emailGuardPrefix+email).Result()

	if err != nil {
		return false
	}

	return n > 0
}
