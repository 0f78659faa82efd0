package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sentilens/backend/pkg/logger"
)

// Client caches computed analysis reports keyed by the md5 of the dataset
// snapshot they were computed from.
type Client struct {
	client *redis.Client
}

func NewClient(host string, port int, password string, db int) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	_, err := client.Ping(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis client initialized", zap.String("addr", fmt.Sprintf("%s:%d", host, port)))

	return &Client{client: client}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// SetReport caches a computed report under the snapshot hash.
func (c *Client) SetReport(ctx context.Context, snapshotHash string, report interface{}, ttl time.Duration) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	err = c.client.Set(ctx, fmt.Sprintf("report:%s", snapshotHash), data, ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set report cache: %w", err)
	}

	logger.Debug("Report cached", zap.String("snapshot", snapshotHash), zap.Duration("ttl", ttl))
	return nil
}

// GetReport loads a cached report into the given value, reporting whether
// the key was present.
func (c *Client) GetReport(ctx context.Context, snapshotHash string, report interface{}) (bool, error) {
	data, err := c.client.Get(ctx, fmt.Sprintf("report:%s", snapshotHash)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get report cache: %w", err)
	}

	err = json.Unmarshal(data, report)
	if err != nil {
		return false, fmt.Errorf("failed to unmarshal report: %w", err)
	}

	logger.Debug("Report cache hit", zap.String("snapshot", snapshotHash))
	return true, nil
}

// Invalidate drops every cached report. Called when a new dataset
// replaces the current one.
func (c *Client) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, "report:*", 0).Iterator()
	for iter.Next(ctx) {
		err := c.client.Del(ctx, iter.Val()).Err()
		if err != nil {
			logger.Warn("Failed to delete cache key", zap.Error(err))
		}
	}

	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to iterate cache keys: %w", err)
	}

	logger.Info("Report cache invalidated")
	return nil
}
