package sinks

import (
	"context"
	"errors"
	"fmt"

	"github.com/fjlanasa/gtfs-feeds/config"
	"github.com/fjlanasa/gtfs-feeds/records"
	"github.com/redis/go-redis/v9"
)

// RedisWriter publishes documents on Channel and appends them to List.
// Either may be empty but not both.
type RedisWriter struct {
	client  redis.UniversalClient
	channel string
	list    string
}

func NewRedisWriter(cfg config.RedisSinkConfig) (*RedisWriter, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis: addr is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewRedisWriterWithClient(client, cfg.Channel, cfg.List)
}

func NewRedisWriterWithClient(client redis.UniversalClient, channel, list string) (*RedisWriter, error) {
	if channel == "" && list == "" {
		return nil, errors.New("redis: channel or list is required")
	}
	return &RedisWriter{client: client, channel: channel, list: list}, nil
}

func (w *RedisWriter) Write(ctx context.Context, result records.Result) error {
	_, err := w.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		if w.channel != "" {
			pipe.Publish(ctx, w.channel, result.Contents)
		}
		if w.list != "" {
			pipe.RPush(ctx, w.list, result.Contents)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}

func (w *RedisWriter) Close() error {
	return w.client.Close()
}
