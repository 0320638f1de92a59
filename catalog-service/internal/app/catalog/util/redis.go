package util

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"packagecatalog/catalog-service/internal/app/catalog/entity"
	"packagecatalog/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	packagesCacheKey = "packages:all"
	cacheKeyPrefix   = "packages"
	metricsService   = "catalog"
)

type RedisClient struct {
	client *redis.Client
}

func NewRedisClient(addr, password string, db int) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisClient{client: client}, nil
}

// NewRedisClientFromClient оборачивает уже созданный клиент (используется в тестах)
func NewRedisClientFromClient(client *redis.Client) *RedisClient {
	return &RedisClient{client: client}
}

func (r *RedisClient) SetPackages(ctx context.Context, packages []entity.PackageRecord, ttl time.Duration) error {
	timer := metrics.NewRedisTimer(metricsService, metrics.RedisOpSet)
	defer timer.ObserveDuration()

	data, err := json.Marshal(packages)
	if err != nil {
		return fmt.Errorf("failed to marshal packages: %w", err)
	}

	if err := r.client.Set(ctx, packagesCacheKey, data, ttl).Err(); err != nil {
		metrics.RecordRedisError(metricsService, metrics.RedisOpSet)
		return fmt.Errorf("failed to set packages in cache: %w", err)
	}

	return nil
}

func (r *RedisClient) GetPackages(ctx context.Context) ([]entity.PackageRecord, error) {
	timer := metrics.NewRedisTimer(metricsService, metrics.RedisOpGet)
	defer timer.ObserveDuration()

	data, err := r.client.Get(ctx, packagesCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.RecordCacheMiss(metricsService, cacheKeyPrefix)
			return nil, nil
		}
		metrics.RecordRedisError(metricsService, metrics.RedisOpGet)
		return nil, fmt.Errorf("failed to get packages from cache: %w", err)
	}

	var packages []entity.PackageRecord
	if err := json.Unmarshal(data, &packages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal packages: %w", err)
	}

	metrics.RecordCacheHit(metricsService, cacheKeyPrefix)
	return packages, nil
}

func (r *RedisClient) DeletePackages(ctx context.Context) error {
	timer := metrics.NewRedisTimer(metricsService, metrics.RedisOpDel)
	defer timer.ObserveDuration()

	if err := r.client.Del(ctx, packagesCacheKey).Err(); err != nil {
		metrics.RecordRedisError(metricsService, metrics.RedisOpDel)
		return fmt.Errorf("failed to delete packages from cache: %w", err)
	}
	return nil
}

// Ping проверяет соединение для health endpoint
func (r *RedisClient) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}
