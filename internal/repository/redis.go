package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"prokat/internal/config"
	"prokat/internal/models"

	"github.com/redis/go-redis/v9"
)

var errNilClient = errors.New("redis client is nil")

type RedisStateRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient создает новый клиент Redis на основе конфигурации
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func NewRedisStateRepository(client *redis.Client, ttl time.Duration) *RedisStateRepository {
	return &RedisStateRepository{
		client: client,
		ttl:    ttl,
	}
}

func sessionKey(userID int64) string {
	return fmt.Sprintf("session:%d", userID)
}

func rateLimitKey(userID int64) string {
	return fmt.Sprintf("rate_limit:%d", userID)
}

func (r *RedisStateRepository) GetSession(ctx context.Context, userID int64) (*models.Session, error) {
	if r.client == nil {
		return nil, errNilClient
	}
	val, err := r.client.Get(ctx, sessionKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session from redis: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal(val, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	// Битая запись равносильна отсутствию сессии
	if !session.Valid() {
		_ = r.client.Del(ctx, sessionKey(userID)).Err()
		return nil, nil
	}

	return &session, nil
}

func (r *RedisStateRepository) SetSession(ctx context.Context, session *models.Session) error {
	if r.client == nil {
		return errNilClient
	}
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := r.client.Set(ctx, sessionKey(session.UserID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set session in redis: %w", err)
	}
	return nil
}

func (r *RedisStateRepository) ClearSession(ctx context.Context, userID int64) error {
	if r.client == nil {
		return errNilClient
	}
	if err := r.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session from redis: %w", err)
	}
	return nil
}

func (r *RedisStateRepository) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	if r.client == nil {
		return false, errNilClient
	}
	key := rateLimitKey(userID)
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit: %w", err)
	}

	// окно открывается первым сообщением
	if count == 1 {
		if err := r.client.Expire(ctx, key, window).Err(); err != nil {
			return false, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	return count <= int64(limit), nil
}

// Ping проверяет соединение с Redis
func Ping(ctx context.Context, client *redis.Client) error {
	if client == nil {
		return errNilClient
	}
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// Close закрывает соединение с Redis
func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
