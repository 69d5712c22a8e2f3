package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"scholaris/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type CacheService interface {
	// Tenant settings caching
	GetTenantSettings(ctx context.Context, tenantID uuid.UUID) (*models.TenantSettings, error)
	SetTenantSettings(ctx context.Context, tenantID uuid.UUID, settings *models.TenantSettings, ttl time.Duration) error
	DeleteTenantSettings(ctx context.Context, tenantID uuid.UUID) error

	// Public site page caching
	GetSitePage(ctx context.Context, tenantID uuid.UUID, slug string) (*models.SitePage, error)
	SetSitePage(ctx context.Context, tenantID uuid.UUID, page *models.SitePage, ttl time.Duration) error
	DeleteSitePage(ctx context.Context, tenantID uuid.UUID, slug string) error

	// Subdomain -> tenant id lookups on the public routes
	GetTenantIDBySubdomain(ctx context.Context, subdomain string) (string, error)
	SetTenantIDBySubdomain(ctx context.Context, subdomain, tenantID string, ttl time.Duration) error

	// Cache invalidation
	InvalidateTenantCache(ctx context.Context, tenantID uuid.UUID) error

	// Rate limiting
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	// Generic string operations for refresh tokens and pending 2FA secrets
	SetString(ctx context.Context, key string, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error

	// Connectivity check for the health endpoints
	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	return &redisCacheService{client: client}
}

func (r *redisCacheService) GetTenantSettings(ctx context.Context, tenantID uuid.UUID) (*models.TenantSettings, error) {
	key := fmt.Sprintf("scholaris:settings:%s", tenantID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var settings models.TenantSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *redisCacheService) SetTenantSettings(ctx context.Context, tenantID uuid.UUID, settings *models.TenantSettings, ttl time.Duration) error {
	key := fmt.Sprintf("scholaris:settings:%s", tenantID.String())
	data, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteTenantSettings(ctx context.Context, tenantID uuid.UUID) error {
	key := fmt.Sprintf("scholaris:settings:%s", tenantID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) GetSitePage(ctx context.Context, tenantID uuid.UUID, slug string) (*models.SitePage, error) {
	key := fmt.Sprintf("scholaris:page:%s:%s", tenantID.String(), slug)
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var page models.SitePage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *redisCacheService) SetSitePage(ctx context.Context, tenantID uuid.UUID, page *models.SitePage, ttl time.Duration) error {
	key := fmt.Sprintf("scholaris:page:%s:%s", tenantID.String(), page.Slug)
	data, err := json.Marshal(page)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteSitePage(ctx context.Context, tenantID uuid.UUID, slug string) error {
	key := fmt.Sprintf("scholaris:page:%s:%s", tenantID.String(), slug)
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) GetTenantIDBySubdomain(ctx context.Context, subdomain string) (string, error) {
	key := fmt.Sprintf("scholaris:subdomain:%s", subdomain)
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil // not found
		}
		return "", err
	}
	return val, nil
}

func (r *redisCacheService) SetTenantIDBySubdomain(ctx context.Context, subdomain, tenantID string, ttl time.Duration) error {
	key := fmt.Sprintf("scholaris:subdomain:%s", subdomain)
	return r.client.Set(ctx, key, tenantID, ttl).Err()
}

func (r *redisCacheService) InvalidateTenantCache(ctx context.Context, tenantID uuid.UUID) error {
	pattern := fmt.Sprintf("scholaris:*:%s*", tenantID.String())
	keys, err := r.client.Keys(ctx, pattern).Result()
	if err != nil {
		return err
	}

	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}

func (r *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	cacheKey := fmt.Sprintf("scholaris:ratelimit:%s", key)
	count, err := r.client.Incr(ctx, cacheKey).Result()
	if err != nil {
		return true, err
	}

	// Set expiry on first request
	if count == 1 {
		r.client.Expire(ctx, cacheKey, window)
	}

	return count > int64(limit), nil
}

func (r *redisCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil // cache miss
		}
		return "", err
	}
	return val, nil
}

func (r *redisCacheService) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
