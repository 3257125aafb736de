package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"checkinn/internal/models"

	"github.com/redis/go-redis/v9"
)

// generationTTLFactor keeps generation counters well past the entries they guard.
const generationTTLFactor = 4

type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Base operations
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

// Get decodes the value at key into dest. A missing key is reported as (false, nil).
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

// Key generation
func (s *CacheService) GenerateKey(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

// userEntry keeps the fields User hides from JSON so cached users stay complete.
type userEntry struct {
	models.User
	PasswordHash string             `json:"passwordHash"`
	Version      int                `json:"tokenVersion"`
	Partner      models.PartnerInfo `json:"partnerInfo"`
}

func (s *CacheService) generationKey(id uint) string {
	return s.GenerateKey("user", "gen", id)
}

// UserGeneration returns the counter InvalidateUser bumps. Read it before
// loading the user from the database and hand it to CacheUser.
func (s *CacheService) UserGeneration(ctx context.Context, id uint) (int64, error) {
	gen, err := s.client.Get(ctx, s.generationKey(id)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get user generation: %w", err)
	}
	return gen, nil
}

// CacheUser stores the user under its id key unless the user was invalidated
// after generation was read. A skipped write is not an error.
func (s *CacheService) CacheUser(ctx context.Context, user *models.User, generation int64) error {
	if user == nil {
		return errors.New("cannot cache nil user")
	}
	data, err := json.Marshal(userEntry{
		User:         *user,
		PasswordHash: user.Password,
		Version:      user.TokenVersion,
		Partner:      user.PartnerInfo,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	genKey := s.generationKey(user.ID)
	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.GenerateKey("user", "id", user.ID), data, s.ttl)
			return nil
		})
		return err
	}, genKey)
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

// GetUser returns the cached user, or (nil, false, nil) on a miss.
func (s *CacheService) GetUser(ctx context.Context, id uint) (*models.User, bool, error) {
	var entry userEntry
	found, err := s.Get(ctx, s.GenerateKey("user", "id", id), &entry)
	if err != nil || !found {
		return nil, false, err
	}
	user := entry.User
	user.Password = entry.PasswordHash
	user.TokenVersion = entry.Version
	user.PartnerInfo = entry.Partner
	return &user, true, nil
}

// InvalidateUser drops the cached user and bumps its generation so a reader
// still holding the old row cannot put it back.
func (s *CacheService) InvalidateUser(ctx context.Context, id uint) error {
	genKey := s.generationKey(id)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		if s.ttl > 0 {
			pipe.Expire(ctx, genKey, s.ttl*generationTTLFactor)
		}
		pipe.Del(ctx, s.GenerateKey("user", "id", id))
		return nil
	})
	return err
}

// Close closes the Redis client connection
func (s *CacheService) Close() error {
	return s.client.Close()
}
