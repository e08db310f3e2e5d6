// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"warbler/internal/cache"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Store groups the repositories that share one database handle. Inside
// WithinTx every repository handed to fn runs on the same transaction.
type Store interface {
	Users() UserRepository
	Messages() MessageRepository
	Follows() FollowRepository
	Likes() LikeRepository
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}

type gormStore struct {
	db    *gorm.DB
	cache *txCache
}

// NewStore returns a Store backed by db.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Users() UserRepository {
	return &userRepository{db: s.db, cache: s.cache}
}

func (s *gormStore) Messages() MessageRepository {
	return &messageRepository{db: s.db, cache: s.cache}
}

func (s *gormStore) Follows() FollowRepository {
	return &followRepository{db: s.db}
}

func (s *gormStore) Likes() LikeRepository {
	return &likeRepository{db: s.db, cache: s.cache}
}

// WithinTx runs fn in a transaction. Returning an error rolls everything back.
// Cache keys touched inside fn are dropped only after the outermost commit.
func (s *gormStore) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	pending := s.cache
	if pending == nil {
		pending = &txCache{}
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx, cache: pending})
	})
	if err != nil || s.cache != nil {
		return err
	}
	cache.Invalidate(ctx, pending.keys...)
	return nil
}

// txCache is the cache view of a repository. A nil *txCache talks to Redis
// directly; a non-nil one belongs to an open transaction, so it neither
// reads nor fills the cache and queues invalidations until commit.
type txCache struct {
	keys []string
}

func (c *txCache) invalidate(ctx context.Context, keys ...string) {
	if c == nil {
		cache.Invalidate(ctx, keys...)
		return
	}
	c.keys = append(c.keys, keys...)
}

func (c *txCache) aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	if c != nil {
		return fetch()
	}
	return cache.Aside(ctx, key, dest, ttl, fetch)
}

// isUniqueViolation checks if a DB error is a unique constraint violation.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

func clampLimit(limit, fallback, max int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > max {
		return max
	}
	return limit
}
