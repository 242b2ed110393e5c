package statestore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"resumeforge/internal/shared/apperr"
	"resumeforge/resume/model"
)

const keyPrefix = "resumeforge:workflow:"

// RedisStore keeps workflow results in Redis with a key expiry.
type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

// RedisOptions configures NewRedisClient.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient constructs a go-redis client.
func NewRedisClient(opts RedisOptions) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  opTimeout,
		ReadTimeout:  opTimeout,
		WriteTimeout: opTimeout,
	})
}

// NewRedisStore wraps client. A non-positive ttl uses DefaultTTL.
func NewRedisStore(client redis.Cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttlOrDefault(ttl)}
}

// Save stores sections under a fresh id.
func (s *RedisStore) Save(ctx context.Context, sections model.Sections) (string, error) {
	const op = "statestore.save"
	payload, err := json.Marshal(sections)
	if err != nil {
		return "", apperr.E(apperr.KindInternal, op, errors.Wrap(err, "encode sections"))
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	id := newID()
	if err := s.client.Set(ctx, s.key(id), payload, s.ttl).Err(); err != nil {
		return "", unavailable(op, errors.Wrap(err, "redis set"))
	}
	return id, nil
}

// Load returns the sections saved under id.
func (s *RedisStore) Load(ctx context.Context, id string) (model.Sections, error) {
	const op = "statestore.load"
	if !validID(id) {
		return model.Sections{}, apperr.E(apperr.KindNotFound, op, ErrNotFound)
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	payload, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Sections{}, apperr.E(apperr.KindNotFound, op, ErrNotFound)
		}
		return model.Sections{}, unavailable(op, errors.Wrap(err, "redis get"))
	}

	var sections model.Sections
	if err := json.Unmarshal(payload, &sections); err != nil {
		return model.Sections{}, apperr.E(apperr.KindInternal, op, errors.Wrapf(err, "decode workflow %s", id))
	}
	return sections, nil
}

// Ping checks connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if err := s.client.Ping(ctx).Err(); err != nil {
		return unavailable("statestore.ping", errors.Wrap(err, "redis ping"))
	}
	return nil
}

func (s *RedisStore) key(id string) string {
	return keyPrefix + id
}

func unavailable(op string, err error) error {
	return apperr.E(apperr.KindUnavailable, op, fmt.Errorf("%w: %w", ErrUnavailable, err))
}

var _ Store = (*RedisStore)(nil)
