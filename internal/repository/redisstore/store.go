package redisstore

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/go-redis/redis/v8"

	"task-manager/internal/errors"
	"task-manager/internal/repository"
)

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	// MaxRetries bounds how often Update retries after a concurrent writer
	// touched a watched key.
	MaxRetries int
	Timeout    time.Duration
}

// Store implements repository.Store on Redis string keys.
type Store struct {
	client     *redis.Client
	maxRetries int
}

var _ repository.Store = (*Store)(nil)

// New connects to Redis and verifies the connection.
func New(ctx context.Context, opts Options) (*Store, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		PoolSize:     4,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, errors.NewStorageError("connect to redis at "+opts.Addr, err)
	}

	return NewFromClient(client, opts.MaxRetries), nil
}

// NewFromClient wraps an existing client.
func NewFromClient(client *redis.Client, maxRetries int) *Store {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &Store{client: client, maxRetries: maxRetries}
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	return get(ctx, s.client, key)
}

// Set stores value under key without expiry.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return errors.NewStorageError("set "+key, err)
	}
	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return errors.NewStorageError("remove "+key, err)
	}
	return nil
}

// Update runs fn with optimistic locking. Every key read through tx is
// watched; writes are buffered and applied in a single MULTI/EXEC. If a
// watched key changes before EXEC, fn is run again.
func (s *Store) Update(ctx context.Context, fn func(tx repository.Tx) error) error {
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		err := s.client.Watch(ctx, func(rtx *redis.Tx) error {
			tx := &storeTx{rtx: rtx, staged: make(map[string]*string)}
			if err := fn(tx); err != nil {
				return err
			}
			if len(tx.staged) == 0 {
				return nil
			}

			_, err := rtx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				for _, key := range tx.order {
					if value := tx.staged[key]; value != nil {
						pipe.Set(ctx, key, *value, 0)
					} else {
						pipe.Del(ctx, key)
					}
				}
				return nil
			})
			return err
		})

		if stderrors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil && !errors.IsAppError(err) {
			return errors.NewStorageError("commit transaction", err)
		}
		return err
	}
	return errors.NewStorageError("commit transaction", redis.TxFailedErr)
}

// Close closes the client
func (s *Store) Close() error {
	return s.client.Close()
}

// getter is satisfied by both *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func get(ctx context.Context, c getter, key string) (string, bool, error) {
	value, err := c.Get(ctx, key).Result()
	if stderrors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.NewStorageError("get "+key, err)
	}
	return value, true, nil
}

// storeTx buffers writes until EXEC. A nil staged value marks a removal.
type storeTx struct {
	rtx    *redis.Tx
	staged map[string]*string
	order  []string
}

func (t *storeTx) Get(ctx context.Context, key string) (string, bool, error) {
	if value, ok := t.staged[key]; ok {
		if value == nil {
			return "", false, nil
		}
		return *value, true, nil
	}
	if err := t.rtx.Watch(ctx, key).Err(); err != nil {
		return "", false, errors.NewStorageError("watch "+key, err)
	}
	return get(ctx, t.rtx, key)
}

func (t *storeTx) Set(_ context.Context, key, value string) error {
	t.stage(key, &value)
	return nil
}

func (t *storeTx) Remove(_ context.Context, key string) error {
	t.stage(key, nil)
	return nil
}

func (t *storeTx) stage(key string, value *string) {
	if _, ok := t.staged[key]; !ok {
		t.order = append(t.order, key)
	}
	t.staged[key] = value
}
