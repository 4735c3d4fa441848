package redisstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-manager/internal/domain"
	apperrors "task-manager/internal/errors"
	"task-manager/internal/repository"
)

func setupTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	store, err := New(context.Background(), Options{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store, mr
}

func TestNew_UnreachableServer(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := New(context.Background(), Options{Addr: addr, Timeout: 200 * time.Millisecond})
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeStorage) || apperrors.IsErrorType(err, apperrors.ErrorTypeTimeout))
}

func TestStore_GetSetRemove(t *testing.T) {
	store, mr := setupTestStore(t)
	ctx := context.Background()

	_, found, err := store.Get(ctx, "tm_tasks")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, "tm_tasks", "[]"))
	value, found, err := store.Get(ctx, "tm_tasks")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "[]", value)

	stored, err := mr.Get("tm_tasks")
	require.NoError(t, err)
	assert.Equal(t, "[]", stored)

	require.NoError(t, store.Remove(ctx, "tm_tasks"))
	require.NoError(t, store.Remove(ctx, "tm_tasks"))
	assert.False(t, mr.Exists("tm_tasks"))
}

func TestStore_UpdateAppliesBufferedWrites(t *testing.T) {
	store, mr := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "gone", "x"))

	err := store.Update(ctx, func(tx repository.Tx) error {
		require.NoError(t, tx.Set(ctx, "a", "1"))

		value, found, err := tx.Get(ctx, "a")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "1", value)

		assert.False(t, mr.Exists("a"), "writes are buffered until commit")
		return tx.Remove(ctx, "gone")
	})
	require.NoError(t, err)

	mr.CheckGet(t, "a", "1")
	assert.False(t, mr.Exists("gone"))
}

func TestStore_UpdateDiscardsOnError(t *testing.T) {
	store, mr := setupTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.Update(ctx, func(tx repository.Tx) error {
		require.NoError(t, tx.Set(ctx, "a", "1"))
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("a"))
}

func TestStore_UpdateRetriesOnConflict(t *testing.T) {
	store, mr := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "counter", "0"))

	other := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer other.Close()

	attempts := 0
	err := store.Update(ctx, func(tx repository.Tx) error {
		attempts++
		value, _, err := tx.Get(ctx, "counter")
		if err != nil {
			return err
		}
		if attempts == 1 {
			require.NoError(t, other.Set(ctx, "counter", "5", 0).Err())
		}
		return tx.Set(ctx, "counter", value+"+1")
	})
	require.NoError(t, err)

	assert.Equal(t, 2, attempts)
	mr.CheckGet(t, "counter", "5+1")
}

func TestStore_UpdateGivesUpAfterMaxRetries(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewFromClient(client, 2)
	defer store.Close()

	other := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer other.Close()
	ctx := context.Background()

	err := store.Update(ctx, func(tx repository.Tx) error {
		if _, _, err := tx.Get(ctx, "k"); err != nil {
			return err
		}
		require.NoError(t, other.Set(ctx, "k", "changed", 0).Err())
		return tx.Set(ctx, "k", "mine")
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeStorage))
	mr.CheckGet(t, "k", "changed")
}

func TestStore_BacksRepository(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()
	repo := repository.New(store)

	require.NoError(t, repo.Initialize(ctx))

	created, err := repo.AddTask(ctx, domain.NewTaskDraft("persisted in redis"))
	require.NoError(t, err)

	done := true
	updated, err := repo.UpdateTask(ctx, created.ID, domain.TaskPatch{Completed: &done})
	require.NoError(t, err)
	assert.True(t, updated.Completed)

	tasks, err := repo.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, updated, tasks[0])

	settings, err := repo.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), settings)
}

// conflictingStore touches the tasks key after the first attempt has read
// it, so EXEC fails once and Update runs the function again.
type conflictingStore struct {
	*Store
	other    *redis.Client
	key      string
	attempts int
}

func (s *conflictingStore) Update(ctx context.Context, fn func(tx repository.Tx) error) error {
	return s.Store.Update(ctx, func(tx repository.Tx) error {
		s.attempts++
		if err := fn(tx); err != nil {
			return err
		}
		if s.attempts == 1 {
			value, err := s.other.Get(ctx, s.key).Result()
			if err != nil {
				return err
			}
			return s.other.Set(ctx, s.key, value, 0).Err()
		}
		return nil
	})
}

func TestRepository_CountsAfterRetry(t *testing.T) {
	tests := []struct {
		name string
		run  func(ctx context.Context, repo *repository.KVRepository) (int, error)
	}{
		{
			name: "delete category",
			run: func(ctx context.Context, repo *repository.KVRepository) (int, error) {
				return repo.DeleteCategory(ctx, "2")
			},
		},
		{
			name: "reconcile",
			run: func(ctx context.Context, repo *repository.KVRepository) (int, error) {
				return repo.Reconcile(ctx)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mr := setupTestStore(t)
			ctx := context.Background()

			other := redis.NewClient(&redis.Options{Addr: mr.Addr()})
			defer other.Close()

			seed := repository.New(store)
			require.NoError(t, seed.Initialize(ctx))
			for _, title := range []string{"Report", "Slides"} {
				draft := domain.NewTaskDraft(title)
				draft.Category = "2"
				_, err := seed.AddTask(ctx, draft)
				require.NoError(t, err)
			}
			if tt.name == "reconcile" {
				require.NoError(t, seed.SaveCategories(ctx, domain.DefaultCategories(time.Now())[:1]))
			}

			conflicting := &conflictingStore{Store: store, other: other, key: "tm_tasks"}
			count, err := tt.run(ctx, repository.New(conflicting))
			require.NoError(t, err)

			assert.Equal(t, 2, conflicting.attempts)
			assert.Equal(t, 2, count)

			tasks, err := seed.ListTasks(ctx)
			require.NoError(t, err)
			require.Len(t, tasks, 2)
			for _, task := range tasks {
				assert.Equal(t, domain.DefaultCategoryID, task.Category)
			}
		})
	}
}
