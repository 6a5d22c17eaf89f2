package task

import (
	"context"
	"fmt"

	"github.com/taskhive/taskhive/internal/domain"
	domtask "github.com/taskhive/taskhive/internal/domain/task"
)

const (
	taskKeyPrefix = domain.KeyPrefix + "task:"
	recencyKey    = domain.KeyPrefix + "tasks:by_created"
)

// store is the consumer interface for tasks (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	ZAdd(ctx context.Context, key string, score float64, member string) error
	ZRem(ctx context.Context, key string, member string) error
	ZRevRange(ctx context.Context, key string, start, stop int) ([]string, error)
}

// Repo implements the task store on Redis: one hash per task plus a
// sorted-set recency index scored by creation time. Find scans the index
// in created_at-descending order, which is the store's default ordering.
type Repo struct {
	store store
}

// New creates a task repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Upsert creates or updates a task and refreshes the recency index.
func (r *Repo) Upsert(ctx context.Context, t *domtask.Task) error {
	key := taskKey(t.ID())

	// Stale embedding fields must not survive an update that dropped the
	// vector, so the hash is rewritten from scratch.
	if err := r.store.Del(ctx, key); err != nil {
		return storeErr("del %s", key, err)
	}
	if err := r.store.HSet(ctx, key, buildHashFields(t)); err != nil {
		return storeErr("hset %s", key, err)
	}
	if err := r.store.ZAdd(ctx, recencyKey, float64(t.CreatedAt().UnixNano()), t.ID()); err != nil {
		return storeErr("zadd %s", t.ID(), err)
	}
	return nil
}

// Get returns a task by ID.
func (r *Repo) Get(ctx context.Context, id string) (domtask.Task, error) {
	key := taskKey(id)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return domtask.Task{}, storeErr("hgetall %s", key, err)
	}
	if len(m) == 0 {
		return domtask.Task{}, domain.ErrTaskNotFound
	}
	return parseHashFields(id, m), nil
}

// Delete removes a task and its index entry.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := taskKey(id)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return storeErr("exists %s", key, err)
	}
	if !exists {
		return domain.ErrTaskNotFound
	}
	if err := r.store.Del(ctx, key); err != nil {
		return storeErr("del %s", key, err)
	}
	if err := r.store.ZRem(ctx, recencyKey, id); err != nil {
		return storeErr("zrem %s", id, err)
	}
	return nil
}

// Find returns tasks matching the filter, newest first.
func (r *Repo) Find(ctx context.Context, f domtask.Filter) ([]domtask.Task, error) {
	ids, err := r.store.ZRevRange(ctx, recencyKey, 0, -1)
	if err != nil {
		return nil, storeErr("zrange %s", recencyKey, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = taskKey(id)
	}
	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, storeErr("hgetall multi %s", recencyKey, err)
	}

	tasks := make([]domtask.Task, 0, len(ids))
	for i, m := range hashes {
		if len(m) == 0 {
			// Index entry without a hash: deleted concurrently.
			continue
		}
		t := parseHashFields(ids[i], m)
		if f.Matches(&t) {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

// CountByStatus aggregates task counts per status.
func (r *Repo) CountByStatus(ctx context.Context) (map[domtask.Status]int, error) {
	tasks, err := r.Find(ctx, domtask.Filter{})
	if err != nil {
		return nil, err
	}
	counts := make(map[domtask.Status]int, 4)
	for i := range tasks {
		counts[tasks[i].Status()]++
	}
	return counts, nil
}

func taskKey(id string) string {
	return taskKeyPrefix + id
}

// storeErr wraps a store failure so callers can map it to a hard
// search/CRUD failure via domain.ErrStoreUnavailable.
func storeErr(format, arg string, err error) error {
	return fmt.Errorf(format+": %w: %w", arg, domain.ErrStoreUnavailable, err)
}
