package task

import (
	"context"
	"errors"
	"sort"
)

var errBoom = errors.New("connection refused")

// memStore is an in-memory fake of the consumer store interface: hashes
// plus one sorted set. failOp forces an error for a single operation name.
type memStore struct {
	hashes map[string]map[string]string
	scores map[string]float64
	failOp string
}

func newMemStore() *memStore {
	return &memStore{
		hashes: make(map[string]map[string]string),
		scores: make(map[string]float64),
	}
}

func (s *memStore) fail(op string) error {
	if s.failOp == op {
		return errBoom
	}
	return nil
}

func (s *memStore) HSet(_ context.Context, key string, fields map[string]string) error {
	if err := s.fail("hset"); err != nil {
		return err
	}
	m, ok := s.hashes[key]
	if !ok {
		m = make(map[string]string)
		s.hashes[key] = m
	}
	for k, v := range fields {
		m[k] = v
	}
	return nil
}

func (s *memStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	if err := s.fail("hgetall"); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(s.hashes[key]))
	for k, v := range s.hashes[key] {
		out[k] = v
	}
	return out, nil
}

func (s *memStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if err := s.fail("hgetallmulti"); err != nil {
		return nil, err
	}
	out := make([]map[string]string, len(keys))
	for i, key := range keys {
		m, err := s.HGetAll(ctx, key)
		if err != nil {
			return nil, err
		}
		out[i] = m
	}
	return out, nil
}

func (s *memStore) Del(_ context.Context, key string) error {
	if err := s.fail("del"); err != nil {
		return err
	}
	delete(s.hashes, key)
	return nil
}

func (s *memStore) Exists(_ context.Context, key string) (bool, error) {
	if err := s.fail("exists"); err != nil {
		return false, err
	}
	_, ok := s.hashes[key]
	return ok, nil
}

func (s *memStore) ZAdd(_ context.Context, _ string, score float64, member string) error {
	if err := s.fail("zadd"); err != nil {
		return err
	}
	s.scores[member] = score
	return nil
}

func (s *memStore) ZRem(_ context.Context, _ string, member string) error {
	if err := s.fail("zrem"); err != nil {
		return err
	}
	delete(s.scores, member)
	return nil
}

func (s *memStore) ZRevRange(_ context.Context, _ string, start, stop int) ([]string, error) {
	if err := s.fail("zrange"); err != nil {
		return nil, err
	}
	members := make([]string, 0, len(s.scores))
	for m := range s.scores {
		members = append(members, m)
	}
	sort.Slice(members, func(i, j int) bool {
		if s.scores[members[i]] != s.scores[members[j]] {
			return s.scores[members[i]] > s.scores[members[j]]
		}
		return members[i] < members[j]
	})
	if start < 0 {
		start = 0
	}
	if stop < 0 {
		stop = len(members) - 1
	}
	if start >= len(members) {
		return nil, nil
	}
	if stop >= len(members) {
		stop = len(members) - 1
	}
	return members[start : stop+1], nil
}
