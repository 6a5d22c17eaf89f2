package redis

import (
	"context"
	"strconv"

	"github.com/taskhive/taskhive/internal/db"
)

// ZAdd adds a member to a sorted set with the given score.
func (s *Store) ZAdd(ctx context.Context, key string, score float64, member string) error {
	cmd := s.b().Zadd().Key(key).ScoreMember().ScoreMember(score, member).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpZAdd, Err: err}
	}
	return nil
}

// ZRem removes a member from a sorted set.
func (s *Store) ZRem(ctx context.Context, key string, member string) error {
	cmd := s.b().Zrem().Key(key).Member(member).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpZRem, Err: err}
	}
	return nil
}

// ZRevRange returns members by rank, highest score first (ZRANGE ... REV).
func (s *Store) ZRevRange(ctx context.Context, key string, start, stop int) ([]string, error) {
	cmd := s.b().Zrange().Key(key).
		Min(strconv.Itoa(start)).Max(strconv.Itoa(stop)).Rev().Build()
	members, err := s.do(ctx, cmd).AsStrSlice()
	if err != nil {
		return nil, &db.Error{Op: db.OpZRevRange, Err: err}
	}
	return members, nil
}
