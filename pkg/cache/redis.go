package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"learnhub/internal/models"
)

const (
	structureTTL   = 24 * time.Hour
	leaderboardKey = "xp:leaderboard"
)

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(addr string) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisCache{client: client}
}

func (c *RedisCache) SetCourseStructure(ctx context.Context, cs *models.CourseStructure) error {
	data, err := json.Marshal(cs)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("course:structure:%d", cs.CourseID)
	return c.client.Set(ctx, key, data, structureTTL).Err()
}

func (c *RedisCache) GetCourseStructure(ctx context.Context, courseID uint) (*models.CourseStructure, error) {
	key := fmt.Sprintf("course:structure:%d", courseID)
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}

	var cs models.CourseStructure
	err = json.Unmarshal(data, &cs)
	return &cs, err
}

func (c *RedisCache) InvalidateCourseStructure(ctx context.Context, courseID uint) error {
	key := fmt.Sprintf("course:structure:%d", courseID)
	return c.client.Del(ctx, key).Err()
}

// IncrLeaderboard bumps a user's score on the global XP leaderboard. The
// relative increment mirrors how XP itself is persisted, so concurrent
// grants never lose updates.
func (c *RedisCache) IncrLeaderboard(ctx context.Context, username string, delta int) error {
	return c.client.ZIncrBy(ctx, leaderboardKey, float64(delta), username).Err()
}

// SetLeaderboardScore overwrites a user's leaderboard score, used after an
// administrative adjustment or a stats reconciliation.
func (c *RedisCache) SetLeaderboardScore(ctx context.Context, username string, totalXP int) error {
	return c.client.ZAdd(ctx, leaderboardKey, &redis.Z{
		Score:  float64(totalXP),
		Member: username,
	}).Err()
}

type LeaderboardEntry struct {
	Username string `json:"username"`
	TotalXP  int    `json:"total_xp"`
}

func (c *RedisCache) GetLeaderboard(ctx context.Context, limit int64) ([]LeaderboardEntry, error) {
	results, err := c.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, limit-1).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(results))
	for i, z := range results {
		entries[i] = LeaderboardEntry{
			Username: z.Member.(string),
			TotalXP:  int(z.Score),
		}
	}

	return entries, nil
}
