package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "sikfilm:"

func viewsKey(id string) string     { return keyPrefix + "views:" + id }
func reactionsKey(id string) string { return keyPrefix + "reactions:" + id }

// RedisCounter implements Counter on Redis: a string counter per post for views
// and a hash of kind index to count for reactions.
type RedisCounter struct {
	client *redis.Client
	kinds  int
}

// NewRedisCounter connects to redisURL and checks the connection.
func NewRedisCounter(redisURL string, reactionKinds int) (*RedisCounter, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCounter{client: client, kinds: kindsOrDefault(reactionKinds)}, nil
}

// IncrementViews adds one view to id.
func (r *RedisCounter) IncrementViews(ctx context.Context, id string) (int64, error) {
	n, err := r.client.Incr(ctx, viewsKey(id)).Result()
	if err != nil {
		return 0, fmt.Errorf("increment views: %w", err)
	}
	return n, nil
}

// Views returns view totals for ids with a single MGET.
func (r *RedisCounter) Views(ctx context.Context, ids ...string) ([]int64, error) {
	out := make([]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = viewsKey(id)
	}
	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("query views: %w", err)
	}
	for i, v := range vals {
		out[i] = toInt64(v)
	}
	return out, nil
}

// AddReaction adds one reaction of kind index to id.
func (r *RedisCounter) AddReaction(ctx context.Context, id string, index int) ([]int64, error) {
	if err := checkReaction(index, r.kinds); err != nil {
		return nil, err
	}
	if err := r.client.HIncrBy(ctx, reactionsKey(id), strconv.Itoa(index), 1).Err(); err != nil {
		return nil, fmt.Errorf("add reaction: %w", err)
	}
	return r.Reactions(ctx, id)
}

// Reactions returns the totals of every reaction kind for id.
func (r *RedisCounter) Reactions(ctx context.Context, id string) ([]int64, error) {
	fields := make([]string, r.kinds)
	for i := range fields {
		fields[i] = strconv.Itoa(i)
	}
	vals, err := r.client.HMGet(ctx, reactionsKey(id), fields...).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("query reactions: %w", err)
	}
	out := make([]int64, r.kinds)
	for i, v := range vals {
		out[i] = toInt64(v)
	}
	return out, nil
}

// Close closes the client.
func (r *RedisCounter) Close() error {
	return r.client.Close()
}

func toInt64(v interface{}) int64 {
	s, ok := v.(string)
	if !ok {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
