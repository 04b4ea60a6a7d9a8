// Package leaderboard keeps the all-time best contest score per player in a
// Redis sorted set so the live board can be served without the archive.
package leaderboard

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/redis/go-redis/v9"

	"skyrelay/internal/analytics"
	"skyrelay/internal/events"
)

const (
	defaultPrefix = "skyrelay"
	scoresKey     = ":highscores"
	namesKey      = ":names"
	colorsKey     = ":colors"
)

type Board struct {
	rdb    *redis.Client
	prefix string
	logger *slog.Logger
}

// Connect parses a redis:// URL and checks the server is reachable.
func Connect(ctx context.Context, url string, logger *slog.Logger) (*Board, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	b := New(rdb, defaultPrefix, logger)
	b.logger.Info("connected to Redis", "addr", opts.Addr)
	return b, nil
}

// New wraps an existing client. Keys are namespaced under prefix.
func New(rdb *redis.Client, prefix string, logger *slog.Logger) *Board {
	return &Board{
		rdb:    rdb,
		prefix: prefix,
		logger: logger.With("component", "leaderboard"),
	}
}

// Record raises each player's high score to their result in res if it is
// better. Names and colours are refreshed on every contest.
func (b *Board) Record(ctx context.Context, res events.Result) error {
	if len(res.Rankings) == 0 {
		return nil
	}
	pipe := b.rdb.TxPipeline()
	for _, p := range res.Rankings {
		pipe.ZAddGT(ctx, b.prefix+scoresKey, redis.Z{Score: float64(p.Score), Member: p.ID})
		pipe.HSet(ctx, b.prefix+namesKey, p.ID, p.Name)
		pipe.HSet(ctx, b.prefix+colorsKey, p.ID, p.Color)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("recording high scores for %s: %w", res.RoomCode, err)
	}
	return nil
}

// Top returns the n best players, highest first.
func (b *Board) Top(ctx context.Context, n int) ([]analytics.LeaderboardEntry, error) {
	if n <= 0 {
		return nil, nil
	}
	zs, err := b.rdb.ZRevRangeWithScores(ctx, b.prefix+scoresKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("reading high scores: %w", err)
	}
	if len(zs) == 0 {
		return nil, nil
	}

	ids := make([]string, len(zs))
	for i, z := range zs {
		ids[i] = z.Member.(string)
	}
	pipe := b.rdb.Pipeline()
	names := pipe.HMGet(ctx, b.prefix+namesKey, ids...)
	colors := pipe.HMGet(ctx, b.prefix+colorsKey, ids...)
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("reading player names: %w", err)
	}

	entries := make([]analytics.LeaderboardEntry, len(zs))
	for i, z := range zs {
		entries[i] = analytics.LeaderboardEntry{
			PlayerID: ids[i],
			Value:    int(z.Score),
			Rank:     i + 1,
		}
		if name, ok := names.Val()[i].(string); ok {
			entries[i].PlayerName = name
		}
		if c, ok := colors.Val()[i].(string); ok {
			entries[i].PlayerColor, _ = strconv.Atoi(c)
		}
	}
	return entries, nil
}

func (b *Board) Ping(ctx context.Context) error {
	return b.rdb.Ping(ctx).Err()
}

func (b *Board) Close() error {
	return b.rdb.Close()
}
