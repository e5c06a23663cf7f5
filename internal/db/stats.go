package db

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/herbe-rt/bancho/internal/model"
)

// Stats reads the per-mode stats tables; the global rank comes from
// the redis leaderboards shared with the score server.
type Stats struct {
	db    *DB
	redis *redis.Client
	log   zerolog.Logger
}

func NewStats(db *DB, redis *redis.Client, log zerolog.Logger) *Stats {
	return &Stats{db: db, redis: redis, log: log}
}

// Fetch loads the stats snapshot for one user and mode. A missing row
// is an error: every account gets its stats rows at registration.
func (r *Stats) Fetch(ctx context.Context, userID int32, mode model.Mode) (*model.Stats, error) {
	prefix := mode.StatsPrefix()
	query := fmt.Sprintf(
		`SELECT ranked_score_%[1]s, total_score_%[1]s, pp_%[1]s, avg_accuracy_%[1]s,
		 playcount_%[1]s, playtime_%[1]s, max_combo_%[1]s, total_hits_%[1]s,
		 replays_watched_%[1]s FROM %[2]s WHERE id = $1`,
		prefix, mode.StatsTable(),
	)

	stats := &model.Stats{UserID: userID, Mode: mode}
	err := r.db.Write.QueryRow(ctx, query, userID).Scan(
		&stats.RankedScore, &stats.TotalScore, &stats.PP, &stats.Accuracy,
		&stats.Playcount, &stats.Playtime, &stats.MaxCombo, &stats.TotalHits,
		&stats.ReplaysWatched,
	)
	if err != nil {
		return nil, fmt.Errorf("querying %s stats for user %d: %w", prefix, userID, err)
	}

	rank, err := r.globalRank(ctx, userID, mode)
	if err != nil {
		return nil, err
	}
	stats.Rank = rank
	return stats, nil
}

// globalRank is 1 + the zero-based reverse rank on the mode's
// leaderboard, or 0 for users not on the board.
func (r *Stats) globalRank(ctx context.Context, userID int32, mode model.Mode) (int32, error) {
	key := fmt.Sprintf("ripple:%s:%s", mode.RedisLeaderboard(), mode.StatsPrefix())
	rank, err := r.redis.ZRevRank(ctx, key, strconv.Itoa(int(userID))).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("querying %s rank for user %d: %w", key, userID, err)
	}
	return int32(rank) + 1, nil
}
