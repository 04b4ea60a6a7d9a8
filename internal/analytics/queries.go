package analytics

import (
	"errors"
	"fmt"

	"skyrelay/internal/db"
)

var ErrUnknownCategory = errors.New("unknown leaderboard category")

// Leaderboard categories.
const (
	CategoryScore     = "score"
	CategoryWins      = "wins"
	CategorySurvivals = "survivals"
)

type Queries struct {
	DB *db.DB
}

func NewQueries(database *db.DB) *Queries {
	return &Queries{DB: database}
}

func (q *Queries) GetPlayerGameStats(gameID, playerID string) (*PlayerGameStats, error) {
	stats := &PlayerGameStats{
		GameID:   gameID,
		PlayerID: playerID,
	}
	err := q.DB.QueryRow(`
		SELECT p.name, p.color, gp.final_score, gp.rank, gp.alive, g.reason,
			(SELECT COUNT(*) FROM game_players x WHERE x.game_id = gp.game_id)
		FROM game_players gp
		JOIN players p ON p.id = gp.player_id
		JOIN games g ON g.id = gp.game_id
		WHERE gp.game_id = $1 AND gp.player_id = $2
	`, gameID, playerID).Scan(&stats.PlayerName, &stats.PlayerColor, &stats.Score, &stats.Rank,
		&stats.Alive, &stats.Reason, &stats.Contestants)
	if err != nil {
		return nil, fmt.Errorf("getting game player: %w", err)
	}
	return stats, nil
}

func (q *Queries) GetPlayerLifetimeStats(playerID string) (*PlayerLifetimeStats, error) {
	stats := &PlayerLifetimeStats{
		PlayerID: playerID,
	}

	err := q.DB.QueryRow(`SELECT name, color FROM players WHERE id = $1`, playerID).
		Scan(&stats.PlayerName, &stats.PlayerColor)
	if err != nil {
		return nil, fmt.Errorf("getting player: %w", err)
	}

	err = q.DB.QueryRow(`
		SELECT
			COUNT(*) as games_played,
			COALESCE(SUM(gp.final_score), 0) as total_score,
			COALESCE(MAX(gp.final_score), 0) as best_game,
			COUNT(*) FILTER (WHERE gp.rank = 1) as win_count,
			COUNT(*) FILTER (WHERE gp.alive AND g.reason = 'time_up') as survivals
		FROM game_players gp
		JOIN games g ON g.id = gp.game_id
		WHERE gp.player_id = $1
	`, playerID).Scan(&stats.GamesPlayed, &stats.TotalScore, &stats.BestGame, &stats.WinCount, &stats.Survivals)
	if err != nil {
		return nil, fmt.Errorf("getting lifetime stats: %w", err)
	}

	// Most recent consecutive wins.
	rows, err := q.DB.Query(`
		SELECT gp.rank
		FROM game_players gp
		JOIN games g ON g.id = gp.game_id
		WHERE gp.player_id = $1
		ORDER BY g.ended_at DESC
	`, playerID)
	if err != nil {
		return nil, fmt.Errorf("getting win streak: %w", err)
	}
	defer rows.Close()

	streak := 0
	for rows.Next() {
		var rank int
		if err := rows.Scan(&rank); err != nil {
			return nil, err
		}
		if rank != 1 {
			break
		}
		streak++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("getting win streak: %w", err)
	}
	stats.WinStreak = streak

	stats.Badges = EvaluateLifetimeBadges(*stats)

	return stats, nil
}

func (q *Queries) GetLeaderboard(category string, limit int) ([]LeaderboardEntry, error) {
	var query string
	switch category {
	case CategoryScore:
		query = `
			SELECT p.id, p.name, p.color, COALESCE(SUM(gp.final_score), 0) as value
			FROM players p
			JOIN game_players gp ON gp.player_id = p.id
			GROUP BY p.id, p.name, p.color
			ORDER BY value DESC
			LIMIT $1`
	case CategoryWins:
		query = `
			SELECT p.id, p.name, p.color, COUNT(*) FILTER (WHERE gp.rank = 1) as value
			FROM players p
			JOIN game_players gp ON gp.player_id = p.id
			GROUP BY p.id, p.name, p.color
			ORDER BY value DESC
			LIMIT $1`
	case CategorySurvivals:
		query = `
			SELECT p.id, p.name, p.color, COUNT(*) FILTER (WHERE gp.alive AND g.reason = 'time_up') as value
			FROM players p
			JOIN game_players gp ON gp.player_id = p.id
			JOIN games g ON g.id = gp.game_id
			GROUP BY p.id, p.name, p.color
			ORDER BY value DESC
			LIMIT $1`
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}

	rows, err := q.DB.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("getting leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	rank := 1
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.PlayerID, &e.PlayerName, &e.PlayerColor, &e.Value); err != nil {
			return nil, err
		}
		e.Rank = rank
		rank++
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("getting leaderboard: %w", err)
	}
	return entries, nil
}

func (q *Queries) GetGameRecap(gameID string) (*GameRecap, error) {
	g, err := q.DB.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	recap := &GameRecap{
		GameID:           g.ID,
		RoomCode:         g.RoomCode,
		Reason:           g.Reason,
		StartedAt:        g.StartedAt,
		EndedAt:          g.EndedAt,
		EnemiesSpawned:   g.EnemiesSpawned,
		EnemiesDestroyed: g.EnemiesDestroyed,
	}

	rows, err := q.DB.Query(`
		SELECT gp.player_id FROM game_players gp WHERE gp.game_id = $1 ORDER BY gp.rank
	`, gameID)
	if err != nil {
		return nil, fmt.Errorf("getting game players: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var playerID string
		if err := rows.Scan(&playerID); err != nil {
			return nil, err
		}
		ids = append(ids, playerID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("getting game players: %w", err)
	}
	for _, id := range ids {
		stats, err := q.GetPlayerGameStats(gameID, id)
		if err != nil {
			return nil, err
		}
		recap.Players = append(recap.Players, *stats)
	}

	return recap, nil
}
