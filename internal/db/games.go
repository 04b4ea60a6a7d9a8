package db

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type GameRecord struct {
	ID               string
	RoomCode         string
	HostID           string
	GameTimeSecs     int
	Reason           string
	StartedAt        time.Time
	EndedAt          time.Time
	EnemiesSpawned   int
	EnemiesDestroyed int
	DuplicateHits    int
}

// Standing is one member's line in a finished contest.
type Standing struct {
	PlayerID string
	Name     string
	Color    int
	Score    int
	Rank     int
	Alive    bool
}

// RecordGame stores a finished contest and its standings in one
// transaction and returns the new game id.
func (d *DB) RecordGame(g GameRecord, standings []Standing) (string, error) {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}

	tx, err := d.conn.Begin()
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO games (id, room_code, host_id, game_time_secs, reason, started_at, ended_at,
			enemies_spawned, enemies_destroyed, duplicate_hits)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, g.ID, g.RoomCode, g.HostID, g.GameTimeSecs, g.Reason, g.StartedAt, g.EndedAt,
		g.EnemiesSpawned, g.EnemiesDestroyed, g.DuplicateHits)
	if err != nil {
		return "", fmt.Errorf("inserting game: %w", err)
	}

	for _, s := range standings {
		if _, err := tx.Exec(upsertPlayerSQL, s.PlayerID, s.Name, s.Color); err != nil {
			return "", fmt.Errorf("upserting player %s: %w", s.PlayerID, err)
		}
		_, err := tx.Exec(`
			INSERT INTO game_players (game_id, player_id, final_score, rank, alive)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (game_id, player_id) DO UPDATE SET final_score = $3, rank = $4, alive = $5
		`, g.ID, s.PlayerID, s.Score, s.Rank, s.Alive)
		if err != nil {
			return "", fmt.Errorf("adding game player %s: %w", s.PlayerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing game: %w", err)
	}
	return g.ID, nil
}

func (d *DB) GetGame(id string) (*GameRecord, error) {
	var g GameRecord
	err := d.conn.QueryRow(`
		SELECT id, room_code, host_id, game_time_secs, reason, started_at, ended_at,
			enemies_spawned, enemies_destroyed, duplicate_hits
		FROM games WHERE id = $1
	`, id).Scan(&g.ID, &g.RoomCode, &g.HostID, &g.GameTimeSecs, &g.Reason, &g.StartedAt, &g.EndedAt,
		&g.EnemiesSpawned, &g.EnemiesDestroyed, &g.DuplicateHits)
	if err != nil {
		return nil, fmt.Errorf("getting game: %w", err)
	}
	return &g, nil
}
