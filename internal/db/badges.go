package db

import (
	"database/sql"
	"fmt"
	"time"
)

type BadgeAward struct {
	BadgeID   string
	GameID    string // empty for career badges
	AwardedAt time.Time
}

// AwardBadge records a badge for a player. A badge is kept only the first
// time it is earned. gameID is nil for career badges.
func (d *DB) AwardBadge(playerID, badgeID string, gameID *string) error {
	_, err := d.conn.Exec(`
		INSERT INTO player_badges (player_id, badge_id, game_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (player_id, badge_id) DO NOTHING
	`, playerID, badgeID, gameID)
	if err != nil {
		return fmt.Errorf("awarding badge: %w", err)
	}
	return nil
}

func (d *DB) GetPlayerBadges(playerID string) ([]BadgeAward, error) {
	rows, err := d.conn.Query(`
		SELECT badge_id, game_id, awarded_at FROM player_badges WHERE player_id = $1 ORDER BY awarded_at
	`, playerID)
	if err != nil {
		return nil, fmt.Errorf("getting badges: %w", err)
	}
	defer rows.Close()

	var badges []BadgeAward
	for rows.Next() {
		var (
			b      BadgeAward
			gameID sql.NullString
		)
		if err := rows.Scan(&b.BadgeID, &gameID, &b.AwardedAt); err != nil {
			return nil, fmt.Errorf("scanning badge: %w", err)
		}
		b.GameID = gameID.String
		badges = append(badges, b)
	}
	return badges, rows.Err()
}
