package analytics

import (
	"skyrelay/internal/db"
	"skyrelay/internal/events"
)

// Standings converts a contest result into archive rows. Rankings are
// already ordered, so rank is position plus one.
func Standings(res events.Result) []db.Standing {
	out := make([]db.Standing, 0, len(res.Rankings))
	for i, p := range res.Rankings {
		out = append(out, db.Standing{
			PlayerID: p.ID,
			Name:     p.Name,
			Color:    p.Color,
			Score:    p.Score,
			Rank:     i + 1,
			Alive:    p.Alive,
		})
	}
	return out
}

// GameRecord converts a contest result into its archive header.
func GameRecord(res events.Result) db.GameRecord {
	return db.GameRecord{
		RoomCode:         res.RoomCode,
		HostID:           res.HostID,
		GameTimeSecs:     res.GameTime,
		Reason:           res.Reason,
		StartedAt:        res.StartedAt,
		EndedAt:          res.EndedAt,
		EnemiesSpawned:   res.EnemiesSpawned,
		EnemiesDestroyed: res.EnemiesDestroyed,
		DuplicateHits:    res.DuplicateHits,
	}
}

// GameStats builds per-player contest stats straight from a result, so
// badges can be evaluated without reading the archive back.
func GameStats(gameID string, res events.Result) []PlayerGameStats {
	out := make([]PlayerGameStats, 0, len(res.Rankings))
	for i, p := range res.Rankings {
		out = append(out, PlayerGameStats{
			PlayerID:    p.ID,
			PlayerName:  p.Name,
			PlayerColor: p.Color,
			GameID:      gameID,
			Score:       p.Score,
			Rank:        i + 1,
			Alive:       p.Alive,
			Contestants: len(res.Rankings),
			Reason:      res.Reason,
		})
	}
	return out
}
