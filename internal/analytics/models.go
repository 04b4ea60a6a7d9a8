package analytics

import "time"

// PlayerGameStats is one member's result in a single contest.
type PlayerGameStats struct {
	PlayerID    string `json:"playerId"`
	PlayerName  string `json:"playerName"`
	PlayerColor int    `json:"playerColor"`
	GameID      string `json:"gameId"`
	Score       int    `json:"score"`
	Rank        int    `json:"rank"`
	Alive       bool   `json:"alive"`
	Contestants int    `json:"contestants"`
	Reason      string `json:"reason"`
}

type PlayerLifetimeStats struct {
	PlayerID    string  `json:"playerId"`
	PlayerName  string  `json:"playerName"`
	PlayerColor int     `json:"playerColor"`
	GamesPlayed int     `json:"gamesPlayed"`
	TotalScore  int     `json:"totalScore"`
	BestGame    int     `json:"bestGame"`
	WinCount    int     `json:"winCount"`
	Survivals   int     `json:"survivals"`
	WinStreak   int     `json:"winStreak"`
	Badges      []Badge `json:"badges"`
}

type LeaderboardEntry struct {
	PlayerID    string `json:"playerId"`
	PlayerName  string `json:"playerName"`
	PlayerColor int    `json:"playerColor"`
	Value       int    `json:"value"`
	Rank        int    `json:"rank"`
}

type GameRecap struct {
	GameID           string            `json:"gameId"`
	RoomCode         string            `json:"roomCode"`
	Reason           string            `json:"reason"`
	StartedAt        time.Time         `json:"startedAt"`
	EndedAt          time.Time         `json:"endedAt"`
	EnemiesSpawned   int               `json:"enemiesSpawned"`
	EnemiesDestroyed int               `json:"enemiesDestroyed"`
	Players          []PlayerGameStats `json:"players"`
}
