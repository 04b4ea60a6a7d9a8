package protocol

import (
	"encoding/json"

	"skyrelay/internal/players"
	"skyrelay/internal/rooms"
)

// Payloads sent to clients.

type Welcome struct {
	ConnectionID string `json:"connectionId"`
}

type RoomCreated struct {
	Code     string     `json:"code"`
	RoomCode string     `json:"roomCode"`
	Room     rooms.View `json:"room"`
}

type RoomJoined struct {
	Room   rooms.View     `json:"room"`
	Player players.Player `json:"player"`
}

type PlayerJoined struct {
	Room      rooms.View     `json:"room"`
	NewPlayer players.Player `json:"newPlayer"`
}

// Error carries joinError and startError messages.
type Error struct {
	Message string `json:"message"`
}

type PlayerLeft struct {
	Room rooms.View `json:"room"`
}

type HostTransferred struct {
	NewHost string     `json:"newHost"`
	Room    rooms.View `json:"room"`
}

type PlayerReady struct {
	Room     rooms.View `json:"room"`
	PlayerID string     `json:"playerId"`
	Ready    bool       `json:"ready"`
}

type GameStarted struct {
	Room      rooms.View `json:"room"`
	StartTime int64      `json:"startTime"`
}

type PlayerMoved struct {
	PlayerID string  `json:"playerId"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

type PlayerShot struct {
	PlayerID string          `json:"playerId"`
	Bullet   json.RawMessage `json:"bullet"`
}

type EnemySpawned struct {
	Enemy json.RawMessage `json:"enemy"`
}

type ScoreUpdate struct {
	PlayerID string `json:"playerId"`
	Score    int    `json:"score"`
}

type EnemyDestroyed struct {
	EnemyID  json.RawMessage `json:"enemyId"`
	Position json.RawMessage `json:"position"`
}

type PlayerDied struct {
	PlayerID string     `json:"playerId"`
	Room     rooms.View `json:"room"`
}

type TimerUpdate struct {
	TimeRemaining float64 `json:"timeRemaining"`
}

type GameEnded struct {
	Room     rooms.View       `json:"room"`
	Rankings []players.Player `json:"rankings"`
	Reason   string           `json:"reason"`
}

type RoomClosed struct {
	Code   string `json:"code"`
	Reason string `json:"reason"`
}
