package protocol

import (
	"encoding/json"
	"math"
)

// Payloads sent by clients. Opaque game objects (bullets, enemies,
// positions) stay raw so the relay forwards exactly what it received.

type CreateRoom struct {
	Name       string `json:"name,omitempty"`
	PlayerName string `json:"playerName,omitempty"`
	GameTime   int    `json:"gameTime,omitempty"`
	MaxPlayers int    `json:"maxPlayers,omitempty"`
}

// DisplayName prefers name over the legacy playerName.
func (c CreateRoom) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.PlayerName
}

type JoinRoom struct {
	Code       string `json:"code,omitempty"`
	RoomCode   string `json:"roomCode,omitempty"`
	Name       string `json:"name,omitempty"`
	PlayerName string `json:"playerName,omitempty"`
}

func (j JoinRoom) RoomKey() string {
	if j.Code != "" {
		return j.Code
	}
	return j.RoomCode
}

func (j JoinRoom) DisplayName() string {
	if j.Name != "" {
		return j.Name
	}
	return j.PlayerName
}

type Move struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Shoot struct {
	Bullet json.RawMessage `json:"bullet"`
}

type SpawnEnemy struct {
	Enemy json.RawMessage `json:"enemy"`
}

// EnemyID reads the id field of the opaque enemy object, if it has one.
func (s SpawnEnemy) EnemyID() string {
	var probe struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(s.Enemy, &probe); err != nil {
		return ""
	}
	return IDKey(probe.ID)
}

type Hit struct {
	EnemyID  json.RawMessage `json:"enemyId"`
	Points   float64         `json:"points,omitempty"`
	Position json.RawMessage `json:"position"`
}

// WholePoints rounds the claimed points to the nearest integer, clamped to
// the int32 range. Zero or less leaves the choice of default to the relay.
func (h Hit) WholePoints() int {
	switch {
	case math.IsNaN(h.Points) || h.Points <= 0:
		return 0
	case h.Points >= math.MaxInt32:
		return math.MaxInt32
	}
	return int(math.Round(h.Points))
}
