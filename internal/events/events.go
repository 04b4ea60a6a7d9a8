package events

import (
	"time"

	"skyrelay/internal/players"
)

type Kind string

const (
	RoomOpened  = Kind("room_opened")
	GameStarted = Kind("game_started")
	GameEnded   = Kind("game_ended")
	RoomClosed  = Kind("room_closed")
)

// Event is a room lifecycle transition. Result is set on GameEnded only.
type Event struct {
	Kind     Kind      `json:"kind"`
	RoomCode string    `json:"roomCode"`
	HostID   string    `json:"hostId,omitempty"`
	Players  int       `json:"players"`
	At       time.Time `json:"at"`
	Reason   string    `json:"reason,omitempty"`
	Result   *Result   `json:"result,omitempty"`
}

// Result is the final record of one contest.
type Result struct {
	RoomCode         string           `json:"roomCode"`
	HostID           string           `json:"hostId"`
	GameTime         int              `json:"gameTime"`
	StartedAt        time.Time        `json:"startedAt"`
	EndedAt          time.Time        `json:"endedAt"`
	Reason           string           `json:"reason"`
	Rankings         []players.Player `json:"rankings"`
	EnemiesSpawned   int              `json:"enemiesSpawned"`
	EnemiesDestroyed int              `json:"enemiesDestroyed"`
	DuplicateHits    int              `json:"duplicateHits"`
	UnknownHits      int              `json:"unknownHits"`
}

const busSize = 256

type Bus struct {
	Lifecycle chan Event
}

func NewBus() *Bus {
	return &Bus{
		Lifecycle: make(chan Event, busSize),
	}
}

// Publish queues ev without blocking. It reports false when the bus is
// full and the event was dropped.
func (b *Bus) Publish(ev Event) bool {
	select {
	case b.Lifecycle <- ev:
		return true
	default:
		return false
	}
}

// Close ends the stream for consumers. No Publish may follow.
func (b *Bus) Close() {
	close(b.Lifecycle)
}
