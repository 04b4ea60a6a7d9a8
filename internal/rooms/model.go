package rooms

import (
	"time"

	"skyrelay/internal/enemies"
	"skyrelay/internal/players"
)

// State is the coarse lifecycle of a room. Transitions only move forward.
type State string

const (
	StateLobby   = State("lobby")
	StateRunning = State("running")
	StateEnded   = State("ended")
)

// End reasons reported with the final ranking.
const (
	ReasonAllDead = "all_dead"
	ReasonTimeUp  = "time_up"
)

type Room struct {
	Code       string
	HostID     string
	Players    *players.Store
	Enemies    *enemies.Store
	GameTime   int // seconds
	MaxPlayers int
	Started    bool
	Ended      bool
	StartTime  time.Time
	EndTime    time.Time
	CreatedAt  time.Time
	EndReason  string
	Rankings   []players.Player
}

func New(code, hostID string, gameTime, maxPlayers int, now time.Time) *Room {
	return &Room{
		Code:       code,
		HostID:     hostID,
		Players:    players.NewStore(),
		Enemies:    enemies.NewStore(),
		GameTime:   gameTime,
		MaxPlayers: maxPlayers,
		CreatedAt:  now,
	}
}

func (r *Room) State() State {
	switch {
	case r.Ended:
		return StateEnded
	case r.Started:
		return StateRunning
	default:
		return StateLobby
	}
}

// Running reports whether gameplay commands are accepted.
func (r *Room) Running() bool {
	return r.Started && !r.Ended
}

func (r *Room) Full() bool {
	return r.Players.Count() >= r.MaxPlayers
}

// Remaining returns the seconds left in the contest, never negative. Before
// the start it is the full duration.
func (r *Room) Remaining(now time.Time) float64 {
	if !r.Started {
		return float64(r.GameTime)
	}
	elapsed := now.Sub(r.StartTime).Seconds()
	return max(0, float64(r.GameTime)-elapsed)
}

// View is the wire representation of a room.
type View struct {
	Code        string           `json:"code"`
	Host        string           `json:"host"`
	Players     []players.Player `json:"players"`
	GameTime    int              `json:"gameTime"`
	MaxPlayers  int              `json:"maxPlayers"`
	GameStarted bool             `json:"gameStarted"`
	GameEnded   bool             `json:"gameEnded"`
	StartTime   *int64           `json:"startTime"`
	EndTime     *int64           `json:"endTime"`
}

// View snapshots the room by value so it can be encoded after the event
// loop has moved on.
func (r *Room) View() View {
	return View{
		Code:        r.Code,
		Host:        r.HostID,
		Players:     r.Players.Snapshot(),
		GameTime:    r.GameTime,
		MaxPlayers:  r.MaxPlayers,
		GameStarted: r.Started,
		GameEnded:   r.Ended,
		StartTime:   unixMilli(r.StartTime),
		EndTime:     unixMilli(r.EndTime),
	}
}

// Summary is the operator-facing listing entry.
type Summary struct {
	Code       string    `json:"code"`
	State      State     `json:"state"`
	Players    int       `json:"players"`
	MaxPlayers int       `json:"maxPlayers"`
	GameTime   int       `json:"gameTime"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (r *Room) Summary() Summary {
	return Summary{
		Code:       r.Code,
		State:      r.State(),
		Players:    r.Players.Count(),
		MaxPlayers: r.MaxPlayers,
		GameTime:   r.GameTime,
		CreatedAt:  r.CreatedAt,
	}
}

func unixMilli(t time.Time) *int64 {
	if t.IsZero() {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}
