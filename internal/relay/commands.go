package relay

import "encoding/json"

// Command is one decoded client action, or an internal tick such as Sweep.
type Command interface {
	// Event is the canonical wire event, used for logging and metrics.
	Event() string
}

type CreateRoom struct {
	Name       string
	GameTime   int
	MaxPlayers int
}

type JoinRoom struct {
	Code string
	Name string
}

type LeaveRoom struct{}

type ToggleReady struct{}

type StartGame struct{}

type Move struct {
	X, Y float64
}

type Shoot struct {
	Bullet json.RawMessage
}

// SpawnEnemy carries the opaque enemy object and the id read from it, if any.
type SpawnEnemy struct {
	ID    string
	Enemy json.RawMessage
}

// Hit reports an enemy destroyed by the sender. EnemyKey is the normalized
// id used against the ledger; EnemyID is echoed back untouched.
type Hit struct {
	EnemyKey string
	EnemyID  json.RawMessage
	Points   int
	Position json.RawMessage
}

type PlayerHit struct{}

type RequestTimer struct{}

// Disconnect is raised by the transport when a connection goes away.
type Disconnect struct{}

// Sweep closes ended rooms that have sat idle past the configured TTL.
type Sweep struct{}

func (CreateRoom) Event() string   { return "createRoom" }
func (JoinRoom) Event() string     { return "joinRoom" }
func (LeaveRoom) Event() string    { return "leaveRoom" }
func (ToggleReady) Event() string  { return "toggleReady" }
func (StartGame) Event() string    { return "startGame" }
func (Move) Event() string         { return "move" }
func (Shoot) Event() string        { return "shoot" }
func (SpawnEnemy) Event() string   { return "spawnEnemy" }
func (Hit) Event() string          { return "hit" }
func (PlayerHit) Event() string    { return "playerHit" }
func (RequestTimer) Event() string { return "requestTimer" }
func (Disconnect) Event() string   { return "disconnect" }
func (Sweep) Event() string        { return "sweep" }
