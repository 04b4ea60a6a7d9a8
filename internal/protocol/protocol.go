// Package protocol defines the JSON frames exchanged with game clients.
package protocol

import "encoding/json"

// Inbound events.
const (
	MsgCreateRoom   = "createRoom"
	MsgJoinRoom     = "joinRoom"
	MsgLeaveRoom    = "leaveRoom"
	MsgToggleReady  = "toggleReady"
	MsgStartGame    = "startGame"
	MsgMove         = "move"
	MsgShoot        = "shoot"
	MsgSpawnEnemy   = "spawnEnemy"
	MsgHit          = "hit"
	MsgPlayerHit    = "playerHit"
	MsgRequestTimer = "requestTimer"
)

// Names used by the first browser client, still accepted.
const (
	MsgPlayerMove  = "playerMove"
	MsgPlayerShoot = "playerShoot"
	MsgEnemySpawn  = "enemySpawn"
	MsgEnemyHit    = "enemyHit"
)

// Outbound events.
const (
	MsgWelcome         = "welcome"
	MsgRoomCreated     = "roomCreated"
	MsgRoomJoined      = "roomJoined"
	MsgPlayerJoined    = "playerJoined"
	MsgJoinError       = "joinError"
	MsgPlayerLeft      = "playerLeft"
	MsgHostTransferred = "hostTransferred"
	MsgPlayerReady     = "playerReady"
	MsgGameStarted     = "gameStarted"
	MsgStartError      = "startError"
	MsgPlayerMoved     = "playerMoved"
	MsgPlayerShot      = "playerShot"
	MsgEnemySpawned    = "enemySpawned"
	MsgScoreUpdate     = "scoreUpdate"
	MsgEnemyDestroyed  = "enemyDestroyed"
	MsgPlayerDied      = "playerDied"
	MsgTimerUpdate     = "timerUpdate"
	MsgGameEnded       = "gameEnded"
	MsgRoomClosed      = "roomClosed"
)

// Canonical maps legacy event names onto the current ones.
func Canonical(event string) string {
	switch event {
	case MsgPlayerMove:
		return MsgMove
	case MsgPlayerShoot:
		return MsgShoot
	case MsgEnemySpawn:
		return MsgSpawnEnemy
	case MsgEnemyHit:
		return MsgHit
	}
	return event
}

// MaxFrameSize bounds a single inbound frame.
const MaxFrameSize = 64 << 10

type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}
