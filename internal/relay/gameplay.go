package relay

import (
	"errors"

	"skyrelay/internal/enemies"
	"skyrelay/internal/protocol"
	"skyrelay/internal/rooms"
)

// defaultPoints is awarded for a hit that names no positive value.
const defaultPoints = 10

var errNotRunning = errors.New("no contest running")

// runningRoom resolves the caller's room when it accepts gameplay traffic.
func (d *Dispatcher) runningRoom(connID string) (*rooms.Room, error) {
	room, err := d.roomOf(connID)
	if err != nil {
		return nil, err
	}
	if !room.Running() {
		return nil, errNotRunning
	}
	return room, nil
}

func (d *Dispatcher) move(connID string, c Move) []Outbound {
	room, err := d.runningRoom(connID)
	if err != nil {
		return d.drop(connID, "move", err)
	}
	return []Outbound{toOthers(room, connID, protocol.MsgPlayerMoved, protocol.PlayerMoved{
		PlayerID: connID,
		X:        c.X,
		Y:        c.Y,
	})}
}

func (d *Dispatcher) shoot(connID string, c Shoot) []Outbound {
	room, err := d.runningRoom(connID)
	if err != nil {
		return d.drop(connID, "shoot", err)
	}
	return []Outbound{toOthers(room, connID, protocol.MsgPlayerShot, protocol.PlayerShot{
		PlayerID: connID,
		Bullet:   c.Bullet,
	})}
}

func (d *Dispatcher) spawnEnemy(connID string, c SpawnEnemy) []Outbound {
	room, err := d.runningRoom(connID)
	if err != nil {
		return d.drop(connID, "spawnEnemy", err)
	}
	if room.HostID != connID {
		return d.drop(connID, "spawnEnemy", ErrNotHost)
	}
	room.Enemies.Spawn(c.ID, d.now())
	return []Outbound{toRoom(room, protocol.MsgEnemySpawned, protocol.EnemySpawned{Enemy: c.Enemy})}
}

func (d *Dispatcher) hit(connID string, c Hit) []Outbound {
	room, err := d.runningRoom(connID)
	if err != nil {
		return d.drop(connID, "hit", err)
	}
	points := d.rules.HitPoints(c.Points)
	if points != c.Points && c.Points > 0 {
		d.logger.Warn("hit points capped", "room", room.Code, "conn", connID,
			"claimed", c.Points, "awarded", points)
	}

	// Every report scores; the ledger only tells us how it relates to
	// earlier reports for the same enemy.
	switch room.Enemies.Destroy(c.EnemyKey, connID) {
	case enemies.ReportDuplicate:
		first := room.Enemies.Get(c.EnemyKey)
		d.logger.Warn("duplicate enemy hit", "room", room.Code, "conn", connID,
			"enemy", c.EnemyKey, "firstBy", first.DestroyedBy)
	case enemies.ReportUnknown:
		d.logger.Debug("hit on untracked enemy", "room", room.Code, "conn", connID, "enemy", c.EnemyKey)
	}

	p := room.Players.UpdateScore(connID, points)
	if p == nil {
		return d.drop(connID, "hit", ErrNotInRoom)
	}
	return []Outbound{
		toRoom(room, protocol.MsgScoreUpdate, protocol.ScoreUpdate{PlayerID: connID, Score: p.Score}),
		toRoom(room, protocol.MsgEnemyDestroyed, protocol.EnemyDestroyed{EnemyID: c.EnemyID, Position: c.Position}),
	}
}

func (d *Dispatcher) playerHit(connID string) []Outbound {
	room, err := d.runningRoom(connID)
	if err != nil {
		return d.drop(connID, "playerHit", err)
	}
	if room.Players.MarkDead(connID) == nil {
		return d.drop(connID, "playerHit", ErrNotInRoom)
	}
	d.logger.Info("player died", "room", room.Code, "conn", connID, "alive", room.Players.AliveCount())
	out := []Outbound{toRoom(room, protocol.MsgPlayerDied, protocol.PlayerDied{
		PlayerID: connID,
		Room:     room.View(),
	})}
	return append(out, d.evaluate(room)...)
}
