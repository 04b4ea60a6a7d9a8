package relay

import (
	"slices"
	"time"

	"skyrelay/internal/events"
	"skyrelay/internal/protocol"
	"skyrelay/internal/rooms"
)

// requestTimer answers the caller with the time left and ends the contest
// once it has run out.
func (d *Dispatcher) requestTimer(connID string) []Outbound {
	room, err := d.runningRoom(connID)
	if err != nil {
		return d.drop(connID, "requestTimer", err)
	}
	remaining := room.Remaining(d.now())
	out := []Outbound{toCaller(connID, protocol.MsgTimerUpdate, protocol.TimerUpdate{TimeRemaining: remaining})}
	if remaining <= 0 {
		out = append(out, d.evaluate(room)...)
	}
	return out
}

// evaluate ends a running contest when nobody is alive or time is up.
// It is idempotent: an ended room is never ended again. When both hold,
// all_dead wins.
func (d *Dispatcher) evaluate(room *rooms.Room) []Outbound {
	if !room.Running() {
		return nil
	}
	now := d.now()
	var reason string
	switch {
	case room.Players.AliveCount() == 0:
		reason = rooms.ReasonAllDead
	case room.Remaining(now) <= 0:
		reason = rooms.ReasonTimeUp
	default:
		return nil
	}

	room.Ended = true
	room.EndTime = now
	room.EndReason = reason
	room.Rankings = room.Players.Rankings()

	d.logger.Info("game ended", "room", room.Code, "reason", reason,
		"duration", now.Sub(room.StartTime).Round(time.Millisecond).String())
	d.publish(events.Event{
		Kind:     events.GameEnded,
		RoomCode: room.Code,
		HostID:   room.HostID,
		Players:  room.Players.Count(),
		At:       now,
		Reason:   reason,
		Result:   resultOf(room),
	})

	return []Outbound{toRoom(room, protocol.MsgGameEnded, protocol.GameEnded{
		Room:     room.View(),
		Rankings: room.Rankings,
		Reason:   reason,
	})}
}

func resultOf(room *rooms.Room) *events.Result {
	return &events.Result{
		RoomCode:         room.Code,
		HostID:           room.HostID,
		GameTime:         room.GameTime,
		StartedAt:        room.StartTime,
		EndedAt:          room.EndTime,
		Reason:           room.EndReason,
		Rankings:         slices.Clone(room.Rankings),
		EnemiesSpawned:   room.Enemies.Spawned(),
		EnemiesDestroyed: room.Enemies.Destroyed(),
		DuplicateHits:    room.Enemies.Duplicates(),
		UnknownHits:      room.Enemies.Unknown(),
	}
}
