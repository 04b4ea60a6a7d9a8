package relay

import (
	"skyrelay/internal/events"
	"skyrelay/internal/protocol"
)

func (d *Dispatcher) toggleReady(connID string) []Outbound {
	room, err := d.roomOf(connID)
	if err != nil {
		return d.drop(connID, "toggleReady", err)
	}
	if room.Started {
		return d.drop(connID, "toggleReady", ErrGameAlreadyStarted)
	}
	p := room.Players.ToggleReady(connID)
	if p == nil {
		return d.drop(connID, "toggleReady", ErrNotInRoom)
	}
	return []Outbound{toRoom(room, protocol.MsgPlayerReady, protocol.PlayerReady{
		Room:     room.View(),
		PlayerID: connID,
		Ready:    p.Ready,
	})}
}

func (d *Dispatcher) startGame(connID string) []Outbound {
	room, err := d.roomOf(connID)
	if err != nil {
		return d.drop(connID, "startGame", err)
	}
	if room.HostID != connID {
		return d.drop(connID, "startGame", ErrNotHost)
	}
	if room.Started {
		return d.drop(connID, "startGame", ErrGameAlreadyStarted)
	}
	if !room.Players.AllReady() {
		return []Outbound{toCaller(connID, protocol.MsgStartError, protocol.Error{Message: Message(ErrNotAllReady)})}
	}

	now := d.now()
	room.Started = true
	room.StartTime = now
	room.Players.ResetAll()
	room.Enemies.Clear()

	d.logger.Info("game started", "room", room.Code, "players", room.Players.Count(), "gameTime", room.GameTime)
	d.publish(events.Event{
		Kind:     events.GameStarted,
		RoomCode: room.Code,
		HostID:   room.HostID,
		Players:  room.Players.Count(),
		At:       now,
	})

	return []Outbound{toRoom(room, protocol.MsgGameStarted, protocol.GameStarted{
		Room:      room.View(),
		StartTime: now.UnixMilli(),
	})}
}
