package relay

import (
	"fmt"
	"slices"

	"skyrelay/internal/events"
	"skyrelay/internal/protocol"
	"skyrelay/internal/rooms"
)

func (d *Dispatcher) createRoom(connID string, c CreateRoom) []Outbound {
	code, err := d.uniqueCode()
	if err != nil {
		d.logger.Error("create room failed", "conn", connID, "err", err)
		return []Outbound{toCaller(connID, protocol.MsgJoinError, protocol.Error{Message: Message(err)})}
	}

	// A connection belongs to at most one room.
	out := d.removeMember(connID)

	now := d.now()
	room := rooms.New(code, connID, d.rules.GameTime(c.GameTime), d.rules.Capacity(c.MaxPlayers), now)
	room.Players.Add(connID, c.Name)
	d.registry.Put(room)
	d.registry.Bind(connID, rooms.Binding{RoomCode: code, IsHost: true})

	d.logger.Info("room created", "room", code, "host", connID,
		"gameTime", room.GameTime, "maxPlayers", room.MaxPlayers)
	d.publish(events.Event{
		Kind:     events.RoomOpened,
		RoomCode: code,
		HostID:   connID,
		Players:  1,
		At:       now,
	})

	return append(out, toCaller(connID, protocol.MsgRoomCreated, protocol.RoomCreated{
		Code:     code,
		RoomCode: code,
		Room:     room.View(),
	}))
}

func (d *Dispatcher) uniqueCode() (string, error) {
	var lastErr error
	for range maxCodeAttempts {
		code, err := d.newCode()
		if err != nil {
			lastErr = err
			continue
		}
		if d.registry.Get(code) == nil {
			return code, nil
		}
	}
	if lastErr != nil {
		return "", fmt.Errorf("%w: %w", ErrNoRoomCode, lastErr)
	}
	return "", ErrNoRoomCode
}

func (d *Dispatcher) joinRoom(connID string, c JoinRoom) []Outbound {
	code := rooms.NormalizeCode(c.Code)
	room, err := d.admit(connID, code)
	if err != nil {
		d.logger.Info("join rejected", "conn", connID, "room", code, "err", err)
		return []Outbound{toCaller(connID, protocol.MsgJoinError, protocol.Error{Message: Message(err)})}
	}

	if p := room.Players.Get(connID); p != nil {
		return []Outbound{toCaller(connID, protocol.MsgRoomJoined, protocol.RoomJoined{Room: room.View(), Player: *p})}
	}

	out := d.removeMember(connID)

	p := room.Players.Add(connID, c.Name)
	d.registry.Bind(connID, rooms.Binding{RoomCode: room.Code})
	d.logger.Info("player joined", "room", room.Code, "conn", connID, "players", room.Players.Count())

	view := room.View()
	out = append(out, toCaller(connID, protocol.MsgRoomJoined, protocol.RoomJoined{Room: view, Player: *p}))
	if others := toOthers(room, connID, protocol.MsgPlayerJoined, protocol.PlayerJoined{Room: view, NewPlayer: *p}); len(others.To) > 0 {
		out = append(out, others)
	}
	return out
}

// admit checks whether connID may enter the room with the given code.
// A connection that is already a member is always admitted.
func (d *Dispatcher) admit(connID, code string) (*rooms.Room, error) {
	room := d.registry.Get(code)
	if room == nil {
		return nil, fmt.Errorf("join %q: %w", code, ErrRoomNotFound)
	}
	if room.Players.Get(connID) != nil {
		return room, nil
	}
	if room.Started {
		return nil, fmt.Errorf("join %q: %w", code, ErrGameAlreadyStarted)
	}
	if room.Full() {
		return nil, fmt.Errorf("join %q: %w", code, ErrRoomFull)
	}
	return room, nil
}

// removeMember is the single departure path for leaveRoom and disconnects.
// It migrates the host, destroys emptied rooms and ends a running contest
// that can no longer continue.
func (d *Dispatcher) removeMember(connID string) []Outbound {
	b, ok := d.registry.Binding(connID)
	if !ok {
		return nil
	}
	d.registry.Unbind(connID)

	room := d.registry.Get(b.RoomCode)
	if room == nil || !room.Players.Remove(connID) {
		return nil
	}

	if room.Players.Count() == 0 {
		d.registry.Delete(room.Code)
		d.logger.Info("room closed", "room", room.Code, "reason", "empty")
		d.publish(events.Event{
			Kind:     events.RoomClosed,
			RoomCode: room.Code,
			At:       d.now(),
			Reason:   "empty",
		})
		return nil
	}

	var out []Outbound
	if room.HostID == connID {
		next := room.Players.First()
		room.HostID = next.ID
		d.registry.Bind(next.ID, rooms.Binding{RoomCode: room.Code, IsHost: true})
		d.logger.Info("host transferred", "room", room.Code, "from", connID, "to", next.ID)
		out = append(out, toRoom(room, protocol.MsgHostTransferred, protocol.HostTransferred{
			NewHost: next.ID,
			Room:    room.View(),
		}))
	}

	d.logger.Info("player left", "room", room.Code, "conn", connID, "players", room.Players.Count())
	out = append(out, toRoom(room, protocol.MsgPlayerLeft, protocol.PlayerLeft{Room: room.View()}))

	if room.Running() {
		out = append(out, d.evaluate(room)...)
	}
	return out
}

// sweep closes ended rooms whose contest finished more than IdleTTL ago.
func (d *Dispatcher) sweep() []Outbound {
	now := d.now()
	var out []Outbound
	for _, room := range d.registry.Stale(now, d.rules.IdleTTL) {
		members := room.Players.IDs("")
		out = append(out, Outbound{
			Audience: ToRoom,
			RoomCode: room.Code,
			To:       slices.Clone(members),
			Event:    protocol.MsgRoomClosed,
			Payload:  protocol.RoomClosed{Code: room.Code, Reason: "idle"},
		})
		for _, id := range members {
			d.registry.Unbind(id)
		}
		d.registry.Delete(room.Code)
		d.logger.Info("room closed", "room", room.Code, "reason", "idle", "members", len(members))
		d.publish(events.Event{
			Kind:     events.RoomClosed,
			RoomCode: room.Code,
			HostID:   room.HostID,
			Players:  len(members),
			At:       now,
			Reason:   "idle",
		})
	}
	return out
}
