package relay

import "skyrelay/internal/rooms"

// Audience says who an outbound message was addressed to. Recipients are
// resolved into To at the moment the message is produced.
type Audience int

const (
	ToCaller Audience = iota
	ToOthers
	ToRoom
)

func (a Audience) String() string {
	switch a {
	case ToCaller:
		return "caller"
	case ToOthers:
		return "others"
	case ToRoom:
		return "room"
	}
	return "unknown"
}

// Outbound is one message the transport must deliver.
type Outbound struct {
	Audience Audience
	RoomCode string
	To       []string
	Event    string
	Payload  any
}

func toCaller(connID, event string, payload any) Outbound {
	return Outbound{Audience: ToCaller, To: []string{connID}, Event: event, Payload: payload}
}

func toOthers(room *rooms.Room, connID, event string, payload any) Outbound {
	return Outbound{
		Audience: ToOthers,
		RoomCode: room.Code,
		To:       room.Players.IDs(connID),
		Event:    event,
		Payload:  payload,
	}
}

func toRoom(room *rooms.Room, event string, payload any) Outbound {
	return Outbound{
		Audience: ToRoom,
		RoomCode: room.Code,
		To:       room.Players.IDs(""),
		Event:    event,
		Payload:  payload,
	}
}
