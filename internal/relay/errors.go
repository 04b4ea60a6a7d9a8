package relay

import "errors"

var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrGameAlreadyStarted = errors.New("game already started")
	ErrRoomFull           = errors.New("room is full")
	ErrNotAllReady        = errors.New("not all players are ready")
	ErrNotHost            = errors.New("only the host can do that")
	ErrNotInRoom          = errors.New("not in a room")
	ErrNoRoomCode         = errors.New("could not allocate a room code")
)

// userMessages are the texts clients display for rejected requests.
var userMessages = map[error]string{
	ErrRoomNotFound:       "Room not found",
	ErrGameAlreadyStarted: "Game already started",
	ErrRoomFull:           "Room is full",
	ErrNotAllReady:        "Not all players are ready",
	ErrNoRoomCode:         "Could not create a room, try again",
}

// Message returns the client-facing text for err.
func Message(err error) string {
	for target, msg := range userMessages {
		if errors.Is(err, target) {
			return msg
		}
	}
	return err.Error()
}
