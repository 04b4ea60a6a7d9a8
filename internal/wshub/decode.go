package wshub

import (
	"errors"
	"fmt"

	"skyrelay/internal/protocol"
	"skyrelay/internal/relay"
)

var ErrUnknownEvent = errors.New("unknown event")

// Decode turns one client frame into a relay command. Legacy event names
// are accepted.
func Decode(frame []byte) (relay.Command, error) {
	env, err := protocol.DecodeEnvelope(frame)
	if err != nil {
		return nil, err
	}
	event := protocol.Canonical(env.Event)

	switch event {
	case protocol.MsgCreateRoom:
		p, err := protocol.DecodePayload[protocol.CreateRoom](env)
		if err != nil {
			return nil, wrap(event, err)
		}
		return relay.CreateRoom{Name: p.DisplayName(), GameTime: p.GameTime, MaxPlayers: p.MaxPlayers}, nil
	case protocol.MsgJoinRoom:
		p, err := protocol.DecodePayload[protocol.JoinRoom](env)
		if err != nil {
			return nil, wrap(event, err)
		}
		return relay.JoinRoom{Code: p.RoomKey(), Name: p.DisplayName()}, nil
	case protocol.MsgLeaveRoom:
		return relay.LeaveRoom{}, nil
	case protocol.MsgToggleReady:
		return relay.ToggleReady{}, nil
	case protocol.MsgStartGame:
		return relay.StartGame{}, nil
	case protocol.MsgMove:
		p, err := protocol.DecodePayload[protocol.Move](env)
		if err != nil {
			return nil, wrap(event, err)
		}
		return relay.Move{X: p.X, Y: p.Y}, nil
	case protocol.MsgShoot:
		p, err := protocol.DecodePayload[protocol.Shoot](env)
		if err != nil {
			return nil, wrap(event, err)
		}
		return relay.Shoot{Bullet: p.Bullet}, nil
	case protocol.MsgSpawnEnemy:
		p, err := protocol.DecodePayload[protocol.SpawnEnemy](env)
		if err != nil {
			return nil, wrap(event, err)
		}
		return relay.SpawnEnemy{ID: p.EnemyID(), Enemy: p.Enemy}, nil
	case protocol.MsgHit:
		p, err := protocol.DecodePayload[protocol.Hit](env)
		if err != nil {
			return nil, wrap(event, err)
		}
		return relay.Hit{
			EnemyKey: protocol.IDKey(p.EnemyID),
			EnemyID:  p.EnemyID,
			Points:   p.WholePoints(),
			Position: p.Position,
		}, nil
	case protocol.MsgPlayerHit:
		return relay.PlayerHit{}, nil
	case protocol.MsgRequestTimer:
		return relay.RequestTimer{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, env.Event)
}

func wrap(event string, err error) error {
	return fmt.Errorf("decode %s: %w", event, err)
}
