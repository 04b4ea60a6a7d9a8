package protocol

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeEnvelope(t *testing.T) {
	b, err := Encode(MsgPlayerMoved, PlayerMoved{PlayerID: "p1", X: 10, Y: 20.5})
	require.NoError(t, err)

	env, err := DecodeEnvelope(b)
	require.NoError(t, err)
	assert.Equal(t, MsgPlayerMoved, env.Event)

	got, err := DecodePayload[PlayerMoved](env)
	require.NoError(t, err)
	assert.Equal(t, PlayerMoved{PlayerID: "p1", X: 10, Y: 20.5}, got)
}

func TestEncode_NilPayloadOmitsData(t *testing.T) {
	b, err := Encode(MsgLeaveRoom, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"leaveRoom"}`, string(b))
}

func TestEncode_RejectsEmptyEvent(t *testing.T) {
	_, err := Encode("", Error{Message: "x"})
	assert.Error(t, err)
}

func TestDecodeEnvelope_Errors(t *testing.T) {
	_, err := DecodeEnvelope(nil)
	assert.ErrorIs(t, err, ErrEmptyFrame)

	_, err = DecodeEnvelope([]byte(`{not json`))
	assert.Error(t, err)

	_, err = DecodeEnvelope([]byte(`{"data":{}}`))
	assert.Error(t, err, "missing event name")
}

func TestDecodePayload_MissingDataIsZero(t *testing.T) {
	env, err := DecodeEnvelope([]byte(`{"event":"toggleReady"}`))
	require.NoError(t, err)
	got, err := DecodePayload[Move](env)
	require.NoError(t, err)
	assert.Equal(t, Move{}, got)

	env, err = DecodeEnvelope([]byte(`{"event":"move","data":null}`))
	require.NoError(t, err)
	_, err = DecodePayload[Move](env)
	assert.NoError(t, err)
}

func TestDecodePayload_WrongShape(t *testing.T) {
	env, err := DecodeEnvelope([]byte(`{"event":"move","data":{"x":"left"}}`))
	require.NoError(t, err)
	_, err = DecodePayload[Move](env)
	assert.Error(t, err)
}

func TestCanonical(t *testing.T) {
	assert.Equal(t, MsgMove, Canonical(MsgPlayerMove))
	assert.Equal(t, MsgShoot, Canonical(MsgPlayerShoot))
	assert.Equal(t, MsgSpawnEnemy, Canonical(MsgEnemySpawn))
	assert.Equal(t, MsgHit, Canonical(MsgEnemyHit))
	assert.Equal(t, MsgStartGame, Canonical(MsgStartGame))
}

func TestIDKey(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{`"enemy_7"`, "enemy_7"},
		{`42`, "42"},
		{` -3 `, "-3"},
		{`{"id":1}`, ""},
		{`null`, ""},
		{``, ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, IDKey(json.RawMessage(tc.raw)), "raw %q", tc.raw)
	}
}

func TestSpawnEnemy_EnemyID(t *testing.T) {
	s := SpawnEnemy{Enemy: json.RawMessage(`{"id":"e-12","x":100,"type":"drone"}`)}
	assert.Equal(t, "e-12", s.EnemyID())

	s = SpawnEnemy{Enemy: json.RawMessage(`{"x":100}`)}
	assert.Equal(t, "", s.EnemyID())

	s = SpawnEnemy{}
	assert.Equal(t, "", s.EnemyID())
}

func TestHit_WholePoints(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{`{"enemyId":"e1","points":20}`, 20},
		{`{"enemyId":"e1","points":12.5}`, 13},
		{`{"enemyId":"e1","points":12.4}`, 12},
		{`{"enemyId":"e1"}`, 0},
		{`{"enemyId":"e1","points":-3.5}`, 0},
		{`{"enemyId":"e1","points":1e300}`, math.MaxInt32},
	}
	for _, tc := range cases {
		env, err := DecodeEnvelope([]byte(`{"event":"hit","data":` + tc.raw + `}`))
		require.NoError(t, err)
		h, err := DecodePayload[Hit](env)
		require.NoError(t, err, "payload %s", tc.raw)
		assert.Equal(t, tc.want, h.WholePoints(), "payload %s", tc.raw)
	}
}

func TestLegacyFieldNames(t *testing.T) {
	env, err := DecodeEnvelope([]byte(`{"event":"joinRoom","data":{"roomCode":"abc123","playerName":"Ann"}}`))
	require.NoError(t, err)
	j, err := DecodePayload[JoinRoom](env)
	require.NoError(t, err)
	assert.Equal(t, "abc123", j.RoomKey())
	assert.Equal(t, "Ann", j.DisplayName())

	c := CreateRoom{Name: "New", PlayerName: "Old"}
	assert.Equal(t, "New", c.DisplayName())
}

func TestRawPayloadsRoundTripVerbatim(t *testing.T) {
	bullet := json.RawMessage(`{"x":1,"y":2,"angle":0.5}`)
	b, err := Encode(MsgPlayerShot, PlayerShot{PlayerID: "p1", Bullet: bullet})
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"playerShot","data":{"playerId":"p1","bullet":{"x":1,"y":2,"angle":0.5}}}`, string(b))
}
