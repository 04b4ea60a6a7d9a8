package publish

import (
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skyrelay/internal/events"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "skyrelay.room_opened", Subject(events.RoomOpened))
	assert.Equal(t, "skyrelay.game_ended", Subject(events.GameEnded))
}

func TestPublisher_Publish(t *testing.T) {
	url := os.Getenv("TEST_NATS_URL")
	if url == "" {
		t.Skip("TEST_NATS_URL not set, skipping NATS tests")
	}

	p, err := Connect(url, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })

	sub, err := p.conn.SubscribeSync(Subject(events.GameStarted))
	require.NoError(t, err)
	require.NoError(t, p.conn.Flush())

	require.NoError(t, p.Publish(events.Event{Kind: events.GameStarted, RoomCode: "ABCDEF", Players: 3}))

	msg, err := sub.NextMsg(2 * time.Second)
	require.NoError(t, err)

	var got events.Event
	require.NoError(t, json.Unmarshal(msg.Data, &got))
	assert.Equal(t, "ABCDEF", got.RoomCode)
	assert.Equal(t, 3, got.Players)
}

func TestConnect_BadURL(t *testing.T) {
	_, err := Connect("nats://127.0.0.1:1", slog.Default())
	assert.Error(t, err)
}
