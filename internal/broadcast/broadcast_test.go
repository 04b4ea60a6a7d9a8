package broadcast

import (
	"testing"
	"time"

	"skyrelay/internal/events"
)

func TestNewBroadcaster(t *testing.T) {
	bus := events.NewBus()
	b := NewBroadcaster(bus)
	if b == nil {
		t.Fatal("NewBroadcaster() returned nil")
	}
}

func TestBroadcaster_SubscribeUnsubscribe(t *testing.T) {
	bus := events.NewBus()
	b := NewBroadcaster(bus)

	ch := b.Subscribe(4)
	if ch == nil {
		t.Fatal("Subscribe() returned nil")
	}

	b.Mu.Lock()
	if len(b.Clients) != 1 {
		t.Errorf("clients count = %d, want 1", len(b.Clients))
	}
	b.Mu.Unlock()

	b.Unsubscribe(ch)
	b.Unsubscribe(ch)

	b.Mu.Lock()
	if len(b.Clients) != 0 {
		t.Errorf("clients count after unsubscribe = %d, want 0", len(b.Clients))
	}
	b.Mu.Unlock()
}

func TestBroadcaster_Broadcast(t *testing.T) {
	bus := events.NewBus()
	b := NewBroadcaster(bus)

	ch1 := b.Subscribe(4)
	ch2 := b.Subscribe(4)

	if skipped := b.Broadcast(events.Event{Kind: events.RoomOpened, RoomCode: "ABCDEF"}); skipped != 0 {
		t.Errorf("skipped = %d, want 0", skipped)
	}

	for i, ch := range []chan events.Event{ch1, ch2} {
		select {
		case ev := <-ch:
			if ev.Kind != events.RoomOpened || ev.RoomCode != "ABCDEF" {
				t.Errorf("subscriber %d got %+v", i, ev)
			}
		case <-time.After(1 * time.Second):
			t.Fatalf("subscriber %d timed out", i)
		}
	}
}

func TestBroadcaster_SkipsFullSubscriber(t *testing.T) {
	bus := events.NewBus()
	b := NewBroadcaster(bus)

	full := b.Subscribe(1)
	b.Broadcast(events.Event{Kind: events.RoomOpened})

	if skipped := b.Broadcast(events.Event{Kind: events.RoomClosed}); skipped != 1 {
		t.Errorf("skipped = %d, want 1", skipped)
	}
	if ev := <-full; ev.Kind != events.RoomOpened {
		t.Errorf("got %v, want the first event", ev.Kind)
	}
}

func TestBroadcaster_ForwardsBus(t *testing.T) {
	bus := events.NewBus()
	b := NewBroadcaster(bus)
	ch := b.Subscribe(4)

	bus.Publish(events.Event{Kind: events.GameEnded, RoomCode: "XYZ234"})

	select {
	case ev := <-ch:
		if ev.Kind != events.GameEnded {
			t.Errorf("Kind = %v, want %v", ev.Kind, events.GameEnded)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for bus event")
	}
}

func TestBroadcaster_BusCloseClosesSubscribers(t *testing.T) {
	bus := events.NewBus()
	b := NewBroadcaster(bus)
	ch := b.Subscribe(4)

	bus.Close()

	select {
	case <-b.Done():
	case <-time.After(1 * time.Second):
		t.Fatal("broadcaster did not finish after bus close")
	}
	if _, ok := <-ch; ok {
		t.Error("subscriber channel should be closed")
	}
	if _, ok := <-b.Subscribe(1); ok {
		t.Error("late Subscribe should return a closed channel")
	}
	b.Unsubscribe(ch)
}
