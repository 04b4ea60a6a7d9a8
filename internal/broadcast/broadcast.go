package broadcast

import (
	"sync"

	"skyrelay/internal/events"
)

// Broadcaster fans lifecycle events out to every subscriber. Slow
// subscribers miss events rather than stall the bus.
type Broadcaster struct {
	Mu      sync.Mutex
	Clients map[chan events.Event]bool
	closed  bool
	done    chan struct{}
}

func NewBroadcaster(bus *events.Bus) *Broadcaster {
	b := &Broadcaster{
		Clients: make(map[chan events.Event]bool),
		done:    make(chan struct{}),
	}
	go func() {
		for ev := range bus.Lifecycle {
			b.Broadcast(ev)
		}
		b.closeAll()
	}()
	return b
}

// Subscribe returns a channel buffered to size. After the bus has closed it
// returns an already closed channel.
func (b *Broadcaster) Subscribe(size int) chan events.Event {
	ch := make(chan events.Event, size)
	b.Mu.Lock()
	defer b.Mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	b.Clients[ch] = true
	return ch
}

func (b *Broadcaster) Unsubscribe(ch chan events.Event) {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	if !b.Clients[ch] {
		return
	}
	delete(b.Clients, ch)
	close(ch)
}

// Broadcast delivers ev to every subscriber with room for it and returns
// how many were skipped.
func (b *Broadcaster) Broadcast(ev events.Event) int {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	skipped := 0
	for ch := range b.Clients {
		select {
		case ch <- ev:
		default:
			skipped++
		}
	}
	return skipped
}

// Done is closed once the bus has drained and every subscriber is closed.
func (b *Broadcaster) Done() <-chan struct{} {
	return b.done
}

func (b *Broadcaster) closeAll() {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	for ch := range b.Clients {
		close(ch)
		delete(b.Clients, ch)
	}
	b.closed = true
	close(b.done)
}
