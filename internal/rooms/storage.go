package rooms

import (
	"slices"
	"strings"
	"time"
)

// Binding is the per-connection record: which room a connection is in and
// whether it holds host authority there.
type Binding struct {
	RoomCode string
	IsHost   bool
}

// Registry maps room codes to rooms and connection ids to bindings. It
// holds no policy; uniqueness of codes is the caller's job. Access is
// confined to the hub's event loop, so there is no locking.
type Registry struct {
	rooms    map[string]*Room
	bindings map[string]Binding
}

func NewRegistry() *Registry {
	return &Registry{
		rooms:    make(map[string]*Room),
		bindings: make(map[string]Binding),
	}
}

func (s *Registry) Put(room *Room) {
	s.rooms[room.Code] = room
}

// Get looks a room up by code, ignoring case.
func (s *Registry) Get(code string) *Room {
	return s.rooms[NormalizeCode(code)]
}

func (s *Registry) Delete(code string) {
	delete(s.rooms, NormalizeCode(code))
}

func (s *Registry) Bind(connID string, b Binding) {
	s.bindings[connID] = b
}

func (s *Registry) Binding(connID string) (Binding, bool) {
	b, ok := s.bindings[connID]
	return b, ok
}

func (s *Registry) Unbind(connID string) {
	delete(s.bindings, connID)
}

func (s *Registry) Len() int {
	return len(s.rooms)
}

func (s *Registry) Connections() int {
	return len(s.bindings)
}

// List returns live rooms ordered by code.
func (s *Registry) List() []*Room {
	list := make([]*Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		list = append(list, r)
	}
	slices.SortFunc(list, func(a, b *Room) int {
		return strings.Compare(a.Code, b.Code)
	})
	return list
}

// Stale returns rooms whose contest ended more than ttl before now.
func (s *Registry) Stale(now time.Time, ttl time.Duration) []*Room {
	var stale []*Room
	for _, r := range s.List() {
		if r.Ended && now.Sub(r.EndTime) > ttl {
			stale = append(stale, r)
		}
	}
	return stale
}

// Close drops every room and binding.
func (s *Registry) Close() {
	clear(s.rooms)
	clear(s.bindings)
}
