package players

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"
)

// MaxScore caps a player's score. It is the largest value the archive's
// score column holds.
const MaxScore = math.MaxInt32

// Store keeps the members of one room in join order. It is owned by the
// hub's event loop and is not safe for concurrent use.
type Store struct {
	players []*Player
}

func NewStore() *Store {
	return &Store{}
}

// DefaultName derives a display name from the connection id when the
// client sent none.
func DefaultName(id string) string {
	short := id
	if len(short) > 6 {
		short = short[:6]
	}
	return fmt.Sprintf("Player %s", short)
}

// Add appends a player at the end of the join order. The colour is taken
// from the position the player lands on.
func (s *Store) Add(id string, name string) *Player {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultName(id)
	}
	player := &Player{
		ID:    id,
		Name:  name,
		Color: ColorAt(len(s.players)),
		Alive: true,
	}
	s.players = append(s.players, player)
	return player
}

func (s *Store) Get(id string) *Player {
	for _, p := range s.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Snapshot returns value copies in join order, safe to hand to encoders
// running outside the event loop.
func (s *Store) Snapshot() []Player {
	out := make([]Player, len(s.players))
	for i, p := range s.players {
		out[i] = *p
	}
	return out
}

// First returns the earliest remaining member, or nil when empty.
func (s *Store) First() *Player {
	if len(s.players) == 0 {
		return nil
	}
	return s.players[0]
}

func (s *Store) Remove(id string) bool {
	for i, p := range s.players {
		if p.ID == id {
			s.players = slices.Delete(s.players, i, i+1)
			return true
		}
	}
	return false
}

func (s *Store) Count() int {
	return len(s.players)
}

// IDs returns member ids in join order, optionally skipping one.
func (s *Store) IDs(except string) []string {
	ids := make([]string, 0, len(s.players))
	for _, p := range s.players {
		if p.ID == except {
			continue
		}
		ids = append(ids, p.ID)
	}
	return ids
}

// UpdateScore adds points to the player's score, saturating at MaxScore.
// Non-positive points leave the score unchanged.
func (s *Store) UpdateScore(id string, points int) *Player {
	p := s.Get(id)
	if p == nil {
		return nil
	}
	if points > 0 {
		if points >= MaxScore-p.Score {
			p.Score = MaxScore
		} else {
			p.Score += points
		}
	}
	return p
}

func (s *Store) ToggleReady(id string) *Player {
	if p := s.Get(id); p != nil {
		p.Ready = !p.Ready
		return p
	}
	return nil
}

func (s *Store) MarkDead(id string) *Player {
	if p := s.Get(id); p != nil {
		p.Alive = false
		return p
	}
	return nil
}

// AllReady reports whether every member has flagged ready. An empty store
// is never ready.
func (s *Store) AllReady() bool {
	if len(s.players) == 0 {
		return false
	}
	for _, player := range s.players {
		if !player.Ready {
			return false
		}
	}
	return true
}

func (s *Store) AliveCount() int {
	n := 0
	for _, p := range s.players {
		if p.Alive {
			n++
		}
	}
	return n
}

// ResetAll prepares every member for a fresh contest.
func (s *Store) ResetAll() {
	for _, p := range s.players {
		p.Score = 0
		p.Ready = false
		p.Alive = true
	}
}

// Rankings orders members by score, highest first. Equal scores keep join
// order.
func (s *Store) Rankings() []Player {
	ranked := s.Snapshot()
	slices.SortStableFunc(ranked, func(a, b Player) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return ranked
}
