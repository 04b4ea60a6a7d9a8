package enemies

import "time"

// Report describes how a destruction report related to the ledger.
type Report int

const (
	// ReportFirst is the first destruction report for a known enemy.
	ReportFirst Report = iota
	// ReportDuplicate is a further report for an enemy already destroyed.
	ReportDuplicate
	// ReportUnknown names an id that was never spawned in this contest.
	ReportUnknown
)

// Store is the per-room enemy ledger. Like the room it belongs to, it is
// only touched from the hub's event loop.
type Store struct {
	enemies   map[string]*Enemy
	spawned   int
	destroyed int
	unknown   int
	dupes     int
}

func NewStore() *Store {
	return &Store{
		enemies: make(map[string]*Enemy),
	}
}

// Spawn records a spawn. An empty id still counts towards the total but
// cannot be matched later.
func (s *Store) Spawn(id string, at time.Time) *Enemy {
	s.spawned++
	if id == "" {
		return nil
	}
	enemy := &Enemy{ID: id, SpawnedAt: at}
	s.enemies[id] = enemy
	return enemy
}

func (s *Store) Get(id string) *Enemy {
	return s.enemies[id]
}

// Destroy records a destruction report by playerID and classifies it.
func (s *Store) Destroy(id, playerID string) Report {
	e, ok := s.enemies[id]
	if !ok {
		s.unknown++
		return ReportUnknown
	}
	e.Reports++
	if e.Destroyed {
		s.dupes++
		return ReportDuplicate
	}
	e.Destroyed = true
	e.DestroyedBy = playerID
	s.destroyed++
	return ReportFirst
}

func (s *Store) Spawned() int   { return s.spawned }
func (s *Store) Destroyed() int { return s.destroyed }
func (s *Store) Unknown() int   { return s.unknown }

// Duplicates counts reports for enemies that were already destroyed.
func (s *Store) Duplicates() int { return s.dupes }

func (s *Store) Clear() {
	s.enemies = make(map[string]*Enemy)
	s.spawned = 0
	s.destroyed = 0
	s.unknown = 0
	s.dupes = 0
}
