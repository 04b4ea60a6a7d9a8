package enemies

import "time"

// Enemy is the server's record of one host-spawned enemy. The relay never
// simulates enemies; this only tracks ids for the contest summary.
type Enemy struct {
	ID          string
	SpawnedAt   time.Time
	Destroyed   bool
	DestroyedBy string
	Reports     int
}
