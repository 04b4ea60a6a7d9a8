package players

import (
	"math"
	"strings"
	"testing"
)

func TestNewStore(t *testing.T) {
	s := NewStore()
	if s == nil {
		t.Fatal("NewStore() returned nil")
	}
	list := s.Snapshot()
	if len(list) != 0 {
		t.Errorf("new store should be empty, got %d players", len(list))
	}
}

func TestStore_Add(t *testing.T) {
	s := NewStore()
	p := s.Add("id1", "Alice")

	if p.ID != "id1" {
		t.Errorf("player ID = %q, want %q", p.ID, "id1")
	}
	if p.Name != "Alice" {
		t.Errorf("player Name = %q, want %q", p.Name, "Alice")
	}
	if p.Color != Palette[0] {
		t.Errorf("player Color = %#x, want %#x", p.Color, Palette[0])
	}
	if p.Score != 0 {
		t.Errorf("player Score = %d, want 0", p.Score)
	}
	if p.Ready {
		t.Error("player Ready should be false")
	}
	if !p.Alive {
		t.Error("player Alive should be true")
	}
}

func TestStore_Add_DefaultName(t *testing.T) {
	s := NewStore()
	p := s.Add("abcdef123456", "   ")
	if p.Name != "Player abcdef" {
		t.Errorf("Name = %q, want %q", p.Name, "Player abcdef")
	}

	p = s.Add("ab", "")
	if !strings.HasPrefix(p.Name, "Player ") {
		t.Errorf("Name = %q, want Player prefix", p.Name)
	}
}

func TestStore_ColorsFollowJoinOrder(t *testing.T) {
	s := NewStore()
	for i := 0; i < len(Palette)+2; i++ {
		p := s.Add(string(rune('a'+i)), "")
		if p.Color != Palette[i%len(Palette)] {
			t.Errorf("player %d Color = %#x, want %#x", i, p.Color, Palette[i%len(Palette)])
		}
	}
}

func TestStore_Get(t *testing.T) {
	s := NewStore()
	s.Add("id1", "Alice")

	p := s.Get("id1")
	if p == nil {
		t.Fatal("Get returned nil for existing player")
	}
	if p.Name != "Alice" {
		t.Errorf("Name = %q, want %q", p.Name, "Alice")
	}

	p2 := s.Get("nonexistent")
	if p2 != nil {
		t.Error("Get should return nil for nonexistent player")
	}
}

func TestStore_Snapshot_JoinOrder(t *testing.T) {
	s := NewStore()
	s.Add("id1", "Alice")
	s.Add("id2", "Bob")
	s.Add("id3", "Carol")

	list := s.Snapshot()
	if len(list) != 3 {
		t.Fatalf("Snapshot() returned %d players, want 3", len(list))
	}
	for i, want := range []string{"id1", "id2", "id3"} {
		if list[i].ID != want {
			t.Errorf("list[%d] = %q, want %q", i, list[i].ID, want)
		}
	}
}

func TestStore_UpdateScore(t *testing.T) {
	s := NewStore()
	s.Add("id1", "Alice")

	p := s.UpdateScore("id1", 10)
	if p.Score != 10 {
		t.Errorf("Score = %d, want 10", p.Score)
	}

	p = s.UpdateScore("id1", 5)
	if p.Score != 15 {
		t.Errorf("Score = %d, want 15", p.Score)
	}

	p = s.UpdateScore("nonexistent", 5)
	if p != nil {
		t.Error("UpdateScore should return nil for nonexistent player")
	}
}

func TestStore_ToggleReady(t *testing.T) {
	s := NewStore()
	s.Add("id1", "Alice")

	p := s.ToggleReady("id1")
	if !p.Ready {
		t.Error("player should be ready")
	}

	p = s.ToggleReady("id1")
	if p.Ready {
		t.Error("player should not be ready")
	}

	if s.ToggleReady("nonexistent") != nil {
		t.Error("ToggleReady should return nil for nonexistent player")
	}
}

func TestStore_AllReady(t *testing.T) {
	s := NewStore()

	if s.AllReady() {
		t.Error("AllReady should be false for empty store")
	}

	s.Add("id1", "Alice")
	s.Add("id2", "Bob")

	if s.AllReady() {
		t.Error("AllReady should be false when no one is ready")
	}

	s.ToggleReady("id1")
	if s.AllReady() {
		t.Error("AllReady should be false when only one player is ready")
	}

	s.ToggleReady("id2")
	if !s.AllReady() {
		t.Error("AllReady should be true when all players are ready")
	}
}

func TestStore_RemoveKeepsOrder(t *testing.T) {
	s := NewStore()
	s.Add("id1", "Alice")
	s.Add("id2", "Bob")
	s.Add("id3", "Carol")

	if !s.Remove("id1") {
		t.Error("Remove should return true for existing player")
	}
	if s.Get("id1") != nil {
		t.Error("player should be nil after removal")
	}
	if first := s.First(); first == nil || first.ID != "id2" {
		t.Errorf("First() = %v, want id2", first)
	}
	if s.Remove("nonexistent") {
		t.Error("Remove should return false for nonexistent player")
	}
}

func TestStore_Count(t *testing.T) {
	s := NewStore()
	if s.Count() != 0 {
		t.Errorf("Count = %d, want 0", s.Count())
	}

	s.Add("id1", "Alice")
	s.Add("id2", "Bob")
	if s.Count() != 2 {
		t.Errorf("Count = %d, want 2", s.Count())
	}

	s.Remove("id1")
	if s.Count() != 1 {
		t.Errorf("Count = %d, want 1 after removal", s.Count())
	}
}

func TestStore_IDsExcept(t *testing.T) {
	s := NewStore()
	s.Add("id1", "Alice")
	s.Add("id2", "Bob")
	s.Add("id3", "Carol")

	ids := s.IDs("id2")
	if len(ids) != 2 || ids[0] != "id1" || ids[1] != "id3" {
		t.Errorf("IDs(id2) = %v, want [id1 id3]", ids)
	}
}

func TestStore_AliveCount(t *testing.T) {
	s := NewStore()
	s.Add("id1", "Alice")
	s.Add("id2", "Bob")

	if s.AliveCount() != 2 {
		t.Errorf("AliveCount = %d, want 2", s.AliveCount())
	}
	s.MarkDead("id1")
	if s.AliveCount() != 1 {
		t.Errorf("AliveCount = %d, want 1", s.AliveCount())
	}
}

func TestStore_ResetAll(t *testing.T) {
	s := NewStore()
	s.Add("id1", "Alice")
	s.Add("id2", "Bob")
	s.UpdateScore("id1", 100)
	s.ToggleReady("id1")
	s.ToggleReady("id2")
	s.MarkDead("id2")

	s.ResetAll()

	for _, p := range s.Snapshot() {
		if p.Score != 0 {
			t.Errorf("%s score = %d, want 0", p.ID, p.Score)
		}
		if p.Ready {
			t.Errorf("%s should not be ready", p.ID)
		}
		if !p.Alive {
			t.Errorf("%s should be alive", p.ID)
		}
	}
	if s.Count() != 2 {
		t.Error("players should still exist after reset")
	}
}

func TestStore_RankingsStableOnTies(t *testing.T) {
	s := NewStore()
	s.Add("a", "A")
	s.Add("b", "B")
	s.Add("c", "C")
	s.Add("d", "D")
	s.UpdateScore("b", 20)
	s.UpdateScore("c", 30)
	s.UpdateScore("d", 20)

	ranked := s.Rankings()
	want := []string{"c", "b", "d", "a"}
	for i, id := range want {
		if ranked[i].ID != id {
			t.Errorf("rank %d = %q, want %q", i, ranked[i].ID, id)
		}
	}

	// rankings are copies
	ranked[0].Score = 999
	if s.Get("c").Score != 30 {
		t.Error("Rankings should not alias store players")
	}
}

func TestStore_UpdateScoreSaturates(t *testing.T) {
	s := NewStore()
	s.Add("a", "A")
	s.Add("b", "B")
	s.UpdateScore("b", 5)

	s.UpdateScore("a", math.MaxInt)
	if got := s.Get("a").Score; got != MaxScore {
		t.Fatalf("score = %d, want %d", got, MaxScore)
	}
	s.UpdateScore("a", 10)
	if got := s.Get("a").Score; got != MaxScore {
		t.Errorf("score after further hit = %d, want %d", got, MaxScore)
	}
	s.UpdateScore("a", -50)
	if got := s.Get("a").Score; got != MaxScore {
		t.Errorf("negative points changed score to %d", got)
	}

	ranked := s.Rankings()
	if ranked[0].ID != "a" || ranked[1].ID != "b" {
		t.Errorf("rankings = %s, %s; want a, b", ranked[0].ID, ranked[1].ID)
	}
}
