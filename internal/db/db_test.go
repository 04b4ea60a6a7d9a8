package db

import (
	"log/slog"
	"os"
	"testing"
	"time"
)

func getTestDB(t *testing.T) *DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database tests")
	}
	database, err := Connect(dsn, slog.Default())
	if err != nil {
		t.Fatalf("Connect() error: %v", err)
	}
	if err := database.Migrate(); err != nil {
		t.Fatalf("Migrate() error: %v", err)
	}
	t.Cleanup(func() {
		database.conn.Exec("DELETE FROM player_badges")
		database.conn.Exec("DELETE FROM game_players")
		database.conn.Exec("DELETE FROM games")
		database.conn.Exec("DELETE FROM players")
		database.Close()
	})
	return database
}

func sampleGame(room string) GameRecord {
	end := time.Now().UTC().Truncate(time.Millisecond)
	return GameRecord{
		RoomCode:         room,
		HostID:           "host-1",
		GameTimeSecs:     300,
		Reason:           "all_dead",
		StartedAt:        end.Add(-2 * time.Minute),
		EndedAt:          end,
		EnemiesSpawned:   12,
		EnemiesDestroyed: 9,
		DuplicateHits:    1,
	}
}

func TestConnect(t *testing.T) {
	database := getTestDB(t)
	if err := database.Ping(); err != nil {
		t.Errorf("Ping() error: %v", err)
	}
}

func TestMigrate(t *testing.T) {
	database := getTestDB(t)

	tables := []string{"players", "games", "game_players", "player_badges"}
	for _, table := range tables {
		var exists bool
		err := database.conn.QueryRow(`
			SELECT EXISTS (SELECT FROM information_schema.tables WHERE table_name = $1)
		`, table).Scan(&exists)
		if err != nil {
			t.Errorf("checking table %s: %v", table, err)
		}
		if !exists {
			t.Errorf("table %s does not exist", table)
		}
	}

	// A second run is a no-op.
	if err := database.Migrate(); err != nil {
		t.Errorf("second Migrate() error: %v", err)
	}
}

func TestUpsertPlayer(t *testing.T) {
	database := getTestDB(t)

	id := "550e8400-e29b-41d4-a716-446655440000"
	if err := database.UpsertPlayer(id, "Alice", 0x4a9eff); err != nil {
		t.Fatalf("UpsertPlayer() error: %v", err)
	}
	if err := database.UpsertPlayer(id, "Alice Updated", 0xff6b6b); err != nil {
		t.Fatalf("UpsertPlayer() update error: %v", err)
	}

	p, err := database.GetPlayer(id)
	if err != nil {
		t.Fatalf("GetPlayer() error: %v", err)
	}
	if p.Name != "Alice Updated" {
		t.Errorf("name = %q, want %q", p.Name, "Alice Updated")
	}
	if p.Color != 0xff6b6b {
		t.Errorf("color = %#x, want %#x", p.Color, 0xff6b6b)
	}
}

func TestGetPlayer_NotFound(t *testing.T) {
	database := getTestDB(t)

	if _, err := database.GetPlayer("00000000-0000-0000-0000-000000000000"); err == nil {
		t.Error("GetPlayer() should return error for nonexistent player")
	}
}

func TestRecordGame(t *testing.T) {
	database := getTestDB(t)

	g := sampleGame("ABCDEF")
	standings := []Standing{
		{PlayerID: "p1", Name: "Ace", Color: 0x4a9eff, Score: 120, Rank: 1, Alive: false},
		{PlayerID: "p2", Name: "Bee", Color: 0xff6b6b, Score: 40, Rank: 2, Alive: false},
	}

	id, err := database.RecordGame(g, standings)
	if err != nil {
		t.Fatalf("RecordGame() error: %v", err)
	}
	if id == "" {
		t.Fatal("RecordGame() returned empty ID")
	}

	got, err := database.GetGame(id)
	if err != nil {
		t.Fatalf("GetGame() error: %v", err)
	}
	if got.RoomCode != "ABCDEF" || got.Reason != "all_dead" || got.DuplicateHits != 1 {
		t.Errorf("GetGame() = %+v", got)
	}

	var count int
	database.conn.QueryRow("SELECT COUNT(*) FROM game_players WHERE game_id = $1", id).Scan(&count)
	if count != 2 {
		t.Errorf("game_players count = %d, want 2", count)
	}

	if _, err := database.GetPlayer("p2"); err != nil {
		t.Errorf("standings should upsert players: %v", err)
	}
}

func TestAwardBadge_OncePerPlayer(t *testing.T) {
	database := getTestDB(t)

	id, err := database.RecordGame(sampleGame("GHJKMN"), []Standing{
		{PlayerID: "p1", Name: "Ace", Color: 0x4a9eff, Score: 150, Rank: 1, Alive: true},
	})
	if err != nil {
		t.Fatalf("RecordGame() error: %v", err)
	}

	if err := database.AwardBadge("p1", "centurion", &id); err != nil {
		t.Fatalf("AwardBadge() error: %v", err)
	}
	if err := database.AwardBadge("p1", "centurion", &id); err != nil {
		t.Fatalf("AwardBadge() repeat error: %v", err)
	}
	if err := database.AwardBadge("p1", "veteran", nil); err != nil {
		t.Fatalf("AwardBadge() career error: %v", err)
	}

	badges, err := database.GetPlayerBadges("p1")
	if err != nil {
		t.Fatalf("GetPlayerBadges() error: %v", err)
	}
	if len(badges) != 2 {
		t.Errorf("badges = %v, want 2 entries", badges)
	}
}
