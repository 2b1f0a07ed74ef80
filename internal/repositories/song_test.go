package repositories

import (
	"database/sql"
	"testing"

	"github.com/ferrovax/amx/internal/models"
	"github.com/ferrovax/amx/internal/shared"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func mustSong(t *testing.T, id string, genreIDs, subgenres []string) models.Song {
	t.Helper()
	song, err := models.NewSong(id, genreIDs, subgenres)
	if err != nil {
		t.Fatalf("NewSong failed: %v", err)
	}
	return song
}

func TestSongRepository(t *testing.T) {
	t.Run("create and get round-trip", func(t *testing.T) {
		repo := NewSongRepository(testDB(t))

		song := mustSong(t, "100", []string{"g1", "g2"}, []string{"Rock", "Indie Rock"})
		persisted := models.NewPersistedSong(0, song)

		if err := repo.Create(persisted); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if persisted.ID() == "" {
			t.Fatal("Create did not assign a row ID")
		}

		got, err := repo.Get(persisted.ID())
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got == nil {
			t.Fatal("Get returned nil for existing row")
		}
		if got.Song.ID != "100" {
			t.Errorf("catalog ID = %q, want 100", got.Song.ID)
		}
		if len(got.Song.GenreIDs) != 2 || got.Song.GenreIDs[1] != "g2" {
			t.Errorf("genre IDs = %v, want [g1 g2]", got.Song.GenreIDs)
		}
		if len(got.Song.SubgenreNames) != 2 || got.Song.SubgenreNames[1] != "Indie Rock" {
			t.Errorf("subgenres = %v, want [Rock Indie Rock]", got.Song.SubgenreNames)
		}
	})

	t.Run("lookup by catalog ID", func(t *testing.T) {
		repo := NewSongRepository(testDB(t))

		persisted := models.NewPersistedSong(0, mustSong(t, "100", []string{"g1"}, []string{"Rock"}))
		if err := repo.Create(persisted); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		got, err := repo.GetByCatalogID("100")
		if err != nil {
			t.Fatalf("GetByCatalogID failed: %v", err)
		}
		if got == nil || got.ID() != persisted.ID() {
			t.Error("catalog lookup did not find the created row")
		}

		missing, err := repo.GetByCatalogID("999")
		if err != nil {
			t.Fatalf("GetByCatalogID failed: %v", err)
		}
		if missing != nil {
			t.Error("expected nil for unknown catalog ID")
		}
	})

	t.Run("duplicate catalog ID violates the unique constraint", func(t *testing.T) {
		repo := NewSongRepository(testDB(t))

		first := models.NewPersistedSong(0, mustSong(t, "100", []string{"g1"}, []string{"Rock"}))
		if err := repo.Create(first); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		second := models.NewPersistedSong(0, mustSong(t, "100", []string{"g1"}, []string{"Rock"}))
		if err := repo.Create(second); err == nil {
			t.Fatal("expected unique constraint violation")
		}
	})

	t.Run("list orders by insertion sequence", func(t *testing.T) {
		repo := NewSongRepository(testDB(t))

		for _, id := range []string{"300", "100", "200"} {
			persisted := models.NewPersistedSong(0, mustSong(t, id, []string{"g1"}, []string{"Rock"}))
			if err := repo.Create(persisted); err != nil {
				t.Fatalf("Create(%s) failed: %v", id, err)
			}
		}

		songs, err := repo.List(nil)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}

		want := []string{"300", "100", "200"}
		if len(songs) != len(want) {
			t.Fatalf("expected %d songs, got %d", len(want), len(songs))
		}
		for i := range want {
			if songs[i].Song.ID != want[i] {
				t.Errorf("song %d = %q, want %q", i, songs[i].Song.ID, want[i])
			}
		}
	})

	t.Run("update and delete", func(t *testing.T) {
		repo := NewSongRepository(testDB(t))

		persisted := models.NewPersistedSong(0, mustSong(t, "100", []string{"g1"}, []string{"Rock"}))
		if err := repo.Create(persisted); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		persisted.Song = mustSong(t, "100", []string{"g1", "g9"}, []string{"Rock", "Post-Rock"})
		if err := repo.Update(persisted); err != nil {
			t.Fatalf("Update failed: %v", err)
		}

		got, err := repo.Get(persisted.ID())
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !got.Song.HasGenreID("g9") {
			t.Error("update did not persist new genre")
		}

		if err := repo.Delete(persisted.ID()); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if err := repo.Delete(persisted.ID()); err == nil {
			t.Error("expected error deleting a missing row")
		}
	})

	t.Run("clear resets count and sequence", func(t *testing.T) {
		db := testDB(t)
		repo := NewSongRepository(db)

		if err := repo.Create(models.NewPersistedSong(0, mustSong(t, "100", []string{"g1"}, []string{"Rock"}))); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		if err := repo.Clear(); err != nil {
			t.Fatalf("Clear failed: %v", err)
		}

		count, err := repo.Count()
		if err != nil {
			t.Fatalf("Count failed: %v", err)
		}
		if count != 0 {
			t.Errorf("count = %d after clear", count)
		}

		sequence, err := NextSequence(db, "songs")
		if err != nil {
			t.Fatalf("NextSequence failed: %v", err)
		}
		if sequence != 1 {
			t.Errorf("sequence = %d after clear, want 1", sequence)
		}
	})
}

func TestGenreRepository(t *testing.T) {
	t.Run("upsert is idempotent and refreshes the ID", func(t *testing.T) {
		repo := NewGenreRepository(testDB(t))

		if err := repo.Upsert(models.Genre{ID: "g1", Name: "Rock"}); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
		if err := repo.Upsert(models.Genre{ID: "g1-new", Name: "Rock"}); err != nil {
			t.Fatalf("second Upsert failed: %v", err)
		}

		genres, err := repo.All()
		if err != nil {
			t.Fatalf("All failed: %v", err)
		}
		if len(genres) != 1 {
			t.Fatalf("expected 1 genre, got %d", len(genres))
		}
		if genres[0].ID != "g1-new" {
			t.Errorf("ID = %q, want g1-new", genres[0].ID)
		}
	})

	t.Run("rejects incomplete genres", func(t *testing.T) {
		repo := NewGenreRepository(testDB(t))

		if err := repo.Upsert(models.Genre{Name: "Rock"}); err == nil {
			t.Error("expected error for missing ID")
		}
		if err := repo.Upsert(models.Genre{ID: "g1"}); err == nil {
			t.Error("expected error for missing name")
		}
	})
}

func TestSongCacheAdapter(t *testing.T) {
	t.Run("repeat writes for one catalog ID are silent", func(t *testing.T) {
		db := testDB(t)
		adapter := NewSongCacheAdapter(NewSongRepository(db), NewGenreRepository(db))

		song := mustSong(t, "100", []string{"g1"}, []string{"Rock"})
		if err := adapter.CacheSong(song); err != nil {
			t.Fatalf("first CacheSong failed: %v", err)
		}
		if err := adapter.CacheSong(song); err != nil {
			t.Fatalf("repeat CacheSong failed: %v", err)
		}

		count, err := NewSongRepository(db).Count()
		if err != nil {
			t.Fatalf("Count failed: %v", err)
		}
		if count != 1 {
			t.Errorf("count = %d, want 1", count)
		}
	})

	t.Run("caches genre mappings, skipping incomplete ones", func(t *testing.T) {
		db := testDB(t)
		adapter := NewSongCacheAdapter(NewSongRepository(db), NewGenreRepository(db))

		err := adapter.CacheGenres([]models.Genre{
			{ID: "g1", Name: "Rock"},
			{ID: "", Name: "Nameless"},
			{ID: "g2", Name: "Jazz"},
		})
		if err != nil {
			t.Fatalf("CacheGenres failed: %v", err)
		}

		genres, err := NewGenreRepository(db).All()
		if err != nil {
			t.Fatalf("All failed: %v", err)
		}
		if len(genres) != 2 {
			t.Errorf("expected 2 genres, got %d", len(genres))
		}
	})
}
