package models

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/ferrovax/amx/internal/shared"
)

func TestGenreDictionary(t *testing.T) {
	t.Run("records and resolves genres", func(t *testing.T) {
		dict := NewGenreDictionary()
		dict.Record([]Genre{{ID: "g1", Name: "Rock"}, {ID: "g2", Name: "Jazz"}})

		id, err := dict.Lookup("Rock")
		if err != nil {
			t.Fatalf("Lookup failed: %v", err)
		}
		if id != "g1" {
			t.Errorf("Rock = %q, want g1", id)
		}
		if dict.Len() != 2 {
			t.Errorf("Len = %d, want 2", dict.Len())
		}
	})

	t.Run("unknown name is ErrGenreNotFound", func(t *testing.T) {
		dict := NewGenreDictionary()

		if _, err := dict.Lookup("Zydeco"); !errors.Is(err, shared.ErrGenreNotFound) {
			t.Fatalf("expected ErrGenreNotFound, got %v", err)
		}
	})

	t.Run("re-recording a name is idempotent", func(t *testing.T) {
		dict := NewGenreDictionary()
		dict.Record([]Genre{{ID: "g1", Name: "Rock"}})
		dict.Record([]Genre{{ID: "g1", Name: "Rock"}})

		if dict.Len() != 1 {
			t.Errorf("Len = %d, want 1", dict.Len())
		}
	})

	t.Run("names are sorted", func(t *testing.T) {
		dict := NewGenreDictionary()
		dict.Record([]Genre{{ID: "g2", Name: "Jazz"}, {ID: "g1", Name: "Ambient"}, {ID: "g3", Name: "Rock"}})

		names := dict.Names()
		want := []string{"Ambient", "Jazz", "Rock"}
		for i := range want {
			if names[i] != want[i] {
				t.Errorf("name %d = %q, want %q", i, names[i], want[i])
			}
		}
	})

	t.Run("safe under concurrent record and lookup", func(t *testing.T) {
		dict := NewGenreDictionary()

		var wg sync.WaitGroup
		for i := range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				dict.Record([]Genre{{ID: fmt.Sprintf("g%d", i), Name: fmt.Sprintf("Genre %d", i)}})
				dict.Lookup("Genre 0")
				dict.Names()
			}()
		}
		wg.Wait()

		if dict.Len() != 10 {
			t.Errorf("Len = %d, want 10", dict.Len())
		}
	})
}

func TestSubgenreDictionary(t *testing.T) {
	t.Run("records name presence", func(t *testing.T) {
		dict := NewSubgenreDictionary()
		dict.Record([]string{"Indie Rock", "Bebop"})

		if !dict.Contains("Bebop") {
			t.Error("missing Bebop")
		}
		if dict.Contains("Polka") {
			t.Error("unexpected Polka")
		}
		if dict.Len() != 2 {
			t.Errorf("Len = %d, want 2", dict.Len())
		}
	})

	t.Run("safe under concurrent record", func(t *testing.T) {
		dict := NewSubgenreDictionary()

		var wg sync.WaitGroup
		for i := range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				dict.Record([]string{fmt.Sprintf("Sub %d", i), "Shared"})
				dict.Contains("Shared")
			}()
		}
		wg.Wait()

		if dict.Len() != 11 {
			t.Errorf("Len = %d, want 11", dict.Len())
		}
	})
}
