package tasks

import "testing"

func TestPartition(t *testing.T) {
	t.Run("splits into bounded batches", func(t *testing.T) {
		ids := make([]string, 650)
		for i := range ids {
			ids[i] = string(rune('a' + i%26))
		}

		batches := Partition(ids, MaxBatchSize)

		if len(batches) != 3 {
			t.Fatalf("expected 3 batches, got %d", len(batches))
		}
		if len(batches[0]) != 300 || len(batches[1]) != 300 || len(batches[2]) != 50 {
			t.Errorf("unexpected batch sizes: %d, %d, %d", len(batches[0]), len(batches[1]), len(batches[2]))
		}
	})

	t.Run("exact multiple has no remainder batch", func(t *testing.T) {
		ids := make([]string, 600)
		batches := Partition(ids, MaxBatchSize)

		if len(batches) != 2 {
			t.Fatalf("expected 2 batches, got %d", len(batches))
		}
		for i, batch := range batches {
			if len(batch) != 300 {
				t.Errorf("batch %d has %d ids, expected 300", i, len(batch))
			}
		}
	})

	t.Run("fewer ids than batch size", func(t *testing.T) {
		batches := Partition([]string{"a", "b"}, MaxBatchSize)

		if len(batches) != 1 {
			t.Fatalf("expected 1 batch, got %d", len(batches))
		}
		if len(batches[0]) != 2 {
			t.Errorf("expected 2 ids, got %d", len(batches[0]))
		}
	})

	t.Run("empty input yields no batches", func(t *testing.T) {
		if batches := Partition(nil, MaxBatchSize); len(batches) != 0 {
			t.Errorf("expected no batches, got %d", len(batches))
		}
	})

	t.Run("input is not mutated", func(t *testing.T) {
		ids := []string{"a", "b", "c", "d", "e"}
		Partition(ids, 2)

		want := []string{"a", "b", "c", "d", "e"}
		for i := range want {
			if ids[i] != want[i] {
				t.Fatalf("input mutated at %d: got %q", i, ids[i])
			}
		}
	})

	t.Run("batches preserve order", func(t *testing.T) {
		ids := []string{"a", "b", "c", "d", "e"}
		batches := Partition(ids, 2)

		if len(batches) != 3 {
			t.Fatalf("expected 3 batches, got %d", len(batches))
		}

		flat := []string{}
		for _, batch := range batches {
			flat = append(flat, batch...)
		}
		for i := range ids {
			if flat[i] != ids[i] {
				t.Errorf("order broken at %d: got %q, want %q", i, flat[i], ids[i])
			}
		}
	})
}
