package tasks

// MaxBatchSize is the largest batch the bulk song lookup accepts.
const MaxBatchSize = 300

// Partition splits ids into ordered batches of at most size elements.
// The last batch may be smaller. The input slice is never mutated;
// concatenating the batches in order reproduces it exactly.
func Partition(ids []string, size int) [][]string {
	if size <= 0 {
		size = MaxBatchSize
	}
	if len(ids) == 0 {
		return nil
	}

	batches := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		batches = append(batches, ids[start:end:end])
	}
	return batches
}
