package dataset

import "fmt"

// SplitBatches partitions the ordered coordinate set into batches of at most
// size points. The batches cover the input exactly, in order, with no
// coordinate repeated; the size bound keeps each sampling request under the
// backend's payload ceiling.
func SplitBatches(coords []Coordinate, size int) ([][]Coordinate, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid batch size %d", size)
	}
	if len(coords) == 0 {
		return nil, fmt.Errorf("no coordinates to batch")
	}

	batches := make([][]Coordinate, 0, (len(coords)+size-1)/size)
	for start := 0; start < len(coords); start += size {
		end := start + size
		if end > len(coords) {
			end = len(coords)
		}
		batches = append(batches, coords[start:end])
	}
	return batches, nil
}
