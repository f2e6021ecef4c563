package batcher

// DefaultSize is the number of strings sent per translation request.
const DefaultSize = 100

// Batch is a contiguous run of source strings submitted in one request.
type Batch struct {
	Index  int
	Offset int // position of Texts[0] in the full input
	Texts  []string
}

// Split splits texts into consecutive batches of at most size strings.
// Concatenating the batches in order yields texts again. A size below 1
// falls back to DefaultSize. Empty input yields no batches.
func Split(texts []string, size int) []Batch {
	if size <= 0 {
		size = DefaultSize
	}
	n := len(texts)
	batches := make([]Batch, 0, (n+size-1)/size)

	for i := 0; i < n; i += size {
		end := i + size
		if end > n {
			end = n
		}
		batches = append(batches, Batch{
			Index:  len(batches),
			Offset: i,
			Texts:  texts[i:end:end],
		})
	}

	return batches
}

// Count returns how many batches Split would produce.
func Count(n, size int) int {
	if size <= 0 {
		size = DefaultSize
	}
	if n <= 0 {
		return 0
	}
	return (n + size - 1) / size
}
