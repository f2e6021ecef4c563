package batcher

import (
	"fmt"
	"reflect"
	"testing"
)

func makeTexts(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("s%d", i)
	}
	return out
}

func TestSplit_LosslessAndOrdered(t *testing.T) {
	for _, n := range []int{0, 1, 2, 99, 100, 101, 250} {
		for _, size := range []int{1, 2, 3, 7, 100, 1000} {
			texts := makeTexts(n)
			batches := Split(texts, size)
			if len(batches) != Count(n, size) {
				t.Fatalf("n=%d size=%d: got %d batches, Count=%d", n, size, len(batches), Count(n, size))
			}
			var joined []string
			for i, b := range batches {
				if len(b.Texts) == 0 || len(b.Texts) > size {
					t.Fatalf("n=%d size=%d: batch %d has %d texts", n, size, i, len(b.Texts))
				}
				if b.Index != i || b.Offset != len(joined) {
					t.Fatalf("n=%d size=%d: batch %d index/offset = %d/%d", n, size, i, b.Index, b.Offset)
				}
				joined = append(joined, b.Texts...)
			}
			if n == 0 {
				if len(joined) != 0 {
					t.Fatalf("expected no texts for empty input")
				}
				continue
			}
			if !reflect.DeepEqual(joined, texts) {
				t.Fatalf("n=%d size=%d: concatenation differs", n, size)
			}
		}
	}
}

func TestSplit_SingleBatchWhenSizeCoversInput(t *testing.T) {
	texts := makeTexts(5)
	for _, size := range []int{5, 6, 100} {
		if got := len(Split(texts, size)); got != 1 {
			t.Fatalf("size=%d: expected 1 batch, got %d", size, got)
		}
	}
}

func TestSplit_DefaultSize(t *testing.T) {
	batches := Split(makeTexts(250), 0)
	if len(batches) != 3 {
		t.Fatalf("expected 3 batches with default size, got %d", len(batches))
	}
	if len(batches[0].Texts) != DefaultSize || len(batches[2].Texts) != 50 {
		t.Fatalf("unexpected batch sizes: %d, %d", len(batches[0].Texts), len(batches[2].Texts))
	}
}

func TestSplit_AppendDoesNotClobberNeighbour(t *testing.T) {
	texts := makeTexts(4)
	batches := Split(texts, 2)
	_ = append(batches[0].Texts, "intruder")
	if texts[2] != "s2" {
		t.Fatalf("append on a batch overwrote the next batch: %v", texts)
	}
}
