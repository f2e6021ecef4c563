package jsontree

import (
	"fmt"
	"iter"
)

// Leaf is a string leaf together with its location in the source document.
type Leaf struct {
	Path Path
	Text string
}

// Leaves yields every string leaf of v depth-first: object members in
// insertion order, array elements by ascending index. Numbers, booleans and
// null are skipped. The sequence can be ranged over any number of times.
func Leaves(v Value) iter.Seq2[Path, string] {
	return func(yield func(Path, string) bool) {
		walk(v, nil, yield)
	}
}

func walk(v Value, path Path, yield func(Path, string) bool) bool {
	switch v.kind {
	case String:
		return yield(path, v.text)
	case Array:
		for i, item := range v.items {
			if !walk(item, path.child(IndexSegment(i)), yield) {
				return false
			}
		}
	case Object:
		for _, m := range v.members {
			if !walk(m.Value, path.child(KeySegment(m.Key)), yield) {
				return false
			}
		}
	}
	return true
}

// Flatten collects the string leaves of v in traversal order.
func Flatten(v Value) []Leaf {
	var leaves []Leaf
	for path, text := range Leaves(v) {
		leaves = append(leaves, Leaf{Path: path, Text: text})
	}
	return leaves
}

// Texts returns the text of each leaf, in order.
func Texts(leaves []Leaf) []string {
	out := make([]string, len(leaves))
	for i, l := range leaves {
		out[i] = l.Text
	}
	return out
}

// WithTexts pairs replacement texts with the paths of leaves, position by
// position. The two slices must be the same length.
func WithTexts(leaves []Leaf, texts []string) ([]Leaf, error) {
	if len(leaves) != len(texts) {
		return nil, &AlignmentError{Reason: fmt.Sprintf("expected %d texts, got %d", len(leaves), len(texts))}
	}
	out := make([]Leaf, len(leaves))
	for i, l := range leaves {
		out[i] = Leaf{Path: l.Path, Text: texts[i]}
	}
	return out, nil
}
