package jsontree

import (
	"strconv"
	"strings"
)

// Segment is one step of a Path: an object key or an array index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

func KeySegment(key string) Segment { return Segment{Key: key} }

func IndexSegment(i int) Segment { return Segment{Index: i, IsIndex: true} }

// Path locates a leaf inside a document. The empty Path is the root.
type Path []Segment

// String renders p as a JSON pointer (RFC 6901), e.g. "/messages/0/title".
func (p Path) String() string {
	var b strings.Builder
	for _, s := range p {
		b.WriteByte('/')
		if s.IsIndex {
			b.WriteString(strconv.Itoa(s.Index))
			continue
		}
		b.WriteString(pointerEscaper.Replace(s.Key))
	}
	return b.String()
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// key is an unambiguous map key for p. Key segments are length-prefixed
// because object keys may contain any character, NUL included.
func (p Path) key() string {
	var b strings.Builder
	for _, s := range p {
		if s.IsIndex {
			b.WriteByte('i')
			b.WriteString(strconv.Itoa(s.Index))
			b.WriteByte(';')
			continue
		}
		b.WriteByte('k')
		b.WriteString(strconv.Itoa(len(s.Key)))
		b.WriteByte(':')
		b.WriteString(s.Key)
	}
	return b.String()
}

func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// child returns a fresh Path so leaves never share backing arrays.
func (p Path) child(s Segment) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = s
	return out
}
