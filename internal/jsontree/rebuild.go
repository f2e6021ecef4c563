package jsontree

import "fmt"

// AlignmentError reports replacement leaves that do not line up with the
// string leaves of the document being rebuilt.
type AlignmentError struct {
	Path   Path
	Reason string
}

func (e *AlignmentError) Error() string {
	if e.Path == nil {
		return "leaf alignment: " + e.Reason
	}
	return fmt.Sprintf("leaf alignment at %q: %s", e.Path.String(), e.Reason)
}

// Rebuild returns a copy of v whose string leaves are replaced by the
// replacement carrying the same path. Every string leaf of v must have
// exactly one replacement and every replacement must name a string leaf of v.
// Non-string leaves are copied unchanged.
func Rebuild(v Value, replacements []Leaf) (Value, error) {
	byPath := make(map[string]string, len(replacements))
	for _, r := range replacements {
		k := r.Path.key()
		if _, dup := byPath[k]; dup {
			return Value{}, &AlignmentError{Path: r.Path, Reason: "duplicate replacement"}
		}
		byPath[k] = r.Text
	}

	used := 0
	out, err := rebuild(v, nil, byPath, &used)
	if err != nil {
		return Value{}, err
	}
	if used != len(byPath) {
		for _, r := range replacements {
			if !isStringLeaf(v, r.Path) {
				return Value{}, &AlignmentError{Path: r.Path, Reason: "no string leaf at this path"}
			}
		}
		return Value{}, &AlignmentError{Reason: fmt.Sprintf("%d replacements left unused", len(byPath)-used)}
	}
	return out, nil
}

func rebuild(v Value, path Path, byPath map[string]string, used *int) (Value, error) {
	switch v.kind {
	case String:
		text, ok := byPath[path.key()]
		if !ok {
			return Value{}, &AlignmentError{Path: path, Reason: "missing replacement"}
		}
		*used++
		return StringValue(text), nil
	case Array:
		items := make([]Value, len(v.items))
		for i, item := range v.items {
			nv, err := rebuild(item, path.child(IndexSegment(i)), byPath, used)
			if err != nil {
				return Value{}, err
			}
			items[i] = nv
		}
		return ArrayValue(items...), nil
	case Object:
		members := make([]Member, len(v.members))
		for i, m := range v.members {
			nv, err := rebuild(m.Value, path.child(KeySegment(m.Key)), byPath, used)
			if err != nil {
				return Value{}, err
			}
			members[i] = Member{Key: m.Key, Value: nv}
		}
		return ObjectValue(members...), nil
	default:
		return v, nil
	}
}

func isStringLeaf(v Value, path Path) bool {
	cur := v
	for _, s := range path {
		switch {
		case s.IsIndex && cur.kind == Array:
			if s.Index < 0 || s.Index >= len(cur.items) {
				return false
			}
			cur = cur.items[s.Index]
		case !s.IsIndex && cur.kind == Object:
			next, ok := cur.Get(s.Key)
			if !ok {
				return false
			}
			cur = next
		default:
			return false
		}
	}
	return cur.kind == String
}
