// Package payload builds outgoing vendor request bodies from a model's
// parameter schema.
package payload

import "strings"

// Tree is a generic JSON object.
type Tree map[string]any

// Set stores value at a dotted path, creating intermediate objects as needed.
// A non-object value sitting on the path is replaced by an object.
func (t Tree) Set(path string, value any) {
	segments := strings.Split(path, ".")
	node := map[string]any(t)
	for _, seg := range segments[:len(segments)-1] {
		child, ok := asObject(node[seg])
		if !ok {
			child = map[string]any{}
			node[seg] = child
		}
		node = child
	}
	node[segments[len(segments)-1]] = value
}

// Get reads the value at a dotted path.
func (t Tree) Get(path string) (any, bool) {
	var node any = map[string]any(t)
	for _, seg := range strings.Split(path, ".") {
		obj, ok := asObject(node)
		if !ok {
			return nil, false
		}
		node, ok = obj[seg]
		if !ok {
			return nil, false
		}
	}
	return node, true
}

// Has reports whether a value exists at path.
func (t Tree) Has(path string) bool {
	_, ok := t.Get(path)
	return ok
}

// SetDefault stores value at path only when nothing is there yet.
func (t Tree) SetDefault(path string, value any) {
	if !t.Has(path) {
		t.Set(path, value)
	}
}

func asObject(v any) (map[string]any, bool) {
	switch o := v.(type) {
	case map[string]any:
		return o, true
	case Tree:
		return o, true
	default:
		return nil, false
	}
}
