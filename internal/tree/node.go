package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// Node is a read-only view over one value of a decoded JSON document.
// The zero Node represents an absent value; every accessor is safe to call
// on it.
type Node struct {
	v any
}

// New wraps an already-decoded value (map[string]any, []any, string,
// json.Number, float64, bool or nil).
func New(v any) Node {
	return Node{v: v}
}

// Decode reads one JSON document from r. Numbers are kept as json.Number so
// integer fields round-trip without float formatting.
func Decode(r io.Reader) (Node, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return Node{}, fmt.Errorf("tree: decode: %w", err)
	}
	return Node{v: v}, nil
}

// Parse is Decode over a byte slice.
func Parse(data []byte) (Node, error) {
	return Decode(bytes.NewReader(data))
}

// Raw returns the underlying decoded value.
func (n Node) Raw() any { return n.v }

// IsNull reports whether the value is JSON null or absent.
func (n Node) IsNull() bool { return n.v == nil }

// Has reports whether key is present on an object node, even if its value is null.
func (n Node) Has(key string) bool {
	m, ok := n.v.(map[string]any)
	if !ok {
		return false
	}
	_, ok = m[key]
	return ok
}

// Get walks the object path and returns the node found there. Any missing
// key or non-object step yields the absent Node.
func (n Node) Get(path ...string) Node {
	cur := n.v
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return Node{}
		}
		cur = m[key]
	}
	return Node{v: cur}
}

// String returns the value if it is a JSON string.
func (n Node) String() (string, bool) {
	s, ok := n.v.(string)
	return s, ok
}

// Float returns the value if it is a JSON number.
func (n Node) Float() (float64, bool) {
	switch v := n.v.(type) {
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// Bool returns the value if it is a JSON boolean.
func (n Node) Bool() (bool, bool) {
	b, ok := n.v.(bool)
	return b, ok
}

// Truthy follows the usual loose truth rules of JSON consumers: null, false,
// zero, the empty string and empty containers are false, everything else is
// true.
func (n Node) Truthy() bool {
	switch v := n.v.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case map[string]any:
		return len(v) > 0
	case []any:
		return len(v) > 0
	}
	if f, ok := n.Float(); ok {
		return f != 0
	}
	return true
}

// List returns the elements of an array node, or nil.
func (n Node) List() []Node {
	arr, ok := n.v.([]any)
	if !ok {
		return nil
	}
	out := make([]Node, len(arr))
	for i, v := range arr {
		out[i] = Node{v: v}
	}
	return out
}

// Strings returns the string elements of an array node, skipping elements
// of any other type.
func (n Node) Strings() []string {
	var out []string
	for _, el := range n.List() {
		if s, ok := el.String(); ok {
			out = append(out, s)
		}
	}
	return out
}

// Keys returns the keys of an object node in sorted order.
func (n Node) Keys() []string {
	m, ok := n.v.(map[string]any)
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Text renders a scalar as a label-friendly string. Containers and null
// return false.
func (n Node) Text() (string, bool) {
	switch v := n.v.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	case bool:
		return strconv.FormatBool(v), true
	}
	return "", false
}
