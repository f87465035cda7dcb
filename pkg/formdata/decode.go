package formdata

// Leaf records where one submitted key landed in the decoded tree, keeping
// the raw values for later error reconciliation.
type Leaf struct {
	// Key is the flat key exactly as submitted.
	Key string
	// Path is the decoded form of Key.
	Path Path
	// Values holds every raw string submitted for Key, in order.
	Values []string
}

// Decode reconstructs the nested structure encoded in a flat submission.
// The returned tree contains map[string]any nodes for name segments, []any
// nodes for index/append segments, and string or []string leaves. Leaves are
// reported in submission order.
//
// Keys are processed in submission order, which fixes append-marker positions.
// Sparse indexes fill intermediate positions with nil. A key that contradicts
// the container kind established by an earlier key (object vs sequence, or
// container vs scalar) fails with a *MalformedPathError; no partial tree is
// returned.
func Decode(src Submission) (map[string]any, []Leaf, error) {
	tree := make(map[string]any)
	var leaves []Leaf

	for _, key := range src.Keys() {
		path, err := ParseKey(key)
		if err != nil {
			return nil, nil, err
		}
		values := src.GetAll(key)
		if len(values) == 0 {
			values = []string{""}
		}
		leaves = append(leaves, Leaf{Key: key, Path: path, Values: values})

		root := path[0].Name
		rest := path[1:]

		if last := path[len(path)-1]; last.Kind == SegmentAppend && len(values) > 1 {
			// Repeated append keys (tags[]=a&tags[]=b) add one element per
			// value rather than a single list-valued leaf.
			node := tree[root]
			for _, value := range values {
				node, err = insert(node, key, rest, value)
				if err != nil {
					return nil, nil, err
				}
			}
			tree[root] = node
			continue
		}

		var leaf any
		if len(values) > 1 {
			leaf = append([]string(nil), values...)
		} else {
			leaf = values[0]
		}
		node, err := insert(tree[root], key, rest, leaf)
		if err != nil {
			return nil, nil, err
		}
		tree[root] = node
	}
	return tree, leaves, nil
}

// insert places value at the end of path within node, creating containers as
// needed, and returns the (possibly replaced) node.
func insert(node any, key string, path Path, value any) (any, error) {
	if len(path) == 0 {
		if node != nil {
			if _, ok := node.(map[string]any); ok {
				return nil, &MalformedPathError{Key: key, Reason: "value conflicts with object at the same path"}
			}
			if _, ok := node.([]any); ok {
				return nil, &MalformedPathError{Key: key, Reason: "value conflicts with array at the same path"}
			}
		}
		return value, nil
	}

	seg := path[0]
	switch seg.Kind {
	case SegmentName:
		object := make(map[string]any)
		if node != nil {
			existing, ok := node.(map[string]any)
			if !ok {
				return nil, &MalformedPathError{Key: key, Reason: "path is already used as a non-object"}
			}
			object = existing
		}
		child, err := insert(object[seg.Name], key, path[1:], value)
		if err != nil {
			return nil, err
		}
		object[seg.Name] = child
		return object, nil

	case SegmentIndex:
		var array []any
		if node != nil {
			existing, ok := node.([]any)
			if !ok {
				return nil, &MalformedPathError{Key: key, Reason: "path is already used as a non-array"}
			}
			array = existing
		}
		for len(array) <= seg.Index {
			array = append(array, nil)
		}
		child, err := insert(array[seg.Index], key, path[1:], value)
		if err != nil {
			return nil, err
		}
		array[seg.Index] = child
		return array, nil

	default: // SegmentAppend
		var array []any
		if node != nil {
			existing, ok := node.([]any)
			if !ok {
				return nil, &MalformedPathError{Key: key, Reason: "path is already used as a non-array"}
			}
			array = existing
		}
		child, err := insert(nil, key, path[1:], value)
		if err != nil {
			return nil, err
		}
		return append(array, child), nil
	}
}
