package formdata

import (
	"fmt"
	"sort"
	"strconv"
)

// Encode flattens a nested tree back into bracket-notation submission values.
// It is the inverse of Decode for trees without append markers: nested maps
// become name segments, slices become explicit index segments, and a []string
// leaf becomes repeated values under one key. Map keys are emitted in sorted
// order so output is deterministic; nil entries (sparse-array placeholders)
// are skipped.
func Encode(tree map[string]any) (*Values, error) {
	out := NewValues()
	names := make([]string, 0, len(tree))
	for name := range tree {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := encodeValue(out, Path{{Kind: SegmentName, Name: name}}, tree[name]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func encodeValue(out *Values, path Path, value any) error {
	switch node := value.(type) {
	case nil:
		return nil
	case map[string]any:
		names := make([]string, 0, len(node))
		for name := range node {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			seg := Segment{Kind: SegmentName, Name: name}
			if err := encodeValue(out, append(path, seg), node[name]); err != nil {
				return err
			}
		}
		return nil
	case []any:
		for i, item := range node {
			seg := Segment{Kind: SegmentIndex, Index: i}
			if err := encodeValue(out, append(path, seg), item); err != nil {
				return err
			}
		}
		return nil
	case []string:
		key := path.String()
		for _, item := range node {
			out.Add(key, item)
		}
		return nil
	case string:
		out.Add(path.String(), node)
		return nil
	case bool:
		out.Add(path.String(), strconv.FormatBool(node))
		return nil
	case int:
		out.Add(path.String(), strconv.Itoa(node))
		return nil
	case int64:
		out.Add(path.String(), strconv.FormatInt(node, 10))
		return nil
	case float64:
		out.Add(path.String(), strconv.FormatFloat(node, 'f', -1, 64))
		return nil
	default:
		return fmt.Errorf("formdata: cannot encode %T at %q", value, path.String())
	}
}
