package formdata

import (
	"fmt"
	"strconv"
	"strings"
)

// SegmentKind distinguishes the three bracket-notation segment forms.
type SegmentKind uint8

const (
	// SegmentName addresses an object property.
	SegmentName SegmentKind = iota
	// SegmentIndex addresses a sequence position.
	SegmentIndex
	// SegmentAppend is the empty-bracket marker requesting the next position.
	SegmentAppend
)

// Segment is one element of a field path. Name is set for name segments,
// Index for index segments; append segments carry neither.
type Segment struct {
	Kind  SegmentKind
	Name  string
	Index int
}

// Path is the decoded form of a bracket-notation key.
type Path []Segment

// String reassembles the path into its bracket-notation key form.
func (p Path) String() string {
	var b strings.Builder
	for i, seg := range p {
		switch {
		case i == 0:
			b.WriteString(seg.Name)
		case seg.Kind == SegmentName:
			b.WriteString("[" + seg.Name + "]")
		case seg.Kind == SegmentIndex:
			b.WriteString("[" + strconv.Itoa(seg.Index) + "]")
		default:
			b.WriteString("[]")
		}
	}
	return b.String()
}

// MalformedPathError reports a submitted key that cannot be decoded, either
// because its bracket syntax is invalid or because it contradicts the
// structure established by an earlier key.
type MalformedPathError struct {
	Key    string
	Reason string
}

func (e *MalformedPathError) Error() string {
	return fmt.Sprintf("formdata: malformed key %q: %s", e.Key, e.Reason)
}

// ParseKey tokenizes a bracket-notation key such as "a[b][2][c]" into a Path.
// The leading segment must be a bare name; each bracket is then an index
// (digits only), an append marker (empty), or a property name.
func ParseKey(key string) (Path, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return nil, &MalformedPathError{Key: key, Reason: "empty key"}
	}
	if strings.HasPrefix(trimmed, "[") {
		return nil, &MalformedPathError{Key: key, Reason: "key must start with a name segment"}
	}

	var path Path
	rest := trimmed
	for len(rest) > 0 {
		open := strings.IndexByte(rest, '[')
		if open == -1 {
			path = append(path, Segment{Kind: SegmentName, Name: rest})
			break
		}
		if open > 0 {
			path = append(path, Segment{Kind: SegmentName, Name: rest[:open]})
		}

		rest = rest[open+1:]
		close := strings.IndexByte(rest, ']')
		if close == -1 {
			return nil, &MalformedPathError{Key: key, Reason: "unterminated bracket"}
		}

		inner := strings.TrimSpace(rest[:close])
		switch {
		case inner == "":
			path = append(path, Segment{Kind: SegmentAppend})
		case isDigits(inner):
			index, err := strconv.Atoi(inner)
			if err != nil {
				return nil, &MalformedPathError{Key: key, Reason: "index out of range"}
			}
			path = append(path, Segment{Kind: SegmentIndex, Index: index})
		default:
			path = append(path, Segment{Kind: SegmentName, Name: inner})
		}
		rest = rest[close+1:]
	}
	return path, nil
}

func isDigits(value string) bool {
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return value != ""
}
