package formdata_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/formdata"
)

func TestEncode(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		tree map[string]any
		want map[string][]string
	}{
		"flat strings": {
			tree: map[string]any{"foo": "bar", "baz": "qux"},
			want: map[string][]string{"foo": {"bar"}, "baz": {"qux"}},
		},
		"nested object": {
			tree: map[string]any{
				"a": map[string]any{"b": map[string]any{"c": "1"}},
			},
			want: map[string][]string{"a[b][c]": {"1"}},
		},
		"sequence gets explicit indexes": {
			tree: map[string]any{
				"contacts": []any{
					map[string]any{"name": "John"},
					map[string]any{"name": "Jane"},
				},
			},
			want: map[string][]string{
				"contacts[0][name]": {"John"},
				"contacts[1][name]": {"Jane"},
			},
		},
		"multi-value leaf repeats the key": {
			tree: map[string]any{"tag": []string{"a", "b"}},
			want: map[string][]string{"tag": {"a", "b"}},
		},
		"typed scalars are rendered": {
			tree: map[string]any{"age": int64(20), "score": 1.5, "active": true},
			want: map[string][]string{"age": {"20"}, "score": {"1.5"}, "active": {"true"}},
		},
		"nil placeholders are skipped": {
			tree: map[string]any{"arr": []any{"x", nil, "z"}},
			want: map[string][]string{"arr[0]": {"x"}, "arr[2]": {"z"}},
		},
	}
	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			values, err := formdata.Encode(tc.tree)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			got := make(map[string][]string)
			for _, key := range values.Keys() {
				got[key] = values.GetAll(key)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("encoded pairs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncodeUnsupportedValue(t *testing.T) {
	t.Parallel()

	if _, err := formdata.Encode(map[string]any{"ch": make(chan int)}); err == nil {
		t.Fatal("expected error for unsupported leaf type")
	}
}

// Encoding a decoded tree and decoding it again must reproduce the tree, as
// long as the original submission used no append markers.
func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	queries := []string{
		"foo=bar&baz=qux",
		"a[b][c]=1&a[b][d]=2",
		"contacts[0][name]=John&contacts[1][name]=Jane",
		"tag=a&tag=b",
	}
	for _, query := range queries {
		query := query
		t.Run(query, func(t *testing.T) {
			t.Parallel()

			values, err := formdata.ParseQuery(query)
			if err != nil {
				t.Fatalf("ParseQuery: %v", err)
			}
			tree, _, err := formdata.Decode(values)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}

			encoded, err := formdata.Encode(tree)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			again, _, err := formdata.Decode(encoded)
			if err != nil {
				t.Fatalf("Decode(Encode): %v", err)
			}
			if diff := cmp.Diff(tree, again); diff != "" {
				t.Errorf("round trip mismatch (-first +second):\n%s", diff)
			}
		})
	}
}
