package formdata_test

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/formdata"
)

func TestParseQueryOrder(t *testing.T) {
	t.Parallel()

	values, err := formdata.ParseQuery("zeta=1&alpha=2&mid=3&alpha=4")
	if err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}

	if diff := cmp.Diff([]string{"zeta", "alpha", "mid"}, values.Keys()); diff != "" {
		t.Errorf("Keys mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"2", "4"}, values.GetAll("alpha")); diff != "" {
		t.Errorf("GetAll mismatch (-want +got):\n%s", diff)
	}
	if got, ok := values.Get("alpha"); !ok || got != "2" {
		t.Errorf("Get(alpha) = %q, %v; want %q, true", got, ok, "2")
	}
}

func TestParseQueryUnescapes(t *testing.T) {
	t.Parallel()

	values, err := formdata.ParseQuery("name=john+doe&email=john%40example.com&empty=")
	if err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}

	if got, _ := values.Get("name"); got != "john doe" {
		t.Errorf("Get(name) = %q, want %q", got, "john doe")
	}
	if got, _ := values.Get("email"); got != "john@example.com" {
		t.Errorf("Get(email) = %q, want %q", got, "john@example.com")
	}
	if !values.Has("empty") {
		t.Error("Has(empty) = false, want true")
	}
	if values.Has("missing") {
		t.Error("Has(missing) = true, want false")
	}
}

func TestParseQueryInvalidEscape(t *testing.T) {
	t.Parallel()

	if _, err := formdata.ParseQuery("bad=%zz"); err == nil {
		t.Fatal("expected error for invalid escape")
	}
}

func TestFromURLValues(t *testing.T) {
	t.Parallel()

	values := formdata.FromURLValues(url.Values{
		"b": {"2"},
		"a": {"1", "3"},
	})

	if diff := cmp.Diff([]string{"a", "b"}, values.Keys()); diff != "" {
		t.Errorf("Keys mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"1", "3"}, values.GetAll("a")); diff != "" {
		t.Errorf("GetAll mismatch (-want +got):\n%s", diff)
	}
}

func TestValuesSet(t *testing.T) {
	t.Parallel()

	values := formdata.NewValues()
	values.Add("a", "1")
	values.Add("a", "2")
	values.Set("a", "3")

	if diff := cmp.Diff([]string{"3"}, values.GetAll("a")); diff != "" {
		t.Errorf("GetAll mismatch (-want +got):\n%s", diff)
	}
	if values.Len() != 1 {
		t.Errorf("Len = %d, want 1", values.Len())
	}
}
