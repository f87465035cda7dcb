package formdata

import (
	"net/url"
	"sort"
	"strings"
)

// Submission is the capability surface the decoder needs from a request's
// form payload: ordered key iteration plus single and multi-value lookup.
// Any framework request type can satisfy it; Values is the canonical
// implementation.
type Submission interface {
	// Keys returns the distinct keys in first-insertion order.
	Keys() []string
	// Get returns the first value submitted for key.
	Get(key string) (string, bool)
	// GetAll returns every value submitted for key, in submission order.
	GetAll(key string) []string
	// Has reports whether key was submitted at all, even with an empty value.
	Has(key string) bool
}

// Values is an ordered multi-valued string map. Unlike url.Values it
// remembers the order in which distinct keys were first added, which the
// decoder relies on for append markers and deterministic output.
type Values struct {
	keys  []string
	pairs map[string][]string
}

// NewValues returns an empty Values ready for Add/Set calls.
func NewValues() *Values {
	return &Values{pairs: make(map[string][]string)}
}

// ParseQuery parses a URL-encoded query string ("a=1&tags[]=x&tags[]=y")
// into Values, preserving the order keys first appear. It mirrors
// url.ParseQuery except that ordering is retained.
func ParseQuery(query string) (*Values, error) {
	values := NewValues()
	for _, pair := range strings.Split(query, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(key)
		if err != nil {
			return nil, err
		}
		value, err = url.QueryUnescape(value)
		if err != nil {
			return nil, err
		}
		values.Add(key, value)
	}
	return values, nil
}

// FromURLValues converts a url.Values into Values. Go maps have no stable
// iteration order, so keys are sorted to keep decoding deterministic.
func FromURLValues(src url.Values) *Values {
	keys := make([]string, 0, len(src))
	for key := range src {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	values := NewValues()
	for _, key := range keys {
		for _, value := range src[key] {
			values.Add(key, value)
		}
	}
	return values
}

// FromMap converts a plain map of single values into Values with sorted keys.
func FromMap(src map[string]string) *Values {
	keys := make([]string, 0, len(src))
	for key := range src {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	values := NewValues()
	for _, key := range keys {
		values.Add(key, src[key])
	}
	return values
}

// Add appends a value for key, registering the key on first use.
func (v *Values) Add(key, value string) {
	if v.pairs == nil {
		v.pairs = make(map[string][]string)
	}
	if _, exists := v.pairs[key]; !exists {
		v.keys = append(v.keys, key)
	}
	v.pairs[key] = append(v.pairs[key], value)
}

// Set replaces all values for key with a single value.
func (v *Values) Set(key, value string) {
	if v.pairs == nil {
		v.pairs = make(map[string][]string)
	}
	if _, exists := v.pairs[key]; !exists {
		v.keys = append(v.keys, key)
	}
	v.pairs[key] = []string{value}
}

// Keys returns the distinct keys in first-insertion order.
func (v *Values) Keys() []string {
	return append([]string(nil), v.keys...)
}

// Get returns the first value submitted for key.
func (v *Values) Get(key string) (string, bool) {
	all := v.pairs[key]
	if len(all) == 0 {
		return "", false
	}
	return all[0], true
}

// GetAll returns every value submitted for key, in submission order.
func (v *Values) GetAll(key string) []string {
	all := v.pairs[key]
	if len(all) == 0 {
		return nil
	}
	return append([]string(nil), all...)
}

// Has reports whether key was submitted, even with an empty value.
func (v *Values) Has(key string) bool {
	_, exists := v.pairs[key]
	return exists
}

// Len returns the number of distinct keys.
func (v *Values) Len() int {
	return len(v.keys)
}
