// Package formdata models flat form submissions and reconstructs the nested
// structure encoded in bracket-notation keys such as user[address][0][city].
//
// A Submission is an ordered, multi-valued string mapping; Decode turns it
// into a tree of maps and slices while keeping, for every leaf, the original
// key and raw values so callers can reconcile validation errors against what
// the user actually typed.
package formdata
