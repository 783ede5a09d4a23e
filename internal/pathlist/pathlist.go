// Package pathlist splits, joins and diffs delimiter-separated path lists
// such as PATH or PSModulePath.
//
// Entries are opaque strings. Two entries are equal only when they match
// byte for byte: no case folding and no trailing-separator normalization.
package pathlist

import (
	"os"
	"strings"
)

// DefaultDelimiter is the platform's path-list separator.
var DefaultDelimiter = string(os.PathListSeparator)

// List is an ordered sequence of path entries.
type List []string

// Split breaks raw on delim and drops empty segments.
// A leading, trailing or doubled delimiter therefore produces no entries.
func Split(raw, delim string) List {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, delim)
	out := make(List, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Join concatenates the entries with delim.
func (l List) Join(delim string) string {
	return strings.Join(l, delim)
}

// Contains reports whether entry is in the list (exact match).
func (l List) Contains(entry string) bool {
	for _, e := range l {
		if e == entry {
			return true
		}
	}
	return false
}

// Additions returns the entries of after that appear in neither before nor
// live, in the order they appear in after.
//
// Literal duplicates inside after are kept: an entry listed twice in after
// and absent from before and live is returned twice.
func Additions(after, before, live List) List {
	excluded := make(map[string]struct{}, len(before)+len(live))
	for _, e := range before {
		excluded[e] = struct{}{}
	}
	for _, e := range live {
		excluded[e] = struct{}{}
	}

	var out List
	for _, e := range after {
		if _, ok := excluded[e]; ok {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Append returns live extended with additions, separated by delim.
// The delimiter is always inserted, even when live is empty.
func Append(live string, additions List, delim string) string {
	if len(additions) == 0 {
		return live
	}
	return live + delim + additions.Join(delim)
}
