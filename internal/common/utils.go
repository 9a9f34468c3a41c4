package common

import "strings"

// ContainsAny reports whether s contains any of the substrings, ignoring
// case. Empty substrings never match.
func ContainsAny(s string, subs ...string) bool {
	lowered := strings.ToLower(s)
	for _, sub := range subs {
		if sub == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}
