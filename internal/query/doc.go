// Package query maps between a search address and typed search state.
//
// The address is a URL query string such as
//
//	page=2&sort=name&direction=desc&brand=1&brand=3&name=shin
//
// and is the canonical form of the state: it is what the status bar shows,
// what -address accepts, what prefs persists between launches and what the
// back and forward keys walk.
//
// # Dimensions
//
// Eight filter dimensions exist. Each has a fixed address key and, except for
// name, a closed token domain:
//
//	name     free text (trimmed, non-empty)
//	brand    1..4
//	noodle   0, 1
//	isCup    0, 1
//	cooking  0, 1
//	kcal     1..3
//	gram     1..2
//	na       1..4
//
// Tokens outside a domain are never stored. Derive drops them silently and
// Controller.ToggleFilterToken reports false.
//
// # Derive and Encode
//
// Derive never fails. Missing, non-numeric or non-positive pages become 1,
// unknown sorts become name, and direction is only read when the sort is name.
// Encode writes page, sort and direction first and then each non-empty
// dimension in the order above with sorted tokens, so Derive(Encode(s)) == s
// for every valid state and equal states always encode to the same string.
// State.Key is that encoding and is used as the fetch key.
//
// # Controller
//
// Controller holds a bounded history of (state, address) pairs. Every
// mutation builds a complete new state from the current one under a single
// mutex and appends it as a new entry, dropping any forward entries.
package query
