package query

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// Sort is the field results are ordered by.
type Sort string

const (
	SortName        Sort = "name"
	SortAvgRate     Sort = "avgRate"
	SortReviewCount Sort = "reviewCount"
)

// Sorts lists the accepted sort fields in display order.
var Sorts = []Sort{SortName, SortAvgRate, SortReviewCount}

// ParseSort returns the sort field for raw, falling back to SortName.
func ParseSort(raw string) Sort {
	for _, s := range Sorts {
		if string(s) == raw {
			return s
		}
	}
	return SortName
}

// Direction is the ordering direction. It only has meaning for SortName.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Filters maps each constrained dimension to its sorted, deduplicated token
// set. Dimensions without tokens are absent.
type Filters map[Dimension][]string

// Has reports whether token is selected for d.
func (f Filters) Has(d Dimension, token string) bool {
	_, found := slices.BinarySearch(f[d], token)
	return found
}

// Tokens returns a copy of the tokens selected for d.
func (f Filters) Tokens(d Dimension) []string {
	return slices.Clone(f[d])
}

// Len counts selected tokens across all dimensions.
func (f Filters) Len() int {
	n := 0
	for _, tokens := range f {
		n += len(tokens)
	}
	return n
}

// Clone returns a deep copy.
func (f Filters) Clone() Filters {
	if len(f) == 0 {
		return nil
	}
	out := make(Filters, len(f))
	for d, tokens := range f {
		out[d] = slices.Clone(tokens)
	}
	return out
}

// add inserts token into d's set in place. The caller must own f.
func (f Filters) add(d Dimension, token string) {
	tokens := f[d]
	i, found := slices.BinarySearch(tokens, token)
	if found {
		return
	}
	f[d] = slices.Insert(tokens, i, token)
}

// remove deletes token from d's set in place. The caller must own f.
func (f Filters) remove(d Dimension, token string) {
	tokens := f[d]
	i, found := slices.BinarySearch(tokens, token)
	if !found {
		return
	}
	tokens = slices.Delete(tokens, i, i+1)
	if len(tokens) == 0 {
		delete(f, d)
		return
	}
	f[d] = tokens
}

// State is the typed form of a search address.
type State struct {
	Page      int
	Sort      Sort
	Direction Direction
	Filters   Filters
}

// DefaultState is the state of an empty address.
func DefaultState() State {
	return State{Page: 1, Sort: SortName, Direction: Asc}
}

// Key returns the canonical fetch key for the state. Two states with equal
// keys request the same page of results.
func (s State) Key() string {
	return Encode(s)
}

// Equal compares states by value.
func (s State) Equal(other State) bool {
	if s.Page != other.Page || s.Sort != other.Sort || s.Direction != other.Direction {
		return false
	}
	if len(s.Filters) != len(other.Filters) {
		return false
	}
	for d, tokens := range s.Filters {
		if !slices.Equal(tokens, other.Filters[d]) {
			return false
		}
	}
	return true
}

// Clone returns a copy that shares no memory with s.
func (s State) Clone() State {
	s.Filters = s.Filters.Clone()
	return s
}

// NameQuery returns the current free-text search term, if any.
func (s State) NameQuery() string {
	tokens := s.Filters[DimName]
	if len(tokens) == 0 {
		return ""
	}
	return tokens[0]
}

// Derive builds a State from an address. address may be a bare query
// ("page=2&sort=name"), a "?"-prefixed query or a full URL. Nothing in the
// address is an error: unparseable or out-of-domain values fall back to
// defaults and unknown keys are ignored.
func Derive(address string) State {
	values := parseValues(address)
	st := DefaultState()

	if page, err := strconv.Atoi(strings.TrimSpace(values.Get("page"))); err == nil && page > 0 {
		st.Page = page
	}
	st.Sort = ParseSort(values.Get("sort"))
	if st.Sort == SortName && values.Get("direction") == string(Desc) {
		st.Direction = Desc
	}

	for key, raw := range values {
		d, ok := ParseDimension(key)
		if !ok {
			continue
		}
		for _, tok := range raw {
			norm, ok := d.normalizeToken(tok)
			if !ok {
				continue
			}
			if st.Filters == nil {
				st.Filters = make(Filters)
			}
			st.Filters.add(d, norm)
		}
	}
	return st
}

// parseValues extracts the query part of address. url.ParseQuery keeps every
// pair it could decode even when it reports an error, so malformed escapes
// only lose the offending pair.
func parseValues(address string) url.Values {
	raw := strings.TrimSpace(address)
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw = raw[:i]
	}
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		raw = raw[i+1:]
	} else if strings.Contains(raw, "://") {
		return url.Values{}
	}
	values, _ := url.ParseQuery(raw)
	return values
}

// Encode serializes s as an address query. The output is deterministic:
// page, sort and direction come first, then each non-empty dimension in
// wire order with its tokens sorted.
func Encode(s State) string {
	page := s.Page
	if page < 1 {
		page = 1
	}
	sortField := ParseSort(string(s.Sort))
	dir := Asc
	if sortField == SortName && s.Direction == Desc {
		dir = Desc
	}

	var b strings.Builder
	b.WriteString("page=")
	b.WriteString(strconv.Itoa(page))
	b.WriteString("&sort=")
	b.WriteString(string(sortField))
	b.WriteString("&direction=")
	b.WriteString(string(dir))
	for _, d := range Dimensions() {
		tokens := s.Filters[d]
		if len(tokens) == 0 {
			continue
		}
		sorted := slices.Clone(tokens)
		slices.Sort(sorted)
		sorted = slices.Compact(sorted)
		for _, tok := range sorted {
			b.WriteByte('&')
			b.WriteString(d.Key())
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(tok))
		}
	}
	return b.String()
}
