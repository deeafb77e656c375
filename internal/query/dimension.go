package query

import "strings"

// Dimension is one of the fixed filter dimensions of a catalog search.
type Dimension int

const (
	DimName Dimension = iota
	DimBrand
	DimNoodle
	DimIsCup
	DimCooking
	DimKcal
	DimGram
	DimSodium
	dimensionCount
)

// option is one member of a dimension's token domain.
type option struct {
	token string
	label string
}

type dimensionInfo struct {
	key     string
	title   string
	options []option // nil for free-text dimensions
}

var dimensions = [dimensionCount]dimensionInfo{
	DimName:    {key: "name", title: "Name"},
	DimBrand:   {key: "brand", title: "Brand", options: []option{{"1", "Nongshim"}, {"2", "Samyang"}, {"3", "Ottogi"}, {"4", "Paldo"}}},
	DimNoodle:  {key: "noodle", title: "Noodle", options: []option{{"1", "Fried"}, {"0", "Non-fried"}}},
	DimIsCup:   {key: "isCup", title: "Package", options: []option{{"1", "Cup"}, {"0", "Bag"}}},
	DimCooking: {key: "cooking", title: "Cooking", options: []option{{"1", "Soup"}, {"0", "Stir-fried"}}},
	DimKcal:    {key: "kcal", title: "Calories", options: []option{{"1", "~300"}, {"2", "300~500"}, {"3", "500~"}}},
	DimGram:    {key: "gram", title: "Weight (g)", options: []option{{"1", "0-100"}, {"2", "100~"}}},
	DimSodium:  {key: "na", title: "Sodium (mg)", options: []option{{"1", "~1000"}, {"2", "1000~1400"}, {"3", "1400~1700"}, {"4", "1700~"}}},
}

// Dimensions returns every dimension in wire order.
func Dimensions() []Dimension {
	out := make([]Dimension, 0, dimensionCount)
	for d := DimName; d < dimensionCount; d++ {
		out = append(out, d)
	}
	return out
}

// ParseDimension maps an address key to its dimension.
func ParseDimension(key string) (Dimension, bool) {
	for d := DimName; d < dimensionCount; d++ {
		if dimensions[d].key == key {
			return d, true
		}
	}
	return 0, false
}

// Valid reports whether d is a known dimension.
func (d Dimension) Valid() bool {
	return d >= DimName && d < dimensionCount
}

// Key is the address parameter name.
func (d Dimension) Key() string {
	if !d.Valid() {
		return ""
	}
	return dimensions[d].key
}

// Title is a human readable heading for the filter panel.
func (d Dimension) Title() string {
	if !d.Valid() {
		return ""
	}
	return dimensions[d].title
}

func (d Dimension) String() string { return d.Key() }

// FreeText reports whether the dimension accepts arbitrary text rather than
// an enumerated token.
func (d Dimension) FreeText() bool {
	return d.Valid() && dimensions[d].options == nil
}

// Tokens returns the enumerated token domain, or nil for free-text
// dimensions.
func (d Dimension) Tokens() []string {
	if !d.Valid() {
		return nil
	}
	opts := dimensions[d].options
	if opts == nil {
		return nil
	}
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = o.token
	}
	return out
}

// Label returns the display label for token, or the token itself when the
// dimension has no label for it.
func (d Dimension) Label(token string) string {
	if !d.Valid() {
		return token
	}
	for _, o := range dimensions[d].options {
		if o.token == token {
			return o.label
		}
	}
	return token
}

// normalizeToken returns the stored form of token and whether it belongs to
// the dimension's domain.
func (d Dimension) normalizeToken(token string) (string, bool) {
	if !d.Valid() {
		return "", false
	}
	if d.FreeText() {
		token = strings.TrimSpace(token)
		return token, token != ""
	}
	for _, o := range dimensions[d].options {
		if o.token == token {
			return token, true
		}
	}
	return "", false
}
