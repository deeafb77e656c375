package query

import (
	"testing"

	"pgregory.net/rapid"
)

func TestDerive_PageNormalization(t *testing.T) {
	cases := []struct {
		address string
		want    int
	}{
		{"", 1},
		{"page=0", 1},
		{"page=-1", 1},
		{"page=abc", 1},
		{"page=", 1},
		{"page=3", 3},
		{"?page=7&sort=name", 7},
		{"https://example.com/search?page=4#top", 4},
	}
	for _, tc := range cases {
		if got := Derive(tc.address).Page; got != tc.want {
			t.Fatalf("Derive(%q).Page = %d, want %d", tc.address, got, tc.want)
		}
	}
}

func TestDerive_SortAndDirection(t *testing.T) {
	cases := []struct {
		address string
		sort    Sort
		dir     Direction
	}{
		{"", SortName, Asc},
		{"sort=bogus&direction=desc", SortName, Desc},
		{"sort=name&direction=desc", SortName, Desc},
		{"sort=name&direction=sideways", SortName, Asc},
		{"sort=avgRate&direction=desc", SortAvgRate, Asc},
		{"sort=reviewCount", SortReviewCount, Asc},
	}
	for _, tc := range cases {
		st := Derive(tc.address)
		if st.Sort != tc.sort || st.Direction != tc.dir {
			t.Fatalf("Derive(%q) = %s/%s, want %s/%s", tc.address, st.Sort, st.Direction, tc.sort, tc.dir)
		}
	}
}

func TestDerive_FiltersAreDeduplicatedAndValidated(t *testing.T) {
	st := Derive("brand=3&brand=1&brand=3&brand=9&noodle=1&isCup=2&color=red&name=%20shin%20&na=4&na=x")

	if got := st.Filters.Tokens(DimBrand); len(got) != 2 || got[0] != "1" || got[1] != "3" {
		t.Fatalf("brand = %v, want [1 3]", got)
	}
	if !st.Filters.Has(DimNoodle, "1") {
		t.Fatalf("noodle = %v, want [1]", st.Filters.Tokens(DimNoodle))
	}
	if _, ok := st.Filters[DimIsCup]; ok {
		t.Fatalf("isCup = %v, want absent", st.Filters.Tokens(DimIsCup))
	}
	if got := st.NameQuery(); got != "shin" {
		t.Fatalf("name = %q, want shin", got)
	}
	if got := st.Filters.Tokens(DimSodium); len(got) != 1 || got[0] != "4" {
		t.Fatalf("na = %v, want [4]", got)
	}
	if st.Filters.Len() != 5 {
		t.Fatalf("Len = %d, want 5", st.Filters.Len())
	}
}

func TestDerive_MalformedEscapesKeepTheRest(t *testing.T) {
	st := Derive("page=2&name=%zz&brand=2")
	if st.Page != 2 {
		t.Fatalf("Page = %d, want 2", st.Page)
	}
	if !st.Filters.Has(DimBrand, "2") {
		t.Fatalf("brand = %v, want [2]", st.Filters.Tokens(DimBrand))
	}
	if st.NameQuery() != "" {
		t.Fatalf("name = %q, want empty", st.NameQuery())
	}
}

func TestEncode_Deterministic(t *testing.T) {
	st := State{
		Page:      2,
		Sort:      SortName,
		Direction: Desc,
		Filters: Filters{
			DimSodium: {"4", "1"},
			DimBrand:  {"3", "1"},
			DimName:   {"shin ramyun"},
		},
	}
	want := "page=2&sort=name&direction=desc&name=shin+ramyun&brand=1&brand=3&na=1&na=4"
	if got := Encode(st); got != want {
		t.Fatalf("Encode = %q, want %q", got, want)
	}
}

func TestEncode_DirectionInertOutsideName(t *testing.T) {
	st := State{Page: 1, Sort: SortAvgRate, Direction: Desc}
	if got := Encode(st); got != "page=1&sort=avgRate&direction=asc" {
		t.Fatalf("Encode = %q", got)
	}
}

func stateGen() *rapid.Generator[State] {
	return rapid.Custom(func(t *rapid.T) State {
		st := State{
			Page: rapid.IntRange(1, 500).Draw(t, "page"),
			Sort: rapid.SampledFrom(Sorts).Draw(t, "sort"),
		}
		st.Direction = Asc
		if st.Sort == SortName {
			st.Direction = rapid.SampledFrom([]Direction{Asc, Desc}).Draw(t, "direction")
		}
		for _, d := range Dimensions() {
			var picks []string
			if d.FreeText() {
				picks = rapid.SliceOfN(rapid.StringMatching(`[a-z0-9&=%+#? ]{0,6}[a-z]`), 0, 1).Draw(t, d.Key())
			} else {
				picks = rapid.SliceOfN(rapid.SampledFrom(d.Tokens()), 0, 4).Draw(t, d.Key())
			}
			for _, p := range picks {
				norm, ok := d.normalizeToken(p)
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
	})
}

func TestDeriveEncode_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		st := stateGen().Draw(t, "state")
		addr := Encode(st)
		got := Derive(addr)
		if !got.Equal(st) {
			t.Fatalf("Derive(Encode(s)) = %+v, want %+v (address %q)", got, st, addr)
		}
		if again := Encode(got); again != addr {
			t.Fatalf("Encode not stable: %q then %q", addr, again)
		}
	})
}
