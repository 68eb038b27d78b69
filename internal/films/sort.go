package films

import "sort"

// SortByYear returns a copy of films ordered by ascending Year. The sort is
// stable and records with a missing year go last in their original order.
func SortByYear(films []FilmRecord) []FilmRecord {
	out := append([]FilmRecord(nil), films...)
	sort.SliceStable(out, func(i, j int) bool {
		return YearBefore(out[i], out[j], false)
	})
	return out
}

// YearBefore orders a before b by year, newest first when desc is set.
// Records with a missing year go after every dated record in both directions.
func YearBefore(a, b FilmRecord, desc bool) bool {
	switch {
	case !a.HasYear():
		return false
	case !b.HasYear():
		return true
	case desc:
		return a.Year > b.Year
	}
	return a.Year < b.Year
}

// Filter returns the records for which keep returns true.
func Filter(films []FilmRecord, keep func(FilmRecord) bool) []FilmRecord {
	var out []FilmRecord
	for _, f := range films {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}
