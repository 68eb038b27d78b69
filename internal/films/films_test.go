package films

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

const horrorCSV = `Film,Year,Genre,Combined Score,RT Critic Score,RT Audience Score,Metacritic Critic Score,Metacritic Audience Score,Letterboxd Score (Adjusted),CinemaScore (Adjusted),Postive/Negative
Hereditary,2018,Horror,80,89,64,87,76,78,38,Positive
The Nun,2018,Horror,40,24,36,46,41,38,,Negative
Get Out,2017,Thriller,90,98,86,85,79,82,88,Positive
Us,2019,Horror,n/a,93,59,81,,70,56,Positive
`

const nonHorrorCSV = `Film,Year,Genre,Combined Score,RT Critic Score,RT Audience Score,Metacritic Critic Score,Metacritic Audience Score,Letterboxd Score (Adjusted),CinemaScore (Adjusted)
Parasite,2019,Drama,95,99,90,96,89,92,90
Cats,2019,Musical,20,19,53,32,20,15,45
Edge,2021,Comedy,70,,,,,,
`

func TestParseNumber(t *testing.T) {
	cases := map[string]bool{
		"42":     true,
		" 7.5 ":  true,
		"":       false,
		"n/a":    false,
		"Inf":    false,
		"NaN":    false,
		"85%":    false,
		"-3":     true,
		"1e2":    true,
		"   ":    false,
		"twelve": false,
	}
	for in, numeric := range cases {
		got := ParseNumber(in)
		if IsMissing(got) == numeric {
			t.Fatalf("ParseNumber(%q) = %v; numeric want %v", in, got, numeric)
		}
	}
}

func TestParseHorrorFiltersGenreAndUsesLabel(t *testing.T) {
	got, err := ParseHorror(strings.NewReader(horrorCSV))
	if err != nil {
		t.Fatalf("ParseHorror() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("ParseHorror() len = %d; want 3", len(got))
	}
	for _, f := range got {
		if f.Genre != "Horror" {
			t.Fatalf("ParseHorror() kept genre %q", f.Genre)
		}
	}
	if !got[0].IsPositive || got[1].IsPositive {
		t.Fatalf("positivity = %v,%v; want true,false", got[0].IsPositive, got[1].IsPositive)
	}
	// Us is labelled Positive even though its Combined Score is missing.
	if !got[2].IsPositive {
		t.Fatalf("Us positivity = false; want label-driven true")
	}
	if got[2].HasScore(CombinedScore) {
		t.Fatalf("Us Combined Score = %v; want missing", got[2].Score(CombinedScore))
	}
	if got[1].HasScore(CinemaScore) {
		t.Fatalf("The Nun CinemaScore should be missing")
	}
	if got[0].Year != 2018 || got[0].Score(RTCriticScore) != 89 {
		t.Fatalf("Hereditary parsed as %+v", got[0])
	}
}

func TestParseNonHorrorUsesThreshold(t *testing.T) {
	got, err := ParseNonHorror(strings.NewReader(nonHorrorCSV))
	if err != nil {
		t.Fatalf("ParseNonHorror() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("ParseNonHorror() len = %d; want 3", len(got))
	}
	want := []bool{true, false, true}
	for i, f := range got {
		if f.IsPositive != want[i] {
			t.Fatalf("%s IsPositive = %v; want %v", f.Film, f.IsPositive, want[i])
		}
	}
	if got[2].HasScore(RTCriticScore) {
		t.Fatalf("Edge RT Critic should be missing")
	}
}

func TestParseMissingColumns(t *testing.T) {
	_, err := ParseHorror(strings.NewReader("Film,Year,Genre\nX,2000,Horror\n"))
	if err == nil {
		t.Fatalf("ParseHorror() = nil; want missing column error")
	}
	if !strings.Contains(err.Error(), "Postive/Negative") {
		t.Fatalf("error %q does not name the positivity column", err)
	}

	if _, err := ParseNonHorror(strings.NewReader("")); err == nil {
		t.Fatalf("ParseNonHorror(empty) = nil; want error")
	}
}

func TestScoreKeyLabels(t *testing.T) {
	cases := map[ScoreKey]string{
		CombinedScore:           "Combined",
		RTCriticScore:           "RT Crit.",
		RTAudienceScore:         "RT Aud.",
		LetterboxdScore:         "Letterboxd (Adj.)",
		MetacriticAudienceScore: "Metacritic Aud.",
	}
	for k, want := range cases {
		if got := k.ShortLabel(); got != want {
			t.Fatalf("%q.ShortLabel() = %q; want %q", k, got, want)
		}
	}
	if _, err := ParseScoreKey("Rotten"); err == nil {
		t.Fatalf("ParseScoreKey(Rotten) = nil; want error")
	}
}

func TestSortByYearStableMissingLast(t *testing.T) {
	in := []FilmRecord{
		{Film: "a", Year: 2005},
		{Film: "b", Year: Missing()},
		{Film: "c", Year: 1999},
		{Film: "d", Year: 2005},
		{Film: "e", Year: 2001},
	}
	got := SortByYear(in)
	order := ""
	for _, f := range got {
		order += f.Film
	}
	if order != "ceadb" {
		t.Fatalf("SortByYear order = %q; want %q", order, "ceadb")
	}
	for i := 1; i < len(got)-1; i++ {
		if got[i].Year < got[i-1].Year {
			t.Fatalf("SortByYear not monotonic at %d", i)
		}
	}
	if in[0].Film != "a" {
		t.Fatalf("SortByYear mutated its input")
	}

	desc := append([]FilmRecord(nil), in...)
	sort.SliceStable(desc, func(i, j int) bool { return YearBefore(desc[i], desc[j], true) })
	order = ""
	for _, f := range desc {
		order += f.Film
	}
	if order != "adecb" {
		t.Fatalf("YearBefore desc order = %q; want %q", order, "adecb")
	}
}

func TestLoadBothSourcesAssignsIDs(t *testing.T) {
	dir := t.TempDir()
	hp := filepath.Join(dir, "horror.csv")
	if err := os.WriteFile(hp, []byte(horrorCSV), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, nonHorrorCSV)
	}))
	defer srv.Close()

	ds, err := Load(context.Background(), SourceFor(hp), SourceFor(srv.URL))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(ds.Horror) != 3 || len(ds.NonHorror) != 3 {
		t.Fatalf("Load() sizes = %d,%d; want 3,3", len(ds.Horror), len(ds.NonHorror))
	}
	all := ds.All()
	for i, f := range all {
		if f.ID != FilmID(i) {
			t.Fatalf("All()[%d].ID = %d", i, f.ID)
		}
		got, ok := ds.Lookup(f.ID)
		if !ok || got.Film != f.Film {
			t.Fatalf("Lookup(%d) = %v,%v", f.ID, got.Film, ok)
		}
	}
	if _, ok := ds.Lookup(FilmID(len(all))); ok {
		t.Fatalf("Lookup past end succeeded")
	}
	if _, ok := ds.Lookup(NoFilm); ok {
		t.Fatalf("Lookup(NoFilm) succeeded")
	}
}

func TestLoadFailsWhenEitherSourceFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	dir := t.TempDir()
	hp := filepath.Join(dir, "horror.csv")
	if err := os.WriteFile(hp, []byte(horrorCSV), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := Load(context.Background(), SourceFor(hp), SourceFor(srv.URL))
	if err == nil {
		t.Fatalf("Load() = nil; want error")
	}
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("Load() error type = %T; want *LoadError", err)
	}
	if _, ok := le.Failures[DatasetNonHorror]; !ok {
		t.Fatalf("Failures = %v; want non-horror entry", le.Failures)
	}
	if _, ok := le.Failures[DatasetHorror]; ok {
		t.Fatalf("horror source should have succeeded")
	}
}
