package viewstate

import (
	"encoding/json"
	"testing"

	"github.com/dgnsrekt/filmscope/internal/films"
)

func TestInitialDefaults(t *testing.T) {
	s := Initial()
	if s.View.ActiveScoreKey != films.CombinedScore {
		t.Fatalf("ActiveScoreKey = %q; want %q", s.View.ActiveScoreKey, films.CombinedScore)
	}
	if s.View.ShowAllScores || s.View.ShowRadarPanel || s.View.HasFocus() {
		t.Fatalf("Initial view = %+v; want all toggles off and no focus", s.View)
	}
	if s.Comparison.DisplayCount != LimitOf(20) || s.Comparison.SortMode != SortAbsDiff {
		t.Fatalf("Initial comparison = %+v", s.Comparison)
	}
}

func TestReduceTransitions(t *testing.T) {
	s := Initial()

	s, err := Reduce(s, ToggleAllScores{})
	if err != nil || !s.View.ShowAllScores {
		t.Fatalf("ToggleAllScores -> %+v, %v", s.View, err)
	}

	s, err = Reduce(s, SelectScoreKey{Key: films.RTCriticScore})
	if err != nil {
		t.Fatalf("SelectScoreKey error = %v", err)
	}
	if s.View.ActiveScoreKey != films.RTCriticScore || s.View.ShowAllScores {
		t.Fatalf("SelectScoreKey -> %+v; want RT critic and single-key mode", s.View)
	}

	s, _ = Reduce(s, HoverFilm{Film: 3})
	if s.View.FocusedFilm != 3 || s.View.ShowRadarPanel || s.View.HoveredFilm() != 3 {
		t.Fatalf("HoverFilm -> %+v; want focus 3 without opening radar", s.View)
	}

	s, _ = Reduce(s, ClearHover{})
	if s.View.HoveredFilm() != films.NoFilm || s.View.FocusedFilm != 3 {
		t.Fatalf("ClearHover -> %+v; want no hover and focus kept", s.View)
	}

	s, _ = Reduce(s, FocusFilm{Film: 5})
	if s.View.FocusedFilm != 5 || !s.View.ShowRadarPanel {
		t.Fatalf("FocusFilm -> %+v; want focus 5 and radar open", s.View)
	}

	s, _ = Reduce(s, ToggleRadar{})
	if s.View.ShowRadarPanel {
		t.Fatalf("ToggleRadar did not close the panel")
	}
	s, _ = Reduce(s, ToggleRadar{})
	s, _ = Reduce(s, CloseRadar{})
	if s.View.ShowRadarPanel {
		t.Fatalf("CloseRadar left the panel open")
	}

	s, _ = Reduce(s, SetComparisonSort{Mode: SortYearDesc})
	s, _ = Reduce(s, SetComparisonLimit{Limit: LimitAll})
	if s.Comparison.SortMode != SortYearDesc || !s.Comparison.DisplayCount.All {
		t.Fatalf("comparison = %+v", s.Comparison)
	}
}

func TestReduceRejectsInvalidAndKeepsState(t *testing.T) {
	s := Initial()
	cases := []Intent{
		SelectScoreKey{Key: "Bogus"},
		SetComparisonSort{Mode: "random"},
		SetComparisonLimit{Limit: LimitOf(0)},
		nil,
	}
	for _, in := range cases {
		got, err := Reduce(s, in)
		if err == nil {
			t.Fatalf("Reduce(%#v) = nil error; want rejection", in)
		}
		if got != s {
			t.Fatalf("Reduce(%#v) changed state to %+v", in, got)
		}
	}
}

func TestStoreRendersAfterEveryMutation(t *testing.T) {
	var rendered []State
	st := NewStore(Initial(), func(next State, _ Intent) {
		rendered = append(rendered, next)
	})

	if _, err := st.Dispatch(ToggleRadar{}); err != nil {
		t.Fatalf("Dispatch error = %v", err)
	}
	if _, err := st.Dispatch(SelectScoreKey{Key: "nope"}); err == nil {
		t.Fatalf("Dispatch(invalid) = nil; want error")
	}
	if len(rendered) != 1 {
		t.Fatalf("render count = %d; want 1", len(rendered))
	}
	if rendered[0] != st.State() {
		t.Fatalf("rendered state %+v diverges from store %+v", rendered[0], st.State())
	}

	st.Refresh()
	if len(rendered) != 2 {
		t.Fatalf("Refresh did not render")
	}
}

func TestDecodeIntent(t *testing.T) {
	cases := []struct {
		raw  string
		want Intent
	}{
		{`{"type":"select_score_key","key":"RT Critic Score"}`, SelectScoreKey{Key: films.RTCriticScore}},
		{`{"type":"toggle_all_scores"}`, ToggleAllScores{}},
		{`{"type":"toggle_radar"}`, ToggleRadar{}},
		{`{"type":"close_radar"}`, CloseRadar{}},
		{`{"type":"clear_hover"}`, ClearHover{}},
		{`{"type":"hover_film","film_id":4}`, HoverFilm{Film: 4}},
		{`{"type":"focus_film","film_id":0}`, FocusFilm{Film: 0}},
		{`{"type":"set_comparison_sort","mode":"critic-higher"}`, SetComparisonSort{Mode: SortCriticHigher}},
		{`{"type":"set_comparison_limit","limit":"all"}`, SetComparisonLimit{Limit: LimitAll}},
		{`{"type":"set_comparison_limit","limit":10}`, SetComparisonLimit{Limit: LimitOf(10)}},
		{`{"type":"set_comparison_limit","limit":"30"}`, SetComparisonLimit{Limit: LimitOf(30)}},
	}
	for _, tc := range cases {
		got, err := DecodeIntent([]byte(tc.raw))
		if err != nil {
			t.Fatalf("DecodeIntent(%s) error = %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("DecodeIntent(%s) = %#v; want %#v", tc.raw, got, tc.want)
		}
	}

	bad := []string{
		`{}`,
		`{"type":"explode"}`,
		`{"type":"hover_film"}`,
		`{"type":"set_comparison_limit","limit":0}`,
		`{"type":"set_comparison_limit","limit":"some"}`,
		`not json`,
	}
	for _, raw := range bad {
		if _, err := DecodeIntent([]byte(raw)); err == nil {
			t.Fatalf("DecodeIntent(%s) = nil error", raw)
		}
	}
}

func TestLimitJSONRoundTrip(t *testing.T) {
	b, err := json.Marshal(ComparisonSettings{DisplayCount: LimitAll, SortMode: SortAbsDiff})
	if err != nil {
		t.Fatalf("Marshal error = %v", err)
	}
	if string(b) != `{"display_count":"all","sort_mode":"abs-diff"}` {
		t.Fatalf("Marshal = %s", b)
	}
	if got := LimitOf(5).Apply(3); got != 3 {
		t.Fatalf("Apply = %d; want 3", got)
	}
	if got := LimitOf(2).Apply(3); got != 2 {
		t.Fatalf("Apply = %d; want 2", got)
	}
	if got := LimitAll.Apply(7); got != 7 {
		t.Fatalf("Apply = %d; want 7", got)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	intents := []Intent{
		SelectScoreKey{Key: films.MetacriticAudienceScore},
		ToggleAllScores{},
		ClearHover{},
		HoverFilm{Film: 0},
		FocusFilm{Film: 7},
		SetComparisonSort{Mode: SortYearDesc},
		SetComparisonLimit{Limit: LimitAll},
		SetComparisonLimit{Limit: LimitOf(5)},
	}
	for _, in := range intents {
		raw, err := json.Marshal(Encode(in))
		if err != nil {
			t.Fatalf("marshal %#v: %v", in, err)
		}
		got, err := DecodeIntent(raw)
		if err != nil {
			t.Fatalf("DecodeIntent(%s) error = %v", raw, err)
		}
		if got != in {
			t.Fatalf("round trip of %#v = %#v (wire %s)", in, got, raw)
		}
	}

	raw, _ := json.Marshal(Encode(FocusFilm{Film: 3}))
	if string(raw) != `{"type":"focus_film","film_id":3}` {
		t.Fatalf("wire form = %s", raw)
	}
}
