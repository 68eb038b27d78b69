package viewstate

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/dgnsrekt/filmscope/internal/films"
)

// SortMode orders the comparison charts.
type SortMode string

const (
	SortAbsDiff        SortMode = "abs-diff"
	SortCriticHigher   SortMode = "critic-higher"
	SortAudienceHigher SortMode = "audience-higher"
	SortYearAsc        SortMode = "year-asc"
	SortYearDesc       SortMode = "year-desc"
)

// SortModes lists every mode in selector order.
var SortModes = []SortMode{SortAbsDiff, SortCriticHigher, SortAudienceHigher, SortYearAsc, SortYearDesc}

// ParseSortMode validates a sort mode name.
func ParseSortMode(s string) (SortMode, error) {
	m := SortMode(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range SortModes {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown sort mode %q", s)
}

// Label is the human-readable selector text.
func (m SortMode) Label() string {
	switch m {
	case SortCriticHigher:
		return "Critics rate higher"
	case SortAudienceHigher:
		return "Audience rates higher"
	case SortYearAsc:
		return "Year (oldest first)"
	case SortYearDesc:
		return "Year (newest first)"
	default:
		return "Largest difference"
	}
}

// Limit is a display count: a positive N, or every record.
type Limit struct {
	N   int
	All bool
}

// LimitAll shows every record.
var LimitAll = Limit{All: true}

// LimitOf returns a bounded limit.
func LimitOf(n int) Limit { return Limit{N: n} }

// ParseLimit accepts "all" or a positive integer.
func ParseLimit(s string) (Limit, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "all" {
		return LimitAll, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return Limit{}, fmt.Errorf("limit must be \"all\" or a positive integer (received %q)", s)
	}
	return LimitOf(n), nil
}

// Apply returns how many of total records are displayed.
func (l Limit) Apply(total int) int {
	if l.All || l.N >= total {
		return total
	}
	if l.N < 0 {
		return 0
	}
	return l.N
}

func (l Limit) String() string {
	if l.All {
		return "all"
	}
	return strconv.Itoa(l.N)
}

// MarshalJSON encodes "all" or the integer.
func (l Limit) MarshalJSON() ([]byte, error) {
	if l.All {
		return []byte(`"all"`), nil
	}
	return []byte(strconv.Itoa(l.N)), nil
}

// UnmarshalJSON accepts "all", an integer, or an integer string.
func (l *Limit) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		if n < 1 {
			return fmt.Errorf("limit must be positive (received %d)", n)
		}
		*l = LimitOf(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("limit must be \"all\" or an integer")
	}
	parsed, err := ParseLimit(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ViewState drives the line and radar charts.
type ViewState struct {
	ActiveScoreKey films.ScoreKey `json:"active_score_key"`
	ShowAllScores  bool           `json:"show_all_scores"`
	ShowRadarPanel bool           `json:"show_radar_panel"`
	FocusedFilm    films.FilmID   `json:"focused_film"`
	// Hovering is set while the pointer is over the focused film's point.
	Hovering bool `json:"hovering"`
}

// HasFocus reports whether a film is focused.
func (v ViewState) HasFocus() bool { return v.FocusedFilm != films.NoFilm }

// HoveredFilm is the film under the pointer, or NoFilm.
func (v ViewState) HoveredFilm() films.FilmID {
	if !v.Hovering {
		return films.NoFilm
	}
	return v.FocusedFilm
}

// ComparisonSettings drives the comparison charts.
type ComparisonSettings struct {
	DisplayCount Limit    `json:"display_count"`
	SortMode     SortMode `json:"sort_mode"`
}

// State is the whole immutable view model. Values are replaced, never
// mutated in place.
type State struct {
	View       ViewState          `json:"view"`
	Comparison ComparisonSettings `json:"comparison"`
}

// Default comparison settings.
const DefaultDisplayCount = 20

// Initial returns the startup state.
func Initial() State {
	return State{
		View: ViewState{
			ActiveScoreKey: films.CombinedScore,
			FocusedFilm:    films.NoFilm,
		},
		Comparison: ComparisonSettings{
			DisplayCount: LimitOf(DefaultDisplayCount),
			SortMode:     SortAbsDiff,
		},
	}
}

// WithComparison returns s with the given comparison settings.
func (s State) WithComparison(c ComparisonSettings) State {
	s.Comparison = c
	return s
}
