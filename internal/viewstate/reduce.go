package viewstate

import "fmt"

// Reduce computes the state that follows s after in. It never mutates s and
// rejects intents carrying invalid values. Film IDs are not checked here; the
// caller owns the datasets.
func Reduce(s State, in Intent) (State, error) {
	next := s
	switch in := in.(type) {
	case SelectScoreKey:
		if !in.Key.Valid() {
			return s, fmt.Errorf("unknown score key %q", in.Key)
		}
		next.View.ActiveScoreKey = in.Key
		next.View.ShowAllScores = false
	case ToggleAllScores:
		next.View.ShowAllScores = !s.View.ShowAllScores
	case ToggleRadar:
		next.View.ShowRadarPanel = !s.View.ShowRadarPanel
	case CloseRadar:
		next.View.ShowRadarPanel = false
	case HoverFilm:
		next.View.FocusedFilm = in.Film
		next.View.Hovering = true
	case ClearHover:
		next.View.Hovering = false
	case FocusFilm:
		next.View.FocusedFilm = in.Film
		next.View.ShowRadarPanel = true
	case SetComparisonSort:
		if _, err := ParseSortMode(string(in.Mode)); err != nil {
			return s, err
		}
		next.Comparison.SortMode = in.Mode
	case SetComparisonLimit:
		if !in.Limit.All && in.Limit.N < 1 {
			return s, fmt.Errorf("limit must be positive (received %d)", in.Limit.N)
		}
		next.Comparison.DisplayCount = in.Limit
	case nil:
		return s, fmt.Errorf("nil intent")
	default:
		return s, fmt.Errorf("unsupported intent %T", in)
	}
	return next, nil
}
