package viewstate

import (
	"encoding/json"
	"fmt"

	"github.com/dgnsrekt/filmscope/internal/films"
)

// Intent is one user command. Every state transition goes through an Intent.
type Intent interface {
	Kind() string
}

type (
	SelectScoreKey struct {
		Key films.ScoreKey
	}
	ToggleAllScores struct{}
	ToggleRadar     struct{}
	CloseRadar      struct{}
	HoverFilm       struct {
		Film films.FilmID
	}
	// ClearHover hides the tooltip when the pointer leaves a film. The
	// focused film, and so the radar, stays.
	ClearHover struct{}
	FocusFilm  struct {
		Film films.FilmID
	}
	SetComparisonSort struct {
		Mode SortMode
	}
	SetComparisonLimit struct {
		Limit Limit
	}
)

const (
	KindSelectScoreKey     = "select_score_key"
	KindToggleAllScores    = "toggle_all_scores"
	KindToggleRadar        = "toggle_radar"
	KindCloseRadar         = "close_radar"
	KindHoverFilm          = "hover_film"
	KindClearHover         = "clear_hover"
	KindFocusFilm          = "focus_film"
	KindSetComparisonSort  = "set_comparison_sort"
	KindSetComparisonLimit = "set_comparison_limit"
)

func (SelectScoreKey) Kind() string     { return KindSelectScoreKey }
func (ToggleAllScores) Kind() string    { return KindToggleAllScores }
func (ToggleRadar) Kind() string        { return KindToggleRadar }
func (CloseRadar) Kind() string         { return KindCloseRadar }
func (HoverFilm) Kind() string          { return KindHoverFilm }
func (ClearHover) Kind() string         { return KindClearHover }
func (FocusFilm) Kind() string          { return KindFocusFilm }
func (SetComparisonSort) Kind() string  { return KindSetComparisonSort }
func (SetComparisonLimit) Kind() string { return KindSetComparisonLimit }

// Envelope is the wire form of an intent.
type Envelope struct {
	Type   string `json:"type" doc:"Intent type, e.g. select_score_key"`
	Key    string `json:"key,omitempty" doc:"Score key for select_score_key"`
	FilmID *int   `json:"film_id,omitempty" doc:"Film ID for hover_film and focus_film"`
	Mode   string `json:"mode,omitempty" doc:"Sort mode for set_comparison_sort"`
	Limit  *Limit `json:"limit,omitempty" doc:"Display count (integer or \"all\") for set_comparison_limit"`
}

// Decode turns a wire envelope into a typed Intent.
func (e Envelope) Decode() (Intent, error) {
	switch e.Type {
	case KindSelectScoreKey:
		k, err := films.ParseScoreKey(e.Key)
		if err != nil {
			return nil, err
		}
		return SelectScoreKey{Key: k}, nil
	case KindToggleAllScores:
		return ToggleAllScores{}, nil
	case KindToggleRadar:
		return ToggleRadar{}, nil
	case KindCloseRadar:
		return CloseRadar{}, nil
	case KindClearHover:
		return ClearHover{}, nil
	case KindHoverFilm, KindFocusFilm:
		if e.FilmID == nil {
			return nil, fmt.Errorf("%s requires film_id", e.Type)
		}
		id := films.FilmID(*e.FilmID)
		if e.Type == KindHoverFilm {
			return HoverFilm{Film: id}, nil
		}
		return FocusFilm{Film: id}, nil
	case KindSetComparisonSort:
		m, err := ParseSortMode(e.Mode)
		if err != nil {
			return nil, err
		}
		return SetComparisonSort{Mode: m}, nil
	case KindSetComparisonLimit:
		if e.Limit == nil {
			return nil, fmt.Errorf("%s requires limit", e.Type)
		}
		return SetComparisonLimit{Limit: *e.Limit}, nil
	case "":
		return nil, fmt.Errorf("intent type is required")
	}
	return nil, fmt.Errorf("unknown intent type %q", e.Type)
}

// Encode is the inverse of Decode.
func Encode(in Intent) Envelope {
	e := Envelope{Type: in.Kind()}
	switch in := in.(type) {
	case SelectScoreKey:
		e.Key = string(in.Key)
	case HoverFilm:
		id := int(in.Film)
		e.FilmID = &id
	case FocusFilm:
		id := int(in.Film)
		e.FilmID = &id
	case SetComparisonSort:
		e.Mode = string(in.Mode)
	case SetComparisonLimit:
		l := in.Limit
		e.Limit = &l
	}
	return e
}

// DecodeIntent parses a JSON envelope.
func DecodeIntent(data []byte) (Intent, error) {
	var e Envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decode intent: %w", err)
	}
	return e.Decode()
}
