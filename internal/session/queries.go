package session

import (
	"context"
	"time"

	"github.com/dgnsrekt/filmscope/internal/charts"
	"github.com/dgnsrekt/filmscope/internal/dashboard"
	"github.com/dgnsrekt/filmscope/internal/films"
	"github.com/dgnsrekt/filmscope/internal/viewstate"
)

// FilmView is the JSON form of a record. Missing values are null.
type FilmView struct {
	ID         films.FilmID        `json:"id"`
	Film       string              `json:"film"`
	Year       *float64            `json:"year"`
	Genre      string              `json:"genre"`
	Dataset    films.Dataset       `json:"dataset"`
	IsPositive bool                `json:"is_positive"`
	Scores     map[string]*float64 `json:"scores"`
}

func optional(v float64) *float64 {
	if films.IsMissing(v) {
		return nil
	}
	return &v
}

// ViewOf converts a record for JSON output.
func ViewOf(f films.FilmRecord) FilmView {
	v := FilmView{
		ID:         f.ID,
		Film:       f.Film,
		Year:       optional(f.Year),
		Genre:      f.Genre,
		Dataset:    f.Dataset,
		IsPositive: f.IsPositive,
		Scores:     make(map[string]*float64, films.NumScores),
	}
	for _, k := range films.ScoreKeys {
		v.Scores[string(k)] = optional(f.Score(k))
	}
	return v
}

// Films lists loaded films, optionally restricted to one dataset.
func (s *Session) Films(_ context.Context, dataset string) ([]FilmView, error) {
	d, err := s.datasets()
	if err != nil {
		return nil, err
	}
	var records []films.FilmRecord
	switch films.Dataset(dataset) {
	case "":
		records = d.All()
	case films.DatasetHorror:
		records = d.Horror
	case films.DatasetNonHorror:
		records = d.NonHorror
	default:
		return nil, newError(CodeValidation, "dataset must be \"horror\" or \"non-horror\"", nil)
	}
	out := make([]FilmView, len(records))
	for i, f := range records {
		out[i] = ViewOf(f)
	}
	return out, nil
}

func (s *Session) lookup(id int) (films.FilmRecord, error) {
	d, err := s.datasets()
	if err != nil {
		return films.FilmRecord{}, err
	}
	f, ok := d.Lookup(films.FilmID(id))
	if !ok {
		return films.FilmRecord{}, newError(CodeFilmNotFound, "no film with that id", nil)
	}
	return f, nil
}

// Film returns one film.
func (s *Session) Film(_ context.Context, id int) (FilmView, error) {
	f, err := s.lookup(id)
	if err != nil {
		return FilmView{}, err
	}
	return ViewOf(f), nil
}

// Tooltip renders a film's tooltip HTML, as a difference tooltip when both
// comparison keys are given.
func (s *Session) Tooltip(_ context.Context, id int, critic, audience string) (string, error) {
	f, err := s.lookup(id)
	if err != nil {
		return "", err
	}
	if (critic == "") != (audience == "") {
		return "", newError(CodeValidation, "critic and audience must be given together", nil)
	}
	var ck, ak films.ScoreKey
	if critic != "" {
		if ck, err = films.ParseScoreKey(critic); err != nil {
			return "", newError(CodeValidation, err.Error(), nil)
		}
		if ak, err = films.ParseScoreKey(audience); err != nil {
			return "", newError(CodeValidation, err.Error(), nil)
		}
	}
	html, err := dashboard.TooltipHTML(f, ck, ak)
	if err != nil {
		return "", newError(CodeValidation, "tooltip unavailable for this film", err)
	}
	return string(html), nil
}

// ComparisonQuery selects a comparison. Empty fields fall back to the
// Rotten Tomatoes pair and the session's comparison settings.
type ComparisonQuery struct {
	Critic   string
	Audience string
	Sort     string
	Limit    string
}

// ComparisonRowView is one displayed comparison row.
type ComparisonRowView struct {
	FilmID     films.FilmID `json:"film_id"`
	Film       string       `json:"film"`
	Year       *float64     `json:"year"`
	Genre      string       `json:"genre"`
	Critic     float64      `json:"critic"`
	Audience   float64      `json:"audience"`
	Difference float64      `json:"difference"`
}

// ComparisonView is a prepared comparison.
type ComparisonView struct {
	Critic     films.ScoreKey      `json:"critic"`
	Audience   films.ScoreKey      `json:"audience"`
	SortMode   viewstate.SortMode  `json:"sort_mode"`
	Limit      viewstate.Limit     `json:"limit"`
	Shown      int                 `json:"shown"`
	ValidCount int                 `json:"valid_count"`
	Rows       []ComparisonRowView `json:"rows"`
}

// Comparison prepares comparison rows without touching the view state.
func (s *Session) Comparison(_ context.Context, q ComparisonQuery) (ComparisonView, error) {
	d, err := s.datasets()
	if err != nil {
		return ComparisonView{}, err
	}
	settings := s.store.State().Comparison

	critic, audience := charts.RottenTomatoes.Critic, charts.RottenTomatoes.Audience
	if q.Critic != "" {
		if critic, err = films.ParseScoreKey(q.Critic); err != nil {
			return ComparisonView{}, newError(CodeValidation, err.Error(), nil)
		}
	}
	if q.Audience != "" {
		if audience, err = films.ParseScoreKey(q.Audience); err != nil {
			return ComparisonView{}, newError(CodeValidation, err.Error(), nil)
		}
	}
	mode := settings.SortMode
	if q.Sort != "" {
		if mode, err = viewstate.ParseSortMode(q.Sort); err != nil {
			return ComparisonView{}, newError(CodeValidation, err.Error(), nil)
		}
	}
	limit := settings.DisplayCount
	if q.Limit != "" {
		if limit, err = viewstate.ParseLimit(q.Limit); err != nil {
			return ComparisonView{}, newError(CodeValidation, err.Error(), nil)
		}
	}

	res := charts.PrepareComparison(d.All(), critic, audience, mode, limit)
	out := ComparisonView{
		Critic:     critic,
		Audience:   audience,
		SortMode:   mode,
		Limit:      limit,
		Shown:      len(res.Rows),
		ValidCount: res.ValidCount,
		Rows:       make([]ComparisonRowView, len(res.Rows)),
	}
	for i, r := range res.Rows {
		out.Rows[i] = ComparisonRowView{
			FilmID:     r.Film.ID,
			Film:       r.Film.Film,
			Year:       optional(r.Film.Year),
			Genre:      r.Film.Genre,
			Critic:     r.Critic,
			Audience:   r.Audience,
			Difference: r.Difference,
		}
	}
	return out, nil
}

// Health describes the session.
type Health struct {
	Status       string     `json:"status"`
	Loaded       bool       `json:"loaded"`
	Error        string     `json:"error,omitempty"`
	Horror       int        `json:"horror_films"`
	NonHorror    int        `json:"non_horror_films"`
	LoadedAt     *time.Time `json:"loaded_at,omitempty"`
	FrameVersion uint64     `json:"frame_version"`
	Clients      int        `json:"clients"`
	Animations   []string   `json:"animations"`
	Browser      string     `json:"browser,omitempty"`
}

// Health reports load status. With deep set the screenshot browser is
// probed too.
func (s *Session) Health(ctx context.Context, deep bool) Health {
	s.dataMu.RLock()
	d, loadedAt := s.data, s.loadedAt
	s.dataMu.RUnlock()

	h := Health{
		Status:       "loading",
		Loaded:       d.Loaded,
		FrameVersion: s.page.Version(),
		Clients:      s.broker.ClientCount(),
		Animations:   s.runner.Running(),
	}
	switch {
	case d.Loaded:
		h.Status = "ok"
		h.Horror, h.NonHorror = len(d.Datasets.Horror), len(d.Datasets.NonHorror)
		h.LoadedAt = &loadedAt
	case d.Err != nil:
		h.Status = "error"
		h.Error = d.Err.Error()
	}
	if deep {
		h.Browser = "ok"
		if s.opts.Capturer == nil {
			h.Browser = "not configured"
		} else if err := s.opts.Capturer.Available(ctx); err != nil {
			h.Browser = err.Error()
		}
	}
	return h
}
