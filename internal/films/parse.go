package films

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// PositiveThreshold is the Combined Score at or above which a non-horror film
// counts as positively received.
const PositiveThreshold = 70

// positivity column headers; the source data spells it "Postive".
var positivityColumns = []string{"Postive/Negative", "Positive/Negative"}

// ParseNumber coerces a CSV cell into a finite number. Blank, unparseable and
// non-finite cells yield the missing marker.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}

type header struct {
	film, year, genre int
	scores            [NumScores]int
	positivity        int
}

func readHeader(row []string, needPositivity bool) (header, error) {
	idx := make(map[string]int, len(row))
	for i, name := range row {
		idx[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}

	var h header
	var missing []string
	lookup := func(name string) int {
		i, ok := idx[name]
		if !ok {
			missing = append(missing, name)
			return -1
		}
		return i
	}

	h.film = lookup("Film")
	h.year = lookup("Year")
	h.genre = lookup("Genre")
	for i, k := range ScoreKeys {
		h.scores[i] = lookup(string(k))
	}

	h.positivity = -1
	if needPositivity {
		for _, name := range positivityColumns {
			if i, ok := idx[name]; ok {
				h.positivity = i
				break
			}
		}
		if h.positivity < 0 {
			missing = append(missing, positivityColumns[0])
		}
	}

	if len(missing) > 0 {
		return header{}, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return h, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func (h header) record(row []string, ds Dataset) FilmRecord {
	f := FilmRecord{
		ID:      NoFilm,
		Film:    strings.TrimSpace(cell(row, h.film)),
		Year:    ParseNumber(cell(row, h.year)),
		Genre:   strings.TrimSpace(cell(row, h.genre)),
		Dataset: ds,
	}
	for i, col := range h.scores {
		f.Scores[i] = ParseNumber(cell(row, col))
	}
	return f
}

// ParseHorror reads the horror CSV. Only rows whose Genre is Horror are kept,
// and positivity comes from the categorical Positive/Negative column.
func ParseHorror(r io.Reader) ([]FilmRecord, error) {
	return parse(r, DatasetHorror, true, func(h header, row []string, f *FilmRecord) bool {
		if f.Genre != "Horror" {
			return false
		}
		f.IsPositive = strings.TrimSpace(cell(row, h.positivity)) == "Positive"
		return true
	})
}

// ParseNonHorror reads the non-horror CSV. Positivity is derived from the
// Combined Score threshold rather than a label.
func ParseNonHorror(r io.Reader) ([]FilmRecord, error) {
	return parse(r, DatasetNonHorror, false, func(_ header, _ []string, f *FilmRecord) bool {
		f.IsPositive = f.Score(CombinedScore) >= PositiveThreshold
		return true
	})
}

func parse(r io.Reader, ds Dataset, needPositivity bool, finish func(header, []string, *FilmRecord) bool) ([]FilmRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	first, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse %s: empty input", ds)
		}
		return nil, fmt.Errorf("parse %s: read header: %w", ds, err)
	}
	h, err := readHeader(first, needPositivity)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", ds, err)
	}

	var out []FilmRecord
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", ds, err)
		}
		f := h.record(row, ds)
		if f.Film == "" {
			continue
		}
		if finish(h, row, &f) {
			out = append(out, f)
		}
	}
	return out, nil
}
