package films

import (
	"fmt"
	"math"
	"strings"
)

// ScoreKey names one of the seven rating dimensions carried by every film.
type ScoreKey string

const (
	CombinedScore           ScoreKey = "Combined Score"
	RTCriticScore           ScoreKey = "RT Critic Score"
	RTAudienceScore         ScoreKey = "RT Audience Score"
	MetacriticCriticScore   ScoreKey = "Metacritic Critic Score"
	MetacriticAudienceScore ScoreKey = "Metacritic Audience Score"
	LetterboxdScore         ScoreKey = "Letterboxd Score (Adjusted)"
	CinemaScore             ScoreKey = "CinemaScore (Adjusted)"
)

// NumScores is the number of score dimensions.
const NumScores = 7

// ScoreKeys lists every score key in display order. The order doubles as the
// radar axis order and the palette index.
var ScoreKeys = [NumScores]ScoreKey{
	CombinedScore,
	RTCriticScore,
	RTAudienceScore,
	MetacriticCriticScore,
	MetacriticAudienceScore,
	LetterboxdScore,
	CinemaScore,
}

// Index returns the position of k in ScoreKeys, or -1 for an unknown key.
func (k ScoreKey) Index() int {
	for i, key := range ScoreKeys {
		if key == k {
			return i
		}
	}
	return -1
}

// Valid reports whether k is one of the known score keys.
func (k ScoreKey) Valid() bool { return k.Index() >= 0 }

// ShortLabel shortens a key for buttons and tooltips
// ("RT Critic Score" -> "RT Crit.").
func (k ScoreKey) ShortLabel() string {
	s := strings.Replace(string(k), " Score", "", 1)
	s = strings.Replace(s, "Adjusted", "Adj.", 1)
	s = strings.Replace(s, "Audience", "Aud.", 1)
	return strings.Replace(s, "Critic", "Crit.", 1)
}

// ParseScoreKey resolves a key by exact name, ignoring surrounding whitespace.
func ParseScoreKey(s string) (ScoreKey, error) {
	k := ScoreKey(strings.TrimSpace(s))
	if !k.Valid() {
		return "", fmt.Errorf("unknown score key %q", s)
	}
	return k, nil
}

// Dataset identifies which source partition a record came from.
type Dataset string

const (
	DatasetHorror    Dataset = "horror"
	DatasetNonHorror Dataset = "non-horror"
)

// FilmID is the stable identifier of a record within loaded Datasets.
type FilmID int

// NoFilm marks the absence of a film reference.
const NoFilm FilmID = -1

// FilmRecord is one parsed CSV row. Year and every score are either finite or
// NaN (missing); nothing else survives parsing.
type FilmRecord struct {
	ID         FilmID
	Film       string
	Year       float64
	Genre      string
	Scores     [NumScores]float64
	IsPositive bool
	Dataset    Dataset
}

// Missing is the marker stored for absent or unparseable numeric fields.
func Missing() float64 { return math.NaN() }

// IsMissing reports whether v is the missing marker.
func IsMissing(v float64) bool { return math.IsNaN(v) }

// Score returns the value for k, or the missing marker for unknown keys.
func (f FilmRecord) Score(k ScoreKey) float64 {
	i := k.Index()
	if i < 0 {
		return math.NaN()
	}
	return f.Scores[i]
}

// HasScore reports whether the value for k is numeric.
func (f FilmRecord) HasScore(k ScoreKey) bool { return !math.IsNaN(f.Score(k)) }

// HasYear reports whether the release year is numeric.
func (f FilmRecord) HasYear() bool { return !math.IsNaN(f.Year) }

// HasAllScores reports whether every one of the seven scores is numeric.
func (f FilmRecord) HasAllScores() bool {
	for _, v := range f.Scores {
		if math.IsNaN(v) {
			return false
		}
	}
	return true
}

// IsHorror reports whether the record's genre is Horror.
func (f FilmRecord) IsHorror() bool { return f.Genre == "Horror" }

// YearLabel formats the year for labels, "?" when missing.
func (f FilmRecord) YearLabel() string {
	if !f.HasYear() {
		return "?"
	}
	return fmt.Sprintf("%d", int(f.Year))
}
