package parietal

import "fmt"

// RawFeatureBundle is the per-track raw extractor output that feeds the
// normalization pipeline. Every field is optional; each sub-normalizer
// validates only the slice of the bundle it consumes.
type RawFeatureBundle struct {
	// Tags are raw taxonomy-prefixed strings from the audio analyzer.
	// Example: "ab:hi:genre_tzanetakis:rock"
	Tags []string `json:"tags,omitempty"`
	// AcoustID holds raw analyzer descriptors keyed by tag name. Values may
	// be bool, recognized yes/no strings, or numeric scores.
	AcoustID map[string]any `json:"acoustid,omitempty"`
	// MoodsMIREX are free-text mood labels following the MIREX vocabulary.
	// Example: ["Danceable", "Happy"]
	MoodsMIREX []string `json:"moods_mirex,omitempty"`
	// BPM is the raw tempo estimate in beats per minute.
	BPM *float64 `json:"bpm,omitempty"`
	// Key is the raw musical key, e.g. "C" or "Db".
	Key *string `json:"key,omitempty"`
	// Scale is "major" or "minor" when the analyzer reports one.
	Scale *string `json:"scale,omitempty"`
	// Genres maps a metadata source name (lastfm, discogs, musicbrainz,
	// spotify, acoustid, manual) to that source's ordered genre list.
	Genres map[string][]string `json:"genres,omitempty"`

	// Signal-quality inputs for confidence scoring.
	DurationSeconds *float64 `json:"duration_seconds,omitempty"`
	RMSEnergy       *float64 `json:"rms_energy,omitempty"`
	SilenceRatio    *float64 `json:"silence_ratio,omitempty"`
	SourceConsensus *float64 `json:"source_consensus,omitempty"`
	TagAgreement    *float64 `json:"tag_agreement,omitempty"`
}

// NormalizedFeatureSet maps canonical descriptor names to normalized values.
// Numeric descriptors are float64 in [0.0, 1.0] except bpm_raw (unscaled);
// key, scale, camelot_key and genre_main are strings; genre_secondary is a
// []string. Merge semantics across pipeline blocks are last-write-wins.
type NormalizedFeatureSet map[string]any

// Float returns the named descriptor as a float64 if present and numeric.
func (s NormalizedFeatureSet) Float(name string) (float64, bool) {
	v, ok := s[name]
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}

// String returns the named descriptor as a string if present.
func (s NormalizedFeatureSet) String(name string) (string, bool) {
	v, ok := s[name]
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

// VoteTable accumulates weighted genre votes per analyzer taxonomy. Every
// taxonomy key is always present, possibly with an empty score map, so
// consumers never branch on absence.
type VoteTable struct {
	// Taxonomies maps taxonomy name -> genre name -> accumulated weight.
	Taxonomies map[string]map[string]float64 `json:"taxonomies"`
	// RawTags echoes the input tag list for audit and debugging.
	RawTags []string `json:"raw_tags"`
}

// Tag categories for synthetic tags.
const (
	CategoryMood       = "mood"
	CategoryEnergy     = "energy"
	CategoryAtmosphere = "atmosphere"
	CategoryUsage      = "usage"
)

// TagSourceCalculated marks tags derived by the generator rather than
// extracted from audio or entered by a user.
const TagSourceCalculated = "calculated"

// SyntheticTag is a derived discovery label with a continuous relevance
// score in [0.0, 1.0].
type SyntheticTag struct {
	Tag      string  `json:"tag"`
	Score    float64 `json:"score"`
	Category string  `json:"category"`
	Source   string  `json:"source"`
}

// InvalidValueError reports a precondition violation on a single raw input
// value: an unrecognized binary literal, a non-positive BPM, an empty key.
// Callers are expected to avoid these; they are not transient failures.
type InvalidValueError struct {
	Field  string
	Reason string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value for %s: %s", e.Field, e.Reason)
}
