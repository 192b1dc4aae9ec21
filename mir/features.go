package mir

import (
	"sort"
	"strings"

	"github.com/mager/parietal/genre"
	"github.com/mager/parietal/parietal"
	"go.uber.org/zap"
)

// acoustidKeyMap maps raw analyzer tag names to canonical descriptor
// names. Negative counterparts pass through here and are collapsed by the
// opposing-pair pass below.
var acoustidKeyMap = map[string]string{
	"danceable":           "danceability",
	"mood_happy":          "mood_happy",
	"mood_not_happy":      "mood_not_happy",
	"mood_sad":            "mood_sad",
	"mood_not_sad":        "mood_not_sad",
	"mood_aggressive":     "mood_aggressive",
	"mood_not_aggressive": "mood_not_aggressive",
	"mood_party":          "mood_party",
	"mood_not_party":      "mood_not_party",
	"mood_relaxed":        "mood_relaxed",
	"mood_not_relaxed":    "mood_not_relaxed",
	"acoustic":            "acoustic",
	"not_acoustic":        "not_acoustic",
	"instrumental":        "instrumental",
	"electronic":          "electronic",
	"not_electronic":      "not_electronic",
	"tonal":               "tonal",
	"voice":               "voice",
}

// acoustidOpposingPairs lists the positive/negative descriptor pairs that
// must collapse to one net value. Only the positive key survives.
var acoustidOpposingPairs = [][2]string{
	{"mood_happy", "mood_not_happy"},
	{"mood_sad", "mood_not_sad"},
	{"mood_aggressive", "mood_not_aggressive"},
	{"mood_party", "mood_not_party"},
	{"mood_relaxed", "mood_not_relaxed"},
	{"acoustic", "not_acoustic"},
	{"electronic", "not_electronic"},
}

// moodDefaultScores assigns a default relevance to each recognized MIREX
// mood label.
var moodDefaultScores = map[string]float64{
	"danceable":    0.8,
	"happy":        0.8,
	"sad":          0.8,
	"aggressive":   0.8,
	"relaxed":      0.8,
	"party":        0.8,
	"acoustic":     0.8,
	"electronic":   0.8,
	"instrumental": 0.8,
	"tonal":        0.8,
	"atmospheric":  0.7,
	"melancholic":  0.7,
	"romantic":     0.7,
	"energetic":    0.9,
	"mysterious":   0.6,
	"dark":         0.6,
	"bright":       0.7,
}

// Fallback relevance for moods we keep verbatim but have no default for.
const unscoredMoodScore = 0.3

// mirexOpposingPairs are resolved only when both sides actually appear in
// the mood map; the lower-scoring side is removed.
var mirexOpposingPairs = [][2]string{
	{"happy", "sad"},
	{"aggressive", "relaxed"},
	{"acoustic", "electronic"},
	{"dark", "bright"},
	{"energetic", "relaxed"},
}

// NormalizeAcoustIDTags converts raw AcoustID-style descriptors to
// normalized floats. Boolean and literal-string values run through
// NormalizeBinary under the bundle's shared confidence; numeric values
// pass through untouched. Opposing pairs collapse to their net positive,
// and voice is forced complementary to instrumental when both appear.
func NormalizeAcoustIDTags(raw map[string]any) (map[string]float64, error) {
	out := make(map[string]float64, len(raw))

	confidence := 1.0
	if c, ok := raw["confidence"]; ok {
		if f, ok := toFloat(c); ok {
			confidence = f
		}
	}

	for rawKey, target := range acoustidKeyMap {
		value, ok := raw[rawKey]
		if !ok {
			continue
		}
		if f, ok := toFloat(value); ok {
			out[target] = f
			continue
		}
		v, err := NormalizeBinary(value, confidence)
		if err != nil {
			return nil, err
		}
		out[target] = v
	}

	for _, pair := range acoustidOpposingPairs {
		pos, hasPos := out[pair[0]]
		neg, hasNeg := out[pair[1]]
		if !hasPos && !hasNeg {
			continue
		}
		net, _ := HandleOpposingTags(pos, neg)
		out[pair[0]] = net
		delete(out, pair[1])
	}

	// Voice and instrumental are strictly complementary when the analyzer
	// reports both.
	if inst, ok := out["instrumental"]; ok {
		if _, ok := out["voice"]; ok {
			out["voice"] = 1.0 - inst
		}
	}

	return out, nil
}

// NormalizeMoodsMIREX scores free-text MIREX mood labels. Exact table
// matches win, then substring matches in either direction, then a 0.3
// fallback that keeps the label verbatim. Opposing moods are resolved
// when both sides are present.
func NormalizeMoodsMIREX(moods []string) map[string]float64 {
	out := make(map[string]float64, len(moods))
	if len(moods) == 0 {
		return out
	}

	// Sorted key list keeps the substring fallback deterministic.
	known := make([]string, 0, len(moodDefaultScores))
	for k := range moodDefaultScores {
		known = append(known, k)
	}
	sort.Strings(known)

	for _, raw := range moods {
		mood := strings.ToLower(strings.TrimSpace(raw))
		if mood == "" {
			continue
		}
		if score, ok := moodDefaultScores[mood]; ok {
			out[mood] = score
			continue
		}
		matched := false
		for _, k := range known {
			if strings.Contains(mood, k) || strings.Contains(k, mood) {
				out[k] = moodDefaultScores[k]
				matched = true
				break
			}
		}
		if !matched {
			out[mood] = unscoredMoodScore
		}
	}

	for _, pair := range mirexOpposingPairs {
		a, hasA := out[pair[0]]
		b, hasB := out[pair[1]]
		if !hasA || !hasB {
			continue
		}
		if a >= b {
			net, _ := HandleOpposingTags(a, b)
			out[pair[0]] = net
			delete(out, pair[1])
		} else {
			net, _ := HandleOpposingTags(b, a)
			out[pair[1]] = net
			delete(out, pair[0])
		}
	}

	return out
}

// Engine runs the full normalization pipeline for one track. It is the
// only component that knows the block ordering; every block is
// independently skippable and a failed block never aborts the record.
type Engine struct {
	log *zap.SugaredLogger
}

// NewEngine builds a normalization Engine.
func NewEngine(log *zap.SugaredLogger) *Engine {
	return &Engine{log: log}
}

// NormalizeAllFeatures produces the canonical normalized descriptor set
// for one raw feature bundle. Block order is fixed: AcoustID, MIREX
// moods (later-wins on key collision), BPM, key/scale, genres, and the
// aggregate confidence score last.
func (e *Engine) NormalizeAllFeatures(raw parietal.RawFeatureBundle) parietal.NormalizedFeatureSet {
	result := make(parietal.NormalizedFeatureSet)

	if len(raw.AcoustID) > 0 {
		normalized, err := NormalizeAcoustIDTags(raw.AcoustID)
		if err != nil {
			e.log.Warnw("skipping acoustid block", "error", err)
		} else {
			for k, v := range normalized {
				result[k] = v
			}
		}
	}

	if len(raw.MoodsMIREX) > 0 {
		for k, v := range NormalizeMoodsMIREX(raw.MoodsMIREX) {
			result[k] = v
		}
	}

	if raw.BPM != nil {
		score, err := NormalizeBPM(raw.BPM)
		if err != nil {
			e.log.Warnw("skipping bpm block", "bpm", *raw.BPM, "error", err)
		} else {
			result["bpm_score"] = score
			result["bpm_raw"] = *raw.BPM
		}
	}

	if raw.Key != nil {
		scale := ""
		if raw.Scale != nil {
			scale = *raw.Scale
		}
		key, sc, camelot, err := NormalizeKeyScale(*raw.Key, scale)
		if err != nil {
			e.log.Warnw("skipping key block", "key", *raw.Key, "error", err)
		} else {
			result["key"] = key
			result["scale"] = sc
			result["camelot_key"] = camelot
		}
	}

	genres := raw.Genres
	if len(raw.Tags) > 0 {
		// Analyzer taxonomy votes join the metadata sources under the
		// acoustid source name before aggregation.
		votes := genre.ExtractGenresFromTags(raw.Tags)
		main, _ := genre.VoteGenreMain(votes)
		if main != "unknown" {
			merged := make(map[string][]string, len(genres)+1)
			for k, v := range genres {
				merged[k] = v
			}
			merged["acoustid"] = append([]string{main}, genre.ExtractGenreSecondary(votes, main)...)
			genres = merged
		}
	}
	if len(genres) > 0 {
		main, secondary := genre.NormalizeGenreTaxonomies(genres)
		result["genre_main"] = main
		result["genre_secondary"] = secondary
	}

	result["confidence_score"] = CalculateConfidenceScore(ConfidenceInputs{
		SourceConsensus: raw.SourceConsensus,
		TagAgreement:    raw.TagAgreement,
		DurationSeconds: raw.DurationSeconds,
		RMSEnergy:       raw.RMSEnergy,
		SilenceRatio:    raw.SilenceRatio,
	})

	return result
}

// toFloat widens any numeric JSON-ish value to float64.
func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	default:
		return 0, false
	}
}
