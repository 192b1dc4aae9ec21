package mir

import (
	"math"
	"strings"

	"github.com/mager/parietal/parietal"
)

// Recognized binary literals. Analyzer output is loosely typed, so the
// truthy set includes the analyzer's own label vocabulary ("danceable",
// "acoustic") alongside the usual boolean spellings.
var (
	truthyLiterals = map[string]struct{}{
		"yes": {}, "y": {}, "true": {}, "1": {}, "on": {},
		"danceable": {}, "acoustic": {},
	}
	falsyLiterals = map[string]struct{}{
		"no": {}, "n": {}, "false": {}, "0": {}, "off": {},
	}
)

// enharmonicAliases folds flat spellings to the sharp spellings the
// Camelot table is keyed by.
var enharmonicAliases = map[string]string{
	"Db": "C#",
	"Eb": "D#",
	"Gb": "F#",
	"Ab": "G#",
	"Bb": "A#",
}

// camelotWheel maps key lookups to harmonic-mixing wheel codes. Major keys
// look up by name, minor keys by name+"min". The table intentionally
// carries the legacy redundant rows (D#/Eb majors both 5B, D#min keyed at
// Fmin's 4A slot, E#min kept separate from Fmin); downstream data depends
// on these mappings, so they are preserved as-is.
var camelotWheel = map[string]string{
	"C":  "8B",
	"C#": "3B",
	"D":  "10B",
	"D#": "5B",
	"Eb": "5B",
	"E":  "12B",
	"F":  "7B",
	"F#": "2B",
	"G":  "9B",
	"G#": "4B",
	"A":  "11B",
	"A#": "6B",
	"B":  "1B",

	"Cmin":  "5A",
	"C#min": "12A",
	"Dmin":  "7A",
	"D#min": "4A",
	"Ebmin": "2A",
	"Emin":  "9A",
	"E#min": "4A", // enharmonic of Fmin
	"Fmin":  "4A",
	"F#min": "11A",
	"Gmin":  "6A",
	"G#min": "1A",
	"Amin":  "8A",
	"A#min": "3A",
	"Bmin":  "10A",
}

// CamelotUnknown is the sentinel for keys with no wheel position.
const CamelotUnknown = "Unknown"

// NormalizeBinary converts a loosely typed binary descriptor to 0.0 or
// 1.0 and scales the result by confidence when confidence < 1.0. Booleans
// and the recognized literal strings are accepted; anything else is an
// InvalidValueError.
func NormalizeBinary(value any, confidence float64) (float64, error) {
	var v float64
	switch t := value.(type) {
	case bool:
		if t {
			v = 1.0
		}
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		if _, ok := truthyLiterals[s]; ok {
			v = 1.0
		} else if _, ok := falsyLiterals[s]; ok {
			v = 0.0
		} else {
			return 0, &parietal.InvalidValueError{Field: "binary", Reason: "unrecognized literal " + t}
		}
	default:
		return 0, &parietal.InvalidValueError{Field: "binary", Reason: "expected bool or string"}
	}

	if confidence < 1.0 {
		v *= confidence
	}
	return v, nil
}

// HandleOpposingTags collapses a positive/negative descriptor pair into a
// single net value. The negative signal can only suppress the positive
// one, never invert it; the gap between the two doubles as a confidence.
func HandleOpposingTags(positive, negative float64) (net, confidence float64) {
	net = positive - negative
	if net < 0 {
		net = 0
	}
	return net, math.Abs(positive - negative)
}

// NormalizeBPM scales tempo onto [0.0, 1.0] linearly over the 60-200 BPM
// range. A missing BPM is a neutral 0.5; a non-positive BPM is a caller
// error.
func NormalizeBPM(bpm *float64) (float64, error) {
	if bpm == nil {
		return 0.5, nil
	}
	b := *bpm
	if b <= 0 {
		return 0, &parietal.InvalidValueError{Field: "bpm", Reason: "must be positive"}
	}
	switch {
	case b <= 60:
		return 0.0, nil
	case b >= 200:
		return 1.0, nil
	default:
		return (b - 60) / 140, nil
	}
}

// NormalizeKeyScale canonicalizes a raw key/scale pair and resolves its
// Camelot wheel code. Flats fold to sharps, the scale defaults to major
// unless the key only exists as a minor wheel entry, and unmapped keys
// come back with camelot "Unknown" rather than an error. The function is
// idempotent on its own output.
func NormalizeKeyScale(key, scale string) (string, string, string, error) {
	k := strings.TrimSpace(key)
	if k == "" {
		return "", "", "", &parietal.InvalidValueError{Field: "key", Reason: "empty"}
	}
	k = capitalizeKey(k)
	if alias, ok := enharmonicAliases[k]; ok {
		k = alias
	}

	s := strings.ToLower(strings.TrimSpace(scale))
	if s == "" {
		_, hasMajor := camelotWheel[k]
		_, hasMinor := camelotWheel[k+"min"]
		if !hasMajor && hasMinor {
			s = "minor"
		} else {
			s = "major"
		}
	}

	lookup := k
	if s == "minor" {
		lookup = k + "min"
	}
	camelot, ok := camelotWheel[lookup]
	if !ok {
		camelot = CamelotUnknown
	}
	return k, s, camelot, nil
}

// capitalizeKey uppercases the note letter and lowercases the rest, so
// "db" becomes "Db" and "c#" becomes "C#".
func capitalizeKey(k string) string {
	if k == "" {
		return k
	}
	return strings.ToUpper(k[:1]) + strings.ToLower(k[1:])
}

// ConfidenceInputs are the optional signals feeding the aggregate
// confidence score.
type ConfidenceInputs struct {
	SourceConsensus *float64
	TagAgreement    *float64
	DurationSeconds *float64
	RMSEnergy       *float64
	SilenceRatio    *float64
}

// CalculateConfidenceScore combines up to three independent factors
// (source consensus, tag agreement, computed signal quality) with a
// geometric mean. Absent everything, the score is a neutral 0.5 prior.
func CalculateConfidenceScore(in ConfidenceInputs) float64 {
	var factors []float64
	if in.SourceConsensus != nil {
		factors = append(factors, clamp01(*in.SourceConsensus))
	}
	if in.TagAgreement != nil {
		factors = append(factors, clamp01(*in.TagAgreement))
	}

	if in.DurationSeconds != nil || in.RMSEnergy != nil || in.SilenceRatio != nil {
		quality := 1.0
		if in.DurationSeconds != nil {
			if *in.DurationSeconds < 30 {
				quality *= 0.7
			} else if *in.DurationSeconds > 600 {
				quality *= 0.9
			}
		}
		if in.RMSEnergy != nil && *in.RMSEnergy < 0.01 {
			quality *= 0.5
		}
		if in.SilenceRatio != nil && *in.SilenceRatio > 0.3 {
			quality *= 0.7
		}
		factors = append(factors, clamp01(quality))
	}

	if len(factors) == 0 {
		return 0.5
	}

	product := 1.0
	for _, f := range factors {
		product *= f
	}
	return math.Pow(product, 1.0/float64(len(factors)))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
