package tags

import "github.com/mager/parietal/parietal"

// energy factor weights; renormalized over whichever inputs are present.
var energyWeights = map[string]float64{
	"bpm_score":       0.4,
	"mood_aggressive": 0.3,
	"danceability":    0.3,
}

// DeriveCompositeScores folds normalized descriptors into the composite
// scores the tag generators consume. Valence is signed: happy pulls
// positive, sad pulls negative. Only composites whose inputs exist are
// emitted.
func DeriveCompositeScores(features parietal.NormalizedFeatureSet) Scores {
	scores := make(Scores)

	var weighted, total float64
	for name, w := range energyWeights {
		if v, ok := features.Float(name); ok {
			weighted += v * w
			total += w
		}
	}
	if energetic, ok := features.Float("energetic"); ok {
		weighted += energetic * 0.3
		total += 0.3
	}
	if total > 0 {
		scores["energy_score"] = weighted / total
	}

	happy, hasHappy := features.Float("mood_happy")
	if !hasHappy {
		happy, hasHappy = features.Float("happy")
	}
	sad, hasSad := features.Float("mood_sad")
	if !hasSad {
		sad, hasSad = features.Float("sad")
	}
	if hasHappy || hasSad {
		scores["mood_valence"] = happy - sad
	}

	if d, ok := features.Float("danceability"); ok {
		scores["dance_score"] = d
	} else if d, ok := features.Float("danceable"); ok {
		scores["dance_score"] = d
	}

	if a, ok := features.Float("acoustic"); ok {
		scores["acousticness"] = a
	}

	return scores
}

// FeatureValues extracts the float-valued descriptors from a normalized
// set for use as generator features.
func FeatureValues(features parietal.NormalizedFeatureSet) Features {
	out := make(Features, len(features))
	for k, v := range features {
		if f, ok := v.(float64); ok {
			out[k] = f
		}
	}
	return out
}
