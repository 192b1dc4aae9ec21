package tags

import (
	"math"
	"sort"
	"strings"

	"github.com/mager/parietal/parietal"
)

// Features are normalized per-descriptor values (mood_aggressive,
// mood_party, acoustic, ...). Scores are the composite values computed
// over several descriptors (energy_score, mood_valence, dance_score,
// acousticness). Missing entries read as 0.
type (
	Features map[string]float64
	Scores   map[string]float64
)

// GenerateMoodTags derives mood tags from valence, energy and
// aggressiveness. Valence runs -1..1; everything else is 0..1.
func GenerateMoodTags(features Features, scores Scores) []parietal.SyntheticTag {
	var out []parietal.SyntheticTag
	valence := scores["mood_valence"]
	energy := scores["energy_score"]

	if valence < 0 {
		if s := math.Max(0, 1+valence); s > 0 {
			out = append(out, tag("dark", s, parietal.CategoryMood))
		}
		if s := math.Max(0, (1+valence)/2); s > 0 {
			out = append(out, tag("melancholic", s, parietal.CategoryMood))
		}
	}
	if valence > 0 {
		out = append(out, tag("bright", math.Min(1, valence), parietal.CategoryMood))
	}
	if energy > 0.6 {
		out = append(out, tag("energetic", (energy-0.6)/0.4, parietal.CategoryMood))
	}
	if energy < 0.4 {
		out = append(out, tag("chill", (0.4-energy)/0.4, parietal.CategoryMood))
	}
	if aggressive := features["mood_aggressive"]; aggressive > 0.6 {
		out = append(out, tag("aggressive", (aggressive-0.6)/0.4, parietal.CategoryMood))
	}
	if valence > 0.5 {
		out = append(out, tag("uplifting", valence, parietal.CategoryMood))
	}

	return out
}

// GenerateEnergyTags buckets the composite energy score into high, medium
// and low bands. The medium band is triangular with its peak at 0.55.
func GenerateEnergyTags(features Features, scores Scores) []parietal.SyntheticTag {
	var out []parietal.SyntheticTag
	energy := scores["energy_score"]

	if energy > 0.7 {
		out = append(out, tag("high_energy", math.Min(1, (energy-0.7)/0.3), parietal.CategoryEnergy))
	}
	if energy >= 0.4 && energy <= 0.7 {
		var s float64
		if energy >= 0.55 {
			s = (energy - 0.4) / 0.3
		} else {
			s = 1 - (0.55-energy)/0.15
		}
		out = append(out, tag("medium_energy", math.Min(1, s), parietal.CategoryEnergy))
	}
	if energy < 0.4 {
		out = append(out, tag("low_energy", math.Min(1, (0.4-energy)/0.4), parietal.CategoryEnergy))
	}

	return out
}

// GenerateAtmosphereTags derives scene-setting tags from danceability,
// acousticness, energy and valence.
func GenerateAtmosphereTags(features Features, scores Scores) []parietal.SyntheticTag {
	var out []parietal.SyntheticTag
	dance := scores["dance_score"]
	energy := scores["energy_score"]
	valence := scores["mood_valence"]
	acoustic := acousticValue(features, scores)

	if dance > 0.7 {
		out = append(out, tag("dancefloor", math.Min(1, (dance-0.7)/0.3), parietal.CategoryAtmosphere))
	}
	if acoustic > 0.6 {
		out = append(out, tag("ambient", math.Min(1, (acoustic-0.6)/0.4), parietal.CategoryAtmosphere))
	}
	if acoustic > 0.5 && energy < 0.4 {
		out = append(out, tag("intimate", math.Min(acoustic, 1-energy), parietal.CategoryAtmosphere))
	}
	if energy > 0.7 && valence > 0.3 {
		out = append(out, tag("epic", math.Min(energy, valence), parietal.CategoryAtmosphere))
	}

	return out
}

// GenerateUsageTags derives listening-context tags (workout, focus,
// background, party).
func GenerateUsageTags(features Features, scores Scores) []parietal.SyntheticTag {
	var out []parietal.SyntheticTag
	dance := scores["dance_score"]
	energy := scores["energy_score"]
	acoustic := acousticValue(features, scores)

	if dance > 0.6 && energy > 0.5 {
		out = append(out, tag("workout", math.Min(dance, energy), parietal.CategoryUsage))
	}
	if dance < 0.4 {
		out = append(out, tag("focus", math.Min(1, (0.4-dance)/0.4), parietal.CategoryUsage))
	}
	if acoustic > 0.5 && energy < 0.4 {
		out = append(out, tag("background", math.Min(acoustic, 1-energy), parietal.CategoryUsage))
	}
	if party := features["mood_party"]; party > 0.6 {
		out = append(out, tag("party", math.Min(1, (party-0.6)/0.4), parietal.CategoryUsage))
	}

	return out
}

// GenerateAllTags runs every category generator, stamps the calculated
// source, and sorts the combined list by score descending.
func GenerateAllTags(features Features, scores Scores) []parietal.SyntheticTag {
	var all []parietal.SyntheticTag
	all = append(all, GenerateMoodTags(features, scores)...)
	all = append(all, GenerateEnergyTags(features, scores)...)
	all = append(all, GenerateAtmosphereTags(features, scores)...)
	all = append(all, GenerateUsageTags(features, scores)...)

	for i := range all {
		all[i].Source = parietal.TagSourceCalculated
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].Score > all[j].Score
	})
	return all
}

// FilterTagsByCategory keeps tags whose category matches exactly.
func FilterTagsByCategory(list []parietal.SyntheticTag, category string) []parietal.SyntheticTag {
	var out []parietal.SyntheticTag
	for _, t := range list {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out
}

// GetTopTags re-sorts by score descending and truncates to limit.
func GetTopTags(list []parietal.SyntheticTag, limit int) []parietal.SyntheticTag {
	out := make([]parietal.SyntheticTag, len(list))
	copy(out, list)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// MergeTagsWithExisting drops synthetic tags whose name already appears in
// the track's existing tag set, comparing case-insensitively. Order of the
// surviving synthetic tags is preserved.
func MergeTagsWithExisting(synthetic []parietal.SyntheticTag, existing []string) []parietal.SyntheticTag {
	seen := make(map[string]struct{}, len(existing))
	for _, name := range existing {
		seen[strings.ToLower(strings.TrimSpace(name))] = struct{}{}
	}

	var out []parietal.SyntheticTag
	for _, t := range synthetic {
		if _, dup := seen[strings.ToLower(strings.TrimSpace(t.Tag))]; dup {
			continue
		}
		out = append(out, t)
	}
	return out
}

// acousticValue prefers the per-descriptor acoustic value and falls back
// to the composite acousticness score when the descriptor is absent.
func acousticValue(features Features, scores Scores) float64 {
	if a, ok := features["acoustic"]; ok {
		return a
	}
	return scores["acousticness"]
}

func tag(name string, score float64, category string) parietal.SyntheticTag {
	return parietal.SyntheticTag{Tag: name, Score: round3(score), Category: category}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
