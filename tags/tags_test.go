package tags

import (
	"math"
	"testing"

	"github.com/mager/parietal/parietal"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func tagNames(list []parietal.SyntheticTag) map[string]float64 {
	out := make(map[string]float64, len(list))
	for _, t := range list {
		out[t.Tag] = t.Score
	}
	return out
}

func TestGenerateMoodTagsNegativeValence(t *testing.T) {
	got := tagNames(GenerateMoodTags(Features{}, Scores{"mood_valence": -0.4}))
	if !almostEqual(got["dark"], 0.6) {
		t.Errorf("dark = %v, want 0.6", got["dark"])
	}
	if !almostEqual(got["melancholic"], 0.3) {
		t.Errorf("melancholic = %v, want 0.3", got["melancholic"])
	}
	if _, present := got["bright"]; present {
		t.Error("bright should not fire on negative valence")
	}
}

func TestGenerateMoodTagsPositiveValence(t *testing.T) {
	got := tagNames(GenerateMoodTags(Features{}, Scores{"mood_valence": 0.8}))
	if !almostEqual(got["bright"], 0.8) {
		t.Errorf("bright = %v, want 0.8", got["bright"])
	}
	if !almostEqual(got["uplifting"], 0.8) {
		t.Errorf("uplifting = %v, want 0.8", got["uplifting"])
	}
	if _, present := got["dark"]; present {
		t.Error("dark should not fire on positive valence")
	}
}

func TestGenerateMoodTagsEnergyBands(t *testing.T) {
	got := tagNames(GenerateMoodTags(Features{}, Scores{"energy_score": 0.8}))
	if !almostEqual(got["energetic"], 0.5) {
		t.Errorf("energetic = %v, want 0.5", got["energetic"])
	}

	got = tagNames(GenerateMoodTags(Features{}, Scores{"energy_score": 0.2}))
	if !almostEqual(got["chill"], 0.5) {
		t.Errorf("chill = %v, want 0.5", got["chill"])
	}
}

func TestGenerateMoodTagsAggressive(t *testing.T) {
	got := tagNames(GenerateMoodTags(Features{"mood_aggressive": 0.8}, Scores{}))
	if !almostEqual(got["aggressive"], 0.5) {
		t.Errorf("aggressive = %v, want 0.5", got["aggressive"])
	}

	got = tagNames(GenerateMoodTags(Features{"mood_aggressive": 0.3}, Scores{}))
	if _, present := got["aggressive"]; present {
		t.Error("aggressive should not fire below 0.6")
	}
}

func TestGenerateEnergyTags(t *testing.T) {
	got := tagNames(GenerateEnergyTags(Features{}, Scores{"energy_score": 0.85}))
	if !almostEqual(got["high_energy"], 0.5) {
		t.Errorf("high_energy = %v, want 0.5", got["high_energy"])
	}
	if _, present := got["medium_energy"]; present {
		t.Error("medium_energy should not fire at 0.85")
	}
	if _, present := got["low_energy"]; present {
		t.Error("low_energy should not fire at 0.85")
	}
}

func TestGenerateEnergyTagsMediumBand(t *testing.T) {
	tests := []struct {
		energy float64
		want   float64
	}{
		{0.55, 0.5},
		{0.7, 1.0},
		{0.45, 1 - (0.55-0.45)/0.15},
		{0.4, 0.0},
	}
	for _, tt := range tests {
		got := tagNames(GenerateEnergyTags(Features{}, Scores{"energy_score": tt.energy}))
		score, present := got["medium_energy"]
		if !present {
			t.Errorf("medium_energy missing at %v", tt.energy)
			continue
		}
		if !almostEqual(score, round3(tt.want)) {
			t.Errorf("medium_energy(%v) = %v, want %v", tt.energy, score, round3(tt.want))
		}
	}
}

func TestGenerateEnergyTagsLow(t *testing.T) {
	got := tagNames(GenerateEnergyTags(Features{}, Scores{"energy_score": 0.1}))
	if !almostEqual(got["low_energy"], 0.75) {
		t.Errorf("low_energy = %v, want 0.75", got["low_energy"])
	}
}

func TestGenerateAtmosphereTags(t *testing.T) {
	got := tagNames(GenerateAtmosphereTags(
		Features{"acoustic": 0.8},
		Scores{"dance_score": 0.85, "energy_score": 0.2},
	))
	if !almostEqual(got["dancefloor"], 0.5) {
		t.Errorf("dancefloor = %v, want 0.5", got["dancefloor"])
	}
	if !almostEqual(got["ambient"], 0.5) {
		t.Errorf("ambient = %v, want 0.5", got["ambient"])
	}
	if !almostEqual(got["intimate"], 0.8) {
		t.Errorf("intimate = %v, want 0.8", got["intimate"])
	}
}

func TestGenerateAtmosphereTagsAcousticFallback(t *testing.T) {
	// No acoustic feature: acousticness composite stands in.
	got := tagNames(GenerateAtmosphereTags(Features{}, Scores{"acousticness": 0.8, "energy_score": 0.2}))
	if !almostEqual(got["ambient"], 0.5) {
		t.Errorf("ambient via acousticness = %v, want 0.5", got["ambient"])
	}
}

func TestGenerateAtmosphereTagsEpic(t *testing.T) {
	got := tagNames(GenerateAtmosphereTags(Features{}, Scores{"energy_score": 0.8, "mood_valence": 0.6}))
	if !almostEqual(got["epic"], 0.6) {
		t.Errorf("epic = %v, want 0.6", got["epic"])
	}
}

func TestGenerateUsageTags(t *testing.T) {
	got := tagNames(GenerateUsageTags(
		Features{"mood_party": 0.8},
		Scores{"dance_score": 0.8, "energy_score": 0.6},
	))
	if !almostEqual(got["workout"], 0.6) {
		t.Errorf("workout = %v, want 0.6", got["workout"])
	}
	if !almostEqual(got["party"], 0.5) {
		t.Errorf("party = %v, want 0.5", got["party"])
	}
	if _, present := got["focus"]; present {
		t.Error("focus should not fire at dance 0.8")
	}
}

func TestGenerateUsageTagsQuiet(t *testing.T) {
	got := tagNames(GenerateUsageTags(
		Features{"acoustic": 0.7},
		Scores{"dance_score": 0.1, "energy_score": 0.2},
	))
	if !almostEqual(got["focus"], 0.75) {
		t.Errorf("focus = %v, want 0.75", got["focus"])
	}
	if !almostEqual(got["background"], 0.7) {
		t.Errorf("background = %v, want 0.7", got["background"])
	}
}

func TestGenerateAllTags(t *testing.T) {
	all := GenerateAllTags(Features{"mood_aggressive": 0.3}, Scores{"mood_valence": 0.8})

	names := tagNames(all)
	if _, present := names["bright"]; !present {
		t.Error("expected bright tag")
	}
	if _, present := names["uplifting"]; !present {
		t.Error("expected uplifting tag")
	}
	if _, present := names["dark"]; present {
		t.Error("dark should not fire")
	}
	if _, present := names["aggressive"]; present {
		t.Error("aggressive should not fire")
	}

	for i, tag := range all {
		if tag.Source != parietal.TagSourceCalculated {
			t.Errorf("tag %q source = %q, want calculated", tag.Tag, tag.Source)
		}
		if i > 0 && all[i-1].Score < tag.Score {
			t.Errorf("tags not sorted descending at %d", i)
		}
	}
}

func TestFilterTagsByCategory(t *testing.T) {
	all := GenerateAllTags(Features{}, Scores{"energy_score": 0.85, "mood_valence": 0.8})
	moods := FilterTagsByCategory(all, parietal.CategoryMood)
	if len(moods) == 0 {
		t.Fatal("expected mood tags")
	}
	for _, tag := range moods {
		if tag.Category != parietal.CategoryMood {
			t.Errorf("tag %q category = %q", tag.Tag, tag.Category)
		}
	}
}

func TestGetTopTags(t *testing.T) {
	list := []parietal.SyntheticTag{
		{Tag: "a", Score: 0.2},
		{Tag: "b", Score: 0.9},
		{Tag: "c", Score: 0.5},
	}
	top := GetTopTags(list, 2)
	if len(top) != 2 || top[0].Tag != "b" || top[1].Tag != "c" {
		t.Errorf("GetTopTags = %v", top)
	}
	// Input order untouched.
	if list[0].Tag != "a" {
		t.Error("GetTopTags should not mutate its input")
	}
}

func TestMergeTagsWithExisting(t *testing.T) {
	synthetic := []parietal.SyntheticTag{
		{Tag: "dark", Score: 0.8},
		{Tag: "bright", Score: 0.5},
	}
	merged := MergeTagsWithExisting(synthetic, []string{" Dark "})
	if len(merged) != 1 || merged[0].Tag != "bright" {
		t.Errorf("MergeTagsWithExisting = %v, want only bright", merged)
	}
}

func TestDeriveCompositeScores(t *testing.T) {
	features := parietal.NormalizedFeatureSet{
		"mood_happy":   0.9,
		"mood_sad":     0.2,
		"danceability": 0.8,
		"bpm_score":    0.5,
		"acoustic":     0.4,
	}
	scores := DeriveCompositeScores(features)

	if !almostEqual(scores["mood_valence"], 0.7) {
		t.Errorf("mood_valence = %v, want 0.7", scores["mood_valence"])
	}
	if !almostEqual(scores["dance_score"], 0.8) {
		t.Errorf("dance_score = %v, want 0.8", scores["dance_score"])
	}
	if !almostEqual(scores["acousticness"], 0.4) {
		t.Errorf("acousticness = %v, want 0.4", scores["acousticness"])
	}
	want := (0.5*0.4 + 0.8*0.3) / 0.7
	if !almostEqual(scores["energy_score"], want) {
		t.Errorf("energy_score = %v, want %v", scores["energy_score"], want)
	}
}

func TestDeriveCompositeScoresEmpty(t *testing.T) {
	scores := DeriveCompositeScores(parietal.NormalizedFeatureSet{})
	if len(scores) != 0 {
		t.Errorf("no inputs should derive no composites, got %v", scores)
	}
}
