package genre

import (
	"sort"
	"strings"

	"github.com/mager/parietal/parietal"
	"golang.org/x/exp/maps"
)

// Weighted prefixes for the audio-analysis taxonomies. The four
// classifier taxonomies carry full weight; free-text "genre:" tags are
// slightly discounted.
var taxonomyPrefixes = []struct {
	Name   string
	Prefix string
	Weight float64
}{
	{"gtzan", "ab:hi:genre_tzanetakis:", 1.0},
	{"rosamerica", "ab:hi:genre_rosamerica:", 1.0},
	{"dortmund", "ab:hi:genre_dortmund:", 1.0},
	{"electronic", "ab:hi:genre_electronic:", 1.0},
	{"standards", "genre:", 0.8},
}

// genreAliases folds common spelling variants to one canonical name.
var genreAliases = map[string]string{
	"hip-hop": "hiphop",
	"hip hop": "hiphop",
	"r-n-b":   "rnb",
	"r&b":     "rnb",
	"electro": "electronic",
}

// sourceWeights ranks metadata providers by how much we trust their genre
// labels. Unlisted sources fall back to 0.5.
var sourceWeights = map[string]float64{
	"lastfm":      0.9,
	"discogs":     0.85,
	"musicbrainz": 0.8,
	"spotify":     0.75,
	"acoustid":    0.7,
	"manual":      1.0,
}

const defaultSourceWeight = 0.5

// ExtractGenresFromTags scans raw taxonomy-prefixed tags and accumulates
// weighted votes per taxonomy. The returned table always carries all five
// taxonomy keys, empty or not, and echoes the raw tag list.
func ExtractGenresFromTags(rawTags []string) parietal.VoteTable {
	votes := parietal.VoteTable{
		Taxonomies: make(map[string]map[string]float64, len(taxonomyPrefixes)),
		RawTags:    rawTags,
	}
	for _, tax := range taxonomyPrefixes {
		votes.Taxonomies[tax.Name] = make(map[string]float64)
	}

	for _, raw := range rawTags {
		tag := strings.ToLower(strings.TrimSpace(raw))
		if tag == "" {
			continue
		}
		for _, tax := range taxonomyPrefixes {
			if !strings.HasPrefix(tag, tax.Prefix) {
				continue
			}
			name := strings.TrimSpace(strings.TrimPrefix(tag, tax.Prefix))
			if name == "" {
				continue
			}
			// Additive: a repeated tag strengthens the vote.
			votes.Taxonomies[tax.Name][name] += tax.Weight
		}
	}

	return votes
}

// VoteGenreMain picks the genre with the highest total weighted score
// across all taxonomies, with a calibrated confidence. No votes at all
// yields ("unknown", 0.0).
func VoteGenreMain(votes parietal.VoteTable) (string, float64) {
	totals := aggregateVotes(votes)
	if len(totals) == 0 {
		return "unknown", 0.0
	}

	winner := rankGenres(totals)[0]
	return winner, CalculateGenreConfidence(votes)
}

// CalculateGenreConfidence maps the spread of individual taxonomy scores
// to a fixed confidence ladder. The thresholds are empirically chosen and
// part of the observable contract; do not smooth them into a formula.
func CalculateGenreConfidence(votes parietal.VoteTable) float64 {
	var scores []float64
	for _, genreScores := range votes.Taxonomies {
		for _, s := range genreScores {
			scores = append(scores, s)
		}
	}
	if len(scores) == 0 {
		return 0.0
	}
	if len(scores) == 1 {
		return 1.0
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(scores)))
	top, second := scores[0], scores[1]

	switch {
	case top >= 2*second:
		return 0.9
	case top > second:
		if top/(top+second) >= 0.7 {
			return 0.7
		}
		return 0.5
	default:
		// Near-tie between the two strongest votes.
		return 0.3
	}
}

// ExtractGenreSecondary returns up to three runner-up genres, ranked by
// total weighted score, excluding the main genre.
func ExtractGenreSecondary(votes parietal.VoteTable, main string) []string {
	totals := aggregateVotes(votes)
	delete(totals, main)

	ranked := rankGenres(totals)
	if len(ranked) > 3 {
		ranked = ranked[:3]
	}
	return ranked
}

// NormalizeGenreName lowercases, trims, folds known aliases and strips
// everything outside [a-z0-9 -]. Empty input becomes "unknown".
func NormalizeGenreName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return "unknown"
	}
	if alias, ok := genreAliases[n]; ok {
		n = alias
	}

	var b strings.Builder
	for _, r := range n {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == ' ' || r == '-' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "unknown"
	}
	return b.String()
}

// NormalizeGenreTaxonomies aggregates metadata-sourced genre lists (Last.fm,
// Discogs, MusicBrainz, ...) into one main genre and up to five secondary
// genres. Each source's weight decays by 10% per list position, the max
// score per genre across appearances wins, and appearance count breaks
// score ties.
func NormalizeGenreTaxonomies(genres map[string][]string) (string, []string) {
	type entry struct {
		score float64
		count int
	}
	byGenre := make(map[string]*entry)

	for source, list := range genres {
		weight, ok := sourceWeights[strings.ToLower(source)]
		if !ok {
			weight = defaultSourceWeight
		}
		for i, g := range list {
			name := NormalizeGenreName(g)
			if name == "unknown" {
				continue
			}
			decayed := weight * (1.0 - float64(i)*0.1)
			if decayed < 0 {
				decayed = 0
			}
			e, ok := byGenre[name]
			if !ok {
				e = &entry{}
				byGenre[name] = e
			}
			if decayed > e.score {
				e.score = decayed
			}
			e.count++
		}
	}

	if len(byGenre) == 0 {
		return "unknown", nil
	}

	names := maps.Keys(byGenre)
	sort.Slice(names, func(i, j int) bool {
		a, b := byGenre[names[i]], byGenre[names[j]]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.count != b.count {
			return a.count > b.count
		}
		return names[i] < names[j]
	})

	main := names[0]
	secondary := names[1:]
	if len(secondary) > 5 {
		secondary = secondary[:5]
	}
	return main, secondary
}

// aggregateVotes sums each genre's accumulated weight across taxonomies.
func aggregateVotes(votes parietal.VoteTable) map[string]float64 {
	totals := make(map[string]float64)
	for _, genreScores := range votes.Taxonomies {
		for g, s := range genreScores {
			totals[g] += s
		}
	}
	return totals
}

// rankGenres orders genres by score descending; names break ties so the
// ordering is deterministic across runs.
func rankGenres(totals map[string]float64) []string {
	names := maps.Keys(totals)
	sort.Slice(names, func(i, j int) bool {
		if totals[names[i]] != totals[names[j]] {
			return totals[names[i]] > totals[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}
