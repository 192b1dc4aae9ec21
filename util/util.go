package util

import (
	"sort"

	spot "github.com/zmb3/spotify/v2"
	"golang.org/x/exp/maps"
)

// GetGenresForArtists returns the genres of the given artists, ranked by
// how many of the artists carry each genre.
func GetGenresForArtists(artists []*spot.FullArtist) []string {
	allGenres := make(map[string]int)

	for _, artist := range artists {
		if artist == nil {
			continue
		}
		for _, genre := range artist.Genres {
			allGenres[genre]++
		}
	}

	var sorted []string
	sorted = maps.Keys(allGenres)
	sort.Slice(sorted, func(i, j int) bool {
		if allGenres[sorted[i]] != allGenres[sorted[j]] {
			return allGenres[sorted[i]] > allGenres[sorted[j]]
		}
		return sorted[i] < sorted[j]
	})

	return sorted
}

// GetFirstArtist returns the display name of the lead artist.
func GetFirstArtist(artists []spot.SimpleArtist) string {
	if len(artists) == 0 {
		return "Various Artists"
	}

	return artists[0].Name
}
