package track

import (
	"context"
	"sort"

	mb "github.com/mager/musicbrainz-go/musicbrainz"
	"github.com/mager/parietal/parietal"
	"github.com/mager/parietal/util"
	spot "github.com/zmb3/spotify/v2"
)

const maxProviderGenres = 10

// enrichGenres pulls genre lists from the metadata providers the caller
// gave us IDs for and merges them into the bundle under the matching
// source names. Provider failures are logged and skipped; enrichment is
// best-effort.
func (h *NormalizeHandler) enrichGenres(ctx context.Context, bundle *parietal.RawFeatureBundle, mbid, spotifyID string) {
	if mbid == "" && spotifyID == "" {
		return
	}
	if bundle.Genres == nil {
		bundle.Genres = make(map[string][]string)
	}

	if mbid != "" {
		if _, present := bundle.Genres["musicbrainz"]; !present {
			genres, err := h.fetchMusicBrainzGenres(mbid)
			if err != nil {
				h.log.Errorw("error fetching musicbrainz genres", "mbid", mbid, "error", err)
			} else if len(genres) > 0 {
				bundle.Genres["musicbrainz"] = genres
			}
		}
	}

	if spotifyID != "" {
		if _, present := bundle.Genres["spotify"]; !present {
			genres, err := h.fetchSpotifyGenres(ctx, spotifyID)
			if err != nil {
				h.log.Errorw("error fetching spotify genres", "spotify_id", spotifyID, "error", err)
			} else if len(genres) > 0 {
				bundle.Genres["spotify"] = genres
			}
		}
	}
}

// fetchMusicBrainzGenres loads a recording's genre list, ordered by vote
// count.
func (h *NormalizeHandler) fetchMusicBrainzGenres(mbid string) ([]string, error) {
	recording, err := h.musicbrainzClient.Client.GetRecording(mb.GetRecordingRequest{
		ID:       mbid,
		Includes: []mb.Include{"genres"},
	})
	if err != nil {
		return nil, err
	}

	if recording.Recording.Genres == nil || len(*recording.Recording.Genres) == 0 {
		return nil, nil
	}
	genresSlice := *recording.Recording.Genres
	sort.Slice(genresSlice, func(i, j int) bool {
		return genresSlice[i].Count > genresSlice[j].Count
	})

	genres := make([]string, 0, maxProviderGenres)
	for i := 0; i < maxProviderGenres && i < len(genresSlice); i++ {
		genres = append(genres, genresSlice[i].Name)
	}
	return genres, nil
}

// fetchSpotifyGenres resolves a track's artists and returns their genres
// ranked by how many of the artists share each one.
func (h *NormalizeHandler) fetchSpotifyGenres(ctx context.Context, spotifyID string) ([]string, error) {
	fullTrack, err := h.spotifyClient.Client.GetTrack(ctx, spot.ID(spotifyID))
	if err != nil {
		return nil, err
	}

	ids := make([]spot.ID, 0, len(fullTrack.Artists))
	for _, a := range fullTrack.Artists {
		ids = append(ids, a.ID)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	artists, err := h.spotifyClient.Client.GetArtists(ctx, ids...)
	if err != nil {
		return nil, err
	}

	genres := util.GetGenresForArtists(artists)
	if len(genres) > maxProviderGenres {
		genres = genres[:maxProviderGenres]
	}
	return genres, nil
}
