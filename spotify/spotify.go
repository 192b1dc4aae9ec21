package spotify

import (
	"context"

	"github.com/mager/parietal/config"
	spot "github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"go.uber.org/zap"
	"golang.org/x/oauth2/clientcredentials"
)

type SpotifyClient struct {
	Client *spot.Client
}

// ProvideSpotify builds a client-credentials Spotify client. The service
// only reads catalog data (tracks, artist genres), so no user scopes are
// requested.
func ProvideSpotify(cfg config.Config, log *zap.SugaredLogger) *SpotifyClient {
	var c SpotifyClient

	creds := &clientcredentials.Config{
		ClientID:     cfg.SpotifyID,
		ClientSecret: cfg.SpotifySecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	httpClient := creds.Client(context.Background())
	c.Client = spot.New(httpClient)

	log.Info("spotify client ready")
	return &c
}

var Options = ProvideSpotify
