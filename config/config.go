package config

import (
	"log"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	ListenAddr  string `default:":8080"`
	DatabaseURL string

	SpotifyID     string
	SpotifySecret string

	MusixmatchAPIKey string

	FirestoreProjectID string `default:"beatbrain-dev"`
}

func ProvideConfig() Config {
	var cfg Config
	err := envconfig.Process("parietal", &cfg)
	if err != nil {
		log.Fatal(err.Error())
	}
	return cfg
}

var Options = ProvideConfig
