package firestore

import (
	"context"
	"log"

	"cloud.google.com/go/firestore"
	"github.com/mager/parietal/config"
)

// FeaturedDoc is the curated discover document. A scheduled curation job
// owns writes; this service only reads it.
type FeaturedDoc struct {
	Tags    []FeaturedTag `json:"tags" firestore:"tags"`
	Updated string        `json:"updated" firestore:"updated"`
}

// FeaturedTag groups a handful of showcase tracks under one synthetic tag.
type FeaturedTag struct {
	Tag    string          `json:"tag" firestore:"tag"`
	Tracks []FeaturedTrack `json:"tracks" firestore:"tracks"`
}

type FeaturedTrack struct {
	Artist    string `json:"artist" firestore:"artist"`
	Title     string `json:"title" firestore:"title"`
	SpotifyID string `json:"spotifyID" firestore:"spotifyID"`
	MBID      string `json:"mbid" firestore:"mbid"`
}

// ProvideDB provides a firestore client
func ProvideDB(cfg config.Config) *firestore.Client {
	client, err := firestore.NewClient(context.TODO(), cfg.FirestoreProjectID)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	return client
}

var Options = ProvideDB
