package main

import (
	"context"
	"database/sql"
	"net"
	"net/http"

	fs "cloud.google.com/go/firestore"
	"github.com/gorilla/mux"
	"github.com/mager/parietal/config"
	"github.com/mager/parietal/database"
	"github.com/mager/parietal/firestore"
	discoverHandler "github.com/mager/parietal/handler/discover"
	"github.com/mager/parietal/handler/health"
	trackHandler "github.com/mager/parietal/handler/track"
	"github.com/mager/parietal/logger"
	"github.com/mager/parietal/mir"
	"github.com/mager/parietal/musicbrainz"
	"github.com/mager/parietal/musixmatch"
	"github.com/mager/parietal/spotify"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Route is an http.Handler that knows the mux pattern
// under which it will be registered.
type Route interface {
	http.Handler

	// Pattern reports the path at which this is registered.
	Pattern() string
}

//	@title			Parietal
//	@version		1.0
//	@description	This is the API for parietal, the MIR normalization service

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

// @host		localhost:8080
// @BasePath	/
func main() {
	fx.New(
		fx.Provide(NewHTTPServer,
			config.Options,
			logger.Options,
			spotify.Options,
			musicbrainz.Options,
			musixmatch.Options,
			database.Options,
			firestore.Options,
			mir.NewEngine,

			AsRoute(health.NewHealthHandler),
			AsRoute(trackHandler.NewNormalizeHandler),
			AsRoute(trackHandler.NewFeaturesHandler),
			AsRoute(trackHandler.NewStreamHandler),
			AsRoute(discoverHandler.NewDiscoverHandler),
			AsRoute(discoverHandler.NewFeaturedHandler),
		),
		fx.Invoke(func(*http.Server) {}),
	).Run()
}

func NewHTTPServer(
	lc fx.Lifecycle,
	log *zap.SugaredLogger,
	cfg config.Config,
	db *sql.DB,
	engine *mir.Engine,
	spotifyClient *spotify.SpotifyClient,
	musicbrainzClient *musicbrainz.MusicbrainzClient,
	musixmatchClient *musixmatch.MusixmatchClient,
	fsClient *fs.Client,
) *http.Server {
	router := mux.NewRouter()

	jsonHandler := jsonMiddleware(router)

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: jsonHandler}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Infof("Starting HTTP server at %s", srv.Addr)
			go srv.Serve(ln)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})

	// Define handlers
	healthHandler := health.NewHealthHandler()
	router.Handle(healthHandler.Pattern(), healthHandler)

	normalizeHandler := trackHandler.NewNormalizeHandler(log, db, engine, spotifyClient, musicbrainzClient, musixmatchClient)
	router.Handle(normalizeHandler.Pattern(), normalizeHandler)

	featuresHandler := trackHandler.NewFeaturesHandler(log, db)
	router.Handle(featuresHandler.Pattern(), featuresHandler)

	streamHandler := trackHandler.NewStreamHandler(log, db, engine)
	router.Handle(streamHandler.Pattern(), streamHandler)

	discover := discoverHandler.NewDiscoverHandler(log, db)
	router.Handle(discover.Pattern(), discover)

	featured := discoverHandler.NewFeaturedHandler(log, fsClient)
	router.Handle(featured.Pattern(), featured)

	return srv
}

// AsRoute annotates the given constructor to state that
// it provides a route to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

func jsonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
