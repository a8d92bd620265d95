package main

import (
	"os"
	"time"

	"github.com/codingconcepts/env"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/golden-vcr/auth"
	"github.com/golden-vcr/flickrauth"
	"github.com/golden-vcr/flickrauth/internal/api"
	"github.com/golden-vcr/flickrauth/internal/oauth"
	"github.com/golden-vcr/flickrauth/internal/settings"
	"github.com/golden-vcr/flickrauth/internal/status"
	"github.com/golden-vcr/flickrauth/internal/transport"
	"github.com/golden-vcr/server-common/entry"
)

type Config struct {
	BindAddr   string `env:"BIND_ADDR"`
	ListenPort uint16 `env:"LISTEN_PORT" default:"5010"`

	FlickrConsumerKey    string `env:"FLICKR_CONSUMER_KEY" required:"true"`
	FlickrConsumerSecret string `env:"FLICKR_CONSUMER_SECRET" required:"true"`
	FlickrAccount        string `env:"FLICKR_ACCOUNT" default:"default"`

	SettingsBackend string `env:"SETTINGS_BACKEND" default:"redis"`
	SettingsPrefix  string `env:"SETTINGS_PREFIX" default:"flickr"`
	RedisAddr       string `env:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword   string `env:"REDIS_PASSWORD"`
	RedisDB         int    `env:"REDIS_DB" default:"0"`

	HTTPTimeoutSeconds int `env:"HTTP_TIMEOUT_SECONDS" default:"30"`

	AuthURL string `env:"AUTH_URL" default:"http://localhost:5002"`
}

func main() {
	app, ctx := entry.NewApplication("flickr-auth")
	defer app.Stop()

	// Parse config from environment variables
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		app.Fail("Failed to load .env file", err)
	}
	config := Config{}
	if err := env.Set(&config); err != nil {
		app.Fail("Failed to load config", err)
	}

	// Open the settings store that the flickr-auth CLI writes tokens to: a server
	// process will generally want to share a redis store with it
	store, err := settings.Open(ctx, settings.Options{
		Backend:       settings.Backend(config.SettingsBackend),
		Prefix:        config.SettingsPrefix,
		Account:       config.FlickrAccount,
		RedisAddr:     config.RedisAddr,
		RedisPassword: config.RedisPassword,
		RedisDB:       config.RedisDB,
	})
	if err != nil {
		app.Fail("Failed to open settings store", err)
	}

	// Initialize a Flickr API client that signs requests with the stored token, so we
	// can check whether that token is still good
	signer := oauth.NewSigner(config.FlickrConsumerKey, config.FlickrConsumerSecret, store)
	transportClient := transport.NewClient(time.Duration(config.HTTPTimeoutSeconds) * time.Second)
	flickrClient := api.NewClient(flickrauth.DefaultEndpoint.RESTURL, signer, transportClient)

	// Initialize an auth client so we can require broadcaster-level access in order to
	// call the admin-only credential management endpoint
	authClient, err := auth.NewClient(ctx, config.AuthURL)
	if err != nil {
		app.Fail("Failed to initialize auth client", err)
	}

	// Start setting up our HTTP handlers, using gorilla/mux for routing
	r := mux.NewRouter()

	// Anyone can call GET /status to see whether a Flickr account is linked and
	// whether its token still works; a client authenticated as the broadcaster can call
	// DELETE /credentials to unlink it
	statusServer := status.NewServer(config.FlickrAccount, store, flickrClient)
	statusServer.RegisterRoutes(authClient, r)

	// Prometheus can scrape GET /metrics
	r.Path("/metrics").Methods("GET").Handler(promhttp.Handler())

	// Handle incoming HTTP connections until our top-level context is canceled, at
	// which point shut down cleanly
	entry.RunServer(ctx, app.Log(), r, config.BindAddr, config.ListenPort)
}
