package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/codingconcepts/env"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/exp/slog"

	"github.com/golden-vcr/flickrauth"
	"github.com/golden-vcr/flickrauth/internal/api"
	"github.com/golden-vcr/flickrauth/internal/authflow"
	"github.com/golden-vcr/flickrauth/internal/events"
	"github.com/golden-vcr/flickrauth/internal/metrics"
	"github.com/golden-vcr/flickrauth/internal/oauth"
	"github.com/golden-vcr/flickrauth/internal/settings"
	"github.com/golden-vcr/flickrauth/internal/transport"
	"github.com/golden-vcr/server-common/entry"
	"github.com/golden-vcr/server-common/rmq"
)

type Config struct {
	FlickrConsumerKey    string `env:"FLICKR_CONSUMER_KEY" required:"true"`
	FlickrConsumerSecret string `env:"FLICKR_CONSUMER_SECRET" required:"true"`
	FlickrPermission     string `env:"FLICKR_PERMISSION" default:"write"`
	FlickrAccount        string `env:"FLICKR_ACCOUNT" default:"default"`

	SettingsBackend string `env:"SETTINGS_BACKEND" default:"keyring"`
	SettingsPrefix  string `env:"SETTINGS_PREFIX" default:"flickr"`
	RedisAddr       string `env:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword   string `env:"REDIS_PASSWORD"`
	RedisDB         int    `env:"REDIS_DB" default:"0"`

	HTTPTimeoutSeconds int `env:"HTTP_TIMEOUT_SECONDS" default:"30"`

	RmqHost     string `env:"RMQ_HOST"`
	RmqPort     int    `env:"RMQ_PORT" default:"5672"`
	RmqVhost    string `env:"RMQ_VHOST" default:"/"`
	RmqUser     string `env:"RMQ_USER"`
	RmqPassword string `env:"RMQ_PASSWORD"`
	RmqExchange string `env:"RMQ_EXCHANGE" default:"flickr-auth"`

	PushgatewayURL string `env:"PUSHGATEWAY_URL"`
}

// deps holds everything a subcommand might need, initialized from Config
type deps struct {
	config     Config
	logger     *slog.Logger
	endpoint   flickrauth.Endpoint
	permission flickrauth.Permission
	store      settings.Store
	signer     *oauth.Signer
	transport  *transport.Client
	api        *api.Client
	reporters  []authflow.Reporter
}

type Command struct {
	name     string
	initFunc func(cmd *flag.FlagSet)
	runFunc  func(ctx context.Context, d *deps) error
}

var commands = []Command{
	{"login", initLoginCommand, runLoginCommand},
	{"status", initStatusCommand, runStatusCommand},
	{"whoami", initWhoamiCommand, runWhoamiCommand},
	{"logout", initLogoutCommand, runLogoutCommand},
}

func main() {
	app, ctx := entry.NewApplication("flickr-auth")
	defer app.Stop()

	// Parse the subcommand that we want to run, or print usage if no match
	var command *Command
	commandName := ""
	if len(os.Args) > 1 {
		commandName = os.Args[1]
	}
	for i := range commands {
		if commands[i].name == commandName {
			command = &commands[i]
			break
		}
	}
	if command == nil {
		commandNames := make([]string, 0, len(commands))
		for i := range commands {
			commandNames = append(commandNames, commands[i].name)
		}
		fmt.Fprintf(os.Stderr, "Usage: flickr-auth [%s]\n", strings.Join(commandNames, "|"))
		os.Exit(2)
	}

	// Initialize command-line flags for the chosen subcommand
	flagSet := flag.NewFlagSet(command.name, flag.ExitOnError)
	command.initFunc(flagSet)
	if err := flagSet.Parse(os.Args[2:]); err != nil {
		app.Fail("Failed to parse command-line flags", err)
	}

	// Parse config from environment variables
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		app.Fail("Failed to load .env file", err)
	}
	config := Config{}
	if err := env.Set(&config); err != nil {
		app.Fail("Failed to load config", err)
	}
	permission, err := flickrauth.ParsePermission(config.FlickrPermission)
	if err != nil {
		app.Fail("Failed to load config", err)
	}

	// Open the settings store that holds our tokens, scoped to the configured account
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

	// Every request we make to Flickr is signed with our consumer key and whichever
	// token is currently in the store
	signer := oauth.NewSigner(config.FlickrConsumerKey, config.FlickrConsumerSecret, store)
	transportClient := transport.NewClient(time.Duration(config.HTTPTimeoutSeconds) * time.Second)
	d := &deps{
		config:     config,
		logger:     app.Log(),
		endpoint:   flickrauth.DefaultEndpoint,
		permission: permission,
		store:      store,
		signer:     signer,
		transport:  transportClient,
		api:        api.NewClient(flickrauth.DefaultEndpoint.RESTURL, signer, transportClient),
	}

	// Count attempts so that we can push the totals to a Prometheus Pushgateway once
	// we're done, if one is configured
	registry := prometheus.NewRegistry()
	d.reporters = append(d.reporters, metrics.New(registry))

	// If we have an AMQP server, announce the outcome of each attempt so that other
	// services know when the linked account changes
	if config.RmqHost != "" {
		amqpConn, err := amqp.Dial(rmq.FormatConnectionString(config.RmqHost, config.RmqPort, config.RmqVhost, config.RmqUser, config.RmqPassword))
		if err != nil {
			app.Fail("Failed to connect to AMQP server", err)
		}
		defer amqpConn.Close()
		publisher, err := events.NewPublisher(amqpConn, config.RmqExchange, app.Log())
		if err != nil {
			app.Fail("Failed to initialize AMQP publisher", err)
		}
		defer publisher.Close()
		d.reporters = append(d.reporters, publisher)
	}

	runErr := command.runFunc(ctx, d)

	if config.PushgatewayURL != "" {
		pusher := push.New(config.PushgatewayURL, "flickr_auth").
			Gatherer(registry).
			Grouping("account", config.FlickrAccount)
		if err := pusher.PushContext(context.WithoutCancel(ctx)); err != nil {
			app.Log().Error("Failed to push metrics", "error", err, "url", config.PushgatewayURL)
		}
	}

	if runErr != nil {
		app.Fail(fmt.Sprintf("Failed to run %s command", command.name), runErr)
	}
}
