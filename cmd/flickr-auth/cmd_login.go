package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/golden-vcr/flickrauth"
	"github.com/golden-vcr/flickrauth/internal/authflow"
	"github.com/golden-vcr/flickrauth/internal/browser"
	"github.com/golden-vcr/flickrauth/internal/prompt"
)

var loginPerms string
var loginNoBrowser bool

func initLoginCommand(cmd *flag.FlagSet) {
	cmd.StringVar(&loginPerms, "perms", "", "Permission to request (read, write, or delete); overrides FLICKR_PERMISSION")
	cmd.BoolVar(&loginNoBrowser, "no-browser", false, "Print the authorization URL instead of opening a web browser")
}

func runLoginCommand(ctx context.Context, d *deps) error {
	permission := d.permission
	if loginPerms != "" {
		p, err := flickrauth.ParsePermission(loginPerms)
		if err != nil {
			return err
		}
		permission = p
	}

	cfg := authflow.Config{
		Account:    d.config.FlickrAccount,
		Endpoint:   d.endpoint,
		Permission: permission,
		Store:      d.store,
		Signer:     d.signer,
		Transport:  d.transport,
		Prober:     d.api,
		Notifier:   prompt.NewTerminal(prompt.DefaultTemplates, os.Stdin, os.Stdout),
		OpenURL:    browser.Open,
		Reporters:  d.reporters,
		Logger:     d.logger,
	}
	if loginNoBrowser {
		cfg.OpenURL = nil
	}

	a := authflow.New(cfg, func(success bool, payload flickrauth.Payload) {
		if !success {
			return
		}
		if username := payload["username"]; username != "" {
			fmt.Printf("Linked Flickr account %s (%s)\n", username, payload["user_nsid"])
		} else {
			fmt.Printf("Flickr account is already linked\n")
		}
	})
	result := a.Run(ctx)
	if !result.Success {
		return fmt.Errorf("authorization did not complete (%s): %w", result.Reason, result.Err)
	}
	return nil
}
