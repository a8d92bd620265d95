package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/golden-vcr/flickrauth/internal/settings"
)

func initStatusCommand(cmd *flag.FlagSet) {}

func runStatusCommand(ctx context.Context, d *deps) error {
	creds, err := settings.LoadCredentials(ctx, d.store)
	if err != nil {
		return err
	}
	if !creds.HasToken() {
		fmt.Printf("No Flickr account is linked for '%s'\n", d.config.FlickrAccount)
		return nil
	}

	reply, err := d.api.TestLogin(ctx)
	if err != nil {
		return fmt.Errorf("failed to test stored token: %w", err)
	}
	if !reply.OK() {
		fmt.Printf("Stored token for %s is not valid: %s (code %d)\n", creds.Username, reply.Message, reply.Code)
		return nil
	}
	fmt.Printf("Stored token for %s is valid\n", creds.Username)
	return nil
}
