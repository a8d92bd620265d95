package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/golden-vcr/flickrauth/internal/settings"
)

var logoutKeepProfile bool

func initLogoutCommand(cmd *flag.FlagSet) {
	cmd.BoolVar(&logoutKeepProfile, "keep-profile", false, "Only erase the token, leaving the stored username and NSID in place")
}

func runLogoutCommand(ctx context.Context, d *deps) error {
	if logoutKeepProfile {
		if err := settings.ClearToken(ctx, d.store); err != nil {
			return err
		}
	} else {
		if err := settings.ClearCredentials(ctx, d.store); err != nil {
			return err
		}
	}
	fmt.Printf("Unlinked Flickr account for '%s'\n", d.config.FlickrAccount)
	return nil
}
