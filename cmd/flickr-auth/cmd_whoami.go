package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/golden-vcr/flickrauth/internal/settings"
)

var whoamiJSON bool

func initWhoamiCommand(cmd *flag.FlagSet) {
	cmd.BoolVar(&whoamiJSON, "json", false, "Print the stored profile as JSON")
}

func runWhoamiCommand(ctx context.Context, d *deps) error {
	creds, err := settings.LoadCredentials(ctx, d.store)
	if err != nil {
		return err
	}
	if whoamiJSON {
		return json.NewEncoder(os.Stdout).Encode(creds)
	}
	if !creds.HasToken() {
		fmt.Printf("Not linked\n")
		return nil
	}
	fmt.Printf("username: %s\nfull name: %s\nnsid: %s\n", creds.Username, creds.FullName, creds.NSID)
	return nil
}
