package status

import (
	"context"
	"fmt"

	"github.com/golden-vcr/flickrauth/internal/settings"
)

// resolveStatus reads the stored credentials and, if we have a token, checks with
// Flickr that it's still good. Only a failure to read the store is an error: a
// rejected or unreachable probe is reported in the returned Status.
func resolveStatus(ctx context.Context, account string, store settings.Store, p Prober) (*Status, error) {
	creds, err := settings.LoadCredentials(ctx, store)
	if err != nil {
		return nil, fmt.Errorf("failed to load stored credentials: %w", err)
	}

	status := &Status{
		Account: account,
		Linked:  creds.HasToken(),
	}
	if !status.Linked {
		return status, nil
	}
	status.Profile = creds

	reply, err := p.TestLogin(ctx)
	if err != nil {
		status.Probe = &Probe{Stat: "error", Error: err.Error()}
		return status, nil
	}
	status.Probe = &Probe{
		Stat:    reply.Stat,
		Code:    reply.Code,
		Message: reply.Message,
	}
	status.Ok = reply.OK()
	return status, nil
}
