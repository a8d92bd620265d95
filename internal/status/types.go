package status

import "github.com/golden-vcr/flickrauth"

// Status represents the state of the Flickr account linked under a single account name
type Status struct {
	Ok      bool                    `json:"ok"`
	Account string                  `json:"account"`
	Linked  bool                    `json:"linked"`
	Profile *flickrauth.Credentials `json:"profile,omitempty"`
	Probe   *Probe                  `json:"probe,omitempty"`
}

// Probe describes the outcome of calling flickr.test.login with the stored token
type Probe struct {
	Stat    string `json:"stat"`
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
