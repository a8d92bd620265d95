package flickrauth

import "time"

// EventType identifies the outcome of an account-linking attempt
type EventType string

const (
	// EventTypeLinked indicates that the user completed the OAuth handshake and a new
	// access token was stored
	EventTypeLinked EventType = "linked"
	// EventTypeValidated indicates that previously-stored credentials were confirmed
	// to still be valid
	EventTypeValidated EventType = "validated"
	// EventTypeFailed indicates that the attempt ended without usable credentials
	EventTypeFailed EventType = "failed"
)

// Event is published to the message bus whenever an account-linking attempt finishes
type Event struct {
	Type      EventType `json:"type"`
	Account   string    `json:"account"`
	Reason    string    `json:"reason"`
	Username  string    `json:"username,omitempty"`
	FullName  string    `json:"fullName,omitempty"`
	NSID      string    `json:"nsid,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
