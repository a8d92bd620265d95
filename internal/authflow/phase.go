package authflow

import (
	"time"

	"github.com/golden-vcr/flickrauth"
)

// Phase is the state of an Attempt
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseValidating
	PhaseAwaitingExplanationConsent
	PhaseAwaitingRequestToken
	PhaseAwaitingUserAuthorization
	PhaseAwaitingAccessToken
	PhaseTerminal
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseValidating:
		return "validating"
	case PhaseAwaitingExplanationConsent:
		return "awaiting-explanation-consent"
	case PhaseAwaitingRequestToken:
		return "awaiting-request-token"
	case PhaseAwaitingUserAuthorization:
		return "awaiting-user-authorization"
	case PhaseAwaitingAccessToken:
		return "awaiting-access-token"
	case PhaseTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// Reason describes how an Attempt reached its terminal phase
type Reason string

const (
	ReasonValidated           Reason = "validated"
	ReasonAuthorized          Reason = "authorized"
	ReasonDuplicate           Reason = "duplicate"
	ReasonDeclined            Reason = "declined"
	ReasonRequestTokenFailed  Reason = "request_token_failed"
	ReasonAuthorizationFailed Reason = "authorization_failed"
	ReasonVerifierCancelled   Reason = "verifier_cancelled"
	ReasonAccessTokenFailed   Reason = "access_token_failed"
	ReasonStoreFailed         Reason = "store_failed"
	ReasonCanceled            Reason = "canceled"
)

// Result is the outcome of an Attempt
type Result struct {
	Account string
	Success bool
	Reason  Reason
	// Payload is the decoded body of the access token response, if we got that far;
	// otherwise it's empty
	Payload flickrauth.Payload
	// Credentials holds the credentials in effect after a successful attempt
	Credentials *flickrauth.Credentials
	Err         error
	Duration    time.Duration
}
