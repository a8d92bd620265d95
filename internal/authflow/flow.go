package authflow

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"github.com/golden-vcr/flickrauth"
	"github.com/golden-vcr/flickrauth/internal/api"
	"github.com/golden-vcr/flickrauth/internal/browser"
	"github.com/golden-vcr/flickrauth/internal/prompt"
	"github.com/golden-vcr/flickrauth/internal/settings"
	"github.com/golden-vcr/flickrauth/internal/transport"
)

// Signer adds OAuth parameters and a signature to a request's query parameters
type Signer interface {
	Sign(ctx context.Context, params url.Values, method, rawURL string) (url.Values, error)
}

// Transport issues raw GET requests
type Transport interface {
	GetRaw(ctx context.Context, url string) (*transport.Response, error)
}

// Prober makes a cheap authenticated API call to check whether the stored access token
// is still valid
type Prober interface {
	TestLogin(ctx context.Context) (*api.Reply, error)
}

// Notifier presents a notification to the user and waits for their response
type Notifier interface {
	Present(ctx context.Context, templateID string, substitutions map[string]string) (*prompt.Response, error)
}

// Reporter is informed of the outcome of every attempt, including rejected duplicates
type Reporter interface {
	Report(ctx context.Context, result Result)
}

// CompletionFunc is called exactly once when an attempt that was allowed to start
// finishes
type CompletionFunc func(success bool, payload flickrauth.Payload)

// Config supplies an Attempt with everything it interacts with
type Config struct {
	Account    string
	Endpoint   flickrauth.Endpoint
	Permission flickrauth.Permission

	Store     settings.Store
	Signer    Signer
	Transport Transport
	Prober    Prober
	Notifier  Notifier
	OpenURL   browser.Opener

	Reporters []Reporter
	Guard     *Guard
	Logger    *slog.Logger
}

// Attempt is a single run of the account-linking flow
type Attempt struct {
	cfg        Config
	guard      *Guard
	logger     *slog.Logger
	onComplete CompletionFunc

	mu         sync.Mutex
	phase      Phase
	ownsFlight bool
	result     *Result
	started    time.Time
	done       chan struct{}
}

// New claims the guard and prepares an attempt, which does nothing until Run is called.
// If another attempt already holds the guard, the returned attempt is already
// terminal: running it has no effect, and onComplete will never be called.
func New(cfg Config, onComplete CompletionFunc) *Attempt {
	a := &Attempt{
		cfg:        cfg,
		guard:      cfg.Guard,
		logger:     cfg.Logger,
		onComplete: onComplete,
		phase:      PhaseIdle,
		done:       make(chan struct{}),
	}
	if a.guard == nil {
		a.guard = DefaultGuard
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	a.logger = a.logger.With("account", cfg.Account)

	if !a.guard.tryAcquire() {
		a.phase = PhaseTerminal
		a.result = &Result{
			Account: cfg.Account,
			Reason:  ReasonDuplicate,
			Payload: flickrauth.Payload{},
			Err:     ErrDuplicateAttempt,
		}
		close(a.done)
		a.logger.Warn("Flickr authorization is already in progress; ignoring duplicate attempt")
		a.report(context.Background(), *a.result)
		return a
	}
	a.ownsFlight = true
	return a
}

// Start constructs an attempt and, unless it was rejected as a duplicate, runs it in a
// new goroutine
func Start(ctx context.Context, cfg Config, onComplete CompletionFunc) *Attempt {
	a := New(cfg, onComplete)
	if !a.Rejected() {
		go a.Run(ctx)
	}
	return a
}

// Phase returns the attempt's current phase
func (a *Attempt) Phase() Phase {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.phase
}

// Rejected reports whether the attempt was turned away because another attempt was
// already in progress
func (a *Attempt) Rejected() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.result != nil && a.result.Reason == ReasonDuplicate
}

// Done is closed once the attempt is terminal
func (a *Attempt) Done() <-chan struct{} {
	return a.done
}

// Result returns the outcome of a terminal attempt, or nil if it's still running
func (a *Attempt) Result() *Result {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.result == nil {
		return nil
	}
	r := *a.result
	return &r
}

// Run drives the attempt through to its terminal phase, blocking until then. Running an
// attempt that has already been run (or was rejected) just returns its result.
func (a *Attempt) Run(ctx context.Context) Result {
	if !a.begin() {
		<-a.done
		return *a.Result()
	}

	// If we already have a token, check whether it still works before making the user
	// jump through any hoops
	creds, err := settings.LoadCredentials(ctx, a.cfg.Store)
	if err != nil {
		a.logger.Warn("Failed to read stored Flickr credentials; reauthorizing", "error", err)
		creds = &flickrauth.Credentials{}
	}
	if creds.HasToken() && a.validate(ctx) {
		return a.finish(ctx, Result{
			Success:     true,
			Reason:      ReasonValidated,
			Credentials: creds,
		})
	}
	return a.authorize(ctx)
}

func (a *Attempt) begin() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.phase != PhaseIdle || !a.ownsFlight || !a.started.IsZero() {
		return false
	}
	a.started = time.Now()
	return true
}

func (a *Attempt) setPhase(p Phase) {
	a.mu.Lock()
	a.phase = p
	a.mu.Unlock()
	a.logger.Debug("Flickr authorization phase changed", "phase", p.String())
}

// validate uses the stored token to call flickr.test.login, returning true only if
// Flickr accepts it
func (a *Attempt) validate(ctx context.Context) bool {
	a.setPhase(PhaseValidating)
	reply, err := a.cfg.Prober.TestLogin(ctx)
	if err != nil {
		a.logger.Warn("Login test failed (HTTP). Reauthenticating.", "error", err)
		return false
	}
	if !reply.OK() {
		a.logger.Warn("Login test failed. Reauthenticating.", "message", reply.Message, "code", reply.Code)
		return false
	}
	a.logger.Info("Stored Flickr tokens are valid")
	return true
}

// authorize runs the three-legged handshake, starting by asking the user for consent
func (a *Attempt) authorize(ctx context.Context) Result {
	// Explain and confirm the process to the user
	a.setPhase(PhaseAwaitingExplanationConsent)
	res, err := a.cfg.Notifier.Present(ctx, prompt.TemplateVerificationExplanation, nil)
	if err != nil {
		return a.fail(ctx, ReasonDeclined, fmt.Errorf("%w: %v", ErrUserDeclined, err), nil)
	}
	if res.Option != prompt.OptionOK {
		return a.fail(ctx, ReasonDeclined, ErrUserDeclined, nil)
	}

	// Clear out any old tokens: they're no good to us, and the request token leg must
	// not be signed with them
	if err := settings.ClearToken(ctx, a.cfg.Store); err != nil {
		return a.fail(ctx, ReasonStoreFailed, fmt.Errorf("%w: %v", ErrStore, err), nil)
	}

	// Leg 1: get a request token
	a.setPhase(PhaseAwaitingRequestToken)
	a.logger.Info("Initialising OAuth authorisation process")
	payload, err := a.get(ctx, a.cfg.Endpoint.RequestTokenURL, url.Values{
		"oauth_callback": {flickrauth.OutOfBand},
	})
	if err != nil {
		return a.fail(ctx, ReasonRequestTokenFailed, err, nil)
	}
	token := payload["oauth_token"]
	secret := payload["oauth_token_secret"]
	if token == "" || secret == "" {
		return a.fail(ctx, ReasonRequestTokenFailed, fmt.Errorf("%w: request token response lacks oauth_token or oauth_token_secret", ErrMalformedResponse), nil)
	}
	if err := settings.SaveRequestToken(ctx, a.cfg.Store, token, secret); err != nil {
		return a.fail(ctx, ReasonStoreFailed, fmt.Errorf("%w: %v", ErrStore, err), nil)
	}
	a.logger.Info("Got request token", "token", token)

	// Leg 2: send the user to Flickr to grant access, then ask them for the verifier
	// that Flickr shows them
	a.setPhase(PhaseAwaitingUserAuthorization)
	authorizeURL, err := a.cfg.Endpoint.AuthorizationURL(token, a.cfg.Permission)
	if err != nil {
		return a.fail(ctx, ReasonAuthorizationFailed, err, nil)
	}
	if a.cfg.OpenURL != nil {
		if err := a.cfg.OpenURL(authorizeURL); err != nil {
			a.logger.Warn("Failed to open web browser", "error", err, "url", authorizeURL)
		}
	}
	res, err = a.cfg.Notifier.Present(ctx, prompt.TemplateVerificationPrompt, map[string]string{
		"authorize_url": authorizeURL,
	})
	if err != nil {
		return a.fail(ctx, ReasonVerifierCancelled, fmt.Errorf("%w: %v", ErrUserDeclined, err), nil)
	}
	if res.Option == prompt.OptionCancel {
		return a.fail(ctx, ReasonVerifierCancelled, ErrUserDeclined, nil)
	}

	// Leg 3: exchange the request token and verifier for an access token; this request
	// is signed with the request token we stored above
	a.setPhase(PhaseAwaitingAccessToken)
	payload, err = a.get(ctx, a.cfg.Endpoint.AccessTokenURL, url.Values{
		"oauth_verifier": {res.Fields["oauth_verifier"]},
	})
	creds := flickrauth.CredentialsFromPayload(payload)
	if err == nil && !creds.HasToken() {
		err = fmt.Errorf("%w: access token response lacks oauth_token or oauth_token_secret", ErrMalformedResponse)
	}
	if err != nil {
		a.notifyFailure(ctx, err)
		return a.fail(ctx, ReasonAccessTokenFailed, err, payload)
	}
	if err := settings.SaveCredentials(ctx, a.cfg.Store, &creds); err != nil {
		return a.fail(ctx, ReasonStoreFailed, fmt.Errorf("%w: %v", ErrStore, err), payload)
	}
	return a.finish(ctx, Result{
		Success:     true,
		Reason:      ReasonAuthorized,
		Payload:     payload,
		Credentials: &creds,
	})
}

// get signs and issues a request to one of the OAuth endpoints, returning the decoded
// response body. The payload is returned even if the request failed.
func (a *Attempt) get(ctx context.Context, endpoint string, params url.Values) (flickrauth.Payload, error) {
	signed, err := a.cfg.Signer.Sign(ctx, params, "GET", endpoint)
	if err != nil {
		return flickrauth.Payload{}, fmt.Errorf("%w: %v", ErrSigning, err)
	}
	res, err := a.cfg.Transport.GetRaw(ctx, withQuery(endpoint, signed))
	if err != nil {
		return flickrauth.Payload{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	payload := decodePayload(res.Body)
	return payload, checkResponse(res, payload)
}

// notifyFailure lets the user know that linking their account didn't work out
func (a *Attempt) notifyFailure(ctx context.Context, cause error) {
	if ctx.Err() != nil {
		return
	}
	reason := ""
	if errors.Is(cause, ErrApplicationStatus) || errors.Is(cause, ErrTransport) {
		reason = "Flickr did not accept the verification code"
	}
	if _, err := a.cfg.Notifier.Present(ctx, prompt.TemplateVerificationFailed, map[string]string{"reason": reason}); err != nil {
		a.logger.Warn("Failed to present verification failure notice", "error", err)
	}
}

func (a *Attempt) fail(ctx context.Context, reason Reason, err error, payload flickrauth.Payload) Result {
	if ctxErr := ctx.Err(); ctxErr != nil {
		reason = ReasonCanceled
		err = fmt.Errorf("%w: %v", ErrCanceled, ctxErr)
	}
	return a.finish(ctx, Result{
		Success: false,
		Reason:  reason,
		Payload: payload,
		Err:     err,
	})
}

// finish moves the attempt to its terminal phase, releases the guard, and then informs
// reporters and the completion callback
func (a *Attempt) finish(ctx context.Context, r Result) Result {
	a.mu.Lock()
	if a.phase == PhaseTerminal {
		existing := *a.result
		a.mu.Unlock()
		return existing
	}
	lastPhase := a.phase
	r.Account = a.cfg.Account
	r.Duration = time.Since(a.started)
	if r.Payload == nil {
		r.Payload = flickrauth.Payload{}
	}
	a.phase = PhaseTerminal
	a.result = &r
	owned := a.ownsFlight
	a.ownsFlight = false
	a.mu.Unlock()

	if owned {
		a.guard.release()
	}
	close(a.done)

	logger := a.logger.With("reason", string(r.Reason), "lastPhase", lastPhase.String(), "duration", r.Duration)
	if r.Success {
		logger.Info("Flickr authorization succeeded")
	} else {
		logger.Warn("Flickr authorization failed", "error", r.Err)
	}

	a.report(context.WithoutCancel(ctx), r)
	if a.onComplete != nil {
		a.onComplete(r.Success, r.Payload)
	}
	return r
}

func (a *Attempt) report(ctx context.Context, r Result) {
	for _, reporter := range a.cfg.Reporters {
		reporter.Report(ctx, r)
	}
}
