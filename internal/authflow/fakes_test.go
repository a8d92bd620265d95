package authflow

import (
	"context"
	"io"
	"net/url"
	"strings"
	"sync"
	"testing"

	"golang.org/x/exp/slog"

	"github.com/golden-vcr/flickrauth"
	"github.com/golden-vcr/flickrauth/internal/api"
	"github.com/golden-vcr/flickrauth/internal/prompt"
	"github.com/golden-vcr/flickrauth/internal/settings"
	"github.com/golden-vcr/flickrauth/internal/transport"
)

// harness wires an Attempt to in-memory fakes for every collaborator
type harness struct {
	store     *settings.MemoryStore
	transport *mockTransport
	prober    *mockProber
	notifier  *mockNotifier
	browser   *mockBrowser
	reporter  *mockReporter
	guard     *Guard

	calls   int
	success bool
	payload flickrauth.Payload
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := settings.NewMemoryStore()
	return &harness{
		store: store,
		transport: &mockTransport{
			responses: make(map[string]mockResponse),
		},
		prober: &mockProber{
			reply: &api.Reply{Stat: "ok"},
		},
		notifier: &mockNotifier{
			answers: make(map[string]mockAnswer),
		},
		browser:  &mockBrowser{store: store},
		reporter: &mockReporter{},
		guard:    &Guard{},
	}
}

func (h *harness) config() Config {
	return Config{
		Account:    "alice",
		Endpoint:   flickrauth.DefaultEndpoint,
		Permission: flickrauth.PermissionWrite,
		Store:      h.store,
		Signer:     &mockSigner{store: h.store},
		Transport:  h.transport,
		Prober:     h.prober,
		Notifier:   h.notifier,
		OpenURL:    h.browser.open,
		Reporters:  []Reporter{h.reporter},
		Guard:      h.guard,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func (h *harness) onComplete(success bool, payload flickrauth.Payload) {
	h.calls++
	h.success = success
	h.payload = payload
}

// newAttempt constructs an attempt and lets the notifier observe its phase
func (h *harness) newAttempt() *Attempt {
	a := New(h.config(), h.onComplete)
	h.notifier.attempt = a
	return a
}

func (h *harness) storeCredentials(creds flickrauth.Credentials) {
	if err := settings.SaveCredentials(context.Background(), h.store, &creds); err != nil {
		panic(err)
	}
}

func (h *harness) acceptExplanation() {
	h.notifier.answers[prompt.TemplateVerificationExplanation] = mockAnswer{
		res: &prompt.Response{Option: prompt.OptionOK, Fields: map[string]string{}},
	}
}

func (h *harness) enterVerifier(verifier string) {
	h.notifier.answers[prompt.TemplateVerificationPrompt] = mockAnswer{
		res: &prompt.Response{Option: prompt.OptionOK, Fields: map[string]string{"oauth_verifier": verifier}},
	}
}

func (h *harness) respond(endpoint string, status int, body string) {
	h.transport.responses[endpoint] = mockResponse{res: &transport.Response{StatusCode: status, Body: []byte(body)}}
}

// mockSigner stands in for the real OAuth signer: like the real thing, it signs with
// whichever token is in the store at the time of signing
type mockSigner struct {
	store settings.Store
	err   error
}

func (m *mockSigner) Sign(ctx context.Context, params url.Values, method, rawURL string) (url.Values, error) {
	if m.err != nil {
		return nil, m.err
	}
	signed := url.Values{}
	for k, v := range params {
		signed[k] = v
	}
	token, err := m.store.GetString(ctx, flickrauth.KeyToken)
	if err != nil {
		return nil, err
	}
	if token != "" {
		signed.Set("oauth_token", token)
	}
	signed.Set("oauth_signature", "sig")
	return signed, nil
}

type mockResponse struct {
	res *transport.Response
	err error
}

type mockTransport struct {
	mu        sync.Mutex
	responses map[string]mockResponse
	requests  []string
}

func (m *mockTransport) GetRaw(ctx context.Context, rawURL string) (*transport.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, rawURL)
	for endpoint, r := range m.responses {
		if strings.HasPrefix(rawURL, endpoint+"?") {
			return r.res, r.err
		}
	}
	return &transport.Response{StatusCode: 404}, nil
}

func (m *mockTransport) requestsTo(endpoint string) []url.Values {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]url.Values, 0)
	for _, rawURL := range m.requests {
		if strings.HasPrefix(rawURL, endpoint+"?") {
			u, err := url.Parse(rawURL)
			if err != nil {
				panic(err)
			}
			result = append(result, u.Query())
		}
	}
	return result
}

type mockProber struct {
	reply *api.Reply
	err   error
	calls int
}

func (m *mockProber) TestLogin(ctx context.Context) (*api.Reply, error) {
	m.calls++
	return m.reply, m.err
}

type mockAnswer struct {
	res *prompt.Response
	err error
}

type presentation struct {
	templateID    string
	substitutions map[string]string
	phase         Phase
}

// mockNotifier answers each template with a canned response; unscripted templates are
// cancelled
type mockNotifier struct {
	answers   map[string]mockAnswer
	presented []presentation
	attempt   *Attempt
	onPresent func()
}

func (m *mockNotifier) Present(ctx context.Context, templateID string, substitutions map[string]string) (*prompt.Response, error) {
	phase := PhaseIdle
	if m.attempt != nil {
		phase = m.attempt.Phase()
	}
	m.presented = append(m.presented, presentation{templateID, substitutions, phase})
	if m.onPresent != nil {
		m.onPresent()
	}
	if answer, ok := m.answers[templateID]; ok {
		return answer.res, answer.err
	}
	return &prompt.Response{Option: prompt.OptionCancel, Fields: map[string]string{}}, nil
}

func (m *mockNotifier) templateIDs() []string {
	ids := make([]string, 0, len(m.presented))
	for _, p := range m.presented {
		ids = append(ids, p.templateID)
	}
	return ids
}

// mockBrowser records each URL opened, along with the state of the store at the time
type mockBrowser struct {
	store     *settings.MemoryStore
	opened    []string
	snapshots []map[string]string
	err       error
}

func (m *mockBrowser) open(url string) error {
	m.opened = append(m.opened, url)
	m.snapshots = append(m.snapshots, m.store.Snapshot())
	return m.err
}

type mockReporter struct {
	mu      sync.Mutex
	results []Result
}

func (m *mockReporter) Report(ctx context.Context, result Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, result)
}
