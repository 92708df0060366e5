package auth

import (
	"errors"
	"net/url"
	"sync"
)

// State is the lifecycle of one auth screen.
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateSuccess    State = "success"
	StateError      State = "error"
)

var (
	// ErrAlreadySubmitting rejects a second submit while one is in flight.
	ErrAlreadySubmitting = errors.New("a submission is already in progress")
	// ErrStaleMount is returned when a probe outlived its mount.
	ErrStaleMount = errors.New("screen was remounted")
)

// View is the renderable state of an auth screen.
type View struct {
	Screen         Screen `json:"screen"`
	State          State  `json:"state"`
	Message        string `json:"message,omitempty"`
	Error          string `json:"error,omitempty"`
	OAuthOnly      bool   `json:"oauth_only,omitempty"`
	OAuthAction    string `json:"oauth_action,omitempty"`
	CanRetry       bool   `json:"can_retry"`
	Redirect       string `json:"redirect,omitempty"`
	ConfirmationID string `json:"confirmation_id,omitempty"`
	Email          string `json:"email,omitempty"`
	URL            string `json:"url,omitempty"`
	RetryAfter     int    `json:"retry_after,omitempty"`
}

// Flow is the state machine behind one mounted auth screen.
type Flow struct {
	mu         sync.Mutex
	screen     Screen
	path       string
	generation uint64
	view       View
}

// NewFlow creates an idle flow. path is the screen's navigable path.
func NewFlow(screen Screen, path string) *Flow {
	return &Flow{
		screen: screen,
		path:   path,
		view:   View{Screen: screen, State: StateIdle, CanRetry: true},
	}
}

// Mount starts a new generation and returns its token.
func (f *Flow) Mount(cid, email string) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generation++
	f.view = View{Screen: f.screen, State: StateIdle, CanRetry: true}
	f.setIdentifiersLocked(cid, email)
	return f.generation
}

// Unmount invalidates any in-flight probe.
func (f *Flow) Unmount() {
	f.mu.Lock()
	f.generation++
	f.mu.Unlock()
}

// Redirect applies a probe result for token. Stale tokens are ignored.
func (f *Flow) Redirect(token uint64, to string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if token != f.generation {
		return ErrStaleMount
	}
	f.view.Redirect = to
	return nil
}

// Begin moves to submitting. Error and success states may resubmit.
func (f *Flow) Begin() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.view.State == StateSubmitting {
		return ErrAlreadySubmitting
	}
	f.view.State = StateSubmitting
	f.view.Error = ""
	f.view.OAuthOnly = false
	f.view.OAuthAction = ""
	f.view.RetryAfter = 0
	return nil
}

// Succeed records a successful submission.
func (f *Flow) Succeed(message, redirect string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.view.State = StateSuccess
	f.view.Message = message
	f.view.Redirect = redirect
	f.view.CanRetry = true
}

// Fail records a failed submission. An OAuth-only failure replaces the
// retry action with the provider continuation.
func (f *Flow) Fail(message, oauthAction string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.view.State = StateError
	f.view.Error = message
	f.view.OAuthOnly = oauthAction != ""
	f.view.OAuthAction = oauthAction
	f.view.CanRetry = oauthAction == ""
}

// Throttle records a rejected resend.
func (f *Flow) Throttle(message string, retryAfter int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.view.State = StateError
	f.view.Error = message
	f.view.RetryAfter = retryAfter
	f.view.CanRetry = true
}

// SetIdentifiers replaces the short lived identifiers in state and URL.
func (f *Flow) SetIdentifiers(cid, email string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setIdentifiersLocked(cid, email)
}

func (f *Flow) setIdentifiersLocked(cid, email string) {
	if cid != "" {
		f.view.ConfirmationID = cid
	}
	if email != "" {
		f.view.Email = email
	}
	f.view.URL = buildURL(f.path, f.view.ConfirmationID, f.view.Email)
}

// Snapshot returns a copy of the view.
func (f *Flow) Snapshot() View {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.view
}

// VerifyURL builds the verification URL for a confirmation id.
func VerifyURL(cid, email string) string {
	return buildURL("/auth/verify", cid, email)
}

func buildURL(path, cid, email string) string {
	if path == "" {
		return ""
	}
	v := url.Values{}
	if cid != "" {
		v.Set("cid", cid)
	}
	if email != "" {
		v.Set("email", email)
	}
	if len(v) == 0 {
		return path
	}
	return path + "?" + v.Encode()
}
