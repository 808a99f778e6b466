package session

import (
	"errors"
	"net/http"
)

// TokenKey is the fixed storage key of the persisted bearer token.
const TokenKey = "jwtToken"

type State int

const (
	StateLoggedOut State = iota
	StateAuthenticating
	StateLoggedIn
)

func (s State) String() string {
	switch s {
	case StateAuthenticating:
		return "authenticating"
	case StateLoggedIn:
		return "logged_in"
	default:
		return "logged_out"
	}
}

var ErrAuthInProgress = errors.New("authentication already in progress")

// Account is the login and signup body.
type Account struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Credentials is what an API call needs from the session.
type Credentials interface {
	BearerToken() string
	CSRFToken() string
	CookieJar() http.CookieJar
}

// Session is the client-side state of one browser. Token survives restarts
// through a TokenStore; CSRF lives in memory only and is refetched on every
// page load.
type Session struct {
	ID    string
	Token string
	CSRF  string
	State State

	jar http.CookieJar
}

// New builds a logged-out session. jar may be nil when credentialed calls
// are disabled.
func New(id string, jar http.CookieJar) *Session {
	return &Session{ID: id, State: StateLoggedOut, jar: jar}
}

func (s *Session) BearerToken() string       { return s.Token }
func (s *Session) CSRFToken() string         { return s.CSRF }
func (s *Session) CookieJar() http.CookieJar { return s.jar }

// BeginAuth moves to Authenticating. A second concurrent attempt is refused.
func (s *Session) BeginAuth() error {
	if s.State == StateAuthenticating {
		return ErrAuthInProgress
	}
	s.State = StateAuthenticating
	return nil
}

// CompleteLogin records the token returned by the API (may be empty when the
// API only set a cookie) and moves to LoggedIn.
func (s *Session) CompleteLogin(token string) {
	if token != "" {
		s.Token = token
	}
	s.State = StateLoggedIn
}

// FailAuth returns an Authenticating session to LoggedOut.
func (s *Session) FailAuth() {
	if s.State == StateAuthenticating {
		s.State = StateLoggedOut
	}
}

// MarkLoggedIn is used when a restored session proved valid.
func (s *Session) MarkLoggedIn() { s.State = StateLoggedIn }

// Reset is the single teardown path: token dropped, state LoggedOut. The
// CSRF token stays, it belongs to the page load rather than to the login.
func (s *Session) Reset() {
	s.Token = ""
	s.State = StateLoggedOut
}
