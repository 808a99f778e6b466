// Package app holds the request, response and render cycle of one browser
// session, independent of how the page is delivered.
package app

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"bookkeeping-web/internal/domain/borrower"
	"bookkeeping-web/internal/domain/failure"
	"bookkeeping-web/internal/domain/loan"
	"bookkeeping-web/internal/domain/session"
	"bookkeeping-web/internal/render"
)

// API is the subset of the bookkeeping API client used by the controller.
type API interface {
	FetchCSRF(ctx context.Context, creds session.Credentials) (string, error)
	Login(ctx context.Context, creds session.Credentials, acc session.Account) (string, error)
	Signup(ctx context.Context, creds session.Credentials, acc session.Account) error
	Logout(ctx context.Context, creds session.Credentials) error
	ListBorrowers(ctx context.Context, creds session.Credentials) ([]borrower.Borrower, error)
	CreateBorrower(ctx context.Context, creds session.Credentials, in borrower.CreateInput) (*borrower.Borrower, error)
	ListActiveLoans(ctx context.Context, creds session.Credentials) ([]loan.Loan, error)
	CreateLoan(ctx context.Context, creds session.Credentials, in loan.CreateInput) (*loan.Loan, error)
	RepayLoan(ctx context.Context, creds session.Credentials, loanID int64, in loan.RepaymentInput) error
	DeleteLoan(ctx context.Context, creds session.Credentials, loanID int64) error
}

// Commands has one method per user action. None of them return an error:
// every failure ends up on the View.
type Commands interface {
	Initialize(ctx context.Context)
	Login(ctx context.Context, username, password string)
	Signup(ctx context.Context, username, password string)
	Logout(ctx context.Context)
	ShowSignup()
	ShowLogin()
	SubmitBorrower(ctx context.Context, in borrower.CreateInput)
	SubmitLoan(ctx context.Context, form loan.Form)
	RefreshLoans(ctx context.Context)
	RepayLoan(ctx context.Context, loanID int64)
	DeleteLoan(ctx context.Context, loanID int64)
}

var _ Commands = (*Controller)(nil)

type Option func(*Controller)

func WithLogger(l *zap.Logger) Option { return func(c *Controller) { c.log = l } }

// WithMoney sets the amount formatter used for loan rows.
func WithMoney(m *render.Money) Option { return func(c *Controller) { c.money = m } }

// WithClock overrides time.Now, used for the default lent date and token
// expiry.
func WithClock(now func() time.Time) Option { return func(c *Controller) { c.now = now } }

// Controller owns one Session and drives one View. It is not safe for
// concurrent use; callers serialise access per browser.
type Controller struct {
	api    API
	tokens session.TokenStore
	sess   *session.Session
	view   View

	money *render.Money
	log   *zap.Logger
	now   func() time.Time
}

func NewController(api API, tokens session.TokenStore, sess *session.Session, view View, opts ...Option) *Controller {
	c := &Controller{
		api:    api,
		tokens: tokens,
		sess:   sess,
		view:   view,
		money:  render.NewMoney("en-US", loan.DefaultCurrency),
		log:    zap.NewNop(),
		now:    time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	c.log = c.log.With(zap.String("session", sess.ID))
	return c
}

func (c *Controller) Session() *session.Session { return c.sess }

// Rebind points the controller at a fresh View, one per rendered page.
func (c *Controller) Rebind(v View) { c.view = v }

// forceLogout is the path taken on any 401: the persisted token is dropped,
// the session reset and the login card shown.
func (c *Controller) forceLogout(ctx context.Context) {
	c.clearToken(ctx)
	c.sess.Reset()
	c.view.ShowLogin()
}

func (c *Controller) clearToken(ctx context.Context) {
	if err := c.tokens.Delete(ctx, c.sess.ID); err != nil {
		c.log.Error("clear persisted token", zap.Error(err))
	}
}

// handled reports whether err was a 401 and, if so, logs the session out.
func (c *Controller) handled(ctx context.Context, err error) bool {
	if !failure.IsUnauthorized(err) {
		return false
	}
	c.log.Info("session unauthorized, logging out")
	c.forceLogout(ctx)
	return true
}

// failureMessage is the server message for API errors and fallback for
// anything else, field errors included. Unexpected failures are logged.
func (c *Controller) failureMessage(op string, err error, fallback string) string {
	return c.apiMessage(op, err, fallback, (*failure.APIError).MessageOr)
}

// failureDetail is failureMessage that also accepts the first field error.
func (c *Controller) failureDetail(op string, err error, fallback string) string {
	return c.apiMessage(op, err, fallback, (*failure.APIError).DetailOr)
}

func (c *Controller) apiMessage(op string, err error, fallback string, pick func(*failure.APIError, string) string) string {
	var apiErr *failure.APIError
	if errors.As(err, &apiErr) {
		return pick(apiErr, fallback)
	}
	c.log.Error(op, zap.Error(err), zap.Stringer("kind", failure.Classify(err)))
	return fallback
}
