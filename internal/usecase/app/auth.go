package app

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"bookkeeping-web/internal/domain/failure"
	"bookkeeping-web/internal/domain/session"
)

const (
	MsgNetworkError = "Network error. Is backend running?"
	MsgInvalidLogin = "Invalid username or password."
	MsgSignupOK     = "Account created successfully! You may now login."
	MsgSignupFailed = "Failed to create account."
	MsgLoggedOut    = "You have been safely logged out."
)

// Initialize runs on every page load: fetch a CSRF token, restore the
// persisted bearer token and load both lists. Only a 401 keeps the user on
// the login card.
func (c *Controller) Initialize(ctx context.Context) {
	if csrf, err := c.api.FetchCSRF(ctx, c.sess); err != nil {
		c.log.Warn("could not fetch csrf token", zap.Error(err))
	} else {
		c.sess.CSRF = csrf
	}

	c.restoreToken(ctx)

	if err := c.FetchBorrowers(ctx); failure.IsUnauthorized(err) {
		return
	}
	if err := c.FetchActiveLoans(ctx); failure.IsUnauthorized(err) {
		return
	}
	c.sess.MarkLoggedIn()
	c.view.ShowApp()
}

func (c *Controller) restoreToken(ctx context.Context) {
	tok, err := c.tokens.Load(ctx, c.sess.ID)
	switch {
	case errors.Is(err, session.ErrTokenNotFound):
		return
	case err != nil:
		c.log.Warn("load persisted token", zap.Error(err))
		return
	}
	if session.Expired(tok, c.now()) {
		c.log.Info("persisted token expired, discarding")
		c.clearToken(ctx)
		c.sess.Token = ""
		return
	}
	c.sess.Token = tok
}

func (c *Controller) Login(ctx context.Context, username, password string) {
	if err := c.sess.BeginAuth(); err != nil {
		return
	}
	c.view.SetBusy(FormLogin, true)
	defer c.view.SetBusy(FormLogin, false)
	c.view.ShowFormError(FormLogin, "")

	tok, err := c.api.Login(ctx, c.sess, session.Account{Username: username, Password: password})
	if err != nil {
		c.sess.FailAuth()
		c.view.ShowFormError(FormLogin, c.loginMessage(err))
		return
	}
	if tok != "" {
		if err := c.tokens.Save(ctx, c.sess.ID, tok); err != nil {
			c.log.Error("persist token", zap.Error(err))
		}
	}
	c.sess.CompleteLogin(tok)
	c.view.ShowApp()
	c.Initialize(ctx)
}

func (c *Controller) loginMessage(err error) string {
	switch failure.Classify(err) {
	case failure.KindNetwork:
		return MsgNetworkError
	case failure.KindValidation:
		if failure.Status(err) == http.StatusTooManyRequests {
			var apiErr *failure.APIError
			errors.As(err, &apiErr)
			return apiErr.MessageOr(MsgInvalidLogin)
		}
	case failure.KindUnexpected:
		c.log.Error("login", zap.Error(err))
	}
	return MsgInvalidLogin
}

// Signup never logs the user in.
func (c *Controller) Signup(ctx context.Context, username, password string) {
	c.view.SetBusy(FormSignup, true)
	defer c.view.SetBusy(FormSignup, false)
	c.view.ShowFormError(FormSignup, "")

	err := c.api.Signup(ctx, c.sess, session.Account{Username: username, Password: password})
	if err != nil {
		c.view.ShowFormError(FormSignup, c.failureDetail("signup", err, MsgSignupFailed))
		return
	}
	c.view.ResetForm(FormSignup)
	c.view.ShowLogin()
	c.view.Alert(AlertSuccess, MsgSignupOK)
}

// Logout clears local state even when the API call fails.
func (c *Controller) Logout(ctx context.Context) {
	c.view.SetBusy(FormLogout, true)
	defer c.view.SetBusy(FormLogout, false)

	if err := c.api.Logout(ctx, c.sess); err != nil {
		c.log.Debug("logout call failed", zap.Error(err))
	}
	c.clearToken(ctx)
	c.sess.Reset()
	c.view.ResetForm(FormLogin)
	c.view.ShowLogin()
	c.view.Alert(AlertSuccess, MsgLoggedOut)
}

func (c *Controller) ShowSignup() {
	c.view.ShowSignup()
	c.view.ResetForm(FormLogin)
	c.view.ShowFormError(FormLogin, "")
}

func (c *Controller) ShowLogin() {
	c.view.ShowLogin()
	c.view.ResetForm(FormSignup)
	c.view.ShowFormError(FormSignup, "")
}
