package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"bookkeeping-web/internal/domain/borrower"
	"bookkeeping-web/internal/domain/loan"
	"bookkeeping-web/internal/domain/session"
)

type csrfResp struct {
	Token string `json:"token"`
}

type loginResp struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

// FetchCSRF returns the anti-forgery token of the API session.
func (c *Client) FetchCSRF(ctx context.Context, creds session.Credentials) (string, error) {
	var out csrfResp
	if err := c.do(ctx, creds, call{method: http.MethodGet, path: "/csrf", out: &out}); err != nil {
		return "", err
	}
	return out.Token, nil
}

// Login returns the bearer token, or "" when the API only set a cookie.
func (c *Client) Login(ctx context.Context, creds session.Credentials, acc session.Account) (string, error) {
	var out loginResp
	err := c.do(ctx, creds, call{method: http.MethodPost, path: "/auth/login", in: acc, out: &out, anonymous: true})
	if err != nil {
		return "", err
	}
	return out.Token, nil
}

func (c *Client) Signup(ctx context.Context, creds session.Credentials, acc session.Account) error {
	return c.do(ctx, creds, call{method: http.MethodPost, path: "/auth/signup", in: acc, anonymous: true})
}

func (c *Client) Logout(ctx context.Context, creds session.Credentials) error {
	return c.do(ctx, creds, call{method: http.MethodPost, path: "/auth/logout"})
}

func (c *Client) ListBorrowers(ctx context.Context, creds session.Credentials) ([]borrower.Borrower, error) {
	var out []borrower.Borrower
	if err := c.do(ctx, creds, call{method: http.MethodGet, path: "/borrowers", out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateBorrower(ctx context.Context, creds session.Credentials, in borrower.CreateInput) (*borrower.Borrower, error) {
	var out borrower.Borrower
	if err := c.do(ctx, creds, call{method: http.MethodPost, path: "/borrowers", in: in, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListActiveLoans returns the loans not yet fully repaid. Filtering is done
// by the API.
func (c *Client) ListActiveLoans(ctx context.Context, creds session.Credentials) ([]loan.Loan, error) {
	var out []loan.Loan
	if err := c.do(ctx, creds, call{method: http.MethodGet, path: "/loans", out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateLoan(ctx context.Context, creds session.Credentials, in loan.CreateInput) (*loan.Loan, error) {
	var out loan.Loan
	if err := c.do(ctx, creds, call{method: http.MethodPost, path: "/loans", in: in, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RepayLoan(ctx context.Context, creds session.Credentials, loanID int64, in loan.RepaymentInput) error {
	return c.do(ctx, creds, call{method: http.MethodPut, path: fmt.Sprintf("/loans/%d/repay", loanID), in: in})
}

func (c *Client) DeleteLoan(ctx context.Context, creds session.Credentials, loanID int64) error {
	return c.do(ctx, creds, call{method: http.MethodDelete, path: fmt.Sprintf("/loans/%d", loanID)})
}
