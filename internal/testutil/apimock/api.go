package apimock

import (
	"context"

	"bookkeeping-web/internal/domain/borrower"
	"bookkeeping-web/internal/domain/loan"
	"bookkeeping-web/internal/domain/session"
)

// API is a function-backed mock of the bookkeeping API client. Nil funcs
// succeed with zero values. Calls records the method names in call order.
type API struct {
	FetchCSRFFn       func(ctx context.Context, creds session.Credentials) (string, error)
	LoginFn           func(ctx context.Context, creds session.Credentials, acc session.Account) (string, error)
	SignupFn          func(ctx context.Context, creds session.Credentials, acc session.Account) error
	LogoutFn          func(ctx context.Context, creds session.Credentials) error
	ListBorrowersFn   func(ctx context.Context, creds session.Credentials) ([]borrower.Borrower, error)
	CreateBorrowerFn  func(ctx context.Context, creds session.Credentials, in borrower.CreateInput) (*borrower.Borrower, error)
	ListActiveLoansFn func(ctx context.Context, creds session.Credentials) ([]loan.Loan, error)
	CreateLoanFn      func(ctx context.Context, creds session.Credentials, in loan.CreateInput) (*loan.Loan, error)
	RepayLoanFn       func(ctx context.Context, creds session.Credentials, loanID int64, in loan.RepaymentInput) error
	DeleteLoanFn      func(ctx context.Context, creds session.Credentials, loanID int64) error

	Calls []string
}

func (m *API) FetchCSRF(ctx context.Context, creds session.Credentials) (string, error) {
	m.Calls = append(m.Calls, "FetchCSRF")
	if m.FetchCSRFFn != nil {
		return m.FetchCSRFFn(ctx, creds)
	}
	return "", nil
}

func (m *API) Login(ctx context.Context, creds session.Credentials, acc session.Account) (string, error) {
	m.Calls = append(m.Calls, "Login")
	if m.LoginFn != nil {
		return m.LoginFn(ctx, creds, acc)
	}
	return "", nil
}

func (m *API) Signup(ctx context.Context, creds session.Credentials, acc session.Account) error {
	m.Calls = append(m.Calls, "Signup")
	if m.SignupFn != nil {
		return m.SignupFn(ctx, creds, acc)
	}
	return nil
}

func (m *API) Logout(ctx context.Context, creds session.Credentials) error {
	m.Calls = append(m.Calls, "Logout")
	if m.LogoutFn != nil {
		return m.LogoutFn(ctx, creds)
	}
	return nil
}

func (m *API) ListBorrowers(ctx context.Context, creds session.Credentials) ([]borrower.Borrower, error) {
	m.Calls = append(m.Calls, "ListBorrowers")
	if m.ListBorrowersFn != nil {
		return m.ListBorrowersFn(ctx, creds)
	}
	return nil, nil
}

func (m *API) CreateBorrower(ctx context.Context, creds session.Credentials, in borrower.CreateInput) (*borrower.Borrower, error) {
	m.Calls = append(m.Calls, "CreateBorrower")
	if m.CreateBorrowerFn != nil {
		return m.CreateBorrowerFn(ctx, creds, in)
	}
	return &borrower.Borrower{Name: in.Name, Email: in.Email, Phone: in.Phone}, nil
}

func (m *API) ListActiveLoans(ctx context.Context, creds session.Credentials) ([]loan.Loan, error) {
	m.Calls = append(m.Calls, "ListActiveLoans")
	if m.ListActiveLoansFn != nil {
		return m.ListActiveLoansFn(ctx, creds)
	}
	return nil, nil
}

func (m *API) CreateLoan(ctx context.Context, creds session.Credentials, in loan.CreateInput) (*loan.Loan, error) {
	m.Calls = append(m.Calls, "CreateLoan")
	if m.CreateLoanFn != nil {
		return m.CreateLoanFn(ctx, creds, in)
	}
	return &loan.Loan{}, nil
}

func (m *API) RepayLoan(ctx context.Context, creds session.Credentials, loanID int64, in loan.RepaymentInput) error {
	m.Calls = append(m.Calls, "RepayLoan")
	if m.RepayLoanFn != nil {
		return m.RepayLoanFn(ctx, creds, loanID, in)
	}
	return nil
}

func (m *API) DeleteLoan(ctx context.Context, creds session.Credentials, loanID int64) error {
	m.Calls = append(m.Calls, "DeleteLoan")
	if m.DeleteLoanFn != nil {
		return m.DeleteLoanFn(ctx, creds, loanID)
	}
	return nil
}

// Count returns how many times method was called.
func (m *API) Count(method string) int {
	n := 0
	for _, c := range m.Calls {
		if c == method {
			n++
		}
	}
	return n
}
