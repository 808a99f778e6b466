package loan

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

type Status string

// StatusActive marks a loan that still awaits repayment. Fully repaid loans
// come back with another status.
const StatusActive Status = "ACTIVE"

// DefaultCurrency is used when a loan carries no currency code.
const DefaultCurrency = "USD"

// DateLayout is the ISO calendar date exchanged with the API.
const DateLayout = "2006-01-02"

var ErrInvalidRepayment = errors.New("repayment amount must be a number greater than 0")

// Loan as returned by GET /loans. Dates are kept as the literal strings sent
// by the API and are never converted between time zones.
type Loan struct {
	ID           int64           `json:"id"`
	BorrowerID   int64           `json:"borrowerId"`
	BorrowerName string          `json:"borrowerName,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency,omitempty"`
	DateLent     string          `json:"dateLent"`
	DueDate      string          `json:"dueDate"`
	Status       Status          `json:"status,omitempty"`
}

// DisplayName falls back to "Borrower #{id}" when the API sent no name.
func (l Loan) DisplayName() string {
	if l.BorrowerName != "" {
		return l.BorrowerName
	}
	return fmt.Sprintf("Borrower #%d", l.BorrowerID)
}

// Active reports whether the loan belongs in the active-loan table. A loan
// without a status is taken as active.
func (l Loan) Active() bool { return l.Status == "" || l.Status == StatusActive }

// CurrencyOr returns the loan currency, or fallback when absent.
func (l Loan) CurrencyOr(fallback string) string {
	if c := strings.TrimSpace(l.Currency); c != "" {
		return c
	}
	return fallback
}

// CreateInput is the POST /loans body. Unparsable numbers stay nil and are
// sent as null so the API reports them.
type CreateInput struct {
	BorrowerID *int64   `json:"borrowerId"`
	Amount     *float64 `json:"amount"`
	Currency   string   `json:"currency"`
	DateLent   string   `json:"dateLent"`
}

type RepaymentInput struct {
	Amount float64 `json:"amount"`
}

// Form holds the raw loan form fields as typed by the user.
type Form struct {
	BorrowerID string
	Amount     string
	Currency   string
	DateLent   string
}

// Input parses the raw form the way the loan form always has: the borrower
// id as a base-10 integer and the amount as a float. Nothing else is checked.
func (f Form) Input() CreateInput {
	in := CreateInput{Currency: f.Currency, DateLent: f.DateLent}
	if n, err := strconv.ParseInt(strings.TrimSpace(f.BorrowerID), 10, 64); err == nil {
		in.BorrowerID = &n
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(f.Amount), 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
		in.Amount = &v
	}
	return in
}

// ParseRepaymentAmount validates the prompted repayment amount before any
// request is made.
func ParseRepaymentAmount(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, ErrInvalidRepayment
	}
	return v, nil
}
