package borrower

import (
	"fmt"
	"strings"
)

// Borrower as returned by GET /borrowers.
type Borrower struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Label is the text shown for the borrower in the loan form selector.
func (b Borrower) Label() string { return fmt.Sprintf("%s (%s)", b.Name, b.Email) }

type CreateInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Trimmed strips surrounding whitespace from every field. It is the only
// client-side normalisation; everything else is validated by the API.
func (in CreateInput) Trimmed() CreateInput {
	return CreateInput{
		Name:  strings.TrimSpace(in.Name),
		Email: strings.TrimSpace(in.Email),
		Phone: strings.TrimSpace(in.Phone),
	}
}
