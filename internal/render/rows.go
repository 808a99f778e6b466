package render

import (
	"fmt"
	"strings"

	"bookkeeping-web/internal/domain/borrower"
	"bookkeeping-web/internal/domain/loan"
)

// LoanColumns is the number of columns of the active-loan table.
const LoanColumns = 5

const (
	NoBorrowersText     = "No borrowers found. Add one first."
	SelectBorrowerText  = "-- Select a Borrower --"
	LoadingLoansText    = "Fetching active loans..."
	NoActiveLoansText   = "No active loans found. You're all caught up!"
	LoansConnectionText = "Error loading connection to server."
)

// BorrowerOptions renders the <option> list of the loan form's borrower
// selector, in input order.
func BorrowerOptions(list []borrower.Borrower) string {
	if len(list) == 0 {
		return placeholderOption(NoBorrowersText)
	}
	var b strings.Builder
	b.WriteString(placeholderOption(SelectBorrowerText))
	for _, br := range list {
		fmt.Fprintf(&b, `<option value="%d">%s</option>`, br.ID, EscapeHTML(br.Label()))
	}
	return b.String()
}

func placeholderOption(text string) string {
	return `<option value="" disabled selected>` + EscapeHTML(text) + `</option>`
}

// LoadingRow replaces the table body while loans are being fetched.
func LoadingRow() string { return messageRow("loading-state", LoadingLoansText) }

// ConnectionErrorRow replaces the table body when loans could not be fetched.
func ConnectionErrorRow() string { return messageRow("empty-state", LoansConnectionText) }

func messageRow(class, text string) string {
	return fmt.Sprintf(`<tr><td colspan="%d" class="text-center %s">%s</td></tr>`, LoanColumns, class, EscapeHTML(text))
}

// LoanRows renders one row per active loan, or a single placeholder row
// spanning every column when there is none. Loans the API already reports
// as repaid are skipped.
func LoanRows(loans []loan.Loan, money *Money) string {
	var b strings.Builder
	for _, l := range loans {
		if l.Active() {
			writeLoanRow(&b, l, money)
		}
	}
	if b.Len() == 0 {
		return messageRow("empty-state", NoActiveLoansText)
	}
	return b.String()
}

func writeLoanRow(b *strings.Builder, l loan.Loan, money *Money) {
	b.WriteString("<tr>")
	fmt.Fprintf(b, `<td><strong>%s</strong></td>`, EscapeHTML(l.DisplayName()))
	fmt.Fprintf(b, `<td class="text-right">%s</td>`, EscapeHTML(money.Loan(l)))
	fmt.Fprintf(b, `<td>%s</td>`, EscapeHTML(FormatDate(l.DateLent)))
	fmt.Fprintf(b, `<td>%s</td>`, EscapeHTML(FormatDate(l.DueDate)))
	b.WriteString(`<td class="text-center">`)
	fmt.Fprintf(b, `<form method="post" action="/loans/%d/repay" class="inline-form repay-form" data-prompt="Enter the amount repaid:">`+
		`<input type="hidden" name="amount" value="">`+
		`<button type="submit" class="btn btn-secondary btn-sm" aria-label="Repay loan %d">Repay</button></form>`, l.ID, l.ID)
	fmt.Fprintf(b, `<form method="post" action="/loans/%d/delete" class="inline-form delete-form">`+
		`<button type="submit" class="btn btn-link btn-sm" aria-label="Delete loan %d">Delete</button></form>`, l.ID, l.ID)
	b.WriteString("</td></tr>")
}
