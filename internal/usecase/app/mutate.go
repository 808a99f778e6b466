package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"bookkeeping-web/internal/domain/borrower"
	"bookkeeping-web/internal/domain/loan"
)

const (
	MsgValidationFailed = "Validation failed"
	MsgLoanRecorded     = "Loan recorded successfully!"
	MsgRepayPrompt      = "Enter the amount repaid:"
	MsgRepayInvalid     = "Please enter a valid amount greater than 0."
	MsgRepayOK          = "Repayment processed successfully."
	MsgRepayFailed      = "An error occurred while processing the repayment."
	MsgLoanDeleted      = "Loan deleted."
	MsgDeleteFailed     = "An error occurred while deleting the loan."
)

// SubmitBorrower keeps the form values on failure so they can be corrected.
func (c *Controller) SubmitBorrower(ctx context.Context, in borrower.CreateInput) {
	c.view.SetBusy(FormBorrower, true)
	defer c.view.SetBusy(FormBorrower, false)

	in = in.Trimmed()
	if _, err := c.api.CreateBorrower(ctx, c.sess, in); err != nil {
		if c.handled(ctx, err) {
			return
		}
		c.view.Alert(AlertError, c.failureMessage("create borrower", err, MsgValidationFailed))
		return
	}
	c.view.Alert(AlertSuccess, fmt.Sprintf("Borrower %s added successfully!", in.Name))
	c.view.ResetForm(FormBorrower)
	_ = c.FetchBorrowers(ctx)
}

func (c *Controller) SubmitLoan(ctx context.Context, form loan.Form) {
	c.view.SetBusy(FormLoan, true)
	defer c.view.SetBusy(FormLoan, false)

	if _, err := c.api.CreateLoan(ctx, c.sess, form.Input()); err != nil {
		if c.handled(ctx, err) {
			return
		}
		c.view.Alert(AlertError, c.failureMessage("create loan", err, MsgValidationFailed))
		return
	}
	c.view.Alert(AlertSuccess, MsgLoanRecorded)
	c.view.ResetForm(FormLoan)
	c.view.SetLoanDate(c.Today())
	_ = c.FetchActiveLoans(ctx)
}

// Today is the default lent date of the loan form.
func (c *Controller) Today() string { return c.now().Format(loan.DateLayout) }

// RepayLoan prompts for the amount. Invalid amounts never reach the API.
func (c *Controller) RepayLoan(ctx context.Context, loanID int64) {
	raw, ok := c.view.Prompt(MsgRepayPrompt)
	if !ok {
		return
	}
	amount, err := loan.ParseRepaymentAmount(raw)
	if err != nil {
		c.view.Alert(AlertError, MsgRepayInvalid)
		return
	}

	c.view.SetBusy(FormRepay, true)
	defer c.view.SetBusy(FormRepay, false)
	if err := c.api.RepayLoan(ctx, c.sess, loanID, loan.RepaymentInput{Amount: amount}); err != nil {
		if c.handled(ctx, err) {
			return
		}
		c.log.Error("repay loan", zap.Int64("loan_id", loanID), zap.Error(err))
		c.view.Alert(AlertError, MsgRepayFailed)
		return
	}
	c.view.Alert(AlertSuccess, MsgRepayOK)
	_ = c.FetchActiveLoans(ctx)
}

func (c *Controller) DeleteLoan(ctx context.Context, loanID int64) {
	c.view.SetBusy(FormDelete, true)
	defer c.view.SetBusy(FormDelete, false)

	if err := c.api.DeleteLoan(ctx, c.sess, loanID); err != nil {
		if c.handled(ctx, err) {
			return
		}
		c.log.Error("delete loan", zap.Int64("loan_id", loanID), zap.Error(err))
		c.view.Alert(AlertError, MsgDeleteFailed)
		return
	}
	c.view.Alert(AlertSuccess, MsgLoanDeleted)
	_ = c.FetchActiveLoans(ctx)
}
