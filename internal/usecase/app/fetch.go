package app

import (
	"context"

	"go.uber.org/zap"

	"bookkeeping-web/internal/render"
)

const MsgBorrowersFailed = "Error loading borrowers. Is the server running?"

// FetchBorrowers refreshes the borrower selector. The returned error has
// already been shown; callers only use it to stop their flow. On failures
// other than 401 the previous options stay in place.
func (c *Controller) FetchBorrowers(ctx context.Context) error {
	list, err := c.api.ListBorrowers(ctx, c.sess)
	if err != nil {
		if c.handled(ctx, err) {
			return err
		}
		c.log.Error("fetch borrowers", zap.Error(err))
		c.view.Alert(AlertError, MsgBorrowersFailed)
		return err
	}
	c.view.SetBorrowerOptions(render.BorrowerOptions(list))
	return nil
}

// FetchActiveLoans shows the loading row, then the loans or an error row.
func (c *Controller) FetchActiveLoans(ctx context.Context) error {
	c.view.SetLoanRows(render.LoadingRow())
	loans, err := c.api.ListActiveLoans(ctx, c.sess)
	if err != nil {
		if c.handled(ctx, err) {
			return err
		}
		c.log.Error("fetch active loans", zap.Error(err))
		c.view.SetLoanRows(render.ConnectionErrorRow())
		return err
	}
	c.view.SetLoanRows(render.LoanRows(loans, c.money))
	return nil
}

// RefreshLoans is the manual refresh button.
func (c *Controller) RefreshLoans(ctx context.Context) {
	c.view.SetBusy(FormRefresh, true)
	defer c.view.SetBusy(FormRefresh, false)
	_ = c.FetchActiveLoans(ctx)
}
