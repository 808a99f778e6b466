package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"bookkeeping-web/internal/domain/borrower"
	"bookkeeping-web/internal/domain/loan"
	"bookkeeping-web/internal/usecase/app"
)

const indexTemplate = "index.html"

// Index renders the page. A plain load runs the startup sequence; the GET
// that follows an action only renders its outcome.
func (h *Handler) Index(c echo.Context) error {
	b, _, err := h.reg.Acquire(c)
	if err != nil {
		return err
	}
	defer b.Unlock()

	if !b.Page.skipInit {
		b.Cmd.Initialize(c.Request().Context())
	}
	b.Page.skipInit = false
	return c.Render(http.StatusOK, indexTemplate, newPageData(c, b.Page, h.currency))
}

// act runs one user action against the browser state and redirects back to
// the page. A browser unknown to this process is initialised first so its
// persisted token is in place.
func (h *Handler) act(c echo.Context, fn func(ctx context.Context, b *Browser)) error {
	b, fresh, err := h.reg.Acquire(c)
	if err != nil {
		return err
	}
	defer b.Unlock()

	ctx := c.Request().Context()
	if fresh {
		b.Cmd.Initialize(ctx)
	}
	fn(ctx, b)
	b.Page.skipInit = true
	return c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) ShowLogin(c echo.Context) error {
	return h.act(c, func(_ context.Context, b *Browser) { b.Cmd.ShowLogin() })
}

func (h *Handler) ShowSignup(c echo.Context) error {
	return h.act(c, func(_ context.Context, b *Browser) { b.Cmd.ShowSignup() })
}

type accountForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

func (h *Handler) Login(c echo.Context) error {
	var f accountForm
	if err := c.Bind(&f); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid form"})
	}
	return h.act(c, func(ctx context.Context, b *Browser) {
		b.Page.keep(app.FormLogin, map[string]string{"username": f.Username})
		b.Cmd.Login(ctx, f.Username, f.Password)
	})
}

func (h *Handler) Signup(c echo.Context) error {
	var f accountForm
	if err := c.Bind(&f); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid form"})
	}
	return h.act(c, func(ctx context.Context, b *Browser) {
		b.Page.keep(app.FormSignup, map[string]string{"username": f.Username})
		b.Cmd.Signup(ctx, f.Username, f.Password)
	})
}

func (h *Handler) Logout(c echo.Context) error {
	return h.act(c, func(ctx context.Context, b *Browser) { b.Cmd.Logout(ctx) })
}

type borrowerForm struct {
	Name  string `form:"name"`
	Email string `form:"email"`
	Phone string `form:"phone"`
}

func (h *Handler) CreateBorrower(c echo.Context) error {
	var f borrowerForm
	if err := c.Bind(&f); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid form"})
	}
	return h.act(c, func(ctx context.Context, b *Browser) {
		b.Page.keep(app.FormBorrower, map[string]string{"name": f.Name, "email": f.Email, "phone": f.Phone})
		b.Cmd.SubmitBorrower(ctx, borrower.CreateInput(f))
	})
}

type loanForm struct {
	BorrowerID string `form:"borrowerId"`
	Amount     string `form:"amount"`
	Currency   string `form:"currency"`
	DateLent   string `form:"dateLent"`
}

func (h *Handler) CreateLoan(c echo.Context) error {
	var f loanForm
	if err := c.Bind(&f); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid form"})
	}
	return h.act(c, func(ctx context.Context, b *Browser) {
		b.Page.keep(app.FormLoan, map[string]string{"amount": f.Amount, "currency": f.Currency})
		b.Page.SetLoanDate(f.DateLent)
		b.Cmd.SubmitLoan(ctx, loan.Form(f))
	})
}

func (h *Handler) RefreshLoans(c echo.Context) error {
	return h.act(c, func(ctx context.Context, b *Browser) { b.Cmd.RefreshLoans(ctx) })
}

type loanIDParam struct {
	LoanID int64 `param:"loan_id" validate:"required,gt=0"`
}

func (h *Handler) loanID(c echo.Context) (int64, *ErrorResponse) {
	var p loanIDParam
	if err := (&echo.DefaultBinder{}).BindPathParams(c, &p); err != nil {
		return 0, &ErrorResponse{Error: "invalid loan id"}
	}
	if err := c.Validate(&p); err != nil {
		return 0, &ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)}
	}
	return p.LoanID, nil
}

// Repay submits the amount the browser prompted for. A missing amount field
// means the prompt was cancelled.
func (h *Handler) Repay(c echo.Context) error {
	id, bad := h.loanID(c)
	if bad != nil {
		return c.JSON(http.StatusBadRequest, bad)
	}
	form, err := c.FormParams()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid form"})
	}
	amount, answered := form["amount"]
	value := ""
	if answered && len(amount) > 0 {
		value = amount[0]
	}
	return h.act(c, func(ctx context.Context, b *Browser) {
		b.Page.answerPrompt(value, answered)
		defer b.Page.answerPrompt("", false)
		h.log.Debug("repay", zap.Int64("loan_id", id), zap.Bool("answered", answered))
		b.Cmd.RepayLoan(ctx, id)
	})
}

func (h *Handler) Delete(c echo.Context) error {
	id, bad := h.loanID(c)
	if bad != nil {
		return c.JSON(http.StatusBadRequest, bad)
	}
	return h.act(c, func(ctx context.Context, b *Browser) { b.Cmd.DeleteLoan(ctx, id) })
}
