package app_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"

	"bookkeeping-web/internal/domain/borrower"
	"bookkeeping-web/internal/domain/failure"
	"bookkeeping-web/internal/domain/loan"
	"bookkeeping-web/internal/domain/session"
	"bookkeeping-web/internal/render"
	"bookkeeping-web/internal/testutil/apimock"
	"bookkeeping-web/internal/testutil/tokenmock"
	"bookkeeping-web/internal/testutil/viewmock"
	"bookkeeping-web/internal/usecase/app"
)

var fixedNow = time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)

type fixture struct {
	api    *apimock.API
	tokens *tokenmock.Store
	sess   *session.Session
	view   *viewmock.View
	ctrl   *app.Controller
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		api:    &apimock.API{},
		tokens: tokenmock.New(),
		sess:   session.New("sid-1", nil),
		view:   viewmock.New(),
	}
	f.ctrl = app.NewController(f.api, f.tokens, f.sess, f.view,
		app.WithMoney(render.NewMoney("en-US", "USD")),
		app.WithClock(func() time.Time { return fixedNow }),
	)
	return f
}

func (f *fixture) loggedIn(token string) {
	f.sess.Token = token
	f.sess.State = session.StateLoggedIn
	f.tokens.Tokens[f.sess.ID] = token
}

func jwtWithExp(t *testing.T, exp time.Time) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)}).
		SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func netErr() error { return &failure.NetworkError{Op: "GET /x", Err: errors.New("connection refused")} }

// ----- Initialize -----

func TestInitialize_RevealsAppAndRenders(t *testing.T) {
	f := newFixture(t)
	f.tokens.Tokens["sid-1"] = "stored"
	var sawToken string
	f.api.FetchCSRFFn = func(ctx context.Context, _ session.Credentials) (string, error) { return "csrf-9", nil }
	f.api.ListBorrowersFn = func(ctx context.Context, creds session.Credentials) ([]borrower.Borrower, error) {
		sawToken = creds.BearerToken()
		return []borrower.Borrower{{ID: 1, Name: "Alice", Email: "a@x.com"}}, nil
	}

	f.ctrl.Initialize(context.Background())

	if f.sess.CSRF != "csrf-9" {
		t.Fatalf("csrf = %q", f.sess.CSRF)
	}
	if sawToken != "stored" {
		t.Fatalf("persisted token not restored, got %q", sawToken)
	}
	if f.view.Screen != "app" || f.sess.State != session.StateLoggedIn {
		t.Fatalf("screen=%q state=%v", f.view.Screen, f.sess.State)
	}
	if !strings.Contains(f.view.BorrowerOptions, "Alice (a@x.com)") {
		t.Fatalf("options = %s", f.view.BorrowerOptions)
	}
	if !strings.Contains(f.view.LoanRows, render.NoActiveLoansText[:20]) {
		t.Fatalf("rows = %s", f.view.LoanRows)
	}
	if f.view.LoanRowHistory[0] != render.LoadingRow() {
		t.Fatalf("loading row not shown first: %v", f.view.LoanRowHistory)
	}
}

func TestInitialize_CSRFFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.api.FetchCSRFFn = func(context.Context, session.Credentials) (string, error) { return "", netErr() }

	f.ctrl.Initialize(context.Background())

	if f.api.Count("ListBorrowers") != 1 || f.api.Count("ListActiveLoans") != 1 {
		t.Fatalf("calls = %v", f.api.Calls)
	}
	if f.view.Screen != "app" {
		t.Fatalf("screen = %q", f.view.Screen)
	}
}

func TestInitialize_UnauthorizedStaysLoggedOut(t *testing.T) {
	f := newFixture(t)
	f.tokens.Tokens["sid-1"] = "revoked"
	f.api.ListBorrowersFn = func(context.Context, session.Credentials) ([]borrower.Borrower, error) {
		return nil, failure.ErrUnauthorized
	}

	f.ctrl.Initialize(context.Background())

	if f.view.Screen != "login" || f.sess.State != session.StateLoggedOut {
		t.Fatalf("screen=%q state=%v", f.view.Screen, f.sess.State)
	}
	if _, ok := f.tokens.Tokens["sid-1"]; ok {
		t.Fatalf("persisted token must be cleared")
	}
	if f.api.Count("ListActiveLoans") != 0 {
		t.Fatalf("no fetch may follow a 401: %v", f.api.Calls)
	}
}

func TestInitialize_DiscardsExpiredToken(t *testing.T) {
	f := newFixture(t)
	f.tokens.Tokens["sid-1"] = jwtWithExp(t, fixedNow.Add(-time.Hour))
	var sent []string
	f.api.ListBorrowersFn = func(_ context.Context, creds session.Credentials) ([]borrower.Borrower, error) {
		sent = append(sent, creds.BearerToken())
		return nil, nil
	}

	f.ctrl.Initialize(context.Background())

	if len(sent) != 1 || sent[0] != "" {
		t.Fatalf("expired token was sent: %v", sent)
	}
	if _, ok := f.tokens.Tokens["sid-1"]; ok {
		t.Fatalf("expired token must be deleted")
	}
}

func TestInitialize_KeepsValidJWT(t *testing.T) {
	f := newFixture(t)
	tok := jwtWithExp(t, fixedNow.Add(time.Hour))
	f.tokens.Tokens["sid-1"] = tok

	f.ctrl.Initialize(context.Background())

	if f.sess.Token != tok {
		t.Fatalf("valid token dropped")
	}
}

// ----- Login / Signup / Logout -----

func TestLogin_Success(t *testing.T) {
	f := newFixture(t)
	var acc session.Account
	f.api.LoginFn = func(_ context.Context, _ session.Credentials, a session.Account) (string, error) {
		acc = a
		return "fresh", nil
	}

	f.ctrl.Login(context.Background(), "alice", "pw")

	if acc.Username != "alice" || acc.Password != "pw" {
		t.Fatalf("account = %+v", acc)
	}
	if f.tokens.Tokens["sid-1"] != "fresh" || f.sess.Token != "fresh" {
		t.Fatalf("token not persisted: store=%v sess=%q", f.tokens.Tokens, f.sess.Token)
	}
	if f.sess.State != session.StateLoggedIn || f.view.Screen != "app" {
		t.Fatalf("state=%v screen=%q", f.sess.State, f.view.Screen)
	}
	want := "Login,FetchCSRF,ListBorrowers,ListActiveLoans"
	if got := strings.Join(f.api.Calls, ","); got != want {
		t.Fatalf("calls = %s want %s", got, want)
	}
	if f.view.Busy[app.FormLogin] {
		t.Fatalf("login form left busy")
	}
	if f.view.BusyHistory[0] != "login:on" {
		t.Fatalf("login form never disabled: %v", f.view.BusyHistory)
	}
}

func TestLogin_CookieOnly(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Login(context.Background(), "alice", "pw")
	if _, ok := f.tokens.Tokens["sid-1"]; ok {
		t.Fatalf("nothing must be persisted without a token")
	}
	if f.sess.State != session.StateLoggedIn {
		t.Fatalf("state = %v", f.sess.State)
	}
}

func TestLogin_Failures(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"network", netErr(), app.MsgNetworkError},
		{"bad credentials", failure.ErrUnauthorized, app.MsgInvalidLogin},
		{"server error", &failure.APIError{Status: http.StatusInternalServerError, Message: "boom"}, app.MsgInvalidLogin},
		{"rate limited", &failure.APIError{Status: http.StatusTooManyRequests, Message: "Too many login attempts. Please try again later."}, "Too many login attempts. Please try again later."},
		{"unexpected", errors.New("decode"), app.MsgInvalidLogin},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.api.LoginFn = func(context.Context, session.Credentials, session.Account) (string, error) { return "", tc.err }

			f.ctrl.Login(context.Background(), "alice", "pw")

			if got := f.view.FormErrors[app.FormLogin]; got != tc.want {
				t.Fatalf("inline error = %q want %q", got, tc.want)
			}
			if f.sess.State != session.StateLoggedOut {
				t.Fatalf("state = %v", f.sess.State)
			}
			if f.view.Busy[app.FormLogin] {
				t.Fatalf("login form left busy")
			}
			if f.api.Count("ListBorrowers") != 0 {
				t.Fatalf("data loaded after failed login")
			}
		})
	}
}

func TestLogin_IgnoredWhileAuthenticating(t *testing.T) {
	f := newFixture(t)
	f.sess.State = session.StateAuthenticating
	f.ctrl.Login(context.Background(), "alice", "pw")
	if f.api.Count("Login") != 0 {
		t.Fatalf("second login dispatched")
	}
}

func TestSignup_Success(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Signup(context.Background(), "bob", "pw")

	if f.view.Screen != "login" || !f.view.WasReset(app.FormSignup) {
		t.Fatalf("screen=%q resets=%v", f.view.Screen, f.view.Resets)
	}
	if a := f.view.LastAlert(); a.Kind != app.AlertSuccess || a.Msg != app.MsgSignupOK {
		t.Fatalf("alert = %+v", a)
	}
	if f.sess.State == session.StateLoggedIn || f.api.Count("Login") != 0 {
		t.Fatalf("signup must not log in")
	}
}

func TestSignup_Failures(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"message", &failure.APIError{Status: 400, Message: "Username is already taken!"}, "Username is already taken!"},
		{"field map", &failure.APIError{Status: 400, Fields: []failure.FieldMessage{{Field: "password", Message: "size must be between 6 and 40"}}}, "size must be between 6 and 40"},
		{"first field in body order", &failure.APIError{Status: 400, Fields: []failure.FieldMessage{
			{Field: "username", Message: "Username is taken"},
			{Field: "password", Message: "Password too short"},
		}}, "Username is taken"},
		{"unusable body", &failure.APIError{Status: 500}, app.MsgSignupFailed},
		{"network", netErr(), app.MsgSignupFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.api.SignupFn = func(context.Context, session.Credentials, session.Account) error { return tc.err }

			f.ctrl.Signup(context.Background(), "bob", "pw")

			if got := f.view.FormErrors[app.FormSignup]; got != tc.want {
				t.Fatalf("inline error = %q want %q", got, tc.want)
			}
			if f.view.WasReset(app.FormSignup) {
				t.Fatalf("form reset on failure")
			}
		})
	}
}

func TestLogout_ClearsEvenWhenCallFails(t *testing.T) {
	f := newFixture(t)
	f.loggedIn("tok")
	f.api.LogoutFn = func(context.Context, session.Credentials) error { return netErr() }

	f.ctrl.Logout(context.Background())

	if f.api.Count("Logout") != 1 {
		t.Fatalf("logout call not dispatched")
	}
	if _, ok := f.tokens.Tokens["sid-1"]; ok || f.sess.Token != "" || f.sess.State == session.StateLoggedIn {
		t.Fatalf("session not cleared: %+v", f.sess)
	}
	if f.view.Screen != "login" || !f.view.WasReset(app.FormLogin) {
		t.Fatalf("screen=%q resets=%v", f.view.Screen, f.view.Resets)
	}
	if a := f.view.LastAlert(); a.Kind != app.AlertSuccess || a.Msg != app.MsgLoggedOut {
		t.Fatalf("alert = %+v", a)
	}
}

func TestViewToggles(t *testing.T) {
	f := newFixture(t)
	f.view.FormErrors[app.FormLogin] = "old"
	f.ctrl.ShowSignup()
	if f.view.Screen != "signup" || f.view.FormErrors[app.FormLogin] != "" || !f.view.WasReset(app.FormLogin) {
		t.Fatalf("ShowSignup: %+v", f.view)
	}
	f.view.FormErrors[app.FormSignup] = "old"
	f.ctrl.ShowLogin()
	if f.view.Screen != "login" || f.view.FormErrors[app.FormSignup] != "" || !f.view.WasReset(app.FormSignup) {
		t.Fatalf("ShowLogin: %+v", f.view)
	}
}

// ----- fetchers -----

func TestFetchBorrowers_FailureKeepsOptions(t *testing.T) {
	f := newFixture(t)
	f.view.BorrowerOptions = "previous"
	f.api.ListBorrowersFn = func(context.Context, session.Credentials) ([]borrower.Borrower, error) { return nil, netErr() }

	if err := f.ctrl.FetchBorrowers(context.Background()); err == nil {
		t.Fatalf("want error")
	}
	if f.view.BorrowerOptions != "previous" {
		t.Fatalf("options overwritten: %q", f.view.BorrowerOptions)
	}
	if a := f.view.LastAlert(); a.Kind != app.AlertError || a.Msg != app.MsgBorrowersFailed {
		t.Fatalf("alert = %+v", a)
	}
}

func TestFetchActiveLoans_FailureShowsErrorRow(t *testing.T) {
	f := newFixture(t)
	f.api.ListActiveLoansFn = func(context.Context, session.Credentials) ([]loan.Loan, error) {
		return nil, &failure.APIError{Status: 500}
	}
	_ = f.ctrl.FetchActiveLoans(context.Background())
	if f.view.LoanRows != render.ConnectionErrorRow() {
		t.Fatalf("rows = %s", f.view.LoanRows)
	}
}

func TestRefreshLoans(t *testing.T) {
	f := newFixture(t)
	f.ctrl.RefreshLoans(context.Background())
	if f.api.Count("ListActiveLoans") != 1 || f.view.Busy[app.FormRefresh] {
		t.Fatalf("calls=%v busy=%v", f.api.Calls, f.view.Busy)
	}
}

// ----- mutations -----

func TestSubmitBorrower_Success(t *testing.T) {
	f := newFixture(t)
	f.loggedIn("tok")
	var got borrower.CreateInput
	f.api.CreateBorrowerFn = func(_ context.Context, _ session.Credentials, in borrower.CreateInput) (*borrower.Borrower, error) {
		got = in
		return &borrower.Borrower{ID: 4, Name: in.Name, Email: in.Email, Phone: in.Phone}, nil
	}

	f.ctrl.SubmitBorrower(context.Background(), borrower.CreateInput{Name: "  Jane Doe ", Email: "jane@x.com ", Phone: " 555-1111"})

	if got != (borrower.CreateInput{Name: "Jane Doe", Email: "jane@x.com", Phone: "555-1111"}) {
		t.Fatalf("input not trimmed: %+v", got)
	}
	a := f.view.LastAlert()
	if a.Kind != app.AlertSuccess || !strings.Contains(a.Msg, "Jane Doe") {
		t.Fatalf("alert = %+v", a)
	}
	if a.Msg != "Borrower Jane Doe added successfully!" {
		t.Fatalf("alert text = %q", a.Msg)
	}
	if !f.view.WasReset(app.FormBorrower) {
		t.Fatalf("form not reset")
	}
	if f.api.Count("ListBorrowers") != 1 {
		t.Fatalf("borrowers not re-fetched: %v", f.api.Calls)
	}
	if f.view.Busy[app.FormBorrower] {
		t.Fatalf("form left busy")
	}
}

func TestSubmitBorrower_FailureKeepsForm(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{&failure.APIError{Status: 400, Message: "Email should be valid"}, "Email should be valid"},
		{&failure.APIError{Status: 400}, app.MsgValidationFailed},
		{&failure.APIError{Status: 400, Fields: []failure.FieldMessage{{Field: "email", Message: "must be a well-formed email address"}}}, app.MsgValidationFailed},
		{netErr(), app.MsgValidationFailed},
	}
	for _, tc := range cases {
		f := newFixture(t)
		f.api.CreateBorrowerFn = func(context.Context, session.Credentials, borrower.CreateInput) (*borrower.Borrower, error) {
			return nil, tc.err
		}
		f.ctrl.SubmitBorrower(context.Background(), borrower.CreateInput{Name: "x"})
		if a := f.view.LastAlert(); a.Kind != app.AlertError || a.Msg != tc.want {
			t.Fatalf("alert = %+v want %q", a, tc.want)
		}
		if f.view.WasReset(app.FormBorrower) || f.api.Count("ListBorrowers") != 0 {
			t.Fatalf("form reset or refetched on failure")
		}
		if f.view.Busy[app.FormBorrower] {
			t.Fatalf("form left busy")
		}
	}
}

func TestSubmitLoan_ScenarioRendersRow(t *testing.T) {
	f := newFixture(t)
	f.loggedIn("tok")
	var got loan.CreateInput
	f.api.CreateLoanFn = func(_ context.Context, _ session.Credentials, in loan.CreateInput) (*loan.Loan, error) {
		got = in
		return &loan.Loan{ID: 7, BorrowerID: 3, Amount: decimal.RequireFromString("100.5"), Currency: "USD", DateLent: "2024-01-15", DueDate: "2024-02-15"}, nil
	}
	f.api.ListActiveLoansFn = func(context.Context, session.Credentials) ([]loan.Loan, error) {
		return []loan.Loan{{ID: 7, BorrowerID: 3, BorrowerName: "Jane Doe", Amount: decimal.RequireFromString("100.5"), Currency: "USD", DateLent: "2024-01-15", DueDate: "2024-02-15"}}, nil
	}

	f.ctrl.SubmitLoan(context.Background(), loan.Form{BorrowerID: "3", Amount: "100.5", Currency: "USD", DateLent: "2024-01-15"})

	if got.BorrowerID == nil || *got.BorrowerID != 3 || got.Amount == nil || *got.Amount != 100.5 || got.Currency != "USD" || got.DateLent != "2024-01-15" {
		t.Fatalf("input = %+v", got)
	}
	if a := f.view.LastAlert(); a.Kind != app.AlertSuccess || a.Msg != app.MsgLoanRecorded {
		t.Fatalf("alert = %+v", a)
	}
	if !f.view.WasReset(app.FormLoan) || f.view.LoanDate != "2024-03-09" {
		t.Fatalf("form not reset to today: resets=%v date=%q", f.view.Resets, f.view.LoanDate)
	}
	for _, want := range []string{"$100.50", "01/15/2024", "02/15/2024", "Jane Doe"} {
		if !strings.Contains(f.view.LoanRows, want) {
			t.Fatalf("row missing %q: %s", want, f.view.LoanRows)
		}
	}
}

func TestSubmitLoan_Failure(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{&failure.APIError{Status: 400, Message: "Borrower not found"}, "Borrower not found"},
		{&failure.APIError{Status: 400, Fields: []failure.FieldMessage{{Field: "amount", Message: "must be greater than 0"}}}, app.MsgValidationFailed},
		{netErr(), app.MsgValidationFailed},
	}
	for _, tc := range cases {
		f := newFixture(t)
		f.api.CreateLoanFn = func(context.Context, session.Credentials, loan.CreateInput) (*loan.Loan, error) {
			return nil, tc.err
		}
		f.ctrl.SubmitLoan(context.Background(), loan.Form{BorrowerID: "3", Amount: "abc"})
		if a := f.view.LastAlert(); a.Kind != app.AlertError || a.Msg != tc.want {
			t.Fatalf("alert = %+v want %q", a, tc.want)
		}
		if f.api.Count("ListActiveLoans") != 0 || f.view.WasReset(app.FormLoan) {
			t.Fatalf("unexpected refresh or reset")
		}
	}
}

func TestRepayLoan_RejectsInvalidAmounts(t *testing.T) {
	for _, raw := range []string{"0", "-5", "abc", ""} {
		f := newFixture(t)
		f.view.PromptValue, f.view.PromptOK = raw, true

		f.ctrl.RepayLoan(context.Background(), 7)

		if f.api.Count("RepayLoan") != 0 {
			t.Fatalf("%q: network call issued", raw)
		}
		if a := f.view.LastAlert(); a.Kind != app.AlertError || a.Msg != app.MsgRepayInvalid {
			t.Fatalf("%q: alert = %+v", raw, a)
		}
	}
}

func TestRepayLoan_Cancelled(t *testing.T) {
	f := newFixture(t)
	f.view.PromptOK = false
	f.ctrl.RepayLoan(context.Background(), 7)
	if len(f.api.Calls) != 0 || len(f.view.Alerts) != 0 {
		t.Fatalf("cancel must be a no-op: calls=%v alerts=%v", f.api.Calls, f.view.Alerts)
	}
	if len(f.view.Prompts) != 1 || f.view.Prompts[0] != app.MsgRepayPrompt {
		t.Fatalf("prompts = %v", f.view.Prompts)
	}
}

func TestRepayLoan_Success(t *testing.T) {
	f := newFixture(t)
	f.view.PromptValue, f.view.PromptOK = " 25.5 ", true
	var gotID int64
	var gotAmount float64
	f.api.RepayLoanFn = func(_ context.Context, _ session.Credentials, id int64, in loan.RepaymentInput) error {
		gotID, gotAmount = id, in.Amount
		return nil
	}

	f.ctrl.RepayLoan(context.Background(), 7)

	if gotID != 7 || gotAmount != 25.5 {
		t.Fatalf("repay(%d, %v)", gotID, gotAmount)
	}
	if a := f.view.LastAlert(); a.Kind != app.AlertSuccess || a.Msg != app.MsgRepayOK {
		t.Fatalf("alert = %+v", a)
	}
	if f.api.Count("ListActiveLoans") != 1 {
		t.Fatalf("loans not refreshed")
	}
}

func TestRepayLoan_Failure(t *testing.T) {
	f := newFixture(t)
	f.view.PromptValue, f.view.PromptOK = "10", true
	f.api.RepayLoanFn = func(context.Context, session.Credentials, int64, loan.RepaymentInput) error {
		return &failure.APIError{Status: 400, Message: "Repayment exceeds balance"}
	}
	f.ctrl.RepayLoan(context.Background(), 7)
	if a := f.view.LastAlert(); a.Kind != app.AlertError || a.Msg != app.MsgRepayFailed {
		t.Fatalf("alert = %+v", a)
	}
	if f.view.Busy[app.FormRepay] {
		t.Fatalf("repay left busy")
	}
}

func TestDeleteLoan(t *testing.T) {
	f := newFixture(t)
	f.ctrl.DeleteLoan(context.Background(), 7)
	if a := f.view.LastAlert(); a.Kind != app.AlertSuccess || a.Msg != app.MsgLoanDeleted {
		t.Fatalf("alert = %+v", a)
	}
	if got := strings.Join(f.api.Calls, ","); got != "DeleteLoan,ListActiveLoans" {
		t.Fatalf("calls = %s", got)
	}
}

func TestMutations_UnauthorizedForcesLogout(t *testing.T) {
	actions := map[string]func(f *fixture){
		"borrower": func(f *fixture) {
			f.api.CreateBorrowerFn = func(context.Context, session.Credentials, borrower.CreateInput) (*borrower.Borrower, error) {
				return nil, failure.ErrUnauthorized
			}
			f.ctrl.SubmitBorrower(context.Background(), borrower.CreateInput{Name: "x"})
		},
		"loan": func(f *fixture) {
			f.api.CreateLoanFn = func(context.Context, session.Credentials, loan.CreateInput) (*loan.Loan, error) {
				return nil, failure.ErrUnauthorized
			}
			f.ctrl.SubmitLoan(context.Background(), loan.Form{})
		},
		"repay": func(f *fixture) {
			f.view.PromptValue, f.view.PromptOK = "5", true
			f.api.RepayLoanFn = func(context.Context, session.Credentials, int64, loan.RepaymentInput) error {
				return failure.ErrUnauthorized
			}
			f.ctrl.RepayLoan(context.Background(), 1)
		},
		"delete": func(f *fixture) {
			f.api.DeleteLoanFn = func(context.Context, session.Credentials, int64) error { return failure.ErrUnauthorized }
			f.ctrl.DeleteLoan(context.Background(), 1)
		},
	}
	for name, act := range actions {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			f.loggedIn("tok")
			f.view.ShowApp()

			act(f)

			if _, ok := f.tokens.Tokens["sid-1"]; ok || f.sess.Token != "" {
				t.Fatalf("token not cleared")
			}
			if f.view.Screen != "login" || f.sess.State == session.StateLoggedIn {
				t.Fatalf("screen=%q state=%v", f.view.Screen, f.sess.State)
			}
			if f.api.Count("ListBorrowers")+f.api.Count("ListActiveLoans") != 0 {
				t.Fatalf("fetch after 401: %v", f.api.Calls)
			}
			if len(f.view.Alerts) != 0 {
				t.Fatalf("no alert expected on 401: %v", f.view.Alerts)
			}
		})
	}
}
