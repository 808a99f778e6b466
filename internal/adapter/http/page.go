package http

import (
	"bookkeeping-web/internal/usecase/app"
	"bookkeeping-web/pkg/id"
)

const (
	ScreenLogin  = "login"
	ScreenSignup = "signup"
	ScreenApp    = "app"
)

type Alert struct {
	ID   string
	Kind app.AlertKind
	Msg  string
}

// Page is the server-side model of one browser's page. It implements
// app.View; the template renders it.
type Page struct {
	Screen string
	Busy   map[app.Form]bool
	Errors map[app.Form]string
	// Values holds submitted form fields kept for redisplay.
	Values map[app.Form]map[string]string
	Alerts []Alert

	BorrowerOptions string
	LoanRows        string
	LoanDate        string

	promptValue string
	promptOK    bool

	// skipInit marks the next GET as a redirect after an action rather
	// than a page load.
	skipInit bool
}

var _ app.View = (*Page)(nil)

func NewPage(today string) *Page {
	return &Page{
		Screen:   ScreenLogin,
		Busy:     map[app.Form]bool{},
		Errors:   map[app.Form]string{},
		Values:   map[app.Form]map[string]string{},
		LoanDate: today,
	}
}

func (p *Page) ShowLogin()  { p.Screen = ScreenLogin }
func (p *Page) ShowSignup() { p.Screen = ScreenSignup }
func (p *Page) ShowApp()    { p.Screen = ScreenApp }

func (p *Page) SetBusy(f app.Form, busy bool) { p.Busy[f] = busy }

func (p *Page) ResetForm(f app.Form) { delete(p.Values, f) }

func (p *Page) ShowFormError(f app.Form, msg string) {
	if msg == "" {
		delete(p.Errors, f)
		return
	}
	p.Errors[f] = msg
}

func (p *Page) Alert(kind app.AlertKind, msg string) {
	p.Alerts = append(p.Alerts, Alert{ID: id.NewAlertID(), Kind: kind, Msg: msg})
}

func (p *Page) SetBorrowerOptions(html string) { p.BorrowerOptions = html }
func (p *Page) SetLoanRows(html string)        { p.LoanRows = html }
func (p *Page) SetLoanDate(date string)        { p.LoanDate = date }

// Prompt answers with the value the browser collected before submitting.
func (p *Page) Prompt(string) (string, bool) { return p.promptValue, p.promptOK }

// answerPrompt primes the next Prompt call for one request.
func (p *Page) answerPrompt(value string, ok bool) { p.promptValue, p.promptOK = value, ok }

func (p *Page) keep(f app.Form, values map[string]string) { p.Values[f] = values }

// Value returns a kept form field.
func (p *Page) Value(f app.Form, field string) string { return p.Values[f][field] }

// takeAlerts returns the pending alerts and clears them. Each shows once.
func (p *Page) takeAlerts() []Alert {
	out := p.Alerts
	p.Alerts = nil
	return out
}
