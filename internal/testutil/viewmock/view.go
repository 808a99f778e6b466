package viewmock

import "bookkeeping-web/internal/usecase/app"

type Alert struct {
	Kind app.AlertKind
	Msg  string
}

// View records what the controller did to the page.
type View struct {
	Screen          string
	Busy            map[app.Form]bool
	BusyHistory     []string
	Resets          []app.Form
	FormErrors      map[app.Form]string
	Alerts          []Alert
	BorrowerOptions string
	LoanRows        string
	LoanRowHistory  []string
	LoanDate        string

	// PromptValue and PromptOK answer Prompt; Prompts records the questions.
	PromptValue string
	PromptOK    bool
	Prompts     []string
}

func New() *View {
	return &View{
		Busy:       map[app.Form]bool{},
		FormErrors: map[app.Form]string{},
	}
}

func (v *View) ShowLogin()  { v.Screen = "login" }
func (v *View) ShowSignup() { v.Screen = "signup" }
func (v *View) ShowApp()    { v.Screen = "app" }

func (v *View) SetBusy(f app.Form, busy bool) {
	v.Busy[f] = busy
	state := "off"
	if busy {
		state = "on"
	}
	v.BusyHistory = append(v.BusyHistory, string(f)+":"+state)
}

func (v *View) ResetForm(f app.Form) { v.Resets = append(v.Resets, f) }

func (v *View) ShowFormError(f app.Form, msg string) { v.FormErrors[f] = msg }

func (v *View) Alert(kind app.AlertKind, msg string) {
	v.Alerts = append(v.Alerts, Alert{Kind: kind, Msg: msg})
}

func (v *View) SetBorrowerOptions(html string) { v.BorrowerOptions = html }

func (v *View) SetLoanRows(html string) {
	v.LoanRows = html
	v.LoanRowHistory = append(v.LoanRowHistory, html)
}

func (v *View) SetLoanDate(date string) { v.LoanDate = date }

func (v *View) Prompt(msg string) (string, bool) {
	v.Prompts = append(v.Prompts, msg)
	return v.PromptValue, v.PromptOK
}

// LastAlert returns the most recent alert, or the zero Alert.
func (v *View) LastAlert() Alert {
	if len(v.Alerts) == 0 {
		return Alert{}
	}
	return v.Alerts[len(v.Alerts)-1]
}

func (v *View) WasReset(f app.Form) bool {
	for _, r := range v.Resets {
		if r == f {
			return true
		}
	}
	return false
}
