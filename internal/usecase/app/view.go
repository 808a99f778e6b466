package app

// Form names one of the page's forms or action controls.
type Form string

const (
	FormLogin    Form = "login"
	FormSignup   Form = "signup"
	FormLogout   Form = "logout"
	FormBorrower Form = "borrower"
	FormLoan     Form = "loan"
	FormRepay    Form = "repay"
	FormDelete   Form = "delete"
	FormRefresh  Form = "refresh"
)

type AlertKind string

const (
	AlertSuccess AlertKind = "success"
	AlertError   AlertKind = "error"
)

// View is everything the controller needs from the page. Implementations
// must not call back into the controller.
type View interface {
	// ShowLogin hides the application and shows the login card.
	ShowLogin()
	// ShowSignup hides the application and shows the signup card.
	ShowSignup()
	ShowApp()

	SetBusy(f Form, busy bool)
	ResetForm(f Form)
	// ShowFormError sets the inline error of f. An empty msg hides it.
	ShowFormError(f Form, msg string)

	Alert(kind AlertKind, msg string)

	// SetBorrowerOptions and SetLoanRows replace pre-rendered, escaped HTML.
	SetBorrowerOptions(html string)
	SetLoanRows(html string)
	SetLoanDate(date string)

	// Prompt asks the user for a value. ok is false when the user cancelled.
	Prompt(msg string) (value string, ok bool)
}
