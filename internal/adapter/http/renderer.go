package http

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

//go:embed templates/*.html
var templateFS embed.FS

// TemplateRenderer is the echo.Renderer for the embedded page templates.
type TemplateRenderer struct{ t *template.Template }

func NewTemplateRenderer() (*TemplateRenderer, error) {
	t, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &TemplateRenderer{t: t}, nil
}

func (r *TemplateRenderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	return r.t.ExecuteTemplate(w, name, data)
}

// pageData is the template view of a Page. Maps are keyed by plain strings
// so the template can address them as fields.
type pageData struct {
	Screen string
	CSRF   string
	Alerts []Alert

	Busy   map[string]bool
	Errors map[string]string
	Values map[string]map[string]string

	// BorrowerOptions and LoanRows are escaped by the render package.
	BorrowerOptions template.HTML
	LoanRows        template.HTML
	LoanDate        string

	Currency   string
	Currencies []string
}

var currencies = []string{"USD", "EUR", "GBP", "INR", "JPY", "CAD", "AUD"}

func currencyChoices(def string) []string {
	out := []string{def}
	for _, c := range currencies {
		if c != def {
			out = append(out, c)
		}
	}
	return out
}

func newPageData(c echo.Context, p *Page, defaultCurrency string) pageData {
	d := pageData{
		Screen:          p.Screen,
		Alerts:          p.takeAlerts(),
		Busy:            map[string]bool{},
		Errors:          map[string]string{},
		Values:          map[string]map[string]string{},
		BorrowerOptions: template.HTML(p.BorrowerOptions),
		LoanRows:        template.HTML(p.LoanRows),
		LoanDate:        p.LoanDate,
		Currency:        defaultCurrency,
		Currencies:      currencyChoices(defaultCurrency),
	}
	if tok := c.Get(middleware.DefaultCSRFConfig.ContextKey); tok != nil {
		d.CSRF = fmt.Sprint(tok)
	}
	for f, v := range p.Busy {
		d.Busy[string(f)] = v
	}
	for f, v := range p.Errors {
		d.Errors[string(f)] = v
	}
	for f, v := range p.Values {
		d.Values[string(f)] = v
	}
	if cur := p.Value("loan", "currency"); cur != "" {
		d.Currency = cur
	}
	return d
}
