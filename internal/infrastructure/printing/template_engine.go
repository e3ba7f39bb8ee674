package printing

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"maps"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*.html
var templateFS embed.FS

// InvoiceTemplateName is the embedded invoice layout
const InvoiceTemplateName = "invoice.html"

// TemplateEngine binds data to html/template layouts with formatting helpers
type TemplateEngine struct {
	funcMap   template.FuncMap
	templates *template.Template
}

// TemplateEngineOption configures the template engine
type TemplateEngineOption func(*TemplateEngine)

// WithFuncs adds or overrides template functions
func WithFuncs(funcs template.FuncMap) TemplateEngineOption {
	return func(e *TemplateEngine) {
		maps.Copy(e.funcMap, funcs)
	}
}

// NewTemplateEngine parses the embedded layouts. It panics if they do not
// parse, which can only happen with a broken build.
func NewTemplateEngine(opts ...TemplateEngineOption) *TemplateEngine {
	e := &TemplateEngine{
		funcMap: template.FuncMap{
			"formatMoney":   formatMoney,
			"formatDecimal": formatDecimal,
			"formatDate":    formatDate,
			"title":         titleCase,
			"upper":         strings.ToUpper,
			"statusLabel":   statusLabel,
			"statusClass":   statusClass,
			"inc":           func(i int) int { return i + 1 },
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.templates = template.Must(template.New("").Funcs(e.funcMap).ParseFS(templateFS, "templates/*.html"))
	return e
}

// Render executes a named embedded template
func (e *TemplateEngine) Render(name string, data any) (string, error) {
	tmpl := e.templates.Lookup(name)
	if tmpl == nil {
		return "", NewRenderError(ErrCodeInvalidHTML, "unknown template "+name, nil)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute template", err)
	}
	return buf.String(), nil
}

// RenderString parses and executes an ad-hoc template with the engine's functions
func (e *TemplateEngine) RenderString(name, content string, data any) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", NewRenderError(ErrCodeInvalidHTML, "template content is empty", nil)
	}
	tmpl, err := template.New(name).Funcs(e.funcMap).Parse(content)
	if err != nil {
		return "", NewRenderError(ErrCodeInvalidHTML, "failed to parse template", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute template", err)
	}
	return buf.String(), nil
}

// formatMoney renders symbol plus the amount with thousands separators and 2 dp.
// Example: ("$", 1234.5) -> "$1,234.50"
func formatMoney(symbol string, d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + symbol + groupThousands(d.Abs().StringFixed(2))
	}
	return symbol + groupThousands(d.StringFixed(2))
}

// formatDecimal renders d with a fixed number of decimals
func formatDecimal(d decimal.Decimal, places int) string {
	return d.StringFixed(int32(places))
}

func groupThousands(fixed string) string {
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02 Jan 2006")
}

// titleCase builds a Caser per call; Casers are stateful.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// statusLabel turns PENDING into "Pending"
func statusLabel(status fmt.Stringer) string {
	return titleCase(strings.ToLower(status.String()))
}

func statusClass(status fmt.Stringer) string {
	return "status-" + strings.ToLower(status.String())
}
