package output

import (
	"bytes"
	_ "embed"
	"html/template"
)

// HTMLFormatter produces a standalone HTML page of the schedule.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/schedule.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("schedule").Funcs(template.FuncMap{
	"money": FormatCurrency,
	"pct":   FormatPercentage,
	"inc":   func(i int) int { return i + 1 },
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
