// Package render turns an evaluated grid into presentation formats: Slack
// Markdown and an HTML email body.
package render

import (
	"fmt"
	"html/template"
	"strings"
	texttemplate "text/template"

	"github.com/Ro-Data/compgrid/pkg/models/domain"
)

// Markdown renders the grid as a Markdown document with one table row per
// metric. Sparkline cells render empty; their artifacts only embed in HTML
// output.
func Markdown(grid *domain.Grid) (string, error) {
	funcMap := texttemplate.FuncMap{
		"cell": func(cv domain.ColumnValue) string {
			if cv.Template == domain.TemplateSparkline {
				return ""
			}
			if cv.Template == domain.TemplatePctChange && cv.Value != nil {
				return fmt.Sprintf("%+.1f%%", *cv.Value)
			}
			return cv.FormattedValue()
		},
	}

	tmpl := `*{{.Title}}* ({{.Anchor.Format "2006-01-02"}})
--
| Metric |{{range .ColNames}} {{.}} |{{end}}
|---|{{range .ColNames}}---|{{end}}
{{range .Rows}}| {{.Name}} |{{range .Columns}} {{cell .}} |{{end}}
{{end}}`

	t, err := texttemplate.New("grid").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse markdown template: %w", err)
	}

	var sb strings.Builder
	if err := t.Execute(&sb, grid); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return sb.String(), nil
}

// SlackParts splits rendered Markdown on "\n--\n" dividers. Slack caps a
// section block at 3000 characters, so documents insert dividers where a
// split is safe.
func SlackParts(markdown string) []string {
	return strings.Split(markdown, "\n--\n")
}

// HTML renders the grid as an email body. Cells are colored per the row's
// style rule and sparkline artifacts embed as inline PNG data URIs.
func HTML(grid *domain.Grid) (string, error) {
	funcMap := template.FuncMap{
		"cellStyle": func(style domain.Style, cv domain.ColumnValue) template.CSS {
			v := 0.0
			if cv.Value != nil {
				v = *cv.Value
			}
			return template.CSS(style.Color(v))
		},
		"sparklineURI": func(cv domain.ColumnValue) template.URL {
			return template.URL("data:image/png;base64," + cv.Artifact)
		},
	}

	tmpl := `<html>
<body>
<h2>{{.Title}}</h2>
<p>{{.Anchor.Format "2006-01-02"}}</p>
<table cellpadding="4" cellspacing="0" border="0">
<tr><th align="left">Metric</th>{{range .ColNames}}<th align="right">{{.}}</th>{{end}}</tr>
{{range $row := .Rows}}<tr><td>{{$row.Name}}</td>
{{- range $row.Columns}}
{{- if eq .Template "column_sparkline.md"}}<td align="right"><img src="{{sparklineURI .}}" alt=""></td>
{{- else}}<td align="right" style="{{cellStyle $row.Style .}}">{{.FormattedValue}}</td>
{{- end}}
{{- end}}</tr>
{{end}}</table>
</body>
</html>
`

	t, err := template.New("grid").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse html template: %w", err)
	}

	var sb strings.Builder
	if err := t.Execute(&sb, grid); err != nil {
		return "", fmt.Errorf("failed to render html: %w", err)
	}
	return sb.String(), nil
}
