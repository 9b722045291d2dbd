package tuning

import (
	"fmt"
	"html/template"
	"io"
)

// summaryTemplate renders a standalone HTML page for the summary table.
var summaryTemplate = template.Must(template.New("summary").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
table { border-collapse: collapse; }
th, td { border: 1px solid #999; padding: 0.3rem 0.6rem; text-align: left; }
th { background: #eee; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<table>
<thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
</body>
</html>
`))

// htmlView is the template view model.
type htmlView struct {
	Title   string
	Columns []string
	Rows    [][]string
}

// WriteHTML renders the summary table as a standalone HTML page.
func (t Table) WriteHTML(w io.Writer, title string) error {
	view := htmlView{Title: title, Columns: t.Columns, Rows: t.Rows}
	if err := summaryTemplate.Execute(w, view); err != nil {
		return fmt.Errorf("render summary html: %w", err)
	}
	return nil
}
