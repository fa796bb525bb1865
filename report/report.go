/*
Functions for generating HTML reports listing the service display names.
*/

package report

import (
	"bytes"
	"html/template"
	"io"

	"github.com/alecthomas/chroma/formatters/html"
	"github.com/alecthomas/chroma/lexers"
	"github.com/alecthomas/chroma/styles"
	"github.com/pkg/errors"

	"github.com/daedaleanai/svcnames/services"
)

// Options controls what goes into a report.
type Options struct {
	// Chroma style used for the table source
	Style string
	// Only matching entries are listed. The source section always shows the whole table.
	Filter services.Filter
	// Order of the listed entries
	Order services.SortOrder
	// Comment lines shown at the top of the table source
	Header []string
}

type reportData struct {
	Entries []services.Entry
	Total   int
	Filter  services.Filter
	CSS     template.CSS
	Source  template.HTML
}

// Services generates a HTML report listing the entries of the table followed by its highlighted source.
func Services(t *services.Table, w io.Writer, opts Options) error {
	css, source, err := highlightSource(t, opts)
	if err != nil {
		return err
	}

	data := reportData{
		Entries: opts.Filter.Apply(t.Sorted(opts.Order)),
		Total:   t.Len(),
		Filter:  opts.Filter,
		CSS:     template.CSS(css),
		Source:  template.HTML(source),
	}
	return reportTmpl.ExecuteTemplate(w, "SERVICES", data)
}

// highlightSource serializes the table and renders it as highlighted HTML, returning the stylesheet and the markup.
func highlightSource(t *services.Table, opts Options) (string, string, error) {
	var src bytes.Buffer
	if err := services.Write(&src, t, opts.Header); err != nil {
		return "", "", err
	}

	lexer := lexers.Get("kotlin")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	iterator, err := lexer.Tokenise(nil, src.String())
	if err != nil {
		return "", "", errors.Wrap(err, "tokenise service table")
	}

	style := styles.Get(opts.Style)
	formatter := html.New(html.WithClasses(true), html.WithLineNumbers(true), html.LinkableLineNumbers(true, "L"))

	var css, markup bytes.Buffer
	if err := formatter.WriteCSS(&css, style); err != nil {
		return "", "", errors.Wrap(err, "write stylesheet")
	}
	if err := formatter.Format(&markup, style, iterator); err != nil {
		return "", "", errors.Wrap(err, "format service table")
	}
	return css.String(), markup.String(), nil
}

// Prints a filter in a nicely formatted manner to be shown in the report
func (report reportData) PrintFilter() string {
	filterString := ""
	if report.Filter.KeyRegexp != nil {
		filterString += " (Key: \"" + report.Filter.KeyRegexp.String() + "\")"
	}
	if report.Filter.NameRegexp != nil {
		filterString += " (Display name: \"" + report.Filter.NameRegexp.String() + "\")"
	}
	if filterString == "" {
		return "No filter"
	}
	return filterString
}

var reportTmplText = `
{{define "SERVICES"}}
<html lang="en">
	<head>
		<meta charset="utf-8">
		<meta name="viewport" content="width=device-width, initial-scale=1">

		<title>Service display names</title>

		<style>
			body {
				font-family: Roboto, Arial, sans-serif;
				max-width: 3000px;
				margin-left: 5%;
				margin-right: 5%;
			}
			table.services {
				border-collapse: collapse;
			}
			table.services td, table.services th {
				border: 1px solid black;
				padding: 0em 0.5em;
				text-align: left;
			}
			{{.CSS}}
		</style>
	</head>
	<body>
		<h1>Service display names</h1>
		<p>Filter: {{.PrintFilter}}</p>
		<p>Showing {{len .Entries}} of {{.Total}} services.</p>
		<table class="services">
			<tr><th>Key</th><th>Display name</th></tr>
			{{range .Entries}}
			<tr id="{{.Key}}"><td><code>{{.Key}}</code></td><td>{{.DisplayName}}</td></tr>
			{{else}}
			<tr><td colspan="2">No services match the filter.</td></tr>
			{{end}}
		</table>
		<h2>Source</h2>
		{{.Source}}
	</body>
</html>
{{end}}
`

var reportTmpl = template.Must(template.New("").Parse(reportTmplText))
