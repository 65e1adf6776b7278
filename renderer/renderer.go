// Package renderer turns fundpush report models into the plain text pushed to phones
// and archived on disk.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/fundpush"
)

//go:embed templates/*.tmpl
var files embed.FS

var templates, _ = fs.Sub(files, "templates")

var (
	owners  = []string{"👤", "👥"}
	markers = []string{"1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣", "6️⃣", "7️⃣", "8️⃣", "9️⃣", "🔟"}
)

var funcs = template.FuncMap{
	// header is the emoji of an owner, alternating with its position.
	"header": func(position int) string { return owners[position%len(owners)] },
	// marker is the sequence marker of the i-th (0-based) entry.
	"marker": func(i int) string {
		if i < len(markers) {
			return markers[i]
		}
		return fmt.Sprintf("%d.", i+1)
	},
	"rule": strings.Repeat,
	"join": strings.Join,
}

// User renders the report pushed to an owner.
func User(r *fundpush.UserReport) string {
	return renderTemplate("user", "user.tmpl", nil, r)
}

// UserArchive renders the report of an owner as archived on disk.
func UserArchive(r *fundpush.UserReport) string {
	return renderTemplate("userArchive", "user_archive.tmpl", nil, r)
}

// Fund renders the report of a fund.
func Fund(r *fundpush.FundReport) string {
	partials := map[string]string{
		"fund_holding": "fund_holding.tmpl",
	}
	return renderTemplate("fund", "fund.tmpl", partials, r)
}

// Performance renders the performance summary.
func Performance(r *fundpush.PerformanceReport) string {
	return renderTemplate("performance", "performance.tmpl", nil, r)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
