package ui

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"sort"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"gotidy/domain/dataset"
)

// renderTemplate executes a template into a buffer first so a failed render
// never leaves a half-written page
func (a *App) renderTemplate(w http.ResponseWriter, status int, templateName string, data interface{}) {
	var buf bytes.Buffer
	if err := a.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		a.logger.Error("Template error for %s: %v", templateName, err)
		http.Error(w, "Template rendering failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		a.logger.Warn("Error writing template response: %v", err)
	}
}

// renderChangeSummary turns a change report into HTML through markdown
func renderChangeSummary(changes *dataset.ChangeReport) template.HTML {
	var md strings.Builder
	fmt.Fprintf(&md, "## Changes made during cleaning\n\n")
	fmt.Fprintf(&md, "- **Duplicate rows removed:** %d\n", changes.DuplicatesRemoved)
	fmt.Fprintf(&md, "- **Missing values filled:** %d\n\n", changes.TotalFilled())

	columns := changes.Columns
	if len(columns) == 0 {
		for col := range changes.MissingValuesFilled {
			columns = append(columns, col)
		}
		sort.Strings(columns)
	}
	if len(columns) > 0 {
		md.WriteString("| Column | Missing values filled |\n|---|---:|\n")
		for _, col := range columns {
			fmt.Fprintf(&md, "| %s | %d |\n", escapeMarkdown(col), changes.MissingValuesFilled[col])
		}
	}

	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.SkipHTML})
	return template.HTML(markdown.ToHTML([]byte(md.String()), p, renderer))
}

// markdownEscaper backslash-escapes markdown syntax in user text. The HTML
// renderer escapes the resulting literals itself.
var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "|", `\|`, "*", `\*`, "_", `\_`, "`", "\\`",
	"[", `\[`, "]", `\]`, "#", `\#`, "&", `\&`, "<", `\<`, ">", `\>`,
	"~", `\~`, "^", `\^`, "$", `\$`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

func serveAttachment(w http.ResponseWriter, r *http.Request, path, name string) {
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	http.ServeFile(w, r, path)
}

func fileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}
