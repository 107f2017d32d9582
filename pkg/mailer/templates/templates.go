package templates

import (
	"embed"
	"fmt"
	htmpl "html/template"
	"io"
	"strings"
	"sync"
	texttpl "text/template"
)

//go:embed *.tmpl
var files embed.FS

// Template names
const (
	Welcome = "welcome"
)

var funcs = map[string]any{
	"upper":   strings.ToUpper,
	"default": defaultFn,
}

// defaultFn supports pipe usage: {{ .Value | default "Fallback" }}
func defaultFn(fallback any, value any) any {
	switch x := value.(type) {
	case nil:
		return fallback
	case string:
		if strings.TrimSpace(x) == "" {
			return fallback
		}
	}
	return value
}

// Subjects and plain-text bodies use text/template; HTML bodies are escaped by html/template.
var (
	loadOnce sync.Once
	textSet  *texttpl.Template
	htmlSet  *htmpl.Template
	loadErr  error
)

func load() error {
	loadOnce.Do(func() {
		textSet, loadErr = texttpl.New("").Funcs(texttpl.FuncMap(funcs)).ParseFS(files, "*.subject.tmpl", "*.text.tmpl")
		if loadErr != nil {
			return
		}
		htmlSet, loadErr = htmpl.New("").Funcs(htmpl.FuncMap(funcs)).ParseFS(files, "*.html.tmpl")
	})
	return loadErr
}

type executor interface {
	ExecuteTemplate(w io.Writer, name string, data any) error
}

func execute(set executor, name string, data any) (string, error) {
	var sb strings.Builder
	if err := set.ExecuteTemplate(&sb, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return sb.String(), nil
}

// Render returns the subject, text and html parts of the named email.
// The template set holds <name>.subject.tmpl, <name>.text.tmpl and <name>.html.tmpl.
func Render(name string, data any) (subject, text, html string, err error) {
	if err = load(); err != nil {
		return "", "", "", err
	}
	if textSet.Lookup(name+".subject.tmpl") == nil {
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}
	if subject, err = execute(textSet, name+".subject.tmpl", data); err != nil {
		return "", "", "", err
	}
	if text, err = execute(textSet, name+".text.tmpl", data); err != nil {
		return "", "", "", err
	}
	if html, err = execute(htmlSet, name+".html.tmpl", data); err != nil {
		return "", "", "", err
	}
	return strings.TrimSpace(subject), text, html, nil
}
