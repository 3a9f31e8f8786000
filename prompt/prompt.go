// Package prompt holds the system prompts, user-prompt builders, and turn
// templates of the report and discussion flows.
package prompt

import (
	"fmt"
	"strings"
	"text/template"
)

// Template is a named prompt template with variables.
type Template struct {
	Name     string
	Content  string
	template *template.Template
}

// NewTemplate parses a prompt template.
func NewTemplate(name, content string) (*Template, error) {
	tmpl, err := template.New(name).Parse(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	return &Template{
		Name:     name,
		Content:  content,
		template: tmpl,
	}, nil
}

// MustTemplate parses a template known at compile time.
func MustTemplate(name, content string) *Template {
	tmpl, err := NewTemplate(name, content)
	if err != nil {
		panic(err)
	}
	return tmpl
}

// Render renders the template with the given data.
func (t *Template) Render(data any) (string, error) {
	var buf strings.Builder
	if err := t.template.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", t.Name, err)
	}
	return buf.String(), nil
}
