// Package prompts renders the system prompts sent along with agent requests.
package prompts

import (
	"bytes"
	"strings"
	"text/template"
)

// generateFromTemplate is a generic function that generates a prompt from any template and data.
func generateFromTemplate[T any](templateString string, data T) (string, error) {
	funcMap := template.FuncMap{
		"formatToolNames": formatToolNames,
	}

	tmpl, err := template.New("prompt").Funcs(funcMap).Parse(templateString)
	if err != nil {
		return "", err
	}
	var prompt bytes.Buffer
	if err := tmpl.Execute(&prompt, data); err != nil {
		return "", err
	}
	return prompt.String(), nil
}

// formatToolNames quotes the tool names and joins them with commas.
func formatToolNames(toolNames []string) string {
	quoted := make([]string, 0, len(toolNames))
	for _, name := range toolNames {
		quoted = append(quoted, "'"+name+"'")
	}
	return strings.Join(quoted, ", ")
}
