// Package prompt loads and renders the system/user prompt templates sent to the LLM.
package prompt

import (
	"bytes"
	_ "embed"
	"os"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrTemplateNotFound is returned when a template set has no usable entry for a summarizer.
var ErrTemplateNotFound = errors.New("prompt template not found")

//go:embed prompts.yaml
var defaultPrompts []byte

// Template is one system/user prompt pair.
type Template struct {
	System string `yaml:"system"`
	User   string `yaml:"user"`
}

// Set holds the templates of both summarizers.
type Set struct {
	PRSummary     Template `yaml:"pr_summary"`
	WeeklySummary Template `yaml:"weekly_summary"`
}

// Default returns the embedded templates.
func Default() (Set, error) {
	var set Set
	if err := yaml.Unmarshal(defaultPrompts, &set); err != nil {
		return Set{}, errors.Wrap(err, "failed to parse embedded prompts")
	}
	return set, nil
}

// Load reads an override file. Sections missing from it keep the embedded defaults.
// An empty path returns the defaults.
func Load(path string) (Set, error) {
	set, err := Default()
	if err != nil || path == "" {
		return set, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Set{}, errors.Wrapf(err, "failed to read prompts file %s", path)
	}

	var override Set
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Set{}, errors.Wrapf(err, "failed to parse prompts file %s", path)
	}
	set.PRSummary = merge(set.PRSummary, override.PRSummary)
	set.WeeklySummary = merge(set.WeeklySummary, override.WeeklySummary)

	return set, nil
}

func merge(base, override Template) Template {
	if override.System != "" {
		base.System = override.System
	}
	if override.User != "" {
		base.User = override.User
	}
	return base
}

// Render executes both templates against vars. Referencing a variable absent from vars is an error.
func (t Template) Render(vars map[string]any) (string, string, error) {
	if t.System == "" || t.User == "" {
		return "", "", ErrTemplateNotFound
	}

	system, err := render("system", t.System, vars)
	if err != nil {
		return "", "", err
	}
	user, err := render("user", t.User, vars)
	if err != nil {
		return "", "", err
	}
	return system, user, nil
}

func render(name, text string, vars map[string]any) (string, error) {
	tmpl, err := template.New(name).
		Funcs(sprig.TxtFuncMap()).
		Option("missingkey=error").
		Parse(text)
	if err != nil {
		return "", errors.Wrapf(err, "failed to parse %s prompt", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", errors.Wrapf(err, "failed to render %s prompt", name)
	}
	return buf.String(), nil
}
