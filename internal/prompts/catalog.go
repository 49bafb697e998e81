// Package prompts renders the system and user prompts sent to the completion API.
// Templates live in prompts.yaml and are compiled once at startup.
package prompts

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var promptsFile []byte

// OutlineInput is the data behind an outline prompt
type OutlineInput struct {
	Topic    string
	ICP      string
	Style    string
	Keywords []string
	Feedback string
}

// ArticleInput is the data behind an article prompt
type ArticleInput struct {
	Title       string
	MainKeyword string
	KeyPoints   []string
	Topic       string
	ICP         string
	Style       string
	Keywords    []string
	Length      string
	SEO         string
	Citations   string
}

// Rendered is a ready-to-send prompt pair
type Rendered struct {
	System string
	User   string
}

type pair struct {
	System string `yaml:"system"`
	User   string `yaml:"user"`
}

type file struct {
	Outline         pair   `yaml:"outline"`
	Article         pair   `yaml:"article"`
	JSONInstruction string `yaml:"json_instruction"`
}

// Catalog holds the compiled templates. It is safe for concurrent use.
type Catalog struct {
	outlineSystem   *template.Template
	outlineUser     *template.Template
	articleSystem   *template.Template
	articleUser     *template.Template
	jsonInstruction string
}

var funcs = template.FuncMap{"join": strings.Join}

// Load compiles the embedded prompt file
func Load() (*Catalog, error) {
	return Parse(promptsFile)
}

// Parse compiles a prompt file in the prompts.yaml layout
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("unmarshal prompts: %w", err)
	}

	c := &Catalog{jsonInstruction: strings.TrimSpace(f.JSONInstruction)}
	for _, t := range []struct {
		name string
		src  string
		dst  **template.Template
	}{
		{"outline.system", f.Outline.System, &c.outlineSystem},
		{"outline.user", f.Outline.User, &c.outlineUser},
		{"article.system", f.Article.System, &c.articleSystem},
		{"article.user", f.Article.User, &c.articleUser},
	} {
		if strings.TrimSpace(t.src) == "" {
			return nil, fmt.Errorf("prompt %s is empty", t.name)
		}
		tmpl, err := template.New(t.name).Funcs(funcs).Option("missingkey=error").Parse(t.src)
		if err != nil {
			return nil, fmt.Errorf("parse prompt %s: %w", t.name, err)
		}
		*t.dst = tmpl
	}
	return c, nil
}

// Outline renders the outline prompts
func (c *Catalog) Outline(in OutlineInput) (*Rendered, error) {
	return c.render(c.outlineSystem, c.outlineUser, in)
}

// Article renders the article prompts
func (c *Catalog) Article(in ArticleInput) (*Rendered, error) {
	return c.render(c.articleSystem, c.articleUser, in)
}

// JSONInstruction is appended to the system prompt for models without a native JSON mode
func (c *Catalog) JSONInstruction() string {
	return c.jsonInstruction
}

func (c *Catalog) render(system, user *template.Template, data any) (*Rendered, error) {
	var sys, usr strings.Builder
	if err := system.Execute(&sys, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", system.Name(), err)
	}
	if err := user.Execute(&usr, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", user.Name(), err)
	}
	return &Rendered{System: strings.TrimSpace(sys.String()), User: usr.String()}, nil
}
