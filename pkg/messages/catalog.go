package messages

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"github.com/taiiii123/discord-billing-notify/pkg/alerts"
	"gopkg.in/yaml.v3"
)

//go:embed catalogs/*.yaml
var builtinFS embed.FS

// DefaultLocale is used when no locale is configured.
const DefaultLocale = "en"

// AlertMessages holds the status text for each alert level.
type AlertMessages struct {
	Free         string `yaml:"free"`
	WithinBudget string `yaml:"within_budget"`
	OverBudget   string `yaml:"over_budget"`
}

// Catalog holds the display strings of a notification.
// Templates use {start}, {end}, {amount}, {service}, {limit} and {message}
// placeholders.
type Catalog struct {
	Locale        string        `yaml:"locale"`
	Username      string        `yaml:"username"`
	Title         string        `yaml:"title"`
	Description   string        `yaml:"description"`
	ServiceLine   string        `yaml:"service_line"`
	BudgetField   string        `yaml:"budget_field"`
	ServicesField string        `yaml:"services_field"`
	BudgetValue   string        `yaml:"budget_value"`
	Alerts        AlertMessages `yaml:"alerts"`
}

// AlertMessage returns the status text for level, falling back to the
// level's English default when the catalog leaves it empty.
func (c *Catalog) AlertMessage(level alerts.AlertLevel) string {
	var msg string
	switch level {
	case alerts.AlertFree:
		msg = c.Alerts.Free
	case alerts.AlertWithinBudget:
		msg = c.Alerts.WithinBudget
	default:
		msg = c.Alerts.OverBudget
	}
	if msg == "" {
		return level.DefaultMessage()
	}
	return msg
}

// Render substitutes {key} placeholders in tmpl with the given pairs.
func Render(tmpl string, pairs ...string) string {
	args := make([]string, 0, len(pairs))
	for i := 0; i+1 < len(pairs); i += 2 {
		args = append(args, "{"+pairs[i]+"}", pairs[i+1])
	}
	return strings.NewReplacer(args...).Replace(tmpl)
}

// Load reads a YAML catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file %s: %w", path, err)
	}

	c, err := LoadFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("catalog file %s: %w", path, err)
	}
	return c, nil
}

// LoadFromBytes parses and validates YAML catalog data.
func LoadFromBytes(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog data: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Builtin returns one of the embedded catalogs.
func Builtin(locale string) (*Catalog, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	data, err := builtinFS.ReadFile("catalogs/" + locale + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("catalog %q not found", locale)
	}
	return LoadFromBytes(data)
}

func (c *Catalog) validate() error {
	switch {
	case c.Locale == "":
		return fmt.Errorf("missing locale")
	case c.Title == "":
		return fmt.Errorf("missing title template")
	case c.ServiceLine == "":
		return fmt.Errorf("missing service_line template")
	}
	return nil
}
