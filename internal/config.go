package internal

import (
	"fmt"
	"log/slog"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/tiwaz/internal/models"
	"github.com/starford/tiwaz/internal/project"
	"github.com/starford/tiwaz/internal/report"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

var projectCodeRe = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Docs    DocsConfig        `yaml:"docs"`
	Project ProjectConfig     `yaml:"project"`
	SQLite  SQLiteConfig      `yaml:"sqlite"`
	Auth    AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Docs.Validate(); err != nil {
		return err
	}
	if err := c.Project.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// DocsConfig describes the document root and the modules managed in it.
//
// Modules lists category names; each is looked up in the directory
// "<ProjectCode>-<category>" under Root.
type DocsConfig struct {
	Root        string   `yaml:"root"`
	ProjectCode string   `yaml:"project_code"`
	Modules     []string `yaml:"modules"`
	ReportDir   string   `yaml:"report_dir"`
	Synthesize  bool     `yaml:"synthesize"`
}

// Validate validates the docs configuration.
func (c *DocsConfig) Validate() error {
	known := make([]interface{}, 0, len(models.Categories()))
	for _, cat := range models.Categories() {
		known = append(known, string(cat))
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Root, validation.Required),
		validation.Field(&c.ProjectCode, validation.Required, validation.Match(projectCodeRe)),
		validation.Field(&c.Modules, validation.Required, validation.Each(validation.In(known...))),
		validation.Field(&c.ReportDir, validation.Required),
	)
}

// Categories returns the configured modules as categories. Call after Validate.
func (c *DocsConfig) Categories() []models.Category {
	out := make([]models.Category, 0, len(c.Modules))
	for _, m := range c.Modules {
		out = append(out, models.Category(m))
	}
	return out
}

// ProjectConfig points at the project manifest used for synthesized headers.
type ProjectConfig struct {
	Manifest string `yaml:"manifest"`
}

// Validate validates the project configuration.
func (c *ProjectConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Manifest, validation.Required),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration for serve mode.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	modules := make([]string, 0, len(models.Categories()))
	for _, cat := range models.Categories() {
		modules = append(modules, string(cat))
	}
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Docs: DocsConfig{
			Root:        "./docs",
			ProjectCode: "PRJ",
			Modules:     modules,
			ReportDir:   report.DefaultDir,
		},
		Project: ProjectConfig{
			Manifest: project.DefaultManifest,
		},
		SQLite: SQLiteConfig{
			Path: "./tiwaz.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
