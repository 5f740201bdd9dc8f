package internal

import "io"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config     *Config
	version    string
	stdout     io.Writer
	synthesize bool
	dryRun     bool
	scanOnly   bool
	fillOnly   bool
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithVersion sets the version reported by the MCP server.
func WithVersion(v string) Option {
	return func(a *application) {
		a.version = v
	}
}

// WithOutput sets where the check command prints its console report.
func WithOutput(w io.Writer) Option {
	return func(a *application) {
		a.stdout = w
	}
}

// WithSynthesize enables placeholder synthesis for the check command,
// in addition to docs.synthesize in the configuration.
func WithSynthesize(enabled bool) Option {
	return func(a *application) {
		a.synthesize = enabled
	}
}

// WithDryRun makes the check command skip every write.
func WithDryRun(enabled bool) Option {
	return func(a *application) {
		a.dryRun = enabled
	}
}

// WithScanOnly makes the check command stop after scanning and print the
// module summaries.
func WithScanOnly(enabled bool) Option {
	return func(a *application) {
		a.scanOnly = enabled
	}
}

// WithFillOnly makes the check command synthesize placeholders and stop,
// skipping validation and the report file.
func WithFillOnly(enabled bool) Option {
	return func(a *application) {
		a.fillOnly = enabled
	}
}
