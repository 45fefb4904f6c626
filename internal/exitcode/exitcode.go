// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, rejected input, unknown id format).
	UserError = 1

	// ConfigError indicates an unreadable config, token or settings file.
	ConfigError = 2

	// TransportError indicates a network failure or an unsuccessful API response.
	TransportError = 3
)
