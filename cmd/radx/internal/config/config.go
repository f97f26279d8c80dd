// Package config defines the global CLI configuration shared by every radx
// subcommand.
package config

import "fmt"

// OutputFormat selects how a command renders its results.
type OutputFormat string

const (
	// FormatTable renders results as an aligned text table.
	FormatTable OutputFormat = "table"
	// FormatJSON renders results as indented JSON.
	FormatJSON OutputFormat = "json"
)

// UnmarshalText lets kong populate an OutputFormat flag directly, rejecting
// any value other than the two known formats.
func (f *OutputFormat) UnmarshalText(text []byte) error {
	switch OutputFormat(text) {
	case FormatTable, FormatJSON:
		*f = OutputFormat(text)
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want %q or %q)", text, FormatTable, FormatJSON)
	}
}

// GlobalConfig holds flags common to every radx subcommand. It is embedded
// into the root CLI struct so kong parses it once and every command's Run
// receives the result.
type GlobalConfig struct {
	Debug     bool         `name:"debug" help:"Enable debug logging" env:"RADX_DEBUG"`
	LogLevel  string       `name:"log-level" default:"info" enum:"trace,debug,info,warn,error,fatal" help:"Logging verbosity" env:"RADX_LOG_LEVEL"`
	Pretty    bool         `name:"pretty" default:"true" negatable:"" help:"Use human-readable log output instead of JSON"`
	Format    OutputFormat `name:"format" default:"table" help:"Output format (table or json)"`
	OutputDir string       `name:"output-dir" default:"." type:"path" help:"Directory to write extracted artifacts to"`
}
