package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/aledsdavies/clicake/internal/logging"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/spf13/pflag"
	"github.com/zclconf/go-cty/cty"
)

// configEnvVar names the config file when --config is not given
const configEnvVar = "CLICAKE_CONFIG"

// fileConfig is the schema of a clicake HCL config file:
//
//	log_level  = "debug"
//	log_format = "json"
//	print      = true
//	color      = false
//
//	alias "hello" {
//	  target = "echo"
//	  args   = ["Hello", env.USER, "--capitalize"]
//	}
//
// Every environment variable is available as env.NAME.
type fileConfig struct {
	LogLevel  *string      `hcl:"log_level,optional"`
	LogFormat *string      `hcl:"log_format,optional"`
	Print     *bool        `hcl:"print,optional"`
	Color     *bool        `hcl:"color,optional"`
	Aliases   []aliasBlock `hcl:"alias,block"`
}

type aliasBlock struct {
	Name   string   `hcl:"name,label"`
	Target string   `hcl:"target"`
	Args   []string `hcl:"args,optional"`
}

// alias runs a target with leading arguments
type alias struct {
	Target string
	Args   []string
}

// settings are the resolved CLI settings: flag > file > default
type settings struct {
	LogLevel  string
	LogFormat string
	Print     bool
	NoColor   bool
	Aliases   map[string]alias
}

// flagValues holds the persistent flags bound on the root command
type flagValues struct {
	config    string
	logLevel  string
	logFormat string
	noPrint   bool
	noColor   bool
}

func defaultSettings() settings {
	return settings{
		LogLevel:  "warn",
		LogFormat: "text",
		Print:     true,
		Aliases:   map[string]alias{},
	}
}

// loadConfigFile parses and decodes an HCL config file.
func loadConfigFile(path string, environ []string) (*fileConfig, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, &CLIError{
			Type:    "config",
			Message: fmt.Sprintf("failed to read config %s", path),
			Details: err.Error(),
			Hint:    "Pass an existing file with --config or unset " + configEnvVar,
		}
	}
	return parseConfig(src, path, environ)
}

func parseConfig(src []byte, filename string, environ []string) (*fileConfig, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, configError(filename, diags)
	}

	var cfg fileConfig
	diags = gohcl.DecodeBody(file.Body, evalContext(environ), &cfg)
	if diags.HasErrors() {
		return nil, configError(filename, diags)
	}

	seen := make(map[string]bool, len(cfg.Aliases))
	for _, a := range cfg.Aliases {
		if seen[a.Name] {
			return nil, &CLIError{
				Type:    "config",
				Message: fmt.Sprintf("invalid config %s", filename),
				Details: fmt.Sprintf("alias %q is declared twice", a.Name),
			}
		}
		seen[a.Name] = true
	}
	return &cfg, nil
}

func configError(filename string, diags hcl.Diagnostics) error {
	return &CLIError{
		Type:    "config",
		Message: fmt.Sprintf("invalid config %s", filename),
		Details: diags.Error(),
	}
}

// evalContext exposes the process environment to config expressions as env.
func evalContext(environ []string) *hcl.EvalContext {
	env := make(map[string]cty.Value, len(environ))
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		env[name] = cty.StringVal(value)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(env),
		},
	}
}

// resolveSettings layers changed flags over the config file over defaults.
func resolveSettings(flags *pflag.FlagSet, fv flagValues, environ []string) (settings, error) {
	s := defaultSettings()

	path := fv.config
	if path == "" {
		path = lookupEnv(environ, configEnvVar)
	}
	if path != "" {
		cfg, err := loadConfigFile(path, environ)
		if err != nil {
			return s, err
		}
		s.apply(cfg)
	}

	if flags.Changed("log-level") {
		s.LogLevel = fv.logLevel
	}
	if flags.Changed("log-format") {
		s.LogFormat = fv.logFormat
	}
	if flags.Changed("no-print") {
		s.Print = !fv.noPrint
	}
	if flags.Changed("no-color") {
		s.NoColor = fv.noColor
	}

	if _, err := logging.ParseLevel(s.LogLevel); err != nil {
		return s, &CLIError{Type: "usage", Message: err.Error(), Hint: "Use --log-level debug|info|warn|error"}
	}
	if err := logging.ValidateFormat(s.LogFormat); err != nil {
		return s, &CLIError{Type: "usage", Message: err.Error(), Hint: "Use --log-format text|json"}
	}
	return s, nil
}

func (s *settings) apply(cfg *fileConfig) {
	if cfg.LogLevel != nil {
		s.LogLevel = *cfg.LogLevel
	}
	if cfg.LogFormat != nil {
		s.LogFormat = *cfg.LogFormat
	}
	if cfg.Print != nil {
		s.Print = *cfg.Print
	}
	if cfg.Color != nil {
		s.NoColor = !*cfg.Color
	}
	for _, a := range cfg.Aliases {
		s.Aliases[a.Name] = alias{Target: a.Target, Args: a.Args}
	}
}

func lookupEnv(environ []string, name string) string {
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok && k == name {
			return v
		}
	}
	return ""
}
