// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/creachadair/tablejson"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

const (
	defaultConfigFile = "tablejson.yaml"
	envPrefix         = "TABLEJSON_"
)

// Config holds the settings of the command-line tool.
type Config struct {
	LogLevel string   // logrus level name
	Reserved []string // field names the reader skips
	Output   string   // "table" or "text"

	File string // the config file loaded, if any
}

// loadConfig loads configuration from defaults, a config file, environment
// variables, and flags, each overriding the ones before. If cfgFile is empty,
// tablejson.yaml in the working directory is used if it exists. Only flags
// that were explicitly set are applied.
func loadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]any{
		"log_level": "warn",
		"reserved":  tablejson.DefaultReserved(),
		"output":    "table",
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if cfgFile == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			cfgFile = defaultConfigFile
		}
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", cfgFile, err)
		}
	}

	// TABLEJSON_LOG_LEVEL -> log_level
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	cfg := &Config{
		LogLevel: k.String("log_level"),
		Reserved: stringList(k.Get("reserved")),
		Output:   k.String("output"),
		File:     cfgFile,
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	switch c.Output {
	case "table", "text":
	default:
		return fmt.Errorf("invalid output %q (want table or text)", c.Output)
	}
	return nil
}

// newLogger returns a logger writing to w at the configured level.
func (c *Config) newLogger(w io.Writer) *logrus.Logger {
	lg := logrus.New()
	lg.SetOutput(w)
	if lvl, err := logrus.ParseLevel(c.LogLevel); err == nil {
		lg.SetLevel(lvl)
	}
	return lg
}

// stringList converts a configured list value, which is a YAML sequence in a
// config file but a comma-separated string in the environment, to a slice.
func stringList(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, len(t))
		for i, s := range t {
			out[i] = fmt.Sprint(s)
		}
		return out
	case string:
		if t == "" {
			return []string{}
		}
		parts := strings.Split(t, ",")
		for i, p := range parts {
			parts[i] = strings.TrimSpace(p)
		}
		return parts
	case nil:
		return nil
	}
	return []string{fmt.Sprint(v)}
}
