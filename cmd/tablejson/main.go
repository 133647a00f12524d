// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Program tablejson inspects and produces type-tagged entity documents.
//
// Usage:
//
//	tablejson scan FILE       # list the tokens of a document
//	tablejson decode FILE     # print the metadata and properties of a document
//	tablejson encode FILE     # encode a YAML or HuJSON property list
//	tablejson roundtrip FILE  # check that a document re-encodes losslessly
//
// A FILE of "-" reads standard input. Settings are read from tablejson.yaml
// (or the file named by --config), then TABLEJSON_* environment variables,
// then flags.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "tablejson: %v\n", err)
		os.Exit(1)
	}
}

// tool carries the settings shared by all the subcommands.
type tool struct {
	cfgFile string
	cfg     *Config
	log     *logrus.Logger
}

func newRootCmd() *cobra.Command {
	t := new(tool)
	root := &cobra.Command{
		Use:   "tablejson",
		Short: "Inspect and produce type-tagged entity documents",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(t.cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			t.cfg = cfg
			t.log = cfg.newLogger(cmd.ErrOrStderr())
			if cfg.File != "" {
				t.log.WithField("file", cfg.File).Debug("loaded config file")
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&t.cfgFile, "config", "", "config file (default: ./tablejson.yaml)")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.StringSlice("reserved", nil, "field names to skip as document metadata")
	pf.StringP("output", "o", "", "output format (table|text)")

	root.AddCommand(
		&cobra.Command{
			Use:   "scan FILE",
			Short: "List the tokens of a document",
			Args:  cobra.ExactArgs(1),
			RunE:  t.runScan,
		},
		&cobra.Command{
			Use:   "decode FILE",
			Short: "Print the metadata and properties of a document",
			Args:  cobra.ExactArgs(1),
			RunE:  t.runDecode,
		},
		&cobra.Command{
			Use:   "encode FILE",
			Short: "Encode a property list written in YAML or HuJSON",
			Args:  cobra.ExactArgs(1),
			RunE:  t.runEncode,
		},
		&cobra.Command{
			Use:   "roundtrip FILE",
			Short: "Check that a document decodes and re-encodes losslessly",
			Args:  cobra.ExactArgs(1),
			RunE:  t.runRoundTrip,
		},
	)
	return root
}

// readInput reads the named file, or standard input if name is "-".
func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(name)
}
