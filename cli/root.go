// Package cli implements the skema command line: inspecting registered
// schemas, validating JSON/YAML documents and serving validations over HTTP.
package cli

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/reoring/skema"
	"github.com/reoring/skema/i18n"
	"github.com/reoring/skema/internal/logging"
)

// ErrValidationFailed is returned by the validate command when the document
// has issues. The issues themselves are already written to stdout.
var ErrValidationFailed = errors.New("validation failed")

type app struct {
	reg      *skema.Registry
	lang     string
	logLevel string
	logger   *slog.Logger
}

// NewRootCommand builds the command tree over reg.
func NewRootCommand(reg *skema.Registry) *cobra.Command {
	a := &app{reg: reg}
	root := &cobra.Command{
		Use:           "skema",
		Short:         "Validate documents against registered schemas",
		Long:          `skema validates JSON and YAML documents against schemas registered in code, prints their structural description, and serves validations over HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.logger = logging.NewWithWriter(cmd.ErrOrStderr(), logging.ParseLevel(a.logLevel))
		},
	}
	root.PersistentFlags().StringVar(&a.lang, "lang", "en", "Issue message language (en|ja)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "Log level (debug|info|warn|error)")

	root.AddCommand(a.listCommand(), a.schemaCommand(), a.validateCommand(), a.serveCommand())
	return root
}

func (a *app) validator(opts ...skema.Option) *skema.Validator {
	logger := a.logger
	if logger == nil {
		logger = logging.NewNop()
	}
	base := []skema.Option{
		skema.WithLogger(logger),
		skema.WithTranslator(i18n.Dictionary(a.lang)),
	}
	return skema.NewValidator(append(base, opts...)...)
}

func (a *app) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered schemas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range a.reg.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func (a *app) schemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema NAME",
		Short: "Print the structural description of a schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.reg.Lookup(args[0])
			if err != nil {
				return err
			}
			out, err := indentJSON(s.JSONSchema())
			if err != nil {
				return fmt.Errorf("rendering schema: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func indentJSON(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return "", err
	}
	return buf.String(), nil
}
