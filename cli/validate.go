package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reoring/skema"
)

type validateFlags struct {
	format           string
	input            string
	maxDepth         int
	maxBytes         int64
	strictDuplicates bool
}

func (a *app) validateCommand() *cobra.Command {
	f := &validateFlags{}
	cmd := &cobra.Command{
		Use:   "validate NAME FILE|-",
		Short: "Validate a JSON or YAML document against a registered schema",
		Long: `Validates FILE (or stdin when FILE is "-") against the schema registered as NAME.
The input format follows the file extension (.yaml/.yml for YAML, JSON otherwise) unless --input is set.
Exits non-zero when the document has issues.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runValidate(cmd, f, args[0], args[1])
		},
	}
	cmd.Flags().StringVar(&f.format, "format", "text", "Output format (text|json)")
	cmd.Flags().StringVar(&f.input, "input", "", "Input format (json|yaml); detected from the file extension when empty")
	cmd.Flags().IntVar(&f.maxDepth, "max-depth", 0, "Maximum nesting depth of the input (0 = unlimited)")
	cmd.Flags().Int64Var(&f.maxBytes, "max-bytes", 0, "Maximum input size in bytes (0 = unlimited)")
	cmd.Flags().BoolVar(&f.strictDuplicates, "strict-duplicates", false, "Reject duplicate JSON object keys instead of logging them")
	return cmd
}

func (f *validateFlags) parseOpt(name string, v *skema.Validator) skema.ParseOpt {
	dup := skema.Warn
	if f.strictDuplicates {
		dup = skema.Error
	}
	return skema.ParseOpt{
		Strictness: skema.Strictness{OnDuplicateKey: dup},
		MaxDepth:   f.maxDepth,
		MaxBytes:   f.maxBytes,
		Name:       name,
		Validator:  v,
	}
}

func (a *app) runValidate(cmd *cobra.Command, f *validateFlags, name, path string) error {
	if f.format != "text" && f.format != "json" {
		return fmt.Errorf("unknown --format %q (want text or json)", f.format)
	}
	s, err := a.reg.Lookup(name)
	if err != nil {
		return err
	}
	data, err := readInput(cmd.InOrStdin(), path, f.maxBytes)
	if err != nil {
		return err
	}

	opt := f.parseOpt(name, a.validator())
	var res skema.Result
	switch inputFormat(f.input, path) {
	case "yaml":
		res = skema.ValidateYAML(cmd.Context(), s, data, opt)
	case "json":
		res = skema.ValidateJSON(cmd.Context(), s, data, opt)
	default:
		return fmt.Errorf("unknown --input %q (want json or yaml)", f.input)
	}

	if err := writeResult(cmd.OutOrStdout(), f.format, res); err != nil {
		return err
	}
	if !res.OK() {
		return fmt.Errorf("%w: %d issue(s)", ErrValidationFailed, len(res.Issues))
	}
	return nil
}

// readInput reads path, or stdin for "-". With a byte limit it reads one
// byte past the limit so the parser can report truncation.
func readInput(stdin io.Reader, path string, maxBytes int64) ([]byte, error) {
	var r io.Reader
	if path == "-" {
		r = stdin
	} else {
		fh, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening input: %w", err)
		}
		defer fh.Close()
		r = fh
	}
	if maxBytes > 0 {
		r = io.LimitReader(r, maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return data, nil
}

func inputFormat(flag, path string) string {
	if flag != "" {
		return strings.ToLower(flag)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

func writeResult(w io.Writer, format string, res skema.Result) error {
	if format == "json" {
		b, err := res.MarshalJSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	}
	if res.OK() {
		_, err := fmt.Fprintln(w, "valid")
		return err
	}
	fmt.Fprintf(w, "invalid: %d issue(s)\n", len(res.Issues))
	for _, it := range res.Issues {
		fmt.Fprintf(w, "  %s: %s", it.Pointer(), it.Message)
		if it.Code != "" {
			fmt.Fprintf(w, " (%s)", it.Code)
		}
		fmt.Fprintln(w)
	}
	return nil
}
