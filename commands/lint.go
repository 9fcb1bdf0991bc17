package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/c360studio/streamdoc/extval"
	"github.com/c360studio/streamdoc/validate"
)

func (r *root) lintCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "lint FILE",
		Short: "Validate a pipeline configuration file",
		Long: `Lint checks a pipeline configuration for structural mistakes,
misspelled component names, unknown fields and expression anti-patterns.
Pass - to read from standard input. Exits non-zero when errors are found.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(args[0])
			if err != nil {
				return err
			}

			result := validate.Config(text)
			if r.cfg.Validator.Endpoint != "" {
				client := extval.NewClient(r.cfg.Validator.Endpoint, r.cfg.Validator.Timeout, r.logger)
				result = client.Merge(cmd.Context(), text, result)
			}

			if jsonOutput {
				if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
					return err
				}
			} else {
				printResult(cmd.OutOrStdout(), result)
			}

			if !result.Valid {
				return fmt.Errorf("%d error(s) found", len(result.Errors))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the result as JSON")
	return cmd
}

func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printResult(w io.Writer, result validate.Result) {
	for _, issue := range result.Errors {
		fmt.Fprintf(w, "error: %s: %s\n", issue.Path, issue.Message)
		if issue.Suggestion != "" {
			fmt.Fprintf(w, "  suggestion: %s\n", issue.Suggestion)
		}
	}
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
	if result.Valid {
		fmt.Fprintln(w, "configuration is valid")
	}
}
