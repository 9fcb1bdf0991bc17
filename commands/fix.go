package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/c360studio/streamdoc/autofix"
)

func (r *root) fixCmd() *cobra.Command {
	var (
		write      bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "fix FILE",
		Short: "Rewrite high-confidence mistakes in a configuration file",
		Long: `Fix rewrites misspelled component names, key synonyms and renamed
expression functions where the correction is unambiguous, and reports
ambiguous names as suggestions without touching them. The corrected text
goes to standard output unless -w rewrites the file in place.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if write && path == "-" {
				return fmt.Errorf("-w requires a file path")
			}

			text, err := readInput(path)
			if err != nil {
				return err
			}

			result := autofix.Apply(text)

			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), result)
			}

			for _, applied := range result.AppliedFixes {
				fmt.Fprintf(cmd.ErrOrStderr(), "fixed: %s\n", applied)
			}
			for _, suggestion := range result.SuggestedFixes {
				fmt.Fprintf(cmd.ErrOrStderr(), "ambiguous: %q may be one of %v\n",
					suggestion.Original, suggestion.Targets)
			}

			if write {
				if result.CorrectedText == text {
					return nil
				}
				info, err := os.Stat(path)
				if err != nil {
					return fmt.Errorf("stat %s: %w", path, err)
				}
				if err := os.WriteFile(path, []byte(result.CorrectedText), info.Mode().Perm()); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
				return nil
			}

			fmt.Fprint(cmd.OutOrStdout(), result.CorrectedText)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "Rewrite the file in place")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the result as JSON")
	return cmd
}
