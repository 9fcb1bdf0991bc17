package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (r *root) askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask QUESTION",
		Short: "Ask a documentation question",
		Long: `Ask answers a question about pipeline configuration using the
indexed documentation as grounding. If the question contains a fenced
config block, lint findings and a corrected version are included.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")

			idx, err := r.buildIndex(cmd.Context())
			if err != nil {
				return fmt.Errorf("build index: %w", err)
			}

			answer, err := r.buildAnswerer(idx).Ask(cmd.Context(), question)
			if err != nil {
				return fmt.Errorf("ask: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, answer.Text)

			if answer.Validation != nil && !answer.Validation.Valid {
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Config findings:")
				printResult(out, *answer.Validation)
			}
			if answer.Fix != nil && len(answer.Fix.AppliedFixes) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Corrected config:")
				fmt.Fprintln(out, answer.Fix.CorrectedText)
			}
			if len(answer.Sources) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Sources:")
				for _, source := range answer.Sources {
					fmt.Fprintf(out, "  - %s\n", source)
				}
			}
			return nil
		},
	}
}
