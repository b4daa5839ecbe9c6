// Package cli implements the offline eatprofile command line tools.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"eatprofile/internal/model"
	"eatprofile/internal/questionnaire"
	"eatprofile/internal/report"
	"eatprofile/internal/scoring"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the eatprofile command tree
func NewRootCmd() *cobra.Command {
	var tablePath string

	root := &cobra.Command{
		Use:           "eatprofile",
		Short:         "Score eating profile questionnaires offline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&tablePath, "table", "", "Questionnaire YAML (default: embedded table)")

	root.AddCommand(
		newClassifyCmd(&tablePath),
		newRenderCmd(&tablePath),
		newCheckTableCmd(),
	)
	return root
}

func newClassifyCmd(tablePath *string) *cobra.Command {
	var answersPath string

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify an answers file and print the result as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, _, err := classifyFile(*tablePath, answersPath)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}

	cmd.Flags().StringVar(&answersPath, "answers", "", "JSON file with {answers, frequency}")
	cmd.MarkFlagRequired("answers")
	return cmd
}

func newRenderCmd(tablePath *string) *cobra.Command {
	var answersPath string
	var asHTML bool

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Classify an answers file and print the report",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, q, err := classifyFile(*tablePath, answersPath)
			if err != nil {
				return err
			}
			out, err := report.Render(q.Title, res)
			if err != nil {
				return err
			}
			if asHTML {
				fmt.Fprint(cmd.OutOrStdout(), out.HTML)
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), out.Text)
			return nil
		},
	}

	cmd.Flags().StringVar(&answersPath, "answers", "", "JSON file with {answers, frequency}")
	cmd.Flags().BoolVar(&asHTML, "html", false, "Print HTML instead of Markdown")
	cmd.MarkFlagRequired("answers")
	return cmd
}

func newCheckTableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-table FILE",
		Short: "Validate a questionnaire YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := questionnaire.Load(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d items OK\n", q.ID, len(q.Items))
			return nil
		},
	}
}

func classifyFile(tablePath, answersPath string) (*model.Result, *model.Questionnaire, error) {
	q, err := questionnaire.Load(tablePath)
	if err != nil {
		return nil, nil, err
	}
	engine, err := scoring.NewEngine(q)
	if err != nil {
		return nil, nil, err
	}

	data, err := os.ReadFile(answersPath)
	if err != nil {
		return nil, nil, fmt.Errorf("read answers: %w", err)
	}
	var sub model.Submission
	if err := json.Unmarshal(data, &sub); err != nil {
		return nil, nil, fmt.Errorf("parse answers: %w", err)
	}

	res, err := engine.Classify(sub.Answers, sub.Frequency)
	if err != nil {
		return nil, nil, err
	}
	return res, q, nil
}
