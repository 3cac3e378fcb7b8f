// Package cli implements the bamic command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bamic-rtp-server/internal/domain"
	"github.com/bamic-rtp-server/internal/logging"
	"github.com/bamic-rtp-server/internal/service"
)

// NewRootCmd builds the bamic command tree
func NewRootCmd(version string) *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:   "bamic",
		Short: "Muscle injury severity scoring and return-to-play estimates",
		Long: `bamic scores a normalized muscle injury intake, classifies its
BAMIC-style structural grade and estimates the return-to-play window.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	newAssessor := func() (*service.AssessmentService, error) {
		logger, err := logging.New(logging.Options{Level: logLevel, Format: "text", Output: "stderr"})
		if err != nil {
			return nil, err
		}
		return service.NewAssessmentService(logger, service.WithStrictValidation(true)), nil
	}

	rootCmd.AddCommand(
		newEvaluateCmd(newAssessor),
		newScoreCmd(newAssessor),
		newGradeCmd(newAssessor),
		newRTPCmd(),
		newReferenceCmd(),
		newSetupCmd(),
	)

	return rootCmd
}

// Execute runs the command line and exits non-zero on failure
func Execute(version string) {
	if err := NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type assessorFactory func() (*service.AssessmentService, error)

func newEvaluateCmd(newAssessor assessorFactory) *cobra.Command {
	var (
		intake    intakeFlags
		outputFmt string
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Score, grade and estimate return to play for an intake",
		Example: `  bamic evaluate --muscle 1 --mechanism 1 --segment 1 --anatomic 1 --volume 3
  bamic evaluate --file intake.yaml --output json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := intake.record(cmd)
			if err != nil {
				return err
			}
			assessor, err := newAssessor()
			if err != nil {
				return err
			}

			result, err := assessor.Assess(cmd.Context(), record)
			if err != nil {
				return err
			}

			if outputFmt == "json" {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			return writeAssessment(cmd.OutOrStdout(), result)
		},
	}

	intake.register(cmd)
	cmd.Flags().StringVarP(&outputFmt, "output", "o", "text", "Output format: text or json")
	return cmd
}

func newScoreCmd(newAssessor assessorFactory) *cobra.Command {
	var (
		intake    intakeFlags
		outputFmt string
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Show the severity score with its per-term breakdown",
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := intake.record(cmd)
			if err != nil {
				return err
			}
			if err := domain.ValidateIntake(record); err != nil {
				return err
			}
			assessor, err := newAssessor()
			if err != nil {
				return err
			}

			result := assessor.Score(record)
			if outputFmt == "json" {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			return writeBreakdown(cmd.OutOrStdout(), result)
		},
	}

	intake.register(cmd)
	cmd.Flags().StringVarP(&outputFmt, "output", "o", "text", "Output format: text or json")
	return cmd
}

func newGradeCmd(newAssessor assessorFactory) *cobra.Command {
	var intake intakeFlags

	cmd := &cobra.Command{
		Use:   "grade",
		Short: "Classify the structural grade of an intake",
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := intake.record(cmd)
			if err != nil {
				return err
			}
			if err := domain.ValidateIntake(record); err != nil {
				return err
			}
			assessor, err := newAssessor()
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), assessor.Grade(record).Text)
			return nil
		},
	}

	intake.register(cmd)
	return cmd
}

func newRTPCmd() *cobra.Command {
	var (
		score     int
		outputFmt string
	)

	cmd := &cobra.Command{
		Use:   "rtp",
		Short: "Estimate the return-to-play window for a 0-100 score",
		RunE: func(cmd *cobra.Command, args []string) error {
			if score < 0 || score > 100 {
				return fmt.Errorf("score must be between 0 and 100, got %d", score)
			}

			estimate := service.EstimateReturnToPlay(score)
			if outputFmt == "json" {
				return writeJSON(cmd.OutOrStdout(), estimate)
			}
			fmt.Fprintln(cmd.OutOrStdout(), estimate.Text)
			return nil
		},
	}

	cmd.Flags().IntVar(&score, "score", 0, "Severity score (required)")
	cmd.Flags().StringVarP(&outputFmt, "output", "o", "text", "Output format: text or json")
	_ = cmd.MarkFlagRequired("score")
	return cmd
}

func newReferenceCmd() *cobra.Command {
	var outputFmt string

	cmd := &cobra.Command{
		Use:   "reference",
		Short: "Print the scoring weight tables and return-to-play bands",
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := service.ScoringReference()
			if outputFmt == "json" {
				return writeJSON(cmd.OutOrStdout(), ref)
			}
			return writeReference(cmd.OutOrStdout(), ref)
		},
	}

	cmd.Flags().StringVarP(&outputFmt, "output", "o", "text", "Output format: text or json")
	return cmd
}
