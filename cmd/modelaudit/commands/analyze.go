package commands

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/modelaudit/modelaudit/pkg/analyzer"
	"github.com/modelaudit/modelaudit/pkg/report"
)

// NewAnalyzeCommand creates the analyze command: run the full pipeline on one
// model file and persist the JSON summary.
func NewAnalyzeCommand() *cobra.Command {
	var (
		outputPath string
		pretty     bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <model-file>",
		Short: "Analyze a model file and write its structural summary",
		Long: `Analyze normalizes the model file into a canonical graph, aggregates layer
statistics, evaluates the architecture advisory rules and writes the combined
summary as JSON. On any error no output file is produced.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := LoadConfig(); err != nil {
				return err
			}
			if err := SetupLogging(); err != nil {
				return err
			}

			modelPath := args[0]
			log := logrus.WithFields(logrus.Fields{
				"run_id": uuid.New().String(),
				"file":   modelPath,
			})
			log.Info("starting model analysis")

			doc, err := analyzer.Run(modelPath, outputPath)
			if err != nil {
				log.WithError(err).Error("analysis failed")
				return err
			}

			if pretty {
				report.Render(os.Stdout, doc)
			}
			log.WithField("output", outputPath).Info("analysis complete")
			fmt.Printf("Analysis written to: %s\n", outputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "model_summary.json", "Path for the JSON summary")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Print a human-readable summary to stdout")
	return cmd
}
