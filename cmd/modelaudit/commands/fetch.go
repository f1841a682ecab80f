package commands

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/modelaudit/modelaudit/pkg/downloader"
)

// NewFetchCommand creates the fetch command: download a model from
// HuggingFace Hub so it can be analyzed locally.
func NewFetchCommand() *cobra.Command {
	var (
		modelID    string
		outputPath string
		apiKey     string
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download a model from HuggingFace Hub for analysis",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := LoadConfig(); err != nil {
				return err
			}
			if err := SetupLogging(); err != nil {
				return err
			}

			if modelID == "" {
				return fmt.Errorf("--model is required")
			}
			// Flag wins over the environment.
			key := apiKey
			if key == "" {
				key = os.Getenv("HF_API_KEY")
			}

			logrus.WithFields(logrus.Fields{"model": modelID, "output": outputPath}).Info("downloading model")

			d := downloader.NewDownloader(downloader.NewHuggingFaceSource(key))
			result, err := d.Download(modelID, outputPath)
			if err != nil {
				return err
			}

			fmt.Println("Downloaded model files:")
			for _, p := range result.ModelPaths {
				fmt.Printf("  %s\n", p)
			}
			if len(result.ExtraPaths) > 0 {
				fmt.Println("Downloaded auxiliary files:")
				for _, p := range result.ExtraPaths {
					fmt.Printf("  %s\n", p)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&modelID, "model", "", "HuggingFace model ID (e.g. 'google/mobilenet_v2_1.0_224')")
	cmd.Flags().StringVarP(&outputPath, "output", "o", ".", "Output directory for downloaded files")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "Optional HuggingFace API key (or HF_API_KEY env var)")
	return cmd
}
