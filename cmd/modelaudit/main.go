package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/modelaudit/modelaudit/cmd/modelaudit/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "modelaudit",
		Short: "modelaudit - structural analysis of trained neural-network model files",
		Long: `modelaudit inspects a trained model file (ONNX, TFLite, Keras, PyTorch),
produces a normalized structural summary of its layers, shapes, parameter
counts and connectivity, and emits heuristic architecture-quality
recommendations. Models are analyzed without ever being executed.`,
		Version: "1.0.0",
	}

	rootCmd.PersistentFlags().String("config", "", "Configuration file path")
	rootCmd.PersistentFlags().String("log-level", "info", "Logging level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Use JSON log format")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("json_logs", rootCmd.PersistentFlags().Lookup("json-logs"))

	rootCmd.AddCommand(commands.NewAnalyzeCommand())
	rootCmd.AddCommand(commands.NewFormatsCommand())
	rootCmd.AddCommand(commands.NewFetchCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
