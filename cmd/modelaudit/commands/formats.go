package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modelaudit/modelaudit/pkg/analyzer"
)

// NewFormatsCommand creates the formats command: list the registered model
// file formats.
func NewFormatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported model file formats",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("Supported formats:")
			for _, f := range analyzer.Formats() {
				fmt.Printf("  %s\n", f)
			}
		},
	}
}
