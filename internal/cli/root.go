package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd assembles the dagcore CLI's command tree.
func NewRootCmd() *cobra.Command {
	var configPath string
	var toolAddr string

	root := &cobra.Command{
		Use:   "dagcore",
		Short: "Run and resume tool-routing workflow DAGs",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a dagcore config file (optional)")
	root.PersistentFlags().StringVar(&toolAddr, "tool-addr", "localhost:7070", "address of the downstream tool gRPC server")

	root.AddCommand(newRunCmd(&configPath, &toolAddr))
	root.AddCommand(newResumeCmd(&configPath, &toolAddr))

	return root
}
