// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "go-intranet-admin",
	Short: "GoIntranet-Admin is the administration backend of the corporate intranet",
	Long: `GoIntranet-Admin is the administration backend of the corporate intranet.
It manages the navigation tree (modules and tabs), the role assignments that
make parts of that tree reachable, and the audit trail of every assignment
change.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
