package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the bespon CLI version",
	RunE: func(cmd *cobra.Command, args []string) error {
		version := "dev"
		if v := os.Getenv("BESPON_VERSION"); v != "" {
			version = v
		}
		fmt.Printf("bespon version %s\n", version)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
