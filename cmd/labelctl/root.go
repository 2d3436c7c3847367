package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "labelctl",
	Short: "OpenLabel annotation platform server and tooling",
	Long:  `labelctl runs the OpenLabel annotation server and manages its database and ontologies.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
