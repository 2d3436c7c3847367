package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// ontologyCmd represents the ontology command
var ontologyCmd = &cobra.Command{
	Use:   "ontology",
	Short: "Manage dataset ontologies",
	Long:  `Manage dataset class and classification ontologies.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'ontology' requires a subcommand (load)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(ontologyCmd)
}
