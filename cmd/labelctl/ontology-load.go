package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/openlabel/openlabel/pkg/annotation"
	"github.com/openlabel/openlabel/pkg/class"
	"github.com/openlabel/openlabel/pkg/config"
	"github.com/openlabel/openlabel/pkg/db"
	"github.com/openlabel/openlabel/pkg/lock"
)

// ontologyLoadCmd represents the ontology load command
var ontologyLoadCmd = &cobra.Command{
	Use:   "load <file>",
	Short: "Load an ontology file",
	Long: `Load a YAML ontology file into OpenLabel.

This command parses the ontology YAML and creates or updates the dataset's
classes and classifications. Entries are matched by name, so reloading an
edited file updates in place.

Example:
  labelctl ontology load ontology.yml`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		filename := args[0]

		result, err := loadOntologyFile(filename)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load ontology: %v\n", err)
			os.Exit(1)
		}

		// Output result as JSON
		output, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(output))
	},
}

func init() {
	ontologyCmd.AddCommand(ontologyLoadCmd)
}

func newOntologyLoader(database *gorm.DB) (*class.Loader, error) {
	sqlDB, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}

	cfg := config.Get()
	locker := lock.NewPostgresLocker(sqlDB)
	classes := class.NewService(class.NewGormStore(database), locker, cfg.LockTimeout())
	classifications := class.NewClassificationService(class.NewGormClassificationStore(database), locker, cfg.LockTimeout())
	return class.NewLoader(classes, classifications), nil
}

func loadOntologyFile(filename string) (*class.LoadResult, error) {
	database, err := db.Connect(db.Config{})
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open ontology file: %w", err)
	}
	defer func() { _ = file.Close() }()

	loader, err := newOntologyLoader(database)
	if err != nil {
		return nil, err
	}

	result, err := loader.LoadFromReader(annotation.SystemActor.ID, file)
	if err != nil {
		return nil, fmt.Errorf("failed to load ontology: %w", err)
	}

	fmt.Printf("Ontology loaded successfully from '%s'\n", filename)
	return result, nil
}
