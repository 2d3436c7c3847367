package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/openlabel/openlabel/pkg/annotation"
	"github.com/openlabel/openlabel/pkg/class"
	"github.com/openlabel/openlabel/pkg/db"
)

// ontologyWatchCmd represents the ontology watch command
var ontologyWatchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Watch an ontology file and reload it when modified",
	Long: `Watch an ontology file and reload it when it changes.

Every write to the watched file triggers a reload, so editing the ontology
on disk keeps the dataset's classes and classifications in sync.

Example:
  labelctl ontology watch /run/openlabel/ontology.yml`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		filename := args[0]

		if err := watchOntology(filename); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to watch ontology: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	ontologyCmd.AddCommand(ontologyWatchCmd)
}

func watchOntology(filename string) error {
	database, err := db.Connect(db.Config{})
	if err != nil {
		return err
	}

	loader, err := newOntologyLoader(database)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filename); err != nil {
		return fmt.Errorf("failed to watch file %s: %w", filename, err)
	}

	fmt.Printf("Watching %s for ontology changes\n", filename)

	// Handle signals for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				fmt.Printf("[%s] File modified, reloading ontology...\n", time.Now().Format(time.RFC3339))

				if err := reloadOntology(loader, filename); err != nil {
					fmt.Fprintf(os.Stderr, "Error loading ontology: %v\n", err)
				} else {
					fmt.Printf("Ontology loaded successfully from %s\n", filename)
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
		case <-sigChan:
			fmt.Println("\nShutting down...")
			return nil
		}
	}
}

func reloadOntology(loader *class.Loader, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open ontology file: %w", err)
	}
	defer func() { _ = file.Close() }()

	_, err = loader.LoadFromReader(annotation.SystemActor.ID, file)
	return err
}
