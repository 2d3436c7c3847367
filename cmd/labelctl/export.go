package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/openlabel/openlabel/pkg/annotation"
	"github.com/openlabel/openlabel/pkg/config"
	"github.com/openlabel/openlabel/pkg/db"
	"github.com/openlabel/openlabel/pkg/detection"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <datasetId>",
	Short: "Export evaluation files for a dataset",
	Long: `Export ground-truth and model-run annotations for metrics calculation.

Two line-delimited JSON files are written: one with the dataset's manually
created bounding boxes and one with model-produced boxes, one line per data
item. Use --run to restrict the model side to a single run.

Example:
  labelctl export 42
  labelctl export 42 --run 7a75ef3c --out-dir /tmp/eval`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var datasetID int64
		if _, err := fmt.Sscanf(args[0], "%d", &datasetID); err != nil || datasetID == 0 {
			fmt.Fprintln(os.Stderr, "datasetId must be a positive integer")
			os.Exit(1)
		}

		outDir, _ := cmd.Flags().GetString("out-dir")
		serialNo, _ := cmd.Flags().GetString("run")

		if err := runEvaluationExport(datasetID, serialNo, outDir); err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("out-dir", "o", "", "Output directory (default: evaluation_dir from config)")
	exportCmd.Flags().StringP("run", "r", "", "Model run serial number (default: all runs)")
}

func runEvaluationExport(datasetID int64, serialNo, outDir string) error {
	if outDir == "" {
		outDir = config.Get().EvaluationDir
	}

	database, err := db.Connect(db.Config{})
	if err != nil {
		return err
	}

	var runID int64
	if serialNo != "" {
		run, err := detection.NewGormRunStore(database).FindBySerialNo(serialNo)
		if err != nil {
			return err
		}
		runID = run.ID
	}

	objects, err := annotation.NewGormStore(database).FindByDatasetID(datasetID)
	if err != nil {
		return err
	}

	writer := detection.NewEvaluationWriter(
		filepath.Join(outDir, fmt.Sprintf("dataset-%d-ground-truth.ndjson", datasetID)),
		filepath.Join(outDir, fmt.Sprintf("dataset-%d-model-run.ndjson", datasetID)),
	)

	groundTruth, modelRuns := splitByProvenance(objects, runID)
	exported := 0
	for _, dataID := range dataIDsOf(objects) {
		if err := writer.Append(dataID, groundTruth[dataID], modelRuns[dataID]); err != nil {
			return err
		}
		exported++
	}

	fmt.Printf("Exported %d data item(s) from dataset %d to %s\n", exported, datasetID, outDir)
	return nil
}

// splitByProvenance groups a dataset's objects per data item into the ground
// truth side (everything not produced by a model) and the model-run side.
func splitByProvenance(objects []annotation.Object, runID int64) (map[int64][]annotation.Object, map[int64]detection.Result) {
	groundTruth := make(map[int64][]annotation.Object)
	modelRuns := make(map[int64]detection.Result)
	for _, obj := range objects {
		if obj.SourceType != annotation.SourceTypeModel {
			groundTruth[obj.DataID] = append(groundTruth[obj.DataID], obj)
			continue
		}
		if runID != 0 && (obj.SourceID == nil || *obj.SourceID != runID) {
			continue
		}
		var attrs detection.ResultObject
		if err := json.Unmarshal(obj.ClassAttributes, &attrs); err != nil {
			continue
		}
		result := modelRuns[obj.DataID]
		result.DataID = obj.DataID
		result.Objects = append(result.Objects, attrs)
		modelRuns[obj.DataID] = result
	}
	return groundTruth, modelRuns
}

func dataIDsOf(objects []annotation.Object) []int64 {
	seen := make(map[int64]bool)
	var ids []int64
	for _, obj := range objects {
		if !seen[obj.DataID] {
			seen[obj.DataID] = true
			ids = append(ids, obj.DataID)
		}
	}
	return ids
}
