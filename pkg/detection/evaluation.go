package detection

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/openlabel/openlabel/pkg/annotation"
)

// EvalObject is one box in a metrics export line, with the box expressed as
// its top-left and bottom-right corners.
type EvalObject struct {
	ClassID      string   `json:"classId"`
	ClassName    string   `json:"className"`
	Confidence   *float64 `json:"confidence,omitempty"`
	LeftTopX     float64  `json:"leftTopX"`
	LeftTopY     float64  `json:"leftTopY"`
	RightBottomX float64  `json:"rightBottomX"`
	RightBottomY float64  `json:"rightBottomY"`
}

// EvalRecord is one line of a metrics export file: a data item and its boxes.
type EvalRecord struct {
	ID      int64        `json:"id"`
	Objects []EvalObject `json:"objects"`
}

// EvaluationWriter exports ground-truth and model-run boxes for metrics
// calculation as line-delimited JSON, one file per side, one line per data
// item.
type EvaluationWriter struct {
	groundTruthPath string
	modelRunPath    string
}

// NewEvaluationWriter creates a writer appending to the two given files.
func NewEvaluationWriter(groundTruthPath, modelRunPath string) *EvaluationWriter {
	return &EvaluationWriter{groundTruthPath: groundTruthPath, modelRunPath: modelRunPath}
}

// Append writes one record per side for a data item. Ground truth comes from
// the stored annotation objects; only bounding-box shapes are exported, and
// ground-truth boxes carry no confidence. Model-run boxes keep theirs.
func (w *EvaluationWriter) Append(dataID int64, groundTruth []annotation.Object, modelRun Result) error {
	gtRecord := EvalRecord{ID: dataID}
	for _, obj := range groundTruth {
		var attrs ResultObject
		if err := json.Unmarshal(obj.ClassAttributes, &attrs); err != nil {
			continue
		}
		if !strings.EqualFold(attrs.Type, ObjectTypeBoundingBox) {
			continue
		}
		eval := toEvalObject(attrs)
		eval.Confidence = nil
		gtRecord.Objects = append(gtRecord.Objects, eval)
	}

	runRecord := EvalRecord{ID: dataID}
	for _, obj := range modelRun.Objects {
		runRecord.Objects = append(runRecord.Objects, toEvalObject(obj))
	}

	if err := appendLine(w.groundTruthPath, gtRecord); err != nil {
		return err
	}
	return appendLine(w.modelRunPath, runRecord)
}

func toEvalObject(obj ResultObject) EvalObject {
	box := obj.BoundingBox
	confidence := obj.Confidence
	return EvalObject{
		ClassID:      obj.ClassID,
		ClassName:    obj.ClassName,
		Confidence:   &confidence,
		LeftTopX:     box.X,
		LeftTopY:     box.Y,
		RightBottomX: box.X + box.Width,
		RightBottomY: box.Y + box.Height,
	}
}

func appendLine(path string, record EvalRecord) error {
	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode evaluation record: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open evaluation file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to append evaluation record: %w", err)
	}
	return nil
}
