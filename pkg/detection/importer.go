package detection

import (
	"encoding/json"
	"fmt"

	"github.com/openlabel/openlabel/pkg/annotation"
)

// ObjectSaver is the slice of the reconciliation engine the importer needs.
type ObjectSaver interface {
	Insert(actor annotation.Actor, objects []annotation.Object) ([]annotation.Object, error)
}

// Importer lands converted detections through the reconciliation engine,
// tagged with MODEL provenance and the run that produced them.
type Importer struct {
	saver ObjectSaver
}

// NewImporter creates an Importer over the given reconciliation engine.
func NewImporter(saver ObjectSaver) *Importer {
	return &Importer{saver: saver}
}

// Import converts the raw response for one data item and persists the
// surviving detections as annotation objects. The import is additive: the
// detections are inserted without diffing stored state, so existing manual
// annotations on the data item are untouched (clearing them first is the
// caller's separate decision).
func (im *Importer) Import(runID, datasetID, dataID int64, resp *Response, filter *Filter) ([]annotation.Object, error) {
	result := Convert(resp, filter)
	if len(result.Objects) == 0 {
		return nil, nil
	}

	desired := make([]annotation.Object, 0, len(result.Objects))
	for _, obj := range result.Objects {
		attrs, err := json.Marshal(obj)
		if err != nil {
			return nil, fmt.Errorf("failed to encode class attributes: %w", err)
		}
		sourceID := runID
		desired = append(desired, annotation.Object{
			DatasetID:       datasetID,
			DataID:          dataID,
			ClassAttributes: attrs,
			SourceType:      annotation.SourceTypeModel,
			SourceID:        &sourceID,
		})
	}

	return im.saver.Insert(annotation.SystemActor, desired)
}
