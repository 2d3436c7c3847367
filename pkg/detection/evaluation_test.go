package detection

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlabel/openlabel/pkg/annotation"
)

func readRecords(t *testing.T, path string) []EvalRecord {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var records []EvalRecord
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var record EvalRecord
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &record))
		records = append(records, record)
	}
	require.NoError(t, scanner.Err())
	return records
}

func storedBox(t *testing.T, obj ResultObject) annotation.Object {
	t.Helper()
	attrs, err := json.Marshal(obj)
	require.NoError(t, err)
	return annotation.Object{
		DatasetID:       1,
		DataID:          10,
		ClassAttributes: attrs,
		SourceType:      annotation.SourceTypeManual,
	}
}

func TestEvaluationWriterAppendsBothSides(t *testing.T) {
	dir := t.TempDir()
	gtPath := filepath.Join(dir, "gt.ndjson")
	runPath := filepath.Join(dir, "run.ndjson")
	w := NewEvaluationWriter(gtPath, runPath)

	groundTruth := []annotation.Object{
		storedBox(t, buildObject(detected("car", 0.9))),
	}
	modelRun := Result{DataID: 10, Objects: []ResultObject{buildObject(detected("truck", 0.7))}}

	require.NoError(t, w.Append(10, groundTruth, modelRun))
	require.NoError(t, w.Append(11, nil, Result{DataID: 11}))

	gt := readRecords(t, gtPath)
	require.Len(t, gt, 2)
	assert.Equal(t, int64(10), gt[0].ID)
	require.Len(t, gt[0].Objects, 1)
	assert.Nil(t, gt[0].Objects[0].Confidence, "ground truth carries no confidence")
	assert.Equal(t, 10.0, gt[0].Objects[0].LeftTopX)
	assert.Equal(t, 110.0, gt[0].Objects[0].RightBottomX)
	assert.Equal(t, 70.0, gt[0].Objects[0].RightBottomY)
	assert.Empty(t, gt[1].Objects)

	run := readRecords(t, runPath)
	require.Len(t, run, 2)
	require.Len(t, run[0].Objects, 1)
	require.NotNil(t, run[0].Objects[0].Confidence)
	assert.Equal(t, 0.7, *run[0].Objects[0].Confidence)
}

func TestEvaluationWriterSkipsNonBoxShapes(t *testing.T) {
	dir := t.TempDir()
	w := NewEvaluationWriter(filepath.Join(dir, "gt.ndjson"), filepath.Join(dir, "run.ndjson"))

	polygon := buildObject(detected("car", 0.9))
	polygon.Type = "POLYGON"
	box := buildObject(detected("car", 0.9))

	groundTruth := []annotation.Object{storedBox(t, polygon), storedBox(t, box)}
	require.NoError(t, w.Append(10, groundTruth, Result{DataID: 10}))

	gt := readRecords(t, filepath.Join(dir, "gt.ndjson"))
	require.Len(t, gt, 1)
	assert.Len(t, gt[0].Objects, 1)
}

func TestEvaluationWriterIgnoresUnparsableAttributes(t *testing.T) {
	dir := t.TempDir()
	w := NewEvaluationWriter(filepath.Join(dir, "gt.ndjson"), filepath.Join(dir, "run.ndjson"))

	groundTruth := []annotation.Object{{
		DataID:          10,
		ClassAttributes: json.RawMessage(`not json`),
	}}
	require.NoError(t, w.Append(10, groundTruth, Result{DataID: 10}))

	gt := readRecords(t, filepath.Join(dir, "gt.ndjson"))
	require.Len(t, gt, 1)
	assert.Empty(t, gt[0].Objects)
}
