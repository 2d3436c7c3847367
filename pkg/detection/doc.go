// Package detection integrates the external object-detection model service.
//
// The Client makes one HTTP call per data item. Convert filters the raw
// detections (inclusive confidence bounds, optional class allow-list) and
// reshapes survivors into the annotation tool's bounding-box format. The
// Importer then lands them through the reconciliation engine with MODEL
// provenance, never touching existing manual annotations.
//
// The EvaluationWriter exports ground-truth and model-run boxes as
// line-delimited JSON for offline metrics calculation.
package detection
