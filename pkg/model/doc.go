// Package model defines the database models for openlabel.
//
// This package contains GORM models that map to the openlabel PostgreSQL
// schema. JSON payloads (annotation geometry, class attribute trees) are
// stored as jsonb columns via gorm.io/datatypes.
//
// # Core Models
//
//   - AnnotationObject: one labeled shape on a data item
//   - DataAnnotation: classification answers recorded on a data item
//   - DatasetClass: per-dataset labeling class definition
//   - DatasetClassification: per-dataset classification definition
//   - ModelRun: one invocation of an external detection model
//   - DataEditLock: editor-session lock on a data item
package model
