package annotation

//go:generate go run github.com/dmarkham/enumer -type SourceType -trimprefix SourceType -transform upper -json -output source_type.gen.go

// SourceType records the provenance of an annotation object.
type SourceType int

const (
	// SourceTypeManual marks objects drawn by a human editor.
	SourceTypeManual SourceType = iota
	// SourceTypeModel marks objects imported from a model run.
	SourceTypeModel
	// SourceTypeImported marks objects loaded from an external result file.
	SourceTypeImported
)
