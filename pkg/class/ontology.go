package class

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"

	"github.com/openlabel/openlabel/pkg/model"
)

// OntologyClass is one class entry in an ontology file.
type OntologyClass struct {
	Name       string         `yaml:"name"`
	Color      string         `yaml:"color"`
	ToolType   string         `yaml:"toolType"`
	Attributes map[string]any `yaml:"attributes"`
}

// OntologyClassification is one classification entry in an ontology file.
type OntologyClassification struct {
	Name       string         `yaml:"name"`
	InputType  string         `yaml:"inputType"`
	IsRequired bool           `yaml:"isRequired"`
	Attributes map[string]any `yaml:"attributes"`
}

// OntologyFile is the YAML shape consumed by Loader. Entries are matched to
// existing rows by name within the dataset, so loading the same file twice
// updates rather than duplicates.
type OntologyFile struct {
	DatasetID       int64                    `yaml:"datasetId"`
	Classes         []OntologyClass          `yaml:"classes"`
	Classifications []OntologyClassification `yaml:"classifications"`
}

// LoadResult summarizes what an ontology load changed.
type LoadResult struct {
	ClassesSaved         int `json:"classesSaved"`
	ClassificationsSaved int `json:"classificationsSaved"`
}

// Loader applies ontology files through the class and classification
// services, so loads contend on the same name locks as API saves.
type Loader struct {
	classes         *Service
	classifications *ClassificationService
}

// NewLoader creates a Loader over the given services.
func NewLoader(classes *Service, classifications *ClassificationService) *Loader {
	return &Loader{classes: classes, classifications: classifications}
}

// LoadFromReader parses an ontology file and saves its entries.
func (l *Loader) LoadFromReader(actor int64, r io.Reader) (*LoadResult, error) {
	var file OntologyFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse ontology file: %w", err)
	}
	if file.DatasetID == 0 {
		return nil, fmt.Errorf("%w: datasetId is required", ErrInvalidInput)
	}

	classIDs, classificationIDs, err := l.existingIDs(file.DatasetID)
	if err != nil {
		return nil, err
	}

	result := &LoadResult{}
	for _, c := range file.Classes {
		attrs, err := encodeAttributes(c.Attributes)
		if err != nil {
			return nil, err
		}
		dc := &model.DatasetClass{
			DatasetID:  file.DatasetID,
			Name:       c.Name,
			Color:      c.Color,
			ToolType:   c.ToolType,
			Attributes: attrs,
		}
		dc.ID = classIDs[c.Name]
		if err := l.classes.Save(actor, dc); err != nil {
			return nil, fmt.Errorf("failed to save class %q: %w", c.Name, err)
		}
		result.ClassesSaved++
	}

	for _, c := range file.Classifications {
		attrs, err := encodeAttributes(c.Attributes)
		if err != nil {
			return nil, err
		}
		dc := &model.DatasetClassification{
			DatasetID:  file.DatasetID,
			Name:       c.Name,
			InputType:  c.InputType,
			IsRequired: c.IsRequired,
			Attributes: attrs,
		}
		dc.ID = classificationIDs[c.Name]
		if err := l.classifications.Save(actor, dc); err != nil {
			return nil, fmt.Errorf("failed to save classification %q: %w", c.Name, err)
		}
		result.ClassificationsSaved++
	}

	return result, nil
}

// existingIDs maps current class and classification names to their IDs so
// repeated loads update in place.
func (l *Loader) existingIDs(datasetID int64) (map[string]int64, map[string]int64, error) {
	classes, err := l.classes.FindAll(datasetID)
	if err != nil {
		return nil, nil, err
	}
	classIDs := make(map[string]int64, len(classes))
	for _, c := range classes {
		classIDs[c.Name] = c.ID
	}

	classifications, err := l.classifications.FindAll(datasetID)
	if err != nil {
		return nil, nil, err
	}
	classificationIDs := make(map[string]int64, len(classifications))
	for _, c := range classifications {
		classificationIDs[c.Name] = c.ID
	}
	return classIDs, classificationIDs, nil
}

func encodeAttributes(attrs map[string]any) (datatypes.JSON, error) {
	if attrs == nil {
		return nil, nil
	}
	raw, err := json.Marshal(attrs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode attributes: %w", err)
	}
	return datatypes.JSON(raw), nil
}
