package class

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlabel/openlabel/pkg/lock"
	"github.com/openlabel/openlabel/pkg/model"
)

// fakeClassificationStore mirrors fakeClassStore for classifications.
type fakeClassificationStore struct {
	rows   map[int64]model.DatasetClassification
	nextID int64
}

func newFakeClassificationStore() *fakeClassificationStore {
	return &fakeClassificationStore{rows: map[int64]model.DatasetClassification{}, nextID: 1}
}

func (s *fakeClassificationStore) FindByID(id int64) (*model.DatasetClassification, error) {
	dc, ok := s.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &dc, nil
}

func (s *fakeClassificationStore) FindByPage(pageNo, pageSize int, q Query) (*Page[model.DatasetClassification], error) {
	list, _ := s.FindAll(q.DatasetID)
	return &Page[model.DatasetClassification]{List: list, PageNo: pageNo, PageSize: pageSize, Total: int64(len(list))}, nil
}

func (s *fakeClassificationStore) FindAll(datasetID int64) ([]model.DatasetClassification, error) {
	var list []model.DatasetClassification
	for _, dc := range s.rows {
		if dc.DatasetID == datasetID {
			list = append(list, dc)
		}
	}
	return list, nil
}

func (s *fakeClassificationStore) NameExists(datasetID int64, name string, excludeID int64) (bool, error) {
	for _, dc := range s.rows {
		if dc.DatasetID == datasetID && dc.Name == name && dc.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeClassificationStore) Save(dc *model.DatasetClassification) error {
	if dc.ID == 0 {
		dc.ID = s.nextID
		s.nextID++
	}
	s.rows[dc.ID] = *dc
	return nil
}

func (s *fakeClassificationStore) Delete(id int64) error {
	delete(s.rows, id)
	return nil
}

const ontologyYAML = `
datasetId: 1
classes:
  - name: car
    color: "#ff0000"
    toolType: BOUNDING_BOX
    attributes:
      occluded: [true, false]
  - name: pedestrian
    color: "#00ff00"
    toolType: BOUNDING_BOX
classifications:
  - name: weather
    inputType: RADIO
    isRequired: true
`

func newTestLoader() (*Loader, *fakeClassStore, *fakeClassificationStore) {
	classes := newFakeClassStore()
	classifications := newFakeClassificationStore()
	locker := lock.NewMemoryLocker()
	loader := NewLoader(
		NewService(classes, locker, 50*time.Millisecond),
		NewClassificationService(classifications, locker, 50*time.Millisecond),
	)
	return loader, classes, classifications
}

func TestLoaderCreatesEntries(t *testing.T) {
	loader, classes, classifications := newTestLoader()

	result, err := loader.LoadFromReader(7, strings.NewReader(ontologyYAML))

	require.NoError(t, err)
	assert.Equal(t, 2, result.ClassesSaved)
	assert.Equal(t, 1, result.ClassificationsSaved)
	assert.Len(t, classes.rows, 2)
	assert.Len(t, classifications.rows, 1)
}

func TestLoaderReloadUpdatesInPlace(t *testing.T) {
	loader, classes, _ := newTestLoader()

	_, err := loader.LoadFromReader(7, strings.NewReader(ontologyYAML))
	require.NoError(t, err)

	edited := strings.Replace(ontologyYAML, `"#ff0000"`, `"#0000ff"`, 1)
	_, err = loader.LoadFromReader(7, strings.NewReader(edited))
	require.NoError(t, err)

	assert.Len(t, classes.rows, 2, "reload must not duplicate classes")
	var car model.DatasetClass
	for _, dc := range classes.rows {
		if dc.Name == "car" {
			car = dc
		}
	}
	assert.Equal(t, "#0000ff", car.Color)
}

func TestLoaderRequiresDatasetID(t *testing.T) {
	loader, _, _ := newTestLoader()

	_, err := loader.LoadFromReader(7, strings.NewReader("classes:\n  - name: car\n"))

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestLoaderRejectsMalformedYAML(t *testing.T) {
	loader, _, _ := newTestLoader()

	_, err := loader.LoadFromReader(7, strings.NewReader("datasetId: [not a scalar"))

	assert.Error(t, err)
}
