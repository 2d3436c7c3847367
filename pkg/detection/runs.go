package detection

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openlabel/openlabel/pkg/model"
)

// Run statuses.
const (
	RunStatusRunning = "RUNNING"
	RunStatusDone    = "DONE"
	RunStatusFailed  = "FAILED"
)

// ErrRunNotFound is returned when no run matches the given serial number.
var ErrRunNotFound = errors.New("model run not found")

// RunStore records model invocations so imported objects can point back at
// the run that produced them.
type RunStore interface {
	// Create persists a new run in RUNNING state and assigns its serial number.
	Create(datasetID int64, modelName string, createdBy int64) (*model.ModelRun, error)

	// FindBySerialNo returns the run or ErrRunNotFound.
	FindBySerialNo(serialNo string) (*model.ModelRun, error)

	// SetStatus updates the run's status.
	SetStatus(id int64, status string) error
}

// Ensure GormRunStore implements RunStore
var _ RunStore = (*GormRunStore)(nil)

// GormRunStore implements RunStore using GORM.
type GormRunStore struct {
	db *gorm.DB
}

// NewGormRunStore creates a new GormRunStore.
func NewGormRunStore(db *gorm.DB) *GormRunStore {
	return &GormRunStore{db: db}
}

// Create persists a new run in RUNNING state.
func (s *GormRunStore) Create(datasetID int64, modelName string, createdBy int64) (*model.ModelRun, error) {
	run := model.ModelRun{
		DatasetID: datasetID,
		ModelName: modelName,
		SerialNo:  uuid.NewString(),
		Status:    RunStatusRunning,
		CreatedBy: createdBy,
	}
	if err := s.db.Create(&run).Error; err != nil {
		return nil, fmt.Errorf("failed to create model run: %w", err)
	}
	return &run, nil
}

// FindBySerialNo returns the run or ErrRunNotFound.
func (s *GormRunStore) FindBySerialNo(serialNo string) (*model.ModelRun, error) {
	var run model.ModelRun
	if err := s.db.Where("serial_no = ?", serialNo).First(&run).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to find model run: %w", err)
	}
	return &run, nil
}

// SetStatus updates the run's status.
func (s *GormRunStore) SetStatus(id int64, status string) error {
	err := s.db.Model(&model.ModelRun{}).Where("id = ?", id).
		Update("status", status).Error
	if err != nil {
		return fmt.Errorf("failed to update model run status: %w", err)
	}
	return nil
}
