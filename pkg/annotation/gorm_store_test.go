package annotation

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func annotationObjectColumns() []string {
	return []string{
		"id", "dataset_id", "data_id", "class_attributes", "class_id",
		"source_type", "source_id", "created_at", "created_by", "updated_at", "updated_by",
	}
}

func TestGormStoreFindByDataIDs(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewGormStore(db)

	now := time.Now()
	runID := int64(3)
	rows := sqlmock.NewRows(annotationObjectColumns()).
		AddRow(int64(1), int64(1), int64(10), []byte(`{"type":"BOUNDING_BOX"}`), nil,
			"MANUAL", nil, now, int64(7), now, int64(7)).
		AddRow(int64(2), int64(1), int64(10), []byte(`{}`), nil,
			"MODEL", runID, now, int64(0), now, int64(0))
	mock.ExpectQuery(`SELECT \* FROM "annotation_objects" WHERE data_id IN`).
		WillReturnRows(rows)

	objects, err := store.FindByDataIDs([]int64{10})

	require.NoError(t, err)
	require.Len(t, objects, 2)
	assert.Equal(t, SourceTypeManual, objects[0].SourceType)
	assert.Equal(t, SourceTypeModel, objects[1].SourceType)
	require.NotNil(t, objects[1].SourceID)
	assert.Equal(t, runID, *objects[1].SourceID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreFindByDataIDsUnknownSourceTypeFallsBack(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewGormStore(db)

	now := time.Now()
	rows := sqlmock.NewRows(annotationObjectColumns()).
		AddRow(int64(1), int64(1), int64(10), []byte(`{}`), nil,
			"LEGACY", nil, now, int64(0), now, int64(0))
	mock.ExpectQuery(`SELECT \* FROM "annotation_objects" WHERE data_id IN`).
		WillReturnRows(rows)

	objects, err := store.FindByDataIDs([]int64{10})

	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, SourceTypeManual, objects[0].SourceType)
}

func TestGormStoreDeleteByIDs(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewGormStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "annotation_objects" WHERE id IN`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := store.DeleteByIDs([]int64{1, 2})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreDeleteByDataIDs(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewGormStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "annotation_objects" WHERE data_id IN`).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	err := store.DeleteByDataIDs([]int64{10})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
