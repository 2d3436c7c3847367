package annotation

import "errors"

// ErrDataLocked is returned when an affected data item is open in another
// editor session.
var ErrDataLocked = errors.New("data item is locked by another editor")

// Store abstracts persistence for annotation objects. A Store handed to the
// callback of Transaction issues all of its mutations inside that
// transaction; any error returned from the callback rolls the whole batch
// back.
type Store interface {
	// Transaction runs fn against a transactional view of the store.
	Transaction(fn func(Store) error) error

	// FindByDataIDs returns every stored object attached to the given data items.
	FindByDataIDs(dataIDs []int64) ([]Object, error)

	// FindByDatasetID returns every stored object of a dataset.
	FindByDatasetID(datasetID int64) ([]Object, error)

	// InsertBatch inserts the objects and returns them with their
	// store-assigned IDs. Client FrontIDs are carried through unchanged.
	InsertBatch(objects []Object) ([]Object, error)

	// UpsertBatch writes the objects keyed by ID, inserting rows whose ID is
	// not present and overwriting those that are.
	UpsertBatch(objects []Object) error

	// DeleteByIDs removes objects by primary key.
	DeleteByIDs(ids []int64) error

	// DeleteByDataIDs removes every object attached to the given data items.
	DeleteByDataIDs(dataIDs []int64) error
}

// EditLockChecker reports whether any of the given data items are held by a
// conflicting editor session. Implementations return ErrDataLocked when a
// session other than the actor's holds a live lock.
type EditLockChecker interface {
	CheckLock(dataIDs []int64, actor Actor) error
}
