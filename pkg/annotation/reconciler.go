package annotation

import (
	"fmt"
	"time"
)

// upsertChunkSize bounds the row count of a single upsert statement. Chunks
// run inside the surrounding transaction, so splitting does not weaken
// atomicity.
const upsertChunkSize = 2000

// ValidationError rejects malformed input before any store interaction.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid annotation object: %s %s", e.Field, e.Reason)
}

// Reconciler converts a submitted desired annotation set into the minimal
// insert/update/delete operations against stored state.
//
// For every data item touched by a call, the submitted set is authoritative:
// stored objects not resubmitted are deleted, objects without an ID are
// inserted, and objects resubmitted by ID are overwritten except for their
// creation metadata, which is copied forward from the stored row. Data items
// named in the wipe set lose all their objects first, whether or not the
// desired set mentions them.
type Reconciler struct {
	store     Store
	editLocks EditLockChecker
	chunkSize int
	now       func() time.Time
}

// NewReconciler creates a Reconciler over the given store. editLocks may be
// nil, in which case no editor-session check is performed.
func NewReconciler(store Store, editLocks EditLockChecker) *Reconciler {
	return &Reconciler{
		store:     store,
		editLocks: editLocks,
		chunkSize: upsertChunkSize,
		now:       time.Now,
	}
}

// Reconcile applies the desired set and returns the newly inserted objects
// with their store-assigned IDs and client FrontIDs intact, so the caller can
// rebind temporary references.
//
// The whole batch runs in one store transaction; an error at any step rolls
// everything back. A desired object whose ID is set but no longer stored is a
// stale client reference and is silently dropped.
func (r *Reconciler) Reconcile(actor Actor, desired []Object, wipeDataIDs []int64) ([]Object, error) {
	if len(desired) == 0 && len(wipeDataIDs) == 0 {
		return nil, nil
	}
	if err := validateObjects(desired); err != nil {
		return nil, err
	}

	affected := dataIDSet(desired)
	for _, id := range wipeDataIDs {
		affected[id] = struct{}{}
	}
	if r.editLocks != nil {
		if err := r.editLocks.CheckLock(setToSlice(affected), actor); err != nil {
			return nil, err
		}
	}

	var inserted []Object
	err := r.store.Transaction(func(tx Store) error {
		if len(wipeDataIDs) > 0 {
			if err := tx.DeleteByDataIDs(wipeDataIDs); err != nil {
				return fmt.Errorf("failed to wipe data items: %w", err)
			}
		}

		var err error
		inserted, err = r.applyDesired(tx, actor, desired)
		return err
	})
	if err != nil {
		return nil, err
	}
	return inserted, nil
}

// Insert adds objects without diffing them against stored state: nothing on
// the touched data items is updated or deleted. Model-result imports land
// through here so a detection run never destroys the editor's existing work
// on a data item.
func (r *Reconciler) Insert(actor Actor, objects []Object) ([]Object, error) {
	if len(objects) == 0 {
		return nil, nil
	}
	if err := validateObjects(objects); err != nil {
		return nil, err
	}

	now := r.now()
	toInsert := make([]Object, 0, len(objects))
	for _, obj := range objects {
		obj.ID = 0
		obj.CreatedAt = now
		obj.CreatedBy = actor.ID
		obj.UpdatedAt = now
		obj.UpdatedBy = actor.ID
		toInsert = append(toInsert, obj)
	}

	var inserted []Object
	err := r.store.Transaction(func(tx Store) error {
		var err error
		inserted, err = tx.InsertBatch(toInsert)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert objects: %w", err)
	}
	return inserted, nil
}

// applyDesired diffs the desired set against stored state for the data items
// it touches and applies the insert/update/delete partition.
func (r *Reconciler) applyDesired(tx Store, actor Actor, desired []Object) ([]Object, error) {
	if len(desired) == 0 {
		return nil, nil
	}

	stored, err := tx.FindByDataIDs(setToSlice(dataIDSet(desired)))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stored objects: %w", err)
	}
	storedByID := make(map[int64]Object, len(stored))
	for _, obj := range stored {
		storedByID[obj.ID] = obj
	}

	now := r.now()
	var toInsert, toUpdate []Object
	for _, obj := range desired {
		if obj.ID != 0 {
			prev, ok := storedByID[obj.ID]
			if !ok {
				// Stale client reference: not stored anymore, drop it.
				continue
			}
			obj.CreatedAt = prev.CreatedAt
			obj.CreatedBy = prev.CreatedBy
			obj.UpdatedAt = now
			obj.UpdatedBy = actor.ID
			toUpdate = append(toUpdate, obj)
		} else {
			obj.CreatedAt = now
			obj.CreatedBy = actor.ID
			obj.UpdatedAt = now
			obj.UpdatedBy = actor.ID
			toInsert = append(toInsert, obj)
		}
	}

	var inserted []Object
	if len(toInsert) > 0 {
		inserted, err = tx.InsertBatch(toInsert)
		if err != nil {
			return nil, fmt.Errorf("failed to insert objects: %w", err)
		}
	}

	for start := 0; start < len(toUpdate); start += r.chunkSize {
		end := start + r.chunkSize
		if end > len(toUpdate) {
			end = len(toUpdate)
		}
		if err := tx.UpsertBatch(toUpdate[start:end]); err != nil {
			return nil, fmt.Errorf("failed to upsert objects: %w", err)
		}
	}

	// Every stored object for an affected data item that was not resubmitted
	// by ID is gone: omission is how clients delete shapes.
	resubmitted := make(map[int64]struct{}, len(toUpdate))
	for _, obj := range toUpdate {
		resubmitted[obj.ID] = struct{}{}
	}
	var stale []int64
	for id := range storedByID {
		if _, ok := resubmitted[id]; !ok {
			stale = append(stale, id)
		}
	}
	if len(stale) > 0 {
		if err := tx.DeleteByIDs(stale); err != nil {
			return nil, fmt.Errorf("failed to delete stale objects: %w", err)
		}
	}

	return inserted, nil
}

func validateObjects(desired []Object) error {
	for _, obj := range desired {
		if obj.DatasetID == 0 {
			return &ValidationError{Field: "datasetId", Reason: "is required"}
		}
		if obj.DataID == 0 {
			return &ValidationError{Field: "dataId", Reason: "is required"}
		}
	}
	return nil
}

func dataIDSet(objects []Object) map[int64]struct{} {
	set := make(map[int64]struct{}, len(objects))
	for _, obj := range objects {
		set[obj.DataID] = struct{}{}
	}
	return set
}

func setToSlice(set map[int64]struct{}) []int64 {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}
