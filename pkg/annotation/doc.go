// Package annotation implements the annotation-object reconciliation engine.
//
// The editor does not issue per-shape create/update/delete calls. It submits
// the full desired annotation set for the data items it touched, and the
// Reconciler diffs that set against stored state inside one transaction:
//
//   - objects without an ID are inserted (creation metadata stamped once)
//   - objects resubmitted by ID are overwritten, keeping createdAt/createdBy
//   - stored objects not resubmitted are deleted
//   - data items in the wipe set lose all their objects unconditionally
//
// The call returns the inserted objects with their server-assigned IDs and
// the client's temporary FrontIDs, which is how the editor survives multiple
// consecutive saves without re-inserting the same shapes.
//
// Edit locks serialize saves per data item: a save touching a data item open
// in another user's session fails with ErrDataLocked before any store
// interaction.
package annotation
