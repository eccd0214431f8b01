// Package optimistic applies a view-model change before the backend call
// that makes it real, and rolls the change back when the call fails. The
// page then renders the restored state alongside the failure toast, so the
// user sees their attempt undone rather than a half-applied list.
package optimistic

// Apply snapshots *state, applies change, then runs attempt. When attempt
// fails the snapshot is restored and the error returned. T must be a value
// type whose copy is a full snapshot (slices shared between copies would
// leak the change through the rollback).
func Apply[T any](state *T, change func(*T), attempt func() error) error {
	snapshot := *state
	change(state)
	if err := attempt(); err != nil {
		*state = snapshot
		return err
	}
	return nil
}
