// Package businessflow contains the core business logic and use cases for the back-office workflows
package businessflow

import (
	"context"
	"sort"
)

// EditOverlay holds pending per-entity field edits that shadow authoritative
// records until committed or discarded. Only fields explicitly set appear in
// an entity's entry; a nil value is a recorded explicit clear, which is
// distinguishable from an untouched field. Last write wins per (entity, field).
//
// The overlay is a plain state object owned by whoever created it (one per
// open admin view); it performs no locking of its own.
type EditOverlay struct {
	changes map[uint]map[string]any
}

// NewEditOverlay creates an empty overlay
func NewEditOverlay() *EditOverlay {
	return &EditOverlay{
		changes: make(map[uint]map[string]any),
	}
}

// SetField records value under (entityID, field), overwriting any prior value
func (o *EditOverlay) SetField(entityID uint, field string, value any) {
	entry, ok := o.changes[entityID]
	if !ok {
		entry = make(map[string]any)
		o.changes[entityID] = entry
	}
	entry[field] = value
}

// Has reports whether (entityID, field) carries a pending edit,
// including an explicit clear
func (o *EditOverlay) Has(entityID uint, field string) bool {
	entry, ok := o.changes[entityID]
	if !ok {
		return false
	}
	_, ok = entry[field]
	return ok
}

// Effective returns the pending value for (entityID, field) when one exists
// (even an explicit nil), else the authoritative value unchanged
func (o *EditOverlay) Effective(entityID uint, field string, authoritative any) any {
	if entry, ok := o.changes[entityID]; ok {
		if v, ok := entry[field]; ok {
			return v
		}
	}
	return authoritative
}

// IsDirty reports whether the entity has at least one pending edit
func (o *EditOverlay) IsDirty(entityID uint) bool {
	return len(o.changes[entityID]) > 0
}

// Entities returns the ids carrying pending edits in ascending order
func (o *EditOverlay) Entities() []uint {
	ids := make([]uint, 0, len(o.changes))
	for id, entry := range o.changes {
		if len(entry) > 0 {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Changes returns a copy of every entity's pending field set
func (o *EditOverlay) Changes() map[uint]map[string]any {
	out := make(map[uint]map[string]any, len(o.changes))
	for id, entry := range o.changes {
		if len(entry) == 0 {
			continue
		}
		fields := make(map[string]any, len(entry))
		for k, v := range entry {
			fields[k] = v
		}
		out[id] = fields
	}
	return out
}

// Len returns the number of entities carrying pending edits
func (o *EditOverlay) Len() int {
	n := 0
	for _, entry := range o.changes {
		if len(entry) > 0 {
			n++
		}
	}
	return n
}

// DiscardAll clears the entire overlay
func (o *EditOverlay) DiscardAll() {
	o.changes = make(map[uint]map[string]any)
}

// CommitAll flushes every pending entity through the dispatcher, one update
// per entity carrying only its overlaid fields. The overlay is cleared only
// when every update succeeds; on any failure it is preserved unchanged so the
// operator can retry the whole batch. Updates that landed remotely before the
// failure are not rolled back. An empty overlay dispatches nothing.
func (o *EditOverlay) CommitAll(ctx context.Context, dispatcher *BatchCommitDispatcher, update UpdateFunc) (int, error) {
	items := make([]CommitItem, 0, len(o.changes))
	for _, id := range o.Entities() {
		items = append(items, CommitItem{EntityID: id, Fields: o.changes[id]})
	}
	if len(items) == 0 {
		return 0, nil
	}

	count, err := dispatcher.Dispatch(ctx, items, update)
	if err != nil {
		return 0, err
	}

	o.DiscardAll()
	return count, nil
}
