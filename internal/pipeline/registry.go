package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// SnapshotFile is the registry's durable snapshot under the data directory.
const SnapshotFile = "deals.json"

// Registry is the durable keyed store of deals. The whole collection lives
// in memory; every mutation rewrites the snapshot via a temp file and an
// atomic rename before the in-memory state is committed, so a reader (or a
// restarted process) can never observe a half-applied write.
//
// A single mutex serializes writers — at this scale per-entity locking
// buys nothing.
type Registry struct {
	mu    sync.Mutex
	path  string
	deals map[string]*Deal
}

// snapshot is the on-disk shape. Deals are sorted by creation time so the
// file diffs cleanly for external report consumers.
type snapshot struct {
	Deals       []*Deal `json:"deals"`
	LastUpdated string  `json:"last_updated"`
}

// OpenRegistry loads the snapshot from dataDir (creating the directory if
// needed) and returns a ready registry. A missing snapshot is a fresh
// database, not an error.
func OpenRegistry(dataDir string) (*Registry, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("registry: create data dir: %w", err)
	}

	r := &Registry{
		path:  filepath.Join(dataDir, SnapshotFile),
		deals: make(map[string]*Deal),
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return r, nil
		}
		return nil, fmt.Errorf("registry: read snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("registry: parse snapshot %s: %w", r.path, err)
	}
	for _, d := range snap.Deals {
		r.deals[d.ID] = d
	}
	return r, nil
}

// Get returns a copy of the deal, or ErrNotFound.
func (r *Registry) Get(id string) (*Deal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.deals[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return d.clone(), nil
}

// ByCustomer returns copies of all deals owned by the customer, oldest
// first. Missing customers yield an empty slice, not an error.
func (r *Registry) ByCustomer(customerID string) []*Deal {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*Deal
	for _, d := range r.deals {
		if d.CustomerID == customerID {
			out = append(out, d.clone())
		}
	}
	sortDeals(out)
	return out
}

// All returns copies of every deal, oldest first.
func (r *Registry) All() []*Deal {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Deal, 0, len(r.deals))
	for _, d := range r.deals {
		out = append(out, d.clone())
	}
	sortDeals(out)
	return out
}

// Insert persists a new deal. The snapshot write happens before the
// in-memory commit; a failed write leaves the registry exactly as it was.
func (r *Registry) Insert(d *Deal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.deals[d.ID]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateID, d.ID)
	}

	stored := d.clone()
	if err := r.persistLocked(stored); err != nil {
		return err
	}
	r.deals[stored.ID] = stored
	return nil
}

// Update applies mutate to a copy of the stored deal, persists the result,
// and only then swaps the copy in. Validation errors from mutate abort with
// no mutation at all; persistence errors roll back by never committing.
// The returned deal is a fresh copy of the committed state.
func (r *Registry) Update(id string, mutate func(*Deal) error) (*Deal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.deals[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}

	next := current.clone()
	if err := mutate(next); err != nil {
		return nil, err
	}

	if err := r.persistLocked(next); err != nil {
		return nil, err
	}
	r.deals[id] = next
	return next.clone(), nil
}

// persistLocked writes the snapshot with overlay taking the place of its
// stored counterpart. Callers must hold the mutex. The write goes to a
// temp file that is renamed over the snapshot, never edited in place.
func (r *Registry) persistLocked(overlay *Deal) error {
	all := make([]*Deal, 0, len(r.deals)+1)
	for id, d := range r.deals {
		if overlay != nil && id == overlay.ID {
			continue
		}
		all = append(all, d)
	}
	if overlay != nil {
		all = append(all, overlay)
	}
	sortDeals(all)

	snap := snapshot{
		Deals:       all,
		LastUpdated: timeNow().UTC().Format(time.RFC3339),
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("registry: marshal snapshot: %w", err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("registry: write snapshot: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("registry: replace snapshot: %w", err)
	}
	return nil
}

// Flush rewrites the snapshot from the current in-memory state. Used at
// teardown; mutating operations have already persisted themselves.
func (r *Registry) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.persistLocked(nil)
}

func sortDeals(deals []*Deal) {
	sort.Slice(deals, func(i, j int) bool {
		if deals[i].CreatedAt != deals[j].CreatedAt {
			return deals[i].CreatedAt < deals[j].CreatedAt
		}
		return deals[i].ID < deals[j].ID
	})
}
