package zoneregistry

import (
	"fmt"
	"sync"

	"github.com/haukened/zonekeeper/internal/dns/common/log"
	"github.com/haukened/zonekeeper/internal/dns/repos/store"
)

// nameIndex pairs a NameFilter with the store names version it was built
// from. Other processes may write the same store, so every check compares the
// version first and reloads the filter when it moved.
type nameIndex struct {
	filter NameFilter
	logger log.Logger

	mu     sync.Mutex
	synced bool
	at     uint64
}

func newNameIndex(f NameFilter, logger log.Logger) *nameIndex {
	if f == nil {
		return nil
	}
	return &nameIndex{filter: f, logger: logger}
}

// mightContain reports whether name may be stored as of tx. A false result is
// definite.
func (n *nameIndex) mightContain(tx store.Tx, name string) (bool, error) {
	if n == nil {
		return true, nil
	}
	v, err := tx.NamesVersion()
	if err != nil {
		return false, err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.synced || n.at != v {
		if err := n.load(tx, v); err != nil {
			return false, err
		}
	}
	return n.filter.MightContain(name), nil
}

func (n *nameIndex) load(tx store.Tx, v uint64) error {
	zones, err := tx.Zones(nil)
	if err != nil {
		return fmt.Errorf("load zone names: %w", err)
	}
	names := make([]string, 0, len(zones))
	for _, z := range zones {
		names = append(names, z.Name)
	}
	n.filter.Reset(names)
	n.at, n.synced = v, true
	n.logger.Debug(map[string]any{
		"zones":         len(names),
		"approx":        n.filter.Approx(),
		"names_version": v,
	}, "zone name filter loaded")
	return nil
}

// advance records a committed write that moved the names version from from to
// to. name is the zone name the write stored, empty for deletes. The filter is
// left for the next check to reload when it was not built at from.
func (n *nameIndex) advance(from, to uint64, name string) {
	if n == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.synced || n.at != from {
		return
	}
	if name != "" {
		n.filter.Add(name)
	}
	n.at = to
}

func (n *nameIndex) invalidate() {
	if n == nil {
		return
	}
	n.mu.Lock()
	n.synced = false
	n.mu.Unlock()
}
