// Package memory is an in-process store.Store. Update transactions stage
// their writes in an overlay that is applied only when fn succeeds.
package memory

import (
	"maps"
	"slices"
	"sync"

	"github.com/haukened/zonekeeper/internal/dns/domain"
	"github.com/haukened/zonekeeper/internal/dns/repos/store"
)

type memStore struct {
	mu       sync.RWMutex
	zones    map[string]domain.Zone
	records  map[string]domain.Record
	nameVers uint64
}

// New returns an empty in-memory store.
func New() store.Store {
	return &memStore{
		zones:   make(map[string]domain.Zone),
		records: make(map[string]domain.Record),
	}
}

func (s *memStore) Close() error { return nil }

func (s *memStore) View(fn func(store.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&memTx{s: s, nameVers: s.nameVers})
}

func (s *memStore) Update(fn func(store.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := &memTx{
		s:        s,
		writable: true,
		zones:    make(map[string]*domain.Zone),
		records:  make(map[string]*domain.Record),
		nameVers: s.nameVers,
	}
	if err := fn(tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

// memTx reads through its overlay to the committed maps. A nil overlay
// entry marks a deletion.
type memTx struct {
	s        *memStore
	writable bool
	zones    map[string]*domain.Zone
	records  map[string]*domain.Record
	nameVers uint64
}

func (t *memTx) commit() {
	t.s.nameVers = t.nameVers
	for id, z := range t.zones {
		if z == nil {
			delete(t.s.zones, id)
			continue
		}
		t.s.zones[id] = *z
	}
	for id, r := range t.records {
		if r == nil {
			delete(t.s.records, id)
			continue
		}
		t.s.records[id] = *r
	}
}

func (t *memTx) zone(id string) (domain.Zone, bool) {
	if z, staged := t.zones[id]; staged {
		if z == nil {
			return domain.Zone{}, false
		}
		return *z, true
	}
	z, ok := t.s.zones[id]
	return z, ok
}

func (t *memTx) record(id string) (domain.Record, bool) {
	if r, staged := t.records[id]; staged {
		if r == nil {
			return domain.Record{}, false
		}
		return *r, true
	}
	r, ok := t.s.records[id]
	return r, ok
}

// recordIDs lists every visible record ID, committed or staged.
func (t *memTx) recordIDs() []string {
	ids := slices.Collect(maps.Keys(t.s.records))
	for id := range t.records {
		if _, committed := t.s.records[id]; !committed {
			ids = append(ids, id)
		}
	}
	return ids
}

func (t *memTx) GetZone(id string) (domain.Zone, error) {
	z, ok := t.zone(id)
	if !ok {
		return domain.Zone{}, domain.NewNotFound("zone", id)
	}
	return z, nil
}

func (t *memTx) PutZone(z domain.Zone) error {
	if !t.writable {
		return store.ErrReadOnly
	}
	if prev, ok := t.zone(z.ID); !ok || prev.CanonicalName() != z.CanonicalName() {
		t.nameVers++
	}
	t.zones[z.ID] = &z
	return nil
}

func (t *memTx) DeleteZone(id string) error {
	if !t.writable {
		return store.ErrReadOnly
	}
	if _, ok := t.zone(id); !ok {
		return domain.NewNotFound("zone", id)
	}
	for _, rid := range t.recordIDs() {
		if r, ok := t.record(rid); ok && r.ZoneID == id {
			t.records[rid] = nil
		}
	}
	t.zones[id] = nil
	t.nameVers++
	return nil
}

func (t *memTx) NamesVersion() (uint64, error) { return t.nameVers, nil }

func (t *memTx) Zones(match func(domain.Zone) bool) ([]domain.Zone, error) {
	ids := slices.Collect(maps.Keys(t.s.zones))
	for id := range t.zones {
		if _, committed := t.s.zones[id]; !committed {
			ids = append(ids, id)
		}
	}
	var out []domain.Zone
	for _, id := range ids {
		z, ok := t.zone(id)
		if ok && (match == nil || match(z)) {
			out = append(out, z)
		}
	}
	return out, nil
}

func (t *memTx) GetRecord(id string) (domain.Record, error) {
	r, ok := t.record(id)
	if !ok {
		return domain.Record{}, domain.NewNotFound("record", id)
	}
	return r, nil
}

func (t *memTx) PutRecord(r domain.Record) error {
	if !t.writable {
		return store.ErrReadOnly
	}
	if _, ok := t.zone(r.ZoneID); !ok {
		return domain.NewNotFound("zone", r.ZoneID)
	}
	t.records[r.ID] = &r
	return nil
}

func (t *memTx) DeleteRecord(id string) error {
	if !t.writable {
		return store.ErrReadOnly
	}
	if _, ok := t.record(id); !ok {
		return domain.NewNotFound("record", id)
	}
	t.records[id] = nil
	return nil
}

func (t *memTx) RecordsByZone(zoneID string) ([]domain.Record, error) {
	if _, ok := t.zone(zoneID); !ok {
		return nil, domain.NewNotFound("zone", zoneID)
	}
	var out []domain.Record
	for _, id := range t.recordIDs() {
		if r, ok := t.record(id); ok && r.ZoneID == zoneID {
			out = append(out, r)
		}
	}
	return out, nil
}

var _ store.Store = (*memStore)(nil)
var _ store.Tx = (*memTx)(nil)
