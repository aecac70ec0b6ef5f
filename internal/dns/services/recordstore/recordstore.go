// Package recordstore owns resource records. Every effective change to a
// record advances its zone's serial in the same store transaction.
package recordstore

import (
	"fmt"
	"iter"
	"slices"

	"github.com/google/uuid"

	"github.com/haukened/zonekeeper/internal/dns/common/clock"
	"github.com/haukened/zonekeeper/internal/dns/common/log"
	"github.com/haukened/zonekeeper/internal/dns/common/rrdata"
	"github.com/haukened/zonekeeper/internal/dns/domain"
	"github.com/haukened/zonekeeper/internal/dns/repos/store"
	"github.com/haukened/zonekeeper/internal/dns/services/zoneregistry"
)

type Store struct {
	store  store.Store
	clock  clock.Clock
	logger log.Logger
	cache  zoneregistry.Invalidator
	newID  func() string
}

type Options struct {
	Store  store.Store
	Clock  clock.Clock
	Logger log.Logger
	Cache  zoneregistry.Invalidator
	NewID  func() string
}

func New(opts Options) (*Store, error) {
	s := &Store{
		store:  opts.Store,
		clock:  opts.Clock,
		logger: opts.Logger,
		cache:  opts.Cache,
		newID:  opts.NewID,
	}
	if s.store == nil {
		return nil, fmt.Errorf("recordstore: store is required")
	}
	if s.clock == nil {
		s.clock = clock.RealClock{}
	}
	if s.logger == nil {
		s.logger = log.NewNoopLogger()
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s, nil
}

// Create validates draft and adds it to the zone. The zone must exist.
func (s *Store) Create(zoneID string, draft domain.Record) (domain.Record, error) {
	now := s.clock.Now()
	rec := draft
	rec.ID = s.newID()
	rec.ZoneID = zoneID
	rec.Created = now
	rec.Updated = now
	if err := rrdata.ValidateRecord(rec); err != nil {
		return domain.Record{}, err
	}

	var zone domain.Zone
	err := s.store.Update(func(tx store.Tx) error {
		var err error
		if zone, err = zoneregistry.Touch(tx, zoneID, now); err != nil {
			return err
		}
		return tx.PutRecord(rec)
	})
	if err != nil {
		return domain.Record{}, err
	}

	s.changed(rec, zone, "record created")
	return rec, nil
}

// Update merges patch into the stored record. Unchanged records are not
// written and do not advance the zone serial.
func (s *Store) Update(recordID string, patch domain.RecordPatch) (domain.Record, error) {
	var (
		out     domain.Record
		zone    domain.Zone
		changed bool
	)
	err := s.store.Update(func(tx store.Tx) error {
		cur, err := tx.GetRecord(recordID)
		if err != nil {
			return err
		}
		next := patch.Apply(cur)
		if err := rrdata.ValidateRecord(next); err != nil {
			return err
		}
		if next.SameContent(cur) {
			out = cur
			return nil
		}
		now := s.clock.Now()
		next.Updated = now
		if zone, err = zoneregistry.Touch(tx, next.ZoneID, now); err != nil {
			return err
		}
		if err := tx.PutRecord(next); err != nil {
			return err
		}
		out, changed = next, true
		return nil
	})
	if err != nil {
		return domain.Record{}, err
	}

	if !changed {
		s.logger.Debug(map[string]any{"record_id": recordID}, "record update is a no-op")
		return out, nil
	}
	s.changed(out, zone, "record updated")
	return out, nil
}

// Delete removes a record.
func (s *Store) Delete(recordID string) error {
	var (
		rec  domain.Record
		zone domain.Zone
	)
	err := s.store.Update(func(tx store.Tx) error {
		var err error
		if rec, err = tx.GetRecord(recordID); err != nil {
			return err
		}
		if err := tx.DeleteRecord(recordID); err != nil {
			return err
		}
		zone, err = zoneregistry.Touch(tx, rec.ZoneID, s.clock.Now())
		return err
	})
	if err != nil {
		return err
	}
	s.changed(rec, zone, "record deleted")
	return nil
}

// Get returns the record with the given ID.
func (s *Store) Get(recordID string) (domain.Record, error) {
	var rec domain.Record
	err := s.store.View(func(tx store.Tx) error {
		var err error
		rec, err = tx.GetRecord(recordID)
		return err
	})
	return rec, err
}

// ListByZone yields the zone's records ordered by type, then name; value and
// ID break ties. An unknown zone yields a single NotFound error.
func (s *Store) ListByZone(zoneID string) iter.Seq2[domain.Record, error] {
	return func(yield func(domain.Record, error) bool) {
		var recs []domain.Record
		err := s.store.View(func(tx store.Tx) error {
			var err error
			recs, err = tx.RecordsByZone(zoneID)
			return err
		})
		if err != nil {
			yield(domain.Record{}, err)
			return
		}
		slices.SortFunc(recs, domain.CompareRecords)
		for _, r := range recs {
			if !yield(r, nil) {
				return
			}
		}
	}
}

func (s *Store) changed(rec domain.Record, zone domain.Zone, msg string) {
	if s.cache != nil {
		s.cache.Invalidate(zone.ID)
	}
	s.logger.Info(map[string]any{
		"record_id": rec.ID,
		"zone_id":   zone.ID,
		"name":      rec.Name,
		"type":      rec.Type.String(),
		"serial":    zone.SOA.Serial,
	}, msg)
}
