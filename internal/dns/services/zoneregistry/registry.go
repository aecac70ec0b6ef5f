// Package zoneregistry owns zone entities: creation, patching, deletion and
// lookup, with SOA serial bookkeeping.
package zoneregistry

import (
	"fmt"
	"iter"
	"time"

	"github.com/google/uuid"

	"github.com/haukened/zonekeeper/internal/dns/common/clock"
	"github.com/haukened/zonekeeper/internal/dns/common/log"
	"github.com/haukened/zonekeeper/internal/dns/common/utils"
	"github.com/haukened/zonekeeper/internal/dns/domain"
	"github.com/haukened/zonekeeper/internal/dns/repos/store"
)

type Registry struct {
	store  store.Store
	clock  clock.Clock
	logger log.Logger
	policy domain.SerialPolicy
	names  *nameIndex
	cache  Invalidator
	newID  func() string
}

// Options configures a Registry. Store is required; Names and Cache are
// optional, and nil Clock, Logger and NewID fall back to defaults.
type Options struct {
	Store        store.Store
	Clock        clock.Clock
	Logger       log.Logger
	SerialPolicy domain.SerialPolicy
	Names        NameFilter
	Cache        Invalidator
	NewID        func() string
}

// New builds a Registry. The name filter is loaded from the store on first
// use.
func New(opts Options) (*Registry, error) {
	r := &Registry{
		store:  opts.Store,
		clock:  opts.Clock,
		logger: opts.Logger,
		policy: opts.SerialPolicy,
		cache:  opts.Cache,
		newID:  opts.NewID,
	}
	if r.store == nil {
		return nil, fmt.Errorf("zoneregistry: store is required")
	}
	if r.clock == nil {
		r.clock = clock.RealClock{}
	}
	if r.logger == nil {
		r.logger = log.NewNoopLogger()
	}
	if r.policy == "" {
		r.policy = domain.SerialPolicyDate
	}
	if r.newID == nil {
		r.newID = uuid.NewString
	}
	r.names = newNameIndex(opts.Names, r.logger)
	return r, nil
}

// RebuildNames reloads the name filter from the zones currently stored.
// Deleted and renamed zone names stay in the filter as false positives until
// this runs.
func (r *Registry) RebuildNames() error {
	if r.names == nil {
		return nil
	}
	r.names.invalidate()
	return r.store.View(func(tx store.Tx) error {
		_, err := r.names.mightContain(tx, "")
		return err
	})
}

// Create validates draft and stores it as a new zone. The ID and timestamps
// are assigned here; with AutoSerial the serial comes from the serial policy.
func (r *Registry) Create(draft domain.Zone) (domain.Zone, error) {
	now := r.clock.Now()
	z := draft
	z.ID = r.newID()
	z.Created = now
	z.Updated = now
	if z.AutoSerial {
		z.SOA.Serial = r.policy.Initial(now)
	}
	if err := z.Validate(); err != nil {
		return domain.Zone{}, err
	}

	var from, to uint64
	err := r.store.Update(func(tx store.Tx) error {
		var err error
		if from, err = tx.NamesVersion(); err != nil {
			return err
		}
		if err := r.ensureUnique(tx, z); err != nil {
			return err
		}
		if err := tx.PutZone(z); err != nil {
			return err
		}
		to, err = tx.NamesVersion()
		return err
	})
	if err != nil {
		return domain.Zone{}, err
	}
	r.names.advance(from, to, z.Name)

	r.logger.Info(map[string]any{
		"zone_id": z.ID,
		"name":    z.Name,
		"serial":  z.SOA.Serial,
	}, "zone created")
	return z, nil
}

// Update merges patch into the stored zone. A patch that changes nothing is a
// no-op and returns the stored zone untouched. Otherwise the serial advances
// when AutoSerial is set; a serial in the patch is ignored in that case.
func (r *Registry) Update(id string, patch domain.ZonePatch) (domain.Zone, error) {
	var (
		out      domain.Zone
		changed  bool
		from, to uint64
	)
	err := r.store.Update(func(tx store.Tx) error {
		cur, err := tx.GetZone(id)
		if err != nil {
			return err
		}
		if from, err = tx.NamesVersion(); err != nil {
			return err
		}
		next := patch.Apply(cur)
		if next.AutoSerial {
			next.SOA.Serial = cur.SOA.Serial
		}
		if err := next.Validate(); err != nil {
			return err
		}
		if next.SameContent(cur) {
			out = cur
			return nil
		}
		if next.CanonicalName() != cur.CanonicalName() {
			if err := r.ensureUnique(tx, next); err != nil {
				return err
			}
		}
		next.BumpSerial()
		next.Updated = r.clock.Now()
		if err := tx.PutZone(next); err != nil {
			return err
		}
		out, changed = next, true
		to, err = tx.NamesVersion()
		return err
	})
	if err != nil {
		return domain.Zone{}, err
	}

	if !changed {
		r.logger.Debug(map[string]any{"zone_id": id}, "zone update is a no-op")
		return out, nil
	}
	r.names.advance(from, to, out.Name)
	r.invalidate(id)
	r.logger.Info(map[string]any{
		"zone_id": out.ID,
		"name":    out.Name,
		"serial":  out.SOA.Serial,
	}, "zone updated")
	return out, nil
}

// Delete removes the zone and all of its records.
func (r *Registry) Delete(id string) error {
	var from, to uint64
	err := r.store.Update(func(tx store.Tx) error {
		var err error
		if from, err = tx.NamesVersion(); err != nil {
			return err
		}
		if err := tx.DeleteZone(id); err != nil {
			return err
		}
		to, err = tx.NamesVersion()
		return err
	})
	if err != nil {
		return err
	}
	r.names.advance(from, to, "")
	r.invalidate(id)
	r.logger.Info(map[string]any{"zone_id": id}, "zone deleted")
	return nil
}

// Get returns the zone with the given ID.
func (r *Registry) Get(id string) (domain.Zone, error) {
	var z domain.Zone
	err := r.store.View(func(tx store.Tx) error {
		var err error
		z, err = tx.GetZone(id)
		return err
	})
	return z, err
}

// List returns the zones matching filter. Each iteration reads a fresh
// snapshot; a read failure is yielded once as the error value.
func (r *Registry) List(filter domain.ZoneFilter) iter.Seq2[domain.Zone, error] {
	return func(yield func(domain.Zone, error) bool) {
		var zones []domain.Zone
		err := r.store.View(func(tx store.Tx) error {
			var err error
			zones, err = tx.Zones(filter.Match)
			return err
		})
		if err != nil {
			yield(domain.Zone{}, err)
			return
		}
		for _, z := range zones {
			if !yield(z, nil) {
				return
			}
		}
	}
}

// FindByName returns the zone whose name matches name case-insensitively,
// ignoring a trailing dot.
func (r *Registry) FindByName(name string) (domain.Zone, error) {
	var found []domain.Zone
	err := r.store.View(func(tx store.Tx) error {
		maybe, err := r.names.mightContain(tx, name)
		if err != nil || !maybe {
			return err
		}
		found, err = tx.Zones(sameName(name, ""))
		return err
	})
	if err != nil {
		return domain.Zone{}, err
	}
	if len(found) == 0 {
		return domain.Zone{}, domain.NewNotFound("zone", name)
	}
	return found[0], nil
}

// ensureUnique rejects z when another zone in tx already uses its name. The
// filter lets most creates skip the scan.
func (r *Registry) ensureUnique(tx store.Tx, z domain.Zone) error {
	maybe, err := r.names.mightContain(tx, z.Name)
	if err != nil || !maybe {
		return err
	}
	dups, err := tx.Zones(sameName(z.Name, z.ID))
	if err != nil {
		return err
	}
	if len(dups) > 0 {
		ve := domain.NewValidationError("zone")
		ve.Add("name", fmt.Sprintf("zone %s already exists", z.CanonicalName()), domain.ErrDuplicateZone)
		return ve
	}
	return nil
}

func sameName(name, exceptID string) func(domain.Zone) bool {
	want := utils.CanonicalDNSName(name)
	return func(z domain.Zone) bool {
		return z.ID != exceptID && z.CanonicalName() == want
	}
}

func (r *Registry) invalidate(id string) {
	if r.cache != nil {
		r.cache.Invalidate(id)
	}
}

// Touch marks a zone as changed inside tx: the serial advances (with
// AutoSerial) and Updated is set to now. Record writes call it so the bump
// commits or rolls back together with the record.
func Touch(tx store.Tx, zoneID string, now time.Time) (domain.Zone, error) {
	z, err := tx.GetZone(zoneID)
	if err != nil {
		return domain.Zone{}, err
	}
	z.BumpSerial()
	z.Updated = now
	if err := tx.PutZone(z); err != nil {
		return domain.Zone{}, err
	}
	return z, nil
}
