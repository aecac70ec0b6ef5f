// Package zoneimport applies declarative zone definitions through the zone
// registry and record store, so imported data gets the same validation and
// serial handling as interactive edits.
package zoneimport

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/haukened/zonekeeper/internal/dns/common/log"
	"github.com/haukened/zonekeeper/internal/dns/domain"
	"github.com/haukened/zonekeeper/internal/dns/repos/zonefile"
)

type Zones interface {
	FindByName(name string) (domain.Zone, error)
	Create(draft domain.Zone) (domain.Zone, error)
	Update(id string, patch domain.ZonePatch) (domain.Zone, error)
}

type Records interface {
	ListByZone(zoneID string) iter.Seq2[domain.Record, error]
	Create(zoneID string, draft domain.Record) (domain.Record, error)
	Update(recordID string, patch domain.RecordPatch) (domain.Record, error)
	Delete(recordID string) error
}

// Result counts what Apply changed.
type Result struct {
	ZoneID      string
	ZoneCreated bool
	ZoneUpdated bool
	Created     int
	Updated     int
	Deleted     int
	Unchanged   int
}

type Importer struct {
	zones   Zones
	records Records
	logger  log.Logger
}

func New(zones Zones, records Records, logger log.Logger) *Importer {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Importer{zones: zones, records: records, logger: logger}
}

// recordKey identifies a record by content: owner (case-insensitive), type
// and value. TTL and status are attributes that Apply updates in place.
type recordKey struct {
	name  string
	t     domain.RRType
	value string
}

func keyOf(r domain.Record) recordKey {
	return recordKey{name: strings.ToLower(r.Name), t: r.Type, value: r.Value}
}

// Apply creates the zone of def or updates the existing zone with the same
// name, then adds missing records and updates TTL and status of matching
// ones. A record repeated in def is applied once. With prune, stored records
// absent from def are deleted, as are stored copies of the same record beyond
// the first. Each change is its own transaction; on error the counts reflect
// what was applied.
func (im *Importer) Apply(def zonefile.Definition, prune bool) (Result, error) {
	var res Result

	zone, err := im.zones.FindByName(def.Zone.Name)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		if zone, err = im.zones.Create(def.Zone); err != nil {
			return res, fmt.Errorf("import %s: %w", def.Source, err)
		}
		res.ZoneCreated = true
	case err != nil:
		return res, fmt.Errorf("import %s: %w", def.Source, err)
	default:
		updated, err := im.zones.Update(zone.ID, def.ZonePatch())
		if err != nil {
			return res, fmt.Errorf("import %s: %w", def.Source, err)
		}
		res.ZoneUpdated = !updated.SameContent(zone)
		zone = updated
	}
	res.ZoneID = zone.ID

	// ListByZone orders records, so the first copy of a key is stable
	existing := make(map[recordKey][]domain.Record)
	for rec, err := range im.records.ListByZone(zone.ID) {
		if err != nil {
			return res, fmt.Errorf("import %s: %w", def.Source, err)
		}
		k := keyOf(rec)
		existing[k] = append(existing[k], rec)
	}

	seen := make(map[recordKey]bool, len(def.Records))
	for _, want := range def.Records {
		k := keyOf(want)
		if seen[k] {
			im.logger.Debug(map[string]any{
				"source": def.Source,
				"name":   want.Name,
				"type":   want.Type.String(),
				"value":  want.Value,
			}, "repeated record in definition skipped")
			continue
		}
		seen[k] = true
		copies := existing[k]
		if len(copies) == 0 {
			if _, err := im.records.Create(zone.ID, want); err != nil {
				return res, fmt.Errorf("import %s: record %s %s: %w", def.Source, want.Name, want.Type, err)
			}
			res.Created++
			continue
		}
		cur := copies[0]
		if cur.TTL == want.TTL && cur.Status == want.Status {
			res.Unchanged++
			continue
		}
		if _, err := im.records.Update(cur.ID, domain.RecordPatch{TTL: &want.TTL, Status: &want.Status}); err != nil {
			return res, fmt.Errorf("import %s: record %s %s: %w", def.Source, want.Name, want.Type, err)
		}
		res.Updated++
	}

	if prune {
		for k, copies := range existing {
			if seen[k] {
				copies = copies[1:]
			}
			for _, cur := range copies {
				if err := im.records.Delete(cur.ID); err != nil {
					return res, fmt.Errorf("import %s: %w", def.Source, err)
				}
				res.Deleted++
			}
		}
	}

	im.logger.Info(map[string]any{
		"source":       def.Source,
		"zone_id":      res.ZoneID,
		"zone_created": res.ZoneCreated,
		"zone_updated": res.ZoneUpdated,
		"created":      res.Created,
		"updated":      res.Updated,
		"deleted":      res.Deleted,
		"unchanged":    res.Unchanged,
	}, "zone definition applied")
	return res, nil
}
