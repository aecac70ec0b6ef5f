// Package zonerender turns a zone and its active records into zone file text.
package zonerender

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/haukened/zonekeeper/internal/dns/common/log"
	"github.com/haukened/zonekeeper/internal/dns/common/rrdata"
	"github.com/haukened/zonekeeper/internal/dns/common/utils"
	"github.com/haukened/zonekeeper/internal/dns/domain"
	"github.com/haukened/zonekeeper/internal/dns/repos/store"
)

// DisabledZoneMode selects the output for a disabled zone.
type DisabledZoneMode string

const (
	// DisabledZoneSOA emits the header and SOA line only.
	DisabledZoneSOA DisabledZoneMode = "soa"
	// DisabledZoneEmpty emits nothing.
	DisabledZoneEmpty DisabledZoneMode = "empty"
)

func ParseDisabledZoneMode(s string) (DisabledZoneMode, error) {
	switch m := DisabledZoneMode(s); m {
	case DisabledZoneSOA, DisabledZoneEmpty:
		return m, nil
	default:
		return "", fmt.Errorf("unknown disabled zone mode %q", s)
	}
}

type Renderer struct {
	store  store.Store
	mode   DisabledZoneMode
	cache  Cache
	logger log.Logger
}

// Options configures a Renderer. Store is required.
type Options struct {
	Store        store.Store
	DisabledZone DisabledZoneMode
	Cache        Cache
	Logger       log.Logger
}

func New(opts Options) (*Renderer, error) {
	r := &Renderer{
		store:  opts.Store,
		mode:   opts.DisabledZone,
		cache:  opts.Cache,
		logger: opts.Logger,
	}
	if r.store == nil {
		return nil, fmt.Errorf("zonerender: store is required")
	}
	if r.mode == "" {
		r.mode = DisabledZoneSOA
	}
	if r.logger == nil {
		r.logger = log.NewNoopLogger()
	}
	return r, nil
}

// Render returns the zone file for zoneID. The zone and its records are read
// in one transaction, so the SOA serial always matches the records written.
// It never writes; it fails when the zone does not exist, does not validate,
// or its records cannot be read.
func (r *Renderer) Render(zoneID string) (string, error) {
	var (
		z       domain.Zone
		records []domain.Record
		cached  string
		hit     bool
	)
	err := r.store.View(func(tx store.Tx) error {
		var err error
		if z, err = tx.GetZone(zoneID); err != nil {
			return err
		}
		if err := z.Validate(); err != nil {
			return fmt.Errorf("render zone %s: %w", zoneID, err)
		}
		if r.cache != nil {
			if cached, hit = r.cache.Get(zoneID, stamp(z, r.mode)); hit {
				return nil
			}
		}
		if z.IsDisabled() {
			return nil
		}
		if records, err = tx.RecordsByZone(zoneID); err != nil {
			return fmt.Errorf("render zone %s: %w", zoneID, err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if hit {
		r.logger.Debug(map[string]any{"zone_id": zoneID}, "render cache hit")
		return cached, nil
	}

	text := RenderZone(z, records, r.mode)
	fields := map[string]any{
		"zone_id": zoneID,
		"serial":  z.SOA.Serial,
		"records": len(records),
	}
	if r.cache != nil {
		r.cache.Put(zoneID, stamp(z, r.mode), text)
		hits, misses, evictions := r.cache.Stats()
		fields["cache_entries"] = r.cache.Len()
		fields["cache_hits"] = hits
		fields["cache_misses"] = misses
		fields["cache_evictions"] = evictions
	}
	r.logger.Debug(fields, "zone rendered")
	return text, nil
}

// stamp identifies the zone state a rendering was produced from.
func stamp(z domain.Zone, mode DisabledZoneMode) string {
	return fmt.Sprintf("%d/%d/%s", z.SOA.Serial, z.Updated.UnixNano(), mode)
}

// RenderZone formats z and its active records. Records are grouped by type
// in numeric order and sorted by name within a group. Names are written in
// ASCII form. The output of a disabled zone depends on mode.
func RenderZone(z domain.Zone, records []domain.Record, mode DisabledZoneMode) string {
	if z.IsDisabled() && mode == DisabledZoneEmpty {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "$ORIGIN %s\n", z.Origin())
	fmt.Fprintf(&b, "$TTL %d\n", z.DefaultTTL)
	writeSOA(&b, z)
	if z.IsDisabled() {
		return b.String()
	}

	active := make([]domain.Record, 0, len(records))
	for _, rec := range records {
		if rec.IsActive() {
			active = append(active, rec)
		}
	}
	slices.SortFunc(active, domain.CompareRecords)
	for _, rec := range active {
		b.WriteString(utils.ToASCIIName(rec.Name))
		b.WriteByte(' ')
		b.WriteString(strconv.FormatUint(uint64(rec.TTL), 10))
		b.WriteString(" IN ")
		b.WriteString(rec.Type.String())
		b.WriteByte(' ')
		b.WriteString(rrdata.Present(rec.Type, rec.Value))
		b.WriteByte('\n')
	}
	return b.String()
}

func writeSOA(b *strings.Builder, z domain.Zone) {
	soa := z.SOA
	fmt.Fprintf(b, "@ %d IN SOA %s %s %d %d %d %d %d\n",
		soa.TTL,
		orRoot(utils.ToASCIIName(soa.MName)),
		orRoot(utils.ToASCIIName(utils.MailboxToDomainName(soa.RName))),
		soa.Serial, soa.Refresh, soa.Retry, soa.Expire, soa.Minimum,
	)
}

// orRoot substitutes the root name for a blank SOA name field.
func orRoot(name string) string {
	if name == "" {
		return "."
	}
	return name
}
