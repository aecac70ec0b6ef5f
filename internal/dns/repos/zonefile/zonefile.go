// Package zonefile loads declarative zone definitions from YAML, JSON or TOML
// files. A definition names one zone, its settings, and its records grouped by
// owner name and type:
//
//	zone:
//	  name: example.com
//	  soa:
//	    mname: ns1.example.com.
//	    rname: hostmaster@example.com
//	records:
//	  www:
//	    ttl: 300
//	    A: [203.0.113.5, 203.0.113.6]
//	  "@":
//	    TXT: "v=spf1 -all"
package zonefile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"

	"github.com/haukened/zonekeeper/internal/dns/domain"
)

// ErrUnsupportedFormat is returned by Load for files that are not YAML, JSON or TOML.
var ErrUnsupportedFormat = errors.New("unsupported zone file format")

// Definition is the content of one zone file. Zone and Records are drafts
// with defaults applied; neither is validated here.
type Definition struct {
	Source  string
	Zone    domain.Zone
	Records []domain.Record

	settings zoneSettings
}

type soaSettings struct {
	TTL     *uint32 `koanf:"ttl"`
	MName   *string `koanf:"mname"`
	RName   *string `koanf:"rname"`
	Serial  *uint32 `koanf:"serial"`
	Refresh *uint32 `koanf:"refresh"`
	Retry   *uint32 `koanf:"retry"`
	Expire  *uint32 `koanf:"expire"`
	Minimum *uint32 `koanf:"minimum"`
}

type zoneSettings struct {
	Name        string             `koanf:"name"`
	Type        *domain.ZoneType   `koanf:"type"`
	Status      *domain.ZoneStatus `koanf:"status"`
	DefaultTTL  *uint32            `koanf:"default_ttl"`
	AutoSerial  *bool              `koanf:"auto_serial"`
	Description *string            `koanf:"description"`
	SOA         soaSettings        `koanf:"soa"`
}

func (s zoneSettings) patch() domain.ZonePatch {
	return domain.ZonePatch{
		Type:        s.Type,
		Status:      s.Status,
		DefaultTTL:  s.DefaultTTL,
		AutoSerial:  s.AutoSerial,
		Description: s.Description,
		SOA: domain.SOAPatch{
			TTL:     s.SOA.TTL,
			MName:   s.SOA.MName,
			RName:   s.SOA.RName,
			Serial:  s.SOA.Serial,
			Refresh: s.SOA.Refresh,
			Retry:   s.SOA.Retry,
			Expire:  s.SOA.Expire,
			Minimum: s.SOA.Minimum,
		},
	}
}

// ZonePatch returns the zone settings of d as a patch, for applying a file to
// an existing zone. The name is not part of the patch.
func (d Definition) ZonePatch() domain.ZonePatch {
	return d.settings.patch()
}

func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	case ".json":
		return json.Parser()
	case ".toml":
		return toml.Parser()
	default:
		return nil
	}
}

// Load parses a single zone file.
func Load(path string) (Definition, error) {
	parser := parserFor(path)
	if parser == nil {
		return Definition{}, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return Definition{}, fmt.Errorf("failed to load zone file %s: %w", path, err)
	}

	var settings zoneSettings
	if err := k.UnmarshalWithConf("zone", &settings, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Definition{}, fmt.Errorf("zone file %s: invalid zone section: %w", path, err)
	}
	if strings.TrimSpace(settings.Name) == "" {
		return Definition{}, fmt.Errorf("zone file %s missing 'zone.name'", path)
	}

	def := Definition{
		Source:   path,
		Zone:     settings.patch().Apply(domain.NewZone(strings.TrimSpace(settings.Name))),
		settings: settings,
	}

	// owner names may contain dots, so records are read from the raw tree
	// rather than through delimited koanf paths
	raw, _ := k.Raw()["records"].(map[string]any)
	for owner, val := range raw {
		rrsets, ok := val.(map[string]any)
		if !ok {
			return Definition{}, fmt.Errorf("zone file %s: records.%s must be a map of type to values", path, owner)
		}
		recs, err := ownerRecords(owner, rrsets, def.Zone.DefaultTTL)
		if err != nil {
			return Definition{}, fmt.Errorf("zone file %s: %w", path, err)
		}
		def.Records = append(def.Records, recs...)
	}
	slices.SortFunc(def.Records, domain.CompareRecords)
	return def, nil
}

// ownerRecords builds the records of one owner name. The optional "ttl" key
// overrides the zone default for every record of the owner.
func ownerRecords(owner string, rrsets map[string]any, defaultTTL uint32) ([]domain.Record, error) {
	ttl := defaultTTL
	if v, ok := rrsets["ttl"]; ok {
		n, err := toUint32(v)
		if err != nil {
			return nil, fmt.Errorf("records.%s.ttl: %w", owner, err)
		}
		ttl = n
	}

	var out []domain.Record
	for mnemonic, val := range rrsets {
		if mnemonic == "ttl" {
			continue
		}
		t := domain.RRTypeFromString(mnemonic)
		if t == 0 {
			return nil, fmt.Errorf("records.%s: unknown record type %q", owner, mnemonic)
		}
		for _, v := range toStringValues(val) {
			r := domain.NewRecord(owner, t, v)
			r.TTL = ttl
			out = append(out, r)
		}
	}
	return out, nil
}

// toStringValues converts a parsed value (scalar or list) into non-empty
// strings. Numbers are formatted so unquoted TXT values survive YAML.
func toStringValues(val any) []string {
	switch v := val.(type) {
	case []any:
		var out []string
		for _, elem := range v {
			out = append(out, toStringValues(elem)...)
		}
		return out
	case nil:
		return nil
	default:
		s := strings.TrimSpace(fmt.Sprint(v))
		if s == "" {
			return nil
		}
		return []string{s}
	}
}

func toUint32(v any) (uint32, error) {
	var (
		n   uint64
		err error
	)
	switch x := v.(type) {
	case int:
		if x < 0 {
			return 0, fmt.Errorf("negative value %d", x)
		}
		n = uint64(x)
	case int64:
		if x < 0 {
			return 0, fmt.Errorf("negative value %d", x)
		}
		n = uint64(x)
	case uint64:
		n = x
	case float64:
		if x < 0 || x != float64(uint64(x)) {
			return 0, fmt.Errorf("invalid value %v", x)
		}
		n = uint64(x)
	case string:
		n, err = strconv.ParseUint(strings.TrimSpace(x), 10, 32)
		if err != nil {
			return 0, err
		}
	default:
		return 0, fmt.Errorf("invalid value %v", v)
	}
	if n > uint64(domain.MaxSerial) {
		return 0, fmt.Errorf("value %d out of range", n)
	}
	return uint32(n), nil
}

// LoadDir loads every supported zone file below dir in lexical path order.
// Files with other extensions are skipped.
func LoadDir(dir string) ([]Definition, error) {
	var defs []Definition
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if parserFor(path) == nil {
			return nil
		}
		def, err := Load(path)
		if err != nil {
			return err
		}
		defs = append(defs, def)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return defs, nil
}
