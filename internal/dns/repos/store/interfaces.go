// Package store defines the persistence contract for zones and records.
// Backends live in subpackages: bolt (on-disk, bbolt), sqlite and memory.
package store

import (
	"errors"

	"github.com/haukened/zonekeeper/internal/dns/domain"
)

// ErrReadOnly is returned by write methods called inside a View transaction.
var ErrReadOnly = errors.New("store: write in read-only transaction")

// Tx is the set of operations available inside a transaction. Values are
// copies; mutating a returned entity has no effect until it is Put back.
type Tx interface {
	// GetZone returns the zone or a *domain.NotFoundError.
	GetZone(id string) (domain.Zone, error)
	// PutZone inserts or replaces a zone keyed by its ID.
	PutZone(z domain.Zone) error
	// DeleteZone removes the zone and every record it owns.
	DeleteZone(id string) error
	// Zones returns all zones accepted by match (all zones when match is nil).
	Zones(match func(domain.Zone) bool) ([]domain.Zone, error)

	GetRecord(id string) (domain.Record, error)
	// PutRecord inserts or replaces a record. Its zone must exist.
	PutRecord(r domain.Record) error
	DeleteRecord(id string) error
	// RecordsByZone returns the records of a zone in unspecified order, or a
	// *domain.NotFoundError when the zone does not exist.
	RecordsByZone(zoneID string) ([]domain.Record, error)

	// NamesVersion returns a counter that advances whenever a zone is added,
	// deleted or renamed. Writes that keep every zone name leave it alone.
	NamesVersion() (uint64, error)
}

// Store runs transactions. Update transactions are serialized and atomic:
// when fn returns an error nothing it wrote is kept.
type Store interface {
	View(fn func(Tx) error) error
	Update(fn func(Tx) error) error
	Close() error
}
