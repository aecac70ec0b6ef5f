package bolt

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	bbolt "go.etcd.io/bbolt"

	"github.com/haukened/zonekeeper/internal/dns/domain"
	"github.com/haukened/zonekeeper/internal/dns/repos/store"
)

var (
	bucketZones       = []byte("zones")
	bucketRecords     = []byte("records")
	bucketZoneRecords = []byte("zone_records") // zoneID 0x00 recordID -> empty
	bucketMeta        = []byte("meta")

	keyNamesVersion = []byte("names_version") // big-endian uint64
)

// boltStore implements store.Store using bbolt.
type boltStore struct {
	db *bbolt.DB
}

// New opens (or creates) a Bolt database at path and ensures buckets exist.
func New(path string) (store.Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketZones, bucketRecords, bucketZoneRecords, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &boltStore{db: db}, nil
}

func (s *boltStore) Close() error { return s.db.Close() }

func (s *boltStore) View(fn func(store.Tx) error) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		return fn(&boltTx{tx: tx})
	})
}

func (s *boltStore) Update(fn func(store.Tx) error) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return fn(&boltTx{tx: tx})
	})
}

// boltTx adapts a bbolt transaction to store.Tx.
type boltTx struct {
	tx *bbolt.Tx
}

func indexKey(zoneID, recordID string) []byte {
	k := make([]byte, 0, len(zoneID)+1+len(recordID))
	k = append(k, zoneID...)
	k = append(k, 0)
	return append(k, recordID...)
}

func indexPrefix(zoneID string) []byte {
	return append([]byte(zoneID), 0)
}

func (t *boltTx) writable() error {
	if !t.tx.Writable() {
		return store.ErrReadOnly
	}
	return nil
}

func (t *boltTx) GetZone(id string) (domain.Zone, error) {
	var z domain.Zone
	v := t.tx.Bucket(bucketZones).Get([]byte(id))
	if v == nil {
		return z, domain.NewNotFound("zone", id)
	}
	if err := json.Unmarshal(v, &z); err != nil {
		return z, fmt.Errorf("decode zone %s: %w", id, err)
	}
	return z, nil
}

func (t *boltTx) PutZone(z domain.Zone) error {
	if err := t.writable(); err != nil {
		return err
	}
	prev, err := t.GetZone(z.ID)
	renamed := err != nil || prev.CanonicalName() != z.CanonicalName()
	v, err := json.Marshal(z)
	if err != nil {
		return fmt.Errorf("encode zone %s: %w", z.ID, err)
	}
	if err := t.tx.Bucket(bucketZones).Put([]byte(z.ID), v); err != nil {
		return err
	}
	if renamed {
		return t.bumpNamesVersion()
	}
	return nil
}

func (t *boltTx) DeleteZone(id string) error {
	if err := t.writable(); err != nil {
		return err
	}
	zones := t.tx.Bucket(bucketZones)
	if zones.Get([]byte(id)) == nil {
		return domain.NewNotFound("zone", id)
	}

	// collect first; deleting under a live cursor skips keys
	idx := t.tx.Bucket(bucketZoneRecords)
	prefix := indexPrefix(id)
	var keys [][]byte
	c := idx.Cursor()
	for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
		kk := make([]byte, len(k))
		copy(kk, k)
		keys = append(keys, kk)
	}
	records := t.tx.Bucket(bucketRecords)
	for _, k := range keys {
		if err := records.Delete(k[len(prefix):]); err != nil {
			return err
		}
		if err := idx.Delete(k); err != nil {
			return err
		}
	}
	if err := zones.Delete([]byte(id)); err != nil {
		return err
	}
	return t.bumpNamesVersion()
}

func (t *boltTx) NamesVersion() (uint64, error) {
	v := t.tx.Bucket(bucketMeta).Get(keyNamesVersion)
	if v == nil {
		return 0, nil
	}
	if len(v) != 8 {
		return 0, fmt.Errorf("decode names version: %d bytes", len(v))
	}
	return binary.BigEndian.Uint64(v), nil
}

func (t *boltTx) bumpNamesVersion() error {
	n, err := t.NamesVersion()
	if err != nil {
		return err
	}
	return t.tx.Bucket(bucketMeta).Put(keyNamesVersion, binary.BigEndian.AppendUint64(nil, n+1))
}

func (t *boltTx) Zones(match func(domain.Zone) bool) ([]domain.Zone, error) {
	var out []domain.Zone
	err := t.tx.Bucket(bucketZones).ForEach(func(k, v []byte) error {
		var z domain.Zone
		if err := json.Unmarshal(v, &z); err != nil {
			return fmt.Errorf("decode zone %s: %w", k, err)
		}
		if match == nil || match(z) {
			out = append(out, z)
		}
		return nil
	})
	return out, err
}

func (t *boltTx) GetRecord(id string) (domain.Record, error) {
	var r domain.Record
	v := t.tx.Bucket(bucketRecords).Get([]byte(id))
	if v == nil {
		return r, domain.NewNotFound("record", id)
	}
	if err := json.Unmarshal(v, &r); err != nil {
		return r, fmt.Errorf("decode record %s: %w", id, err)
	}
	return r, nil
}

func (t *boltTx) PutRecord(r domain.Record) error {
	if err := t.writable(); err != nil {
		return err
	}
	if t.tx.Bucket(bucketZones).Get([]byte(r.ZoneID)) == nil {
		return domain.NewNotFound("zone", r.ZoneID)
	}
	idx := t.tx.Bucket(bucketZoneRecords)
	if prev, err := t.GetRecord(r.ID); err == nil && prev.ZoneID != r.ZoneID {
		if err := idx.Delete(indexKey(prev.ZoneID, prev.ID)); err != nil {
			return err
		}
	}
	v, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode record %s: %w", r.ID, err)
	}
	if err := t.tx.Bucket(bucketRecords).Put([]byte(r.ID), v); err != nil {
		return err
	}
	return idx.Put(indexKey(r.ZoneID, r.ID), []byte{})
}

func (t *boltTx) DeleteRecord(id string) error {
	if err := t.writable(); err != nil {
		return err
	}
	r, err := t.GetRecord(id)
	if err != nil {
		return err
	}
	if err := t.tx.Bucket(bucketZoneRecords).Delete(indexKey(r.ZoneID, r.ID)); err != nil {
		return err
	}
	return t.tx.Bucket(bucketRecords).Delete([]byte(id))
}

func (t *boltTx) RecordsByZone(zoneID string) ([]domain.Record, error) {
	if t.tx.Bucket(bucketZones).Get([]byte(zoneID)) == nil {
		return nil, domain.NewNotFound("zone", zoneID)
	}
	prefix := indexPrefix(zoneID)
	var out []domain.Record
	c := t.tx.Bucket(bucketZoneRecords).Cursor()
	for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
		r, err := t.GetRecord(string(k[len(prefix):]))
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

var _ store.Store = (*boltStore)(nil)
var _ store.Tx = (*boltTx)(nil)
