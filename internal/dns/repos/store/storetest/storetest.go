// Package storetest holds the behavior every store.Store backend must share.
package storetest

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haukened/zonekeeper/internal/dns/domain"
	"github.com/haukened/zonekeeper/internal/dns/repos/store"
)

// Run exercises a backend. open must return a fresh, empty store.
func Run(t *testing.T, open func(t *testing.T) store.Store) {
	t.Run("ZoneRoundTrip", func(t *testing.T) { testZoneRoundTrip(t, open(t)) })
	t.Run("NotFound", func(t *testing.T) { testNotFound(t, open(t)) })
	t.Run("RecordNeedsZone", func(t *testing.T) { testRecordNeedsZone(t, open(t)) })
	t.Run("RecordsByZone", func(t *testing.T) { testRecordsByZone(t, open(t)) })
	t.Run("CascadeDelete", func(t *testing.T) { testCascadeDelete(t, open(t)) })
	t.Run("Rollback", func(t *testing.T) { testRollback(t, open(t)) })
	t.Run("ReadOnly", func(t *testing.T) { testReadOnly(t, open(t)) })
	t.Run("ReadYourWrites", func(t *testing.T) { testReadYourWrites(t, open(t)) })
	t.Run("ZonesFilter", func(t *testing.T) { testZonesFilter(t, open(t)) })
	t.Run("NamesVersion", func(t *testing.T) { testNamesVersion(t, open(t)) })
}

func zone(id, name string) domain.Zone {
	z := domain.NewZone(name)
	z.ID = id
	return z
}

func record(id, zoneID, name, value string) domain.Record {
	r := domain.NewRecord(name, domain.RRTypeA, value)
	r.ID = id
	r.ZoneID = zoneID
	return r
}

func seed(t *testing.T, st store.Store, zones []domain.Zone, records []domain.Record) {
	t.Helper()
	require.NoError(t, st.Update(func(tx store.Tx) error {
		for _, z := range zones {
			if err := tx.PutZone(z); err != nil {
				return err
			}
		}
		for _, r := range records {
			if err := tx.PutRecord(r); err != nil {
				return err
			}
		}
		return nil
	}))
}

func ids[T any](items []T, id func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, id(it))
	}
	slices.Sort(out)
	return out
}

func recordIDs(recs []domain.Record) []string {
	return ids(recs, func(r domain.Record) string { return r.ID })
}

func testZoneRoundTrip(t *testing.T, st store.Store) {
	z := zone("z1", "example.com")
	z.Description = "lab"
	z.SOA.MName = "ns1.example.com."
	seed(t, st, []domain.Zone{z}, nil)

	require.NoError(t, st.View(func(tx store.Tx) error {
		got, err := tx.GetZone("z1")
		require.NoError(t, err)
		assert.Equal(t, z, got)
		return nil
	}))

	z.Description = "changed"
	seed(t, st, []domain.Zone{z}, nil)
	require.NoError(t, st.View(func(tx store.Tx) error {
		got, err := tx.GetZone("z1")
		require.NoError(t, err)
		assert.Equal(t, "changed", got.Description)
		all, err := tx.Zones(nil)
		require.NoError(t, err)
		assert.Len(t, all, 1)
		return nil
	}))
}

func testNotFound(t *testing.T, st store.Store) {
	require.NoError(t, st.View(func(tx store.Tx) error {
		_, err := tx.GetZone("missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		_, err = tx.GetRecord("missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		_, err = tx.RecordsByZone("missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		return nil
	}))
	err := st.Update(func(tx store.Tx) error { return tx.DeleteZone("missing") })
	assert.ErrorIs(t, err, domain.ErrNotFound)
	err = st.Update(func(tx store.Tx) error { return tx.DeleteRecord("missing") })
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func testRecordNeedsZone(t *testing.T, st store.Store) {
	err := st.Update(func(tx store.Tx) error {
		return tx.PutRecord(record("r1", "nope", "www", "203.0.113.5"))
	})
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "zone", nf.Kind)
}

func testRecordsByZone(t *testing.T, st store.Store) {
	seed(t, st,
		[]domain.Zone{zone("z1", "a.example"), zone("z2", "b.example")},
		[]domain.Record{
			record("r1", "z1", "www", "203.0.113.1"),
			record("r2", "z1", "api", "203.0.113.2"),
			record("r3", "z2", "www", "203.0.113.3"),
		})

	require.NoError(t, st.View(func(tx store.Tx) error {
		recs, err := tx.RecordsByZone("z1")
		require.NoError(t, err)
		assert.Equal(t, []string{"r1", "r2"}, recordIDs(recs))
		return nil
	}))

	require.NoError(t, st.Update(func(tx store.Tx) error { return tx.DeleteRecord("r1") }))
	require.NoError(t, st.View(func(tx store.Tx) error {
		recs, err := tx.RecordsByZone("z1")
		require.NoError(t, err)
		assert.Equal(t, []string{"r2"}, recordIDs(recs))
		_, err = tx.GetRecord("r1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		return nil
	}))
}

func testCascadeDelete(t *testing.T, st store.Store) {
	seed(t, st,
		[]domain.Zone{zone("z1", "a.example"), zone("z2", "b.example")},
		[]domain.Record{
			record("r1", "z1", "www", "203.0.113.1"),
			record("r2", "z1", "api", "203.0.113.2"),
			record("r3", "z1", "mail", "203.0.113.3"),
			record("r4", "z2", "www", "203.0.113.4"),
		})

	require.NoError(t, st.Update(func(tx store.Tx) error { return tx.DeleteZone("z1") }))

	require.NoError(t, st.View(func(tx store.Tx) error {
		_, err := tx.GetZone("z1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		for _, id := range []string{"r1", "r2", "r3"} {
			_, err := tx.GetRecord(id)
			assert.ErrorIs(t, err, domain.ErrNotFound, id)
		}
		recs, err := tx.RecordsByZone("z2")
		require.NoError(t, err)
		assert.Equal(t, []string{"r4"}, recordIDs(recs))
		return nil
	}))
}

func testRollback(t *testing.T, st store.Store) {
	seed(t, st, []domain.Zone{zone("z1", "a.example")}, []domain.Record{record("r1", "z1", "www", "203.0.113.1")})

	boom := errors.New("boom")
	err := st.Update(func(tx store.Tx) error {
		z, err := tx.GetZone("z1")
		if err != nil {
			return err
		}
		z.BumpSerial()
		if err := tx.PutZone(z); err != nil {
			return err
		}
		if err := tx.PutRecord(record("r2", "z1", "api", "203.0.113.2")); err != nil {
			return err
		}
		if err := tx.PutZone(zone("z2", "b.example")); err != nil {
			return err
		}
		if err := tx.DeleteRecord("r1"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	require.NoError(t, st.View(func(tx store.Tx) error {
		z, err := tx.GetZone("z1")
		require.NoError(t, err)
		assert.Equal(t, uint32(1), z.SOA.Serial)
		_, err = tx.GetZone("z2")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		recs, err := tx.RecordsByZone("z1")
		require.NoError(t, err)
		assert.Equal(t, []string{"r1"}, recordIDs(recs))
		return nil
	}))
}

func testReadOnly(t *testing.T, st store.Store) {
	seed(t, st, []domain.Zone{zone("z1", "a.example")}, []domain.Record{record("r1", "z1", "www", "203.0.113.1")})
	require.NoError(t, st.View(func(tx store.Tx) error {
		assert.ErrorIs(t, tx.PutZone(zone("z2", "b.example")), store.ErrReadOnly)
		assert.ErrorIs(t, tx.DeleteZone("z1"), store.ErrReadOnly)
		assert.ErrorIs(t, tx.PutRecord(record("r2", "z1", "api", "203.0.113.2")), store.ErrReadOnly)
		assert.ErrorIs(t, tx.DeleteRecord("r1"), store.ErrReadOnly)
		return nil
	}))
}

func testReadYourWrites(t *testing.T, st store.Store) {
	require.NoError(t, st.Update(func(tx store.Tx) error {
		require.NoError(t, tx.PutZone(zone("z1", "a.example")))
		require.NoError(t, tx.PutRecord(record("r1", "z1", "www", "203.0.113.1")))

		recs, err := tx.RecordsByZone("z1")
		require.NoError(t, err)
		assert.Len(t, recs, 1)

		require.NoError(t, tx.DeleteZone("z1"))
		_, err = tx.GetRecord("r1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		all, err := tx.Zones(nil)
		require.NoError(t, err)
		assert.Empty(t, all)
		return nil
	}))
}

func testZonesFilter(t *testing.T, st store.Store) {
	disabled := zone("z2", "b.example")
	disabled.Status = domain.ZoneStatusDisabled
	seed(t, st, []domain.Zone{zone("z1", "a.example"), disabled, zone("z3", "c.example")}, nil)

	require.NoError(t, st.View(func(tx store.Tx) error {
		active, err := tx.Zones(func(z domain.Zone) bool { return z.Status == domain.ZoneStatusActive })
		require.NoError(t, err)
		assert.Equal(t, []string{"z1", "z3"}, ids(active, func(z domain.Zone) string { return z.ID }))
		return nil
	}))
}

func namesVersion(t *testing.T, st store.Store) uint64 {
	t.Helper()
	var v uint64
	require.NoError(t, st.View(func(tx store.Tx) error {
		var err error
		v, err = tx.NamesVersion()
		return err
	}))
	return v
}

func testNamesVersion(t *testing.T, st store.Store) {
	v0 := namesVersion(t, st)

	seed(t, st, []domain.Zone{zone("z1", "a.example")}, nil)
	v1 := namesVersion(t, st)
	assert.Greater(t, v1, v0, "add")

	// same name, other casing and content: no change to the name set
	z := zone("z1", "A.Example.")
	z.Description = "edited"
	seed(t, st, []domain.Zone{z}, []domain.Record{record("r1", "z1", "www", "203.0.113.1")})
	assert.Equal(t, v1, namesVersion(t, st), "content edit")

	seed(t, st, []domain.Zone{zone("z1", "b.example")}, nil)
	v2 := namesVersion(t, st)
	assert.Greater(t, v2, v1, "rename")

	boom := errors.New("boom")
	err := st.Update(func(tx store.Tx) error {
		require.NoError(t, tx.PutZone(zone("z2", "c.example")))
		seen, err := tx.NamesVersion()
		require.NoError(t, err)
		assert.Greater(t, seen, v2, "read your writes")
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, v2, namesVersion(t, st), "rollback")

	require.NoError(t, st.Update(func(tx store.Tx) error { return tx.DeleteZone("z1") }))
	assert.Greater(t, namesVersion(t, st), v2, "delete")
}
