package zonerender

// Cache holds rendered output keyed by zone ID and a content stamp.
type Cache interface {
	Get(zoneID, stamp string) (string, bool)
	Put(zoneID, stamp, text string)
	Len() int
	Stats() (hits, misses, evictions uint64)
}
