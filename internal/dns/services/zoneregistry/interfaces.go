package zoneregistry

// NameFilter is a probabilistic set of zone names. MightContain may return
// false positives but never false negatives for names added since Reset.
type NameFilter interface {
	Add(name string)
	MightContain(name string) bool
	Reset(names []string)
	// Approx estimates how many distinct names the filter holds.
	Approx() uint32
}

// Invalidator drops derived data (rendered output) for a zone after it changes.
type Invalidator interface {
	Invalidate(zoneID string)
}
