package ot

// Record is what one site sends the other: an operation stamped with the
// vector time in effect when it was generated, and the site that generated
// it. Records are immutable once built.
type Record struct {
	FromSite uint32
	Time     VectorTime
	Op       Operation
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	return Record{FromSite: r.FromSite, Time: r.Time.Clone(), Op: r.Op.Clone()}
}
