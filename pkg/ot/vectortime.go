package ot

import "fmt"

// VectorTime is a site's view of progress in the two-party protocol: Local
// counts operations this site has generated, Remote counts operations it
// has received and applied from its peer.
type VectorTime struct {
	Local  uint64
	Remote uint64
}

// Equal reports whether v and other carry the same counters.
func (v VectorTime) Equal(other VectorTime) bool {
	return v.Local == other.Local && v.Remote == other.Remote
}

// Clone returns a copy of v. VectorTime has no pointer fields, so this is
// just a value copy; kept as a method to mirror the clone() calls in
// local_op/remote_op (§4.5) rather than rely on implicit copy semantics.
func (v VectorTime) Clone() VectorTime {
	return v
}

// IncLocal returns v with Local advanced by one.
func (v VectorTime) IncLocal() VectorTime {
	v.Local++
	return v
}

// IncRemote returns v with Remote advanced by one.
func (v VectorTime) IncRemote() VectorTime {
	v.Remote++
	return v
}

// String renders the vector time as "local/remote", the form jupiter.cpp's
// to_string uses in its trace output.
func (v VectorTime) String() string {
	return fmt.Sprintf("%d/%d", v.Local, v.Remote)
}
