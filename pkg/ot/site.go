package ot

import "fmt"

// outstandingEntry is one not-yet-acknowledged local operation, stamped
// with the local vector-time counter it was generated at.
type outstandingEntry struct {
	op    Operation
	stamp uint64
}

// Site holds one replica's state in the two-party Jupiter protocol: the
// document it owns, its vector time, its role, and the queue of local
// operations the peer has not yet acknowledged.
//
// A Site is single-threaded: LocalOp and RemoteOp are not safe to call
// concurrently. The caller is responsible for serializing them, typically
// by draining a single queue fed by the network reader and the local
// editor.
type Site struct {
	doc    *Document
	id     uint32
	client bool // role: true = client, false = server

	vt          VectorTime
	outstanding []outstandingEntry
}

// NewSite constructs a site bound to doc, identified by id, playing either
// the client or the server role. The document handle is owned exclusively
// by the returned Site from this point on.
func NewSite(doc *Document, id uint32, client bool) *Site {
	return &Site{doc: doc, id: id, client: client}
}

// Document returns the document this site owns.
func (s *Site) Document() *Document { return s.doc }

// VectorTime returns the site's current vector time.
func (s *Site) VectorTime() VectorTime { return s.vt }

// OutstandingLen returns the number of not-yet-acknowledged local
// operations queued against this site, for callers that want to expose
// queue depth (e.g. as a gauge) without reaching into its internals.
func (s *Site) OutstandingLen() int { return len(s.outstanding) }

// LocalOp applies op to the document and returns the record to transport
// to the peer. If op is a Split, its two children are enqueued as separate
// outstanding entries (and recursively so, should either child itself be a
// Split) since the pairwise transform in RemoteOp expects primitive
// operations to transform against.
func (s *Site) LocalOp(op Operation) (Record, error) {
	if err := op.Apply(s.doc); err != nil {
		return Record{}, fmt.Errorf("ot: local_op: %w", err)
	}

	record := Record{FromSite: s.id, Time: s.vt.Clone(), Op: op.Clone()}
	s.enqueueOutstanding(op, s.vt.Local)
	s.vt = s.vt.IncLocal()
	return record, nil
}

func (s *Site) enqueueOutstanding(op Operation, stamp uint64) {
	if op.Kind == KindSplit {
		s.enqueueOutstanding(*op.First, stamp)
		s.enqueueOutstanding(*op.Second, stamp)
		return
	}
	s.outstanding = append(s.outstanding, outstandingEntry{op: op.Clone(), stamp: stamp})
}

// RemoteOp incorporates a record produced by the peer. It validates the
// record against the site's vector time and outstanding queue, transforms
// it against every not-yet-acknowledged local operation, applies the
// result, and advances the remote counter.
func (s *Site) RemoteOp(record Record) error {
	if len(s.outstanding) > 0 && record.Time.Remote < s.outstanding[0].stamp {
		return fmt.Errorf("ot: remote_op: %w", ErrProtocol)
	}
	if record.Time.Remote > s.vt.Local {
		return fmt.Errorf("ot: remote_op: %w", ErrProtocol)
	}
	if record.Time.Local != s.vt.Remote {
		return fmt.Errorf("ot: remote_op: %w", ErrProtocol)
	}

	i := 0
	for i < len(s.outstanding) && s.outstanding[i].stamp < record.Time.Remote {
		i++
	}
	s.outstanding = s.outstanding[i:]

	newOp := record.Op.Clone()
	var it IT
	for idx := range s.outstanding {
		e := s.outstanding[idx]
		transformed := it.Transform(newOp, e.op, s.client)
		eNext := it.Transform(e.op, newOp, !s.client)
		newOp = transformed
		s.outstanding[idx].op = eNext
	}

	if err := newOp.Apply(s.doc); err != nil {
		return fmt.Errorf("ot: remote_op: %w", err)
	}
	s.vt = s.vt.IncRemote()
	return nil
}
