package ot

import "errors"

// ErrPrecondition is returned by Operation.Apply when the operation cannot
// be applied to the document it is given: an insert position past the end
// of the document, or a delete whose stored text no longer matches the
// document at that position.
var ErrPrecondition = errors.New("ot: precondition violated")

// ErrProtocol is returned by Site.RemoteOp when an incoming record
// contradicts the site's vector time or outstanding queue (§4.5 of the
// design). It signals that records arrived out of order, were duplicated,
// or that the two replicas have already diverged; the site offers no
// local recovery from it.
var ErrProtocol = errors.New("ot: protocol violated")
